package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOutputFormatValid(t *testing.T) {
	tests := []struct {
		format OutputFormat
		valid  bool
	}{
		{FormatYAML, true},
		{FormatJSON, true},
		{FormatTable, true},
		{OutputFormat("dir"), false},
		{OutputFormat(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.format.IsValid())
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input string
		want  OutputFormat
	}{
		{"", FormatTable},
		{"table", FormatTable},
		{"YAML", FormatYAML},
		{"yml", FormatYAML},
		{"json", FormatJSON},
		{"xml", OutputFormat("xml")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutputFormat(tt.input))
		})
	}
}

var sampleRows = []TaskRow{
	{Name: "esbuild:build", Target: "app", Kind: "async", Description: "Compile once"},
	{Name: "esbuild:watch", Target: "app", Kind: "long-running", Description: "Recompile on change"},
}

func TestWriteTasks_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTasks(&buf, sampleRows, FormatTable))

	assert.Contains(t, buf.String(), "TASK")
	assert.Contains(t, buf.String(), "esbuild:watch")
	assert.Contains(t, buf.String(), "long-running")
}

func TestWriteTasks_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTasks(&buf, sampleRows, FormatYAML))

	var got []TaskRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleRows, got)
	assert.Contains(t, buf.String(), "name: esbuild:build")
}

func TestWriteTasks_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTasks(&buf, sampleRows, FormatJSON))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "long-running", got[1]["kind"])
}

func TestWriteTasks_Unsupported(t *testing.T) {
	assert.Error(t, WriteTasks(&bytes.Buffer{}, sampleRows, OutputFormat("xml")))
}
