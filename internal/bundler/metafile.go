package bundler

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Metafile is the esbuild metafile structure.
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput describes one input file.
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
	Format  string           `json:"format,omitempty"`
}

// MetafileImport describes one import edge.
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// MetafileOutput describes one output file.
type MetafileOutput struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
}

// InputContrib is an input's contribution to an output.
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// ParseMetafile decodes the metafile JSON returned by esbuild.
func ParseMetafile(data string) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("parsing metafile: %w", err)
	}
	return &meta, nil
}

// Modules returns the bundled inputs sorted by name. Each module lists the
// import edges that pulled it in; entry points have none.
func (m *Metafile) Modules() []Module {
	names := make([]string, 0, len(m.Inputs))
	for name := range m.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	reasons := make(map[string][]Reason)
	for _, importer := range names {
		for _, imp := range m.Inputs[importer].Imports {
			if imp.External {
				continue
			}
			if _, ok := m.Inputs[imp.Path]; !ok {
				continue
			}
			request := imp.Original
			if request == "" {
				request = imp.Path
			}
			reasons[imp.Path] = append(reasons[imp.Path], Reason{
				Type:        imp.Kind,
				UserRequest: request,
				Module:      importer,
			})
		}
	}

	modules := make([]Module, 0, len(names))
	for _, name := range names {
		modules = append(modules, Module{
			Name:    name,
			Size:    m.Inputs[name].Bytes,
			Reasons: reasons[name],
		})
	}
	return modules
}
