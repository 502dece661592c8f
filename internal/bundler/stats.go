package bundler

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Asset is one emitted file.
type Asset struct {
	// Name is the path relative to the output directory.
	Name     string
	Size     int
	Contents []byte
}

// Reason records why a module was included.
type Reason struct {
	// Type is the import kind, e.g. import-statement or require-call.
	Type string `yaml:"type" json:"type"`
	// UserRequest is the import specifier as written in source.
	UserRequest string `yaml:"userRequest" json:"userRequest"`
	// Module is the importing module.
	Module string `yaml:"module" json:"module"`
}

// Module is one input that took part in the bundle.
type Module struct {
	Name    string   `yaml:"name" json:"name"`
	Size    int      `yaml:"size" json:"size"`
	Reasons []Reason `yaml:"reasons,omitempty" json:"reasons,omitempty"`
}

// Stats is the result of one compilation.
type Stats struct {
	StartTime time.Time
	EndTime   time.Time
	Hash      string
	Assets    []Asset
	Errors    []string
	Warnings  []string
	Modules   []Module
}

// Duration returns the wall-clock compilation time.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// HasErrors reports whether the compilation produced errors.
func (s *Stats) HasErrors() bool {
	return len(s.Errors) > 0
}

// SnapshotOptions select what a snapshot includes.
type SnapshotOptions struct {
	// Source includes asset contents.
	Source bool
}

// AssetSnapshot is an asset as seen by the reporter.
type AssetSnapshot struct {
	Name   string `yaml:"name" json:"name"`
	Size   int    `yaml:"size" json:"size"`
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Snapshot is the plain-data view of Stats.
type Snapshot struct {
	// Time is the compilation time in milliseconds.
	Time     int64           `yaml:"time" json:"time"`
	Hash     string          `yaml:"hash" json:"hash"`
	Assets   []AssetSnapshot `yaml:"assets" json:"assets"`
	Errors   []string        `yaml:"errors,omitempty" json:"errors,omitempty"`
	Warnings []string        `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Modules  []Module        `yaml:"modules,omitempty" json:"modules,omitempty"`
}

// Snapshot returns the plain-data view of s.
func (s *Stats) Snapshot(opts SnapshotOptions) *Snapshot {
	snap := &Snapshot{
		Time:     s.Duration().Milliseconds(),
		Hash:     s.Hash,
		Assets:   make([]AssetSnapshot, 0, len(s.Assets)),
		Errors:   s.Errors,
		Warnings: s.Warnings,
		Modules:  s.Modules,
	}
	for _, a := range s.Assets {
		as := AssetSnapshot{Name: a.Name, Size: a.Size}
		if opts.Source {
			as.Source = string(a.Contents)
		}
		snap.Assets = append(snap.Assets, as)
	}
	return snap
}

// hashAssets returns a content hash over the assets in name order.
func hashAssets(assets []Asset) string {
	sorted := append([]Asset(nil), assets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	h := xxhash.New()
	for _, a := range sorted {
		_, _ = h.WriteString(a.Name)
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(a.Contents)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
