package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user/eclab_import_go/internal/parser"
)

// Registry holds the known techniques by key.
type Registry struct {
	techniques map[string]*Technique
}

// NewRegistry returns a registry with the CV and GC techniques.
func NewRegistry() *Registry {
	r := &Registry{techniques: make(map[string]*Technique)}
	// built-in keys never collide
	_ = r.Register(CyclicVoltammetry())
	_ = r.Register(GalvanostaticCycling())
	return r
}

// Register adds a technique. Keys and descriptors must be unique.
func (r *Registry) Register(t *Technique) error {
	if t == nil || t.Key == "" {
		return fmt.Errorf("technique must have a key")
	}
	if _, ok := r.techniques[t.Key]; ok {
		return fmt.Errorf("technique %q already registered", t.Key)
	}
	for _, other := range r.techniques {
		if other.Descriptor == t.Descriptor {
			return fmt.Errorf("descriptor of %q already registered by %q", t.Key, other.Key)
		}
	}
	r.techniques[t.Key] = t
	return nil
}

// Lookup finds a technique by key or by display name, case-insensitively.
func (r *Registry) Lookup(name string) (*Technique, error) {
	for _, t := range r.techniques {
		if strings.EqualFold(t.Key, name) || strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unknown technique %q", name)
}

// All returns the techniques sorted by key.
func (r *Registry) All() []*Technique {
	out := make([]*Technique, 0, len(r.techniques))
	for _, t := range r.techniques {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Accepts reports whether the extension of path is one a technique reads.
func (r *Registry) Accepts(path string) bool {
	ext := filepath.Ext(path)
	for _, t := range r.techniques {
		for _, e := range t.Extensions {
			if e == ext {
				return true
			}
		}
	}
	return false
}

// Detect returns the technique whose descriptor matches the export.
func (r *Registry) Detect(lines []string) (*Technique, error) {
	desc, err := parser.DescriptorLine(lines)
	if err != nil {
		return nil, err
	}
	for _, t := range r.All() {
		if t.Descriptor == desc {
			return t, nil
		}
	}
	return nil, &parser.FormatError{Technique: "supported technique", Got: strings.TrimRight(desc, "\n")}
}

// Resolve picks the technique for an export: by name, or detected from the
// descriptor line when name is empty or "auto".
func (r *Registry) Resolve(name string, lines []string) (*Technique, error) {
	if name == "" || strings.EqualFold(name, "auto") {
		return r.Detect(lines)
	}
	return r.Lookup(name)
}
