package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Descriptor is the on-disk description of a metadata universe. Type
// references are written as canonical type identifiers without the T: tag
// (System.Int32, Acme.Box{`0}, ``0, System.Int32@) or as "dynamic".
type Descriptor struct {
	Assemblies []AssemblyDescriptor `json:"assemblies" yaml:"assemblies"`
}

type AssemblyDescriptor struct {
	Name  string           `json:"name" yaml:"name"`
	Types []TypeDescriptor `json:"types" yaml:"types"`
}

type GenericParameterDescriptor struct {
	Name        string   `json:"name" yaml:"name"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

type ParameterDescriptor struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

type TypeDescriptor struct {
	Namespace         string                       `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name              string                       `json:"name" yaml:"name"`
	Category          string                       `json:"category,omitempty" yaml:"category,omitempty"`
	Access            string                       `json:"access,omitempty" yaml:"access,omitempty"`
	GenericParameters []GenericParameterDescriptor `json:"generic_parameters,omitempty" yaml:"generic_parameters,omitempty"`
	Base              string                       `json:"base,omitempty" yaml:"base,omitempty"`
	Interfaces        []string                     `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Attributes        []string                     `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Fields            []FieldDescriptor            `json:"fields,omitempty" yaml:"fields,omitempty"`
	Events            []FieldDescriptor            `json:"events,omitempty" yaml:"events,omitempty"`
	Properties        []PropertyDescriptor         `json:"properties,omitempty" yaml:"properties,omitempty"`
	Constructors      []ConstructorDescriptor      `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Methods           []MethodDescriptor           `json:"methods,omitempty" yaml:"methods,omitempty"`
	Nested            []TypeDescriptor             `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// FieldDescriptor describes a field or an event.
type FieldDescriptor struct {
	Name       string   `json:"name" yaml:"name"`
	Type       string   `json:"type" yaml:"type"`
	Access     string   `json:"access,omitempty" yaml:"access,omitempty"`
	Static     bool     `json:"static,omitempty" yaml:"static,omitempty"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type PropertyDescriptor struct {
	Name       string                `json:"name" yaml:"name"`
	Type       string                `json:"type" yaml:"type"`
	Parameters []ParameterDescriptor `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Access     string                `json:"access,omitempty" yaml:"access,omitempty"`
	Static     bool                  `json:"static,omitempty" yaml:"static,omitempty"`
	Attributes []string              `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Implements []string              `json:"implements,omitempty" yaml:"implements,omitempty"`
}

type ConstructorDescriptor struct {
	Parameters []ParameterDescriptor `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Access     string                `json:"access,omitempty" yaml:"access,omitempty"`
	Static     bool                  `json:"static,omitempty" yaml:"static,omitempty"`
	Attributes []string              `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type MethodDescriptor struct {
	Name              string                       `json:"name" yaml:"name"`
	Returns           string                       `json:"returns,omitempty" yaml:"returns,omitempty"`
	GenericParameters []GenericParameterDescriptor `json:"generic_parameters,omitempty" yaml:"generic_parameters,omitempty"`
	Parameters        []ParameterDescriptor        `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Access            string                       `json:"access,omitempty" yaml:"access,omitempty"`
	Static            bool                         `json:"static,omitempty" yaml:"static,omitempty"`
	Attributes        []string                     `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	// Implements lists the interface members this method implements, as
	// member identifiers on the (possibly constructed) interface:
	// M:System.IEquatable{Acme.Circle}.Equals(`0).
	Implements []string `json:"implements,omitempty" yaml:"implements,omitempty"`
}

// ReadFile reads a file, decompressing it when its name ends in .zst.
// The returned name has the .zst suffix removed.
func ReadFile(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return data, path, nil
	}

	r, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("decompressing %s: %w", path, err)
	}
	return plain, strings.TrimSuffix(path, ".zst"), nil
}

// ReadDescriptor loads a descriptor from a .json, .yaml or .yml file,
// optionally zstd-compressed (.json.zst).
func ReadDescriptor(path string) (*Descriptor, error) {
	data, name, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeDescriptor(data, filepath.Ext(name))
}

// DecodeDescriptor parses a descriptor in the format named by ext.
func DecodeDescriptor(data []byte, ext string) (*Descriptor, error) {
	var d Descriptor
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse JSON descriptor: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse YAML descriptor: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported descriptor format: %s (supported: .json, .yaml, .yml)", ext)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("descriptor validation failed: %w", err)
	}
	return &d, nil
}

// Validate checks required names and duplicate assemblies.
func (d *Descriptor) Validate() error {
	seen := make(map[string]bool)
	for i, a := range d.Assemblies {
		if a.Name == "" {
			return fmt.Errorf("assembly at index %d is missing required field 'name'", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate assembly: %s", a.Name)
		}
		seen[a.Name] = true
		for j := range a.Types {
			if err := a.Types[j].validate(a.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *TypeDescriptor) validate(where string) error {
	if t.Name == "" {
		return fmt.Errorf("type in %s is missing required field 'name'", where)
	}
	path := where + "/" + t.Name
	for _, m := range t.Methods {
		if m.Name == "" {
			return fmt.Errorf("method in %s is missing required field 'name'", path)
		}
	}
	for _, f := range t.Fields {
		if f.Name == "" || f.Type == "" {
			return fmt.Errorf("field in %s needs 'name' and 'type'", path)
		}
	}
	for i := range t.Nested {
		if err := t.Nested[i].validate(path); err != nil {
			return err
		}
	}
	return nil
}
