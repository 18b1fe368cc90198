// Package templates loads the stage template catalogue from YAML so that
// deployments can seed the registry with their own roadmap.
package templates

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

// File is the on-disk layout:
//
//	version: 1
//	stages:
//	  - id: S1
//	    name: Invention Disclosure
//	    default_poc: IP Team
//	    is_mandatory: true
//	    sla_days: 7
//	    description: ...
type File struct {
	Version int                       `yaml:"version"`
	Stages  []lifecycle.StageTemplate `yaml:"stages"`
}

// Parse decodes a template catalogue from YAML bytes.  Order in the file is
// the canonical lifecycle order.
func Parse(data []byte) ([]lifecycle.StageTemplate, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Validation(errors.ErrCodeTemplateInvalid, "template file is empty")
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decode stage templates")
	}
	if f.Version > 1 {
		return nil, errors.Validation(errors.ErrCodeTemplateInvalid, "unsupported template file version").
			WithDetail(fmt.Sprintf("version=%d", f.Version))
	}
	if len(f.Stages) == 0 {
		return nil, errors.Validation(errors.ErrCodeTemplateInvalid, "at least one stage template is required")
	}
	seen := make(map[string]struct{}, len(f.Stages))
	for i, t := range f.Stages {
		if err := t.Validate(); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("stage #%d", i+1))
		}
		if _, dup := seen[t.ID]; dup {
			return nil, errors.Validation(errors.ErrCodeTemplateInvalid, "duplicate stage template id").
				WithDetail("id=" + t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return f.Stages, nil
}

// LoadReader reads a catalogue from r.
func LoadReader(r io.Reader) ([]lifecycle.StageTemplate, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "read stage templates")
	}
	return Parse(content)
}

// LoadFile loads a catalogue from path.
func LoadFile(path string) ([]lifecycle.StageTemplate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "read stage templates").WithDetail("path=" + path)
	}
	list, err := Parse(content)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "load stage templates").WithDetail("path=" + path)
	}
	return list, nil
}

// NewRegistry builds a registry from path, or the built-in catalogue when
// path is empty.
func NewRegistry(path string) (*lifecycle.Registry, error) {
	if path == "" {
		return lifecycle.NewDefaultRegistry(), nil
	}
	list, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return lifecycle.NewRegistry(list...)
}

// Marshal renders templates in the File layout.
func Marshal(list []lifecycle.StageTemplate) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Version: 1, Stages: list}); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode stage templates")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode stage templates")
	}
	return buf.Bytes(), nil
}

//Personal.AI order the ending
