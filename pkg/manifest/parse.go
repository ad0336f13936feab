// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
	"gopkg.in/yaml.v3"

	"github.com/qilletni/toolchain/pkg/cueutil"
	"github.com/qilletni/toolchain/pkg/qlerr"
	"github.com/qilletni/toolchain/pkg/version"
)

// FileName is the descriptor base name, without extension.
const FileName = "qilletni_info"

// Extensions lists recognized descriptor extensions in lookup order.
var Extensions = []string{"yml", "yaml", "cue"}

//go:embed manifest_schema.cue
var manifestSchema string

// document is the undecoded descriptor shape shared by the YAML and CUE
// decoders. Pointers distinguish absent keys from empty ones.
type document struct {
	Name           *string  `yaml:"name" json:"name,omitempty"`
	Version        *string  `yaml:"version" json:"version,omitempty"`
	Author         *string  `yaml:"author" json:"author,omitempty"`
	License        string   `yaml:"license" json:"license,omitempty"`
	Description    string   `yaml:"description" json:"description,omitempty"`
	NativeLibrary  string   `yaml:"native_library" json:"native_library,omitempty"`
	NativeProvider string   `yaml:"native_provider" json:"native_provider,omitempty"`
	Dependencies   []string `yaml:"dependencies" json:"dependencies,omitempty"`
}

// Find returns the path of the descriptor directly inside dir.
func Find(dir string) (string, error) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, FileName+"."+ext)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", qlerr.IO("stat", path, err)
		}
		if !info.IsDir() {
			return path, nil
		}
	}
	return "", &qlerr.NotFoundError{What: FileName + ".{" + strings.Join(Extensions, ",") + "}", Where: dir}
}

// Parse locates and parses the descriptor inside dir.
func Parse(dir string) (*Manifest, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return ParseFile(path)
}

// ParseFile parses the descriptor at path. The format is chosen by extension.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, qlerr.IO("read", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses descriptor content. filename selects the format (".cue"
// means CUE, anything else YAML) and is used in error messages.
func ParseBytes(data []byte, filename string) (*Manifest, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, &SyntaxError{File: filename, Err: err}
	}

	var doc document
	if strings.EqualFold(filepath.Ext(filename), ".cue") {
		result, err := cueutil.ParseAndDecodeString[document](manifestSchema, data, "#Manifest",
			cueutil.WithFilename(filepath.Base(filename)))
		if err != nil {
			return nil, &SyntaxError{File: filename, Err: err}
		}
		doc = *result.Value
	} else if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SyntaxError{File: filename, Err: err}
	}

	return doc.build(filename)
}

func (d *document) build(file string) (*Manifest, error) {
	required := []struct {
		field string
		value *string
	}{
		{"name", d.Name},
		{"version", d.Version},
		{"author", d.Author},
	}
	for _, r := range required {
		if r.value == nil || strings.TrimSpace(*r.value) == "" {
			return nil, &MissingFieldError{File: file, Field: r.field}
		}
	}

	v, err := version.Parse(strings.TrimSpace(*d.Version))
	if err != nil {
		return nil, &InvalidFieldError{File: file, Field: "version", Value: *d.Version, Reason: "expected major.minor.patch"}
	}

	if d.License != "" {
		if ok, invalid := spdxexp.ValidateLicenses([]string{d.License}); !ok {
			return nil, &InvalidFieldError{
				File: file, Field: "license", Value: d.License,
				Reason: "unknown SPDX identifier " + strings.Join(invalid, ", "),
			}
		}
	}

	m := &Manifest{
		Name:           strings.TrimSpace(*d.Name),
		Version:        v,
		Author:         *d.Author,
		License:        d.License,
		Description:    d.Description,
		NativeLibrary:  d.NativeLibrary,
		NativeProvider: d.NativeProvider,
		Dependencies:   make([]Dependency, 0, len(d.Dependencies)),
	}
	for _, raw := range d.Dependencies {
		dep, err := ParseDependency(raw)
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, dep)
	}
	return m, nil
}
