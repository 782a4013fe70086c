package mount

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// MiddlewareDir is the folder, relative to the route folder, holding the
// middleware descriptors.
const MiddlewareDir = "middleware"

// Descriptor is one decoded module file.
type Descriptor struct {
	// File is the descriptor path inside the route folder.
	File string `json:"-" yaml:"-"`

	// Factory is the registered module name.
	Factory string `json:"factory" yaml:"factory"`

	// Prefix is the mount path of a route module. Empty means "/".
	Prefix string `json:"prefix" yaml:"prefix"`

	// Options are handed to the factory untouched.
	Options map[string]any `json:"options" yaml:"options"`
}

func isDescriptor(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// readDescriptors decodes every descriptor directly inside dir, in lexical
// file order. A missing dir yields no descriptors.
func readDescriptors(fsys fs.FS, dir string) ([]Descriptor, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading module folder %q: %w", dir, err)
	}

	descriptors := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isDescriptor(entry.Name()) {
			continue
		}

		file := path.Join(dir, entry.Name())
		d, err := readDescriptor(fsys, file)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, nil
}

func readDescriptor(fsys fs.FS, file string) (Descriptor, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Descriptor{}, fmt.Errorf("error reading module %q: %w", file, err)
	}

	var d Descriptor
	if strings.EqualFold(path.Ext(file), ".json") {
		err = json.Unmarshal(data, &d)
	} else {
		err = yaml.Unmarshal(data, &d)
	}
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %s: %w", ErrMalformedModule, file, err)
	}

	d.File = file
	d.Factory = strings.TrimSpace(d.Factory)
	if d.Factory == "" {
		return Descriptor{}, fmt.Errorf("%w: %s: factory is required", ErrMalformedModule, file)
	}
	if d.Prefix != "" && !strings.HasPrefix(d.Prefix, "/") {
		return Descriptor{}, fmt.Errorf("%w: %s: prefix %q must start with /", ErrMalformedModule, file, d.Prefix)
	}
	if d.Prefix = strings.TrimRight(d.Prefix, "/"); d.Prefix == "" {
		d.Prefix = "/"
	}

	return d, nil
}
