package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a Client backed by a widget state file, used when the plugin runs
// outside a game client. The file maps "interface.child" keys to widget state:
//
//	{"12.2": {"hidden": false}}
//
// YAML is accepted for .yaml/.yml files. The file is read on every lookup; a
// missing file means no widgets exist.
type File struct {
	path string
}

// NewFile creates a file-backed client.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

type widgetEntry struct {
	Hidden bool `json:"hidden" yaml:"hidden"`
}

// Widget implements Client.
func (f *File) Widget(id ComponentID) (*Widget, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	entries := make(map[string]widgetEntry)
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("parse widget file %s: %w", f.path, err)
	}

	for key, entry := range entries {
		parsed, err := ParseComponentID(key)
		if err != nil {
			continue
		}
		if parsed == id {
			return &Widget{ID: id, Hidden: entry.Hidden}, nil
		}
	}
	return nil, nil
}

// WriteFile stores widgets to path in the File format.
func WriteFile(path string, widgets ...Widget) error {
	entries := make(map[string]widgetEntry, len(widgets))
	for _, w := range widgets {
		entries[w.ID.String()] = widgetEntry{Hidden: w.Hidden}
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(entries)
	default:
		data, err = json.MarshalIndent(entries, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseComponentID accepts "interface.child" or the packed decimal form.
func ParseComponentID(s string) (ComponentID, error) {
	s = strings.TrimSpace(s)
	if iface, child, ok := strings.Cut(s, "."); ok {
		i, err := strconv.Atoi(iface)
		if err != nil {
			return 0, fmt.Errorf("invalid component id %q: %w", s, err)
		}
		c, err := strconv.Atoi(child)
		if err != nil {
			return 0, fmt.Errorf("invalid component id %q: %w", s, err)
		}
		return PackComponentID(i, c), nil
	}

	packed, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid component id %q: %w", s, err)
	}
	return ComponentID(packed), nil
}
