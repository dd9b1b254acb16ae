package config

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// DefaultPreset is loaded when no preset or options file is given.
const DefaultPreset = "default"

// PresetNames returns the names of the built-in presets, sorted.
func PresetNames() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// PresetData returns the raw YAML of a built-in preset.
func PresetData(name string) ([]byte, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown preset %q: %w", name, err)
	}
	return data, nil
}

// LoadPreset builds options from the defaults, the named preset and any
// extra YAML documents layered on top.
func LoadPreset(name string, overlays ...[]byte) (*Options, error) {
	data, err := PresetData(name)
	if err != nil {
		return nil, err
	}
	docs := append([][]byte{data}, overlays...)
	opts, err := ParseOptions(docs...)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	return opts, nil
}
