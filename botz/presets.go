package botz

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.botz
var presetFS embed.FS

// Preset returns the raw text of a built-in scene.
func Preset(name string) (string, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".botz"))
	if err != nil {
		return "", fmt.Errorf("unknown preset %q (have %s)", name, strings.Join(PresetNames(), ", "))
	}
	return string(data), nil
}

// PresetNames lists the built-in scenes.
func PresetNames() []string {
	entries, _ := presetFS.ReadDir("presets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".botz"))
	}
	sort.Strings(names)
	return names
}
