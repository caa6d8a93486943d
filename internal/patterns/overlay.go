package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Overlay carries site-local pattern additions, loaded once at startup.
type Overlay struct {
	Diagnostic   []Def `yaml:"diagnostic"`
	Prescriptive []Def `yaml:"prescriptive"`
	Alarm        []Def `yaml:"alarm"`
	Ungrounded   []Def `yaml:"ungrounded"`
	Grounded     []Def `yaml:"grounded"`
	Injection    []Def `yaml:"injection"`
}

// LoadOverlay reads an overlay YAML file. An empty path is not an error;
// an unreadable or malformed file is.
func LoadOverlay(path string) (Overlay, error) {
	if path == "" {
		return Overlay{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("read pattern overlay: %w", err)
	}
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overlay{}, fmt.Errorf("parse pattern overlay: %w", err)
	}
	for _, defs := range [][]Def{o.Diagnostic, o.Prescriptive, o.Alarm, o.Ungrounded, o.Grounded, o.Injection} {
		for _, d := range defs {
			if d.Name == "" || d.Pattern == "" {
				return Overlay{}, fmt.Errorf("pattern overlay: every entry needs a name and a pattern")
			}
		}
	}
	return o, nil
}
