package config

import "sort"

// Presets are named run configurations covering the common trade-offs:
// coarse previews, reference-accuracy runs and solver cross-checks.
var Presets = map[string]*Config{
	"preview": {
		Dt: 0.005, Duration: 2.0, Method: "recursive", Validate: true,
	},
	"accurate": {
		Dt: 0.0001, Duration: 5.0, Method: "recursive", Validate: true,
	},
	"dense": {
		Dt: 0.001, Duration: 5.0, Method: "lagrangian", Validate: true,
	},
	"long": {
		Dt: 0.001, Duration: 60.0, Method: "recursive", Validate: true,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	return &clone
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
