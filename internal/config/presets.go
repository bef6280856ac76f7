package config

var Presets = map[string]*Config{
	"phase_matched": {
		N1: DefaultN1, N3: DefaultN3, SeedAmplitude: DefaultSeed,
		DeltaBeta: 1e4, Length: DefaultLength, Samples: DefaultSamples,
		Tolerance: DefaultTolerance, Integrator: "rk23",
		Sweep:     SweepConfig{Points: DefaultPoints, MinDeltaBeta: DefaultMinDBeta, MaxDeltaBeta: DefaultMaxDBeta},
		OutputDir: "graphs", DataDir: "data",
	},
	"mismatched": {
		N1: DefaultN1, N3: DefaultN3, SeedAmplitude: DefaultSeed,
		DeltaBeta: 1e10, Length: DefaultLength, Samples: DefaultSamples,
		Tolerance: DefaultTolerance, Integrator: "rk23",
		Sweep:     SweepConfig{Points: DefaultPoints, MinDeltaBeta: DefaultMinDBeta, MaxDeltaBeta: DefaultMaxDBeta},
		OutputDir: "graphs", DataDir: "data",
	},
	"lossy": {
		N1: DefaultN1, N3: DefaultN3, Loss: 5e6, SeedAmplitude: DefaultSeed,
		DeltaBeta: 1e4, Length: DefaultLength, Samples: DefaultSamples,
		Tolerance: DefaultTolerance, Integrator: "rk23",
		Sweep:     SweepConfig{Points: DefaultPoints, MinDeltaBeta: DefaultMinDBeta, MaxDeltaBeta: DefaultMaxDBeta},
		OutputDir: "graphs", DataDir: "data",
	},
	"fine": {
		N1: DefaultN1, N3: DefaultN3, SeedAmplitude: DefaultSeed,
		DeltaBeta: 1e4, Length: DefaultLength, Samples: 500,
		Tolerance: 1e-9, Integrator: "rk23",
		Sweep:     SweepConfig{Points: 100, MinDeltaBeta: DefaultMinDBeta, MaxDeltaBeta: DefaultMaxDBeta},
		OutputDir: "graphs", DataDir: "data",
	},
	"coarse": {
		N1: DefaultN1, N3: DefaultN3, SeedAmplitude: DefaultSeed,
		DeltaBeta: 1e6, Length: DefaultLength, Samples: 50,
		Tolerance: 1e-4, Integrator: "rk4",
		Sweep:     SweepConfig{Points: 10, MinDeltaBeta: DefaultMinDBeta, MaxDeltaBeta: DefaultMaxDBeta},
		OutputDir: "graphs", DataDir: "data",
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
