package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okrogh/thglab/internal/dynamo"
)

const (
	DefaultN1        = 1.46
	DefaultN3        = 1.47
	DefaultSeed      = 10000.0
	DefaultLength    = 2e-7
	DefaultSamples   = 100
	DefaultTolerance = 1e-6
	DefaultPoints    = 30
	DefaultMinDBeta  = 1e4
	DefaultMaxDBeta  = 1e10
)

type Config struct {
	N1            float64     `yaml:"n1"`
	N3            float64     `yaml:"n3"`
	Loss          float64     `yaml:"loss"`
	SeedAmplitude float64     `yaml:"seed_amplitude"`
	DeltaBeta     float64     `yaml:"delta_beta"`
	Length        float64     `yaml:"length"`
	Samples       int         `yaml:"samples"`
	Tolerance     float64     `yaml:"tolerance"`
	Integrator    string      `yaml:"integrator"`
	Sweep         SweepConfig `yaml:"sweep"`
	OutputDir     string      `yaml:"output_dir"`
	DataDir       string      `yaml:"data_dir"`
}

type SweepConfig struct {
	Points       int     `yaml:"points"`
	MinDeltaBeta float64 `yaml:"min_delta_beta"`
	MaxDeltaBeta float64 `yaml:"max_delta_beta"`
}

func DefaultConfig() *Config {
	return &Config{
		N1:            DefaultN1,
		N3:            DefaultN3,
		SeedAmplitude: DefaultSeed,
		DeltaBeta:     DefaultMinDBeta,
		Length:        DefaultLength,
		Samples:       DefaultSamples,
		Tolerance:     DefaultTolerance,
		Integrator:    "rk23",
		Sweep: SweepConfig{
			Points:       DefaultPoints,
			MinDeltaBeta: DefaultMinDBeta,
			MaxDeltaBeta: DefaultMaxDBeta,
		},
		OutputDir: "graphs",
		DataDir:   "data",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.N1 <= 0 || c.N3 <= 0 {
		return fmt.Errorf("refractive indices must be positive")
	}
	if c.Length <= 0 {
		return fmt.Errorf("propagation length must be positive")
	}
	if c.Samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", c.Samples)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive")
	}
	if c.Sweep.Points < 1 {
		return fmt.Errorf("sweep needs at least 1 point, got %d", c.Sweep.Points)
	}
	if c.Sweep.MinDeltaBeta <= 0 || c.Sweep.MaxDeltaBeta < c.Sweep.MinDeltaBeta {
		return fmt.Errorf("invalid sweep range [%g, %g]", c.Sweep.MinDeltaBeta, c.Sweep.MaxDeltaBeta)
	}
	return nil
}

// InitState builds the two-field launch condition: seeded fundamental,
// dark third harmonic.
func (c *Config) InitState() dynamo.State {
	return dynamo.State{complex(c.SeedAmplitude, 0), 0}
}

// SimConfig translates the file-level settings into propagation settings.
func (c *Config) SimConfig() dynamo.Config {
	sim := dynamo.DefaultConfig()
	sim.Length = c.Length
	sim.Samples = c.Samples
	sim.Tolerance = c.Tolerance
	return sim
}
