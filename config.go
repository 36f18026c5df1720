/*
Copyright © 2024 the mcdc authors.
This file is part of mcdc.

mcdc is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mcdc is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mcdc.  If not, see <http://www.gnu.org/licenses/>.
*/

package mcdc

import (
	"fmt"
	"math"
	"strings"

	"github.com/lnashier/viper"
)

// Config is the setup surface a run is built from: everything in
// spec.md §6's option table, loaded from a TOML/YAML file the way
// inmaputil's Cfg is loaded, or built directly by a test.
type Config struct {
	Speeds  []float64 `mapstructure:"speeds"`
	NHist   int       `mapstructure:"n_hist"`
	Output  string    `mapstructure:"output"`
	Seed    uint64    `mapstructure:"seed"`
	Stride  int64     `mapstructure:"stride"`

	ModeEigenvalue bool    `mapstructure:"mode_eigenvalue"`
	ModeK          bool    `mapstructure:"mode_k"`
	NIter          int     `mapstructure:"n_iter"`
	KInit          float64 `mapstructure:"k_init"`

	PCT        string    `mapstructure:"pct"`
	CensusTime []float64 `mapstructure:"census_time"`

	// Cells, Sources, and Tallies are built programmatically (they hold
	// interface-valued Surface/Dist fields a flat config file cannot
	// describe) and attached after loading the scalar options above.
	Cells   []*Cell   `mapstructure:"-"`
	Sources []*Source `mapstructure:"-"`
	Tallies []*Tally  `mapstructure:"-"`
}

// NewConfig returns a Config with the same factory defaults as
// NewSimulator.
func NewConfig() *Config {
	return &Config{
		Output:     "output",
		Seed:       DefaultSeed,
		Stride:     DefaultStride,
		NIter:      1,
		KInit:      1.0,
		PCT:        "SS",
		CensusTime: []float64{math.Inf(1)},
	}
}

// LoadConfig reads a TOML/YAML/JSON config file at path (any format
// viper's decoders support, selected by extension) into a Config
// seeded with NewConfig's defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("mcdc: %w: reading config %q: %v", ErrConfig, path, err)
	}
	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("mcdc: %w: decoding config %q: %v", ErrConfig, path, err)
	}
	return cfg, nil
}

// pctKindByName maps the §6 PCT option strings to PCTKind values.
func pctKindByName(name string) (PCTKind, error) {
	switch strings.ToUpper(name) {
	case "SS", "":
		return PCTSimpleSampling, nil
	case "SR":
		return PCTSplittingRoulette, nil
	case "CO":
		return PCTCombing, nil
	case "COX":
		return PCTCombingWeighted, nil
	case "DD":
		return PCTDuplicateDiscard, nil
	default:
		return 0, fmt.Errorf("mcdc: %w: unknown pct %q (want one of SS, SR, CO, COX, DD)", ErrConfig, name)
	}
}

// Validate checks the configuration-error class from spec.md §7 that a
// Config can catch on its own: speeds must be non-empty (in every mode),
// n_hist must be positive, and the PCT name must be known. The
// census_time grid is not checked here; Simulator.Validate checks its
// ordering and +Inf end when Run starts.
func (c *Config) Validate() error {
	if len(c.Speeds) == 0 {
		return fmt.Errorf("mcdc: %w: speeds must be set", ErrConfig)
	}
	if c.NHist <= 0 {
		return fmt.Errorf("mcdc: %w: n_hist must be positive", ErrConfig)
	}
	if _, err := pctKindByName(c.PCT); err != nil {
		return err
	}
	return nil
}

// BuildSimulator validates cfg and constructs a Simulator ready to
// Run, attaching the programmatically-built Cells/Sources/Tallies.
func BuildSimulator(cfg *Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pct, err := pctKindByName(cfg.PCT)
	if err != nil {
		return nil, err
	}

	sim := NewSimulator()
	sim.Speeds = cfg.Speeds
	sim.NHist = cfg.NHist
	sim.Output = cfg.Output
	sim.Seed = cfg.Seed
	sim.Stride = cfg.Stride
	sim.Cells = cfg.Cells
	sim.Sources = cfg.Sources
	sim.Tallies = cfg.Tallies
	sim.SetPCT(pct, cfg.CensusTime)

	if cfg.ModeEigenvalue {
		sim.SetKMode(cfg.NIter, cfg.KInit)
	}
	return sim, nil
}
