package planner

import (
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"lambdalift/internal/cave"
)

// outerConfig mirrors the kind/def envelope viper reads before the
// planner-specific shape is unmarshalled out of it with yaml.v3.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// Config tunes the greedy planner without touching code: which
// lambda-ordering heuristic to use, how many times a stuck target may
// be replanned before giving up on it, and the probe order panic moves
// fall back to.
//
// The yaml tags are lower-case because viper lower-cases every key it
// reads, including those nested under def, before FromYaml re-marshals
// them for yaml.v3.
type Config struct {
	FromBelow bool   `mapstructure:"fromBelow" yaml:"frombelow"`
	MaxReplan int    `mapstructure:"maxReplan" yaml:"maxreplan"`
	PanicOrder string `mapstructure:"panicOrder" yaml:"panicorder"`

	// PanicMoves is derived from PanicOrder (or the default) after
	// unmarshalling; it is what the planner actually consults.
	PanicMoves []cave.Action `yaml:"-"`
}

// DefaultConfig matches spec.md's suggested replan cap and panic-move
// ordering.
func DefaultConfig(fromBelow bool) Config {
	return Config{
		FromBelow: fromBelow,
		MaxReplan: 10,
		PanicMoves: []cave.Action{
			cave.ActionUp, cave.ActionLeft, cave.ActionRight, cave.ActionDown, cave.ActionShave,
		},
	}
}

// FromYaml loads planner tuning from a YAML file shaped like:
//
//	kind: planner
//	def:
//	  fromBelow: true
//	  maxReplan: 10
//	  panicOrder: "ULRDS"
//
// in two stages: viper reads the kind/def envelope, then yaml.v3
// unmarshals the def section into Config.
func FromYaml(path string) (Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return Config{}, err
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return Config{}, err
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig(true)
	if err := yaml.Unmarshal(spec, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.PanicOrder != "" {
		cfg.PanicMoves = cfg.PanicMoves[:0]
		for _, r := range cfg.PanicOrder {
			cfg.PanicMoves = append(cfg.PanicMoves, cave.Action(r))
		}
	}
	if cfg.MaxReplan <= 0 {
		cfg.MaxReplan = 10
	}

	return cfg, nil
}
