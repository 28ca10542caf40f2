// Package config loads bpmd's configuration the way
// cmd/andorhttp3/main.go loads the camera server's: compiled-in
// defaults via koanf's structs provider, then a YAML file override
// (missing file tolerated), then CLI -c KEY=VAL overrides applied last.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"
)

// Runtime holds the CLI-settable runtime parameters named in spec §6:
// TT, TW, FR, BN, SC, HA, LP, NT, S0FT, S0SA.
type Runtime struct {
	TT   int `yaml:"TT"`   // trigger type
	TW   int `yaml:"TW"`   // trigger window
	FR   int `yaml:"FR"`   // revolution frequency, mHz
	BN   int `yaml:"BN"`   // bunch number
	SC   int `yaml:"SC"`   // switch control mode
	HA   int `yaml:"HA"`   // holdoff after, ticks
	LP   int `yaml:"LP"`   // loop period, ms
	NT   int `yaml:"NT"`   // NTP monitoring enable (0/1)
	S0FT int `yaml:"S0FT"` // first-turn scale
	S0SA int `yaml:"S0SA"` // slow-acquisition scale
}

// Config is the full bpmd process configuration.
type Config struct {
	Addr    string  `yaml:"Addr"`
	Root    string  `yaml:"Root"`
	Facade  string  `yaml:"Facade"` // "driver" or "simulated"
	Variant string  `yaml:"Variant"` // "electron" or "brilliance"
	Runtime Runtime `yaml:"Runtime"`

	DSCIntervalMs   int     `yaml:"DSCIntervalMs"`
	DSCMaxDeviation float64 `yaml:"DSCMaxDeviation"`
	DSCIIRFactor    float64 `yaml:"DSCIIRFactor"`
	IFAngle         float64 `yaml:"IFAngle"`

	SAPeriodMs int `yaml:"SAPeriodMs"`

	InterlockXLo int32 `yaml:"InterlockXLo"`
	InterlockXHi int32 `yaml:"InterlockXHi"`
	InterlockYLo int32 `yaml:"InterlockYLo"`
	InterlockYHi int32 `yaml:"InterlockYHi"`
	CurrentThreshold int32 `yaml:"CurrentThreshold"`

	AGCUpThresholdPercent   int `yaml:"AGCUpThresholdPercent"`
	AGCDownThresholdPercent int `yaml:"AGCDownThresholdPercent"`

	StorePath string `yaml:"StorePath"`
}

// Defaults returns the compiled-in default configuration.
func Defaults() Config {
	return Config{
		Addr:    ":8000",
		Root:    "/",
		Facade:  "simulated",
		Variant: "electron",
		Runtime: Runtime{
			TT: 0, TW: 0, FR: 0, BN: 0, SC: 0, HA: 10, LP: 100, NT: 1, S0FT: 1, S0SA: 1,
		},
		DSCIntervalMs:           5000,
		DSCMaxDeviation:         2.0,
		DSCIIRFactor:            0.1,
		IFAngle:                 1.0,
		SAPeriodMs:              100,
		InterlockXLo:            -1_000_000,
		InterlockXHi:            1_000_000,
		InterlockYLo:            -1_000_000,
		InterlockYHi:            1_000_000,
		CurrentThreshold:        1000,
		AGCUpThresholdPercent:   70,
		AGCDownThresholdPercent: 20,
		StorePath:               "bpmd.store",
	}
}

// Loader mirrors cmd/andorhttp3/main.go's k/setupconfig/mkconf/printconf
// shape, generalised so bpmd's main can reuse it without copy-pasting
// koanf boilerplate.
type Loader struct {
	k *koanf.Koanf
}

// NewLoader builds a Loader with compiled-in defaults loaded, a YAML
// file override applied (a missing file is tolerated, matching the
// teacher's "no such" error check), and any "-c KEY=VAL" CLI overrides
// applied last.
func NewLoader(configFile string, cliOverrides map[string]interface{}) (*Loader, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Defaults(), "yaml"), nil); err != nil {
		return nil, fmt.Errorf("loading compiled-in defaults: %w", err)
	}
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}
	if len(cliOverrides) > 0 {
		if err := k.Load(confmap.Provider(cliOverrides, "."), nil); err != nil {
			return nil, fmt.Errorf("applying CLI overrides: %w", err)
		}
	}
	return &Loader{k: k}, nil
}

// Config unmarshals the loaded layers into a Config.
func (l *Loader) Config() (Config, error) {
	c := Config{}
	if err := l.k.Unmarshal("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// WriteYAML writes c to path as YAML, the same way mkconf does in
// cmd/andorhttp3/main.go.
func WriteYAML(path string, c Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yml.NewEncoder(f).Encode(c)
}

// PrintYAML writes c as YAML to standard output, matching the teacher's
// printconf subcommand.
func PrintYAML(c Config) {
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}
