package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tzfinder/countryzones"
)

// Config is the country file read by tzfind.
type Config struct {
	// Archives are tried in order; the first one that loads is used.
	Archives  []string        `yaml:"archives,omitempty"`
	Countries []CountryConfig `yaml:"countries"`
}

// CountryConfig is one country of the file. An empty Default means the
// country has no default zone.
type CountryConfig struct {
	Code    string       `yaml:"code"`
	Default string       `yaml:"default,omitempty"`
	EverUTC bool         `yaml:"everutc"`
	Zones   []ZoneConfig `yaml:"zones"`
}

// ZoneConfig is one zone of a country.
type ZoneConfig struct {
	ID       string `yaml:"id"`
	Picker   bool   `yaml:"picker"`
	// NotAfter is the Unix second after which the zone is no longer used.
	NotAfter *int64 `yaml:"notafter,omitempty"`
}

// LoadConfig reads the country file at path. ${VAR} references in archive
// paths are expanded from the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, c := range cfg.Countries {
		if c.Code == "" {
			return nil, fmt.Errorf("%s: country %d has no code", path, i)
		}
	}
	for i, p := range cfg.Archives {
		cfg.Archives[i] = os.ExpandEnv(p)
	}
	return &cfg, nil
}

// Finder builds the country records of cfg against src.
func (cfg *Config) Finder(src countryzones.ZoneSource) *countryzones.Finder {
	countries := make([]*countryzones.CountryTimeZones, 0, len(cfg.Countries))
	for _, c := range cfg.Countries {
		mappings := make([]countryzones.TimeZoneMapping, len(c.Zones))
		for i, z := range c.Zones {
			mappings[i] = countryzones.TimeZoneMapping{
				ID:            z.ID,
				ShownInPicker: z.Picker,
				NotUsedAfter:  z.NotAfter,
			}
		}
		countries = append(countries, countryzones.New(c.Code, c.Default, c.EverUTC, mappings, src))
	}
	return countryzones.NewFinder(countries)
}
