package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk viewport/policy configuration.
type Config struct {
	ViewportWidth    float64  `yaml:"viewport_width"`
	ViewportHeight   float64  `yaml:"viewport_height"`
	AllowedSchemes   []string `yaml:"allowed_schemes"`
	AllowCrossOrigin bool     `yaml:"allow_cross_origin"`
	Origin           string   `yaml:"origin"`
}

func defaultConfig() Config {
	return Config{
		ViewportWidth:    800,
		ViewportHeight:   600,
		AllowedSchemes:   []string{"http", "https", "file"},
		AllowCrossOrigin: true,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
