package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Scrape struct {
		// Listing page to render. Relative offer links resolve against its
		// origin.
		URL             string `yaml:"url" json:"url"`
		IntervalMinutes int    `yaml:"interval_minutes" json:"interval_minutes"`
		// Bounded wait for the listing container after navigation.
		RenderTimeoutSeconds int  `yaml:"render_timeout_seconds" json:"render_timeout_seconds"`
		Headless             bool `yaml:"headless" json:"headless"`
	} `yaml:"scrape" json:"scrape"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
