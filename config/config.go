package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"webpConverter/finder"
)

// Settings control WebP output encoding. They are fixed for the whole
// batch run.
type Settings struct {
	Quality           int // 0-100
	Lossless          bool
	Method            int // 0-6, higher is slower but smaller
	PreserveAnimation bool
}

// Options is the full effective configuration of one run.
type Options struct {
	InputDir       string
	OutputDir      string
	Type           finder.Kind
	Recursive      bool
	DeleteOriginal bool
	Workers        int
	Settings
}

// Defaults are the flag defaults, overridable through the environment.
type Defaults struct {
	Quality int `env:"CONVERTER_QUALITY" envDefault:"80"`
	Method  int `env:"CONVERTER_METHOD"  envDefault:"4"`
	Workers int `env:"CONVERTER_WORKERS" envDefault:"1"`
}

// LoadDefaults reads flag defaults from the environment.
func LoadDefaults() (*Defaults, error) {
	d := &Defaults{}
	if err := env.Parse(d); err != nil {
		return nil, fmt.Errorf("failed to load defaults from environment: %w", err)
	}
	return d, nil
}

// Validate checks the run configuration. Any error here is fatal to the
// whole run and must be reported before scanning begins.
func (o *Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", o.Quality)
	}
	if o.Method < 0 || o.Method > 6 {
		return fmt.Errorf("method must be between 0 and 6, got %d", o.Method)
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", o.Workers)
	}
	if !finder.ValidKind(o.Type) {
		return fmt.Errorf("unknown image type %q (use gif, jpg, png or all)", o.Type)
	}
	info, err := os.Stat(o.InputDir)
	if err != nil {
		return fmt.Errorf("input directory does not exist: %s", o.InputDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", o.InputDir)
	}
	return nil
}
