// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config has the settings of a Renderer. Zero fields are filled in from
// the default tags by NewConfig and OpenConfig.
type Config struct {

	// FOV is the vertical field of view in degrees.
	FOV float32 `default:"65"`

	// Near and Far are the depth clipping planes.
	Near float32 `default:"0.1"`
	Far  float32 `default:"4096"`

	// VertexCapacity is the size of the streaming buffer in float32 values.
	VertexCapacity int `default:"65536"`

	// IndexCapacity is the size of the streaming buffer in indexes.
	IndexCapacity int `default:"16384"`

	// Subdivisions is the number of steps each segment is split into.
	Subdivisions int `default:"50"`

	// Workers is the number of goroutines tessellating segments.
	// Geometry is always submitted from the render goroutine.
	Workers int `default:"1"`

	// Handles draws the control point overlay.
	Handles bool `default:"true"`

	// ClearColor is the RGBA color the frame is cleared to.
	ClearColor [4]float32
}

// NewConfig returns a Config set from its default tags.
func NewConfig() *Config {
	cfg := &Config{}
	errors.Log(cli.SetFromDefaults(cfg))
	return cfg
}

// OpenConfig returns a Config set from its default tags and then from
// the file at path, which is YAML if its extension is .yaml or .yml and
// TOML otherwise. Unknown keys are an error. YAML keys are the field
// names in lower case.
func OpenConfig(path string) (*Config, error) {
	cfg := NewConfig()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := decodeConfig(f, filepath.Ext(path), cfg); err != nil {
		return nil, fmt.Errorf("render: config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("render: config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every setting out of range.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.FOV <= 0 || cfg.FOV >= 180 {
		errs = append(errs, fmt.Errorf("FOV %g must be in (0, 180)", cfg.FOV))
	}
	if cfg.Near <= 0 || cfg.Far <= cfg.Near {
		errs = append(errs, fmt.Errorf("need 0 < Near (%g) < Far (%g)", cfg.Near, cfg.Far))
	}
	if cfg.VertexCapacity <= 0 || cfg.IndexCapacity <= 0 {
		errs = append(errs, fmt.Errorf("capacities %d, %d must be positive", cfg.VertexCapacity, cfg.IndexCapacity))
	}
	if cfg.Subdivisions < 1 {
		errs = append(errs, fmt.Errorf("Subdivisions %d must be at least 1", cfg.Subdivisions))
	}
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("Workers %d must be at least 1", cfg.Workers))
	}
	return errors.Join(errs...)
}

func decodeConfig(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return err
		}
		return nil
	default:
		return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	}
}
