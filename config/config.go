/*
 * config.go, part of goStopping.
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config reads and writes the YAML configuration of a stopping power analysis.
package config

import (
	"fmt"
	"os"
	"runtime"

	stopping "github.com/rmera/gostopping"
	"github.com/rmera/gostopping/aggregate"
	"github.com/rmera/gostopping/analysis"
	"github.com/rmera/gostopping/fit"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDegree      = 1
	DefaultEnergyScale = stopping.EV2KeV
)

type Config struct {
	DataDir       string     `yaml:"data_dir"`
	Extensions    []string   `yaml:"extensions"`
	MinWindow     int        `yaml:"min_window"`
	MaxWindow     int        `yaml:"max_window"`
	Degree        int        `yaml:"degree"`
	CPUs          int        `yaml:"cpus"`
	Axis          [3]float64 `yaml:"axis,flow"`
	Start         [3]float64 `yaml:"start,flow"`
	EnergyScale   float64    `yaml:"energy_scale"`
	Plot          string     `yaml:"plot"`
	TrajectoryOut string     `yaml:"trajectory_out"`
	ReportOut     string     `yaml:"report_out"`
	SetupPaths    []string   `yaml:"setup_paths"`
}

func DefaultConfig() *Config {
	T := stopping.HyperchannellingTrajectory(0)
	return &Config{
		DataDir:     ".",
		Extensions:  append([]string(nil), aggregate.DefaultExtensions...),
		MinWindow:   fit.DefaultMinWindow,
		Degree:      DefaultDegree,
		CPUs:        runtime.NumCPU(),
		Axis:        T.Direction,
		Start:       T.Start,
		EnergyScale: DefaultEnergyScale,
	}
}

// Load reads the file at path. Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
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

// Validate checks the values that can't be fixed by falling back to a default.
func (c *Config) Validate() error {
	if c.Degree < 1 {
		return fmt.Errorf("degree must be at least 1, got %d", c.Degree)
	}
	if c.MinWindow < 2 || c.MinWindow < c.Degree+1 {
		return fmt.Errorf("min_window %d too small for degree %d", c.MinWindow, c.Degree)
	}
	if c.MaxWindow < 0 || (c.MaxWindow > 0 && c.MaxWindow < c.MinWindow) {
		return fmt.Errorf("max_window %d must be 0 or at least min_window (%d)", c.MaxWindow, c.MinWindow)
	}
	if c.EnergyScale <= 0 {
		return fmt.Errorf("energy_scale must be positive, got %g", c.EnergyScale)
	}
	if c.Axis == [3]float64{} {
		return fmt.Errorf("axis can't be zero")
	}
	return nil
}

// Trajectory returns the projectile trajectory described by c.
func (c *Config) Trajectory() (*stopping.Trajectory, error) {
	return stopping.NewTrajectory(c.Start, c.Axis)
}

// Options returns analysis options with the values of c.
func (c *Config) Options() (*analysis.Options, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	T, err := c.Trajectory()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	O := analysis.DefaultOptions()
	O.DataDir(c.DataDir)
	O.Extensions(c.Extensions...)
	O.MinWindow(c.MinWindow)
	O.MaxWindow(c.MaxWindow)
	O.Degree(c.Degree)
	O.CPU(c.CPUs)
	O.EnergyScale(c.EnergyScale)
	O.Trajectory(T)
	O.SetupPaths(c.SetupPaths...)
	return O, nil
}
