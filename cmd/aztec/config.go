// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pborman/getopt/v2"

	"github.com/unixdj/aztec"
)

// fileConfig is the defaults file.  Unset keys keep built-in defaults
// and flags override both.
type fileConfig struct {
	Encode struct {
		Structure *string `toml:"structure"`
		Layers    *int    `toml:"layers"`
		ECC       *int    `toml:"ecc"`
		Latin1    *bool   `toml:"latin1"`
	} `toml:"encode"`
	Output struct {
		Format *string `toml:"format"`
		Scale  *int    `toml:"scale"`
		Border *int    `toml:"border"`
	} `toml:"output"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/aztec/config.toml.
func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "aztec", "config.toml")
}

// loadConfig reads the defaults file at path.  A missing file is not
// an error.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// apply copies settings from cfg not given on the command line.
// The format is returned for validation by the caller.
func (cfg *fileConfig) apply() (format string, err error) {
	e, o := &cfg.Encode, &cfg.Output
	if e.Structure != nil && !getopt.IsSet('C') && !getopt.IsSet('F') {
		if g.structure, err = aztec.ParseStructure(*e.Structure); err != nil {
			return "", err
		}
	}
	if e.Layers != nil && !getopt.IsSet('l') {
		g.layers = *e.Layers
	}
	if e.ECC != nil && !getopt.IsSet('e') {
		g.ecc = *e.ECC
	}
	if e.Latin1 != nil && !getopt.IsSet('1') {
		g.latin1 = *e.Latin1
	}
	if o.Scale != nil && !getopt.IsSet('s') {
		g.scale = *o.Scale
	}
	if o.Border != nil && !getopt.IsSet('m') {
		g.border = *o.Border
	}
	if o.Format != nil && !getopt.IsSet('t') {
		format = *o.Format
	}
	return format, nil
}
