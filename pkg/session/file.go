package session

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of Config. Absent fields keep their
// defaults.
type fileConfig struct {
	Protocol   string `yaml:"protocol"`
	TXFormat   string `yaml:"tx_format"`
	GapMs      *int   `yaml:"gap_ms"`
	EchoFilter *bool  `yaml:"echo_filter"`
	AutoDecode *bool  `yaml:"autodecode"`
	ShowASCII  *bool  `yaml:"show_ascii"`
}

// Load reads a YAML session file and overlays it on Defaults.
func Load(path string) (Config, error) {
	conf := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return conf, err
	}
	return overlay(conf, data)
}

func overlay(conf Config, data []byte) (Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return conf, fmt.Errorf("parse session file: %w", err)
	}
	if fc.Protocol != "" {
		p, err := ParseProtocol(fc.Protocol)
		if err != nil {
			return conf, err
		}
		conf.Protocol = p
	}
	if fc.TXFormat != "" {
		f, err := ParseTXFormat(fc.TXFormat)
		if err != nil {
			return conf, err
		}
		conf.TXFormat = f
	}
	if fc.GapMs != nil {
		if *fc.GapMs <= 0 {
			return conf, fmt.Errorf("gap_ms must be positive, got %d", *fc.GapMs)
		}
		conf.GapThreshold = time.Duration(*fc.GapMs) * time.Millisecond
	}
	if fc.EchoFilter != nil {
		conf.EchoFilter = *fc.EchoFilter
	}
	if fc.AutoDecode != nil {
		conf.AutoDecode = *fc.AutoDecode
	}
	if fc.ShowASCII != nil {
		conf.ShowASCII = *fc.ShowASCII
	}
	return conf, nil
}
