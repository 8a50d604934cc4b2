// Package config provides configuration management for docproject.
package config

import (
	"errors"
	"fmt"
	"log"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Web server defaults
	DefaultListenPort  = 5000
	DefaultTemplateDir = "web/templates"
	DefaultDataDir     = "./data"

	MinListenPort = 1024
	MaxListenPort = 65535
)

// ErrMissingCert is returned when SSL is enabled without a certificate or key.
var ErrMissingCert = errors.New("SSL enabled but cert_file or key_file not specified in config")

// MainConfig holds the main configuration for docproject
type MainConfig struct {
	// Web interface settings
	Web *WebConfig `json:"web"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DataDir string `json:"data_dir"` // Directory holding the sqlite file
	Debug   bool   `json:"debug"`    // Verbose ORM logging
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort  int    `json:"listen_port"`
	SSL         bool   `json:"ssl"`
	CertFile    string `json:"cert_file,omitempty"`
	KeyFile     string `json:"key_file,omitempty"`
	TemplateDir string `json:"template_dir"` // Templates on disk, embedded copies are used when missing
	Debug       bool   `json:"debug"`        // gin debug mode
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion,
		Web: &WebConfig{
			ListenPort:  DefaultListenPort,
			SSL:         false,
			TemplateDir: DefaultTemplateDir,
		},
		Database: DatabaseConfig{
			DataDir: DefaultDataDir,
		},
	}
	log.Printf("[CONFIG]: MainConfig initialized (version: %s)", maincfg.AppVersion)
	return maincfg
}

// Validate checks the listen port range and the SSL file settings
func (w *WebConfig) Validate() error {
	if w.ListenPort < MinListenPort || w.ListenPort > MaxListenPort {
		return fmt.Errorf("invalid port number: %d (must be between %d and %d)", w.ListenPort, MinListenPort, MaxListenPort)
	}
	if w.SSL && (w.CertFile == "" || w.KeyFile == "") {
		return ErrMissingCert
	}
	return nil
}

// Protocol returns the URL scheme the server listens with
func (w *WebConfig) Protocol() string {
	if w.SSL {
		return "https"
	}
	return "http"
}
