// Package config handles engine configuration file management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the analysis engine configuration.
type Config struct {
	// Audio capture settings
	Audio AudioConfig `json:"audio"`

	// Network endpoints
	Network NetworkConfig `json:"network"`

	// Parameter Store seed values, applied once at startup
	AGC AGCConfig `json:"agc"`

	// Monitor settings
	Monitor MonitorConfig `json:"monitor"`
}

// AudioConfig contains capture/format settings.
type AudioConfig struct {
	// SampleRate in Hz (default: 48000; 44100 also supported)
	SampleRate int `json:"sampleRate"`

	// Chunk is the frame size in samples (default: 1024)
	Chunk int `json:"chunk"`

	// WindowChunks is the ring buffer history multiple (default: 6)
	WindowChunks int `json:"windowChunks"`
}

// NetworkConfig contains the two UDP endpoints.
type NetworkConfig struct {
	// PacketAddr is where feature packets are sent (default 127.0.0.1:5005)
	PacketAddr string `json:"packetAddr"`

	// CommandAddr is where parameter updates are received (default 127.0.0.1:5006)
	CommandAddr string `json:"commandAddr"`

	// CommandTimeoutMs is saved and loaded with the file (default: 100).
	// The command listener does not read it; its receive timeout is a
	// fixed 100 ms.
	CommandTimeoutMs int `json:"commandTimeoutMs"`
}

// AGCConfig contains the startup values of the Parameter Store's band
// gains, flux sensitivity and chroma normalization mode; the AGC
// trackers themselves use the fixed per-instance parameters from
// spec.md §4.4 and are not reconfigurable at runtime.
type AGCConfig struct {
	LowGain  float64 `json:"lowGain"`
	MidGain  float64 `json:"midGain"`
	HighGain float64 `json:"highGain"`
	FluxSens float64 `json:"fluxSens"`
	NormMode string  `json:"normMode"`
}

// MonitorConfig contains debug-monitor settings.
type MonitorConfig struct {
	// SummaryIntervalSeconds between printed summaries (default: 2)
	SummaryIntervalSeconds float64 `json:"summaryIntervalSeconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:   48000,
			Chunk:        1024,
			WindowChunks: 6,
		},
		Network: NetworkConfig{
			PacketAddr:       "127.0.0.1:5005",
			CommandAddr:      "127.0.0.1:5006",
			CommandTimeoutMs: 100,
		},
		AGC: AGCConfig{
			LowGain:  0.8,
			MidGain:  0.8,
			HighGain: 0.8,
			FluxSens: 1.0,
			NormMode: "statistical",
		},
		Monitor: MonitorConfig{
			SummaryIntervalSeconds: 2.0,
		},
	}
}

// Manager handles loading and saving configuration.
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a new configuration manager.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, creating a default file if none exists.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // start with defaults, then overlay the file
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	m.config = config
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// GetPath returns the config file path.
func (m *Manager) GetPath() string {
	return m.configPath
}

// Update replaces the configuration and saves it.
func (m *Manager) Update(config *Config) error {
	m.config = config
	return m.Save()
}
