package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	Content       ContentConfig  `mapstructure:"content" yaml:"content"`
	HTTP          HTTPConfig     `mapstructure:"http" yaml:"http"`
	SSH           SSHConfig      `mapstructure:"ssh" yaml:"ssh"`
	Terminal      TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	Logging       LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// ContentConfig selects the portfolio catalog.
type ContentConfig struct {
	// Path is a YAML catalog; empty serves the embedded one.
	Path  string `mapstructure:"path" yaml:"path"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

// HTTPConfig configures the web terminal.
type HTTPConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`
	BasePath       string   `mapstructure:"base_path" yaml:"base_path"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	HostKeyPath string `mapstructure:"host_key_path" yaml:"host_key_path"`
}

// TerminalConfig holds animation timings in milliseconds.
type TerminalConfig struct {
	CharDelayMS        int `mapstructure:"char_delay_ms" yaml:"char_delay_ms"`
	LineDelayMS        int `mapstructure:"line_delay_ms" yaml:"line_delay_ms"`
	FetchDurationMS    int `mapstructure:"fetch_duration_ms" yaml:"fetch_duration_ms"`
	FetchIntervalMS    int `mapstructure:"fetch_interval_ms" yaml:"fetch_interval_ms"`
	ClearDurationMS    int `mapstructure:"clear_duration_ms" yaml:"clear_duration_ms"`
	ClearIntervalMS    int `mapstructure:"clear_interval_ms" yaml:"clear_interval_ms"`
	OverlayCharDelayMS int `mapstructure:"overlay_char_delay_ms" yaml:"overlay_char_delay_ms"`
}

// LoggingConfig controls audit logging behavior.
type LoggingConfig struct {
	DisableAuditTrails bool `mapstructure:"disable_audit_trails" yaml:"disable_audit_trails"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Content: ContentConfig{
			Path:  "",
			Watch: false,
		},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			BasePath:       "",
			AllowedOrigins: []string{},
		},
		SSH: SSHConfig{
			Addr:        ":2222",
			HostKeyPath: filepath.Join(home, ".rhinoterm", "ssh_host_key"),
		},
		Terminal: TerminalConfig{
			CharDelayMS:        10,
			LineDelayMS:        50,
			FetchDurationMS:    2000,
			FetchIntervalMS:    300,
			ClearDurationMS:    1500,
			ClearIntervalMS:    300,
			OverlayCharDelayMS: 40,
		},
		Logging: LoggingConfig{
			DisableAuditTrails: false,
		},
	}, nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rhinoterm", "config.yaml"), nil
}
