package appconfig

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses DefaultConfigPath.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("content.path", cfg.Content.Path)
	v.SetDefault("content.watch", cfg.Content.Watch)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.base_path", cfg.HTTP.BasePath)
	v.SetDefault("http.allowed_origins", cfg.HTTP.AllowedOrigins)
	v.SetDefault("ssh.addr", cfg.SSH.Addr)
	v.SetDefault("ssh.host_key_path", cfg.SSH.HostKeyPath)
	v.SetDefault("terminal.char_delay_ms", cfg.Terminal.CharDelayMS)
	v.SetDefault("terminal.line_delay_ms", cfg.Terminal.LineDelayMS)
	v.SetDefault("terminal.fetch_duration_ms", cfg.Terminal.FetchDurationMS)
	v.SetDefault("terminal.fetch_interval_ms", cfg.Terminal.FetchIntervalMS)
	v.SetDefault("terminal.clear_duration_ms", cfg.Terminal.ClearDurationMS)
	v.SetDefault("terminal.clear_interval_ms", cfg.Terminal.ClearIntervalMS)
	v.SetDefault("terminal.overlay_char_delay_ms", cfg.Terminal.OverlayCharDelayMS)
	v.SetDefault("logging.disable_audit_trails", cfg.Logging.DisableAuditTrails)

	configLoaded := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, err
		}
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.HTTP.Addr) == "" && strings.TrimSpace(cfg.SSH.Addr) == "" {
		return fmt.Errorf("at least one of http.addr or ssh.addr is required")
	}
	if strings.TrimSpace(cfg.SSH.Addr) != "" && strings.TrimSpace(cfg.SSH.HostKeyPath) == "" {
		return fmt.Errorf("ssh.host_key_path is required when ssh.addr is set")
	}
	for _, origin := range cfg.HTTP.AllowedOrigins {
		parsed, err := url.Parse(strings.TrimSpace(origin))
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("http.allowed_origins entry %q must include scheme and host (e.g. https://example.com)", origin)
		}
	}
	timings := []struct {
		key   string
		value int
	}{
		{"terminal.char_delay_ms", cfg.Terminal.CharDelayMS},
		{"terminal.line_delay_ms", cfg.Terminal.LineDelayMS},
		{"terminal.fetch_duration_ms", cfg.Terminal.FetchDurationMS},
		{"terminal.fetch_interval_ms", cfg.Terminal.FetchIntervalMS},
		{"terminal.clear_duration_ms", cfg.Terminal.ClearDurationMS},
		{"terminal.clear_interval_ms", cfg.Terminal.ClearIntervalMS},
		{"terminal.overlay_char_delay_ms", cfg.Terminal.OverlayCharDelayMS},
	}
	for _, timing := range timings {
		if timing.value <= 0 {
			return fmt.Errorf("%s must be positive", timing.key)
		}
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Content.Path = expandEnv(cfg.Content.Path)
	cfg.SSH.HostKeyPath = expandEnv(cfg.SSH.HostKeyPath)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
