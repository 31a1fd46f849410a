// Package clientconfig loads settings for the terminal app from
// ~/.config/bloomit/config.yaml, BLOOMIT_* environment variables and flags.
package clientconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the terminal app's configuration.
type Config struct {
	// Server is the API base URL. Ignored when Offline is set.
	Server string `mapstructure:"server"`
	// Offline runs the identity provider and catalog inside the app process.
	Offline     bool          `mapstructure:"offline"`
	LogFile     string        `mapstructure:"log_file"`
	LogLevel    string        `mapstructure:"log_level"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Keys lists every setting so callers can bind flags of the same name.
var Keys = []string{"server", "offline", "log_file", "log_level", "session_file", "timeout"}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bloomit")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "bloomit")
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("offline", false)
	v.SetDefault("log_file", filepath.Join(configDir(), "bloomit.log"))
	v.SetDefault("log_level", "info")
	v.SetDefault("session_file", filepath.Join(configDir(), "session.json"))
	v.SetDefault("timeout", 10*time.Second)
}

// Load reads the config file and environment into a Config. An explicit
// file must exist; the default one is optional. Flags already bound to v
// take precedence over both.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BLOOMIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if !c.Offline && !strings.HasPrefix(c.Server, "http://") && !strings.HasPrefix(c.Server, "https://") {
		return Config{}, fmt.Errorf("server must be an http(s) URL, got %q", c.Server)
	}
	return c, nil
}
