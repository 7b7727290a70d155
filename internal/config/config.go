package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ud-control/types"
)

const (
	EnvPrefix     = "UD"
	AdminTokenEnv = "UD_ADMIN_TOKEN"
)

// LoadWithOverrides loads configuration from various sources with command-line flag overrides
func LoadWithOverrides(configPath string, flagOverrides map[string]interface{}) (*types.Config, error) {
	// .env never overrides variables already set in the process environment
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("ud")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ud")
		v.AddConfigPath("/etc/ud")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// camelCase keys do not map onto the documented variable names on their own
	bindings := map[string]string{
		"adminToken":     AdminTokenEnv,
		"deviceCert":     "UD_DEVICE_CERT",
		"deviceKey":      "UD_DEVICE_KEY",
		"hostKeytab":     "UD_HOST_KEYTAB",
		"logPath":        "UD_LOG_PATH",
		"logFormat":      "UD_LOG_FORMAT",
		"requestTimeout": "UD_REQUEST_TIMEOUT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Apply flag overrides (only set non-empty/non-zero values)
	for key, value := range flagOverrides {
		switch val := value.(type) {
		case string:
			if val != "" {
				v.Set(key, value)
			}
		case int:
			if val != 0 {
				v.Set(key, value)
			}
		case bool:
			if val {
				v.Set(key, value)
			}
		case time.Duration:
			if val != 0 {
				v.Set(key, value)
			}
		default:
			if value != nil {
				v.Set(key, value)
			}
		}
	}

	config := &types.Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server", "https://localhost:8443")
	v.SetDefault("adminToken", "")
	v.SetDefault("insecure", false)
	v.SetDefault("deviceCert", "")
	v.SetDefault("deviceKey", "")
	v.SetDefault("realm", "UD.INTERNAL")
	v.SetDefault("hostKeytab", "/etc/krb5.keytab")
	v.SetDefault("logPath", "")
	v.SetDefault("logFormat", "text")
	v.SetDefault("requestTimeout", "0s")
}

func validateConfig(config *types.Config) error {
	if config.Server == "" {
		return fmt.Errorf("server is required")
	}

	u, err := url.Parse(config.Server)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must use http:// or https:// scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL must include a host")
	}

	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat must be text or json, got %q", config.LogFormat)
	}

	if config.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must be non-negative")
	}

	return nil
}
