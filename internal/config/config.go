package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eventgrove/eventgrove/internal/logger"
	"github.com/eventgrove/eventgrove/internal/store/storebuilder"
)

type HTTPConfig struct {
	Host string
	Port int
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// Config contains runtime configuration required by the service.
type Config struct {
	HTTP   HTTPConfig
	Logger logger.Config
	Store  storebuilder.Config
	Auth   AuthConfig
}

// Load reads defaults, an optional YAML file, and environment overrides
// (dot keys become underscored: store.dsn -> STORE_DSN).
func Load(configFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("logger.level", "INFO")
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", "168h")
	v.SetDefault("auth.bcryptcost", 10)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %q: %w", configFile, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	// Local dev fallback so the service runs out-of-the-box. Anything
	// beyond a laptop must set AUTH_JWTSECRET.
	if config.Auth.JWTSecret == "" {
		config.Auth.JWTSecret = "dev-secret-change-me"
	}
	if config.Store.Type == "postgres" && config.Store.DSN == "" {
		return Config{}, fmt.Errorf("store.dsn is required when store.type is postgres")
	}
	return config, nil
}
