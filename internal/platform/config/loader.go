package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	platformerrors "todolist-server-go/internal/platform/errors"
)

const defaultPath = "config.yaml"

// Loader reads configuration from a yaml file with environment overrides.
type Loader struct {
	path      string
	useDotEnv bool
}

// NewLoader creates a loader for the default config path.
func NewLoader() *Loader {
	return &Loader{
		path:      defaultPath,
		useDotEnv: true,
	}
}

// WithPath overrides the config file location.
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load merges defaults, the yaml file (when present) and environment
// variables, in that order.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		_ = godotenv.Load()
	}

	cfg := Default()

	path := l.path
	if env := os.Getenv("TODOLIST_CONFIG"); env != "" {
		path = env
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.parse",
				fmt.Sprintf("invalid config file %s", path), err)
		}
	case os.IsNotExist(err):
		path = ""
	default:
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "config.read",
			fmt.Sprintf("cannot read config file %s", path), err)
	}

	applyEnv(cfg)

	if cfg.Auth.Secret == "" {
		return nil, platformerrors.New(platformerrors.KindConfig, "config.validate",
			"TODOLIST_JWT_SECRET is required")
	}
	if len(cfg.Auth.Secret) < 32 {
		return nil, platformerrors.New(platformerrors.KindConfig, "config.validate",
			"TODOLIST_JWT_SECRET must be at least 32 bytes")
	}

	return &Result{Config: cfg, Path: path}, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TODOLIST_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("TODOLIST_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TODOLIST_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("TODOLIST_REDIS_ADDR"); v != "" {
		cfg.Auth.Store.Redis.Addr = v
	}
	if v := os.Getenv("TODOLIST_REDIS_PASSWORD"); v != "" {
		cfg.Auth.Store.Redis.Password = v
	}
	if v := os.Getenv("TODOLIST_STORE_DRIVER"); v != "" {
		cfg.Auth.Store.Driver = v
	}
	if v := os.Getenv("TODOLIST_PUBLIC_URL"); v != "" {
		cfg.Web.PublicURL = v
	}

	// OAUTH_<PROVIDER>_CLIENT_ID / OAUTH_<PROVIDER>_CLIENT_SECRET
	for _, name := range []string{"google", "facebook", "naver"} {
		upper := strings.ToUpper(name)
		id := os.Getenv("OAUTH_" + upper + "_CLIENT_ID")
		secret := os.Getenv("OAUTH_" + upper + "_CLIENT_SECRET")
		if id == "" && secret == "" {
			continue
		}
		if cfg.OAuth.Providers == nil {
			cfg.OAuth.Providers = map[string]OAuthProviderConfig{}
		}
		entry := cfg.OAuth.Providers[name]
		if id != "" {
			entry.ClientID = id
		}
		if secret != "" {
			entry.ClientSecret = secret
		}
		cfg.OAuth.Providers[name] = entry
	}
}
