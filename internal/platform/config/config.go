package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Web      WebConfig      `yaml:"web" mapstructure:"web"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Auth     AuthConfig     `yaml:"auth" mapstructure:"auth"`
	OAuth    OAuthConfig    `yaml:"oauth" mapstructure:"oauth"`
}

type ServerConfig struct {
	IP   string `yaml:"ip" mapstructure:"ip"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level" mapstructure:"log_level"`
	Dir   string `yaml:"log_dir" mapstructure:"log_dir"`
	File  string `yaml:"log_file" mapstructure:"log_file"`
}

type WebConfig struct {
	StaticDir      string   `yaml:"static_dir" mapstructure:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	// PublicURL is the externally reachable base URL used to build OAuth
	// callback addresses, e.g. https://todo.example.com
	PublicURL string `yaml:"public_url" mapstructure:"public_url"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

type AuthConfig struct {
	// Secret signs both token categories. Loaded from TODOLIST_JWT_SECRET,
	// never from the yaml file.
	Secret string       `yaml:"-" mapstructure:"-"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Cookie CookieConfig `yaml:"cookie" mapstructure:"cookie"`
}

type StoreConfig struct {
	Driver string           `yaml:"driver" mapstructure:"driver"`
	TTL    time.Duration    `yaml:"ttl" mapstructure:"ttl"`
	Redis  RedisStoreConfig `yaml:"redis,omitempty" mapstructure:"redis"`
}

type RedisStoreConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`
	DB       int    `yaml:"db,omitempty" mapstructure:"db"`
	Prefix   string `yaml:"prefix,omitempty" mapstructure:"prefix"`
}

type CookieConfig struct {
	// Refresh cookie lifetime in seconds. Deliberately independent of the
	// refresh token's embedded expiry.
	MaxAge int  `yaml:"max_age" mapstructure:"max_age"`
	Secure bool `yaml:"secure" mapstructure:"secure"`
}

type OAuthConfig struct {
	Providers map[string]OAuthProviderConfig `yaml:"providers" mapstructure:"providers"`
}

type OAuthProviderConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
}
