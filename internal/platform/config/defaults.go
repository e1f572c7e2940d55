package config

// Default returns the baseline configuration used when the config file is
// absent or leaves fields unset.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			File:  "server.log",
		},
		Web: WebConfig{
			StaticDir:      "./web",
			AllowedOrigins: []string{"http://localhost:3000"},
			PublicURL:      "http://localhost:8080",
		},
		Database: DatabaseConfig{
			DSN: "todolist.db",
		},
		Auth: AuthConfig{
			Store: StoreConfig{
				Driver: "redis",
				Redis: RedisStoreConfig{
					Addr:   "127.0.0.1:6379",
					Prefix: "refresh_token:",
				},
			},
			Cookie: CookieConfig{
				MaxAge: 24 * 60 * 60,
			},
		},
		OAuth: OAuthConfig{
			Providers: map[string]OAuthProviderConfig{},
		},
	}
}
