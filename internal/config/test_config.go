package config

// LoadTestConfig returns a config suitable for integration tests: local
// services, a throwaway database name, and an insecure cookie so tests can
// run over plain HTTP.
func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8081,
			PublicURL:    "http://localhost:8081",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "inkwell_test",
			User:     "test_user",
			Password: "test_password",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB:   1,
		},
		Preview: PreviewConfig{
			Secret: "test-preview-secret",
			TTLMin: 5,
		},
		Session: SessionConfig{
			CookieSecure: false,
		},
	}
}
