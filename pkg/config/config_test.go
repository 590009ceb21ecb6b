package config

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, k := range []string{"PORT", "DB_DRIVER", "AUTH_PROVIDER", "RATE_LIMIT", "REDIS_DB"} {
			t.Setenv(k, "")
		}

		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("expected port 8080, got %q", cfg.Port)
		}
		if cfg.DBDriver != DriverPostgres {
			t.Errorf("expected postgres driver, got %q", cfg.DBDriver)
		}
		if cfg.AuthProvider != AuthJWT {
			t.Errorf("expected jwt auth, got %q", cfg.AuthProvider)
		}
		if cfg.RateLimit != 20 {
			t.Errorf("expected rate limit 20, got %v", cfg.RateLimit)
		}
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("DB_DRIVER", DriverSQLite)
		t.Setenv("REDIS_DB", "3")
		t.Setenv("RATE_LIMIT", "2.5")

		cfg := Load()

		if cfg.Port != "9000" {
			t.Errorf("expected port 9000, got %q", cfg.Port)
		}
		if cfg.DBDriver != DriverSQLite {
			t.Errorf("expected sqlite driver, got %q", cfg.DBDriver)
		}
		if cfg.RedisDB != 3 {
			t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
		}
		if cfg.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", cfg.RateLimit)
		}
	})

	t.Run("bad numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("SMTP_PORT", "smtp")

		if cfg := Load(); cfg.SMTPPort != 587 {
			t.Errorf("expected default smtp port, got %d", cfg.SMTPPort)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DBDriver:        DriverPostgres,
			PostgresConnStr: "postgres://localhost/foodhelper",
			MongoURI:        "mongodb://localhost:27017",
			AuthProvider:    AuthJWT,
			JWTSecret:       "secret",
			RateLimit:       20,
		}
	}

	tt := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "sqlite needs no postgres", mutate: func(c *Config) {
			c.DBDriver = DriverSQLite
			c.SQLitePath = ":memory:"
			c.PostgresConnStr = ""
		}},
		{name: "missing postgres", mutate: func(c *Config) { c.PostgresConnStr = "" }, wantErr: "POSTGRES_CONN_STR"},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "DB_DRIVER"},
		{name: "missing mongo", mutate: func(c *Config) { c.MongoURI = "" }, wantErr: "MONGO_URI"},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "firebase needs credentials", mutate: func(c *Config) { c.AuthProvider = AuthFirebase }, wantErr: "FIREBASE_CREDENTIALS_PATH"},
		{name: "unknown auth", mutate: func(c *Config) { c.AuthProvider = "saml" }, wantErr: "AUTH_PROVIDER"},
		{name: "bucket without public url", mutate: func(c *Config) { c.S3Bucket = "media" }, wantErr: "S3_PUBLIC_URL"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: "RATE_LIMIT"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		err := (&Config{DBDriver: DriverPostgres, AuthProvider: AuthJWT}).Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		for _, key := range []string{"POSTGRES_CONN_STR", "MONGO_URI", "JWT_SECRET"} {
			if !strings.Contains(err.Error(), key) {
				t.Errorf("expected %s in %v", key, err)
			}
		}
	})
}
