package config

import (
	"testing"
)

func TestDetectRegistryDriver(t *testing.T) {
	tests := []struct {
		name       string
		yamlDriver string
		url        string
		want       string
	}{
		{"YAML sqlite", "sqlite", "", "sqlite"},
		{"YAML mongodb", "mongodb", "", "mongodb"},
		{"YAML SQLite uppercase", "SQLite", "", "sqlite"},
		{"YAML mongo alias", "mongo", "", "mongodb"},
		{"URL file: prefix", "", "file:/var/lib/arquitecto.db?cache=shared", "sqlite"},
		{"URL sqlite: prefix", "", "sqlite:///tmp/test.db", "sqlite"},
		{"URL mongodb:// prefix", "", "mongodb://localhost:27017", "mongodb"},
		{"URL mongodb+srv:// prefix", "", "mongodb+srv://cluster.example.net", "mongodb"},
		{"YAML overrides URL", "sqlite", "mongodb://localhost:27017", "sqlite"},
		{"empty defaults to mongodb", "", "", "mongodb"},
		{"unknown defaults to mongodb", "", "mysql://localhost/db", "mongodb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectRegistryDriver(tt.yamlDriver, tt.url)
			if got != tt.want {
				t.Errorf("detectRegistryDriver(%q, %q) = %q, want %q", tt.yamlDriver, tt.url, got, tt.want)
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	tests := []struct {
		in   string
		want Environment
	}{
		{"dev", EnvDevelopment},
		{"test", EnvTest},
		{"prod", EnvProduction},
		{"production", EnvProduction},
		{"PROD", EnvProduction},
		{"", EnvDevelopment},
		{"staging", EnvDevelopment},
	}

	for _, tt := range tests {
		if got := parseEnv(tt.in); got != tt.want {
			t.Errorf("parseEnv(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildRedisURL(t *testing.T) {
	got := buildRedisURL(RedisConfig{Host: "redis.local", Port: 6380, DB: 2})
	want := "redis://redis.local:6380/2"
	if got != want {
		t.Errorf("buildRedisURL() = %q, want %q", got, want)
	}
}
