package configs

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENVIRONMENT", "PORT", "MAX_RADIUS_KM", "ALLOWED_ORIGINS", "DATABASE_URL",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.MaxRadiusKm != DefaultMaxRadiusKm {
		t.Errorf("MaxRadiusKm = %v, want %v", cfg.MaxRadiusKm, DefaultMaxRadiusKm)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty (open CORS)", cfg.AllowedOrigins)
	}
	if cfg.DatabaseDSN == "" {
		t.Error("DatabaseDSN empty, want development default")
	}
	if cfg.StorageConfigured() {
		t.Error("StorageConfigured = true with no S3 env set")
	}
}

func TestLoadConfig_PortValidation(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"valid", "9000", false},
		{"not a number", "nine-thousand", true},
		{"privileged", "80", true},
		{"too large", "70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("PORT", tt.port)

			_, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig with PORT=%q error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MaxRadius(t *testing.T) {
	tests := []struct {
		name    string
		radius  string
		want    float64
		wantErr bool
	}{
		{"override", "5000", 5000, false},
		{"fractional", "42.5", 42.5, false},
		{"not a number", "far", 0, true},
		{"negative", "-10", 0, true},
		{"zero", "0", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("MAX_RADIUS_KM", tt.radius)

			cfg, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.MaxRadiusKm != tt.want {
				t.Errorf("MaxRadiusKm = %v, want %v", cfg.MaxRadiusKm, tt.want)
			}
		})
	}
}

func TestLoadConfig_AllowedOriginsParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example ,, ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfig_DatabaseRequiredOutsideDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("LoadConfig error = %v, want DATABASE_URL requirement", err)
	}
}

func TestLoadConfig_PartialStorageConfigRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET_NAME", "avatars")

	_, err := LoadConfig()
	if err == nil || !strings.Contains(err.Error(), "S3") {
		t.Errorf("LoadConfig error = %v, want incomplete S3 configuration error", err)
	}
}

func TestLoadConfig_CompleteStorageConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET_NAME", "avatars")
	t.Setenv("S3_ENDPOINT", "https://s3.example")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.StorageConfigured() {
		t.Error("StorageConfigured = false with complete S3 env")
	}
}
