package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  addr: ":9090"
storage:
  dsn: "file:test.db"
auth:
  tokenSecret: "secret"
  nicknameKey: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
logging:
  level: "debug"
  format: "text"
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr %q", cfg.Server.Addr)
	}
	if cfg.Storage.DSN != "file:test.db" {
		t.Fatalf("dsn %q", cfg.Storage.DSN)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("logging %+v", cfg.Logging)
	}
	if len(cfg.Auth.NicknameKeyBytes()) != 32 {
		t.Fatalf("nickname key not decoded")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
auth:
  tokenSecret: "secret"
  nicknameKey: "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("default addr %q", cfg.Server.Addr)
	}
	if cfg.Audit.Buffer != 256 {
		t.Fatalf("default audit buffer %d", cfg.Audit.Buffer)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Fatalf("default logging %+v", cfg.Logging)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
  "auth": {
    "tokenSecret": "secret",
    "nicknameKey": "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
  }
}`)

	if _, err := Load(path); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", validYAML)
	t.Setenv("RP_SERVER__ADDR", ":7070")
	t.Setenv("RP_AUTH__TOKENSECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("environment override ignored, addr %q", cfg.Server.Addr)
	}
	if cfg.Auth.TokenSecret != "env-secret" {
		t.Fatalf("nested auth override ignored, secret %q", cfg.Auth.TokenSecret)
	}
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")

	if _, err := Load(path); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			"missing token secret",
			func(s string) string { return strings.Replace(s, `tokenSecret: "secret"`, `tokenSecret: ""`, 1) },
			"tokenSecret",
		},
		{
			"nickname key not hex",
			func(s string) string {
				return strings.Replace(s, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "zz", 1)
			},
			"nicknameKey",
		},
		{
			"nickname key wrong length",
			func(s string) string {
				return strings.Replace(s, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "0001", 1)
			},
			"32 bytes",
		},
		{
			"unknown log level",
			func(s string) string { return strings.Replace(s, `level: "debug"`, `level: "loud"`, 1) },
			"logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tc.mutate(validYAML))
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}
