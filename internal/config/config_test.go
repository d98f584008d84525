package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Input != "textsforwa.txt" {
		t.Errorf("Input = %q, want textsforwa.txt", cfg.Input)
	}
	if cfg.Output != "messages.json" {
		t.Errorf("Output = %q, want messages.json", cfg.Output)
	}
	if addr := cfg.ListenAddr(); addr != "127.0.0.1:37778" {
		t.Errorf("ListenAddr = %q", addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CHATLOG_DB", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverlay(t *testing.T) {
	t.Setenv("CHATLOG_DB", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "output: out.json\nserver:\n  port: 9000\ndatabase:\n  path: /tmp/x.db\n"
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != "out.json" {
		t.Errorf("Output = %q, want out.json", cfg.Output)
	}
	if cfg.Input != "textsforwa.txt" {
		t.Errorf("Input = %q, want default kept", cfg.Input)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Database.Path != "/tmp/x.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHATLOG_DB", "/env/chat.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/env/chat.db" {
		t.Errorf("Database.Path = %q, want /env/chat.db", cfg.Database.Path)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestDefaultPathEnv(t *testing.T) {
	t.Setenv("CHATLOG_CONFIG", "/etc/chatlog.yaml")
	p, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if p != "/etc/chatlog.yaml" {
		t.Errorf("DefaultPath = %q", p)
	}
}
