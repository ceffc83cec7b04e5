package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "alplink.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, "device: /dev/ttyUSB0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Baud != 9600 {
		t.Errorf("Baud = %d, want 9600", cfg.Baud)
	}
	if cfg.Profile != "hhl" {
		t.Errorf("Profile = %q, want hhl", cfg.Profile)
	}
	if cfg.ResendLimit != 10 || cfg.ResendLimitNAK != 5 {
		t.Errorf("resend limits = %d/%d, want 10/5", cfg.ResendLimit, cfg.ResendLimitNAK)
	}
	if cfg.DownlinkSilenceTimeout != 4500*time.Millisecond {
		t.Errorf("DownlinkSilenceTimeout = %v, want 4.5s", cfg.DownlinkSilenceTimeout)
	}
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	path := writeTempConfig(t, "device: /dev/ttyUSB1\nbaud: 19200\nprofile: prodex\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Baud != 19200 {
		t.Errorf("Baud = %d, want 19200", cfg.Baud)
	}
	if cfg.Profile != "prodex" {
		t.Errorf("Profile = %q, want prodex", cfg.Profile)
	}
}

func TestLoadRequiresDevice(t *testing.T) {
	path := writeTempConfig(t, "baud: 9600\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing device")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
