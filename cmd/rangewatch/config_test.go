package main

import (
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/lologarithm/rangewatch/alert"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	envPath := filepath.Join(dir, ".env")
	os.WriteFile(cfgPath, []byte(`{
		"Name": "garage",
		"Users": {"guest": {"Pwd": "pw", "Access": 1}},
		"Alert": {"MinDistanceCM": 30},
		"Mailgun": {"Domain": "mg.example.com", "Sender": "station@example.com", "Recipients": ["me@example.com"]},
		"Influx": {"URL": "http://influx:8086", "Org": "home", "Bucket": "stations"}
	}`), 0600)
	os.WriteFile(envPath, []byte("RANGEWATCH_UNUSED=1\nMAILGUN_API_KEY=key-from-file\n"), 0600)
	t.Setenv("INFLUXDB_TOKEN", "token-from-env")

	cfg := loadConfig(cfgPath, envPath)
	if cfg.Name != "garage" || cfg.Users["guest"].Access != AccessRead {
		t.Fatalf("cfg = %#v", cfg)
	}
	if cfg.Alert.MinDistanceCM != 30 || cfg.Alert.MaxTempF != alert.DefaultSettings.MaxTempF {
		t.Fatalf("alert settings = %#v", cfg.Alert)
	}
	if cfg.Mailgun.APIKey != "key-from-file" || !cfg.Mailgun.Enabled() {
		t.Fatalf("mailgun = %#v", cfg.Mailgun)
	}
	if cfg.Influx.Token != "token-from-env" || cfg.Influx.Bucket != "stations" {
		t.Fatalf("influx = %#v", cfg.Influx)
	}
	if cfg.StatsDir != "./stats" {
		t.Fatalf("stats dir = %q", cfg.StatsDir)
	}
}

func TestLoadConfigMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := loadConfig(filepath.Join(dir, "nope.json"), filepath.Join(dir, "nope.env"))
	if cfg.Name != "station" || cfg.Alert != alert.DefaultSettings {
		t.Fatalf("defaults = %#v", cfg)
	}
}
