package logging

import "testing"

func TestDefaultConfigPerMode(t *testing.T) {
	cli := DefaultConfig(ModeCLI)
	if cli.Level == nil || *cli.Level != "error" {
		t.Fatalf("expected cli default level error, got %v", cli.Level)
	}
	if cli.Sink == nil || Sink(*cli.Sink) != SinkStderr {
		t.Fatalf("expected cli default sink stderr, got %v", cli.Sink)
	}
	mirror := DefaultConfig(ModeMirror)
	if mirror.Level == nil || *mirror.Level != "info" {
		t.Fatalf("expected mirror default level info, got %v", mirror.Level)
	}
	if mirror.Sink == nil || Sink(*mirror.Sink) != SinkFile {
		t.Fatalf("expected mirror default sink file, got %v", mirror.Sink)
	}
}

func TestWithEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogSink, "none")
	t.Setenv(EnvLogMaxBackups, "2")
	t.Setenv(EnvLogMaxAgeDays, "3")
	cfg := Config{}.WithEnv()
	if cfg.Level == nil || *cfg.Level != "debug" {
		t.Fatalf("expected level debug, got %v", cfg.Level)
	}
	if cfg.Sink == nil || *cfg.Sink != "none" {
		t.Fatalf("expected sink none, got %v", cfg.Sink)
	}
	if cfg.MaxBackups == nil || *cfg.MaxBackups != 2 {
		t.Fatalf("expected max backups 2, got %v", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays == nil || *cfg.MaxAgeDays != 3 {
		t.Fatalf("expected max age days 3, got %v", cfg.MaxAgeDays)
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	bad := "loud"
	if _, err := (Config{Level: &bad}).Normalize(); err == nil {
		t.Fatalf("expected invalid level to fail validation")
	}
	sink := " FILE "
	cfg, err := (Config{Sink: &sink}).Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Sink == nil || *cfg.Sink != "file" {
		t.Fatalf("expected sink normalized to file, got %v", cfg.Sink)
	}
}

func TestModeFromArgs(t *testing.T) {
	cases := map[string]Mode{
		"run":     ModeMirror,
		"inspect": ModeCLI,
		"":        ModeCLI,
	}
	for arg, want := range cases {
		got := ModeFromArgs([]string{"gridcast", arg})
		if got != want {
			t.Fatalf("ModeFromArgs(%q) = %v, want %v", arg, got, want)
		}
	}
}
