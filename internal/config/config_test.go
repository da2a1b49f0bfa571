package config

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/ironsheep/province-map-tools/internal/detection"
	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/report"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		value       string
		wantVerbose bool
		wantQuiet   bool
	}{
		{"", false, false},
		{"debug", true, false},
		{"DEBUG", true, false},
		{"quiet", false, true},
		{"info", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.value)
			cfg := FromEnv()
			if cfg.Verbose != tt.wantVerbose || cfg.Quiet != tt.wantQuiet {
				t.Errorf("got verbose=%v quiet=%v", cfg.Verbose, cfg.Quiet)
			}
			if cfg.Connectivity != detection.Conn8 {
				t.Errorf("Connectivity: got %v, want 8", cfg.Connectivity)
			}
		})
	}
}

func TestBindFlags(t *testing.T) {
	cfg := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.BindFlags(fs)

	err := fs.Parse([]string{"-verbose", "-conn", "4", "-boundary", "#FFFFFF", "-min-shape", "3", "-rules", "stray-boundary"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !cfg.Verbose || cfg.Quiet {
		t.Error("verbose flag not applied")
	}
	if cfg.Connectivity != detection.Conn4 {
		t.Errorf("Connectivity: got %v, want 4", cfg.Connectivity)
	}
	if cfg.Boundary != imaging.White {
		t.Errorf("Boundary: got %v, want white", cfg.Boundary)
	}

	opts := cfg.DetectionOptions(nil)
	if opts.MinShapeSize != 3 || opts.Rules != detection.RuleStrayBoundary {
		t.Errorf("DetectionOptions: got %+v", opts)
	}
}

func TestDetectionOptions_SmallShapeRule(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		rules detection.Rule
	}{
		{"default rules", []string{"-min-shape", "3"}, detection.DefaultRules | detection.RuleSmallShape},
		{"explicit none", []string{"-min-shape", "3", "-rules", "none"}, 0},
		{"explicit small shape", []string{"-min-shape", "3", "-rules", "small-shape"}, detection.RuleSmallShape},
		{"no minimum", []string{}, detection.DefaultRules},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			cfg.BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := cfg.DetectionOptions(nil).Rules; got != tt.rules {
				t.Errorf("Rules: got %v, want %v", got, tt.rules)
			}
		})
	}
}

func TestSetRules(t *testing.T) {
	cfg := Default()
	cfg.MinShapeSize = 10
	cfg.SetRules(0)
	if got := cfg.DetectionOptions(nil).Rules; got != 0 {
		t.Errorf("Rules: got %v, want none", got)
	}
}

func TestBindFlags_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"-conn", "6"},
		{"-boundary", "black"},
		{"-rules", "everything"},
	} {
		cfg := Default()
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		cfg.BindFlags(fs)
		if err := fs.Parse(args); err == nil {
			t.Errorf("Parse(%v) should fail", args)
		}
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Verbose: true}
	cfg.Logger(&buf).Debug("hello")

	if !strings.Contains(buf.String(), report.PrefixDebug+"hello") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}
