// Package config collects the runtime settings shared by the CLI and the
// MCP server: log gating and shape detection options.
package config

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/province-map-tools/internal/detection"
	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/report"
)

// EnvLogLevel selects the log level: "debug" enables verbose output,
// "quiet" suppresses regular output.
const EnvLogLevel = "PROVMAP_LOG_LEVEL"

// Config holds every user-tunable setting.
type Config struct {
	Quiet   bool
	Verbose bool

	Connectivity detection.Connectivity
	Boundary     imaging.Color
	Rules        detection.Rule
	MinShapeSize int

	// rulesSet records an explicit rule choice; see DetectionOptions.
	rulesSet bool
}

// SetRules replaces the problem rules with an explicit choice.
func (c *Config) SetRules(r detection.Rule) {
	c.Rules = r
	c.rulesSet = true
}

// Default returns the built-in settings.
func Default() Config {
	d := detection.DefaultOptions()
	return Config{
		Connectivity: d.Connectivity,
		Boundary:     d.Boundary,
		Rules:        d.Rules,
	}
}

// FromEnv starts from Default and applies the environment.
func FromEnv() Config {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Config {
	cfg := Default()
	switch strings.ToLower(strings.TrimSpace(getenv(EnvLogLevel))) {
	case "debug", "verbose":
		cfg.Verbose = true
	case "quiet":
		cfg.Quiet = true
	}
	return cfg
}

// BindFlags registers the settings on fs. Current values of c become the
// flag defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "suppress regular output")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "print debug messages")
	fs.IntVar(&c.MinShapeSize, "min-shape", c.MinShapeSize, "report shapes smaller than this many pixels (0 disables)")

	fs.Func("conn", "pixel connectivity, 4 or 8 (default "+c.Connectivity.String()+")", func(s string) error {
		conn, err := detection.ParseConnectivity(s)
		if err != nil {
			return err
		}
		c.Connectivity = conn
		return nil
	})
	fs.Func("boundary", "boundary color as #RRGGBB (default "+c.Boundary.Hex()+")", func(s string) error {
		col, err := imaging.ParseHex(s)
		if err != nil {
			return err
		}
		c.Boundary = col
		return nil
	})
	fs.Func("rules", "problem rules, comma separated (default "+c.Rules.String()+")", func(s string) error {
		r, err := detection.ParseRules(s)
		if err != nil {
			return err
		}
		c.SetRules(r)
		return nil
	})
}

// DetectionOptions converts the settings into shape finder options.
//
// A positive MinShapeSize turns on RuleSmallShape only while the rules are
// still the defaults. Rules set through SetRules or -rules are used as given,
// so "none" stays none.
func (c Config) DetectionOptions(rep report.Reporter) detection.Options {
	rules := c.Rules
	if c.MinShapeSize > 0 && !c.rulesSet {
		rules |= detection.RuleSmallShape
	}
	return detection.Options{
		Connectivity: c.Connectivity,
		Boundary:     c.Boundary,
		Rules:        rules,
		MinShapeSize: c.MinShapeSize,
		Reporter:     rep,
	}
}

// ReportOptions returns the log gating for a report.Logger.
func (c Config) ReportOptions() report.Options {
	return report.Options{Quiet: c.Quiet, Verbose: c.Verbose}
}

// Logger builds a report.Logger writing to w.
func (c Config) Logger(w io.Writer) *report.Logger {
	return report.NewLogger(w, c.ReportOptions())
}
