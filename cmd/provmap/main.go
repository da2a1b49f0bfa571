package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/province-map-tools/internal/config"
	"github.com/ironsheep/province-map-tools/internal/mapproject"
	"github.com/ironsheep/province-map-tools/internal/report"
	"github.com/ironsheep/province-map-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd, args := "serve", []string(nil)
	if len(os.Args) > 1 {
		cmd, args = os.Args[1], os.Args[2:]
	}

	var err error
	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("provmap %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage(os.Stdout)
		return
	case "serve":
		err = runServe(args)
	case "detect":
		err = runDetect(args, os.Stderr)
	case "load":
		err = runLoad(args, os.Stderr)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "provmap: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "provmap - province map detection and editing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: provmap <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve                                   Run the MCP server on stdin/stdout (default)")
	fmt.Fprintln(w, "  detect -in map.png -project dir [-inputs dir]")
	fmt.Fprintln(w, "                                          Detect provinces and save the map directory")
	fmt.Fprintln(w, "  load   -project dir [-inputs dir] [-export out.png]")
	fmt.Fprintln(w, "                                          Load a map directory and optionally render it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags: -quiet -verbose -conn 4|8 -boundary #RRGGBB -rules list -min-shape n")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug|quiet    Set log level\n", config.EnvLogLevel)
}

func runServe(args []string) error {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfg.BindFlags(fs)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logger := cfg.Logger(os.Stderr)
	logger.Debug(fmt.Sprintf("provmap MCP server %s (built %s, commit %s)", Version, BuildTime, GitCommit))

	server.Version = Version
	srv := server.New(server.WithConfig(cfg), server.WithReporter(logger))
	return srv.Run()
}

func runDetect(args []string, stderr io.Writer) error {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	inPath := fs.String("in", "", "province map image")
	projectDir := fs.String("project", "", "map directory to write")
	inputsDir := fs.String("inputs", "", "inputs root for the source image copy (default: project dir)")
	cfg.BindFlags(fs)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *projectDir == "" {
		return errors.New("missing required arguments: -in and -project")
	}
	if *inputsDir == "" {
		*inputsDir = *projectDir
	}

	logger := cfg.Logger(stderr)
	project := mapproject.New(mapproject.Dir(*inputsDir), logger)
	res, err := project.ImportFile(*inPath, cfg.DetectionOptions(logger))
	if err != nil {
		return err
	}
	rep := res.Report
	if err := project.Save(*projectDir); err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("%d provinces written to %s", project.Info().ProvinceCount(), *projectDir))
	for _, p := range rep.Problems {
		logger.Info(fmt.Sprintf("problem at (%d, %d): %s", p.Pixel.X, p.Pixel.Y, p.Rule))
	}
	if rep.Count > 0 {
		logger.Info(fmt.Sprintf("%d problem pixels %v", rep.Count, rep.ByRule()))
	}
	return nil
}

func runLoad(args []string, stderr io.Writer) error {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	projectDir := fs.String("project", "", "map directory to read")
	inputsDir := fs.String("inputs", "", "inputs root holding provinces.bmp (default: project dir)")
	exportPath := fs.String("export", "", "render provinces to this image")
	cfg.BindFlags(fs)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *projectDir == "" {
		return errors.New("missing required arguments: -project")
	}
	if *inputsDir == "" {
		*inputsDir = *projectDir
	}

	logger := cfg.Logger(stderr)
	// Only counts are needed from the recorder; the logger prints the text.
	counts := &report.Recorder{Limit: 1}
	project := mapproject.New(mapproject.Dir(*inputsDir), report.Tee(logger, counts))
	if err := project.Load(*projectDir); err != nil {
		return err
	}
	labels := project.Info().Labels()
	logger.Info(fmt.Sprintf("loaded %d provinces, %dx%d", project.Info().ProvinceCount(), labels.Width(), labels.Height()))

	if *exportPath != "" {
		if err := project.ExportGraphics(*exportPath); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("graphics written to %s", *exportPath))
	}
	if n := counts.Count(report.LevelWarning); n > 0 {
		logger.Info(fmt.Sprintf("%d warnings while loading", n))
	}
	return nil
}
