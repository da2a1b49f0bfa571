package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/province-map-tools/internal/mapproject"
)

func writeMap(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{200, 10, 10, 255})
	img.Set(1, 0, color.Black)
	img.Set(2, 0, color.RGBA{10, 200, 10, 255})

	path := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create map: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode map: %v", err)
	}
	return path
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s: %v", path, err)
	}
}

func TestRunDetectThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	var out bytes.Buffer

	if err := runDetect([]string{"-in", writeMap(t), "-project", dir}, &out); err != nil {
		t.Fatalf("runDetect failed: %v", err)
	}
	if !strings.Contains(out.String(), "2 provinces written") {
		t.Errorf("detect output: %q", out.String())
	}
	requireFile(t, filepath.Join(dir, mapproject.ShapeDataFilename))
	requireFile(t, filepath.Join(dir, mapproject.ProvinceDataFilename))
	requireFile(t, filepath.Join(dir, mapproject.InputProvinceMapFilename))

	out.Reset()
	export := filepath.Join(t.TempDir(), "render.png")
	if err := runLoad([]string{"-project", dir, "-export", export, "-quiet"}, &out); err != nil {
		t.Fatalf("runLoad failed: %v", err)
	}
	requireFile(t, export)
	if strings.Contains(out.String(), "loaded") {
		t.Errorf("quiet load printed regular output: %q", out.String())
	}
	// The boundary pixel has label 0 and is reported on load.
	if !strings.Contains(out.String(), "[WRN] ~ ") {
		t.Errorf("expected a warning line: %q", out.String())
	}

	out.Reset()
	if err := runLoad([]string{"-project", dir}, &out); err != nil {
		t.Fatalf("runLoad failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 warnings while loading") {
		t.Errorf("expected a warning summary: %q", out.String())
	}
}

func TestRunDetect_MissingArguments(t *testing.T) {
	var out bytes.Buffer
	if err := runDetect([]string{"-in", "map.png"}, &out); err == nil {
		t.Error("runDetect without -project should fail")
	}
	if err := runLoad(nil, &out); err == nil {
		t.Error("runLoad without -project should fail")
	}
}

func TestRunDetect_BadFlag(t *testing.T) {
	var out bytes.Buffer
	if err := runDetect([]string{"-conn", "6", "-in", "x", "-project", "y"}, &out); err == nil {
		t.Error("connectivity 6 should be rejected")
	}
	if err := runDetect([]string{"-h"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h: got %v, want flag.ErrHelp", err)
	}
}
