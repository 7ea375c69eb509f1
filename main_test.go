package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{"render", "scenes", "serve"} {
		if app.Command(name) == nil {
			t.Errorf("Expected command %q to be registered", name)
		}
	}
}

func TestApp_Scenes(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out

	if err := app.Run([]string{"go-pathtracer", "scenes", "--dir", t.TempDir()}); err != nil {
		t.Fatalf("scenes command failed: %v", err)
	}

	for _, name := range []string{"random", "default", "motion", "grid"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("Expected scene listing to contain %q, got:\n%s", name, out.String())
		}
	}
}

func TestApp_RenderToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "frame.png")

	app := newApp()
	args := []string{
		"go-pathtracer", "render",
		"--scene", "default",
		"--width", "32",
		"--spp", "2",
		"--depth", "3",
		"--workers", "2",
		"--out", outPath,
	}
	if err := app.Run(args); err != nil {
		t.Fatalf("render command failed: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty output file")
	}
}

func TestApp_RenderUnknownScene(t *testing.T) {
	app := newApp()
	args := []string{"go-pathtracer", "render", "--scene", "nonexistent", "--out", filepath.Join(t.TempDir(), "x.png")}
	if err := app.Run(args); err == nil {
		t.Error("Expected error for unknown scene")
	}
}
