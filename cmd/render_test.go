package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestRenderConfig(t *testing.T) {
	s, err := prepareScene("default", 1)
	if err != nil {
		t.Fatalf("prepareScene failed: %v", err)
	}

	tests := []struct {
		name     string
		opts     renderOptions
		expected renderer.Config
	}{
		{
			name:     "scene defaults",
			opts:     renderOptions{Workers: 3, Seed: 9},
			expected: renderer.Config{Width: 400, Height: 225, SamplesPerPixel: 100, MaxDepth: 50, NumWorkers: 3, Seed: 9},
		},
		{
			name:     "overrides",
			opts:     renderOptions{Width: 160, SPP: 4, Depth: 5, Workers: 1, Seed: 2},
			expected: renderer.Config{Width: 160, Height: 90, SamplesPerPixel: 4, MaxDepth: 5, NumWorkers: 1, Seed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderConfig(s, tt.opts); got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestRenderConfig_DefaultWorkers(t *testing.T) {
	s, err := prepareScene("default", 1)
	if err != nil {
		t.Fatalf("prepareScene failed: %v", err)
	}
	if got := renderConfig(s, renderOptions{}).NumWorkers; got < 1 {
		t.Errorf("Expected at least one worker, got %d", got)
	}
}

func TestRenderToOutput_PPMOnStdout(t *testing.T) {
	var stdout bytes.Buffer
	opts := renderOptions{Scene: "motion", Width: 8, SPP: 1, Depth: 2, Workers: 2, Seed: 3, Out: "-"}

	stats, err := renderToOutput(context.Background(), opts, &stdout)
	if err != nil {
		t.Fatalf("renderToOutput failed: %v", err)
	}

	// 8 wide at 16:9 is 4 rows: 3 header lines plus one line per pixel
	scanner := bufio.NewScanner(&stdout)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 3+8*4 {
		t.Fatalf("Expected %d lines, got %d", 3+8*4, len(lines))
	}
	if lines[0] != "P3" || lines[1] != "8 4" || lines[2] != "255" {
		t.Errorf("Unexpected header %q", strings.Join(lines[:3], "|"))
	}
	if stats.TotalPixels != 32 {
		t.Errorf("Expected 32 pixels, got %d", stats.TotalPixels)
	}
}

func TestRenderToOutput_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	opts := renderOptions{Scene: "default", Width: 16, SPP: 1, Depth: 2, Workers: 2, Seed: 1}
	_, err := renderToOutput(ctx, opts, &stdout)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Error("Expected no image output from a canceled render")
	}
}

func TestScenesTable(t *testing.T) {
	response, err := scene.ListAllScenes(t.TempDir())
	if err != nil {
		t.Fatalf("ListAllScenes failed: %v", err)
	}

	table := scenesTable(response)
	for _, name := range scene.Names() {
		if !strings.Contains(table, name) {
			t.Errorf("Expected table to list %q", name)
		}
	}
	if !strings.Contains(table, "Built-in Scenes") {
		t.Error("Expected table to show the built-in group")
	}
}
