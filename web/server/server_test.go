package server

import (
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/scene"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv := NewServer(0, dir)
	srv.MaxWorkers = 2
	return srv, dir
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	srv, dir := newTestServer(t)
	writeScene(t, filepath.Join(dir, "ball.json"), "Ball")

	rec := get(t, srv, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Groups) != 2 {
		t.Fatalf("Expected built-in and file groups, got %d groups", len(response.Groups))
	}
	if response.Groups[0].Name != "Built-in Scenes" {
		t.Errorf("Expected built-in group first, got %q", response.Groups[0].Name)
	}
	if got := response.Groups[1].Scenes[0].DisplayName; got != "Ball" {
		t.Errorf("Expected scene file Ball, got %q", got)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/api/scene-config?scene=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var body struct {
		Defaults struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"defaults"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Defaults.Width != 400 || body.Defaults.Height != 225 {
		t.Errorf("Expected 400x225 defaults, got %dx%d", body.Defaults.Width, body.Defaults.Height)
	}

	if rec := get(t, srv, "/api/scene-config?scene=teapot"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown scene, got %d", rec.Code)
	}
}

func TestHandleRender_PNG(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/api/render?scene=default&width=32&spp=1&depth=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 18 {
		t.Errorf("Expected 32x18 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleRender_PPM(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/api/render?scene=motion&width=16&spp=1&depth=2&format=ppm")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n16 9\n255\n") {
		t.Errorf("Expected PPM header, got %q", rec.Body.String()[:min(20, rec.Body.Len())])
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)
	outside := filepath.Join(t.TempDir(), "outside.json")
	writeScene(t, outside, "Outside")

	testCases := []struct {
		name   string
		target string
	}{
		{"width too small", "/api/render?scene=default&width=2"},
		{"width not a number", "/api/render?scene=default&width=wide"},
		{"spp out of range", "/api/render?scene=default&spp=0"},
		{"unknown scene", "/api/render?scene=teapot&width=16"},
		{"unknown format", "/api/render?scene=default&width=16&format=gif"},
		{"path outside scene dir", "/api/render?scene=" + outside + "&width=16"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, srv, tc.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleRender_SceneFile(t *testing.T) {
	srv, dir := newTestServer(t)
	path := filepath.Join(dir, "ball.json")
	writeScene(t, path, "Ball")

	rec := get(t, srv, "/api/render?scene="+path+"&spp=1&depth=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("Expected the scene file's 20x10 size, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleRender_EmptySceneFile(t *testing.T) {
	srv, dir := newTestServer(t)
	path := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(path, []byte(`{"name": "Empty"}`), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	for _, target := range []string{
		"/api/render?scene=" + path + "&width=16",
		"/api/inspect?scene=" + path + "&width=16&x=0&y=0",
		"/api/scene-config?scene=" + path,
	} {
		rec := get(t, srv, target)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500 for %s, got %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "empty object list") {
			t.Errorf("Expected the BVH error in the body for %s, got %s", target, rec.Body.String())
		}
	}
}

func TestHandleRender_ClientGone(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/render?scene=default&width=32&spp=1&depth=2", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Body.Len() != 0 {
		t.Errorf("Expected no body for a canceled render, got %d bytes", rec.Body.Len())
	}
}

func TestHandleRenderStream(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/api/render/stream?scene=default&width=16&spp=1&depth=2")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: console") {
		t.Error("Expected console events")
	}
	if !strings.Contains(body, "event: complete") {
		t.Fatalf("Expected complete event, got:\n%s", body)
	}

	var update CompleteUpdate
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "data: ") && strings.Contains(line, "imageData") {
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &update); err != nil {
				t.Fatalf("Failed to decode complete event: %v", err)
			}
		}
	}
	if update.ImageData == "" {
		t.Error("Expected image data in complete event")
	}
	if update.Stats.TotalPixels != 16*9 {
		t.Errorf("Expected %d pixels, got %d", 16*9, update.Stats.TotalPixels)
	}
}

func TestHandleRenderStream_Error(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/api/render/stream?scene=teapot")

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected error event, got:\n%s", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	srv, _ := newTestServer(t)

	// The default camera looks straight at the red diffuse sphere
	rec := get(t, srv, "/api/inspect?scene=default&width=32&x=16&y=9")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Hit {
		t.Fatal("Expected center pixel to hit an object")
	}
	if response.MaterialType != "lambertian" || response.GeometryType != "sphere" {
		t.Errorf("Expected lambertian sphere, got %s %s", response.MaterialType, response.GeometryType)
	}
	if !response.FrontFace {
		t.Error("Expected a front face hit")
	}

	for _, target := range []string{
		"/api/inspect?scene=default&width=32&x=32&y=0",
		"/api/inspect?scene=default&width=32&x=0&y=-1",
		"/api/inspect?scene=default&width=32&x=a&y=0",
	} {
		if rec := get(t, srv, target); rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %s, got %d", target, rec.Code)
		}
	}
}

func TestConsole_Printf(t *testing.T) {
	events := make(chan SSEEvent, 1)
	c := newConsole(events)

	c.Printf("rendered %d rows", 3)
	// A full channel drops the message instead of blocking
	c.Printf("dropped")

	event := <-events
	if event.Type != "console" {
		t.Errorf("Expected console event, got %q", event.Type)
	}
	var msg ConsoleMessage
	if err := json.Unmarshal([]byte(event.Data), &msg); err != nil {
		t.Fatalf("Failed to decode console message: %v", err)
	}
	if msg.Message != "rendered 3 rows" || msg.Level != "info" {
		t.Errorf("Unexpected console message %+v", msg)
	}
	if len(events) != 0 {
		t.Error("Expected second message to be dropped")
	}
}

func writeScene(t *testing.T, path, name string) {
	t.Helper()
	src := `{
	  "name": "` + name + `",
	  "camera": {"lookFrom": [0, 0, 3], "lookAt": [0, 0, 0]},
	  "sampling": {"width": 20, "aspectRatio": 2},
	  "materials": {"m": {"type": "lambertian", "albedo": [0.5, 0.5, 0.5]}},
	  "objects": [{"type": "sphere", "center": [0, 0, 0], "radius": 1, "material": "m"}]
	}`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}
}
