package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("server")

// Request limits shared by every endpoint that builds a scene
const (
	minWidth, maxWidth     = 16, 2000
	minSamples, maxSamples = 1, 10000
	minDepth, maxDepth     = 1, 200
)

// Server handles web requests for the path tracer
type Server struct {
	port     int
	sceneDir string

	// MaxWorkers is the worker count of each render, 0 uses every CPU
	MaxWorkers int
}

// NewServer creates a new web server. JSON scene files are served from sceneDir.
func NewServer(port int, sceneDir string) *Server {
	return &Server{port: port, sceneDir: sceneDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Built-in scene name or scene file ID
	Width           int    `json:"width"`           // Image width; height follows the scene aspect ratio
	SamplesPerPixel int    `json:"samplesPerPixel"` // Samples per pixel
	MaxDepth        int    `json:"maxDepth"`        // Maximum ray bounce depth
	Seed            int64  `json:"seed"`            // Seed for scene layout and sampling
}

// Stats represents render statistics
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	Workers         int     `json:"workers"`
	ElapsedMs       int64   `json:"elapsedMs"`
	SamplesPerSec   float64 `json:"samplesPerSecond"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:           stats.Width,
		Height:          stats.Height,
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    stats.TotalSamples,
		SamplesPerPixel: stats.SamplesPerPixel,
		Workers:         stats.NumWorkers,
		ElapsedMs:       stats.Duration.Milliseconds(),
		SamplesPerSec:   stats.SamplesPerSecond(),
	}
}

// Handler returns the HTTP handler serving every API endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is canceled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Noticef("Starting web server on http://localhost%s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Notice("Shutting down web server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files grouped for display
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	req := RenderRequest{Scene: r.URL.Query().Get("scene")}
	if req.Scene == "" {
		req.Scene = "random"
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene":       req.Scene,
		"name":        sceneObj.Name,
		"description": sceneObj.Description,
		"objects":     sceneObj.PrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height(),
			"aspectRatio":     config.AspectRatio,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": minWidth, "max": maxWidth},
			"samplesPerPixel": map[string]int{"min": minSamples, "max": maxSamples},
			"maxDepth":        map[string]int{"min": minDepth, "max": maxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters. Omitted values are zero and
// defer to the scene's recommendations.
func (s *Server) parseRenderRequest(r *http.Request) (RenderRequest, error) {
	query := r.URL.Query()
	req := RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "random"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return req, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 0, minSamples, maxSamples); err != nil {
		return req, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 0, minDepth, maxDepth); err != nil {
		return req, err
	}
	seed, err := parseIntParam(query, "seed", int(renderer.DefaultConfig().Seed), 0, 1<<31-1)
	if err != nil {
		return req, err
	}
	req.Seed = int64(seed)

	if req.Width*req.SamplesPerPixel > 800*1000 {
		logger.Warningf("Large render requested: width %d at %d samples per pixel", req.Width, req.SamplesPerPixel)
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in scene or one of the listed scene files.
// Arbitrary paths are rejected so requests cannot read outside sceneDir.
func (s *Server) createScene(req RenderRequest) (*scene.Scene, error) {
	files, err := scene.ListSceneFiles(s.sceneDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == req.Scene {
			return scene.LoadFile(info.FilePath)
		}
	}
	return scene.Lookup(req.Scene, core.NewSeededSampler(req.Seed))
}

// prepareRender builds the scene, its BVH and a renderer for req
func (s *Server) prepareRender(req RenderRequest) (*scene.Scene, *renderer.Renderer, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, nil, err
	}
	if err := sceneObj.Preprocess(core.NewSeededSampler(req.Seed)); err != nil {
		return nil, nil, err
	}

	config := sceneObj.RenderConfig()
	if req.Width > 0 {
		config = sceneObj.WithWidth(config, req.Width)
	}
	if req.SamplesPerPixel > 0 {
		config.SamplesPerPixel = req.SamplesPerPixel
	}
	if req.MaxDepth > 0 {
		config.MaxDepth = req.MaxDepth
	}
	config.NumWorkers = s.MaxWorkers
	config.Seed = req.Seed

	r, err := sceneObj.NewRenderer(config)
	if err != nil {
		return nil, nil, err
	}
	return sceneObj, r, nil
}

// sceneErrorStatus maps a scene preparation error to an HTTP status. A scene
// that cannot form a BVH is a broken scene file, not a bad request.
func sceneErrorStatus(err error) int {
	if errors.Is(err, geometry.ErrEmptyScene) || errors.Is(err, geometry.ErrMissingBoundingBox) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warningf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
