package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/output"
)

var contentTypes = map[output.Format]string{
	output.FormatPNG:  "image/png",
	output.FormatPPM:  "image/x-portable-pixmap",
	output.FormatBMP:  "image/bmp",
	output.FormatTIFF: "image/tiff",
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// ProgressUpdate reports completed rows during a streamed render
type ProgressUpdate struct {
	RowsDone  int `json:"rowsDone"`
	TotalRows int `json:"totalRows"`
}

// CompleteUpdate carries the finished image of a streamed render
type CompleteUpdate struct {
	Scene     string `json:"scene"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// handleRender renders a scene and responds with the encoded image. The
// render stops if the client goes away.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	format := output.FormatPNG
	if f := r.URL.Query().Get("format"); f != "" {
		format = output.Format(f)
	}
	contentType, ok := contentTypes[format]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format))
		return
	}

	sceneObj, rt, err := s.prepareRender(req)
	if err != nil {
		writeError(w, sceneErrorStatus(err), err.Error())
		return
	}

	canvas, stats, err := rt.Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			logger.Infof("Render of %q canceled: %v", sceneObj.Name, err)
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, canvas, format); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warningf("Failed to write image: %v", err)
	}
}

// handleRenderStream renders a scene while streaming row progress via SSE,
// finishing with a base64 PNG of the image
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, rt, err := s.prepareRender(req)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	console := newConsole(sseEventChan)
	console.Printf("Rendering %q with %d objects", sceneObj.Name, sceneObj.PrimitiveCount())
	rt.OnProgress = func(rowsDone, totalRows int) {
		s.sendEvent(ctx, sseEventChan, "progress", ProgressUpdate{RowsDone: rowsDone, TotalRows: totalRows}, false)
	}

	canvas, stats, err := rt.Render(ctx)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Render error: %v", err))
		return
	}
	console.Printf("Rendered %d pixels in %s", stats.TotalPixels, stats.Duration)

	var buf bytes.Buffer
	if err := output.Encode(&buf, canvas, output.FormatPNG); err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	s.sendEvent(ctx, sseEventChan, "complete", CompleteUpdate{
		Scene:     req.Scene,
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats:     newStats(stats),
	}, true)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for event := range sseEventChan {
		// Keep draining after a disconnect so senders never block
		if ctx.Err() != nil {
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// sendEvent marshals data into an SSE event. Progress events are dropped when
// the channel is full; must events wait for room.
func (s *Server) sendEvent(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, data interface{}, must bool) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Errorf("Error marshaling %s event: %v", eventType, err)
		return
	}

	event := SSEEvent{Type: eventType, Data: string(payload)}
	if must {
		select {
		case sseEventChan <- event:
		case <-ctx.Done():
		}
		return
	}

	select {
	case sseEventChan <- event:
	default:
	}
}

// handleError sends an error event to the client
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	logger.Warningf("Render request failed: %s", message)
	s.sendEvent(ctx, sseEventChan, "error", map[string]string{"error": message}, true)
}
