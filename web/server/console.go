package server

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// console mirrors render log lines to the server log and to a client's SSE stream
type console struct {
	events chan<- SSEEvent
}

func newConsole(events chan<- SSEEvent) *console {
	return &console{events: events}
}

// Printf logs a message and forwards it to the client without blocking
func (c *console) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	logger.Info(message)

	data, err := json.Marshal(ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	})
	if err != nil {
		return
	}

	select {
	case c.events <- SSEEvent{Type: "console", Data: string(data)}:
	default:
		// Channel full, skip (don't block)
	}
}
