package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/gov-forecast/internal/metrics"
)

// ReferendumEvent is a status transition pushed by the governance stream
type ReferendumEvent struct {
	Event        string    `json:"event"`
	ReferendumID int64     `json:"referendumId"`
	Track        string    `json:"track"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// EventHandler is called when a referendum event is received from the stream
type EventHandler func(event ReferendumEvent) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// StreamClient handles the WebSocket connection to the governance event
// stream. Decision events trigger re-ingestion so the historical dataset
// stays current between scheduled syncs.
type StreamClient struct {
	conn            *websocket.Conn
	streamURL       string
	apiKey          string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []EventHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *log.Logger
}

// NewStreamClient creates a new governance stream client
func NewStreamClient(streamURL, apiKey string, logger *log.Logger) *StreamClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &StreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		handlers:        make([]EventHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.Printf("Connecting to governance stream: %s", s.streamURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	header := make(map[string][]string)
	if s.apiKey != "" {
		header["Authorization"] = []string{"Bearer " + s.apiKey}
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, header)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	s.logger.Printf("Connected to governance stream")

	go s.readEvents()

	return nil
}

// Subscribe requests referendum status events for the given tracks.
// An empty track list subscribes to all tracks.
func (s *StreamClient) Subscribe(tracks []string) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected to stream")
	}
	s.mu.RUnlock()

	subMsg := map[string]interface{}{
		"op":     "subscribe",
		"tracks": tracks,
		"events": []string{"decision_started", "confirming", "confirmed", "executed", "rejected", "timed_out"},
	}

	s.logger.Printf("Subscribing to referendum events for %d tracks", len(tracks))
	return s.sendMessage(subMsg)
}

// AddHandler registers an event handler
func (s *StreamClient) AddHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// ConnectWithRetry connects with exponential backoff until the context is
// cancelled or the retry budget is exhausted.
func (s *StreamClient) ConnectWithRetry(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff

	var lastErr error
	for attempt := 0; attempt <= s.reconnectConfig.MaxRetries; attempt++ {
		if err := s.Connect(ctx); err == nil {
			return nil
		} else {
			lastErr = err
			s.logger.Printf("Stream connect attempt %d failed: %v", attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	return fmt.Errorf("stream connection failed after %d attempts: %w", s.reconnectConfig.MaxRetries+1, lastErr)
}

func (s *StreamClient) readEvents() {
	defer s.Close()

	for {
		var raw json.RawMessage
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.logger.Printf("Error reading stream message: %v", err)
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var event ReferendumEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.logger.Printf("Unparseable stream message: %v", err)
			continue
		}

		if event.Event == "" || event.Event == "heartbeat" {
			continue
		}

		metrics.RecordStreamEvent(event.Event)

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(event); err != nil {
				s.logger.Printf("Stream handler error: %v", err)
			}
		}
	}
}

func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		s.isConnected = false
		return err
	}

	s.isConnected = false
	return nil
}
