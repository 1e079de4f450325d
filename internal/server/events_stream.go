package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/finsight/internal/events"
)

const (
	streamBufferSize  = 100
	streamWriteWait   = 10 * time.Second
	streamHeartbeat   = 30 * time.Second
	streamCloseReason = "server shutting down"
)

// streamedEventTypes are forwarded when the client sends no filter
var streamedEventTypes = []events.EventType{
	events.SnapshotStored,
	events.BackupCompleted,
}

// EventsStreamHandler pushes bus events to websocket clients
type EventsStreamHandler struct {
	bus       *events.Bus
	done      <-chan struct{}
	accept    *websocket.AcceptOptions
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler. Open streams are closed
// with StatusGoingAway when done is closed. accept carries the origin policy; nil only
// allows same-host origins.
func NewEventsStreamHandler(bus *events.Bus, done <-chan struct{}, accept *websocket.AcceptOptions, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		bus:       bus,
		done:      done,
		accept:    accept,
		heartbeat: streamHeartbeat,
		log:       log.With().Str("component", "events_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/events/ws.
// Query parameters: types (comma separated event types), user_id (only events of that user;
// events that concern no particular user are always forwarded).
func (h *EventsStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventTypes := streamedEventTypes
	if filter := r.URL.Query().Get("types"); filter != "" {
		eventTypes = nil
		for _, t := range strings.Split(filter, ",") {
			eventTypes = append(eventTypes, events.EventType(strings.TrimSpace(t)))
		}
	}
	userID := r.URL.Query().Get("user_id")

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Warn().Err(err).Str("origin", r.Header.Get("Origin")).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	// Clients only listen; CloseRead handles control frames and cancels ctx on disconnect
	ctx := conn.CloseRead(r.Context())

	eventChan := make(chan *events.Event, streamBufferSize)
	handler := func(event *events.Event) {
		if userID != "" {
			if scoped, ok := event.Data.(events.UserScoped); ok && scoped.OwnerID() != userID {
				return
			}
		}
		select {
		case eventChan <- event:
		default:
			h.log.Warn().Str("event_type", string(event.Type)).Msg("Event channel full, dropping event")
		}
	}

	for _, eventType := range eventTypes {
		unsubscribe := h.bus.Subscribe(eventType, handler)
		defer unsubscribe()
	}

	h.log.Info().Str("user_id", userID).Int("types", len(eventTypes)).Msg("Client connected to event stream")

	if err := h.write(ctx, conn, map[string]interface{}{
		"type":    "connected",
		"message": "Connected to event stream",
	}); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event stream")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case <-h.done:
			conn.Close(websocket.StatusGoingAway, streamCloseReason)
			return

		case event := <-eventChan:
			if err := h.write(ctx, conn, event); err != nil {
				h.log.Debug().Err(err).Msg("Failed to write event")
				return
			}

		case <-heartbeat.C:
			if err := h.write(ctx, conn, map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			}); err != nil {
				return
			}
		}
	}
}

func (h *EventsStreamHandler) write(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	writeCtx, cancel := context.WithTimeout(ctx, streamWriteWait)
	defer cancel()
	return wsjson.Write(writeCtx, conn, v)
}
