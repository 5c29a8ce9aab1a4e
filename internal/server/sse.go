package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// sseBacklog is the number of recent events kept for Last-Event-ID replay.
	sseBacklog = 512

	sseKeepaliveInterval = 15 * time.Second
)

// sseEvent is one event as sent to SSE clients.
type sseEvent struct {
	ID    uint64
	Topic string
	Data  []byte // JSON payload
}

// sseHub fans out board events to connected SSE clients and keeps a bounded
// backlog for clients that reconnect.
type sseHub struct {
	mu      sync.Mutex
	clients map[*sseClient]struct{}
	lastID  uint64
	backlog []sseEvent // oldest first, at most sseBacklog entries
}

// sseClient is a single connected consumer.
type sseClient struct {
	topics []string // NATS-style patterns; empty matches all
	ch     chan sseEvent
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[*sseClient]struct{})}
}

// broadcast assigns the next id to an event, appends it to the backlog and
// offers it to every matching client. Slow clients miss events rather than
// blocking the writer.
func (h *sseHub) broadcast(topic string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	evt := sseEvent{ID: h.lastID, Topic: topic, Data: payload}
	if len(h.backlog) == sseBacklog {
		copy(h.backlog, h.backlog[1:])
		h.backlog = h.backlog[:sseBacklog-1]
	}
	h.backlog = append(h.backlog, evt)

	for c := range h.clients {
		if !c.matches(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
		}
	}
}

// subscribe registers a client and returns it together with the backlog
// entries after lastID that it should replay first. Registration and the
// backlog snapshot happen atomically, so no event is lost or duplicated.
func (h *sseHub) subscribe(topics []string, lastID uint64) (*sseClient, []sseEvent) {
	c := &sseClient{topics: topics, ch: make(chan sseEvent, 64)}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}

	var replay []sseEvent
	if lastID > 0 {
		for _, evt := range h.backlog {
			if evt.ID > lastID && c.matches(evt.Topic) {
				replay = append(replay, evt)
			}
		}
	}
	return c, replay
}

func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *sseHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *sseClient) matches(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	for _, p := range c.topics {
		if matchTopicPattern(p, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated topic against a pattern with
// "*" matching one segment and a trailing ">" matching one or more.
func matchTopicPattern(pattern, topic string) bool {
	if pattern == topic {
		return true
	}
	pat := strings.Split(pattern, ".")
	top := strings.Split(topic, ".")
	for i, p := range pat {
		if p == ">" {
			return i < len(top)
		}
		if i >= len(top) || (p != "*" && p != top[i]) {
			return false
		}
	}
	return len(pat) == len(top)
}

// handleEventStream handles GET /v1/events/stream?topics=a,b.
func (s *BoardServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var lastID uint64
	if v := r.Header.Get("Last-Event-ID"); v != "" {
		lastID, _ = strconv.ParseUint(v, 10, 64)
	}
	client, replay := s.sseHub.subscribe(splitList(r.URL.Query().Get("topics")), lastID)
	defer s.sseHub.unsubscribe(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	for _, evt := range replay {
		writeSSEEvent(w, evt)
	}
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, evt sseEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}
