package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
)

func TestMatchTopicPattern(t *testing.T) {
	for _, tc := range []struct {
		pattern, topic string
		want           bool
	}{
		{"taskboard.task.added", "taskboard.task.added", true},
		{"taskboard.task.*", "taskboard.task.added", true},
		{"taskboard.*.added", "taskboard.label.added", true},
		{"taskboard.*", "taskboard.task.added", false},
		{"taskboard.>", "taskboard.task.added", true},
		{"taskboard.>", "taskboard", false},
		{"taskboard.task.>", "taskboard.label.added", false},
		{"taskboard.task.added.x", "taskboard.task.added", false},
	} {
		if got := matchTopicPattern(tc.pattern, tc.topic); got != tc.want {
			t.Errorf("matchTopicPattern(%q, %q) = %v, want %v", tc.pattern, tc.topic, got, tc.want)
		}
	}
}

func TestSSEHub_BroadcastFilters(t *testing.T) {
	h := newSSEHub()
	tasks, _ := h.subscribe([]string{"taskboard.task.>"}, 0)
	all, _ := h.subscribe(nil, 0)
	if h.clientCount() != 2 {
		t.Fatalf("clients = %d", h.clientCount())
	}

	h.broadcast("taskboard.label.added", []byte(`{}`))
	h.broadcast("taskboard.task.added", []byte(`{}`))

	if evt := <-tasks.ch; evt.Topic != "taskboard.task.added" || evt.ID != 2 {
		t.Errorf("filtered client got %+v", evt)
	}
	if len(tasks.ch) != 0 {
		t.Error("filtered client received a label event")
	}
	if len(all.ch) != 2 {
		t.Errorf("unfiltered client has %d events", len(all.ch))
	}

	h.unsubscribe(tasks)
	h.unsubscribe(all)
	if h.clientCount() != 0 {
		t.Errorf("clients after unsubscribe = %d", h.clientCount())
	}
}

func TestSSEHub_Replay(t *testing.T) {
	h := newSSEHub()
	for _, topic := range []string{"taskboard.task.added", "taskboard.label.added", "taskboard.task.moved"} {
		h.broadcast(topic, []byte(`{}`))
	}

	_, none := h.subscribe(nil, 0)
	if len(none) != 0 {
		t.Errorf("replay without Last-Event-ID = %d events", len(none))
	}
	_, replay := h.subscribe([]string{"taskboard.task.*"}, 1)
	if len(replay) != 1 || replay[0].ID != 3 {
		t.Errorf("replay = %+v", replay)
	}
}

func TestSSEHub_BacklogBounded(t *testing.T) {
	h := newSSEHub()
	for range sseBacklog + 10 {
		h.broadcast("taskboard.task.edited", nil)
	}
	if len(h.backlog) != sseBacklog {
		t.Fatalf("backlog = %d", len(h.backlog))
	}
	if first := h.backlog[0].ID; first != 11 {
		t.Errorf("oldest kept id = %d, want 11", first)
	}
}

func TestHandleEventStream(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.NewHTTPHandler(""))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/events/stream?topics=taskboard.task.*", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Headers are flushed after subscription, so the client is registered.
	if _, err := srv.AddLabel(ctx, "Ops", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := srv.AddTask(ctx, engine.TaskInput{Title: "Stream me"}); err != nil {
		t.Fatal(err)
	}

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		if sc.Text() == "" {
			break
		}
		lines = append(lines, sc.Text())
	}
	if len(lines) != 3 || lines[0] != "id:2" || lines[1] != "event:taskboard.task.added" || !strings.HasPrefix(lines[2], "data:{") {
		t.Errorf("first frame = %q", lines)
	}
}
