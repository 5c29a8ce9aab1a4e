package events

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSSubscriber_TopicFilter(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	for _, tc := range []struct {
		pattern string
		want    []string // "topic task-id", in publish order
	}{
		{AllTopics, []string{TopicTaskDeleted + " task-1", TopicTaskMoved + " task-2", TopicReminderOverdue + " task-3"}},
		{"taskboard.task.*", []string{TopicTaskDeleted + " task-1", TopicTaskMoved + " task-2"}},
		{"taskboard.reminder.>", []string{TopicReminderOverdue + " task-3"}},
		{TopicTaskDeleted, []string{TopicTaskDeleted + " task-1"}},
		{TopicLabelAdded, nil},
	} {
		t.Run(tc.pattern, func(t *testing.T) {
			sub, err := NewNATSSubscriber(url)
			if err != nil {
				t.Fatalf("creating subscriber: %v", err)
			}
			defer sub.Close()
			ch, cancel, err := sub.Subscribe(tc.pattern)
			if err != nil {
				t.Fatalf("subscribing: %v", err)
			}
			defer cancel()

			ctx := context.Background()
			_ = pub.Publish(ctx, TopicTaskDeleted, TaskDeleted{TaskID: "task-1", ColumnID: "column-1"})
			_ = pub.Publish(ctx, TopicTaskMoved, TaskMoved{TaskID: "task-2", FromColumn: "column-1", ToColumn: "column-2"})
			_ = pub.Publish(ctx, TopicReminderOverdue, Reminder{TaskID: "task-3", Days: -2})
			pub.conn.Flush()

			var got []string
			for range tc.want {
				select {
				case msg := <-ch:
					var p struct {
						TaskID string `json:"task_id"`
					}
					if err := msg.Decode(&p); err != nil {
						t.Fatal(err)
					}
					got = append(got, msg.Topic+" "+p.TaskID)
				case <-time.After(time.Second):
					t.Fatalf("timed out after %v", got)
				}
			}
			select {
			case msg := <-ch:
				t.Errorf("unexpected message on %s: %s", msg.Topic, msg.Data)
			case <-time.After(50 * time.Millisecond):
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("message %d = %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestNATSSubscriber_CancelClosesChannel(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url)
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(AllTopics)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
}

func TestMessage_Decode(t *testing.T) {
	var p TaskDeleted
	m := Message{Topic: TopicTaskDeleted, Data: []byte(`{"task_id":"task-9","column_id":"column-2"}`)}
	if err := m.Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.TaskID != "task-9" || p.ColumnID != "column-2" {
		t.Errorf("decoded %+v", p)
	}
	if err := (Message{Topic: TopicTaskDeleted, Data: []byte("{")}).Decode(&p); err == nil {
		t.Error("expected error for truncated payload")
	}
}

func TestNATSSubscriber_ImplementsSubscriber(t *testing.T) {
	var _ Subscriber = (*NATSSubscriber)(nil)
}
