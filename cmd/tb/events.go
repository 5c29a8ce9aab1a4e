package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/client"
	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Short:   "List recorded board events",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f model.EventFilter
		f.TopicPrefix, _ = cmd.Flags().GetString("topic")
		f.TaskID, _ = cmd.Flags().GetString("task")
		f.AfterID, _ = cmd.Flags().GetInt64("after")
		f.Limit, _ = cmd.Flags().GetInt("limit")

		evts, err := boardClient.ListEvents(context.Background(), f)
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), evts)
		}
		printEvents(cmd.OutOrStdout(), evts)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream board events as they happen",
	Long: `Streams events from the server's SSE endpoint. When a NATS URL is
configured (--nats, TASKBOARD_NATS_URL or the active remote) events are read
from NATS instead. With --board the board is reprinted after each burst of
changes.`,
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")
		showBoard, _ := cmd.Flags().GetBool("board")
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := &watcher{out: cmd.OutOrStdout(), showBoard: showBoard, changed: make(chan struct{}, 1)}
		if showBoard {
			go w.refreshLoop(ctx)
			w.poke()
		}
		if natsURL != "" {
			return w.watchNATS(ctx, natsURL, topics)
		}
		return boardClient.StreamEvents(ctx, topics, 0, func(e client.StreamEvent) error {
			w.event(e.Topic, e.Data)
			return nil
		})
	},
}

// watcher prints events and, optionally, a debounced board refresh.
type watcher struct {
	out       io.Writer
	showBoard bool
	changed   chan struct{}
}

func (w *watcher) event(topic string, data []byte) {
	if w.showBoard {
		w.poke()
		return
	}
	fmt.Fprintf(w.out, "%s %s %s\n", ui.RenderMuted(time.Now().Format(time.TimeOnly)), ui.RenderAccent(topic), data)
}

func (w *watcher) poke() {
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func (w *watcher) refreshLoop(ctx context.Context) {
	debounce := time.NewTimer(0)
	debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.changed:
			debounce.Reset(200 * time.Millisecond)
		case <-debounce.C:
			b, err := boardClient.GetBoard(ctx)
			if err != nil {
				log.Printf("refreshing board: %v", err)
				continue
			}
			fmt.Fprint(w.out, "\x1b[H\x1b[2J")
			printBoard(w.out, b, localToday())
		}
	}
}

// watchNATS reads events straight from NATS, one subscription per pattern.
func (w *watcher) watchNATS(ctx context.Context, natsURL string, patterns []string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			w.poke()
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	if len(patterns) == 0 {
		patterns = []string{events.AllTopics}
	}
	merged := make(chan events.Message)
	for _, pattern := range patterns {
		ch, cancel, err := sub.Subscribe(pattern)
		if err != nil {
			return err
		}
		defer cancel()
		go func() {
			for m := range ch {
				select {
				case merged <- m:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-merged:
			w.event(m.Topic, m.Data)
		}
	}
}

func init() {
	eventsCmd.Flags().String("topic", "", "topic prefix, e.g. taskboard.task.")
	eventsCmd.Flags().String("task", "", "only events for this task id")
	eventsCmd.Flags().Int64("after", 0, "only events with a larger id")
	eventsCmd.Flags().Int("limit", 0, "maximum number of events (default 100)")

	watchCmd.Flags().StringSlice("topic", nil, "topic pattern, * and > wildcards (repeatable)")
	watchCmd.Flags().Bool("board", false, "reprint the board on changes instead of listing events")
	watchCmd.Flags().String("nats", os.Getenv("TASKBOARD_NATS_URL"), "read events from NATS")
}
