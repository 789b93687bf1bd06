package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/model"
)

const watchDebounce = 200 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:     "watch <view-name>",
	Short:   "Watch for records matching a saved view",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w := &viewWatcher{name: args[0], seen: make(map[string]time.Time)}
		if err := w.query(ctx); err != nil {
			return err
		}
		if once {
			return nil
		}

		natsURL := os.Getenv("FACETS_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return w.watchNATS(ctx, natsURL)
		}
		return w.watchPoll(ctx, interval)
	},
}

// viewWatcher re-queries a saved view and prints records that are new or
// changed since the last query.
type viewWatcher struct {
	name string
	seen map[string]time.Time
}

// watchNATS re-queries on facets events with a debounce, and at once after
// a reconnect in case events were missed.
func (w *viewWatcher) watchNATS(ctx context.Context, natsURL string) error {
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicAll)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if !w.relevant(msg) {
				continue
			}
			debounce.Reset(watchDebounce)
		case <-reconnectCh:
			debounce.Reset(0)
		case <-debounce.C:
			if err := w.query(ctx); err != nil {
				return err
			}
		}
	}
}

// relevant reports whether msg can change the view's records. Query
// events are emitted by every list, including ours.
func (w *viewWatcher) relevant(msg events.Message) bool {
	return msg.Topic != events.TopicRecordsQueried
}

func (w *viewWatcher) watchPoll(ctx context.Context, interval time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := w.query(ctx); err != nil {
			return err
		}
	}
}

func (w *viewWatcher) query(ctx context.Context) error {
	page, err := facetsClient.ViewRecords(ctx, w.name, url.Values{})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	changed := diffRecords(page.Records, w.seen)
	if len(changed) == 0 {
		return nil
	}
	if jsonOutput {
		return printJSON(changed)
	}
	page.Records = changed
	printRecordsPage(page, nil)
	return nil
}

// diffRecords returns records that are new or have a different updated_at
// than last seen, and records them in seen.
func diffRecords(records []*model.Record, seen map[string]time.Time) []*model.Record {
	var changed []*model.Record
	for _, r := range records {
		prev, ok := seen[r.ID]
		if !ok || !r.UpdatedAt.Equal(prev) {
			changed = append(changed, r)
		}
		seen[r.ID] = r.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval when no NATS URL is configured")
	watchCmd.Flags().Bool("once", false, "exit after the first query")
}
