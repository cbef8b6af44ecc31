package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chrimztech/unza-counseling-console/internal/app"
	"github.com/chrimztech/unza-counseling-console/internal/audit"
	pkgkafka "github.com/chrimztech/unza-counseling-console/pkg/kafka"
	"github.com/chrimztech/unza-counseling-console/pkg/logger"
)

var auditTopics = map[string]string{
	"consent": audit.TopicConsentSigned,
	"session": audit.TopicSessionExpired,
}

func newAuditCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{Use: "audit", Short: "Audit events published by consoles"}

	var (
		topics  []string
		groupID string
	)
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Follow audit events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if len(cfg.KafkaBrokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set; audit events are not being published")
			}
			selected := make([]string, 0, len(topics))
			for _, t := range topics {
				topic, ok := auditTopics[t]
				if !ok {
					return fmt.Errorf("unknown audit topic %q: use consent or session", t)
				}
				selected = append(selected, topic)
			}

			log := logger.NewText(app.ServiceName, cfg.LogLevel, cmd.ErrOrStderr())
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := eventPrinter(cmd.OutOrStdout(), e.output)
			g, ctx := errgroup.WithContext(ctx)
			for _, topic := range selected {
				c := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
					Brokers: cfg.KafkaBrokers,
					GroupID: groupID,
					Topic:   topic,
				}, handler, log)
				g.Go(func() error { return c.Start(ctx) })
			}
			return g.Wait()
		},
	}
	tail.Flags().StringSliceVar(&topics, "topic", []string{"consent", "session"}, "topics to follow: consent, session")
	tail.Flags().StringVar(&groupID, "group", "", "consumer group; without one only new events are shown")

	cmd.AddCommand(tail)
	return cmd
}

// eventPrinter writes one line per event. Consumers share it, so writes
// are serialized.
func eventPrinter(w io.Writer, format string) pkgkafka.Handler {
	var mu sync.Mutex
	return func(_ context.Context, ev *pkgkafka.Event) error {
		mu.Lock()
		defer mu.Unlock()

		if format == outputJSON {
			return json.NewEncoder(w).Encode(ev)
		}
		_, err := fmt.Fprintf(w, "%s  %-28s  %s/%s  %s\n",
			ev.Timestamp.Local().Format(time.DateTime),
			ev.EventType,
			ev.AggregateType,
			ev.AggregateID,
			ev.Data,
		)
		return err
	}
}
