package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
)

// newEventConsumer is replaced in tests.
var newEventConsumer = func(cfg config.KafkaConfig, fromStart bool, logger logging.Logger) (*kafka.EventConsumer, error) {
	return kafka.NewEventConsumer(cfg, fromStart, logger)
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the lifecycle event stream",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	var (
		fromStart bool
		brokers   []string
		topic     string
		groupID   string
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print lifecycle events as they are published",
		Long: "Print lifecycle events from Kafka until interrupted.  Offsets are\n" +
			"committed for the consumer group, so a restart resumes where it stopped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			kcfg := cliCtx.Config.Kafka
			f := cmd.Flags()
			if f.Changed("brokers") {
				kcfg.Brokers = brokers
			}
			if f.Changed("topic") {
				kcfg.Topic = topic
			}
			if f.Changed("group") {
				kcfg.GroupID = groupID
			}

			consumer, err := newEventConsumer(kcfg, fromStart, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := consumer.Close(); cerr != nil {
					cliCtx.Logger.Warn("failed to close event consumer", logging.Err(cerr))
				}
			}()

			cliCtx.Logger.Info("tailing lifecycle events",
				logging.Any("brokers", kcfg.Brokers),
				logging.String("topic", kcfg.Topic),
				logging.String("group_id", kcfg.GroupID))

			return consumer.Run(cmd.Context(), func(ctx context.Context, env kafka.Envelope, ev lifecycle.Event) error {
				return printEvent(cmd, cliCtx.OutputFormat, env, ev)
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&fromStart, "from-start", false, "start at the earliest offset when the group has none")
	f.StringSliceVar(&brokers, "brokers", nil, "override kafka.brokers")
	f.StringVar(&topic, "topic", "", "override kafka.topic")
	f.StringVar(&groupID, "group", "", "override kafka.group_id")
	return cmd
}

// printEvent writes one event per line: JSON lines for --output json, a
// compact summary otherwise.
func printEvent(cmd *cobra.Command, format string, env kafka.Envelope, ev lifecycle.Event) error {
	out := cmd.OutOrStdout()
	if format == OutputJSON {
		line, err := json.Marshal(struct {
			EventID   string          `json:"event_id"`
			RequestID string          `json:"request_id,omitempty"`
			Event     lifecycle.Event `json:"event"`
		}{env.EventID, env.RequestID, ev})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(line))
		return err
	}

	detail := ev.StageID
	switch ev.Type {
	case lifecycle.EventPatentAdvanced:
		detail = ev.FromStage + " -> " + ev.ToStage
	case lifecycle.EventStageUpdated, lifecycle.EventStageCompleted:
		detail = fmt.Sprintf("%s %s by %s", ev.StageID, ev.Status, ev.UpdatedBy)
	case lifecycle.EventPatentCreated, lifecycle.EventPatentDeleted:
		detail = ev.Summary
	}
	_, err := fmt.Fprintf(out, "%s  %-24s %-12s v%-3d %s\n",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.RefID, ev.Version, detail)
	return err
}

//Personal.AI order the ending
