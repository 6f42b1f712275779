package main

import (
	"fmt"
	"strings"

	"github.com/emberline/keel/internal/model"
	"github.com/spf13/cobra"
)

var autoAck bool

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <name> [category/event_type...]",
	Short: "Stream events matching the filters",
	Long: `Stream events for a named durable subscription.

Filters take the form category/event_type; "*" as the category matches every
category. No filters means all events. Delivery resumes from the last
acknowledged position.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		var filter model.Filter
		for _, raw := range args[1:] {
			category, eventType, ok := strings.Cut(raw, "/")
			if !ok {
				return fmt.Errorf("invalid filter %q, want category/event_type", raw)
			}
			filter = append(filter, model.EventInterest{
				Category:  category,
				EventType: eventType,
			})
		}

		events, err := runtimeClient.Subscribe(cmd.Context(), name, filter)
		if err != nil {
			return err
		}

		for ev := range events {
			printEvent(&ev)
			if autoAck {
				if err := runtimeClient.Acknowledge(cmd.Context(), name, ev.GlobalID); err != nil {
					return fmt.Errorf("ack %d: %w", ev.GlobalID, err)
				}
			}
		}
		return nil
	},
}

func init() {
	subscribeCmd.Flags().BoolVar(&autoAck, "ack", false, "acknowledge each event after printing it")
}
