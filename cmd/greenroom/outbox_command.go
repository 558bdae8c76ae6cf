package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

func newOutboxCommand(ctx *commandContext) *cobra.Command {
	outboxCmd := &cobra.Command{
		Use:   "outbox",
		Short: "Notification outbox utilities",
	}

	outboxCmd.AddCommand(newOutboxDrainCommand(ctx))

	return outboxCmd
}

func newOutboxDrainCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "drain",
		Short: "Deliver pending notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sent, err := api.DrainOutbox(cmd.Context(), api.DrainOutboxRequest{
				Config: cfg,
				Logger: logger,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Delivered %d notification(s)\n", sent)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum notifications to deliver")
	return cmd
}
