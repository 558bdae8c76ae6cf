package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"greenroom/internal/deadline"
	"greenroom/internal/store"
)

func newDeadlinesCommand(ctx *commandContext) *cobra.Command {
	var overdueOnly bool

	cmd := &cobra.Command{
		Use:   "deadlines <episode-id>",
		Short: "Show role deadlines for an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			episodeID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || episodeID <= 0 {
				return fmt.Errorf("invalid episode id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			deadlines, err := st.DeadlinesByEpisode(cmd.Context(), episodeID)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			rows := make([][]string, 0, len(deadlines))
			for _, d := range deadlines {
				overdue := deadline.IsOverdue(d, now)
				if overdueOnly && !overdue {
					continue
				}
				done := "no"
				if d.IsCompleted {
					done = "yes"
				}
				flag := ""
				switch {
				case overdue:
					flag = "OVERDUE"
				case deadline.ShouldRemind(d, now):
					flag = "due soon"
				}
				rows = append(rows, []string{string(d.Role), d.DeadlineDate.Format("2006-01-02"), done, flag})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No deadlines to show")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Role", "Due", "Done", ""},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overdueOnly, "overdue", false, "Show only overdue deadlines")
	return cmd
}
