package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status <episode-id>",
		Short: "Show the workflow state of an episode",
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
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			state, err := api.GetWorkflowState(cmd.Context(), api.WorkflowStateRequest{
				Config:    cfg,
				Logger:    logger,
				EpisodeID: episodeID,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, state)
			}
			renderWorkflowState(cmd.OutOrStdout(), state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of tables")
	return cmd
}

func renderWorkflowState(out io.Writer, state api.WorkflowState) {
	colorize := shouldColorize(out)
	episode := state.Episode

	title := fmt.Sprintf("%s episode %d", episode.ProgramID, episode.EpisodeNumber)
	if episode.Title != "" {
		title = fmt.Sprintf("%s — %s", title, episode.Title)
	}
	for _, line := range sectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Air date:      %s\n", episode.AirDate)
	fmt.Fprintf(out, "Current stage: %s\n", episode.CurrentStage)
	if episode.CurrentAssigneeRole != "" {
		fmt.Fprintf(out, "Assigned to:   %s (user %d)\n", episode.CurrentAssigneeRole, episode.CurrentAssigneeUser)
	}
	fmt.Fprintln(out)

	if len(state.Tasks) > 0 {
		rows := make([][]string, 0, len(state.Tasks))
		for _, task := range state.Tasks {
			rows = append(rows, []string{
				strconv.FormatInt(task.ID, 10),
				task.Kind,
				task.WorkType,
				task.Status,
				task.RejectionReason,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Stage", "Work Type", "Status", "Rejection"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}

	if len(state.Deadlines) > 0 {
		rows := make([][]string, 0, len(state.Deadlines))
		for _, d := range state.Deadlines {
			done := "no"
			if d.IsCompleted {
				done = "yes"
			}
			overdue := ""
			if d.Overdue {
				overdue = "OVERDUE"
			}
			rows = append(rows, []string{d.Role, d.DeadlineDate, done, overdue})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Role", "Due", "Done", ""},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}

	if len(state.Transitions) > 0 {
		rows := make([][]string, 0, len(state.Transitions))
		for _, tr := range state.Transitions {
			rows = append(rows, []string{tr.CreatedAt, tr.FromStage, tr.ToStage})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"When", "From", "To"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
	}
}

func sectionHeader(title string, colorize bool) []string {
	line := title
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
