package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	episodeCmd := &cobra.Command{
		Use:   "episode",
		Short: "Manage episodes",
	}

	episodeCmd.AddCommand(newEpisodeAddCommand(ctx))
	episodeCmd.AddCommand(newEpisodeListCommand(ctx))

	return episodeCmd
}

func newEpisodeAddCommand(ctx *commandContext) *cobra.Command {
	var programID string
	var number int
	var title string
	var airDate string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an episode and generate its deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				episode, err := api.CreateEpisode(cmd.Context(), api.CreateEpisodeRequest{
					Config:        cfg,
					Logger:        logger,
					ProgramID:     programID,
					EpisodeNumber: number,
					Title:         title,
					AirDate:       airDate,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Episode %d registered: %s #%d airing %s\n",
					episode.ID, episode.ProgramID, episode.EpisodeNumber, episode.AirDate)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Program identifier")
	cmd.Flags().IntVar(&number, "number", 0, "Episode number within the program")
	cmd.Flags().StringVar(&title, "title", "", "Episode title")
	cmd.Flags().StringVar(&airDate, "air-date", "", "Air date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("air-date")
	return cmd
}

func newEpisodeListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			episodes, err := api.ListEpisodes(cmd.Context(), api.ListEpisodesRequest{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, episodes)
			}
			if len(episodes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No episodes registered")
				return nil
			}
			rows := make([][]string, 0, len(episodes))
			for _, e := range episodes {
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.ProgramID,
					strconv.Itoa(e.EpisodeNumber),
					e.Title,
					e.AirDate,
					e.CurrentStage,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Program", "#", "Title", "Air Date", "Stage"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
