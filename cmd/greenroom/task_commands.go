package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

func newTaskCommand(ctx *commandContext) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage stage tasks",
	}

	taskCmd.AddCommand(newTaskCreateCommand(ctx))
	taskCmd.AddCommand(newTaskSubmitCommand(ctx))
	taskCmd.AddCommand(newTaskReviewCommand(ctx))
	taskCmd.AddCommand(newTaskApproveCommand(ctx))
	taskCmd.AddCommand(newTaskRejectCommand(ctx))
	taskCmd.AddCommand(newTaskHelpCommand(ctx))

	return taskCmd
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func newTaskCreateCommand(ctx *commandContext) *cobra.Command {
	var episodeID int64
	var kind string
	var workType string
	var createdBy int64
	var payload string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a stage task for an episode",
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
				task, err := api.CreateTask(cmd.Context(), api.CreateTaskRequest{
					Config:    cfg,
					Logger:    logger,
					EpisodeID: episodeID,
					Kind:      kind,
					WorkType:  workType,
					CreatedBy: createdBy,
					Payload:   payload,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d created (%s, %s)\n", task.ID, task.Kind, task.Status)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&episodeID, "episode", 0, "Episode ID")
	cmd.Flags().StringVar(&kind, "kind", "", "Stage kind")
	cmd.Flags().StringVar(&workType, "work-type", "", "Work type for fan-out stages")
	cmd.Flags().Int64Var(&createdBy, "user", 0, "Creating user ID")
	cmd.Flags().StringVar(&payload, "payload", "", "Task payload JSON (file links, notes)")
	_ = cmd.MarkFlagRequired("episode")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newTaskSubmitCommand(ctx *commandContext) *cobra.Command {
	var actorID int64

	cmd := &cobra.Command{
		Use:   "submit <task-id>",
		Short: "Submit a draft task for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				task, err := api.SubmitTask(cmd.Context(), api.TaskActionRequest{
					Config:  cfg,
					Logger:  logger,
					TaskID:  taskID,
					ActorID: actorID,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d submitted\n", task.ID)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&actorID, "user", 0, "Acting user ID")
	return cmd
}

func newTaskReviewCommand(ctx *commandContext) *cobra.Command {
	var reviewerID int64

	cmd := &cobra.Command{
		Use:   "review <task-id>",
		Short: "Move a submitted task into review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				task, err := api.StartReview(cmd.Context(), api.TaskActionRequest{
					Config:  cfg,
					Logger:  logger,
					TaskID:  taskID,
					ActorID: reviewerID,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d in review\n", task.ID)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&reviewerID, "user", 0, "Reviewing user ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTaskApproveCommand(ctx *commandContext) *cobra.Command {
	var reviewerID int64
	var notes string

	cmd := &cobra.Command{
		Use:   "approve <task-id>",
		Short: "Approve a task and trigger downstream stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				task, err := api.ApproveTask(cmd.Context(), api.TaskActionRequest{
					Config:  cfg,
					Logger:  logger,
					TaskID:  taskID,
					ActorID: reviewerID,
					Notes:   notes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d approved\n", task.ID)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&reviewerID, "user", 0, "Reviewing user ID")
	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTaskRejectCommand(ctx *commandContext) *cobra.Command {
	var reviewerID int64
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <task-id>",
		Short: "Reject a task with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				task, err := api.RejectTask(cmd.Context(), api.TaskActionRequest{
					Config:  cfg,
					Logger:  logger,
					TaskID:  taskID,
					ActorID: reviewerID,
					Notes:   reason,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d rejected\n", task.ID)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&reviewerID, "user", 0, "Reviewing user ID")
	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newTaskHelpCommand(ctx *commandContext) *cobra.Command {
	helpCmd := &cobra.Command{
		Use:   "help-loop",
		Short: "Rework a rejected task with a helper",
	}

	helpCmd.AddCommand(newTaskHelpRequestCommand(ctx))
	helpCmd.AddCommand(newTaskHelpDoneCommand(ctx))

	return helpCmd
}

func newTaskHelpRequestCommand(ctx *commandContext) *cobra.Command {
	var helperRole string
	var notes string

	cmd := &cobra.Command{
		Use:   "request <task-id>",
		Short: "Assign a helper role to a rejected task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				task, err := api.RequestHelp(cmd.Context(), api.RequestHelpRequest{
					Config:     cfg,
					Logger:     logger,
					TaskID:     taskID,
					HelperRole: helperRole,
					Notes:      notes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d needs help from %s\n", task.ID, task.HelperRole)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&helperRole, "role", "", "Helper role")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the helper")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newTaskHelpDoneCommand(ctx *commandContext) *cobra.Command {
	var actorID int64
	var notes string

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Re-submit a task after helper work finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withLock(func() error {
				task, err := api.MarkHelpDone(cmd.Context(), api.TaskActionRequest{
					Config:  cfg,
					Logger:  logger,
					TaskID:  taskID,
					ActorID: actorID,
					Notes:   notes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d re-submitted\n", task.ID)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&actorID, "user", 0, "Acting user ID")
	cmd.Flags().StringVar(&notes, "notes", "", "Helper notes")
	return cmd
}
