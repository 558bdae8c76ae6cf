package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greenroom/internal/api"
)

func newTeamCommand(ctx *commandContext) *cobra.Command {
	teamCmd := &cobra.Command{
		Use:   "team",
		Short: "Manage users and program teams",
	}

	teamCmd.AddCommand(newTeamAddUserCommand(ctx))
	teamCmd.AddCommand(newTeamAddMemberCommand(ctx))

	return teamCmd
}

func newTeamAddUserCommand(ctx *commandContext) *cobra.Command {
	var name string
	var role string
	var inactive bool

	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Register a staff member",
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
				id, err := api.AddUser(cmd.Context(), api.AddUserRequest{
					Config:      cfg,
					Logger:      logger,
					DisplayName: name,
					Role:        role,
					Active:      !inactive,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %d registered (%s)\n", id, role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", "", "Role")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Register the user as inactive")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newTeamAddMemberCommand(ctx *commandContext) *cobra.Command {
	var programID string
	var userID int64
	var role string

	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Bind a user to a program team",
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
				if err := api.AddTeamMember(cmd.Context(), api.AddTeamMemberRequest{
					Config:    cfg,
					Logger:    logger,
					ProgramID: programID,
					UserID:    userID,
					Role:      role,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %d joined %s as %s\n", userID, programID, role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Program identifier")
	cmd.Flags().Int64Var(&userID, "user", 0, "User ID")
	cmd.Flags().StringVar(&role, "role", "", "Role within the team")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
