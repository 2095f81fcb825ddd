package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/mediarating/backend/internal/models"
	"github.com/spf13/cobra"
)

// passwordEnv is read when --password is not given
const passwordEnv = "SURVEYCTL_PASSWORD"

var (
	successColor = color.New(color.FgGreen, color.Bold)
	noticeColor  = color.New(color.FgYellow)
)

func newAdminCommand(ctx *commandContext) *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	adminCmd.AddCommand(newAdminBootstrapCommand(ctx))
	adminCmd.AddCommand(newAdminCreateCommand(ctx))
	adminCmd.AddCommand(newAdminListCommand(ctx))

	return adminCmd
}

func resolvePassword(password string) (string, error) {
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if password == "" {
		return "", fmt.Errorf("--password or %s is required", passwordEnv)
	}
	return password, nil
}

func newAdminBootstrapCommand(ctx *commandContext) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create an admin unless the username exists. The first admin becomes super admin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			admins, err := ctx.adminManager()
			if err != nil {
				return err
			}

			result, err := admins.Bootstrap(cmd.Context(), username, pw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Created {
				noticeColor.Fprintf(out, "Admin %q already exists, nothing changed\n", result.Admin.Username)
				return nil
			}
			role := "admin"
			if result.Admin.IsSuperAdmin {
				role = "super admin"
			}
			successColor.Fprintf(out, "Created %s %q\n", role, result.Admin.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (or "+passwordEnv+")")

	return cmd
}

func newAdminCreateCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a regular admin who must change the password on first login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := resolvePassword(password)
			if err != nil {
				return err
			}
			admins, err := ctx.adminManager()
			if err != nil {
				return err
			}

			admin, err := admins.Create(cmd.Context(), cliActor, &models.CreateAdminRequest{
				Username: args[0],
				Password: pw,
			})
			if errors.Is(err, models.ErrConflict) {
				return fmt.Errorf("admin %q already exists", args[0])
			}
			if err != nil {
				return err
			}

			successColor.Fprintf(cmd.OutOrStdout(), "Created admin %q (id %d)\n", admin.Username, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Initial password (or "+passwordEnv+")")

	return cmd
}

func newAdminListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			admins, err := ctx.adminManager()
			if err != nil {
				return err
			}

			list, err := admins.List(cmd.Context(), cliActor)
			if err != nil {
				return err
			}

			writeAdminTable(cmd.OutOrStdout(), list)
			return nil
		},
	}
}

func writeAdminTable(out io.Writer, admins []models.Admin) {
	if len(admins) == 0 {
		noticeColor.Fprintln(out, "No admins yet. Run `surveyctl admin bootstrap` first.")
		return
	}

	rows := make([][]string, 0, len(admins))
	for _, a := range admins {
		lastChange := "-"
		if a.LastPasswordChange != nil {
			lastChange = a.LastPasswordChange.Format(time.DateTime)
		}
		rows = append(rows, []string{
			strconv.Itoa(a.ID),
			a.Username,
			yesNo(a.IsSuperAdmin),
			yesNo(a.PasswordMustChange),
			a.CreatedAt.Format(time.DateTime),
			lastChange,
		})
	}

	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Username", "Super", "Must change", "Created", "Password changed"},
		rows,
	))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
