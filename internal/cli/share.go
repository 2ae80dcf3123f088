package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alertflow/alertflow/pkg/client"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Manage alert share links",
	}

	cmd.AddCommand(newShareCreateCmd())
	cmd.AddCommand(newShareRevokeCmd())
	cmd.AddCommand(newShareListCmd())
	cmd.AddCommand(newShareAccessCmd())

	return cmd
}

func newShareCreateCmd() *cobra.Command {
	var email, accessType string
	var expiresIn float64

	cmd := &cobra.Command{
		Use:   "create <alert-id>",
		Short: "Share an alert with a recipient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.CreateShareRequest{
				AlertID:         args[0],
				SharedWithEmail: email,
				AccessType:      accessType,
			}
			if cmd.Flags().Changed("expires-in") {
				req.ExpiresInHours = &expiresIn
			}

			resp, err := apiClient.Shares().Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to create share: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(resp)
			}

			fmt.Fprintf(stdout, "Share created: %s\n", resp.Share.ID)
			fmt.Fprintf(stdout, "URL:     %s\n", resp.ShareURL)
			fmt.Fprintf(stdout, "Access:  %s\n", resp.Share.AccessType)
			fmt.Fprintf(stdout, "Expires: %s\n", formatExpiry(resp.Share.ExpiresAt, time.Now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "recipient email address")
	cmd.Flags().StringVar(&accessType, "access", "read-only", "access type: read-only, edit")
	cmd.Flags().Float64Var(&expiresIn, "expires-in", 0, "hours until the link expires (default never)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newShareRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <share-id>",
		Short: "Revoke a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Shares().Revoke(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to revoke share: %w", err)
			}
			fmt.Fprintf(stdout, "Share %s revoked\n", args[0])
			return nil
		},
	}
}

func newShareListCmd() *cobra.Command {
	var alertID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := apiClient.Shares().List(context.Background(), alertID)
			if err != nil {
				return fmt.Errorf("failed to list shares: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(shares)
			}

			now := time.Now()
			t := NewTable("ID", "ALERT", "RECIPIENT", "ACCESS", "EXPIRES")
			for _, s := range shares {
				t.AddRow(s.ID, s.AlertID, truncate(s.SharedWithEmail, 40), s.AccessType, formatExpiry(s.ExpiresAt, now))
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&alertID, "alert", "", "only shares of this alert")

	return cmd
}

func newShareAccessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "access <token>",
		Short: "Open a shared alert by its link token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Shares().Access(context.Background(), args[0])
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			a := result.Alert
			fmt.Fprintf(stdout, "%s\n", a.RuleName)
			fmt.Fprintf(stdout, "Severity: %s\n", formatSeverity(a.Severity))
			fmt.Fprintf(stdout, "Access:   %s\n", result.AccessType)
			if a.ShortDescription != "" {
				fmt.Fprintf(stdout, "\n%s\n", a.ShortDescription)
			}
			return nil
		},
	}
}
