package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and login state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			summary := map[string]interface{}{
				"server_url":    viper.GetString("server_url"),
				"authenticated": viper.GetString("auth.token") != "",
			}
			if email := viper.GetString("auth.email"); email != "" {
				summary["email"] = email
			}

			health, err := apiClient.Ready(ctx)
			if err != nil {
				summary["status"] = "unreachable"
				summary["error"] = err.Error()
			} else {
				summary["status"] = health.Status
				summary["database"] = health.Database
				summary["version"] = health.Version
			}

			if getOutputFormat() != "table" {
				return printOutput(summary)
			}

			fmt.Fprintln(stdout, "AlertFlow Status")
			fmt.Fprintln(stdout, strings.Repeat("=", 40))
			fmt.Fprintf(stdout, "  Server:        %s\n", summary["server_url"])
			if err != nil {
				fmt.Fprintf(stdout, "  Health:        (error: %v)\n", err)
			} else {
				fmt.Fprintf(stdout, "  Health:        %s (database %s, version %s)\n", health.Status, health.Database, health.Version)
			}
			if email, ok := summary["email"]; ok {
				fmt.Fprintf(stdout, "  Logged in as:  %s\n", email)
			} else if summary["authenticated"] == true {
				fmt.Fprintln(stdout, "  Logged in:     yes")
			} else {
				fmt.Fprintln(stdout, "  Logged in:     no")
			}
			return nil
		},
	}
}
