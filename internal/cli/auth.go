package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/alertflow/alertflow/internal/auth"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())
	cmd.AddCommand(newAuthMintCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token issued by the identity provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = promptPassword("Access token: ")
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("no token given")
			}

			claims, err := peekClaims(token)
			if err != nil {
				return fmt.Errorf("not a valid access token: %w", err)
			}

			viper.Set("auth.token", token)
			viper.Set("auth.email", claims.Email)
			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			name := claims.Email
			if name == "" {
				name = claims.Subject
			}
			fmt.Fprintf(stdout, "Logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token (prompted when omitted)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("auth.token", "")
			viper.Set("auth.email", "")

			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}

			fmt.Fprintln(stdout, "Logged out successfully")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity in the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := viper.GetString("auth.token")
			if token == "" {
				return fmt.Errorf("not authenticated. Run 'alertflow auth login' first")
			}
			claims, err := peekClaims(token)
			if err != nil {
				return err
			}

			info := map[string]interface{}{
				"user_id": claims.Subject,
				"email":   claims.Email,
			}
			if claims.ExpiresAt != nil {
				info["expires_at"] = claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
			}
			if getOutputFormat() != "table" {
				return printOutput(info)
			}

			fmt.Fprintf(stdout, "User ID: %s\n", claims.Subject)
			if claims.Email != "" {
				fmt.Fprintf(stdout, "Email:   %s\n", claims.Email)
			}
			if exp, ok := info["expires_at"]; ok {
				fmt.Fprintf(stdout, "Expires: %s\n", exp)
			}
			return nil
		},
	}
}

// newAuthMintCmd signs a development token with the server's shared secret
func newAuthMintCmd() *cobra.Command {
	var userID, email, secret string
	var ttl time.Duration
	var save bool

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = viper.GetString("jwt_secret")
			}
			if secret == "" {
				return fmt.Errorf("--secret or ALERTFLOW_JWT_SECRET is required")
			}

			token, err := auth.MintToken(userID, email, secret, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			if save {
				viper.Set("auth.token", token)
				viper.Set("auth.email", email)
				if err := writeConfig(); err != nil {
					return fmt.Errorf("failed to save credentials: %w", err)
				}
			}
			fmt.Fprintln(stdout, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	cmd.Flags().BoolVar(&save, "save", false, "store the token as the current login")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// peekClaims decodes a token without verifying its signature. The server
// verifies every request.
func peekClaims(token string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, auth.ErrMissingSubject
	}
	return claims, nil
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(secret)
}
