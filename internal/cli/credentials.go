package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"social-automation-service/internal/entity"
)

func newCredentialsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage platform credentials in the local store",
	}
	cmd.AddCommand(newCredentialsSetCmd(a))
	return cmd
}

func newCredentialsSetCmd(a *app) *cobra.Command {
	var (
		userID    string
		platform  string
		creds     entity.Credentials
		expiresAt string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store tokens for a user on a platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}
			p, ok := entity.ParsePlatform(platform)
			if !ok {
				return fmt.Errorf("invalid platform: %s", platform)
			}
			if creds.AccessToken == "" {
				return fmt.Errorf("--access-token is required")
			}
			if expiresAt != "" {
				t, err := time.Parse(time.RFC3339, expiresAt)
				if err != nil {
					return fmt.Errorf("invalid --expires-at (want RFC3339): %w", err)
				}
				creds.ExpiresAt = &t
			}

			if err := a.store.UpsertCredentials(cmd.Context(), userID, p, creds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "credentials stored for %s on %s\n", userID, p)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&platform, "platform", "", "instagram|twitter|linkedin|tiktok")
	cmd.Flags().StringVar(&creds.AccessToken, "access-token", "", "Platform access token")
	cmd.Flags().StringVar(&creds.RefreshToken, "refresh-token", "", "Platform refresh token")
	cmd.Flags().StringVar(&expiresAt, "expires-at", "", "Access token expiry, RFC3339")
	return cmd
}
