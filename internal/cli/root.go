package cli

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"social-automation-service/internal/config"
	"social-automation-service/internal/repository/sqlite"
)

// app carries state shared by subcommands for a single invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *sqlite.Store
}

// NewRootCmd builds the automationctl command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:           "automationctl",
		Short:         "Submit AI content jobs to the automation webhook from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return nil
			}
			s, err := sqlite.Open(a.cfg.SQLite.Path)
			if err != nil {
				return err
			}
			a.store = s
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return nil
			}
			err := a.store.Close()
			a.store = nil
			return err
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.SQLite.Path, "db", cfg.SQLite.Path, "Path to SQLite DB")
	root.PersistentFlags().StringVar(&a.cfg.Webhook.URL, "webhook-url", cfg.Webhook.URL, "Automation webhook URL (env WEBHOOK_URL)")
	root.PersistentFlags().StringVar(&a.cfg.Webhook.APIKey, "api-key", cfg.Webhook.APIKey, "Bearer key for the webhook (env WEBHOOK_API_KEY)")
	root.PersistentFlags().DurationVar(&a.cfg.Webhook.Timeout, "timeout", cfg.Webhook.Timeout, "Webhook request timeout")

	root.AddCommand(newCreateCmd(a), newStatusCmd(a), newCredentialsCmd(a))
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
