package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"social-automation-service/internal/service"
	"social-automation-service/internal/webhook"
)

func (a *app) client() *service.AutomationClient {
	return service.NewAutomationClient(service.AutomationClientConfig{
		Credentials: a.store,
		Jobs:        a.store,
		Webhook:     webhook.NewClient(a.cfg.Webhook.URL, a.cfg.Webhook.APIKey, a.cfg.Webhook.Timeout),
		Logger:      a.logger,
	})
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		req      service.CreateJobRequest
		caption  string
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job and submit it to the webhook",
		Example: `  automationctl create --user user123 --platform instagram --type image_generation \
    --prompt "Create a beautiful sunset landscape" --caption "Beautiful AI-generated sunset!"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateWebhook(); err != nil {
				return err
			}
			if cmd.Flags().Changed("caption") {
				req.Caption = &caption
			}
			if schedule != "" {
				t, err := time.Parse(time.RFC3339, schedule)
				if err != nil {
					return fmt.Errorf("invalid --schedule (want RFC3339): %w", err)
				}
				req.ScheduleTime = &t
			}

			res, err := a.client().CreateJob(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.UserID, "user", "", "User ID")
	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "Generation prompt (max 1000 characters)")
	cmd.Flags().StringVar(&req.Platform, "platform", "", "instagram|twitter|linkedin|tiktok")
	cmd.Flags().StringVar(&req.Type, "type", "", "Job type, e.g. image_generation")
	cmd.Flags().StringVar(&caption, "caption", "", "Post caption")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Publish time, RFC3339")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show a stored job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.client().GetJobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), job)
		},
	}
}
