package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brattlof/featgen/internal/output"
	"github.com/brattlof/featgen/internal/webhook"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Configure repository webhooks on GitHub or GitLab",
	Long: `Create or list repository webhooks so repository events can trigger
external automation.

Environment variables:
  N8N_WEBHOOK_URL     Webhook target URL
  GIT_PLATFORM        "github" or "gitlab"
  REPO_OWNER          Repository owner/organization
  REPO_NAME           Repository name
  GIT_PLATFORM_TOKEN  Access token
  WEBHOOK_SECRET      Webhook secret (optional)`,
}

var webhookCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the webhook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWebhook(cmd, func(ctx context.Context, c *webhook.Client) (json.RawMessage, error) {
			return c.Create(ctx)
		}, "Webhook created successfully!")
	},
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing webhooks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWebhook(cmd, func(ctx context.Context, c *webhook.Client) (json.RawMessage, error) {
			return c.List(ctx)
		}, "Existing webhooks:")
	},
}

func runWebhook(cmd *cobra.Command, call func(context.Context, *webhook.Client) (json.RawMessage, error), success string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client, err := webhook.NewClient(webhook.Config{
		URL:      cfg.Webhook.URL,
		Platform: cfg.Webhook.Platform,
		Owner:    cfg.Webhook.Owner,
		Repo:     cfg.Webhook.Repo,
		Token:    cfg.Webhook.Token,
		Secret:   cfg.Webhook.Secret,
		APIBase:  cfg.Webhook.APIBase,
	}, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := call(ctx, client)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	printer := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	printer.Success(success)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, resp, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(resp)
	}
	fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
	return nil
}

func init() {
	webhookCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout")

	webhookCmd.AddCommand(webhookCreateCmd)
	webhookCmd.AddCommand(webhookListCmd)
}
