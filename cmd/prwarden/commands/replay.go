package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/spf13/cobra"

	"github.com/prwarden/prwarden-bot/internal/core/config"
	"github.com/prwarden/prwarden-bot/internal/core/hook"
	ghclient "github.com/prwarden/prwarden-bot/internal/integrations/github"
	"github.com/prwarden/prwarden-bot/internal/integrations/notify"
	"github.com/prwarden/prwarden-bot/internal/integrations/tracker"
	"github.com/prwarden/prwarden-bot/internal/rules"
)

var (
	payloadFile string
	replayDry   bool
)

// replayCmd feeds a saved pull_request webhook payload through the rules.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a pull_request webhook payload through the rules",
	Long: `Replay a saved pull_request webhook payload (JSON) through the same
router the webhook server uses. Dry-run is the default: mutating calls
are logged instead of performed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay()
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&payloadFile, "payload", "", "Path to pull_request event JSON file")
	replayCmd.Flags().BoolVar(&replayDry, "dry-run", true, "Log mutating calls instead of performing them")
	_ = replayCmd.MarkFlagRequired("payload")
}

func runReplay() error {
	data, err := os.ReadFile(payloadFile)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}

	var ghEvent gogithub.PullRequestEvent
	if err := json.Unmarshal(data, &ghEvent); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	evt, ok := hook.FromGitHub(&ghEvent)
	if !ok {
		return fmt.Errorf("unsupported pull_request action %q", ghEvent.GetAction())
	}

	cfg, err := loadReplayConfig()
	if err != nil {
		return err
	}

	deps := &hook.Dependencies{
		Config:   cfg,
		DryRun:   replayDry,
		Host:     ghclient.NewClient(context.Background(), os.Getenv("GITHUB_TOKEN")),
		Notifier: notify.New(cfg.Notify.TeamWebhookURL, cfg.Notify.DebugWebhookURL),
	}
	if cfg.Tracker.URL != "" {
		trackerClient, err := tracker.New(cfg.Tracker.URL)
		if err != nil {
			return fmt.Errorf("failed to init tracker client: %w", err)
		}
		deps.Tracker = trackerClient
	}

	router := hook.NewRouter()
	rules.RegisterAll(router)

	if verbose {
		fmt.Printf("Replaying %s for PR #%d (%s/%s), dry-run=%v\n",
			evt.Action, evt.PR.Number, evt.Owner, evt.Repo, replayDry)
	}

	router.Dispatch(context.Background(), deps, evt)
	return nil
}

// loadReplayConfig loads the config from --config or the search path.
func loadReplayConfig() (*config.Config, error) {
	path := config.FindConfigPath(cfgFile)
	if path == "" {
		if cfgFile != "" {
			return nil, fmt.Errorf("config file %s not found", cfgFile)
		}
		if verbose {
			fmt.Println("No configuration file found, using defaults")
		}
		return config.Default(), nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", path)
	}
	return cfg, nil
}
