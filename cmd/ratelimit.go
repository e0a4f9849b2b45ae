package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/miyata-dev/github-dormant/internal/config"
	"github.com/miyata-dev/github-dormant/internal/gateway"
)

var ratelimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Check GitHub API rate limit status",
	Long:  `Display the current GitHub API rate limit status for the core, search and GraphQL APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("GitHub token not configured; set the GITHUB_TOKEN environment variable")
		}

		logger := logrus.New()
		logger.SetOutput(io.Discard)
		gw, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			return err
		}

		limits, err := gw.RateLimits(context.Background())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "GitHub API Rate Limits:")
		printLimit(out, "Core API:  ", limits.Core)
		printLimit(out, "Search API:", limits.Search)
		printLimit(out, "GraphQL:   ", limits.GraphQL)
		return nil
	},
}

func printLimit(w io.Writer, label string, rate *github.Rate) {
	if rate == nil {
		return
	}
	resetIn := time.Until(rate.Reset.Time).Round(time.Second)
	if resetIn < 0 {
		resetIn = 0
	}
	fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", label, rate.Remaining, rate.Limit, resetIn)
}

func init() {
	rootCmd.AddCommand(ratelimitCmd)
}
