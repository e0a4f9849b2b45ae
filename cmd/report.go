// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/miyata-dev/github-dormant/internal/config"
	"github.com/miyata-dev/github-dormant/internal/gateway"
	"github.com/miyata-dev/github-dormant/internal/report"
	"github.com/miyata-dev/github-dormant/internal/usecase"
)

// Pacing of the repository walk: pause after every pacerEvery repositories.
const (
	pacerEvery = 100
	pacerPause = 2 * time.Second
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregates per-user activity and writes one CSV per organization",
	Long: `Walks every repository and branch of the configured organizations, merges
commit, issue and pull request activity into a last-seen date per user,
reconciles the result against the member roster, and writes one CSV report
per organization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags win over environment and file configuration.
		if orgs, _ := cmd.Flags().GetString("orgs"); orgs != "" {
			cfg.Organizations = config.SplitOrgs(orgs)
		}
		if cmd.Flags().Changed("threshold") {
			cfg.ThresholdDays, _ = cmd.Flags().GetInt("threshold")
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.OutputDir = out
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		gw, err := gateway.NewGitHubGateway(cfg.Token, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		pacer := usecase.NewPacer(pacerEvery, pacerPause, logger).
			WithQuotaProbe(gw.RemainingGraphQLQuota)
		printSummary, _ := cmd.Flags().GetBool("summary")

		var failed []string
		for _, org := range cfg.Organizations {
			now := time.Now().UTC()
			logger.WithFields(logrus.Fields{
				"org":       org,
				"threshold": cfg.ThresholdDays,
			}).Info("starting organization run")

			rep, err := usecase.RunOrganization(ctx, gw, pacer, logger, org, cfg.ThresholdDays, now)
			if err != nil {
				logger.WithError(err).WithField("org", org).Error("skipping organization")
				failed = append(failed, org)
				continue
			}

			path, err := report.WriteCSV(cfg.OutputDir, org, rep.Rows, rep.GeneratedAt)
			if err != nil {
				logger.WithError(err).WithField("org", org).Error("failed to write report")
				failed = append(failed, org)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d users, %d units skipped)\n",
				path, len(rep.Rows), len(rep.Summary.Skipped))

			if printSummary {
				s := report.Summarize(rep.Rows, now)
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s: active=%d inactive=%d never-active=%d mean_days=%.1f median_days=%.1f\n",
					org, s.Active, s.Inactive, s.NeverActive,
					s.MeanDaysSinceActivity, s.MedianDaysSinceActivity)
			}
		}

		if len(failed) > 0 {
			return fmt.Errorf("run finished with failures for: %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("orgs", "", "Comma-separated organization names (overrides ORG_NAMES)")
	reportCmd.Flags().Int("threshold", config.DefaultThresholdDays, "Days of inactivity before a user counts as inactive")
	reportCmd.Flags().String("output", "", "Directory for the CSV reports (default current directory)")
	reportCmd.Flags().String("config", "", "Path to an optional YAML config file")
	reportCmd.Flags().Bool("summary", false, "Print per-organization aggregate statistics")
}
