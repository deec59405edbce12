package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"discogs_import/internal/collection"
	"discogs_import/internal/config"
	"discogs_import/internal/discogs"
	"discogs_import/internal/importer"
	"discogs_import/internal/notifications"
	"discogs_import/internal/retry"
	"discogs_import/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type importOptions struct {
	limit      int
	skip       int
	fromSheet  bool
	sheetRange string
}

func newRootCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "discogs_import USERNAME FILENAME",
		Short: "Parse a record collection in CSV format and upload it to a user's Discogs collection",
		Long: `Parse a record collection export and add every release to a user's Discogs
collection. The input must contain Artist, Title and Year columns; FILENAME
is a CSV path, or a spreadsheet ID when --from-sheet is given.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "Only attempt the first NUM rows after skipping (default: 0/unlimited)")
	cmd.Flags().IntVarP(&opts.skip, "skip", "s", 0, "Skip the first NUM rows (default: 0)")
	cmd.Flags().BoolVar(&opts.fromSheet, "from-sheet", false, "Treat FILENAME as a Google Sheets spreadsheet ID")
	cmd.Flags().StringVar(&opts.sheetRange, "sheet-range", "Collection!A1:Z1000", "A1 range to read when using --from-sheet")

	return cmd
}

func main() {
	setupEnvironment()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}
}

func runImport(ctx context.Context, username, filename string, opts importOptions) error {
	records, err := loadRecords(ctx, filename, opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("unable to find any records in %s", filename)
	}

	selected := collection.Range{Skip: opts.skip, Limit: opts.limit}.Apply(records)
	if len(selected) == 0 {
		return fmt.Errorf("skip/limit range selects no rows (%d records in %s)", len(records), filename)
	}

	resilience := config.DefaultResilienceConfig
	token := getRequiredEnv("DISCOGS_TOKEN")
	client := discogs.NewClient(token, username, resilience.RateLimitThreshold, resilience.RateLimitPause)

	if err := verifyIdentity(ctx, client, resilience.IdentityCheck, username); err != nil {
		return err
	}

	imp := importer.New(client, os.Stdout)
	summary := imp.Run(ctx, username, selected)

	log.Debug().
		Int64("api_calls", client.GetAPICallCount()).
		Msg("API call summary for import run")

	notifyRunSummary(ctx, username, summary)

	return nil
}

func loadRecords(ctx context.Context, filename string, opts importOptions) ([]collection.Record, error) {
	if !opts.fromSheet {
		return collection.LoadCSV(filename)
	}

	credsFile := getEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	sheetsClient, err := sheets.NewClient(ctx, credsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return sheets.LoadCollection(ctx, sheetsClient, filename, opts.sheetRange)
}

// verifyIdentity fails fast on a bad token before any row is attempted.
// Transient network errors are retried; auth rejections are not.
func verifyIdentity(ctx context.Context, client *discogs.Client, retryConfig retry.Config, username string) error {
	retryConfig.Retryable = func(err error) bool {
		msg := err.Error()
		return !strings.Contains(msg, "status 401") && !strings.Contains(msg, "status 403")
	}

	identity, err := retry.WithRetry(ctx, retryConfig, func(ctx context.Context) (string, error) {
		return client.Identity(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to authenticate with Discogs API: %w", err)
	}

	log.Debug().Str("identity", identity).Msg("Authenticated with Discogs API")
	if identity != username {
		log.Warn().
			Str("identity", identity).
			Str("username", username).
			Msg("Token identity differs from target username")
	}
	return nil
}

func notifyRunSummary(ctx context.Context, username string, summary importer.Summary) {
	enabled := getEnvWithDefault("NTFY_ENABLED", "false") == "true"
	baseURL := getEnvWithDefault("NTFY_URL", "https://ntfy.sh")
	topic := getEnvWithDefault("NTFY_TOPIC", "discogs-import")

	client := notifications.NewClient(baseURL, topic, enabled)
	if err := client.NotifyRunSummary(ctx, username, summary.Attempted, summary.Added, summary.Failed); err != nil {
		log.Warn().Err(err).Msg("Failed to send run summary notification")
	}
}
