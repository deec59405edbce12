package importer

import (
	"context"
	"fmt"
	"io"

	"discogs_import/internal/collection"
	"discogs_import/internal/discogs"

	"github.com/rs/zerolog/log"
)

// Catalog is the narrow slice of the Discogs API the pipeline needs.
type Catalog interface {
	SearchRelease(ctx context.Context, artist, title string, year int) (*discogs.Release, error)
	AddToCollection(ctx context.Context, username string, releaseID int) error
}

// Summary reports the outcome of one import run.
type Summary struct {
	Attempted int
	Added     int
	Failed    int
}

type Importer struct {
	catalog Catalog
	out     io.Writer
}

func New(catalog Catalog, out io.Writer) *Importer {
	return &Importer{
		catalog: catalog,
		out:     out,
	}
}

// Run imports each record in order: resolve a release for (artist, title,
// year), then add it to the user's collection. One status line is written
// per attempted record, and a failed record never halts the run.
func (imp *Importer) Run(ctx context.Context, username string, records []collection.Record) Summary {
	var summary Summary

	for i, record := range records {
		summary.Attempted++
		fmt.Fprintf(imp.out, "Adding %s - %s...", record.Artist, record.Title)

		if err := imp.importRecord(ctx, username, record); err != nil {
			summary.Failed++
			fmt.Fprintf(imp.out, "failed (%v)\n", err)
			log.Warn().
				Err(err).
				Int("row", i+1).
				Str("artist", record.Artist).
				Str("title", record.Title).
				Msg("Failed to import record")
			continue
		}

		summary.Added++
		fmt.Fprintln(imp.out, "Done!")
	}

	log.Info().
		Int("attempted", summary.Attempted).
		Int("added", summary.Added).
		Int("failed", summary.Failed).
		Msg("Import run complete")

	return summary
}

func (imp *Importer) importRecord(ctx context.Context, username string, record collection.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	release, err := imp.catalog.SearchRelease(ctx, record.Artist, record.Title, record.Year)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	log.Debug().
		Str("artist", record.Artist).
		Str("title", record.Title).
		Int("release_id", release.ID).
		Str("release_title", release.Title).
		Msg("Matched release")

	if err := imp.catalog.AddToCollection(ctx, username, release.ID); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	return nil
}
