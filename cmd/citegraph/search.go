package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/export"
	"github.com/pdiddy/citegraph/internal/s2"
	"github.com/pdiddy/citegraph/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Page through the Semantic Scholar corpus search",
	Long: `Search queries the Semantic Scholar paper search endpoint with free text
and structured filters (field of study, publication type, year range) and
pages through the results 100 at a time until --max-papers papers are
collected or the results run out.

If a page fails after retries, the papers collected so far are still saved.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query")
	searchCmd.Flags().StringSlice("field-of-study", nil, "filter by field of study (repeatable, e.g. \"Computer Science\")")
	searchCmd.Flags().StringSlice("publication-type", nil, "filter by publication type (repeatable, e.g. Conference, JournalArticle)")
	searchCmd.Flags().Int("from-year", 0, "earliest publication year")
	searchCmd.Flags().Int("to-year", 0, "latest publication year")
	searchCmd.Flags().Int("max-papers", 0, "stop after this many papers (default 1000)")
	searchCmd.Flags().String("format", string(types.FormatCSV), "output format: csv, json, or yaml")
	searchCmd.Flags().String("name", "search", "output file name prefix")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg := loadConfig(viper.GetViper())

	q := s2.CorpusQuery{}
	q.Query, _ = cmd.Flags().GetString("query")
	q.FieldsOfStudy, _ = cmd.Flags().GetStringSlice("field-of-study")
	q.PublicationTypes, _ = cmd.Flags().GetStringSlice("publication-type")
	q.YearFrom, _ = cmd.Flags().GetInt("from-year")
	q.YearTo, _ = cmd.Flags().GetInt("to-year")
	if q.IsEmpty() {
		return fmt.Errorf("query or filter required: provide --query, --field-of-study, --publication-type, or a year range")
	}
	if q.YearFrom > 0 && q.YearTo > 0 && q.YearFrom > q.YearTo {
		return fmt.Errorf("--from-year %d is after --to-year %d", q.YearFrom, q.YearTo)
	}

	if maxPapers, _ := cmd.Flags().GetInt("max-papers"); maxPapers > 0 {
		cfg.Search.MaxPapers = maxPapers
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if format == types.FormatSQLite {
		return fmt.Errorf("%w: search writes csv, json, or yaml", export.ErrUnsupportedFormat)
	}
	cfg.Export.Format = format

	exporter, err := export.New(cfg.Export, export.WithLogger(out))
	if err != nil {
		return err
	}

	client := s2.NewClient(cfg.Fetch, s2.WithLogger(out), s2.WithMetrics(runMetrics))
	papers, searchErr := client.SearchCorpus(cmd.Context(), q, cfg.Search)
	if searchErr != nil && len(papers) == 0 {
		return searchErr
	}

	name, _ := cmd.Flags().GetString("name")
	if _, err := exporter.WriteCorpus(name, q.Query, papers); err != nil {
		return errors.Join(searchErr, err)
	}
	if searchErr != nil {
		return fmt.Errorf("search stopped early after %d papers: %w", len(papers), searchErr)
	}
	return nil
}
