package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fragrancefinder/backend/config"
	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/infrastructure/catalogue"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. A fresh tree per call keeps flag
// state from leaking between executions.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fragrance",
		Short:         "Content-based perfume recommender",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(),
		newRecommendCmd(),
		newSimilarCmd(),
		newAccordsCmd(),
		newImportCmd(),
	)
	return root
}

// --- recommend ---

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend perfumes for up to three accords",
		Long: `Recommend perfumes whose main accords are closest to the selection.

Examples:
  fragrance recommend --accords floral
  fragrance recommend --accords "woody,warm spicy,amber"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			accords, _ := cmd.Flags().GetStringSlice("accords")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			index, err := loadIndex(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			result, err := newService(cfg, index, nil).RecommendByAccords(cmd.Context(), &domain.AccordRequest{Accords: accords})
			if err != nil {
				return err
			}
			if result.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No accords selected.")
				return nil
			}
			return printRecommendations(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringSlice("accords", nil, "comma-separated accords")
	return cmd
}

// --- similar ---

func newSimilarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "Recommend perfumes with notes similar to a named perfume",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			index, err := loadIndex(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			result, err := newService(cfg, index, nil).RecommendSimilar(cmd.Context(), &domain.SimilarRequest{Perfume: name})
			if err != nil {
				return err
			}
			return printRecommendations(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("name", "", "exact perfume name")
	return cmd
}

// --- accords ---

func newAccordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accords",
		Short: "List every accord in the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			source, err := catalogue.NewSource(cfg.Catalogue.Source, cfg.Catalogue.Path, cfg.Catalogue.Table)
			if err != nil {
				return err
			}
			perfumes, err := source.Load(cmd.Context())
			if err != nil {
				return err
			}

			for _, accord := range catalogue.UniqueAccords(perfumes) {
				fmt.Fprintln(cmd.OutOrStdout(), accord)
			}
			return nil
		},
	}
}

// --- import ---

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Copy a CSV catalogue into a SQLite database",
		Long: `Copy a CSV catalogue into a SQLite database that can then be served
with catalogue.source=sqlite.

Examples:
  fragrance import Data/fivek_subset_data.csv --db Data/perfumes.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			table, _ := cmd.Flags().GetString("table")

			perfumes, err := catalogue.NewCSVSource(args[0]).Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := catalogue.WriteSQLite(cmd.Context(), dbPath, table, perfumes); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d perfumes into %s (table %s)\n", len(perfumes), dbPath, table)
			return nil
		},
	}
	cmd.Flags().String("db", "perfumes.db", "SQLite database path")
	cmd.Flags().String("table", "perfumes", "table name")
	return cmd
}

// printRecommendations writes a table numbered from 1
func printRecommendations(w io.Writer, result *domain.RecommendationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tBRAND\tPERFUME\tNOTES\t%s\n", strings.ToUpper(string(result.Metric)))
	for _, r := range result.Recommendations {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.4f\n", r.Rank, r.Brand, r.Perfume, r.Notes, r.Score)
	}
	return tw.Flush()
}
