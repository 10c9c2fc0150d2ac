// Package main provides the sdrfctl binary entry point. sdrfctl parses
// tab-delimited sample/data relationship documents into experiment graphs,
// stores them, and validates their controlled-vocabulary references.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sdrfcore/internal/blob"
	"sdrfcore/internal/core"
	"sdrfcore/internal/termsource"
)

const appName = "sdrfctl"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", appName).Logger()
}

func rootCmd() *cobra.Command {
	var (
		logLevel  string
		catalog   string
		termsPath string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Parse and validate sample/data relationship documents",
		Long: `sdrfctl compiles the header of a tab-delimited sample/data relationship
document into a decoding grammar, decodes every row into applied protocol
chains, and reconstructs the deduplicated experiment graph.

Storage and archival backends are selected via SDRFCORE_* environment
variables (see internal/core/storage.go and internal/blob).`,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&catalog, "catalog", "", "Term-source catalog TOML file")
	cmd.PersistentFlags().StringVar(&termsPath, "terms", "", "Vocabulary terms TOML file for offline validation")

	newService := func() (*core.Service, error) {
		logger := initLogger(logLevel)
		store, err := core.OpenPersistentStore()
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		blobs, err := blob.Open(context.Background())
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		opts := []core.ServiceOption{core.WithLogger(core.NewZerologLogger(logger))}
		if termsPath != "" {
			resolver, err := termsource.LoadStaticResolver(termsPath)
			if err != nil {
				return nil, err
			}
			opts = append(opts, core.WithResolver(resolver))
		}
		if catalog != "" {
			cat, err := termsource.LoadCatalog(catalog)
			if err != nil {
				return nil, err
			}
			opts = append(opts, core.WithCatalog(cat))
		}
		return core.NewService(store, blobs, opts...), nil
	}

	cmd.AddCommand(parseCmd(newService))
	cmd.AddCommand(validateCmd(newService))
	cmd.AddCommand(listCmd(newService))
	cmd.AddCommand(showCmd(newService))
	cmd.AddCommand(fetchCmd(newService))
	return cmd
}

func parseCmd(newService func() (*core.Service, error)) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a document and store the resulting experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if name == "" {
				name = args[0]
			}
			rec, warnings, err := svc.ParseDocument(cmd.Context(), name, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored experiment %s (%d slots)\n", rec.ID, len(rec.Experiment.Slots))
			for _, warn := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", warn.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Experiment name (defaults to the file path)")
	return cmd
}

func validateCmd(newService func() (*core.Service, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <id>",
		Short: "Resolve term-source references of a stored experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			report, err := svc.ValidateExperiment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d references, resolved %d\n", report.Checked, report.Resolved)
			for _, failure := range report.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "failure: %s %q: %s\n", failure.Vocabulary, failure.Term, failure.Reason)
			}
			if !report.Valid() {
				return fmt.Errorf("%d references failed validation", len(report.Failures))
			}
			return nil
		},
	}
}

func listCmd(newService func() (*core.Service, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored experiments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			recs, err := svc.ListExperiments(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d slots\n",
					rec.ID, rec.CreatedAt.Format(time.RFC3339), rec.Name, len(rec.Experiment.Slots))
			}
			return nil
		},
	}
}

func showCmd(newService func() (*core.Service, error)) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored experiment graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			rec, err := svc.GetExperiment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rec.Experiment.Snapshot())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", rec.Name, rec.ID)
			for i, slot := range rec.Experiment.Slots {
				fmt.Fprintf(cmd.OutOrStdout(), "slot %d: %d applied protocols\n", i, len(slot))
				for _, ap := range slot {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d inputs, %d outputs\n",
						ap.Protocol.Name, len(ap.Inputs), len(ap.Outputs))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the experiment snapshot as JSON")
	return cmd
}

func fetchCmd(newService func() (*core.Service, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>",
		Short: "Print the archived source document of a stored experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			rc, err := svc.ArchivedDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()
			_, err = io.Copy(cmd.OutOrStdout(), rc)
			return err
		},
	}
}
