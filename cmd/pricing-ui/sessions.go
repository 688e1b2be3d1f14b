package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/pricing-protocol/internal/config"
	"github.com/Its-donkey/pricing-protocol/internal/pricing"
)

func newSessionsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and seed the configured session source",
	}
	cmd.AddCommand(newSessionsListCmd(root), newSessionsSeedCmd(root))
	return cmd
}

func newSessionsListCmd(root *rootOptions) *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print session records in source order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := pricing.ParseScope(scope)
			if err != nil {
				return err
			}
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			src, closeSource, err := openSource(cmd.Context(), cfg.Source)
			if err != nil {
				return err
			}
			defer closeSource()

			records, err := src.Sessions(cmd.Context(), parsed)
			if err != nil {
				return fmt.Errorf("load sessions: %w", err)
			}
			return writeSessions(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", string(pricing.ScopeLive), "which sessions to list: live or mine")
	return cmd
}

func writeSessions(out io.Writer, records []pricing.SessionRecord) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTRACT\tEND TIME\tPARTICIPANTS\tSTAKE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rec.Signature, rec.Date, rec.ParticipantCount, rec.StakeAmount)
	}
	return tw.Flush()
}

func newSessionsSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the placeholder records into the configured JSON file or database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			records := pricing.PlaceholderRecords()

			switch cfg.Source.Kind {
			case config.SourceJSON:
				if err := os.MkdirAll(filepath.Dir(cfg.Source.File), 0o755); err != nil {
					return fmt.Errorf("create sessions dir: %w", err)
				}
				if err := pricing.WriteJSONFile(cfg.Source.File, records, records); err != nil {
					return fmt.Errorf("write sessions file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records per scope to %s\n", len(records), cfg.Source.File)
			case config.SourcePostgres:
				src, closeSource, err := openSource(cmd.Context(), cfg.Source)
				if err != nil {
					return err
				}
				defer closeSource()
				pg, ok := src.(*pricing.PostgresSource)
				if !ok {
					return fmt.Errorf("unexpected source type %T", src)
				}
				for _, scope := range []pricing.Scope{pricing.ScopeLive, pricing.ScopeMine} {
					if err := pg.Insert(cmd.Context(), scope, records); err != nil {
						return fmt.Errorf("seed %s sessions: %w", scope, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted %d records per scope\n", len(records))
			default:
				return errors.New("the placeholder source has nothing to seed; set source.kind to json or postgres")
			}
			return nil
		},
	}
}
