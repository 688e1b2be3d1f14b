package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/pricing-protocol/internal/config"
	"github.com/Its-donkey/pricing-protocol/logging"
)

func newLogsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Read the server's rotating log file",
	}

	var n int
	var dir string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print the newest log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				cfg, err := config.Load(root.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				dir = cfg.App.Logs
			}
			entries, err := logging.ReadRecent(filepath.Join(dir, logging.FileName), n)
			if err != nil {
				return fmt.Errorf("read logs: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				line := fmt.Sprintf("%s %-5s [%s] %s", e.Timestamp.Format("2006-01-02T15:04:05Z07:00"), e.Level, e.Category, e.Message)
				if e.RequestID != "" {
					line += " request_id=" + e.RequestID
				}
				if e.Error != "" {
					line += " error=" + e.Error
				}
				fmt.Fprintln(out, strings.TrimSpace(line))
			}
			return nil
		},
	}
	tail.Flags().IntVarP(&n, "lines", "n", 20, "number of entries to print")
	tail.Flags().StringVar(&dir, "dir", "", "log directory (defaults to app.logs)")

	cmd.AddCommand(tail)
	return cmd
}
