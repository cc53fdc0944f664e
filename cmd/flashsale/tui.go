package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"flashsale-dashboard/internal/tui"
)

func (c *cli) tuiCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore the dashboard in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Logs would corrupt the alternate screen.
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			c.setLogOutput(logOut)

			analytics, err := c.loadAnalytics(cmd.Context(), nil, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), analytics, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}
