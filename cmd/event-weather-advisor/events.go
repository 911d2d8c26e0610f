package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	var lookahead time.Duration
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Enrich upcoming events once and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			if lookahead <= 0 {
				lookahead = a.cfg.CalendarLookahead
			}
			from := time.Now()
			events, err := a.source.Events(cmd.Context(), from, from.Add(lookahead))
			if err != nil {
				return err
			}
			res, err := a.runner.Run(cmd.Context(), events)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Events)
		},
	}
	eventsCmd.Flags().DurationVarP(&lookahead, "lookahead", "l", 0, "how far ahead to look (defaults to CALENDAR_LOOKAHEAD)")
	rootCmd.AddCommand(eventsCmd)
}
