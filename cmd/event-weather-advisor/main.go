package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	eventsFileFlag string
	rootCmd        = &cobra.Command{
		Use:   "event-weather-advisor",
		Short: "Weather advice for upcoming calendar events",
		Long: "Fetches upcoming calendar events, looks up the forecast for each event's location " +
			"and suggests what to wear or bring.",
		SilenceUsage: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&eventsFileFlag, "events-file", "f", "",
		"read events from a JSON file instead of Google Calendar")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
