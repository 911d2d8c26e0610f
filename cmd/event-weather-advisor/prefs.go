package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/event-weather-advisor/internal/onboarding"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

func init() {
	prefsCmd := &cobra.Command{Use: "prefs", Short: "Show or change onboarding preferences"}

	withStore := func(fn func(ctx context.Context, s *onboarding.Store) (interface{}, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			s, closeFn, err := newPreferenceStore(cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := fn(cmd.Context(), s)
			if err != nil {
				return err
			}
			if out == nil {
				return nil
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
	}

	// show
	prefsCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored onboarding data",
		RunE: withStore(func(ctx context.Context, s *onboarding.Store) (interface{}, error) {
			data, err := s.Load(ctx)
			if err != nil {
				return nil, err
			}
			data.CalendarToken = redact(data.CalendarToken)
			return data, nil
		}),
	})

	// home
	var address, city, state string
	var lat, lon float64
	homeCmd := &cobra.Command{
		Use:   "home",
		Short: "Set the home location used for events without one",
		RunE: withStore(func(ctx context.Context, s *onboarding.Store) (interface{}, error) {
			return s.SetHomeLocation(ctx, onboarding.HomeLocation{
				Address:     address,
				City:        city,
				State:       state,
				Coordinates: weather.Coordinates{Latitude: lat, Longitude: lon},
			})
		}),
	}
	homeCmd.Flags().StringVarP(&address, "address", "a", "", "street address (required)")
	homeCmd.Flags().StringVar(&city, "city", "", "city")
	homeCmd.Flags().StringVar(&state, "state", "", "state")
	homeCmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	homeCmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	_ = homeCmd.MarkFlagRequired("address")
	_ = homeCmd.MarkFlagRequired("lat")
	_ = homeCmd.MarkFlagRequired("lon")
	prefsCmd.AddCommand(homeCmd)

	// features
	var enable, disable []string
	featuresCmd := &cobra.Command{
		Use:   "features",
		Short: "Enable or disable weather features",
		RunE: withStore(func(ctx context.Context, s *onboarding.Store) (interface{}, error) {
			data, err := s.Load(ctx)
			if err != nil {
				return nil, err
			}
			features, err := toggleFeatures(data.WeatherFeatures, enable, disable)
			if err != nil {
				return nil, err
			}
			return s.SetFeatures(ctx, features)
		}),
	}
	featuresCmd.Flags().StringSliceVarP(&enable, "enable", "e", nil, "features to turn on (e.g. humidity,airQuality)")
	featuresCmd.Flags().StringSliceVarP(&disable, "disable", "d", nil, "features to turn off")
	prefsCmd.AddCommand(featuresCmd)

	// token
	prefsCmd.AddCommand(&cobra.Command{
		Use:   "token TOKEN",
		Short: "Store a Google Calendar access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *onboarding.Store) (interface{}, error) {
				if _, err := s.SetCalendarToken(ctx, args[0]); err != nil {
					return nil, err
				}
				return nil, nil
			})(cmd, args)
		},
	})

	// reset
	prefsCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Discard all onboarding data",
		RunE: withStore(func(ctx context.Context, s *onboarding.Store) (interface{}, error) {
			return nil, s.Reset(ctx)
		}),
	})

	rootCmd.AddCommand(prefsCmd)
}

// toggleFeatures applies enable/disable lists by JSON field name.
func toggleFeatures(f onboarding.WeatherFeatures, enable, disable []string) (onboarding.WeatherFeatures, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return f, err
	}
	var m map[string]bool
	if err := json.Unmarshal(raw, &m); err != nil {
		return f, err
	}

	set := func(names []string, v bool) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if _, ok := m[name]; !ok {
				return fmt.Errorf("unknown feature %q", name)
			}
			m[name] = v
		}
		return nil
	}
	if err := set(enable, true); err != nil {
		return f, err
	}
	if err := set(disable, false); err != nil {
		return f, err
	}

	raw, err = json.Marshal(m)
	if err != nil {
		return f, err
	}
	var out onboarding.WeatherFeatures
	err = json.Unmarshal(raw, &out)
	return out, err
}

func redact(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
