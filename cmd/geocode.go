package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <query>...",
	Short: "Resolve location queries to coordinates (cached stub geocoder)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		results, err := env.Geocoder.BatchLookup(ctx, args, cfg.Geocode.BatchConcurrency)
		if err != nil {
			return err
		}
		for _, res := range results {
			source := "fresh"
			if res.Cached {
				source = "cached"
			}
			fmt.Printf("%s -> %.6f,%.6f (%s)\n", res.Point.Query, res.Point.Lat, res.Point.Lon, source)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
