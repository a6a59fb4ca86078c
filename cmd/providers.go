package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show configuration status for each lead provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		for _, p := range env.Registry.All() {
			ok, missing := p.Configured()
			if ok {
				fmt.Printf("%-12s configured\n", p.Name())
			} else {
				fmt.Printf("%-12s missing: %s\n", p.Name(), strings.Join(missing, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
