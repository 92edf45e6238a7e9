package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "checkoutctl",
		Short:         "Drive a checkout against the Himalayan BJJ payment server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("server", envOr("PAYMENT_SERVER_URL", "http://localhost:4242"), "Payment server base URL")
	root.PersistentFlags().Duration("timeout", 0, "Request timeout (default 8s)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log controller transitions")

	root.AddCommand(pingCmd())
	root.AddCommand(intentCmd())
	root.AddCommand(sessionCmd())
	root.AddCommand(demoCmd())

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
