package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gatewayctl",
		Short: "Sign and verify payment gateway parameter sets",
	}

	rootCmd.PersistentFlags().StringP("passphrase", "p", os.Getenv("GATEWAY_PASSPHRASE"), "Merchant passphrase (default $GATEWAY_PASSPHRASE)")

	rootCmd.AddCommand(signCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(notifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
