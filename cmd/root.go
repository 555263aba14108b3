package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "secded",
	Short: "Hamming SEC/SECDED codes and channel simulators",
	Long: `secded creates Hamming codes for any message length, optionally extended with a
global parity bit for single error correction and double error detection, and
provides tools to exercise them with injected errors.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
