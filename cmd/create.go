package cmd

import (
	"github.com/nathanhack/secded/cmd/internal/create/hamming"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c"},
	Short:   "used to create a new ECC",
	Long:    `create provides the ability to make a new ECC and save it so it can be used later by the tools.`,
}

// createHammingCmd represents the Hamming command
var createHammingCmd = &cobra.Command{
	Use:     "hamming OUTPUT_HAMMING_JSON",
	Aliases: []string{"h", "ham"},
	Short:   "Creates a new Hamming code based ECC",
	Long:    `Creates a new Hamming code based ECC for any message size, optionally extended with a global parity bit (SECDED).`,
	Args:    cobra.ExactArgs(1),
	Run:     hamming.HammingRun,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.AddCommand(createHammingCmd)
	createHammingCmd.Flags().UintVarP(&hamming.MessageBits, "message", "m", 256, "the number of bits in the message; parity bits are the fewest p with 2^p >= message+p+1")
	createHammingCmd.Flags().BoolVarP(&hamming.Extended, "extended", "e", true, "add a global parity bit for double error detection (SECDED)")
	createHammingCmd.Flags().BoolVarP(&hamming.Verbose, "verbose", "v", false, "enable verbose info")
}
