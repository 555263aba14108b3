package cmd

import (
	"github.com/nathanhack/secded/cmd/internal/tools/bpsk"
	"github.com/nathanhack/secded/cmd/internal/tools/chart"
	"github.com/nathanhack/secded/cmd/internal/tools/csv"
	"github.com/nathanhack/secded/cmd/internal/tools/inject"

	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:     "tools",
	Aliases: []string{"t"},
	Short:   "Tools for ECCs",
	Long:    `Tools for ECCs`,
}

// toolsChansimCmd represents the chansim command
var toolsChansimCmd = &cobra.Command{
	Use:     "chansim",
	Aliases: []string{"cs", "c"},
	Short:   "Channel simulators",
	Long:    `Channel simulators for Hamming ECCs`,
}

// toolsInjectCmd represents the inject command
var toolsInjectCmd = &cobra.Command{
	Use:     "inject ECC_JSON_FILE RESULT_JSON",
	Aliases: []string{"i"},
	Short:   "Injects a fixed number of bit flips per codeword",
	Long: `Injects a fixed number of distinct bit flips into every codeword and checks the
decoder's diagnosis: 0 flips must be no error, 1 flip must be located and 2 flips
must be detected (extended codes only). A flip count of -1 draws 0..2 flips per
trial (0..1 without the global parity bit).`,
	Args: cobra.ExactArgs(2),
	Run:  inject.InjectRun,
}

// toolsBPSKCmd represents the bpsk command
var toolsBPSKCmd = &cobra.Command{
	Use:     "bpsk ECC_JSON_FILE RESULT_JSON",
	Aliases: []string{"b"},
	Short:   "A BPSK over AWGN channel simulator with hard decisions",
	Long:    `A BPSK over AWGN channel simulator, the received symbols are hard decided (>=0 is 1) before decoding`,
	Args:    cobra.ExactArgs(2),
	Run:     bpsk.BPSKRun,
}

// toolsResultsCmd represents the results command
var toolsResultsCmd = &cobra.Command{
	Use:     "results",
	Aliases: []string{"r"},
	Short:   "A tool to organize results for graphing and comparison",
	Long:    `A tool to organize results for graphing and comparison`,
}

// toolsCSVCmd represents the csv command
var toolsCSVCmd = &cobra.Command{
	Use:     "csv RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"c"},
	Short:   "Export to a CSV file",
	Long:    `Export to a CSV file`,
	Args:    cobra.MinimumNArgs(1),
	Run:     csv.CSVRun,
}

// toolsChartCmd represents the chart command
var toolsChartCmd = &cobra.Command{
	Use:     "chart RESULTS_JSON [RESULTS_JSON] ...",
	Aliases: []string{"ch"},
	Short:   "Export to an HTML bar chart",
	Long:    `Export the correct diagnosis rate to an HTML bar chart`,
	Args:    cobra.MinimumNArgs(1),
	Run:     chart.ChartRun,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsChansimCmd)
	toolsCmd.AddCommand(toolsResultsCmd)

	toolsChansimCmd.AddCommand(toolsInjectCmd)
	toolsInjectCmd.Flags().UintVarP(&inject.Trials, "trials", "t", 1_000_000, "the number of trials per step")
	toolsInjectCmd.Flags().IntSliceVarP(&inject.Flips, "flips", "f", []int{0, 1, 2}, "the number of bits to flip per codeword (-1 draws a random count per trial)")
	toolsInjectCmd.Flags().UintVar(&inject.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsInjectCmd.Flags().Int64VarP(&inject.Seed, "seed", "s", 0, "seed for the random messages and flips (0 means seed from the clock)")
	toolsInjectCmd.Flags().BoolVarP(&inject.Verbose, "verbose", "v", false, "enable verbose info")

	toolsChansimCmd.AddCommand(toolsBPSKCmd)
	toolsBPSKCmd.Flags().UintVarP(&bpsk.Trials, "trials", "t", 1_000_000, "the number of trials per step")
	toolsBPSKCmd.Flags().Float64SliceVarP(&bpsk.EbPerN0, "ebn0", "e", []float64{0.5, 1, 2, 4, 8, 16}, "the E_b/N_0 values to test (linear, >0)")
	toolsBPSKCmd.Flags().UintVar(&bpsk.Threads, "threads", 0, "number of threads to use (0 means to use the # of threads equal to the # of CPUs)")
	toolsBPSKCmd.Flags().Int64VarP(&bpsk.Seed, "seed", "s", 0, "seed for the random messages and noise (0 means seed from the clock)")
	toolsBPSKCmd.Flags().BoolVarP(&bpsk.Verbose, "verbose", "v", false, "enable verbose info")

	toolsResultsCmd.AddCommand(toolsCSVCmd)
	toolsCSVCmd.Flags().StringVarP(&csv.OutputFile, "output", "o", "results.csv", "filename of the combined csv")
	toolsCSVCmd.Flags().BoolVarP(&csv.MessageError, "message", "m", false, "outputs the MessageError instead of the correct diagnosis rate")
	toolsCSVCmd.Flags().BoolVarP(&csv.SilentError, "silent", "s", false, "outputs the silent corruption rate instead of the correct diagnosis rate")

	toolsResultsCmd.AddCommand(toolsChartCmd)
	toolsChartCmd.Flags().StringVarP(&chart.OutputFile, "output", "o", "results.html", "filename of the chart")
}
