package bpsk

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/nathanhack/secded/benchmarking"
	"github.com/nathanhack/secded/cmd/internal/tools"
	"github.com/nathanhack/secded/hamming"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const typeInfo = "BPSK:hamming/harddecision"

var (
	Trials  uint
	EbPerN0 []float64
	Threads uint
	Seed    int64
	Verbose bool
)

var BPSKRun = func(cmd *cobra.Command, args []string) {
	if len(args) != 2 {
		fmt.Println("requires both ECC_JSON_FILE RESULT_JSON")
		return
	}
	if Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	for _, e := range EbPerN0 {
		if e <= 0 {
			fmt.Printf("E_b/N_0 must be >0 but found %v\n", e)
			return
		}
	}

	ecc, err := tools.LoadHammingECC(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	data, err := tools.LoadOrCreateResults(args[1], typeInfo, ecc)
	if err != nil {
		fmt.Println(err)
		return
	}

	if Seed == 0 {
		Seed = time.Now().UnixNano()
	}

	ctx := tools.SignalContext()
	tools.RunSweep(ctx, data, EbPerN0, int(Trials), tools.Threads(Threads), args[1], runStep(ecc))

	err = tools.SaveResults(args[1], data)
	if err != nil {
		fmt.Println(err)
	}
}

func runStep(ecc *hamming.Code) tools.StepRunner {
	createMessage := func(rng *rand.Rand, trial int) mat.SparseVector {
		return benchmarking.RandomMessage(rng, ecc.MessageLength())
	}

	return func(ctx context.Context, parameter float64, trials, threads int, previousStats benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats {
		channel := func(rng *rand.Rand, codeword mat.SparseVector) mat.SparseVector {
			//hard decision: >=0 is a 1
			noisy := benchmarking.RandomNoiseBPSK(rng, benchmarking.BitsToBPSK(codeword), parameter)
			return benchmarking.BPSKToBits(noisy, 0)
		}

		seed := benchmarking.ParameterSeed(Seed, parameter)
		return benchmarking.BenchmarkContinueStats(ctx, trials, threads, seed,
			createMessage, benchmarking.HammingEncoder(ecc), channel,
			benchmarking.HammingCorrection(ecc), benchmarking.HammingMetrics(ecc),
			checkpoints, previousStats, false)
	}
}
