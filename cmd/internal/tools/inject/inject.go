package inject

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
	"golang.org/x/exp/slices"
)

const typeInfo = "INJECT:hamming"

// Mixed is the flip count meaning "draw 0..capability flips per trial".
const Mixed = -1

var (
	Trials  uint
	Flips   []int
	Threads uint
	Seed    int64
	Verbose bool
)

var InjectRun = func(cmd *cobra.Command, args []string) {
	if len(args) != 2 {
		fmt.Println("requires both ECC_JSON_FILE RESULT_JSON")
		return
	}
	if Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	//first get the ECC to use
	ecc, err := tools.LoadHammingECC(args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	flips := slices.Clone(Flips)
	slices.Sort(flips)
	flips = slices.Compact(flips)
	for _, f := range flips {
		if f > 2 || (f == 2 && !ecc.Extended) {
			logrus.Infof("WARNING: %v flips exceeds what the code can handle, trials will be counted as overloaded", f)
		}
	}

	data, err := tools.LoadOrCreateResults(args[1], typeInfo, ecc)
	if err != nil {
		fmt.Println(err)
		return
	}

	if Seed == 0 {
		Seed = time.Now().UnixNano()
	}

	parameters := make([]float64, len(flips))
	for i, f := range flips {
		parameters[i] = float64(f)
	}

	ctx := tools.SignalContext()
	tools.RunSweep(ctx, data, parameters, int(Trials), tools.Threads(Threads), args[1], runStep(ecc))

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
		flips := int(parameter)
		channel := func(rng *rand.Rand, codeword mat.SparseVector) mat.SparseVector {
			count := flips
			if count == Mixed {
				count = benchmarking.RandomErrorCount(rng, ecc.Extended)
			}
			return benchmarking.RandomFlipBitCount(rng, codeword, count)
		}

		seed := benchmarking.ParameterSeed(Seed, parameter)
		return benchmarking.BenchmarkContinueStats(ctx, trials, threads, seed,
			createMessage, benchmarking.HammingEncoder(ecc), channel,
			benchmarking.HammingCorrection(ecc), benchmarking.HammingMetrics(ecc),
			checkpoints, previousStats, false)
	}
}
