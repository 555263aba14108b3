package benchmarking

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/secded/hamming"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

type Stats struct {
	Correct      avgstd.AvgStd // 1 when the diagnosis matched the injected errors
	Silent       avgstd.AvgStd // 1 when the repaired codeword is wrong yet the decoder reported success
	MessageError avgstd.AvgStd // fraction of message bits still wrong after repair
	Overloaded   int           // trials with more errors than the code can handle, not judged
}

func (s Stats) String() string {
	return fmt.Sprintf("{Correct:%0.02f(+/-%0.02f), Silent:%0.02f(+/-%0.02f), Message:%0.02f(+/-%0.02f), Overloaded:%v}",
		s.Correct.Mean, math.Sqrt(s.Correct.SampledVariance()),
		s.Silent.Mean, math.Sqrt(s.Silent.SampledVariance()),
		s.MessageError.Mean, math.Sqrt(s.MessageError.SampledVariance()),
		s.Overloaded,
	)
}

// Trials is the number of trials already folded into the stats.
func (s Stats) Trials() int {
	return s.MessageError.Count
}

// Outcome is the verdict on one trial.
type Outcome struct {
	Overloaded   bool
	Correct      bool
	Silent       bool
	MessageError float64
}

func (s *Stats) Update(o Outcome) {
	if o.Overloaded {
		s.Overloaded++
	} else {
		s.Correct.Update(boolToFloat(o.Correct))
	}
	s.Silent.Update(boolToFloat(o.Silent))
	s.MessageError.Update(o.MessageError)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

type Checkpoints func(updatedStats Stats)

type MessageConstructor func(rng *rand.Rand, trial int) (message mat.SparseVector)
type Encoder func(message mat.SparseVector) (codeword mat.SparseVector)
type Channel func(rng *rand.Rand, codeword mat.SparseVector) (channelInducedCodeword mat.SparseVector)
type Correction func(channelInducedCodeword mat.SparseVector) (repaired mat.SparseVector, diagnosis hamming.Diagnosis)
type Metrics func(originalMessage, originalCodeword, channelInducedCodeword, repaired mat.SparseVector, diagnosis hamming.Diagnosis) Outcome

// HammingMetrics judges a trial against what the code promises: no flips must be
// NoError, one flip must be located exactly and two flips must be detected when the
// code is extended. Anything beyond that is counted as overloaded.
func HammingMetrics(code *hamming.Code) Metrics {
	capability := 1
	if code.Extended {
		capability = 2
	}

	return func(originalMessage, originalCodeword, channelInducedCodeword, repaired mat.SparseVector, diagnosis hamming.Diagnosis) (outcome Outcome) {
		flipped := FlippedPositions(originalCodeword, channelInducedCodeword)

		switch len(flipped) {
		case 0:
			outcome.Correct = diagnosis.Kind == hamming.NoError
		case 1:
			outcome.Correct = diagnosis.Kind == hamming.SingleBitCorrectable && diagnosis.Position == flipped[0]
		case 2:
			outcome.Correct = diagnosis.Kind == hamming.DoubleBitDetected
		}
		outcome.Overloaded = len(flipped) > capability

		message, err := code.Extract(repaired)
		if err != nil {
			logrus.Errorf("unable to extract message: %v", err)
			outcome.MessageError = 1
			return
		}
		if originalMessage.Len() > 0 {
			outcome.MessageError = float64(len(FlippedPositions(originalMessage, message))) / float64(originalMessage.Len())
		}

		trusted := diagnosis.Kind == hamming.NoError || diagnosis.Kind == hamming.SingleBitCorrectable
		outcome.Silent = trusted && len(FlippedPositions(originalCodeword, repaired)) > 0
		return
	}
}

// HammingCorrection repairs codewords with code.
func HammingCorrection(code *hamming.Code) Correction {
	return func(channelInducedCodeword mat.SparseVector) (mat.SparseVector, hamming.Diagnosis) {
		return code.Correct(channelInducedCodeword)
	}
}

// HammingEncoder encodes with code, a message of the wrong length is a defect in the harness.
func HammingEncoder(code *hamming.Code) Encoder {
	return func(message mat.SparseVector) mat.SparseVector {
		codeword, err := code.Encode(message)
		if err != nil {
			panic(err)
		}
		return codeword
	}
}

func Benchmark(ctx context.Context,
	trials, threads int, seed int64,
	createMessage MessageConstructor,
	encode Encoder,
	channel Channel,
	correct Correction,
	metrics Metrics,
	checkpoints Checkpoints,
	showProgress bool) Stats {
	return BenchmarkContinueStats(ctx, trials, threads, seed, createMessage, encode, channel, correct, metrics, checkpoints, Stats{}, showProgress)
}

func BenchmarkContinueStats(ctx context.Context,
	trials, threads int, seed int64,
	createMessage MessageConstructor,
	encode Encoder,
	channel Channel,
	correct Correction,
	metrics Metrics,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	trialsToRun := trials - previousStats.Trials()
	if trialsToRun <= 0 {
		return previousStats
	}

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(trialsToRun)
	}

	logrus.Debugf("Running %v trials on %v threads", trialsToRun, threads)
	pool := threadpool.NewFixedSize(ctx, threads, trialsToRun)
	statsMux := sync.Mutex{}

	trial := func(i int) {
		if showProgress {
			bar.Increment()
		}
		rng := TrialRand(seed, i)

		//we create a random message
		message := createMessage(rng, i)

		// encode to get our codeword
		codeword := encode(message)

		// send through the channel to get channel induced errors
		channelInducedCodeword := channel(rng, codeword)

		// diagnose and repair the codeword (if possible)
		repaired, diagnosis := correct(channelInducedCodeword)

		outcome := metrics(message, codeword, channelInducedCodeword, repaired, diagnosis)

		statsMux.Lock()
		previousStats.Update(outcome)
		if checkpoints != nil {
			checkpoints(previousStats) //give them the updated checkpoint
		}
		statsMux.Unlock()
	}

	for i := previousStats.Trials(); i < trials; i++ {
		tmp := i
		pool.Add(func() { trial(tmp) })
	}
	pool.Wait()
	if showProgress {
		bar.Finish()
	}
	return previousStats
}
