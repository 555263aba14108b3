package tools

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/secded/benchmarking"
	"github.com/nathanhack/secded/hamming"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SimulationStats are the results of one tool against one ECC, keyed by the
// channel parameter (flip count, E_b/N_0, ...).
type SimulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[float64]benchmarking.Stats
}
type simulationStats struct {
	TypeInfo string
	ECCInfo  string
	Stats    map[string]benchmarking.Stats
}

func (s *SimulationStats) MarshalJSON() ([]byte, error) {
	ss := simulationStats{
		TypeInfo: s.TypeInfo,
		ECCInfo:  s.ECCInfo,
		Stats:    map[string]benchmarking.Stats{},
	}

	for f, stat := range s.Stats {
		ss.Stats[fmt.Sprintf("%v", f)] = stat
	}

	return json.Marshal(ss)
}

func (s *SimulationStats) UnmarshalJSON(bytes []byte) error {
	var ss simulationStats

	err := json.Unmarshal(bytes, &ss)
	if err != nil {
		return err
	}

	s.TypeInfo = ss.TypeInfo
	s.ECCInfo = ss.ECCInfo
	s.Stats = map[float64]benchmarking.Stats{}

	for fs, stat := range ss.Stats {
		f, err := strconv.ParseFloat(fs, 64)
		if err != nil {
			return err
		}
		s.Stats[f] = stat
	}
	return nil
}

func Md5Sum(H mat.SparseMat) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(H.String())))
}

func LoadHammingECC(filepath string) (*hamming.Code, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, fmt.Errorf("the ECC_JSON_FILE must exist")
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var ecc hamming.Code
	err = json.Unmarshal(bs, &ecc)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	return &ecc, nil
}

// LoadResults returns nil (and no error) when the file does not exist yet.
func LoadResults(filepath string) (*SimulationStats, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, nil
	}

	bs, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	var stat SimulationStats
	err = json.Unmarshal(bs, &stat)
	if err != nil {
		return nil, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return &stat, nil
}

func SaveResults(filepath string, data *SimulationStats) error {
	bs, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error serializing results: %w", err)
	}

	err = os.WriteFile(filepath, bs, 0644)
	if err != nil {
		return fmt.Errorf("error while saving results to %v: %w", filepath, err)
	}
	return nil
}

// LoadOrCreateResults loads the results at filepath, or starts new ones, and makes
// sure they belong to typeInfo and ecc.
func LoadOrCreateResults(filepath, typeInfo string, ecc *hamming.Code) (*SimulationStats, error) {
	data, err := LoadResults(filepath)
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = &SimulationStats{
			TypeInfo: typeInfo,
			ECCInfo:  Md5Sum(ecc.H),
			Stats:    make(map[float64]benchmarking.Stats),
		}
	}

	if data.TypeInfo != typeInfo {
		return nil, fmt.Errorf("results loaded do not match the same type expected %v but found %v", typeInfo, data.TypeInfo)
	}
	if data.ECCInfo != Md5Sum(ecc.H) {
		return nil, fmt.Errorf("results loaded do not match the ECC")
	}
	return data, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() context.Context {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigs
		fmt.Println()
		fmt.Println(sig)
		cancel()
	}()
	return ctx
}

// Threads turns 0 into the number of cpus.
func Threads(threads uint) int {
	if threads == 0 {
		return runtime.NumCPU()
	}
	return int(threads)
}

// StepRunner continues the stats for one channel parameter up to trials.
type StepRunner func(ctx context.Context, parameter float64, trials, threads int, previousStats benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats

// RunSweep interleaves the parameters in small batches so every parameter makes
// progress, checkpointing the results to outputFilename as it goes.
func RunSweep(ctx context.Context, data *SimulationStats, parameters []float64, trials, threads int, outputFilename string, run StepRunner) {
	checkpointMux := sync.Mutex{}
	checkpointCount := 0

	trialsPerIter := threads * 10
	bar := pb.StartNew(RemainingTrials(data, parameters, trials))
trialLoops:
	for t := trialsPerIter; t < trials+trialsPerIter; t += trialsPerIter {
		select {
		case <-ctx.Done():
			break trialLoops
		default:
		}

		for _, p := range parameters {
			p := p
			checkpoint := func(stats benchmarking.Stats) {
				//we want to save the checkpoint
				checkpointMux.Lock()
				defer checkpointMux.Unlock()

				data.Stats[p] = stats

				if checkpointCount%trialsPerIter == 0 {
					err := SaveResults(outputFilename, data)
					if err != nil {
						logrus.Error(err)
					}
				}
				checkpointCount++
			}
			before := data.Stats[p].Trials()
			stats := run(ctx, p, min(t, trials), threads, data.Stats[p], checkpoint)

			checkpointMux.Lock()
			data.Stats[p] = stats
			checkpointMux.Unlock()
			bar.Add(stats.Trials() - before)
		}
	}
	bar.Finish()
}

// RemainingTrials is how many trials are still needed to bring every parameter up to trials.
func RemainingTrials(data *SimulationStats, parameters []float64, trials int) int {
	remaining := 0
	for _, p := range parameters {
		remaining += trials - min(data.Stats[p].Trials(), trials)
	}
	return remaining
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// LoadAllResults loads every results file, all of them must exist.
func LoadAllResults(filepaths []string) ([]*SimulationStats, error) {
	stats := make([]*SimulationStats, len(filepaths))
	for i, resultFile := range filepaths {
		s, err := LoadResults(resultFile)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("results file %v does not exist", resultFile)
		}
		stats[i] = s
	}
	return stats, nil
}

// Parameters returns the sorted union of the channel parameters in stats.
func Parameters(stats []*SimulationStats) []float64 {
	set := make(map[float64]bool)
	for _, s := range stats {
		for p := range s.Stats {
			set[p] = true
		}
	}

	parameters := maps.Keys(set)
	slices.Sort(parameters)
	return parameters
}
