package benchmarking

import (
	"math"
	"math/rand"

	mat "github.com/nathanhack/sparsemat"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	mat2 "gonum.org/v1/gonum/mat"
)

// TrialRand creates the random source for a single trial. The same seed and trial
// always give the same sequence, no matter which goroutine runs the trial.
func TrialRand(seed int64, trial int) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(mix(uint64(seed)) + uint64(trial)))))
}

// ParameterSeed derives an independent seed for each channel parameter of a sweep.
func ParameterSeed(seed int64, parameter float64) int64 {
	return int64(mix(uint64(seed) ^ mix(math.Float64bits(parameter))))
}

// mix is the splitmix64 finalizer
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ x>>30) * 0xbf58476d1ce4e5b9
	x = (x ^ x>>27) * 0x94d049bb133111eb
	return x ^ x>>31
}

// RandomMessage creates a random message of length len.
func RandomMessage(rng *rand.Rand, len int) mat.SparseVector {
	message := mat.CSRVec(len)
	for i := 0; i < len; i++ {
		message.Set(i, rng.Intn(2))
	}
	return message
}

// RandomErrorCount picks how many bits to flip: 0 or 1, or 0 to 2 when extended.
func RandomErrorCount(rng *rand.Rand, extended bool) int {
	if extended {
		return rng.Intn(3)
	}
	return rng.Intn(2)
}

// RandomFlipBitCount randomly flips min(numberOfBitsToFlip,len(input)) distinct bits of a copy of input.
func RandomFlipBitCount(rng *rand.Rand, input mat.SparseVector, numberOfBitsToFlip int) mat.SparseVector {
	output := mat.CSRVecCopy(input)

	flip := make(map[int]bool)
	for len(flip) < numberOfBitsToFlip && len(flip) < input.Len() {
		flip[rng.Intn(input.Len())] = true
	}

	for _, i := range maps.Keys(flip) {
		output.Set(i, 1-output.At(i))
	}
	return output
}

// FlippedPositions returns the sorted indices where a and b differ.
// If a and b are different sizes only the common prefix is compared.
func FlippedPositions(a, b mat.SparseVector) []int {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}

	positions := make([]int, 0)
	for i := 0; i < n; i++ {
		if a.At(i) != b.At(i) {
			positions = append(positions, i)
		}
	}
	slices.Sort(positions)
	return positions
}

// RandomNoiseBPSK creates a randomizes version of the bpsk vector using the E_b/N_0 passed in
func RandomNoiseBPSK(rng *rand.Rand, bpsk mat2.Vector, E_bPerN_0 float64) mat2.Vector {
	//using  σ^2 = N_0/2 and E_b=1
	// we get  σ = sqrt(1/(2*E_bPerN_0))
	σ := math.Sqrt(1 / (2 * E_bPerN_0))
	result := mat2.NewVecDense(bpsk.Len(), nil)
	for i := 0; i < bpsk.Len(); i++ {
		result.SetVec(i, rng.NormFloat64()*σ)
	}
	result.AddVec(result, bpsk)
	return result
}

//BitsToBPSK converts a [0,1] vector to a [-1,1] vector
func BitsToBPSK(a mat.SparseVector) mat2.Vector {
	output := mat2.NewVecDense(a.Len(), nil)

	for i := 0; i < a.Len(); i++ {
		if a.At(i) > 0 {
			output.SetVec(i, 1)
		} else {
			output.SetVec(i, -1)
		}
	}

	return output
}

//BPSKToBits converts a BPSK vector [-1,1] to sparse vector [0,1].
// Values >= boundary will be considered a 1, otherwise a 0.
func BPSKToBits(a mat2.Vector, boundary float64) mat.SparseVector {
	result := mat.CSRVec(a.Len())

	for i := 0; i < a.Len(); i++ {
		if a.AtVec(i) >= boundary {
			result.Set(i, 1)
		}
	}
	return result
}
