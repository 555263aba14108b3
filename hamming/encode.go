package hamming

import (
	"errors"
	"fmt"

	mat "github.com/nathanhack/sparsemat"
)

// ErrLength is returned when a message or codeword does not fit the code.
var ErrLength = errors.New("length mismatch")

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Encode places the data bits at the non power of two positions (1-based) of a new
// codeword and fills the power of two positions with the parity bits. When extended
// the last position holds the parity of everything before it.
func Encode(params Parameters, H mat.SparseMat, data mat.SparseVector) (codeword mat.SparseVector, err error) {
	if data.Len() != params.DataLength {
		return nil, fmt.Errorf("%w: message length == %v is required but found %v", ErrLength, params.DataLength, data.Len())
	}
	if rows, cols := H.Dims(); rows != params.ParityRows || cols != params.CodewordLen {
		return nil, fmt.Errorf("%w: H matrix shape == (%v, %v) required but found (%v, %v)", ErrLength, params.ParityRows, params.CodewordLen, rows, cols)
	}

	bits := params.SyndromeBits()
	mask := 1<<bits - 1
	codeword = mat.DOKVec(params.CodewordLen)

	p := 0
	pos := 1
	for i := 0; i < params.DataLength; pos++ {
		if isPowerOfTwo(pos) {
			continue
		}
		if data.At(i) == 1 {
			p ^= pos & mask
			codeword.Set(pos-1, 1)
		}
		i++
	}

	for i := 0; i < bits; i++ {
		codeword.Set(1<<i-1, p&1)
		p >>= 1
	}

	if params.Extended {
		global := 0
		for i := 0; i < params.CodewordLen-1; i++ {
			global ^= codeword.At(i)
		}
		codeword.Set(params.CodewordLen-1, global)
	}

	return codeword, nil
}

// Extract returns the data bits held by codeword, in order.
func Extract(params Parameters, codeword mat.SparseVector) (data mat.SparseVector, err error) {
	if codeword.Len() != params.CodewordLen {
		return nil, fmt.Errorf("%w: codeword length == %v is required but found %v", ErrLength, params.CodewordLen, codeword.Len())
	}

	data = mat.DOKVec(params.DataLength)
	pos := 1
	for i := 0; i < params.DataLength; pos++ {
		if isPowerOfTwo(pos) {
			continue
		}
		if codeword.At(pos-1) == 1 {
			data.Set(i, 1)
		}
		i++
	}
	return data, nil
}
