package hamming

import (
	"github.com/sirupsen/logrus"

	mat "github.com/nathanhack/sparsemat"
)

// NewParityMatrix builds the ParityRows x CodewordLen parity check matrix.
//
// Row i (below the extended row) covers alternating runs of 2^i columns,
// starting at column 2^i-1, across the first CodewordLen-ext columns. This is the
// same as testing bit i of the 1-based column position. When extended the last row
// covers every column, its own included.
func NewParityMatrix(params Parameters) mat.SparseMat {
	n, m := params.ParityRows, params.CodewordLen
	limit := m - params.ext()

	logrus.Debugf("Building %vx%v parity matrix", n, m)
	H := mat.DOKMat(n, m)

	for i := 0; i < params.SyndromeBits(); i++ {
		run := 1 << i
		for j := run - 1; j < limit; j += run << 1 {
			to := j + run
			if to > limit {
				to = limit
			}
			for k := j; k < to; k++ {
				H.Set(i, k, 1)
			}
		}
	}

	if params.Extended {
		for k := 0; k < m; k++ {
			H.Set(n-1, k, 1)
		}
	}

	return mat.CSRMatCopy(H)
}
