package hamming

import (
	"fmt"

	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

// ErrorKind classifies a received codeword.
type ErrorKind int

const (
	NoError ErrorKind = iota
	SingleBitCorrectable
	DoubleBitDetected
	Indeterminate
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "NoError"
	case SingleBitCorrectable:
		return "SingleBitCorrectable"
	case DoubleBitDetected:
		return "DoubleBitDetected"
	case Indeterminate:
		return "Indeterminate"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Diagnosis is the result of decoding one codeword. Position is the 0-based
// codeword index of the faulty bit and is only meaningful for SingleBitCorrectable.
type Diagnosis struct {
	Kind     ErrorKind
	Position int
	Syndrome int
}

func (d Diagnosis) String() string {
	if d.Kind == SingleBitCorrectable {
		return fmt.Sprintf("{%v at %v syndrome:%v}", d.Kind, d.Position, d.Syndrome)
	}
	return fmt.Sprintf("{%v syndrome:%v}", d.Kind, d.Syndrome)
}

// Syndrome computes H*codeword over GF(2). The first SyndromeBits rows are packed
// most significant row first into syndrome; overall is the last row when extended,
// which is the parity of the entire codeword.
func Syndrome(params Parameters, H mat.SparseMat, codeword mat.SparseVector) (syndrome, overall int) {
	checks := mat.CSRVec(params.ParityRows)
	checks.MatMul(H, codeword)

	for i := 0; i < params.SyndromeBits(); i++ {
		syndrome = syndrome<<1 | checks.At(i)
	}
	if params.Extended {
		overall = checks.At(params.ParityRows - 1)
	}
	return
}

// Decode recomputes the syndrome of codeword and classifies it. A codeword, H or
// table that does not fit params is Indeterminate.
func Decode(params Parameters, H mat.SparseMat, table SyndromeTable, codeword mat.SparseVector) Diagnosis {
	if codeword.Len() != params.CodewordLen {
		logrus.Debugf("codeword length == %v required but found %v", params.CodewordLen, codeword.Len())
		return Diagnosis{Kind: Indeterminate, Position: Unresolved}
	}
	if rows, cols := H.Dims(); rows != params.ParityRows || cols != params.CodewordLen {
		logrus.Debugf("H matrix shape == (%v, %v) required but found (%v, %v)", params.ParityRows, params.CodewordLen, rows, cols)
		return Diagnosis{Kind: Indeterminate, Position: Unresolved}
	}
	if len(table) != params.SyndromeCount() {
		logrus.Debugf("syndrome table size == %v required but found %v", params.SyndromeCount(), len(table))
		return Diagnosis{Kind: Indeterminate, Position: Unresolved}
	}

	syndrome, overall := Syndrome(params, H, codeword)

	switch {
	case syndrome == 0 && overall == 0:
		return Diagnosis{Kind: NoError, Position: Unresolved}
	case syndrome == 0:
		// only the global parity bit flipped
		return Diagnosis{Kind: SingleBitCorrectable, Position: params.CodewordLen - 1}
	case params.Extended && overall == 0:
		return Diagnosis{Kind: DoubleBitDetected, Position: Unresolved, Syndrome: syndrome}
	}

	position := table.Lookup(syndrome)
	if position == Unresolved {
		logrus.Debugf("syndrome %v does not match any single column", syndrome)
		return Diagnosis{Kind: Indeterminate, Position: Unresolved, Syndrome: syndrome}
	}
	return Diagnosis{Kind: SingleBitCorrectable, Position: position, Syndrome: syndrome}
}
