package hamming

import (
	"fmt"

	mat "github.com/nathanhack/sparsemat"
)

// Unresolved marks a syndrome no single column produces.
const Unresolved = -1

// SyndromeTable maps a position syndrome to the codeword index that produces it.
type SyndromeTable []int

// NewSyndromeTable reads each column of H (global parity column excluded) top to
// bottom, most significant row first, and records which column gave which syndrome.
func NewSyndromeTable(params Parameters, H mat.SparseMat) SyndromeTable {
	rows, cols := H.Dims()
	if rows != params.ParityRows || cols != params.CodewordLen {
		panic(fmt.Sprintf("H matrix shape == (%v, %v) required but found (%v, %v)", params.ParityRows, params.CodewordLen, rows, cols))
	}

	table := make(SyndromeTable, params.SyndromeCount())
	for i := range table {
		table[i] = Unresolved
	}

	bits := params.SyndromeBits()
	for c := 0; c < cols-params.ext(); c++ {
		syndrome := 0
		for r := 0; r < bits; r++ {
			syndrome = syndrome<<1 | H.At(r, c)
		}
		if syndrome < 0 || syndrome >= len(table) {
			panic(fmt.Sprintf("column %v produced syndrome %v outside [0,%v)", c, syndrome, len(table)))
		}
		table[syndrome] = c
	}

	return table
}

// Lookup returns the column for syndrome, or Unresolved.
func (t SyndromeTable) Lookup(syndrome int) int {
	if syndrome <= 0 || syndrome >= len(t) {
		return Unresolved
	}
	return t[syndrome]
}
