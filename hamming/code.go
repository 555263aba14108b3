package hamming

import (
	"encoding/json"
	"fmt"

	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

// Code holds everything needed to encode and decode for one set of Parameters.
// Nothing in it changes after New, so a Code can be shared between goroutines.
type Code struct {
	Parameters
	H     mat.SparseMat // the parity check matrix
	Table SyndromeTable // syndrome -> codeword index
}

// New creates the Hamming code protecting dataLength bits. When extended is true
// a global parity bit is added so double bit errors are detected (SECDED).
func New(dataLength int, extended bool) *Code {
	params := Plan(dataLength, extended)
	logrus.Debugf("Planned hamming code %v", params)

	H := NewParityMatrix(params)
	table := NewSyndromeTable(params, H)

	logrus.Debugf("Hamming code complete")
	return &Code{
		Parameters: params,
		H:          H,
		Table:      table,
	}
}

// For JSON unmarshalling
type code struct {
	DataLength int
	Extended   bool
	H          mat.CSRMatrix
}

func (c *Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DataLength int
		Extended   bool
		H          mat.SparseMat
	}{c.DataLength, c.Extended, c.H})
}

//UnmarshalJSON rebuilds the syndrome table and rejects an H that was not built for the stored parameters.
func (c *Code) UnmarshalJSON(bytes []byte) error {
	var tmp code
	err := json.Unmarshal(bytes, &tmp)
	if err != nil {
		return err
	}
	if tmp.DataLength < 0 {
		return fmt.Errorf("data length must be >=0 but found %v", tmp.DataLength)
	}

	params := Plan(tmp.DataLength, tmp.Extended)
	if !NewParityMatrix(params).Equals(&tmp.H) {
		return fmt.Errorf("H matrix does not match a hamming code for %v", params)
	}

	c.Parameters = params
	c.H = &tmp.H
	c.Table = NewSyndromeTable(params, c.H)
	return nil
}

//Encode takes in a message and returns its codeword
func (c *Code) Encode(message mat.SparseVector) (mat.SparseVector, error) {
	return Encode(c.Parameters, c.H, message)
}

//Decode diagnoses a received codeword
func (c *Code) Decode(codeword mat.SparseVector) Diagnosis {
	return Decode(c.Parameters, c.H, c.Table, codeword)
}

// Correct returns a copy of codeword with the faulty bit flipped when the
// diagnosis is SingleBitCorrectable, otherwise an unchanged copy.
func (c *Code) Correct(codeword mat.SparseVector) (corrected mat.SparseVector, diagnosis Diagnosis) {
	diagnosis = c.Decode(codeword)
	corrected = mat.CSRVecCopy(codeword)
	if diagnosis.Kind == SingleBitCorrectable {
		corrected.Set(diagnosis.Position, 1-corrected.At(diagnosis.Position))
	}
	return
}

//Extract returns the message bits carried by codeword
func (c *Code) Extract(codeword mat.SparseVector) (mat.SparseVector, error) {
	return Extract(c.Parameters, codeword)
}

func (c *Code) MessageLength() int {
	return c.DataLength
}
func (c *Code) ParitySymbols() int {
	return c.ParityRows
}
func (c *Code) CodewordLength() int {
	return c.CodewordLen
}
func (c *Code) CodeRate() float64 {
	return float64(c.MessageLength()) / float64(c.CodewordLength())
}

// Validate rebuilds the matrix and table from the parameters, compares them with
// the ones held and checks that every column resolves back to itself.
func (c *Code) Validate() bool {
	if !NewParityMatrix(c.Parameters).Equals(c.H) {
		return false
	}

	expected := NewSyndromeTable(c.Parameters, c.H)
	if len(expected) != len(c.Table) {
		return false
	}
	for i := range expected {
		if expected[i] != c.Table[i] {
			return false
		}
	}

	for col := 0; col < c.CodewordLen-c.ext(); col++ {
		codeword := mat.CSRVec(c.CodewordLen)
		codeword.Set(col, 1)
		syndrome, _ := Syndrome(c.Parameters, c.H, codeword)
		if c.Table.Lookup(syndrome) != col {
			return false
		}
	}
	return true
}
