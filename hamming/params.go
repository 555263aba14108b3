package hamming

import "fmt"

// Parameters describes the shape of a Hamming code for a given message length.
// Once planned it is never modified.
type Parameters struct {
	DataLength  int  // number of payload bits
	ParityBits  int  // p, the classic Hamming parity bits
	Extended    bool // adds a global parity bit (SECDED)
	ParityRows  int  // n, p or p+1 when extended
	CodewordLen int  // m, DataLength + ParityRows
}

// Plan computes the smallest number of parity bits p where 2^p >= dataLength+p+1.
// A zero length message still gets one parity bit.
func Plan(dataLength int, extended bool) Parameters {
	if dataLength < 0 {
		panic(fmt.Sprintf("data length must be >=0 but found %v", dataLength))
	}

	p := 1
	for 1<<p < dataLength+p+1 {
		p++
	}

	n := p
	if extended {
		n++
	}

	return Parameters{
		DataLength:  dataLength,
		ParityBits:  p,
		Extended:    extended,
		ParityRows:  n,
		CodewordLen: dataLength + n,
	}
}

// ext is 1 when the global parity bit is in use
func (p Parameters) ext() int {
	if p.Extended {
		return 1
	}
	return 0
}

// SyndromeBits is the number of rows that take part in the position syndrome.
func (p Parameters) SyndromeBits() int {
	return p.ParityRows - p.ext()
}

// SyndromeCount is the number of distinct position syndromes (2^SyndromeBits).
func (p Parameters) SyndromeCount() int {
	return 1 << p.SyndromeBits()
}

func (p Parameters) String() string {
	return fmt.Sprintf("{Data:%v Parity:%v Extended:%v Codeword:%v}", p.DataLength, p.ParityRows, p.Extended, p.CodewordLen)
}
