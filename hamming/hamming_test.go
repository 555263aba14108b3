package hamming

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"

	mat "github.com/nathanhack/sparsemat"
)

func bits(v mat.SparseVector) string {
	buf := strings.Builder{}
	for i := 0; i < v.Len(); i++ {
		buf.WriteString(strconv.Itoa(v.At(i)))
	}
	return buf.String()
}

func randomMessage(rng *rand.Rand, length int) mat.SparseVector {
	message := mat.CSRVec(length)
	for i := 0; i < length; i++ {
		message.Set(i, rng.Intn(2))
	}
	return message
}

func flip(codeword mat.SparseVector, indices ...int) mat.SparseVector {
	result := mat.CSRVecCopy(codeword)
	for _, i := range indices {
		result.Set(i, 1-result.At(i))
	}
	return result
}

func TestPlan(t *testing.T) {
	tests := []struct {
		dataLength int
		extended   bool
		parity     int
		rows       int
		codeword   int
	}{
		{0, false, 1, 1, 1},
		{0, true, 1, 2, 2},
		{1, false, 2, 2, 3},
		{4, false, 3, 3, 7},
		{4, true, 3, 4, 8},
		{5, false, 4, 4, 9},
		{11, false, 4, 4, 15},
		{12, false, 5, 5, 17},
		{26, false, 5, 5, 31},
		{57, true, 6, 7, 64},
		{256, true, 9, 10, 266},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := Plan(test.dataLength, test.extended)
			if actual.ParityBits != test.parity || actual.ParityRows != test.rows || actual.CodewordLen != test.codeword {
				t.Fatalf("expected p=%v n=%v m=%v but found %v", test.parity, test.rows, test.codeword, actual)
			}
		})
	}
}

func TestPlan_Sufficient(t *testing.T) {
	for dataLength := 0; dataLength < 600; dataLength++ {
		for _, extended := range []bool{false, true} {
			params := Plan(dataLength, extended)
			if params.SyndromeCount() <= dataLength+params.ParityBits {
				t.Fatalf("%v: 2^%v cannot address every position", params, params.SyndromeBits())
			}
			if params.ParityBits > 1 && 1<<(params.ParityBits-1) >= dataLength+params.ParityBits {
				t.Fatalf("%v: parity bit count is not minimal", params)
			}
		}
	}
}

func TestPlan_Negative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative data length")
		}
	}()
	Plan(-1, false)
}

func TestNewParityMatrix(t *testing.T) {
	tests := []struct {
		params   Parameters
		expected mat.SparseMat
	}{
		{Plan(4, false), mat.CSRMat(3, 7,
			1, 0, 1, 0, 1, 0, 1,
			0, 1, 1, 0, 0, 1, 1,
			0, 0, 0, 1, 1, 1, 1)},
		{Plan(4, true), mat.CSRMat(4, 8,
			1, 0, 1, 0, 1, 0, 1, 0,
			0, 1, 1, 0, 0, 1, 1, 0,
			0, 0, 0, 1, 1, 1, 1, 0,
			1, 1, 1, 1, 1, 1, 1, 1)},
		{Plan(0, false), mat.CSRMat(1, 1, 1)},
		{Plan(0, true), mat.CSRMat(2, 2,
			1, 0,
			1, 1)},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := NewParityMatrix(test.params)
			if !actual.Equals(test.expected) {
				t.Fatalf("expected \n%v\n but found \n%v\n", test.expected, actual)
			}
		})
	}
}

func TestNewParityMatrix_MatchesPositionBits(t *testing.T) {
	for dataLength := 0; dataLength < 80; dataLength++ {
		for _, extended := range []bool{false, true} {
			params := Plan(dataLength, extended)
			H := NewParityMatrix(params)
			for r := 0; r < params.SyndromeBits(); r++ {
				for c := 0; c < params.CodewordLen; c++ {
					expected := 0
					if c < params.CodewordLen-params.ext() && (c+1)&(1<<r) > 0 {
						expected = 1
					}
					if H.At(r, c) != expected {
						t.Fatalf("%v: expected H[%v][%v]=%v but found %v", params, r, c, expected, H.At(r, c))
					}
				}
			}
		}
	}
}

func TestNewSyndromeTable(t *testing.T) {
	params := Plan(4, false)
	actual := NewSyndromeTable(params, NewParityMatrix(params))
	expected := SyndromeTable{Unresolved, 3, 1, 5, 0, 4, 2, 6}
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected %v but found %v", expected, actual)
	}

	params = Plan(4, true)
	actual = NewSyndromeTable(params, NewParityMatrix(params))
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected %v but found %v", expected, actual)
	}
}

func TestNewSyndromeTable_WrongShape(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for mismatched H")
		}
	}()
	NewSyndromeTable(Plan(4, false), mat.CSRMat(3, 6))
}

func TestNew_Idempotent(t *testing.T) {
	for dataLength := 0; dataLength < 64; dataLength++ {
		for _, extended := range []bool{false, true} {
			a := New(dataLength, extended)
			b := New(dataLength, extended)
			if !a.H.Equals(b.H) {
				t.Fatalf("%v: expected identical matrices", a.Parameters)
			}
			if !reflect.DeepEqual(a.Table, b.Table) {
				t.Fatalf("%v: expected identical tables", a.Parameters)
			}
			if !a.Validate() {
				t.Fatalf("%v: expected valid code", a.Parameters)
			}
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		dataLength int
		extended   bool
		message    mat.SparseVector
		expected   string
	}{
		{4, false, mat.DOKVec(4, 1, 0, 1, 1), "0110011"},
		{4, true, mat.DOKVec(4, 1, 0, 1, 1), "01100110"},
		{4, true, mat.DOKVec(4, 1, 1, 1, 0), "00101101"},
		{1, false, mat.DOKVec(1, 1), "111"},
		{0, false, mat.DOKVec(0), "0"},
		{0, true, mat.DOKVec(0), "00"},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			code := New(test.dataLength, test.extended)
			actual, err := code.Encode(test.message)
			if err != nil {
				t.Fatalf("expected no error but found: %v", err)
			}
			if bits(actual) != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, bits(actual))
			}
		})
	}
}

func TestEncode_WrongLength(t *testing.T) {
	code := New(4, false)
	_, err := code.Encode(mat.DOKVec(5))
	if err == nil {
		t.Fatalf("expected an error for a 5 bit message")
	}
	if !errors.Is(err, ErrLength) {
		t.Fatalf("expected ErrLength but found %v", err)
	}
}

func TestDecode_Hamming74(t *testing.T) {
	code := New(4, false)
	codeword, _ := code.Encode(mat.DOKVec(4, 1, 0, 1, 1))

	actual := code.Decode(flip(codeword, 2))
	expected := Diagnosis{Kind: SingleBitCorrectable, Position: 2, Syndrome: 6}
	if actual != expected {
		t.Fatalf("expected %v but found %v", expected, actual)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for dataLength := 0; dataLength < 70; dataLength++ {
		for _, extended := range []bool{false, true} {
			code := New(dataLength, extended)
			for trial := 0; trial < 10; trial++ {
				message := randomMessage(rng, dataLength)
				codeword, err := code.Encode(message)
				if err != nil {
					t.Fatalf("expected no error but found: %v", err)
				}
				actual := code.Decode(codeword)
				if actual.Kind != NoError || actual.Syndrome != 0 {
					t.Fatalf("%v: expected NoError but found %v", code.Parameters, actual)
				}

				extracted, err := code.Extract(codeword)
				if err != nil {
					t.Fatalf("expected no error but found: %v", err)
				}
				if bits(extracted) != bits(message) {
					t.Fatalf("%v: expected message %v but found %v", code.Parameters, bits(message), bits(extracted))
				}
			}
		}
	}
}

func TestDecode_SingleBit(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for dataLength := 0; dataLength < 70; dataLength++ {
		for _, extended := range []bool{false, true} {
			code := New(dataLength, extended)
			codeword, _ := code.Encode(randomMessage(rng, dataLength))
			for p := 0; p < code.CodewordLen; p++ {
				actual := code.Decode(flip(codeword, p))
				if actual.Kind != SingleBitCorrectable || actual.Position != p {
					t.Fatalf("%v: flipped %v but found %v", code.Parameters, p, actual)
				}

				corrected, diagnosis := code.Correct(flip(codeword, p))
				if diagnosis != actual {
					t.Fatalf("expected %v but found %v", actual, diagnosis)
				}
				if bits(corrected) != bits(codeword) {
					t.Fatalf("%v: expected %v but found %v", code.Parameters, bits(codeword), bits(corrected))
				}
			}
		}
	}
}

func TestDecode_DoubleBit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for dataLength := 0; dataLength < 40; dataLength++ {
		code := New(dataLength, true)
		codeword, _ := code.Encode(randomMessage(rng, dataLength))
		for a := 0; a < code.CodewordLen; a++ {
			for b := a + 1; b < code.CodewordLen; b++ {
				actual := code.Decode(flip(codeword, a, b))
				if actual.Kind != DoubleBitDetected {
					t.Fatalf("%v: flipped %v,%v but found %v", code.Parameters, a, b, actual)
				}

				corrected, _ := code.Correct(flip(codeword, a, b))
				if bits(corrected) != bits(flip(codeword, a, b)) {
					t.Fatalf("expected codeword to be left unchanged")
				}
			}
		}
	}
}

func TestDecode_Indeterminate(t *testing.T) {
	code := New(5, false)
	codeword, _ := code.Encode(mat.DOKVec(5, 1, 1, 0, 1, 0))

	tests := []struct {
		codeword mat.SparseVector
		expected Diagnosis
	}{
		{mat.CSRVec(8), Diagnosis{Kind: Indeterminate, Position: Unresolved}},
		{mat.CSRVec(10), Diagnosis{Kind: Indeterminate, Position: Unresolved}},
		// positions 2 and 8 point at position 10, beyond the 9 bit codeword
		{flip(codeword, 1, 7), Diagnosis{Kind: Indeterminate, Position: Unresolved, Syndrome: 5}},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := code.Decode(test.codeword)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestDecode_WrongMatrix(t *testing.T) {
	tests := []struct {
		params Parameters
		H      mat.SparseMat
	}{
		{Plan(4, false), NewParityMatrix(Plan(5, false))},
		{Plan(4, false), NewParityMatrix(Plan(4, true))},
		{Plan(4, true), NewParityMatrix(Plan(4, false))},
		{Plan(4, false), mat.CSRMat(4, 7)},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			table := NewSyndromeTable(test.params, NewParityMatrix(test.params))
			actual := Decode(test.params, test.H, table, mat.CSRVec(test.params.CodewordLen))
			expected := Diagnosis{Kind: Indeterminate, Position: Unresolved}
			if actual != expected {
				t.Fatalf("expected %v but found %v", expected, actual)
			}

			_, err := Encode(test.params, test.H, mat.CSRVec(test.params.DataLength))
			if !errors.Is(err, ErrLength) {
				t.Fatalf("expected ErrLength but found %v", err)
			}
		})
	}
}

func TestDecode_Concurrent(t *testing.T) {
	code := New(64, true)
	wg := sync.WaitGroup{}
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for trial := 0; trial < 50; trial++ {
				codeword, _ := code.Encode(randomMessage(rng, code.DataLength))
				p := rng.Intn(code.CodewordLen)
				actual := code.Decode(flip(codeword, p))
				if actual.Kind != SingleBitCorrectable || actual.Position != p {
					errs <- fmt.Sprintf("flipped %v but found %v", p, actual)
					return
				}
			}
		}(int64(g))
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestCode_JSON(t *testing.T) {
	code := New(11, true)
	bs, err := json.Marshal(code)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}

	var actual Code
	err = json.Unmarshal(bs, &actual)
	if err != nil {
		t.Fatalf("expected no error but found: %v", err)
	}
	if actual.Parameters != code.Parameters {
		t.Fatalf("expected %v but found %v", code.Parameters, actual.Parameters)
	}
	if !actual.Validate() {
		t.Fatalf("expected valid code")
	}
}

func ExampleCode_Decode() {
	code := New(4, false)
	codeword, _ := code.Encode(mat.DOKVec(4, 1, 0, 1, 1))
	fmt.Println("codeword:", bits(codeword))

	codeword.Set(2, 0)
	fmt.Println("diagnosis:", code.Decode(codeword))
	//Output:
	// codeword: 0110011
	// diagnosis: {SingleBitCorrectable at 2 syndrome:6}
}

func BenchmarkCode_Decode(b *testing.B) {
	code := New(256, true)
	codeword, _ := code.Encode(randomMessage(rand.New(rand.NewSource(0)), 256))
	codeword.Set(17, 1-codeword.At(17))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		code.Decode(codeword)
	}
}
