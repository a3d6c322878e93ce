package wire

import (
	"math"
	"math/rand"
	"testing"
)

func TestEncodeDecodeRoundTripBitExact(t *testing.T) {
	t.Parallel()

	special := []uint32{
		0x00000000, // +0
		0x80000000, // -0
		0x00000001, // smallest subnormal
		0x007fffff, // largest subnormal
		0x7f7fffff, // max finite
		0x7f800000, // +Inf
		0xff800000, // -Inf
		0x7fc00000, // quiet NaN
		0x7f800001, // signalling NaN
		0xffc0dead, // negative NaN with payload
		0x3f800000, // 1.0
	}
	rng := rand.New(rand.NewSource(7))
	for range 4096 {
		special = append(special, rng.Uint32())
	}

	for _, bits := range special {
		f := math.Float32frombits(bits)
		w := Encode(f)
		if w>>32 != 0 {
			t.Fatalf("encode %#08x: upper word bits set: %#016x", bits, w)
		}
		got := math.Float32bits(Decode(w))
		if got != bits {
			t.Fatalf("round trip %#08x: got %#08x", bits, got)
		}
	}
}

func TestDecodeIgnoresUpperBits(t *testing.T) {
	t.Parallel()

	w := uint64(0xdeadbeef)<<32 | uint64(math.Float32bits(2.5))
	if got := Decode(w); got != 2.5 {
		t.Fatalf("decode with garbage upper bits: got %v want 2.5", got)
	}
}

func TestFlattenMatrixRowMajor(t *testing.T) {
	t.Parallel()

	data := []float32{
		1, 2, 3,
		4, 5, 6,
	}
	words, err := FlattenMatrix(2, 3, 3, data)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	want := []float32{1, 2, 3, 4, 5, 6}
	if len(words) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(words), len(want))
	}
	for i, w := range words {
		if Decode(w) != want[i] {
			t.Fatalf("word %d: got %v want %v", i, Decode(w), want[i])
		}
	}
}

func TestFlattenMatrixHonoursStride(t *testing.T) {
	t.Parallel()

	data := []float32{
		1, 2, -1,
		3, 4, -1,
	}
	words, err := FlattenMatrix(2, 2, 3, data)
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}
	want := []float32{1, 2, 3, 4}
	for i, w := range words {
		if Decode(w) != want[i] {
			t.Fatalf("word %d: got %v want %v", i, Decode(w), want[i])
		}
	}
}

func TestFlattenMatrixShapeMismatch(t *testing.T) {
	t.Parallel()

	if _, err := FlattenMatrix(2, 2, 2, []float32{1, 2, 3}); err != ErrShapeMismatch {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestPutWordsLittleEndian(t *testing.T) {
	t.Parallel()

	buf := PutWords([]uint64{Encode(1.0)})
	want := []byte{0x00, 0x00, 0x80, 0x3f, 0, 0, 0, 0}
	if len(buf) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got %#02x want %#02x", i, buf[i], want[i])
		}
	}

	words, err := Words(buf)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if len(words) != 1 || Decode(words[0]) != 1.0 {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestWordsRejectsPartialWord(t *testing.T) {
	t.Parallel()

	if _, err := Words(make([]byte, 12)); err != ErrWordCount {
		t.Fatalf("expected ErrWordCount, got %v", err)
	}
}

func TestDecodeReversed(t *testing.T) {
	t.Parallel()

	in := []float32{10, 20, 30, 40, 50}
	words := FlattenVector(in)
	out := make([]float32, len(in))
	if err := DecodeReversed(out, words); err != nil {
		t.Fatalf("decode reversed: %v", err)
	}
	h := len(out)
	for i, w := range words {
		if math.Float32bits(out[h-1-i]) != math.Float32bits(Decode(w)) {
			t.Fatalf("out[%d]: got %v want %v", h-1-i, out[h-1-i], Decode(w))
		}
	}
	if out[0] != 50 || out[4] != 10 {
		t.Fatalf("unexpected order: %v", out)
	}
}

func TestDecodeReversedLengthMismatch(t *testing.T) {
	t.Parallel()

	if err := DecodeReversed(make([]float32, 2), make([]uint64, 3)); err != ErrShapeMismatch {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}
