// Package wire converts between float32 coefficients and the 64-bit transfer
// words exchanged with the accelerator over the XDMA channels.
//
// A coefficient travels as one word whose low 32 bits hold the exact IEEE-754
// bit pattern of the float. The upper 32 bits are written as zero and ignored
// on read. Words are laid out little-endian in the byte stream.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// WordSize is the width of one bus transfer word in bytes.
const WordSize = 8

var (
	ErrShapeMismatch = errors.New("wire: data length does not match shape")
	ErrWordCount     = errors.New("wire: byte stream is not a whole number of words")
)

// Encode bit-casts f into a transfer word.
func Encode(f float32) uint64 {
	return uint64(math.Float32bits(f))
}

// Decode recovers the float carried in the low 32 bits of w.
func Decode(w uint64) float32 {
	return math.Float32frombits(uint32(w))
}

// FlattenMatrix encodes a row-major rows x cols matrix, row 0 first.
// stride is the distance between the starts of two rows in data.
func FlattenMatrix(rows, cols, stride int, data []float32) ([]uint64, error) {
	if rows < 0 || cols < 0 || stride < cols {
		return nil, ErrShapeMismatch
	}
	if rows > 0 && len(data) < (rows-1)*stride+cols {
		return nil, ErrShapeMismatch
	}
	words := make([]uint64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		row := data[i*stride : i*stride+cols]
		for _, f := range row {
			words = append(words, Encode(f))
		}
	}
	return words, nil
}

// FlattenVector encodes v in order.
func FlattenVector(v []float32) []uint64 {
	words := make([]uint64, len(v))
	for i, f := range v {
		words[i] = Encode(f)
	}
	return words
}

// PutWords packs words into a freshly allocated little-endian byte stream.
func PutWords(words []uint64) []byte {
	buf := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[i*WordSize:], w)
	}
	return buf
}

// Words unpacks a little-endian byte stream.
func Words(buf []byte) ([]uint64, error) {
	if len(buf)%WordSize != 0 {
		return nil, ErrWordCount
	}
	words := make([]uint64, len(buf)/WordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(buf[i*WordSize:])
	}
	return words, nil
}

// DecodeReversed decodes a result stream into dst. The accelerator emits the
// output vector last row first, so words[i] lands in dst[len(dst)-1-i].
func DecodeReversed(dst []float32, words []uint64) error {
	if len(dst) != len(words) {
		return ErrShapeMismatch
	}
	h := len(dst)
	for i, w := range words {
		dst[h-1-i] = Decode(w)
	}
	return nil
}
