// Package shortvec implements the compact-u16 length prefix used by the
// Solana wire format.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// MaxEncodedLen is the largest number of bytes a compact-u16 occupies.
const MaxEncodedLen = 3

var (
	ErrLenTooLarge     = errors.Errorf("len exceeds %d", math.MaxUint16)
	ErrInvalidEncoding = errors.New("invalid compact-u16 encoding")
)

// EncodeLen encodes the specified len into the writer, seven bits per byte
// with the high bit marking continuation.
func EncodeLen(w io.Writer, len int) (n int, err error) {
	if len < 0 || len > math.MaxUint16 {
		return 0, ErrLenTooLarge
	}

	var buf [MaxEncodedLen]byte
	for {
		buf[n] = byte(len & 0x7f)
		len >>= 7
		if len == 0 {
			n++
			break
		}

		buf[n] |= 0x80
		n++
	}

	return w.Write(buf[:n])
}

// DecodeLen decodes a compact-u16 encoded len from the reader.
//
// Encodings longer than MaxEncodedLen bytes, values above math.MaxUint16 and
// non-minimal encodings (a trailing zero byte) are rejected.
func DecodeLen(r io.Reader) (int, error) {
	var val int
	var b [1]byte

	for i := 0; i < MaxEncodedLen; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		if i > 0 && b[0] == 0 {
			return 0, ErrInvalidEncoding
		}

		val |= int(b[0]&0x7f) << (i * 7)
		if b[0]&0x80 == 0 {
			if val > math.MaxUint16 {
				return 0, ErrInvalidEncoding
			}
			return val, nil
		}
	}

	return 0, ErrInvalidEncoding
}
