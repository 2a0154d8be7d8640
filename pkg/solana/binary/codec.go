// Package binary implements the little-endian field layouts used by Solana
// native and SPL program instruction data.
package binary

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

var (
	ErrInvalidKey      = errors.New("invalid public key length")
	ErrInvalidOption   = errors.New("invalid option flag")
	ErrTrailingBytes   = errors.New("unexpected trailing bytes")
	ErrUnexpectedEnd   = errors.New("unexpected end of data")
	ErrInvalidDataSize = errors.New("invalid data size")
)

// Encoder appends fixed width fields to an in-memory buffer. The first error
// is sticky, and all subsequent writes are ignored.
type Encoder struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

// NewEncoder returns an encoder with room for size bytes.
func NewEncoder(size int) *Encoder {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	return &Encoder{
		buf: buf,
		enc: bin.NewBinEncoder(buf),
	}
}

func (e *Encoder) Uint8(v uint8) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteUint8(v)
	}
	return e
}

func (e *Encoder) Bool(v bool) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteBool(v)
	}
	return e
}

func (e *Encoder) Uint16(v uint16) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteUint16(v, binary.LittleEndian)
	}
	return e
}

func (e *Encoder) Uint32(v uint32) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteUint32(v, binary.LittleEndian)
	}
	return e
}

func (e *Encoder) Uint64(v uint64) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteUint64(v, binary.LittleEndian)
	}
	return e
}

func (e *Encoder) Int64(v int64) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteInt64(v, binary.LittleEndian)
	}
	return e
}

// Key writes a 32 byte public key.
func (e *Encoder) Key(k ed25519.PublicKey) *Encoder {
	if e.err != nil {
		return e
	}
	if len(k) != ed25519.PublicKeySize {
		e.err = errors.Wrapf(ErrInvalidKey, "got %d bytes", len(k))
		return e
	}
	e.err = e.enc.WriteBytes(k, false)
	return e
}

// OptionalKey writes a one byte presence flag, followed by the key only if
// it is present.
func (e *Encoder) OptionalKey(k ed25519.PublicKey) *Encoder {
	if len(k) == 0 {
		return e.Bool(false)
	}
	return e.Bool(true).Key(k)
}

// OptionalUint64 writes a one byte presence flag, followed by v only if it
// is present.
func (e *Encoder) OptionalUint64(v *uint64) *Encoder {
	if v == nil {
		return e.Bool(false)
	}
	return e.Bool(true).Uint64(*v)
}

// FixedOptionalKey writes a four byte presence tag followed by the key, or
// by zeros if it is absent. Account state uses this fixed size layout.
func (e *Encoder) FixedOptionalKey(k ed25519.PublicKey) *Encoder {
	if len(k) == 0 {
		return e.Uint32(0).Raw(make([]byte, ed25519.PublicKeySize))
	}
	return e.Uint32(1).Key(k)
}

// FixedOptionalUint64 is FixedOptionalKey for a u64 value.
func (e *Encoder) FixedOptionalUint64(v *uint64) *Encoder {
	if v == nil {
		return e.Uint32(0).Uint64(0)
	}
	return e.Uint32(1).Uint64(*v)
}

// Raw writes b as is.
func (e *Encoder) Raw(b []byte) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteBytes(b, false)
	}
	return e
}

// PrefixedString writes s prefixed with its length as a u64.
func (e *Encoder) PrefixedString(s string) *Encoder {
	if e.err == nil {
		e.err = e.enc.WriteRustString(s)
	}
	return e
}

// Bytes returns the encoded data.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf.Bytes(), nil
}

// MustBytes returns the encoded data, panicking on failure. It is meant for
// layouts where every field has a fixed, already validated size.
func (e *Encoder) MustBytes() []byte {
	b, err := e.Bytes()
	if err != nil {
		panic(err)
	}
	return b
}

// Decoder reads fixed width fields from instruction data.
type Decoder struct {
	dec *bin.Decoder
}

func NewDecoder(data []byte) *Decoder {
	return &Decoder{dec: bin.NewBinDecoder(data)}
}

func (d *Decoder) Uint8() (uint8, error) {
	if d.dec.Remaining() < 1 {
		return 0, ErrUnexpectedEnd
	}
	return d.dec.ReadUint8()
}

func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint8()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrInvalidOption, "flag %d", v)
	}
}

func (d *Decoder) Uint16() (uint16, error) {
	if d.dec.Remaining() < 2 {
		return 0, ErrUnexpectedEnd
	}
	return d.dec.ReadUint16(binary.LittleEndian)
}

func (d *Decoder) Uint32() (uint32, error) {
	if d.dec.Remaining() < 4 {
		return 0, ErrUnexpectedEnd
	}
	return d.dec.ReadUint32(binary.LittleEndian)
}

func (d *Decoder) Uint64() (uint64, error) {
	if d.dec.Remaining() < 8 {
		return 0, ErrUnexpectedEnd
	}
	return d.dec.ReadUint64(binary.LittleEndian)
}

func (d *Decoder) Int64() (int64, error) {
	if d.dec.Remaining() < 8 {
		return 0, ErrUnexpectedEnd
	}
	return d.dec.ReadInt64(binary.LittleEndian)
}

func (d *Decoder) Key() (ed25519.PublicKey, error) {
	if d.dec.Remaining() < ed25519.PublicKeySize {
		return nil, ErrUnexpectedEnd
	}
	raw, err := d.dec.ReadNBytes(ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}

	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(key, raw)
	return key, nil
}

// OptionalKey reads a key written by Encoder.OptionalKey. A nil key is
// returned if the flag is unset.
func (d *Decoder) OptionalKey() (ed25519.PublicKey, error) {
	present, err := d.Bool()
	if err != nil || !present {
		return nil, err
	}
	return d.Key()
}

func (d *Decoder) OptionalUint64() (*uint64, error) {
	present, err := d.Bool()
	if err != nil || !present {
		return nil, err
	}
	v, err := d.Uint64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FixedOptionalKey reads a key written by Encoder.FixedOptionalKey.
func (d *Decoder) FixedOptionalKey() (ed25519.PublicKey, error) {
	present, err := d.fixedTag()
	if err != nil {
		return nil, err
	}
	key, err := d.Key()
	if err != nil || !present {
		return nil, err
	}
	return key, nil
}

func (d *Decoder) FixedOptionalUint64() (*uint64, error) {
	present, err := d.fixedTag()
	if err != nil {
		return nil, err
	}
	v, err := d.Uint64()
	if err != nil || !present {
		return nil, err
	}
	return &v, nil
}

func (d *Decoder) fixedTag() (bool, error) {
	tag, err := d.Uint32()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrInvalidOption, "tag %d", tag)
	}
}

func (d *Decoder) PrefixedString() (string, error) {
	n, err := d.Uint64()
	if err != nil {
		return "", err
	}
	if n > uint64(d.dec.Remaining()) {
		return "", ErrUnexpectedEnd
	}
	raw, err := d.dec.ReadNBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Raw reads the next n bytes.
func (d *Decoder) Raw(n int) ([]byte, error) {
	if n < 0 || d.dec.Remaining() < n {
		return nil, ErrUnexpectedEnd
	}
	raw, err := d.dec.ReadNBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, raw)
	return out, nil
}

func (d *Decoder) Remaining() int {
	return d.dec.Remaining()
}

// Done returns ErrTrailingBytes if any data is left unread.
func (d *Decoder) Done() error {
	if n := d.dec.Remaining(); n != 0 {
		return errors.Wrapf(ErrTrailingBytes, "%d bytes", n)
	}
	return nil
}
