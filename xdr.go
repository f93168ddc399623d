package stellar

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// An XdrEncoder writes values in the XDR binary interchange format used by
// the Stellar network: big-endian fixed-width integers, and variable-length
// opaque data length-prefixed and zero-padded to a 4-byte boundary.
type XdrEncoder struct {
	buf bytes.Buffer
}

func NewXdrEncoder() *XdrEncoder {
	return &XdrEncoder{}
}

func (e *XdrEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *XdrEncoder) WriteUint32(u uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], u)
	e.buf.Write(b[:])
}

func (e *XdrEncoder) WriteInt32(i int32) {
	e.WriteUint32(uint32(i))
}

func (e *XdrEncoder) WriteUint64(u uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	e.buf.Write(b[:])
}

func (e *XdrEncoder) WriteInt64(i int64) {
	e.WriteUint64(uint64(i))
}

func (e *XdrEncoder) WriteBool(b bool) {
	if b {
		e.WriteUint32(1)
	} else {
		e.WriteUint32(0)
	}
}

// WriteOpaque writes fixed-length opaque data with no length prefix and no
// padding. The length must be agreed out-of-band by the schema.
func (e *XdrEncoder) WriteOpaque(b []byte) {
	e.buf.Write(b)
}

// WriteOpaqueVar writes variable-length opaque data: a 4-byte count followed
// by the data, zero-padded to the next 4-byte boundary.
func (e *XdrEncoder) WriteOpaqueVar(b []byte) {
	e.WriteUint32(uint32(len(b)))
	e.buf.Write(b)
	if pad := (4 - len(b)%4) % 4; pad > 0 {
		e.buf.Write(make([]byte, pad))
	}
}

func (e *XdrEncoder) WriteString(s string) {
	e.WriteOpaqueVar([]byte(s))
}

// An XdrDecoder reads XDR values from a byte slice, advancing an internal
// cursor by exactly the number of bytes consumed.
type XdrDecoder struct {
	data []byte
	pos  int
}

func NewXdrDecoder(data []byte) *XdrDecoder {
	return &XdrDecoder{data: data}
}

// Len returns the number of unread bytes.
func (d *XdrDecoder) Len() int {
	return len(d.data) - d.pos
}

// Done reports whether the decoder has consumed the entire input.
func (d *XdrDecoder) Done() bool {
	return d.Len() == 0
}

func (d *XdrDecoder) take(n int) (out []byte, err error) {
	if n < 0 || d.Len() < n {
		err = errors.Wrapf(ErrTruncatedStream, "need %d bytes at offset %d, have %d", n, d.pos, d.Len())
		return
	}
	out = d.data[d.pos : d.pos+n]
	d.pos += n
	return
}

func (d *XdrDecoder) ReadUint32() (out uint32, err error) {
	b, err := d.take(4)
	if err != nil {
		return
	}
	out = binary.BigEndian.Uint32(b)
	return
}

func (d *XdrDecoder) ReadInt32() (out int32, err error) {
	u, err := d.ReadUint32()
	out = int32(u)
	return
}

func (d *XdrDecoder) ReadUint64() (out uint64, err error) {
	b, err := d.take(8)
	if err != nil {
		return
	}
	out = binary.BigEndian.Uint64(b)
	return
}

func (d *XdrDecoder) ReadInt64() (out int64, err error) {
	u, err := d.ReadUint64()
	out = int64(u)
	return
}

func (d *XdrDecoder) ReadBool() (out bool, err error) {
	u, err := d.ReadUint32()
	if err != nil {
		return
	}
	switch u {
	case 0:
		out = false
	case 1:
		out = true
	default:
		err = errors.Errorf("invalid bool value %d", u)
	}
	return
}

// ReadOpaque reads n bytes of fixed-length opaque data. Zero-length reads
// return a nil slice.
func (d *XdrDecoder) ReadOpaque(n int) (out []byte, err error) {
	if n == 0 {
		return
	}
	b, err := d.take(n)
	if err != nil {
		return
	}
	out = make([]byte, n)
	copy(out, b)
	return
}

// ReadOpaqueVar reads a 4-byte count, the data, and the zero padding to the
// next 4-byte boundary.
func (d *XdrDecoder) ReadOpaqueVar() (out []byte, err error) {
	n, err := d.ReadUint32()
	if err != nil {
		return
	}
	if int(n) > d.Len() {
		err = errors.Wrapf(ErrTruncatedStream, "opaque length prefix %d exceeds %d remaining bytes", n, d.Len())
		return
	}
	out, err = d.ReadOpaque(int(n))
	if err != nil {
		return
	}
	if pad := (4 - int(n)%4) % 4; pad > 0 {
		var padding []byte
		if padding, err = d.take(pad); err != nil {
			return
		}
		for _, p := range padding {
			if p != 0 {
				err = errors.Errorf("non-zero padding byte 0x%02x", p)
				return
			}
		}
	}
	return
}

func (d *XdrDecoder) ReadString() (out string, err error) {
	b, err := d.ReadOpaqueVar()
	out = string(b)
	return
}
