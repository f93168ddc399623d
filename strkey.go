package stellar

import (
	"encoding/base32"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Strkey is the text form of Stellar keys and identifiers: a version byte,
// the payload, and a CRC16 checksum, base32 encoded without padding. The
// version byte selects the leading character of the encoded form.

type StrkeyVersion byte

const (
	StrkeyVersionAccount  StrkeyVersion = 6 << 3  // 'G'
	StrkeyVersionSeed     StrkeyVersion = 18 << 3 // 'S'
	StrkeyVersionMuxed    StrkeyVersion = 12 << 3 // 'M'
	StrkeyVersionContract StrkeyVersion = 2 << 3  // 'C'
)

func (v StrkeyVersion) String() string {
	switch v {
	case StrkeyVersionAccount:
		return "account"
	case StrkeyVersionSeed:
		return "seed"
	case StrkeyVersionMuxed:
		return "muxed account"
	case StrkeyVersionContract:
		return "contract"
	default:
		return "invalid"
	}
}

func (v StrkeyVersion) Valid() bool {
	switch v {
	case StrkeyVersionAccount, StrkeyVersionSeed, StrkeyVersionMuxed, StrkeyVersionContract:
		return true
	}
	return false
}

var strkeyPayloadLengths = map[StrkeyVersion]int{
	StrkeyVersionAccount:  32,
	StrkeyVersionSeed:     32,
	StrkeyVersionMuxed:    40,
	StrkeyVersionContract: 32,
}

var strkeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeStrkey encodes a payload under the given version byte.
func EncodeStrkey(version StrkeyVersion, payload []byte) (encoded string, err error) {
	expected, ok := strkeyPayloadLengths[version]
	if !ok {
		err = errors.Wrapf(ErrInvalidStrkey, "unknown version byte 0x%02x", byte(version))
		return
	}
	if len(payload) != expected {
		err = errors.Wrapf(ErrInvalidStrkey,
			"expected %d byte payload for %s strkey, got %d", expected, version, len(payload))
		return
	}

	raw := append([]byte{byte(version)}, payload...)
	var crc [2]byte
	binary.LittleEndian.PutUint16(crc[:], crc16(raw))
	raw = append(raw, crc[:]...)

	encoded = strkeyEncoding.EncodeToString(raw)
	return
}

// DecodeStrkey decodes a strkey, validating its checksum, and requires it to
// carry the given version byte.
func DecodeStrkey(version StrkeyVersion, encoded string) (payload []byte, err error) {
	raw, err := strkeyEncoding.DecodeString(encoded)
	if err != nil {
		err = errors.Wrapf(ErrInvalidStrkey, "base32 decode failed: %v", err)
		return
	}
	if len(raw) < 3 {
		err = errors.Wrapf(ErrInvalidStrkey, "decoded to %d bytes", len(raw))
		return
	}

	body := raw[:len(raw)-2]
	checksum := binary.LittleEndian.Uint16(raw[len(raw)-2:])
	if crc16(body) != checksum {
		err = errors.Wrap(ErrInvalidStrkey, "checksum mismatch")
		return
	}

	got := StrkeyVersion(body[0])
	if got != version {
		err = errors.Wrapf(ErrInvalidStrkey, "expected %s strkey, got %s", version, got)
		return
	}

	payload = body[1:]
	if expected := strkeyPayloadLengths[version]; len(payload) != expected {
		err = errors.Wrapf(ErrInvalidStrkey,
			"expected %d byte payload for %s strkey, got %d", expected, version, len(payload))
		return
	}
	return
}

// crc16 implements the XModem variant (polynomial 0x1021, zero initial
// value) used by the strkey checksum.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
