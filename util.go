package stellar

import (
	"encoding/hex"
)

type HexString string

func (h HexString) Bytes() []byte {
	out, err := hex.DecodeString(string(h))
	if err != nil {
		log.Warn().Msgf("invalid hex string: %s", h)
		return nil
	}
	return out
}

func (h HexString) String() string {
	return string(h)
}
