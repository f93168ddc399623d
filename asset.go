package stellar

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	assetTypeNative     uint32 = 0
	assetTypeAlphanum4  uint32 = 1
	assetTypeAlphanum12 uint32 = 2
)

// Asset is either the native lumen or a credit asset identified by a short
// code and an issuing account.
type Asset struct {
	Code   string
	Issuer string
}

// NativeAsset returns the lumen.
func NativeAsset() Asset {
	return Asset{}
}

// NewAsset constructs a credit asset. Codes up to 4 characters encode as
// alphanum4, up to 12 as alphanum12.
func NewAsset(code, issuer string) (asset Asset, err error) {
	if len(code) == 0 || len(code) > 12 {
		err = errors.Wrapf(ErrInvalidAssetCode, "'%s' must be 1-12 characters", code)
		return
	}
	if _, err = DecodeStrkey(StrkeyVersionAccount, issuer); err != nil {
		err = errors.Wrapf(err, "invalid issuer for asset '%s'", code)
		return
	}
	asset = Asset{Code: code, Issuer: issuer}
	return
}

func (a Asset) IsNative() bool {
	return a.Code == "" && a.Issuer == ""
}

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Code + ":" + a.Issuer
}

func (a Asset) EncodeTo(e *XdrEncoder) (err error) {
	if a.IsNative() {
		e.WriteUint32(assetTypeNative)
		return
	}

	issuer, err := DecodeStrkey(StrkeyVersionAccount, a.Issuer)
	if err != nil {
		return
	}

	switch {
	case len(a.Code) <= 4:
		e.WriteUint32(assetTypeAlphanum4)
		var code [4]byte
		copy(code[:], a.Code)
		e.WriteOpaque(code[:])
	case len(a.Code) <= 12:
		e.WriteUint32(assetTypeAlphanum12)
		var code [12]byte
		copy(code[:], a.Code)
		e.WriteOpaque(code[:])
	default:
		err = errors.Wrapf(ErrInvalidAssetCode, "'%s' exceeds 12 characters", a.Code)
		return
	}

	e.WriteUint32(publicKeyTypeEd25519)
	e.WriteOpaque(issuer)
	return
}

func DecodeAsset(d *XdrDecoder) (asset Asset, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}

	var codeLen int
	switch discriminant {
	case assetTypeNative:
		return
	case assetTypeAlphanum4:
		codeLen = 4
	case assetTypeAlphanum12:
		codeLen = 12
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "asset type %d", discriminant)
		return
	}

	code, err := d.ReadOpaque(codeLen)
	if err != nil {
		return
	}

	keyType, err := d.ReadUint32()
	if err != nil {
		return
	}
	if keyType != publicKeyTypeEd25519 {
		err = errors.Wrapf(ErrUnknownDiscriminant, "issuer key type %d", keyType)
		return
	}

	issuer, err := d.ReadOpaque(32)
	if err != nil {
		return
	}

	asset.Code = strings.TrimRight(string(code), "\x00")
	asset.Issuer, err = EncodeStrkey(StrkeyVersionAccount, issuer)
	return
}
