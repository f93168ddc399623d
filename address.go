package stellar

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const (
	scAddressTypeAccount  uint32 = 0
	scAddressTypeContract uint32 = 1

	publicKeyTypeEd25519 uint32 = 0

	keyTypeEd25519      uint32 = 0
	keyTypeMuxedEd25519 uint32 = 0x100
)

const (
	AddressTypeAccount AddressType = iota
	AddressTypeContract
)

type AddressType int

func (a AddressType) String() string {
	switch a {
	case AddressTypeAccount:
		return "account"
	case AddressTypeContract:
		return "contract"
	default:
		return "invalid"
	}
}

// Address identifies either an account or a contract. Exactly one of the
// two identifying fields is populated, consistent with Type.
type Address struct {
	Type       AddressType
	AccountID  string // G... strkey
	ContractID string // 32-byte hash, hex encoded
}

// NewAccountAddress constructs an account address from a G... strkey.
func NewAccountAddress(accountID string) (addr Address, err error) {
	if _, err = DecodeStrkey(StrkeyVersionAccount, accountID); err != nil {
		err = errors.Wrapf(err, "invalid account id '%s'", accountID)
		return
	}
	addr = Address{Type: AddressTypeAccount, AccountID: accountID}
	return
}

// NewContractAddress constructs a contract address from a hex-encoded
// 32-byte contract id hash.
func NewContractAddress(contractID string) (addr Address, err error) {
	raw, err2 := hex.DecodeString(contractID)
	if err2 != nil {
		err = errors.Wrapf(ErrInvalidAddress, "contract id '%s' is not hex: %v", contractID, err2)
		return
	}
	if len(raw) != 32 {
		err = errors.Wrapf(ErrInvalidAddress, "contract id must be 32 bytes, got %d", len(raw))
		return
	}
	addr = Address{Type: AddressTypeContract, ContractID: strings.ToLower(contractID)}
	return
}

func (a Address) Validate() (err error) {
	switch a.Type {
	case AddressTypeAccount:
		if a.AccountID == "" || a.ContractID != "" {
			err = errors.Wrap(ErrInvalidAddress, "account address requires account id only")
		}
	case AddressTypeContract:
		if a.ContractID == "" || a.AccountID != "" {
			err = errors.Wrap(ErrInvalidAddress, "contract address requires contract id only")
			return
		}
		raw, err2 := hex.DecodeString(a.ContractID)
		if err2 != nil || len(raw) != 32 {
			err = errors.Wrapf(ErrInvalidAddress, "contract id must be a 32-byte hex hash, got '%s'", a.ContractID)
		}
	default:
		err = errors.Wrapf(ErrInvalidAddress, "unknown address type %d", a.Type)
	}
	return
}

func (a Address) Valid() bool {
	return a.Validate() == nil
}

func (a Address) String() string {
	if a.Type == AddressTypeAccount {
		return a.AccountID
	}
	return a.ContractID
}

func (a Address) EncodeTo(e *XdrEncoder) (err error) {
	if err = a.Validate(); err != nil {
		return
	}
	switch a.Type {
	case AddressTypeAccount:
		var key []byte
		if key, err = DecodeStrkey(StrkeyVersionAccount, a.AccountID); err != nil {
			return
		}
		e.WriteUint32(scAddressTypeAccount)
		e.WriteUint32(publicKeyTypeEd25519)
		e.WriteOpaque(key)
	case AddressTypeContract:
		var hash []byte
		if hash, err = hex.DecodeString(a.ContractID); err != nil {
			err = errors.Wrapf(ErrInvalidAddress, "contract id '%s' is not hex", a.ContractID)
			return
		}
		if len(hash) != 32 {
			err = errors.Wrapf(ErrInvalidAddress, "contract id must be 32 bytes, got %d", len(hash))
			return
		}
		e.WriteUint32(scAddressTypeContract)
		e.WriteOpaque(hash)
	}
	return
}

func DecodeAddress(d *XdrDecoder) (addr Address, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}

	switch discriminant {
	case scAddressTypeAccount:
		var keyType uint32
		if keyType, err = d.ReadUint32(); err != nil {
			return
		}
		if keyType != publicKeyTypeEd25519 {
			err = errors.Wrapf(ErrUnknownDiscriminant, "public key type %d", keyType)
			return
		}
		var key []byte
		if key, err = d.ReadOpaque(32); err != nil {
			return
		}
		var accountID string
		if accountID, err = EncodeStrkey(StrkeyVersionAccount, key); err != nil {
			return
		}
		addr = Address{Type: AddressTypeAccount, AccountID: accountID}
	case scAddressTypeContract:
		var hash []byte
		if hash, err = d.ReadOpaque(32); err != nil {
			return
		}
		addr = Address{Type: AddressTypeContract, ContractID: hex.EncodeToString(hash)}
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "address type %d", discriminant)
	}
	return
}

// ToXdr returns the standalone XDR encoding of the address.
func (a Address) ToXdr() (out []byte, err error) {
	e := NewXdrEncoder()
	if err = a.EncodeTo(e); err != nil {
		return
	}
	out = e.Bytes()
	return
}

// AddressFromXdr decodes a standalone XDR address.
func AddressFromXdr(data []byte) (addr Address, err error) {
	d := NewXdrDecoder(data)
	if addr, err = DecodeAddress(d); err != nil {
		return
	}
	if !d.Done() {
		err = errors.Errorf("trailing bytes after address: %d", d.Len())
	}
	return
}

// MuxedAccount is an account id optionally carrying a 64-bit multiplexing
// id, used for operation sources and payment destinations.
type MuxedAccount struct {
	AccountID string
	ID        uint64
	Muxed     bool
}

func NewMuxedAccount(accountID string) (m MuxedAccount, err error) {
	if _, err = DecodeStrkey(StrkeyVersionAccount, accountID); err != nil {
		return
	}
	m = MuxedAccount{AccountID: accountID}
	return
}

func NewMuxedAccountWithID(accountID string, id uint64) (m MuxedAccount, err error) {
	if m, err = NewMuxedAccount(accountID); err != nil {
		return
	}
	m.ID = id
	m.Muxed = true
	return
}

func (m MuxedAccount) EncodeTo(e *XdrEncoder) (err error) {
	key, err := DecodeStrkey(StrkeyVersionAccount, m.AccountID)
	if err != nil {
		return
	}
	if m.Muxed {
		e.WriteUint32(keyTypeMuxedEd25519)
		e.WriteUint64(m.ID)
		e.WriteOpaque(key)
	} else {
		e.WriteUint32(keyTypeEd25519)
		e.WriteOpaque(key)
	}
	return
}

func DecodeMuxedAccount(d *XdrDecoder) (m MuxedAccount, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}

	switch discriminant {
	case keyTypeEd25519:
		var key []byte
		if key, err = d.ReadOpaque(32); err != nil {
			return
		}
		if m.AccountID, err = EncodeStrkey(StrkeyVersionAccount, key); err != nil {
			return
		}
	case keyTypeMuxedEd25519:
		if m.ID, err = d.ReadUint64(); err != nil {
			return
		}
		var key []byte
		if key, err = d.ReadOpaque(32); err != nil {
			return
		}
		if m.AccountID, err = EncodeStrkey(StrkeyVersionAccount, key); err != nil {
			return
		}
		m.Muxed = true
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "muxed account key type %d", discriminant)
	}
	return
}
