package stellar

import (
	"crypto/sha256"

	"github.com/pkg/errors"
)

type SorobanCredentialsType uint32

const (
	SorobanCredentialsSourceAccount SorobanCredentialsType = 0
	SorobanCredentialsAddress       SorobanCredentialsType = 1
)

const envelopeTypeSorobanAuthorization uint32 = 9

// SorobanCredentials authorizes an invocation tree either implicitly via
// the transaction source account or explicitly via an address with a nonce,
// expiration, and accumulated signatures.
type SorobanCredentials struct {
	Type    SorobanCredentialsType
	Address *SorobanAddressCredentials
}

type SorobanAddressCredentials struct {
	Address                   Address
	Nonce                     int64
	SignatureExpirationLedger uint32
	SignatureArgs             []ScVal
}

func SourceAccountCredentials() SorobanCredentials {
	return SorobanCredentials{Type: SorobanCredentialsSourceAccount}
}

func AddressCredentials(address Address, nonce int64, signatureExpirationLedger uint32) SorobanCredentials {
	return SorobanCredentials{
		Type: SorobanCredentialsAddress,
		Address: &SorobanAddressCredentials{
			Address:                   address,
			Nonce:                     nonce,
			SignatureExpirationLedger: signatureExpirationLedger,
		},
	}
}

func (c SorobanCredentials) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(uint32(c.Type))
	switch c.Type {
	case SorobanCredentialsSourceAccount:
	case SorobanCredentialsAddress:
		if c.Address == nil {
			err = errors.New("address credentials missing address payload")
			return
		}
		if err = c.Address.Address.EncodeTo(e); err != nil {
			return
		}
		e.WriteInt64(c.Address.Nonce)
		e.WriteUint32(c.Address.SignatureExpirationLedger)
		err = ScVec(c.Address.SignatureArgs...).EncodeTo(e)
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "credentials type %d", c.Type)
	}
	return
}

func DecodeSorobanCredentials(d *XdrDecoder) (c SorobanCredentials, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}
	c.Type = SorobanCredentialsType(discriminant)

	switch c.Type {
	case SorobanCredentialsSourceAccount:
	case SorobanCredentialsAddress:
		c.Address = &SorobanAddressCredentials{}
		if c.Address.Address, err = DecodeAddress(d); err != nil {
			return
		}
		if c.Address.Nonce, err = d.ReadInt64(); err != nil {
			return
		}
		if c.Address.SignatureExpirationLedger, err = d.ReadUint32(); err != nil {
			return
		}
		var signature ScVal
		if signature, err = DecodeScVal(d); err != nil {
			return
		}
		if signature.Type != ScValTypeVec {
			err = errors.Errorf("credential signature must be a value vector, got type %d", signature.Type)
			return
		}
		c.Address.SignatureArgs = signature.Vec
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "credentials type %d", discriminant)
	}
	return
}

const (
	authorizedFunctionTypeContractFn     uint32 = 0
	authorizedFunctionTypeCreateContract uint32 = 1
)

// AuthorizedContractFunction names a contract function call being
// authorized: the contract address, the function, and its arguments.
type AuthorizedContractFunction struct {
	Address      Address
	FunctionName string
	Args         []ScVal
}

type createContractFunction interface {
	HostFunction
	encodeCreateArgsTo(e *XdrEncoder) error
}

// SorobanAuthorizedFunction is either a contract function call or a
// contract creation. Exactly one of the two fields is populated.
type SorobanAuthorizedFunction struct {
	ContractFn       *AuthorizedContractFunction
	CreateContractFn HostFunction
}

// NewContractFnAuthorizedFunction wraps a contract function call.
func NewContractFnAuthorizedFunction(fn AuthorizedContractFunction) SorobanAuthorizedFunction {
	return SorobanAuthorizedFunction{ContractFn: &fn}
}

// NewCreateContractAuthorizedFunction wraps a contract creation. The host
// function must be one of the create-contract variants.
func NewCreateContractAuthorizedFunction(fn HostFunction) (out SorobanAuthorizedFunction, err error) {
	if fn == nil || fn.Type() != HostFunctionTypeCreateContract {
		err = errors.Wrap(ErrInvalidAuthorizedFn, "host function is not a create-contract variant")
		return
	}
	out = SorobanAuthorizedFunction{CreateContractFn: fn}
	return
}

func (f SorobanAuthorizedFunction) Validate() (err error) {
	if (f.ContractFn == nil) == (f.CreateContractFn == nil) {
		err = ErrInvalidAuthorizedFn
	}
	return
}

func (f SorobanAuthorizedFunction) EncodeTo(e *XdrEncoder) (err error) {
	if err = f.Validate(); err != nil {
		return
	}

	if f.ContractFn != nil {
		e.WriteUint32(authorizedFunctionTypeContractFn)
		if err = f.ContractFn.Address.EncodeTo(e); err != nil {
			return
		}
		if err = ScSymbol(f.ContractFn.FunctionName).EncodeTo(e); err != nil {
			return
		}
		e.WriteUint32(uint32(len(f.ContractFn.Args)))
		for _, arg := range f.ContractFn.Args {
			if err = arg.EncodeTo(e); err != nil {
				return
			}
		}
		return
	}

	create, ok := f.CreateContractFn.(createContractFunction)
	if !ok || create.Type() != HostFunctionTypeCreateContract {
		err = errors.Wrap(ErrInvalidAuthorizedFn, "host function is not a create-contract variant")
		return
	}
	e.WriteUint32(authorizedFunctionTypeCreateContract)
	return create.encodeCreateArgsTo(e)
}

func DecodeSorobanAuthorizedFunction(d *XdrDecoder) (f SorobanAuthorizedFunction, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}

	switch discriminant {
	case authorizedFunctionTypeContractFn:
		fn := &AuthorizedContractFunction{}
		if fn.Address, err = DecodeAddress(d); err != nil {
			return
		}
		var name ScVal
		if name, err = DecodeScVal(d); err != nil {
			return
		}
		if name.Type != ScValTypeSymbol {
			err = errors.Errorf("authorized function name must be a symbol, got type %d", name.Type)
			return
		}
		fn.FunctionName = name.Sym
		if fn.Args, err = decodeScValSlice(d); err != nil {
			return
		}
		f.ContractFn = fn
	case authorizedFunctionTypeCreateContract:
		f.CreateContractFn, err = decodeCreateContract(d)
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "authorized function type %d", discriminant)
	}
	return
}

// SorobanAuthorizedInvocation is a node in the authorized call tree: one
// function plus the nested calls it is permitted to make.
type SorobanAuthorizedInvocation struct {
	Function       SorobanAuthorizedFunction
	SubInvocations []SorobanAuthorizedInvocation
}

func (i SorobanAuthorizedInvocation) EncodeTo(e *XdrEncoder) (err error) {
	if err = i.Function.EncodeTo(e); err != nil {
		return
	}
	e.WriteUint32(uint32(len(i.SubInvocations)))
	for _, sub := range i.SubInvocations {
		if err = sub.EncodeTo(e); err != nil {
			return
		}
	}
	return
}

func DecodeSorobanAuthorizedInvocation(d *XdrDecoder) (i SorobanAuthorizedInvocation, err error) {
	if i.Function, err = DecodeSorobanAuthorizedFunction(d); err != nil {
		return
	}
	n, err := d.ReadUint32()
	if err != nil {
		return
	}
	for j := uint32(0); j < n; j++ {
		var sub SorobanAuthorizedInvocation
		if sub, err = DecodeSorobanAuthorizedInvocation(d); err != nil {
			return
		}
		i.SubInvocations = append(i.SubInvocations, sub)
	}
	return
}

// SorobanAuthorizationEntry pairs credentials with the invocation tree they
// authorize. It is the unit that gets signed and submitted.
type SorobanAuthorizationEntry struct {
	Credentials    SorobanCredentials
	RootInvocation SorobanAuthorizedInvocation
}

func (a SorobanAuthorizationEntry) EncodeTo(e *XdrEncoder) (err error) {
	if err = a.Credentials.EncodeTo(e); err != nil {
		return
	}
	return a.RootInvocation.EncodeTo(e)
}

func DecodeSorobanAuthorizationEntry(d *XdrDecoder) (a SorobanAuthorizationEntry, err error) {
	if a.Credentials, err = DecodeSorobanCredentials(d); err != nil {
		return
	}
	a.RootInvocation, err = DecodeSorobanAuthorizedInvocation(d)
	return
}

// ToXdr returns the standalone XDR encoding of the entry.
func (a SorobanAuthorizationEntry) ToXdr() (out []byte, err error) {
	e := NewXdrEncoder()
	if err = a.EncodeTo(e); err != nil {
		return
	}
	out = e.Bytes()
	return
}

// SorobanAuthorizationEntryFromXdr decodes a standalone XDR entry.
func SorobanAuthorizationEntryFromXdr(data []byte) (a SorobanAuthorizationEntry, err error) {
	d := NewXdrDecoder(data)
	if a, err = DecodeSorobanAuthorizationEntry(d); err != nil {
		return
	}
	if !d.Done() {
		err = errors.Errorf("trailing bytes after authorization entry: %d", d.Len())
	}
	return
}

// Sign authorizes the entry's invocation tree with the given keypair. The
// signature subject is the SHA-256 of a signature payload envelope binding
// the network id, nonce, expiration ledger, and invocation tree. The
// resulting signature is appended to the credential's signature arguments;
// prior signatures are never replaced, so calling Sign repeatedly with
// different keys accumulates a multi-signature.
//
// Source account credentials carry no signature and cannot be signed. On
// any error the entry is left unmodified.
func (a *SorobanAuthorizationEntry) Sign(kp *KeyPair, network Network) (err error) {
	if a.Credentials.Type != SorobanCredentialsAddress {
		err = ErrSourceAccountCredentials
		return
	}
	if a.Credentials.Address == nil {
		err = errors.Wrap(ErrInvalidAddress, "address credentials missing address payload")
		return
	}

	networkID, err := network.ID()
	if err != nil {
		return
	}

	e := NewXdrEncoder()
	e.WriteUint32(envelopeTypeSorobanAuthorization)
	e.WriteOpaque(networkID[:])
	e.WriteInt64(a.Credentials.Address.Nonce)
	e.WriteUint32(a.Credentials.Address.SignatureExpirationLedger)
	if err = a.RootInvocation.EncodeTo(e); err != nil {
		return
	}

	payload := sha256.Sum256(e.Bytes())
	signature := kp.Sign(payload[:])

	a.Credentials.Address.SignatureArgs = append(a.Credentials.Address.SignatureArgs, ScMap(
		ScMapEntry{Key: ScSymbol("public_key"), Val: ScBytes(kp.PublicKey())},
		ScMapEntry{Key: ScSymbol("signature"), Val: ScBytes(signature)},
	))
	return
}
