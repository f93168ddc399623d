package stellar

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

type HostFunctionType uint32

const (
	HostFunctionTypeInvokeContract     HostFunctionType = 0
	HostFunctionTypeCreateContract     HostFunctionType = 1
	HostFunctionTypeUploadContractWasm HostFunctionType = 2
)

const (
	contractIDPreimageFromAddress uint32 = 0
	contractIDPreimageFromAsset   uint32 = 1

	ContractExecutableWasm         uint32 = 0
	ContractExecutableStellarAsset uint32 = 1
)

// ContractExecutable selects what runs behind a contract: uploaded wasm
// identified by hash, or the built-in Stellar asset contract.
type ContractExecutable struct {
	Type     uint32
	WasmHash []byte
}

func (c ContractExecutable) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(c.Type)
	switch c.Type {
	case ContractExecutableWasm:
		if len(c.WasmHash) != 32 {
			err = errors.Errorf("wasm hash must be 32 bytes, got %d", len(c.WasmHash))
			return
		}
		e.WriteOpaque(c.WasmHash)
	case ContractExecutableStellarAsset:
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "contract executable %d", c.Type)
	}
	return
}

func DecodeContractExecutable(d *XdrDecoder) (c ContractExecutable, err error) {
	if c.Type, err = d.ReadUint32(); err != nil {
		return
	}
	switch c.Type {
	case ContractExecutableWasm:
		c.WasmHash, err = d.ReadOpaque(32)
	case ContractExecutableStellarAsset:
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "contract executable %d", c.Type)
	}
	return
}

// HostFunction is one of the closed set of operations that invoke host
// logic: uploading code, creating a contract, deploying the built-in asset
// contract, or invoking a contract function.
type HostFunction interface {
	Type() HostFunctionType
	EncodeTo(e *XdrEncoder) error
}

// InvokeContractHostFunction calls a function on a deployed contract. On
// the wire its arguments are a single value vector whose first two entries
// are fixed: the contract address, then the function name as a symbol.
type InvokeContractHostFunction struct {
	ContractID   string // 32-byte hash, hex encoded
	FunctionName string
	Args         []ScVal
}

func (f InvokeContractHostFunction) Type() HostFunctionType {
	return HostFunctionTypeInvokeContract
}

func (f InvokeContractHostFunction) EncodeTo(e *XdrEncoder) (err error) {
	addr, err := NewContractAddress(f.ContractID)
	if err != nil {
		return
	}

	args := make([]ScVal, 0, len(f.Args)+2)
	args = append(args, ScAddress(addr), ScSymbol(f.FunctionName))
	args = append(args, f.Args...)

	e.WriteUint32(uint32(f.Type()))
	e.WriteUint32(uint32(len(args)))
	for _, arg := range args {
		if err = arg.EncodeTo(e); err != nil {
			return
		}
	}
	return
}

// UploadContractWasmHostFunction installs contract code on the ledger.
type UploadContractWasmHostFunction struct {
	Code []byte
}

func (f UploadContractWasmHostFunction) Type() HostFunctionType {
	return HostFunctionTypeUploadContractWasm
}

func (f UploadContractWasmHostFunction) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(uint32(f.Type()))
	e.WriteOpaqueVar(f.Code)
	return
}

// CreateContractHostFunction instantiates a contract from previously
// uploaded wasm, at an id derived from the given address and salt.
type CreateContractHostFunction struct {
	Address Address
	WasmID  string // 32-byte wasm hash, hex encoded
	Salt    [32]byte
}

func (f CreateContractHostFunction) Type() HostFunctionType {
	return HostFunctionTypeCreateContract
}

func (f CreateContractHostFunction) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(uint32(f.Type()))
	return f.encodeCreateArgsTo(e)
}

func (f CreateContractHostFunction) encodeCreateArgsTo(e *XdrEncoder) (err error) {
	wasmHash := HexString(f.WasmID).Bytes()
	if len(wasmHash) != 32 {
		err = errors.Errorf("wasm id must be a 32-byte hex hash, got '%s'", f.WasmID)
		return
	}

	e.WriteUint32(contractIDPreimageFromAddress)
	if err = f.Address.EncodeTo(e); err != nil {
		return
	}
	e.WriteOpaque(f.Salt[:])
	return ContractExecutable{Type: ContractExecutableWasm, WasmHash: wasmHash}.EncodeTo(e)
}

// DeploySACWithSourceAccountHostFunction deploys the built-in asset
// contract at an id derived from the given address and salt.
type DeploySACWithSourceAccountHostFunction struct {
	Address Address
	Salt    [32]byte
}

func (f DeploySACWithSourceAccountHostFunction) Type() HostFunctionType {
	return HostFunctionTypeCreateContract
}

func (f DeploySACWithSourceAccountHostFunction) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(uint32(f.Type()))
	return f.encodeCreateArgsTo(e)
}

func (f DeploySACWithSourceAccountHostFunction) encodeCreateArgsTo(e *XdrEncoder) (err error) {
	e.WriteUint32(contractIDPreimageFromAddress)
	if err = f.Address.EncodeTo(e); err != nil {
		return
	}
	e.WriteOpaque(f.Salt[:])
	return ContractExecutable{Type: ContractExecutableStellarAsset}.EncodeTo(e)
}

// DeploySACWithAssetHostFunction deploys the built-in asset contract for a
// classic asset, at the id derived from the asset itself.
type DeploySACWithAssetHostFunction struct {
	Asset Asset
}

func (f DeploySACWithAssetHostFunction) Type() HostFunctionType {
	return HostFunctionTypeCreateContract
}

func (f DeploySACWithAssetHostFunction) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(uint32(f.Type()))
	return f.encodeCreateArgsTo(e)
}

func (f DeploySACWithAssetHostFunction) encodeCreateArgsTo(e *XdrEncoder) (err error) {
	e.WriteUint32(contractIDPreimageFromAsset)
	if err = f.Asset.EncodeTo(e); err != nil {
		return
	}
	return ContractExecutable{Type: ContractExecutableStellarAsset}.EncodeTo(e)
}

// DecodeHostFunction dispatches on the host function discriminant. The
// create-contract arm further dispatches on the contract id preimage kind
// and the executable kind:
//
//	address + wasm  -> CreateContractHostFunction
//	address + asset -> DeploySACWithSourceAccountHostFunction
//	asset + asset   -> DeploySACWithAssetHostFunction
//	asset + wasm    -> unimplemented
func DecodeHostFunction(d *XdrDecoder) (fn HostFunction, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}

	switch HostFunctionType(discriminant) {
	case HostFunctionTypeInvokeContract:
		return decodeInvokeContract(d)
	case HostFunctionTypeCreateContract:
		return decodeCreateContract(d)
	case HostFunctionTypeUploadContractWasm:
		var code []byte
		if code, err = d.ReadOpaqueVar(); err != nil {
			return
		}
		fn = UploadContractWasmHostFunction{Code: code}
		return
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "host function type %d", discriminant)
		return
	}
}

func decodeInvokeContract(d *XdrDecoder) (fn HostFunction, err error) {
	args, err := decodeScValSlice(d)
	if err != nil {
		return
	}
	if len(args) < 2 {
		err = errors.Errorf("invoke contract args require address and function name, got %d values", len(args))
		return
	}

	if args[0].Type != ScValTypeAddress || args[0].Address.Type != AddressTypeContract {
		err = errors.Errorf("invoke contract argument 0 must be a contract address")
		return
	}
	if args[1].Type != ScValTypeSymbol {
		err = errors.Errorf("invoke contract argument 1 must be a symbol")
		return
	}

	out := InvokeContractHostFunction{
		ContractID:   args[0].Address.ContractID,
		FunctionName: args[1].Sym,
	}
	if len(args) > 2 {
		out.Args = args[2:]
	}
	fn = out
	return
}

func decodeCreateContract(d *XdrDecoder) (fn HostFunction, err error) {
	preimageKind, err := d.ReadUint32()
	if err != nil {
		return
	}

	switch preimageKind {
	case contractIDPreimageFromAddress:
		var addr Address
		if addr, err = DecodeAddress(d); err != nil {
			return
		}
		var salt []byte
		if salt, err = d.ReadOpaque(32); err != nil {
			return
		}
		var executable ContractExecutable
		if executable, err = DecodeContractExecutable(d); err != nil {
			return
		}

		switch executable.Type {
		case ContractExecutableWasm:
			out := CreateContractHostFunction{Address: addr, WasmID: hex.EncodeToString(executable.WasmHash)}
			copy(out.Salt[:], salt)
			fn = out
		case ContractExecutableStellarAsset:
			out := DeploySACWithSourceAccountHostFunction{Address: addr}
			copy(out.Salt[:], salt)
			fn = out
		}
	case contractIDPreimageFromAsset:
		var asset Asset
		if asset, err = DecodeAsset(d); err != nil {
			return
		}
		var executable ContractExecutable
		if executable, err = DecodeContractExecutable(d); err != nil {
			return
		}

		switch executable.Type {
		case ContractExecutableWasm:
			err = errors.Wrap(ErrUnimplementedFunction, "asset-derived contract id with wasm executable")
		case ContractExecutableStellarAsset:
			fn = DeploySACWithAssetHostFunction{Asset: asset}
		}
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "contract id preimage %d", preimageKind)
	}
	return
}
