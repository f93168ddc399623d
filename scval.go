package stellar

import (
	"math/big"

	"github.com/pkg/errors"
)

// ScVal is the discriminated-union value type exchanged with Soroban
// contract invocations. The discriminant determines which payload field is
// valid; all others must be zero.
type ScVal struct {
	Type ScValType

	Bool      bool
	Error     *ScError
	U32       uint32
	I32       int32
	U64       uint64
	I64       int64
	Timepoint uint64
	Duration  uint64
	U128      *UInt128Parts
	I128      *Int128Parts
	U256      *UInt256Parts
	I256      *Int256Parts
	Bytes     []byte
	Str       string
	Sym       string
	Vec       []ScVal
	Map       []ScMapEntry
	Address   *Address
	Instance  *ScContractInstance
	NonceKey  int64
}

type ScValType uint32

const (
	ScValTypeBool                      ScValType = 0
	ScValTypeVoid                      ScValType = 1
	ScValTypeError                     ScValType = 2
	ScValTypeU32                       ScValType = 3
	ScValTypeI32                       ScValType = 4
	ScValTypeU64                       ScValType = 5
	ScValTypeI64                       ScValType = 6
	ScValTypeTimepoint                 ScValType = 7
	ScValTypeDuration                  ScValType = 8
	ScValTypeU128                      ScValType = 9
	ScValTypeI128                      ScValType = 10
	ScValTypeU256                      ScValType = 11
	ScValTypeI256                      ScValType = 12
	ScValTypeBytes                     ScValType = 13
	ScValTypeString                    ScValType = 14
	ScValTypeSymbol                    ScValType = 15
	ScValTypeVec                       ScValType = 16
	ScValTypeMap                       ScValType = 17
	ScValTypeAddress                   ScValType = 18
	ScValTypeContractInstance          ScValType = 19
	ScValTypeLedgerKeyContractInstance ScValType = 20
	ScValTypeLedgerKeyNonce            ScValType = 21
)

// ScSymbolLimit is the wire-format bound on symbol length in bytes.
const ScSymbolLimit = 32

type ScMapEntry struct {
	Key ScVal
	Val ScVal
}

// ScError pairs an error domain with a code. The contract domain carries a
// contract-defined code; all other domains carry a protocol error code. The
// wire layout is identical either way.
type ScError struct {
	Type uint32
	Code uint32
}

// ScContractInstance describes a deployed contract: its executable and its
// instance storage.
type ScContractInstance struct {
	Executable ContractExecutable
	Storage    []ScMapEntry
	HasStorage bool
}

type UInt128Parts struct {
	Hi uint64
	Lo uint64
}

type Int128Parts struct {
	Hi int64
	Lo uint64
}

type UInt256Parts struct {
	HiHi uint64
	HiLo uint64
	LoHi uint64
	LoLo uint64
}

type Int256Parts struct {
	HiHi int64
	HiLo uint64
	LoHi uint64
	LoLo uint64
}

func ScBool(b bool) ScVal {
	return ScVal{Type: ScValTypeBool, Bool: b}
}

func ScVoid() ScVal {
	return ScVal{Type: ScValTypeVoid}
}

func ScErr(errType, code uint32) ScVal {
	return ScVal{Type: ScValTypeError, Error: &ScError{Type: errType, Code: code}}
}

func ScU32(u uint32) ScVal {
	return ScVal{Type: ScValTypeU32, U32: u}
}

func ScI32(i int32) ScVal {
	return ScVal{Type: ScValTypeI32, I32: i}
}

func ScU64(u uint64) ScVal {
	return ScVal{Type: ScValTypeU64, U64: u}
}

func ScI64(i int64) ScVal {
	return ScVal{Type: ScValTypeI64, I64: i}
}

func ScTimepoint(u uint64) ScVal {
	return ScVal{Type: ScValTypeTimepoint, Timepoint: u}
}

func ScDuration(u uint64) ScVal {
	return ScVal{Type: ScValTypeDuration, Duration: u}
}

func ScBytes(b []byte) ScVal {
	return ScVal{Type: ScValTypeBytes, Bytes: b}
}

func ScString(s string) ScVal {
	return ScVal{Type: ScValTypeString, Str: s}
}

// ScSymbol constructs a symbol value. Length is validated at encode time,
// not here.
func ScSymbol(s string) ScVal {
	return ScVal{Type: ScValTypeSymbol, Sym: s}
}

func ScVec(vals ...ScVal) ScVal {
	return ScVal{Type: ScValTypeVec, Vec: vals}
}

func ScMap(entries ...ScMapEntry) ScVal {
	return ScVal{Type: ScValTypeMap, Map: entries}
}

func ScAddress(addr Address) ScVal {
	return ScVal{Type: ScValTypeAddress, Address: &addr}
}

func ScNonceKey(nonce int64) ScVal {
	return ScVal{Type: ScValTypeLedgerKeyNonce, NonceKey: nonce}
}

var (
	maxUint64 = new(big.Int).SetUint64(^uint64(0))
	bigOne    = big.NewInt(1)
)

func bigToParts(v *big.Int, words int) (parts []uint64, err error) {
	bits := words * 64
	if v.Sign() < 0 {
		bound := new(big.Int).Lsh(bigOne, uint(bits-1))
		if v.Cmp(new(big.Int).Neg(bound)) < 0 {
			err = errors.Errorf("%s underflows %d-bit signed integer", v, bits)
			return
		}
		v = new(big.Int).Add(new(big.Int).Lsh(bigOne, uint(bits)), v)
	} else if v.BitLen() > bits {
		err = errors.Errorf("%s overflows %d-bit integer", v, bits)
		return
	}

	parts = make([]uint64, words)
	rest := new(big.Int).Set(v)
	for i := words - 1; i >= 0; i-- {
		word := new(big.Int).And(rest, maxUint64)
		parts[i] = word.Uint64()
		rest.Rsh(rest, 64)
	}
	return
}

func partsToBig(parts []uint64, signed bool) *big.Int {
	out := new(big.Int)
	for _, p := range parts {
		out.Lsh(out, 64)
		out.Or(out, new(big.Int).SetUint64(p))
	}
	if signed && parts[0]&(1<<63) != 0 {
		out.Sub(out, new(big.Int).Lsh(bigOne, uint(len(parts)*64)))
	}
	return out
}

// ScU128 constructs an unsigned 128-bit value from a big integer.
func ScU128(v *big.Int) (out ScVal, err error) {
	if v.Sign() < 0 {
		err = errors.Errorf("%s is negative", v)
		return
	}
	parts, err := bigToParts(v, 2)
	if err != nil {
		return
	}
	out = ScVal{Type: ScValTypeU128, U128: &UInt128Parts{Hi: parts[0], Lo: parts[1]}}
	return
}

// ScI128 constructs a signed 128-bit value from a big integer.
func ScI128(v *big.Int) (out ScVal, err error) {
	parts, err := bigToParts(v, 2)
	if err != nil {
		return
	}
	out = ScVal{Type: ScValTypeI128, I128: &Int128Parts{Hi: int64(parts[0]), Lo: parts[1]}}
	return
}

// ScU256 constructs an unsigned 256-bit value from a big integer.
func ScU256(v *big.Int) (out ScVal, err error) {
	if v.Sign() < 0 {
		err = errors.Errorf("%s is negative", v)
		return
	}
	parts, err := bigToParts(v, 4)
	if err != nil {
		return
	}
	out = ScVal{Type: ScValTypeU256, U256: &UInt256Parts{HiHi: parts[0], HiLo: parts[1], LoHi: parts[2], LoLo: parts[3]}}
	return
}

// ScI256 constructs a signed 256-bit value from a big integer.
func ScI256(v *big.Int) (out ScVal, err error) {
	parts, err := bigToParts(v, 4)
	if err != nil {
		return
	}
	out = ScVal{Type: ScValTypeI256, I256: &Int256Parts{HiHi: int64(parts[0]), HiLo: parts[1], LoHi: parts[2], LoLo: parts[3]}}
	return
}

// BigInt converts an integer-typed value back to a big integer.
func (v ScVal) BigInt() (out *big.Int, err error) {
	switch v.Type {
	case ScValTypeU32:
		out = new(big.Int).SetUint64(uint64(v.U32))
	case ScValTypeI32:
		out = big.NewInt(int64(v.I32))
	case ScValTypeU64:
		out = new(big.Int).SetUint64(v.U64)
	case ScValTypeI64:
		out = big.NewInt(v.I64)
	case ScValTypeU128:
		out = partsToBig([]uint64{v.U128.Hi, v.U128.Lo}, false)
	case ScValTypeI128:
		out = partsToBig([]uint64{uint64(v.I128.Hi), v.I128.Lo}, true)
	case ScValTypeU256:
		out = partsToBig([]uint64{v.U256.HiHi, v.U256.HiLo, v.U256.LoHi, v.U256.LoLo}, false)
	case ScValTypeI256:
		out = partsToBig([]uint64{uint64(v.I256.HiHi), v.I256.HiLo, v.I256.LoHi, v.I256.LoLo}, true)
	default:
		err = errors.Errorf("value type %d is not an integer", v.Type)
	}
	return
}

func (v ScVal) EncodeTo(e *XdrEncoder) (err error) {
	e.WriteUint32(uint32(v.Type))

	switch v.Type {
	case ScValTypeBool:
		e.WriteBool(v.Bool)
	case ScValTypeVoid, ScValTypeLedgerKeyContractInstance:
	case ScValTypeError:
		e.WriteUint32(v.Error.Type)
		e.WriteUint32(v.Error.Code)
	case ScValTypeU32:
		e.WriteUint32(v.U32)
	case ScValTypeI32:
		e.WriteInt32(v.I32)
	case ScValTypeU64:
		e.WriteUint64(v.U64)
	case ScValTypeI64:
		e.WriteInt64(v.I64)
	case ScValTypeTimepoint:
		e.WriteUint64(v.Timepoint)
	case ScValTypeDuration:
		e.WriteUint64(v.Duration)
	case ScValTypeU128:
		e.WriteUint64(v.U128.Hi)
		e.WriteUint64(v.U128.Lo)
	case ScValTypeI128:
		e.WriteInt64(v.I128.Hi)
		e.WriteUint64(v.I128.Lo)
	case ScValTypeU256:
		e.WriteUint64(v.U256.HiHi)
		e.WriteUint64(v.U256.HiLo)
		e.WriteUint64(v.U256.LoHi)
		e.WriteUint64(v.U256.LoLo)
	case ScValTypeI256:
		e.WriteInt64(v.I256.HiHi)
		e.WriteUint64(v.I256.HiLo)
		e.WriteUint64(v.I256.LoHi)
		e.WriteUint64(v.I256.LoLo)
	case ScValTypeBytes:
		e.WriteOpaqueVar(v.Bytes)
	case ScValTypeString:
		e.WriteString(v.Str)
	case ScValTypeSymbol:
		if len(v.Sym) > ScSymbolLimit {
			err = errors.Wrapf(ErrInvalidSymbol, "'%s' is %d bytes, limit %d", v.Sym, len(v.Sym), ScSymbolLimit)
			return
		}
		e.WriteString(v.Sym)
	case ScValTypeVec:
		// SCVec is an optional in the schema, always present here.
		e.WriteBool(true)
		e.WriteUint32(uint32(len(v.Vec)))
		for _, elem := range v.Vec {
			if err = elem.EncodeTo(e); err != nil {
				return
			}
		}
	case ScValTypeMap:
		// Entries are written in insertion order, not sorted.
		e.WriteBool(true)
		e.WriteUint32(uint32(len(v.Map)))
		for _, entry := range v.Map {
			if err = entry.Key.EncodeTo(e); err != nil {
				return
			}
			if err = entry.Val.EncodeTo(e); err != nil {
				return
			}
		}
	case ScValTypeAddress:
		err = v.Address.EncodeTo(e)
	case ScValTypeContractInstance:
		if err = v.Instance.Executable.EncodeTo(e); err != nil {
			return
		}
		e.WriteBool(v.Instance.HasStorage)
		if v.Instance.HasStorage {
			e.WriteUint32(uint32(len(v.Instance.Storage)))
			for _, entry := range v.Instance.Storage {
				if err = entry.Key.EncodeTo(e); err != nil {
					return
				}
				if err = entry.Val.EncodeTo(e); err != nil {
					return
				}
			}
		}
	case ScValTypeLedgerKeyNonce:
		e.WriteInt64(v.NonceKey)
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "value type %d", v.Type)
	}
	return
}

func DecodeScVal(d *XdrDecoder) (v ScVal, err error) {
	discriminant, err := d.ReadUint32()
	if err != nil {
		return
	}
	v.Type = ScValType(discriminant)

	switch v.Type {
	case ScValTypeBool:
		v.Bool, err = d.ReadBool()
	case ScValTypeVoid, ScValTypeLedgerKeyContractInstance:
	case ScValTypeError:
		v.Error = &ScError{}
		if v.Error.Type, err = d.ReadUint32(); err != nil {
			return
		}
		v.Error.Code, err = d.ReadUint32()
	case ScValTypeU32:
		v.U32, err = d.ReadUint32()
	case ScValTypeI32:
		v.I32, err = d.ReadInt32()
	case ScValTypeU64:
		v.U64, err = d.ReadUint64()
	case ScValTypeI64:
		v.I64, err = d.ReadInt64()
	case ScValTypeTimepoint:
		v.Timepoint, err = d.ReadUint64()
	case ScValTypeDuration:
		v.Duration, err = d.ReadUint64()
	case ScValTypeU128:
		v.U128 = &UInt128Parts{}
		if v.U128.Hi, err = d.ReadUint64(); err != nil {
			return
		}
		v.U128.Lo, err = d.ReadUint64()
	case ScValTypeI128:
		v.I128 = &Int128Parts{}
		if v.I128.Hi, err = d.ReadInt64(); err != nil {
			return
		}
		v.I128.Lo, err = d.ReadUint64()
	case ScValTypeU256:
		v.U256 = &UInt256Parts{}
		if v.U256.HiHi, err = d.ReadUint64(); err != nil {
			return
		}
		if v.U256.HiLo, err = d.ReadUint64(); err != nil {
			return
		}
		if v.U256.LoHi, err = d.ReadUint64(); err != nil {
			return
		}
		v.U256.LoLo, err = d.ReadUint64()
	case ScValTypeI256:
		v.I256 = &Int256Parts{}
		if v.I256.HiHi, err = d.ReadInt64(); err != nil {
			return
		}
		if v.I256.HiLo, err = d.ReadUint64(); err != nil {
			return
		}
		if v.I256.LoHi, err = d.ReadUint64(); err != nil {
			return
		}
		v.I256.LoLo, err = d.ReadUint64()
	case ScValTypeBytes:
		v.Bytes, err = d.ReadOpaqueVar()
	case ScValTypeString:
		v.Str, err = d.ReadString()
	case ScValTypeSymbol:
		if v.Sym, err = d.ReadString(); err != nil {
			return
		}
		if len(v.Sym) > ScSymbolLimit {
			err = errors.Wrapf(ErrInvalidSymbol, "'%s' is %d bytes, limit %d", v.Sym, len(v.Sym), ScSymbolLimit)
		}
	case ScValTypeVec:
		var present bool
		if present, err = d.ReadBool(); err != nil {
			return
		}
		if !present {
			err = errors.Errorf("vector value with absent body")
			return
		}
		v.Vec, err = decodeScValSlice(d)
	case ScValTypeMap:
		var present bool
		if present, err = d.ReadBool(); err != nil {
			return
		}
		if !present {
			err = errors.Errorf("map value with absent body")
			return
		}
		v.Map, err = decodeScMapEntries(d)
	case ScValTypeAddress:
		var addr Address
		if addr, err = DecodeAddress(d); err != nil {
			return
		}
		v.Address = &addr
	case ScValTypeContractInstance:
		v.Instance = &ScContractInstance{}
		if v.Instance.Executable, err = DecodeContractExecutable(d); err != nil {
			return
		}
		if v.Instance.HasStorage, err = d.ReadBool(); err != nil {
			return
		}
		if v.Instance.HasStorage {
			v.Instance.Storage, err = decodeScMapEntries(d)
		}
	case ScValTypeLedgerKeyNonce:
		v.NonceKey, err = d.ReadInt64()
	default:
		err = errors.Wrapf(ErrUnknownDiscriminant, "value type %d", discriminant)
	}
	return
}

func decodeScValSlice(d *XdrDecoder) (out []ScVal, err error) {
	n, err := d.ReadUint32()
	if err != nil {
		return
	}
	if n == 0 {
		return
	}
	// every encoded value carries at least a 4-byte discriminant
	if int(n) > d.Len()/4 {
		err = errors.Wrapf(ErrTruncatedStream, "element count %d exceeds %d remaining bytes", n, d.Len())
		return
	}
	out = make([]ScVal, 0, n)
	for i := uint32(0); i < n; i++ {
		var elem ScVal
		if elem, err = DecodeScVal(d); err != nil {
			return
		}
		out = append(out, elem)
	}
	return
}

func decodeScMapEntries(d *XdrDecoder) (out []ScMapEntry, err error) {
	n, err := d.ReadUint32()
	if err != nil {
		return
	}
	if n == 0 {
		return
	}
	// every entry carries at least two 4-byte discriminants
	if int(n) > d.Len()/8 {
		err = errors.Wrapf(ErrTruncatedStream, "entry count %d exceeds %d remaining bytes", n, d.Len())
		return
	}
	out = make([]ScMapEntry, 0, n)
	for i := uint32(0); i < n; i++ {
		var entry ScMapEntry
		if entry.Key, err = DecodeScVal(d); err != nil {
			return
		}
		if entry.Val, err = DecodeScVal(d); err != nil {
			return
		}
		out = append(out, entry)
	}
	return
}

// ToXdr returns the standalone XDR encoding of the value.
func (v ScVal) ToXdr() (out []byte, err error) {
	e := NewXdrEncoder()
	if err = v.EncodeTo(e); err != nil {
		return
	}
	out = e.Bytes()
	return
}

// ScValFromXdr decodes a standalone XDR value.
func ScValFromXdr(data []byte) (v ScVal, err error) {
	d := NewXdrDecoder(data)
	if v, err = DecodeScVal(d); err != nil {
		return
	}
	if !d.Done() {
		err = errors.Errorf("trailing bytes after value: %d", d.Len())
	}
	return
}
