package stellar

import (
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func scValRoundTrip(t *testing.T, v ScVal) ScVal {
	t.Helper()
	encoded, err := v.ToXdr()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	decoded, err := ScValFromXdr(encoded)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return decoded
}

func TestScVal_RoundTrip(t *testing.T) {
	contract, err := NewContractAddress(strings.Repeat("1a", 32))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	u128, err := ScU128(new(big.Int).Lsh(big.NewInt(1), 100))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	i128, err := ScI128(big.NewInt(-42))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	u256, err := ScU256(new(big.Int).Lsh(big.NewInt(7), 200))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	i256, err := ScI256(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(3), 150)))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	testCases := []ScVal{
		ScVoid(),
		ScBool(true),
		ScBool(false),
		ScErr(1, 5),
		ScU32(4294967295),
		ScI32(-2147483648),
		ScU64(18446744073709551615),
		ScI64(-9223372036854775808),
		ScTimepoint(1700000000),
		ScDuration(3600),
		u128,
		i128,
		u256,
		i256,
		ScBytes(nil),
		ScBytes([]byte{1, 2, 3}),
		ScString("hello"),
		ScSymbol("transfer"),
		ScVec(),
		ScVec(ScU32(1), ScString("two"), ScVec(ScBool(true))),
		ScMap(),
		ScMap(
			ScMapEntry{Key: ScSymbol("a"), Val: ScU32(1)},
			ScMapEntry{Key: ScSymbol("b"), Val: ScU32(2)},
		),
		ScAddress(contract),
		ScNonceKey(-77),
		{Type: ScValTypeLedgerKeyContractInstance},
		{Type: ScValTypeContractInstance, Instance: &ScContractInstance{
			Executable: ContractExecutable{Type: ContractExecutableStellarAsset},
		}},
	}

	for i, v := range testCases {
		decoded := scValRoundTrip(t, v)
		if !reflect.DeepEqual(decoded, v) {
			t.Fatalf("test case %d: round trip produced %+v, expected %+v", i, decoded, v)
		}
	}
}

func TestScVal_MapOrderPreserved(t *testing.T) {
	// entries deliberately out of sorted key order
	v := ScMap(
		ScMapEntry{Key: ScSymbol("zebra"), Val: ScU32(1)},
		ScMapEntry{Key: ScSymbol("apple"), Val: ScU32(2)},
		ScMapEntry{Key: ScSymbol("mango"), Val: ScU32(3)},
	)

	decoded := scValRoundTrip(t, v)
	keys := make([]string, 0, len(decoded.Map))
	for _, entry := range decoded.Map {
		keys = append(keys, entry.Key.Sym)
	}
	if !reflect.DeepEqual(keys, []string{"zebra", "apple", "mango"}) {
		t.Fatalf("insertion order not preserved: %v", keys)
	}
}

func TestScVal_SymbolLengthEnforcedAtEncode(t *testing.T) {
	long := ScSymbol(strings.Repeat("x", ScSymbolLimit+1))
	if _, err := long.ToXdr(); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected invalid symbol error, got %+v", err)
	}

	ok := ScSymbol(strings.Repeat("x", ScSymbolLimit))
	if _, err := ok.ToXdr(); err != nil {
		t.Fatalf("%+v", err)
	}
}

func TestScVal_BigIntRoundTrip(t *testing.T) {
	testCases := []*big.Int{
		big.NewInt(0),
		big.NewInt(100),
		big.NewInt(-100),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1)),
		new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127)),
	}

	for _, expected := range testCases {
		v, err := ScI128(expected)
		if err != nil {
			t.Fatalf("%s: %+v", expected, err)
		}
		back, err := v.BigInt()
		if err != nil {
			t.Fatalf("%s: %+v", expected, err)
		}
		if back.Cmp(expected) != 0 {
			t.Fatalf("expected %s, got %s", expected, back)
		}
	}
}

func TestScVal_BigIntOverflow(t *testing.T) {
	if _, err := ScI128(new(big.Int).Lsh(big.NewInt(1), 127)); err == nil {
		t.Fatal("expected overflow error")
	}
	if _, err := ScU128(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative unsigned value")
	}
	if _, err := ScU256(new(big.Int).Lsh(big.NewInt(1), 256)); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestScVal_HugeElementCountRejected(t *testing.T) {
	// a count claiming far more elements than the stream could hold must
	// fail before any allocation is attempted
	e := NewXdrEncoder()
	e.WriteUint32(uint32(ScValTypeVec))
	e.WriteBool(true)
	e.WriteUint32(0xffffffff)
	if _, err := ScValFromXdr(e.Bytes()); !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected truncated stream error, got %+v", err)
	}

	e = NewXdrEncoder()
	e.WriteUint32(uint32(ScValTypeMap))
	e.WriteBool(true)
	e.WriteUint32(0xffffffff)
	if _, err := ScValFromXdr(e.Bytes()); !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected truncated stream error, got %+v", err)
	}
}

func TestScVal_AbsentVecAndMapBodiesRejected(t *testing.T) {
	// an absent body would re-encode as an empty present one, so decode
	// refuses it
	e := NewXdrEncoder()
	e.WriteUint32(uint32(ScValTypeVec))
	e.WriteBool(false)
	if _, err := ScValFromXdr(e.Bytes()); err == nil {
		t.Fatal("expected error for vector with absent body")
	}

	e = NewXdrEncoder()
	e.WriteUint32(uint32(ScValTypeMap))
	e.WriteBool(false)
	if _, err := ScValFromXdr(e.Bytes()); err == nil {
		t.Fatal("expected error for map with absent body")
	}
}

func TestScVal_UnknownDiscriminant(t *testing.T) {
	e := NewXdrEncoder()
	e.WriteUint32(99)
	if _, err := ScValFromXdr(e.Bytes()); !errors.Is(err, ErrUnknownDiscriminant) {
		t.Fatalf("expected unknown discriminant error, got %+v", err)
	}
}
