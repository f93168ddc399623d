package stellar

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func hostFunctionRoundTrip(t *testing.T, fn HostFunction) HostFunction {
	t.Helper()
	e := NewXdrEncoder()
	if err := fn.EncodeTo(e); err != nil {
		t.Fatalf("%+v", err)
	}
	d := NewXdrDecoder(e.Bytes())
	decoded, err := DecodeHostFunction(d)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !d.Done() {
		t.Fatalf("%d bytes left unread", d.Len())
	}
	return decoded
}

func TestHostFunction_RoundTrip(t *testing.T) {
	account, err := NewAccountAddress(testAccountID(t, 9))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	asset, err := NewAsset("USDC", testAccountID(t, 10))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	testCases := []HostFunction{
		UploadContractWasmHostFunction{Code: []byte{0x00, 0x61, 0x73, 0x6d}},
		UploadContractWasmHostFunction{},
		CreateContractHostFunction{
			Address: account,
			WasmID:  strings.Repeat("5e", 32),
			Salt:    [32]byte{9, 8, 7},
		},
		DeploySACWithSourceAccountHostFunction{Address: account, Salt: [32]byte{1}},
		DeploySACWithAssetHostFunction{Asset: asset},
		DeploySACWithAssetHostFunction{Asset: NativeAsset()},
		InvokeContractHostFunction{
			ContractID:   strings.Repeat("6f", 32),
			FunctionName: "swap",
		},
	}

	for i, fn := range testCases {
		decoded := hostFunctionRoundTrip(t, fn)
		if !reflect.DeepEqual(decoded, fn) {
			t.Fatalf("test case %d: round trip produced %#v, expected %#v", i, decoded, fn)
		}
	}
}

func TestHostFunction_InvokeContractScenario(t *testing.T) {
	contractID := strings.Repeat("ab", 32)
	from, err := NewAccountAddress(testAccountID(t, 11))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	to, err := NewAccountAddress(testAccountID(t, 12))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	fn := InvokeContractHostFunction{
		ContractID:   contractID,
		FunctionName: "transfer",
		Args:         []ScVal{ScAddress(from), ScAddress(to), ScU32(100)},
	}

	decoded := hostFunctionRoundTrip(t, fn)
	out, ok := decoded.(InvokeContractHostFunction)
	if !ok {
		t.Fatalf("expected InvokeContractHostFunction, got %#v", decoded)
	}
	if out.ContractID != contractID {
		t.Fatalf("expected contract id %s, got %s", contractID, out.ContractID)
	}
	if out.FunctionName != "transfer" {
		t.Fatalf("expected function name 'transfer', got '%s'", out.FunctionName)
	}
	if !reflect.DeepEqual(out.Args, fn.Args) {
		t.Fatalf("expected args %+v, got %+v", fn.Args, out.Args)
	}
}

func TestHostFunction_InvokeContractPrefixValidation(t *testing.T) {
	// argument 0 must be a contract address
	e := NewXdrEncoder()
	e.WriteUint32(uint32(HostFunctionTypeInvokeContract))
	e.WriteUint32(2)
	account, err := NewAccountAddress(testAccountID(t, 13))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if err = ScAddress(account).EncodeTo(e); err != nil {
		t.Fatalf("%+v", err)
	}
	if err = ScSymbol("transfer").EncodeTo(e); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err = DecodeHostFunction(NewXdrDecoder(e.Bytes())); err == nil {
		t.Fatal("expected error for account address in position 0")
	}

	// argument 1 must be a symbol
	contract, err := NewContractAddress(strings.Repeat("7a", 32))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	e = NewXdrEncoder()
	e.WriteUint32(uint32(HostFunctionTypeInvokeContract))
	e.WriteUint32(2)
	if err = ScAddress(contract).EncodeTo(e); err != nil {
		t.Fatalf("%+v", err)
	}
	if err = ScString("transfer").EncodeTo(e); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err = DecodeHostFunction(NewXdrDecoder(e.Bytes())); err == nil {
		t.Fatal("expected error for string in position 1")
	}
}

func TestHostFunction_CreateContractDecodeTable(t *testing.T) {
	account, err := NewAccountAddress(testAccountID(t, 14))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	encodeCreate := func(preimage func(e *XdrEncoder), executable ContractExecutable) []byte {
		e := NewXdrEncoder()
		e.WriteUint32(uint32(HostFunctionTypeCreateContract))
		preimage(e)
		if err := executable.EncodeTo(e); err != nil {
			t.Fatalf("%+v", err)
		}
		return e.Bytes()
	}

	fromAddress := func(e *XdrEncoder) {
		e.WriteUint32(0)
		if err := account.EncodeTo(e); err != nil {
			t.Fatalf("%+v", err)
		}
		e.WriteOpaque(make([]byte, 32))
	}
	fromAsset := func(e *XdrEncoder) {
		e.WriteUint32(1)
		if err := NativeAsset().EncodeTo(e); err != nil {
			t.Fatalf("%+v", err)
		}
	}

	wasm := ContractExecutable{Type: ContractExecutableWasm, WasmHash: make([]byte, 32)}
	sac := ContractExecutable{Type: ContractExecutableStellarAsset}

	// address + wasm
	fn, err := DecodeHostFunction(NewXdrDecoder(encodeCreate(fromAddress, wasm)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, ok := fn.(CreateContractHostFunction); !ok {
		t.Fatalf("expected CreateContractHostFunction, got %#v", fn)
	}

	// address + built-in asset executable
	fn, err = DecodeHostFunction(NewXdrDecoder(encodeCreate(fromAddress, sac)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, ok := fn.(DeploySACWithSourceAccountHostFunction); !ok {
		t.Fatalf("expected DeploySACWithSourceAccountHostFunction, got %#v", fn)
	}

	// asset + built-in asset executable
	fn, err = DecodeHostFunction(NewXdrDecoder(encodeCreate(fromAsset, sac)))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, ok := fn.(DeploySACWithAssetHostFunction); !ok {
		t.Fatalf("expected DeploySACWithAssetHostFunction, got %#v", fn)
	}

	// asset + wasm is not a deployable combination
	if _, err = DecodeHostFunction(NewXdrDecoder(encodeCreate(fromAsset, wasm))); !errors.Is(err, ErrUnimplementedFunction) {
		t.Fatalf("expected unimplemented function error, got %+v", err)
	}

	// unknown preimage kind
	badPreimage := func(e *XdrEncoder) {
		e.WriteUint32(5)
	}
	if _, err = DecodeHostFunction(NewXdrDecoder(encodeCreate(badPreimage, sac))); !errors.Is(err, ErrUnknownDiscriminant) {
		t.Fatalf("expected unknown discriminant error, got %+v", err)
	}
}

func TestHostFunction_UnknownDiscriminant(t *testing.T) {
	e := NewXdrEncoder()
	e.WriteUint32(40)
	if _, err := DecodeHostFunction(NewXdrDecoder(e.Bytes())); !errors.Is(err, ErrUnknownDiscriminant) {
		t.Fatalf("expected unknown discriminant error, got %+v", err)
	}
}
