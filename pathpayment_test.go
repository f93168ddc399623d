package stellar

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func testPathPaymentBuilder(t *testing.T) *PathPaymentStrictSendBuilder {
	t.Helper()
	destination, err := NewMuxedAccount(testAccountID(t, 20))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	destAsset, err := NewAsset("EURT", testAccountID(t, 21))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return NewPathPaymentStrictSendBuilder(NativeAsset(), "10", destination, destAsset, "9.5")
}

func testPath(t *testing.T, length int) []Asset {
	t.Helper()
	if length == 0 {
		return nil
	}
	path := make([]Asset, 0, length)
	for i := 0; i < length; i++ {
		asset, err := NewAsset("HOP", testAccountID(t, byte(30+i)))
		if err != nil {
			t.Fatalf("%+v", err)
		}
		path = append(path, asset)
	}
	return path
}

func TestPathPayment_PathLengthInvariant(t *testing.T) {
	if _, err := testPathPaymentBuilder(t).SetPath(testPath(t, 6)).Build(); !errors.Is(err, ErrPathTooLong) {
		t.Fatalf("expected path too long error, got %+v", err)
	}

	op, err := testPathPaymentBuilder(t).SetPath(testPath(t, 5)).Build()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(op.Path) != 5 {
		t.Fatalf("expected a 5 asset path, got %d", len(op.Path))
	}
}

func TestPathPayment_BuildValidatesAmounts(t *testing.T) {
	destination, err := NewMuxedAccount(testAccountID(t, 22))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	builder := NewPathPaymentStrictSendBuilder(NativeAsset(), "1.00000001", destination, NativeAsset(), "1")
	if _, err = builder.Build(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount error, got %+v", err)
	}
}

func TestPathPayment_XdrRoundTrip(t *testing.T) {
	source, err := NewMuxedAccountWithID(testAccountID(t, 23), 99)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	testCases := []struct {
		pathLen int
		source  bool
	}{
		{pathLen: 0},
		{pathLen: 2, source: true},
		{pathLen: 5},
	}

	for i, testCase := range testCases {
		builder := testPathPaymentBuilder(t).SetPath(testPath(t, testCase.pathLen))
		if testCase.source {
			builder.SetSourceAccount(source)
		}
		op, err := builder.Build()
		if err != nil {
			t.Fatalf("test case %d: %+v", i, err)
		}

		encoded, err := op.ToXdr()
		if err != nil {
			t.Fatalf("test case %d: %+v", i, err)
		}
		decoded, err := OperationFromXdr(encoded)
		if err != nil {
			t.Fatalf("test case %d: %+v", i, err)
		}
		if !reflect.DeepEqual(decoded, op) {
			t.Fatalf("test case %d: round trip produced %+v, expected %+v", i, decoded, op)
		}
	}
}

func TestPathPayment_EncodeRejectsOversizedPath(t *testing.T) {
	op := PathPaymentStrictSendOperation{
		SendAsset:  NativeAsset(),
		SendAmount: "1",
		DestAsset:  NativeAsset(),
		DestMin:    "1",
		Path:       testPath(t, 6),
	}
	if _, err := op.ToXdr(); !errors.Is(err, ErrPathTooLong) {
		t.Fatalf("expected path too long error, got %+v", err)
	}
}
