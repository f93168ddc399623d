package stellar

import (
	"testing"

	"github.com/pkg/errors"
)

func TestAmount_RoundTrip(t *testing.T) {
	testCases := []struct {
		amount  string
		stroops int64
	}{
		{amount: "0", stroops: 0},
		{amount: "1", stroops: 10_000_000},
		{amount: "0.0000001", stroops: 1},
		{amount: "0.25", stroops: 2_500_000},
		{amount: "100.1234567", stroops: 1_001_234_567},
		{amount: "-1.5", stroops: -15_000_000},
		{amount: "922337203685.4775807", stroops: 9223372036854775807},
	}

	for _, testCase := range testCases {
		stroops, err := AmountToStroops(testCase.amount)
		if err != nil {
			t.Fatalf("%s: %+v", testCase.amount, err)
		}
		if stroops != testCase.stroops {
			t.Fatalf("%s: expected %d stroops, got %d", testCase.amount, testCase.stroops, stroops)
		}

		back := AmountFromStroops(stroops)
		if back != testCase.amount {
			t.Fatalf("%s: round trip produced '%s'", testCase.amount, back)
		}
	}
}

func TestAmount_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"abc",
		"0.00000001",           // 8 decimal places
		"922337203685.4775808", // one stroop past the int64 maximum
	}

	for _, testCase := range testCases {
		if _, err := AmountToStroops(testCase); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("'%s': expected invalid amount error, got %+v", testCase, err)
		}
	}
}

func TestAmount_MaxAmount(t *testing.T) {
	if MaxAmount() != "922337203685.4775807" {
		t.Fatalf("unexpected max amount: %s", MaxAmount())
	}
}
