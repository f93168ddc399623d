package stellar

import (
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Amounts travel on the wire as 64-bit signed integers scaled by 10^7
// ("stroops") and are presented to callers as decimal strings.

const StroopsPerLumen = 10_000_000

var stroopScale = big.NewRat(StroopsPerLumen, 1)

// AmountToStroops converts a decimal string to stroops. The conversion is
// exact: more than 7 fractional digits, or a result outside the int64
// range, is an error.
func AmountToStroops(amount string) (stroops int64, err error) {
	rat, ok := new(big.Rat).SetString(amount)
	if !ok {
		err = errors.Wrapf(ErrInvalidAmount, "cannot parse '%s'", amount)
		return
	}

	rat.Mul(rat, stroopScale)
	if !rat.IsInt() {
		err = errors.Wrapf(ErrInvalidAmount, "'%s' has more than 7 decimal places", amount)
		return
	}

	if !rat.Num().IsInt64() {
		err = errors.Wrapf(ErrInvalidAmount, "'%s' is out of range", amount)
		return
	}

	stroops = rat.Num().Int64()
	return
}

// AmountFromStroops converts stroops back to a normalized decimal string
// with trailing zeros removed.
func AmountFromStroops(stroops int64) string {
	rat := big.NewRat(stroops, StroopsPerLumen)
	out := rat.FloatString(7)
	out = strings.TrimRight(out, "0")
	out = strings.TrimSuffix(out, ".")
	return out
}

// MaxAmount is the largest representable amount string.
func MaxAmount() string {
	return AmountFromStroops(math.MaxInt64)
}
