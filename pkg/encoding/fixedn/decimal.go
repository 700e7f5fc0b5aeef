package fixedn

import (
	"encoding/json"
	"errors"
	"math/big"
	"strconv"
	"strings"
)

const maxAllowedPrecision = 16

var errInvalidString = errors.New("fixed-point number must have a <integer>.<fractional> format")
var errTooManyDecimals = errors.New("value has too many decimals")

var pow10Cache [maxAllowedPrecision + 1]*big.Int

func init() {
	var p = big.NewInt(1)
	for i := range pow10Cache {
		pow10Cache[i] = new(big.Int).Set(p)
		p.Mul(p, big.NewInt(10))
	}
}

func pow10(n int) *big.Int {
	if n >= 0 && n <= maxAllowedPrecision {
		return pow10Cache[n]
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ToString converts a big decimal with the specified precision to a string.
func ToString(bi *big.Int, precision int) string {
	var (
		abs    = new(big.Int).Abs(bi)
		dp, fp big.Int
		sign   string
	)
	if bi.Sign() < 0 {
		sign = "-"
	}
	dp.QuoRem(abs, pow10(precision), &fp)
	if fp.Sign() == 0 {
		return sign + dp.String()
	}
	frac := fp.String()
	frac = strings.Repeat("0", precision-len(frac)) + frac
	return sign + dp.String() + "." + strings.TrimRight(frac, "0")
}

// FromString converts a string to a big decimal with the specified precision.
func FromString(s string, precision int) (*big.Int, error) {
	parts := strings.SplitN(s, ".", 2)
	bi, ok := new(big.Int).SetString(parts[0], 10)
	if !ok {
		return nil, errInvalidString
	}
	bi.Mul(bi, pow10(precision))
	if len(parts) == 1 {
		return bi, nil
	}

	if len(parts[1]) > precision {
		return nil, errTooManyDecimals
	}
	if len(parts[1]) == 0 || strings.ContainsAny(parts[1], "+-") {
		return nil, errInvalidString
	}
	fp, ok := new(big.Int).SetString(parts[1], 10)
	if !ok {
		return nil, errInvalidString
	}
	fp.Mul(fp, pow10(precision-len(parts[1])))
	if strings.HasPrefix(s, "-") {
		return bi.Sub(bi, fp), nil
	}
	return bi.Add(bi, fp), nil
}

// Decimal is an exact fixed-point amount: an integer mantissa scaled by
// 10^-Precision. Token balances are represented this way.
type Decimal struct {
	Value     *big.Int
	Precision int
}

// NewDecimal creates a Decimal from the given mantissa and precision. The
// mantissa is copied.
func NewDecimal(v *big.Int, precision int) Decimal {
	return Decimal{Value: new(big.Int).Set(v), Precision: precision}
}

// DecimalFromString parses s (like "12.345") as a Decimal with the given
// precision.
func DecimalFromString(s string, precision int) (Decimal, error) {
	v, err := FromString(s, precision)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Value: v, Precision: precision}, nil
}

func (d Decimal) mantissa() *big.Int {
	if d.Value == nil {
		return new(big.Int)
	}
	return d.Value
}

// rescale returns the mantissa of d expressed with the given precision which
// must not be less than d.Precision.
func (d Decimal) rescale(precision int) *big.Int {
	return new(big.Int).Mul(d.mantissa(), pow10(precision-d.Precision))
}

// Add returns d+other. The result has the largest precision of the two.
func (d Decimal) Add(other Decimal) Decimal {
	p := d.Precision
	if other.Precision > p {
		p = other.Precision
	}
	sum := d.rescale(p)
	sum.Add(sum, other.rescale(p))
	return Decimal{Value: sum, Precision: p}
}

// Cmp compares d and other numerically, the result is -1, 0 or +1 like
// for big.Int.
func (d Decimal) Cmp(other Decimal) int {
	p := d.Precision
	if other.Precision > p {
		p = other.Precision
	}
	return d.rescale(p).Cmp(other.rescale(p))
}

// String implements the Stringer interface.
func (d Decimal) String() string {
	return ToString(d.mantissa(), d.Precision)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface. Precision is
// taken from the number of fractional digits.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var precision int
	if i := strings.IndexByte(s, '.'); i >= 0 {
		precision = len(s) - i - 1
	}
	v, err := DecimalFromString(s, precision)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Fixed8 returns a Fixed8 representation of d if it fits into one.
func (d Decimal) Fixed8() (Fixed8, error) {
	var v *big.Int
	if d.Precision <= precision {
		v = d.rescale(precision)
	} else {
		var m big.Int
		v, _ = new(big.Int).QuoRem(d.mantissa(), pow10(d.Precision-precision), &m)
		if m.Sign() != 0 {
			return 0, errTooManyDecimals
		}
	}
	if !v.IsInt64() {
		return 0, errors.New("value overflows Fixed8: " + strconv.Quote(d.String()))
	}
	return Fixed8(v.Int64()), nil
}
