package variant

import (
	"encoding/binary"
	"math/big"
	"strings"

	"github.com/hsiuhsiu/intercom-go/pkg/intercom/hresult"
)

// MaxDecimalScale is the largest number of fractional digits a Decimal holds.
const MaxDecimalScale = 28

const (
	decimalSize = 16
	decimalNeg  = 0x80
)

// Decimal is a 96-bit unsigned coefficient with a sign and a power-of-ten
// scale: value = (-1)^Negative * (Hi<<64 | Lo) / 10^Scale.
type Decimal struct {
	Scale    uint8
	Negative bool
	Hi       uint32
	Lo       uint64
}

var maxCoefficient = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// NewDecimal builds a Decimal from a signed coefficient and a scale.
func NewDecimal(coef *big.Int, scale uint8) (Decimal, error) {
	if scale > MaxDecimalScale {
		return Decimal{}, hresult.Errorf(hresult.DispEOverflow, "variant: decimal scale %d exceeds %d", scale, MaxDecimalScale)
	}
	abs := new(big.Int).Abs(coef)
	if abs.Cmp(maxCoefficient) > 0 {
		return Decimal{}, hresult.Errorf(hresult.DispEOverflow, "variant: decimal coefficient %s exceeds 96 bits", coef)
	}
	lo := new(big.Int).And(abs, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(abs, 64)
	return Decimal{
		Scale:    scale,
		Negative: coef.Sign() < 0,
		Hi:       uint32(hi.Uint64()),
		Lo:       lo.Uint64(),
	}, nil
}

// ParseDecimal parses a plain decimal literal such as "-12.034".
func ParseDecimal(s string) (Decimal, error) {
	bad := func() (Decimal, error) {
		return Decimal{}, hresult.Errorf(hresult.DispETypeMismatch, "variant: invalid decimal %q", s)
	}
	body := s
	neg := false
	if body != "" && (body[0] == '-' || body[0] == '+') {
		neg = body[0] == '-'
		body = body[1:]
	}
	intPart, fracPart, hasDot := strings.Cut(body, ".")
	if intPart == "" && fracPart == "" {
		return bad()
	}
	if hasDot && fracPart == "" {
		return bad()
	}
	digits := intPart + fracPart
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return bad()
		}
	}
	if len(fracPart) > MaxDecimalScale {
		return Decimal{}, hresult.Errorf(hresult.DispEOverflow, "variant: decimal %q has more than %d fractional digits", s, MaxDecimalScale)
	}
	coef, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return bad()
	}
	if neg {
		coef.Neg(coef)
	}
	d, err := NewDecimal(coef, uint8(len(fracPart)))
	if err != nil {
		return Decimal{}, err
	}
	d.Negative = neg && coef.Sign() != 0
	return d, nil
}

// Coefficient returns the signed unscaled value of d.
func (d Decimal) Coefficient() *big.Int {
	c := new(big.Int).SetUint64(uint64(d.Hi))
	c.Lsh(c, 64)
	c.Or(c, new(big.Int).SetUint64(d.Lo))
	if d.Negative {
		c.Neg(c)
	}
	return c
}

func (d Decimal) String() string {
	c := d.Coefficient()
	digits := new(big.Int).Abs(c).String()
	scale := int(d.Scale)
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	}
	if c.Sign() < 0 {
		return "-" + digits
	}
	return digits
}

func (d Decimal) bytes() []byte {
	b := make([]byte, decimalSize)
	b[2] = d.Scale
	if d.Negative {
		b[3] = decimalNeg
	}
	binary.LittleEndian.PutUint32(b[4:8], d.Hi)
	binary.LittleEndian.PutUint64(b[8:16], d.Lo)
	return b
}

func decimalFromBytes(b []byte) (Decimal, error) {
	if len(b) != decimalSize {
		return Decimal{}, errMalformed(TagDecimal, "payload is %d bytes, want %d", len(b), decimalSize)
	}
	if b[2] > MaxDecimalScale {
		return Decimal{}, errMalformed(TagDecimal, "scale %d exceeds %d", b[2], MaxDecimalScale)
	}
	if b[3] != 0 && b[3] != decimalNeg {
		return Decimal{}, errMalformed(TagDecimal, "sign byte %#02x", b[3])
	}
	return Decimal{
		Scale:    b[2],
		Negative: b[3] == decimalNeg,
		Hi:       binary.LittleEndian.Uint32(b[4:8]),
		Lo:       binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}
