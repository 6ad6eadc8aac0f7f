package fixed

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// ErrOutOfBounds reports an argument outside the domain of the exponential
// or logarithm approximation.
var ErrOutOfBounds = errors.New("fixed: argument out of bounds")

// The approximation works on signed intermediates with 18, 20 and 36 decimal
// precision. Division truncates toward zero everywhere (big.Int.Quo/Rem).
var (
	one18 = big.NewInt(oneUint64)
	one20 = mustBig("100000000000000000000")
	one36 = mustBig("1000000000000000000000000000000000000")

	maxNaturalExponent = mustBig("130000000000000000000")
	minNaturalExponent = mustBig("-41000000000000000000")

	ln36LowerBound = mustBig("900000000000000000")
	ln36UpperBound = mustBig("1100000000000000000")

	// 2^254 / 1e20
	mildExponentBound = new(big.Int).Quo(new(big.Int).Lsh(big.NewInt(1), 254), one20)

	// x0 and x1 are 18-decimal, a0 and a1 carry no decimals.
	x0 = mustBig("128000000000000000000")
	a0 = mustBig("38877084059945950922200000000000000000000000000000000000")
	x1 = mustBig("64000000000000000000")
	a1 = mustBig("6235149080811616882910000000")
)

// Remaining terms are 20-decimal: a_n = e^(x_n).
var expTerms = []struct{ x, a *big.Int }{
	{mustBig("3200000000000000000000"), mustBig("7896296018268069516100000000000000")},
	{mustBig("1600000000000000000000"), mustBig("888611052050787263676000000")},
	{mustBig("800000000000000000000"), mustBig("298095798704172827474000")},
	{mustBig("400000000000000000000"), mustBig("5459815003314423907810")},
	{mustBig("200000000000000000000"), mustBig("738905609893065022723")},
	{mustBig("100000000000000000000"), mustBig("271828182845904523536")},
	{mustBig("50000000000000000000"), mustBig("164872127070012814685")},
	{mustBig("25000000000000000000"), mustBig("128402541668774148407")},
	{mustBig("12500000000000000000"), mustBig("113314845306682631683")},
	{mustBig("6250000000000000000"), mustBig("106449445891785942956")},
}

// expTermsUsed is the number of expTerms entries exp decomposes over (x2..x9);
// ln uses all of them (x2..x11).
const expTermsUsed = 8

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("fixed: invalid constant " + s)
	}
	return v
}

// Pow returns x^y for 18-decimal x and y, computed as exp(y * ln(x)).
// The result carries a relative error bounded well below 1e-14; use PowUp
// or PowDown to bias it in a known direction.
func Pow(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return One(), nil
	}
	if x.IsZero() {
		return Zero(), nil
	}

	xBig := x.ToBig()
	if xBig.BitLen() > 255 {
		return nil, ErrOutOfBounds
	}
	yBig := y.ToBig()
	if yBig.Cmp(mildExponentBound) >= 0 {
		return nil, ErrOutOfBounds
	}

	var logXTimesY *big.Int
	if ln36LowerBound.Cmp(xBig) < 0 && xBig.Cmp(ln36UpperBound) < 0 {
		ln36X := ln36(xBig)
		q, r := new(big.Int).QuoRem(ln36X, one18, new(big.Int))
		q.Mul(q, yBig)
		r.Mul(r, yBig)
		r.Quo(r, one18)
		logXTimesY = q.Add(q, r)
	} else {
		lnX, err := ln(xBig)
		if err != nil {
			return nil, err
		}
		logXTimesY = lnX.Mul(lnX, yBig)
	}
	logXTimesY.Quo(logXTimesY, one18)

	if logXTimesY.Cmp(minNaturalExponent) < 0 || logXTimesY.Cmp(maxNaturalExponent) > 0 {
		return nil, ErrOutOfBounds
	}

	result, err := exp(logXTimesY)
	if err != nil {
		return nil, err
	}
	out, overflow := uint256.FromBig(result)
	if overflow {
		return nil, ErrOverflow
	}
	return out, nil
}

// exp returns e^x for a signed 18-decimal x.
func exp(x *big.Int) (*big.Int, error) {
	if x.Cmp(minNaturalExponent) < 0 || x.Cmp(maxNaturalExponent) > 0 {
		return nil, ErrOutOfBounds
	}

	if x.Sign() < 0 {
		inv, err := exp(new(big.Int).Neg(x))
		if err != nil {
			return nil, err
		}
		num := new(big.Int).Mul(one18, one18)
		return num.Quo(num, inv), nil
	}

	x = new(big.Int).Set(x)
	firstAN := big.NewInt(1)
	switch {
	case x.Cmp(x0) >= 0:
		x.Sub(x, x0)
		firstAN = a0
	case x.Cmp(x1) >= 0:
		x.Sub(x, x1)
		firstAN = a1
	}

	x.Mul(x, big.NewInt(100))

	product := new(big.Int).Set(one20)
	for _, term := range expTerms[:expTermsUsed] {
		if x.Cmp(term.x) >= 0 {
			x.Sub(x, term.x)
			product.Mul(product, term.a)
			product.Quo(product, one20)
		}
	}

	// Taylor series up to the 12th term.
	seriesSum := new(big.Int).Set(one20)
	term := new(big.Int).Set(x)
	seriesSum.Add(seriesSum, term)
	for i := int64(2); i <= 12; i++ {
		term.Mul(term, x)
		term.Quo(term, one20)
		term.Quo(term, big.NewInt(i))
		seriesSum.Add(seriesSum, term)
	}

	result := product.Mul(product, seriesSum)
	result.Quo(result, one20)
	result.Mul(result, firstAN)
	return result.Quo(result, big.NewInt(100)), nil
}

// ln returns the natural logarithm of a positive 18-decimal a.
func ln(a *big.Int) (*big.Int, error) {
	if a.Sign() <= 0 {
		return nil, ErrOutOfBounds
	}
	if a.Cmp(one18) < 0 {
		inv := new(big.Int).Mul(one18, one18)
		inv.Quo(inv, a)
		res, err := ln(inv)
		if err != nil {
			return nil, err
		}
		return res.Neg(res), nil
	}

	a = new(big.Int).Set(a)
	sum := new(big.Int)
	if a.Cmp(new(big.Int).Mul(a0, one18)) >= 0 {
		a.Quo(a, a0)
		sum.Add(sum, x0)
	}
	if a.Cmp(new(big.Int).Mul(a1, one18)) >= 0 {
		a.Quo(a, a1)
		sum.Add(sum, x1)
	}

	sum.Mul(sum, big.NewInt(100))
	a.Mul(a, big.NewInt(100))

	for _, term := range expTerms {
		if a.Cmp(term.a) >= 0 {
			a.Mul(a, one20)
			a.Quo(a, term.a)
			sum.Add(sum, term.x)
		}
	}

	// a is now in [1, 1.0625): ln(a) = 2 * artanh((a-1)/(a+1)).
	z := new(big.Int).Sub(a, one20)
	z.Mul(z, one20)
	z.Quo(z, new(big.Int).Add(a, one20))
	zSquared := new(big.Int).Mul(z, z)
	zSquared.Quo(zSquared, one20)

	num := new(big.Int).Set(z)
	seriesSum := new(big.Int).Set(num)
	for _, d := range []int64{3, 5, 7, 9, 11} {
		num.Mul(num, zSquared)
		num.Quo(num, one20)
		seriesSum.Add(seriesSum, new(big.Int).Quo(num, big.NewInt(d)))
	}
	seriesSum.Mul(seriesSum, big.NewInt(2))

	sum.Add(sum, seriesSum)
	return sum.Quo(sum, big.NewInt(100)), nil
}

// ln36 returns ln(x) with 36-decimal precision for x close to one.
func ln36(x *big.Int) *big.Int {
	x = new(big.Int).Mul(x, one18)

	z := new(big.Int).Sub(x, one36)
	z.Mul(z, one36)
	z.Quo(z, new(big.Int).Add(x, one36))
	zSquared := new(big.Int).Mul(z, z)
	zSquared.Quo(zSquared, one36)

	num := new(big.Int).Set(z)
	seriesSum := new(big.Int).Set(num)
	for _, d := range []int64{3, 5, 7, 9, 11, 13, 15} {
		num.Mul(num, zSquared)
		num.Quo(num, one36)
		seriesSum.Add(seriesSum, new(big.Int).Quo(num, big.NewInt(d)))
	}
	return seriesSum.Mul(seriesSum, big.NewInt(2))
}
