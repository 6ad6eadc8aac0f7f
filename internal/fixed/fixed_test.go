package fixed

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func u(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

func TestMulDivRounding(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"1", "1"},
		{"3", "333333333333333333"},
		{"1000000000000000000", "1000000000000000000"},
		{"123456789012345678901", "987654321098765432"},
		{"7", "3"},
		{"0", "5"},
	}
	for _, tc := range cases {
		a, b := u(tc.a), u(tc.b)

		down, err := MulDown(a, b)
		require.NoError(t, err)
		up, err := MulUp(a, b)
		require.NoError(t, err)
		require.False(t, up.Lt(down), "mulUp < mulDown for %s*%s", tc.a, tc.b)
		diff := new(uint256.Int).Sub(up, down)
		require.True(t, diff.LtUint64(2))

		if b.IsZero() {
			continue
		}
		dDown, err := DivDown(a, b)
		require.NoError(t, err)
		dUp, err := DivUp(a, b)
		require.NoError(t, err)
		require.False(t, dUp.Lt(dDown), "divUp < divDown for %s/%s", tc.a, tc.b)
	}
}

func TestKnownValues(t *testing.T) {
	got, err := MulDown(u("1"), u("1"))
	require.NoError(t, err)
	require.True(t, got.IsZero())

	got, err = MulUp(u("1"), u("1"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), got.Uint64())

	got, err = DivUp(u("1000"), u("1100"))
	require.NoError(t, err)
	require.Equal(t, "909090909090909091", got.Dec())

	got, err = DivDown(u("1000"), u("1100"))
	require.NoError(t, err)
	require.Equal(t, "909090909090909090", got.Dec())

	require.Equal(t, "90909090909090909", Complement(u("909090909090909091")).Dec())
	require.True(t, Complement(u("1000000000000000001")).IsZero())
}

func TestErrors(t *testing.T) {
	_, err := DivDown(One(), Zero())
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = DivUp(One(), Zero())
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = Sub(Zero(), One())
	require.ErrorIs(t, err, ErrUnderflow)

	_, err = Add(MaxUint256(), One())
	require.ErrorIs(t, err, ErrOverflow)

	_, err = MulDown(MaxUint256(), u("2"))
	require.ErrorIs(t, err, ErrOverflow)
}

func TestInputsNotMutated(t *testing.T) {
	a, b := u("5000000000000000000"), u("3000000000000000000")
	_, err := MulUp(a, b)
	require.NoError(t, err)
	_, err = DivUp(a, b)
	require.NoError(t, err)
	_, err = PowUp(a, u("500000000000000000"))
	require.NoError(t, err)
	require.Equal(t, "5000000000000000000", a.Dec())
	require.Equal(t, "3000000000000000000", b.Dec())
}

func TestPowShortcuts(t *testing.T) {
	x := u("1500000000000000000")

	got, err := PowUp(x, One())
	require.NoError(t, err)
	require.Equal(t, x.Dec(), got.Dec())

	got, err = PowDown(x, u("2000000000000000000"))
	require.NoError(t, err)
	require.Equal(t, "2250000000000000000", got.Dec())

	got, err = PowUp(x, u("4000000000000000000"))
	require.NoError(t, err)
	require.Equal(t, "5062500000000000000", got.Dec())
}

func TestPow(t *testing.T) {
	cases := []struct {
		name, x, y, want string
	}{
		{"sqrt two", "2000000000000000000", "500000000000000000", "1414213562373095047"},
		{"near one", "1050000000000000000", "500000000000000000", "1024695076595959837"},
		{"fractional base", "900000000000000000", "1500000000000000000", "853814968245462420"},
		{"cube", "3000000000000000000", "3000000000000000000", "26999999999999999966"},
		{"zero exponent", "123", "0", "1000000000000000000"},
		{"zero base", "0", "2500000000000000000", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Pow(u(tc.x), u(tc.y))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Dec())
		})
	}
}

func TestPowUpDownBracket(t *testing.T) {
	x, y := u("900000000000000000"), u("1500000000000000000")

	up, err := PowUp(x, y)
	require.NoError(t, err)
	down, err := PowDown(x, y)
	require.NoError(t, err)
	require.Equal(t, "853814968245470960", up.Dec())
	require.Equal(t, "853814968245453880", down.Dec())

	for _, base := range []string{"1000000000000000", "100000000000000000", "999999999999999999", "1000000000000000000"} {
		for _, exp := range []string{"300000000000000000", "1250000000000000000", "2500000000000000000"} {
			up, err := PowUp(u(base), u(exp))
			require.NoError(t, err)
			down, err := PowDown(u(base), u(exp))
			require.NoError(t, err)
			require.False(t, up.Lt(down), "powUp < powDown for %s^%s", base, exp)
		}
	}
}

func TestPowOutOfBounds(t *testing.T) {
	_, err := Pow(u("1000000000000000000000000000000000000000"), u("100000000000000000000"))
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = Pow(u("2"), new(uint256.Int).Lsh(uint256.NewInt(1), 250))
	require.ErrorIs(t, err, ErrOutOfBounds)
}
