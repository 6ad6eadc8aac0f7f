package pool

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"poolKit/internal/fixed"
	"poolKit/internal/model"
)

var (
	linearMain    = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	linearWrapped = common.HexToAddress("0x02d60b84491589974263d922D9cC7a3152618Ef6")
	linearID      = common.HexToHash("0x804cdb9116a10bb78768d3252355a1b18067bf8f0000000000000000000000fb")
)

func linearParams() LinearParams {
	return LinearParams{
		Fee:         u("10000000000000000"),
		LowerTarget: e18("100"),
		UpperTarget: e18("1000"),
	}
}

func linearFixture(t *testing.T) *LinearPool {
	t.Helper()
	bpt := model.PoolAddressFromID(linearID)
	// vault order: wrapped, main, bpt (ascending address)
	state := model.NewPoolState(1, linearID, model.PoolTypeLinear, []model.Token{
		{ChainID: 1, Address: linearWrapped, Decimals: 18},
		{ChainID: 1, Address: linearMain, Decimals: 18},
		{ChainID: 1, Address: bpt, Decimals: 18},
	})
	p, err := NewLinearPool(state, 1, 0, e18("950"), e18("300"), e18("820"), linearParams(), u("1100000000000000000"))
	require.NoError(t, err)
	return p
}

func TestLinearNominalFee(t *testing.T) {
	p := linearParams()
	got, err := WrappedOutPerMainIn(e18("100"), e18("950"), p)
	require.NoError(t, err)
	// 50 of the 100 crosses the upper target and pays 1%
	require.Equal(t, "99500000000000000000", got.Dec())

	inv, err := LinearInvariant(e18("950"), e18("330"), p)
	require.NoError(t, err)
	require.Equal(t, "1280000000000000000000", inv.Dec())
}

func TestLinearFromNominalInvertsToNominal(t *testing.T) {
	p := linearParams()
	for _, v := range []string{"50", "100", "500", "1000", "1500"} {
		var c calc
		real := e18(v)
		back := c.fromNominal(c.toNominal(real, p), p)
		require.NoError(t, c.err)
		diff := new(uint256.Int)
		if back.Gt(real) {
			diff.Sub(back, real)
		} else {
			diff.Sub(real, back)
		}
		require.True(t, diff.LtUint64(2), "%s -> %s", real.Dec(), back.Dec())
	}
}

func TestLinearSwapGivenIn(t *testing.T) {
	pool := linearFixture(t)
	bpt := pool.State.Address

	cases := []struct {
		name         string
		tokenIn, out common.Address
		amount, want string
	}{
		{"main for wrapped", linearMain, linearWrapped, "100000000000000000000", "90454545454545454545"},
		{"main for bpt", linearMain, bpt, "100000000000000000000", "63742187500000000000"},
		{"wrapped for main", linearWrapped, linearMain, "50000000000000000000", "55000000000000000000"},
		{"wrapped for bpt", linearWrapped, bpt, "20000000000000000000", "14093750000000000000"},
		{"bpt for main", bpt, linearMain, "10000000000000000000", "15609756097560975609"},
		{"bpt for wrapped", bpt, linearWrapped, "10000000000000000000", "14190687361419068735"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pool.SwapGivenIn(tc.tokenIn, tc.out, u(tc.amount))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Dec())
		})
	}
}

func TestLinearSwapGivenOut(t *testing.T) {
	pool := linearFixture(t)
	bpt := pool.State.Address

	cases := []struct {
		name         string
		tokenIn, out common.Address
		amount, want string
	}{
		{"main for wrapped", linearMain, linearWrapped, "50000000000000000000", "55050505050505050505"},
		{"wrapped for main", linearWrapped, linearMain, "100000000000000000000", "90909090909090909091"},
		{"main for bpt", linearMain, bpt, "10000000000000000000", "15609756097560975610"},
		{"bpt for main", bpt, linearMain, "100000000000000000000", "64062500000000000000"},
		{"wrapped for bpt", linearWrapped, bpt, "10000000000000000000", "14190687361419068737"},
		{"bpt for wrapped", bpt, linearWrapped, "20000000000000000000", "14093750000000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := pool.SwapGivenOut(tc.tokenIn, tc.out, u(tc.amount))
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Dec())
		})
	}
}

func TestLinearRoundTripFavoursPool(t *testing.T) {
	pool := linearFixture(t)
	x := e18("50")
	wrappedOut, err := pool.SwapGivenIn(linearMain, linearWrapped, x)
	require.NoError(t, err)
	mainIn, err := pool.SwapGivenOut(linearMain, linearWrapped, wrappedOut)
	require.NoError(t, err)
	require.False(t, mainIn.Gt(x), "%s > %s", mainIn.Dec(), x.Dec())
}

func TestLinearLimitCheckedBeforeMath(t *testing.T) {
	pool := linearFixture(t)

	limit, err := pool.LimitAmountSwap(linearMain, linearWrapped, GivenIn)
	require.NoError(t, err)
	require.Equal(t, "285000000000000000000", limit.Dec())

	_, err = pool.SwapGivenIn(linearMain, linearWrapped, e18("286"))
	var re *RangeError
	require.ErrorAs(t, err, &re)
	require.Equal(t, SideIn, re.Side)

	_, err = pool.SwapGivenOut(linearMain, linearWrapped, e18("91"))
	require.ErrorAs(t, err, &re)
	require.Equal(t, SideOut, re.Side)
}

func TestLinearVirtualBptBalance(t *testing.T) {
	pool := linearFixture(t)
	virtual := pool.VirtualBptBalance()
	sum := new(uint256.Int).Add(virtual, pool.BptSupply)
	require.True(t, sum.Eq(fixed.MaxUint256()))

	// the share-token cap is taken on the virtual balance and must not overflow
	limit, err := pool.LimitAmountSwap(pool.State.Address, linearMain, GivenIn)
	require.NoError(t, err)
	require.True(t, limit.Gt(e18("1000000000")))

	// minting shrinks the virtual balance
	pool.BptSupply = e18("900")
	require.True(t, pool.VirtualBptBalance().Lt(virtual))
}

func TestLinearZeroSupply(t *testing.T) {
	p := linearParams()
	got, err := BptOutPerMainIn(e18("50"), e18("50"), u("0"), u("0"), p)
	require.NoError(t, err)
	require.Equal(t, "49500000000000000000", got.Dec())

	got, err = BptOutPerWrappedIn(e18("7"), e18("50"), u("0"), u("0"), p)
	require.NoError(t, err)
	require.Equal(t, e18("7").Dec(), got.Dec())
}

func TestLinearRejectsSelfSwapAndUnknown(t *testing.T) {
	pool := linearFixture(t)
	_, err := pool.SwapGivenIn(linearMain, linearMain, e18("1"))
	require.Error(t, err)
	_, err = pool.SwapGivenIn(common.HexToAddress("0x01"), linearMain, e18("1"))
	require.ErrorIs(t, err, ErrUnknownToken)
}
