package pool

import (
	"github.com/holiman/uint256"

	"poolKit/internal/fixed"
)

// LinearParams configures the nominal-balance fee model of a linear pool.
// Balances between the targets are fee free; outside them every unit moved
// is charged Fee.
type LinearParams struct {
	Fee         *uint256.Int
	LowerTarget *uint256.Int
	UpperTarget *uint256.Int
}

func (c *calc) toNominal(real *uint256.Int, p LinearParams) *uint256.Int {
	switch {
	case real.Lt(p.LowerTarget):
		fees := c.mulDown(c.sub(p.LowerTarget, real), p.Fee)
		return c.sub(real, fees)
	case !real.Gt(p.UpperTarget):
		return real.Clone()
	default:
		fees := c.mulDown(c.sub(real, p.UpperTarget), p.Fee)
		return c.sub(real, fees)
	}
}

func (c *calc) fromNominal(nominal *uint256.Int, p LinearParams) *uint256.Int {
	switch {
	case nominal.Lt(p.LowerTarget):
		num := c.add(nominal, c.mulDown(p.Fee, p.LowerTarget))
		return c.divDown(num, c.add(fixed.One(), p.Fee))
	case !nominal.Gt(p.UpperTarget):
		return nominal.Clone()
	default:
		num := c.sub(nominal, c.mulDown(p.Fee, p.UpperTarget))
		return c.divDown(num, c.sub(fixed.One(), p.Fee))
	}
}

// LinearInvariant is the nominal main balance plus the wrapped balance.
func LinearInvariant(mainBalance, wrappedBalance *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	return c.result(c.add(c.toNominal(mainBalance, p), wrappedBalance))
}

// Given-in conversions. Balances and amounts are 18-decimal with the wrapped
// side already expressed in main-token terms; bptSupply is the minted supply.

func WrappedOutPerMainIn(mainIn, mainBalance *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	previous := c.toNominal(mainBalance, p)
	after := c.toNominal(c.add(mainBalance, mainIn), p)
	return c.result(c.sub(after, previous))
}

func MainOutPerWrappedIn(wrappedIn, mainBalance *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	previous := c.toNominal(mainBalance, p)
	after := c.sub(previous, wrappedIn)
	newMain := c.fromNominal(after, p)
	return c.result(c.sub(mainBalance, newMain))
}

func BptOutPerMainIn(mainIn, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	if bptSupply.IsZero() {
		return c.result(c.toNominal(mainIn, p))
	}
	previous := c.toNominal(mainBalance, p)
	after := c.toNominal(c.add(mainBalance, mainIn), p)
	delta := c.sub(after, previous)
	invariant := c.add(previous, wrappedBalance)
	return c.result(c.divDown(c.mulDown(bptSupply, delta), invariant))
}

func BptOutPerWrappedIn(wrappedIn, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	if bptSupply.IsZero() {
		return wrappedIn.Clone(), nil
	}
	var c calc
	nominalMain := c.toNominal(mainBalance, p)
	previousInvariant := c.add(nominalMain, wrappedBalance)
	newInvariant := c.add(nominalMain, c.add(wrappedBalance, wrappedIn))
	newBpt := c.divDown(c.mulDown(bptSupply, newInvariant), previousInvariant)
	return c.result(c.sub(newBpt, bptSupply))
}

func MainOutPerBptIn(bptIn, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	previous := c.toNominal(mainBalance, p)
	invariant := c.add(previous, wrappedBalance)
	delta := c.divDown(c.mulDown(invariant, bptIn), bptSupply)
	newMain := c.fromNominal(c.sub(previous, delta), p)
	return c.result(c.sub(mainBalance, newMain))
}

func WrappedOutPerBptIn(bptIn, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	nominalMain := c.toNominal(mainBalance, p)
	previousInvariant := c.add(nominalMain, wrappedBalance)
	newBpt := c.sub(bptSupply, bptIn)
	newWrapped := c.sub(c.divUp(c.mulUp(newBpt, previousInvariant), bptSupply), nominalMain)
	return c.result(c.sub(wrappedBalance, newWrapped))
}

// Given-out conversions.

func MainInPerWrappedOut(wrappedOut, mainBalance *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	previous := c.toNominal(mainBalance, p)
	newMain := c.fromNominal(c.add(previous, wrappedOut), p)
	return c.result(c.sub(newMain, mainBalance))
}

func WrappedInPerMainOut(mainOut, mainBalance *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	previous := c.toNominal(mainBalance, p)
	after := c.toNominal(c.sub(mainBalance, mainOut), p)
	return c.result(c.sub(previous, after))
}

func MainInPerBptOut(bptOut, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	if bptSupply.IsZero() {
		return c.result(c.fromNominal(bptOut, p))
	}
	previous := c.toNominal(mainBalance, p)
	invariant := c.add(previous, wrappedBalance)
	delta := c.divUp(c.mulUp(invariant, bptOut), bptSupply)
	newMain := c.fromNominal(c.add(previous, delta), p)
	return c.result(c.sub(newMain, mainBalance))
}

func BptInPerMainOut(mainOut, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	previous := c.toNominal(mainBalance, p)
	after := c.toNominal(c.sub(mainBalance, mainOut), p)
	delta := c.sub(previous, after)
	invariant := c.add(previous, wrappedBalance)
	return c.result(c.divUp(c.mulUp(bptSupply, delta), invariant))
}

func WrappedInPerBptOut(bptOut, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	if bptSupply.IsZero() {
		return bptOut.Clone(), nil
	}
	var c calc
	nominalMain := c.toNominal(mainBalance, p)
	previousInvariant := c.add(nominalMain, wrappedBalance)
	newBpt := c.add(bptSupply, bptOut)
	newWrapped := c.sub(c.divUp(c.mulUp(newBpt, previousInvariant), bptSupply), nominalMain)
	return c.result(c.sub(newWrapped, wrappedBalance))
}

func BptInPerWrappedOut(wrappedOut, mainBalance, wrappedBalance, bptSupply *uint256.Int, p LinearParams) (*uint256.Int, error) {
	var c calc
	nominalMain := c.toNominal(mainBalance, p)
	previousInvariant := c.add(nominalMain, wrappedBalance)
	newInvariant := c.add(nominalMain, c.sub(wrappedBalance, wrappedOut))
	newBpt := c.divDown(c.mulDown(bptSupply, newInvariant), previousInvariant)
	return c.result(c.sub(bptSupply, newBpt))
}
