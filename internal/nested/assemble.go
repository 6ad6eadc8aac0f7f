// Package nested orders the joins of a pool-of-pools so that the share
// token minted by a lower pool feeds the pool above it within one
// transaction.
package nested

import (
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"poolKit/internal/liquidity"
	"poolKit/internal/model"
)

// OutputReferenceBase offsets the output reference keys of assembled calls.
const OutputReferenceBase = 100

// Pool is one pool of a nested structure. Level 0 pools hold only base
// tokens; a pool at level k may hold share tokens of pools below k.
type Pool struct {
	ID     common.Hash
	Type   model.PoolType
	Level  int
	Tokens []model.PoolToken
}

// Address is the pool's share token address.
func (p Pool) Address() common.Address {
	return model.PoolAddressFromID(p.ID)
}

// State is the pool as a pool state, members ordered by their index.
func (p Pool) State() model.PoolState {
	tokens := sortedTokens(p.Tokens)
	plain := make([]model.Token, len(tokens))
	for i, t := range tokens {
		plain[i] = t.Token
	}
	var chainID uint64
	if len(plain) > 0 {
		chainID = plain[0].ChainID
	}
	return model.NewPoolState(chainID, p.ID, p.Type, plain)
}

func sortedTokens(tokens []model.PoolToken) []model.PoolToken {
	out := slices.Clone(tokens)
	slices.SortStableFunc(out, func(a, b model.PoolToken) int { return a.Index - b.Index })
	return out
}

// Amount is either a Literal or a Ref.
type Amount interface {
	isAmount()
}

// Literal is an amount known before the transaction runs.
type Literal struct {
	Value *uint256.Int
}

// Ref is the output of the earlier call with the given key.
type Ref struct {
	Key uint64
}

func (Literal) isAmount() {}
func (Ref) isAmount()     {}

// Call is one join step of the sequence.
type Call struct {
	PoolID   common.Hash
	PoolType model.PoolType
	Level    int
	// Tokens are sorted by their pool index; AmountsIn is aligned with them.
	Tokens             []model.PoolToken
	AmountsIn          []Amount
	OutputReferenceKey uint64
	MinBptOut          *uint256.Int
}

// Assemble returns one call per pool in non-decreasing level order. Inputs
// resolve to the caller's amount for that token, else a reference to the
// earlier call minting it, else zero. Malformed nesting is rejected.
func Assemble(pools []Pool, amountsIn []model.TokenAmount) ([]Call, error) {
	if err := validate(pools, amountsIn); err != nil {
		return nil, err
	}

	ordered := slices.Clone(pools)
	slices.SortStableFunc(ordered, func(a, b Pool) int { return a.Level - b.Level })

	calls := make([]Call, 0, len(ordered))
	minted := make(map[common.Address]uint64, len(ordered))
	for pos, p := range ordered {
		tokens := sortedTokens(p.Tokens)

		inputs := make([]Amount, len(tokens))
		for i, t := range tokens {
			inputs[i] = resolve(t.Address, amountsIn, minted)
		}

		key := uint64(OutputReferenceBase + pos)
		calls = append(calls, Call{
			PoolID:             p.ID,
			PoolType:           p.Type,
			Level:              p.Level,
			Tokens:             tokens,
			AmountsIn:          inputs,
			OutputReferenceKey: key,
			MinBptOut:          new(uint256.Int),
		})
		minted[p.Address()] = key
	}
	return calls, nil
}

func resolve(token common.Address, amountsIn []model.TokenAmount, minted map[common.Address]uint64) Amount {
	for _, a := range amountsIn {
		if a.Token.SameAddress(token) {
			return Literal{Value: a.Amount()}
		}
	}
	if key, ok := minted[token]; ok {
		return Ref{Key: key}
	}
	return Literal{Value: new(uint256.Int)}
}

func validate(pools []Pool, amountsIn []model.TokenAmount) error {
	if len(pools) == 0 {
		return nestedError(common.Hash{}, "no pools")
	}
	levels := make(map[common.Address]Pool, len(pools))
	for _, p := range pools {
		if p.Level < 0 {
			return nestedError(p.ID, fmt.Sprintf("negative level %d", p.Level))
		}
		if _, dup := levels[p.Address()]; dup {
			return nestedError(p.ID, "pool listed twice")
		}
		levels[p.Address()] = p
	}

	held := make(map[common.Address]struct{})
	for _, p := range pools {
		for _, t := range p.Tokens {
			held[t.Address] = struct{}{}
			if t.Address == p.Address() {
				continue
			}
			child, ok := levels[t.Address]
			if ok && child.Level >= p.Level {
				return nestedError(p.ID, fmt.Sprintf("holds share token of pool %s at level %d, not below its own level %d",
					child.ID.Hex(), child.Level, p.Level))
			}
		}
	}

	for _, a := range amountsIn {
		if _, ok := held[a.Token.Address]; !ok {
			return nestedError(common.Hash{}, fmt.Sprintf("token %s is not held by any pool", a.Token.Address.Hex()))
		}
	}

	for _, p := range pools {
		if err := validateStep(p); err != nil {
			return err
		}
	}
	return nil
}

// validateStep checks a pool accepts the unbalanced join every step is
// encoded as, with its non-share members as inputs.
func validateStep(p Pool) error {
	state := p.State()
	members := state.TokensWithoutBpt()
	amounts := make([]model.TokenAmount, 0, len(members))
	for _, t := range members {
		a, err := model.FromRawAmount(t.Token, new(uint256.Int))
		if err != nil {
			return nestedError(p.ID, err.Error())
		}
		amounts = append(amounts, a)
	}
	return liquidity.ValidateAdd(state, liquidity.AddUnbalanced{AmountsIn: amounts})
}

func nestedError(poolID common.Hash, reason string) error {
	return &liquidity.ValidationError{PoolID: poolID, Reason: "nested join: " + reason}
}
