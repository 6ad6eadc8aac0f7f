package vault

import (
	"github.com/holiman/uint256"
)

// chainedReferencePrefix marks a relayer amount as a storage slot key rather
// than a literal value.
const chainedReferencePrefix = 0xba10

// ChainedReference turns an output reference key into the value the relayer
// recognises as a reference.
func ChainedReference(key uint64) *uint256.Int {
	ref := new(uint256.Int).Lsh(uint256.NewInt(chainedReferencePrefix), 240)
	return ref.Or(ref, uint256.NewInt(key))
}

// IsChainedReference reports whether v carries the reference prefix.
func IsChainedReference(v *uint256.Int) bool {
	prefix := new(uint256.Int).Rsh(v, 240)
	return prefix.Eq(uint256.NewInt(chainedReferencePrefix))
}
