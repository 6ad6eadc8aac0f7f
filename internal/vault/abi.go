package vault

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const vaultABIJSON = `[
  {
    "inputs": [
      {"internalType": "bytes32", "name": "poolId", "type": "bytes32"},
      {"internalType": "address", "name": "sender", "type": "address"},
      {"internalType": "address", "name": "recipient", "type": "address"},
      {
        "components": [
          {"internalType": "address[]", "name": "assets", "type": "address[]"},
          {"internalType": "uint256[]", "name": "maxAmountsIn", "type": "uint256[]"},
          {"internalType": "bytes", "name": "userData", "type": "bytes"},
          {"internalType": "bool", "name": "fromInternalBalance", "type": "bool"}
        ],
        "internalType": "struct IVault.JoinPoolRequest", "name": "request", "type": "tuple"
      }
    ],
    "name": "joinPool",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "bytes32", "name": "poolId", "type": "bytes32"},
      {"internalType": "address", "name": "sender", "type": "address"},
      {"internalType": "address payable", "name": "recipient", "type": "address"},
      {
        "components": [
          {"internalType": "address[]", "name": "assets", "type": "address[]"},
          {"internalType": "uint256[]", "name": "minAmountsOut", "type": "uint256[]"},
          {"internalType": "bytes", "name": "userData", "type": "bytes"},
          {"internalType": "bool", "name": "toInternalBalance", "type": "bool"}
        ],
        "internalType": "struct IVault.ExitPoolRequest", "name": "request", "type": "tuple"
      }
    ],
    "name": "exitPool",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "bytes32", "name": "poolId", "type": "bytes32"}],
    "name": "getPoolTokens",
    "outputs": [
      {"internalType": "address[]", "name": "tokens", "type": "address[]"},
      {"internalType": "uint256[]", "name": "balances", "type": "uint256[]"},
      {"internalType": "uint256", "name": "lastChangeBlock", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

const helpersABIJSON = `[
  {
    "inputs": [
      {"internalType": "bytes32", "name": "poolId", "type": "bytes32"},
      {"internalType": "address", "name": "sender", "type": "address"},
      {"internalType": "address", "name": "recipient", "type": "address"},
      {
        "components": [
          {"internalType": "address[]", "name": "assets", "type": "address[]"},
          {"internalType": "uint256[]", "name": "maxAmountsIn", "type": "uint256[]"},
          {"internalType": "bytes", "name": "userData", "type": "bytes"},
          {"internalType": "bool", "name": "fromInternalBalance", "type": "bool"}
        ],
        "internalType": "struct IVault.JoinPoolRequest", "name": "request", "type": "tuple"
      }
    ],
    "name": "queryJoin",
    "outputs": [
      {"internalType": "uint256", "name": "bptOut", "type": "uint256"},
      {"internalType": "uint256[]", "name": "amountsIn", "type": "uint256[]"}
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "bytes32", "name": "poolId", "type": "bytes32"},
      {"internalType": "address", "name": "sender", "type": "address"},
      {"internalType": "address", "name": "recipient", "type": "address"},
      {
        "components": [
          {"internalType": "address[]", "name": "assets", "type": "address[]"},
          {"internalType": "uint256[]", "name": "minAmountsOut", "type": "uint256[]"},
          {"internalType": "bytes", "name": "userData", "type": "bytes"},
          {"internalType": "bool", "name": "toInternalBalance", "type": "bool"}
        ],
        "internalType": "struct IVault.ExitPoolRequest", "name": "request", "type": "tuple"
      }
    ],
    "name": "queryExit",
    "outputs": [
      {"internalType": "uint256", "name": "bptIn", "type": "uint256"},
      {"internalType": "uint256[]", "name": "amountsOut", "type": "uint256[]"}
    ],
    "stateMutability": "nonpayable",
    "type": "function"
  }
]`

const relayerABIJSON = `[
  {
    "inputs": [{"internalType": "bytes[]", "name": "data", "type": "bytes[]"}],
    "name": "multicall",
    "outputs": [{"internalType": "bytes[]", "name": "results", "type": "bytes[]"}],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "bytes32", "name": "poolId", "type": "bytes32"},
      {"internalType": "uint8", "name": "kind", "type": "uint8"},
      {"internalType": "address", "name": "sender", "type": "address"},
      {"internalType": "address", "name": "recipient", "type": "address"},
      {
        "components": [
          {"internalType": "address[]", "name": "assets", "type": "address[]"},
          {"internalType": "uint256[]", "name": "maxAmountsIn", "type": "uint256[]"},
          {"internalType": "bytes", "name": "userData", "type": "bytes"},
          {"internalType": "bool", "name": "fromInternalBalance", "type": "bool"}
        ],
        "internalType": "struct IVault.JoinPoolRequest", "name": "request", "type": "tuple"
      },
      {"internalType": "uint256", "name": "value", "type": "uint256"},
      {"internalType": "uint256", "name": "outputReference", "type": "uint256"}
    ],
    "name": "joinPool",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "relayer", "type": "address"},
      {"internalType": "bool", "name": "approved", "type": "bool"},
      {"internalType": "bytes", "name": "authorisation", "type": "bytes"}
    ],
    "name": "setRelayerApproval",
    "outputs": [],
    "stateMutability": "payable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "ref", "type": "uint256"}],
    "name": "peekChainedReferenceValue",
    "outputs": [{"internalType": "uint256", "name": "value", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

const poolABIJSON = `[
  {"inputs": [], "name": "getNormalizedWeights", "outputs": [{"internalType": "uint256[]", "name": "", "type": "uint256[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getSwapFeePercentage", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getActualSupply", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getMainIndex", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getWrappedIndex", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getTargets", "outputs": [{"internalType": "uint256", "name": "lowerTarget", "type": "uint256"}, {"internalType": "uint256", "name": "upperTarget", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getWrappedTokenRate", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "getVirtualSupply", "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const erc20ABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"}
]`

type lazyABI struct {
	json   string
	once   sync.Once
	parsed abi.ABI
	err    error
}

func (l *lazyABI) get() (abi.ABI, error) {
	l.once.Do(func() {
		l.parsed, l.err = abi.JSON(strings.NewReader(l.json))
	})
	return l.parsed, l.err
}

var (
	vaultABI   = &lazyABI{json: vaultABIJSON}
	helpersABI = &lazyABI{json: helpersABIJSON}
	relayerABI = &lazyABI{json: relayerABIJSON}
	poolABI    = &lazyABI{json: poolABIJSON}
	erc20ABI   = &lazyABI{json: erc20ABIJSON}
)

// VaultABI returns the parsed Vault ABI subset.
func VaultABI() (abi.ABI, error) { return vaultABI.get() }

// HelpersABI returns the parsed BalancerHelpers ABI.
func HelpersABI() (abi.ABI, error) { return helpersABI.get() }

// RelayerABI returns the parsed batch relayer ABI subset.
func RelayerABI() (abi.ABI, error) { return relayerABI.get() }

// PoolABI returns the pool getters used to snapshot pools.
func PoolABI() (abi.ABI, error) { return poolABI.get() }

// ERC20ABI returns the token getters used for metadata.
func ERC20ABI() (abi.ABI, error) { return erc20ABI.get() }
