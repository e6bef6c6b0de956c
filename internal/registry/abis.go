package registry

// ABI fragments used by the gateway and adapter calldata builders.
const (
	ERC20MinimalABI = `[
		{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
	]`

	// The router's generic entry point consumes the raw DSL string on-chain;
	// native-ether operands carry the amount as msg.value. Swaps go through
	// the explicit swap function so a minimum output can be enforced.
	RouterABI = `[
		{"name":"command","type":"function","stateMutability":"payable","inputs":[{"name":"intent","type":"string"}],"outputs":[]},
		{"name":"send","type":"function","stateMutability":"payable","inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"},{"name":"to","type":"address"}],"outputs":[]},
		{"name":"swap","type":"function","stateMutability":"payable","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"minAmountOut","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"getExpectedOutput","type":"function","stateMutability":"view","inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}
	]`

	LendingABI = `[
		{"name":"deposit","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"onBehalfOf","type":"address"}],"outputs":[]},
		{"name":"borrow","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"interestRateMode","type":"uint256"},{"name":"onBehalfOf","type":"address"}],"outputs":[]},
		{"name":"repay","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"interestRateMode","type":"uint256"},{"name":"onBehalfOf","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"withdraw","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"to","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
	]`

	TradingEngineABI = `[
		{"name":"buyToken","type":"function","stateMutability":"nonpayable","inputs":[{"name":"tokenSymbol","type":"string"},{"name":"amountIn","type":"uint256"},{"name":"minAmountOut","type":"uint256"}],"outputs":[]},
		{"name":"sellToken","type":"function","stateMutability":"nonpayable","inputs":[{"name":"tokenSymbol","type":"string"},{"name":"amountIn","type":"uint256"},{"name":"minAmountOut","type":"uint256"}],"outputs":[]},
		{"name":"getExpectedOutput","type":"function","stateMutability":"view","inputs":[{"name":"tokenSymbol","type":"string"},{"name":"amountIn","type":"uint256"},{"name":"isBuy","type":"bool"}],"outputs":[{"name":"","type":"uint256"}]},
		{"name":"getTokenAddress","type":"function","stateMutability":"view","inputs":[{"name":"symbol","type":"string"}],"outputs":[{"name":"","type":"address"}]}
	]`
)
