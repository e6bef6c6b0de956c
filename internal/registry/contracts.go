package registry

// Deployed adapter contracts the orchestrator routes intents to. The router
// handles plain sends and swaps, the lending adapter fronts the Aave pool, and
// the trading engine is the USDC-quoted buy/sell venue.
const (
	RouterContract        = "0xa7E99C1df635d13d61F7c81eCe571cc952E64526"
	LendingContract       = "0x244dE6b06E7087110b94Cde88A42d9aBA17efa52"
	TradingEngineContract = "0xfE435387201D3327983d19293B60C1C014E61650"
)
