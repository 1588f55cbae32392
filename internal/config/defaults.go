package config

// Default feed pair quoted by every chain's aggregator.
const defaultFeedPair = "BNB/USD"

// StablePriority is the order in which DEX quotes fall back across stables.
var StablePriority = []string{"usdt", "usdc", "busd", "dai"}

// DefaultChains returns the monitored chains with their public RPC endpoint and
// BNB/USD aggregator address.
func DefaultChains() []ChainConfig {
	return []ChainConfig{
		{ID: "arbitrum", Name: "Arbitrum", ChainID: 42161, RPCURL: "https://arb1.arbitrum.io/rpc", FeedAddress: "0x6970460aabF80C5BE983C6b74e5D06dEDCA95D4A", FeedPair: defaultFeedPair},
		{ID: "avalanche", Name: "Avalanche", ChainID: 43114, RPCURL: "https://api.avax.network/ext/bc/C/rpc", FeedAddress: "0xBb92195Ec95DE626346eeC8282D53e261dF95241", FeedPair: defaultFeedPair},
		{ID: "base", Name: "Base", ChainID: 8453, RPCURL: "https://mainnet.base.org", FeedAddress: "0x4b7836916781CAAfbb7Bd1E5FDd20ED544B453b1", FeedPair: defaultFeedPair},
		{ID: "bnb", Name: "BNB Chain", ChainID: 56, RPCURL: "https://bsc-dataseed.binance.org", FeedAddress: "0x0567F2323251f0Aab15c8dFb1967E4e8A7D42aeE", FeedPair: defaultFeedPair},
		{ID: "ethereum", Name: "Ethereum", ChainID: 1, RPCURL: "https://ethereum-rpc.publicnode.com", FeedAddress: "0x14e613AC84a31f709eadbdF89C6CC390fDc9540A", FeedPair: defaultFeedPair},
		{ID: "fantom", Name: "Fantom Opera", ChainID: 250, RPCURL: "https://rpcapi.fantom.network", FeedAddress: "0x6dE70f4791C4151E00aD02e969bD900DC961f92a", FeedPair: defaultFeedPair},
		{ID: "gnosis", Name: "Gnosis Chain", ChainID: 100, RPCURL: "https://rpc.gnosischain.com", FeedAddress: "0x6D42cc26756C34F26BEcDD9b30a279cE9Ea8296E", FeedPair: defaultFeedPair},
		{ID: "moonbeam", Name: "Moonbeam", ChainID: 1284, RPCURL: "https://rpc.api.moonbeam.network", FeedAddress: "0x0147f2Ad7F1e2Bc51F998CC128a8355d5AE8C32D", FeedPair: defaultFeedPair},
		{ID: "moonriver", Name: "Moonriver", ChainID: 1285, RPCURL: "https://rpc.api.moonriver.moonbeam.network", FeedAddress: "0xD6B013A65C22C372F995864CcdAE202D0194f9bf", FeedPair: defaultFeedPair},
		{ID: "optimism", Name: "OP Mainnet", ChainID: 10, RPCURL: "https://mainnet.optimism.io", FeedAddress: "0xD38579f7cBD14c22cF1997575eA8eF7bfe62ca2c", FeedPair: defaultFeedPair},
		{ID: "polygon", Name: "Polygon", ChainID: 137, RPCURL: "https://polygon-rpc.com", FeedAddress: "0x82a6c4AF830caa6c97bb504425f6A66165C2c26e", FeedPair: defaultFeedPair},
		{ID: "scroll", Name: "Scroll", ChainID: 534352, RPCURL: "https://rpc.scroll.io", FeedAddress: "0x1AC823FdC79c30b1aB1787FF5e5766D6f29235E1", FeedPair: defaultFeedPair},
	}
}

// DefaultDEXes returns the UniswapV2-family routers per chain. Stables are listed in
// StablePriority order, limited to the ones deployed on the chain.
func DefaultDEXes() []DEXChainConfig {
	return []DEXChainConfig{
		{
			Chain:     "arbitrum",
			Pair:      "WETH/USD",
			Reference: TokenConfig{Symbol: "WETH", Address: "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", Decimals: 18},
			Stables: []TokenConfig{
				{Symbol: "usdt", Address: "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9", Decimals: 6},
				{Symbol: "usdc", Address: "0xaf88d065e77c8cC2239327C5EDb3A432268e5831", Decimals: 6},
				{Symbol: "dai", Address: "0xDA10009cBd5D07dd0CeCc66161FC93D7c9000da1", Decimals: 18},
			},
			Routers: []RouterConfig{
				{Name: "sushiswap", Family: FamilyUniswapV2, Address: "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"},
				{Name: "camelot", Family: FamilyUniswapV2, Address: "0xc873fEcbd354f5A56E00E710B90EF4201db2448d"},
			},
		},
		{
			Chain:     "avalanche",
			Pair:      "WAVAX/USD",
			Reference: TokenConfig{Symbol: "WAVAX", Address: "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", Decimals: 18},
			Stables: []TokenConfig{
				{Symbol: "usdt", Address: "0x9702230A8Ea53601f5cD2dc00fDBc13d4dF4a8c7", Decimals: 6},
				{Symbol: "usdc", Address: "0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E", Decimals: 6},
				{Symbol: "dai", Address: "0xd586E7F844cEa2F87f50152665BCbc2C279D8d70", Decimals: 18},
			},
			Routers: []RouterConfig{
				{Name: "traderjoe", Family: FamilyUniswapV2, Address: "0x60aE616a2155Ee3d9A68541Ba4544862310933d4"},
				{Name: "pangolin", Family: FamilyUniswapV2, Address: "0xE54Ca86531e17Ef3616d22Ca28b0D458b6C89106"},
				{Name: "sushiswap", Family: FamilyUniswapV2, Address: "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"},
			},
		},
		{
			Chain:     "bnb",
			Pair:      "BNB/USD",
			Reference: TokenConfig{Symbol: "WBNB", Address: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", Decimals: 18},
			Stables: []TokenConfig{
				{Symbol: "usdt", Address: "0x55d398326f99059fF775485246999027B3197955", Decimals: 18},
				{Symbol: "usdc", Address: "0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d", Decimals: 18},
				{Symbol: "busd", Address: "0xe9e7CEA3DedcA5984780Bafc599bD69ADd087D56", Decimals: 18},
			},
			Routers: []RouterConfig{
				{Name: "pancakeswap", Family: FamilyUniswapV2, Address: "0x10ED43C718714eb63d5aA57B78B54704E256024E"},
				{Name: "apeswap", Family: FamilyUniswapV2, Address: "0xcF0feBd3f17CEf5b47b0cD257aCf6025c5BFf3b7"},
				{Name: "sushiswap", Family: FamilyUniswapV2, Address: "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506"},
			},
		},
		{
			Chain:     "ethereum",
			Pair:      "BNB/USD",
			Reference: TokenConfig{Symbol: "BNB", Address: "0x418D75f65a02b3D53B2418FB8E1fe493759c7605", Decimals: 18},
			Stables: []TokenConfig{
				{Symbol: "usdt", Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
				{Symbol: "usdc", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
			},
			Routers: []RouterConfig{
				{Name: "uniswap", Family: FamilyUniswapV2, Address: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"},
				{Name: "sushiswap", Family: FamilyUniswapV2, Address: "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"},
			},
		},
	}
}
