package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeNetworkError:  "Price source unreachable",
	CodeRPCDialFailed: "Failed to connect to RPC endpoint",
	CodeCircuitOpen:   "Circuit breaker is open",
	CodeFetchInFlight: "Previous fetch for this source is still in flight",

	CodeProtocolError:      "Unexpected response from price source",
	CodeContractCallFailed: "Contract call failed",
	CodeInvalidAnswer:      "Price feed returned an invalid answer",

	CodeNoLiquidity: "No liquidity for any stable asset",

	CodeChainNotFound:   "Chain not found in registry",
	CodeInvalidSettings: "Invalid arbitrage settings",
}
