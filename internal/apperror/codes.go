package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Price source error codes. Each maps onto one fetch error kind.
const (
	// Transport: REST endpoint or RPC node unreachable.
	CodeNetworkError  Code = "NETWORK_ERROR"
	CodeRPCDialFailed Code = "RPC_DIAL_FAILED"
	CodeCircuitOpen   Code = "CIRCUIT_OPEN"
	CodeFetchInFlight Code = "FETCH_IN_FLIGHT"

	// Protocol: response arrived but is malformed or unexpected.
	CodeProtocolError      Code = "PROTOCOL_ERROR"
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"
	CodeInvalidAnswer      Code = "INVALID_ANSWER"

	// Liquidity: every stable in the fallback list failed to quote.
	CodeNoLiquidity Code = "NO_LIQUIDITY"
)

// Registry and arbitrage error codes
const (
	CodeChainNotFound   Code = "CHAIN_NOT_FOUND"
	CodeInvalidSettings Code = "INVALID_SETTINGS"
)
