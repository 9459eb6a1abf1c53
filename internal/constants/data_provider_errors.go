package constants

// Flight data provider error codes

// Credential and transport errors
const (
	ErrCodeInvalidAPIKey = "INVALID_API_KEY"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
)

// Payload errors
const (
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeProviderRejected  = "PROVIDER_REJECTED"
)

var DataProviderErrorMessages = map[string]string{
	ErrCodeInvalidAPIKey:     "The flight data API key is invalid or has been revoked",
	ErrCodeRateLimited:       "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:      "Unable to connect to the flight data provider",
	ErrCodeNotFound:          "The requested resource was not found at the provider",
	ErrCodeInvalidDataFormat: "The provider returned data in an unexpected format",
	ErrCodeProviderRejected:  "The provider reported an unsuccessful response",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := DataProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
