package constants

type (
	APIStatus   string
	DelayStatus string
	StoreKey    string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	DelayStatusScheduled DelayStatus = "scheduled"
	DelayStatusDelayed   DelayStatus = "delayed"
	DelayStatusUnknown   DelayStatus = "unknown"
	DelayStatusError     DelayStatus = "error"

	StoreKeyDocument StoreKey = "FLIGHTVAULT_DOCUMENT"
)

const (
	MsgFlightVerified     = "✅ Flight Verified"
	MsgFlightNotFound     = "❌ Flight Not Found"
	MsgMissingFields      = "❌ Missing required fields"
	MsgMissingParams      = "❌ Missing required parameters"
	MsgMissingFlightIata  = "❌ Missing flight IATA code"
	MsgNoAirlines         = "No airlines found"
	MsgFetchAllCompleted  = "✅ Successfully fetched and stored all flight data"
	MsgScheduleUpdated    = "✅ Flight schedule updated"
	MsgDelayUpdated       = "✅ Flight delay updated"
	MsgScheduleNotCached  = "❌ Flight schedule not found in cache"
	MsgInvalidRequestBody = "❌ Invalid request body"
)

// Provider query defaults
const (
	DefaultDirection       = "departure"
	DefaultMinDelayMinutes = 120
	ProviderTimeLayout     = "2006-01-02 15:04"
	DateLayout             = "2006-01-02"
)
