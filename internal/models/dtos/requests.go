package dtos

// VerifyFlightRequest is the body of POST /api/verify-flight
type VerifyFlightRequest struct {
	AirlineIata   string `json:"airline_iata"`
	FlightNumber  string `json:"flight_number"`
	DepartureDate string `json:"departure_date"`
}

// UpdateFlightDataRequest is the body of POST /api/update-flight-data
type UpdateFlightDataRequest struct {
	FlightIata    string `json:"flight_iata"`
	DepartureDate string `json:"departure_date"`
}

// UpdateFlightDelayRequest is the body of POST /api/update-flight-delay
type UpdateFlightDelayRequest struct {
	FlightIata   string `json:"flight_iata"`
	DelayMinutes int    `json:"delay_minutes"`
	DepDelay     int    `json:"dep_delay"`
	ArrDelay     int    `json:"arr_delay"`
}
