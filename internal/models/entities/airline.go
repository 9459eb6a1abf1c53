package entities

// Airline is cached wholesale from the provider's airline listing
type Airline struct {
	Name        string   `json:"name"`
	CountryCode string   `json:"country_code"`
	IataCode    string   `json:"iata_code"`
	IcaoCode    string   `json:"icao_code"`
	Callsign    string   `json:"callsign"`
	Website     string   `json:"website"`
	IsPassenger TriState `json:"is_passenger"`
	IsCargo     TriState `json:"is_cargo"`
}
