package entities

// Document is the whole persisted cache. It is always loaded and saved as one unit.
type Document struct {
	Airlines        []Airline                       `json:"airlines"`
	Flights         map[string]FlightInfo           `json:"flights"`
	FlightDelays    map[string]FlightDelayRecord    `json:"flightDelays"`
	FlightSchedules map[string]FlightScheduleRecord `json:"flightSchedules"`
}

func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize makes sure all four collections exist
func (d *Document) Normalize() {
	if d.Airlines == nil {
		d.Airlines = []Airline{}
	}
	if d.Flights == nil {
		d.Flights = map[string]FlightInfo{}
	}
	if d.FlightDelays == nil {
		d.FlightDelays = map[string]FlightDelayRecord{}
	}
	if d.FlightSchedules == nil {
		d.FlightSchedules = map[string]FlightScheduleRecord{}
	}
}

type DocumentStats struct {
	Airlines        int `json:"airlines"`
	Flights         int `json:"flights"`
	FlightDelays    int `json:"flight_delays"`
	FlightSchedules int `json:"flight_schedules"`
}

func (d *Document) Stats() DocumentStats {
	return DocumentStats{
		Airlines:        len(d.Airlines),
		Flights:         len(d.Flights),
		FlightDelays:    len(d.FlightDelays),
		FlightSchedules: len(d.FlightSchedules),
	}
}
