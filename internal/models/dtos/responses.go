package dtos

import "infinite-experiment/flightvault/internal/models/entities"

type ErrorResponse struct {
	Error string `json:"error"`
}

type VerifyFlightResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type FlightDelayResponse struct {
	Success      bool   `json:"success"`
	Flight       string `json:"flight"`
	Delayed      bool   `json:"delayed"`
	DelayMinutes int    `json:"delay_minutes"`
	Status       string `json:"status"`
}

type FetchAllResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Report  *WarmupReport `json:"report,omitempty"`
}

// WarmupReport summarizes a full fetch of airlines, schedules and sample delays
type WarmupReport struct {
	Airlines        int      `json:"airlines"`
	SchedulesStored int      `json:"schedules_stored"`
	FailedAirports  []string `json:"failed_airports"`
	DelaysChecked   int      `json:"delays_checked"`
	ResponseTime    string   `json:"response_time"`
}

type UpdateScheduleResponse struct {
	Success  bool                           `json:"success"`
	Message  string                         `json:"message"`
	Schedule *entities.FlightScheduleRecord `json:"schedule,omitempty"`
}

type UpdateDelayResponse struct {
	Success bool                        `json:"success"`
	Message string                      `json:"message"`
	Delay   *entities.FlightDelayRecord `json:"delay,omitempty"`
}

type DebugResponse struct {
	Status       string                 `json:"status"`
	StoreDriver  string                 `json:"store_driver"`
	Collections  entities.DocumentStats `json:"collections"`
	HubAirports  []string               `json:"hub_airports"`
	DemoFlight   string                 `json:"demo_flight,omitempty"`
	ResponseTime string                 `json:"response_time"`
}
