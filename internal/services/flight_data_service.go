package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"infinite-experiment/flightvault/internal/common"
	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/logging"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/entities"
	"infinite-experiment/flightvault/internal/providers"
	"infinite-experiment/flightvault/internal/store"
)

// sharedCallTimeout bounds a deduplicated provider call when no provider timeout is configured
const sharedCallTimeout = 10 * time.Second

const (
	collectionSchedules = "flight_schedules"
	collectionDelays    = "flight_delays"
	collectionAirlines  = "airlines"
)

// FlightDataService answers flight questions from the document store and
// falls back to the provider on a miss, writing what it finds back.
// Provider failures never surface to callers: they degrade to a negative result.
type FlightDataService struct {
	store    store.DocumentStore
	provider providers.FlightDataProvider
	clock    common.Clock
	cfg      config.ProviderConfig
	demo     config.DemoConfig
	metrics  *metrics.MetricsRegistry

	group singleflight.Group
}

func NewFlightDataService(
	st store.DocumentStore,
	provider providers.FlightDataProvider,
	cfg *config.Config,
	clock common.Clock,
	m *metrics.MetricsRegistry,
) *FlightDataService {
	if clock == nil {
		clock = common.NewSystemClock()
	}
	pc := cfg.Provider
	if pc.DefaultAirport == "" {
		pc.DefaultAirport = "JFK"
	}
	if pc.MinDelayMinutes <= 0 {
		pc.MinDelayMinutes = constants.DefaultMinDelayMinutes
	}

	return &FlightDataService{
		store:    st,
		provider: provider,
		clock:    clock,
		cfg:      pc,
		demo:     cfg.Demo,
		metrics:  m,
	}
}

// VerifyFlight reports whether the flight operates on departureDate.
// Only missing input is an error.
func (s *FlightDataService) VerifyFlight(ctx context.Context, airlineIata, flightNumber, departureDate string) (bool, error) {
	id := ResolveFlightIdentity(airlineIata, flightNumber)
	date := NormalizeFlightDate(departureDate)
	if id.AirlineIata == "" || id.FlightNumber == "" || date == "" {
		return false, ErrMissingField
	}

	if s.isDemoFlight(id.FlightIata, date) {
		logging.Info("[FlightData] Demo flight automatically verified", "flight", id.FlightIata, "date", date)
		return true, nil
	}

	doc := s.store.Load(ctx)

	if rec, ok := doc.FlightSchedules[id.FlightIata]; ok {
		s.hit(collectionSchedules)
		verified := rec.DepartureDate() == date
		logging.Debug("[FlightData] Schedule found in cache", "flight", id.FlightIata, "cached_date", rec.DepartureDate(), "verified", verified)
		return verified, nil
	}
	if rec, ok := doc.FlightDelays[id.FlightIata]; ok {
		s.hit(collectionDelays)
		verified := rec.DepartureDate() == date
		logging.Debug("[FlightData] Delay record found in cache", "flight", id.FlightIata, "cached_date", rec.DepartureDate(), "verified", verified)
		return verified, nil
	}
	s.miss(collectionSchedules)

	_, found := s.lookupSchedule(ctx, id, date)
	if !found {
		logging.Info("[FlightData] Flight not found", "flight", id.FlightIata, "date", date)
	}
	return found, nil
}

// CheckFlightDelay returns the delay known for the flight on departureDate.
// Anything that cannot be determined comes back as an unknown delay.
func (s *FlightDataService) CheckFlightDelay(ctx context.Context, airlineIata, flightNumber, departureDate string) (entities.DelayResult, error) {
	id := ResolveFlightIdentity(airlineIata, flightNumber)
	date := NormalizeFlightDate(departureDate)
	if id.AirlineIata == "" || id.FlightNumber == "" || date == "" {
		return entities.UnknownDelay(), ErrMissingField
	}

	doc := s.store.Load(ctx)
	if rec, ok := doc.FlightDelays[id.FlightIata]; ok && rec.DepartureDate() == date {
		s.hit(collectionDelays)
		return rec.Result(), nil
	}
	s.miss(collectionDelays)

	if s.isDemoFlight(id.FlightIata, date) {
		rec := store.DemoSeed(s.demo).Delays[s.demo.FlightIata]
		rec.UpdatedAt = s.clock.Now()
		s.putDelay(ctx, id, rec)
		return rec.Result(), nil
	}

	v, err, _ := s.group.Do("delay:"+id.FlightIata+":"+date, func() (interface{}, error) {
		ctx, cancel := s.sharedContext(ctx)
		defer cancel()

		flights, err := s.provider.DelayByFlight(ctx, id.FlightIata, date, s.cfg.MinDelayMinutes)
		if err != nil {
			return nil, err
		}
		match := matchDelay(flights, id)
		if match == nil {
			return nil, nil
		}
		rec := delayFromProvider(*match, id, date, s.clock.Now())
		return s.putDelay(ctx, id, rec), nil
	})
	if err != nil {
		logging.Warn("[FlightData] Delay lookup failed", "flight", id.FlightIata, "date", date, "error", err.Error())
		return entities.UnknownDelay(), nil
	}

	rec, _ := v.(*entities.FlightDelayRecord)
	if rec == nil {
		return entities.UnknownDelay(), nil
	}
	return rec.Result(), nil
}

// GetFlightInfo returns the public view of a flight, or nil when nothing is known
func (s *FlightDataService) GetFlightInfo(ctx context.Context, flightIata string) (*entities.FlightInfo, error) {
	id := SplitFlightIata(flightIata)
	if id.FlightIata == "" {
		return nil, ErrMissingField
	}

	doc := s.store.Load(ctx)
	if rec, ok := doc.FlightSchedules[id.FlightIata]; ok {
		s.hit(collectionSchedules)
		info := flightInfoFromSchedule(id.FlightIata, &rec)
		if cached, ok := doc.Flights[id.FlightIata]; !ok || cached != info {
			s.mirrorInfo(ctx, id.FlightIata, info)
		}
		return &info, nil
	}
	s.miss(collectionSchedules)

	today := common.Today(s.clock)
	if rec, found := s.lookupSchedule(ctx, id, today); found {
		// re-read so a concurrent writer's version wins
		if cached, ok := s.store.Load(ctx).FlightSchedules[id.FlightIata]; ok {
			rec = &cached
		}
		info := flightInfoFromSchedule(id.FlightIata, rec)
		return &info, nil
	}

	if !s.cfg.DirectLookupFallback {
		return nil, nil
	}

	flights, err := s.provider.FlightByIata(ctx, id.FlightIata)
	if err != nil {
		logging.Warn("[FlightData] Direct flight lookup failed", "flight", id.FlightIata, "error", err.Error())
		return nil, nil
	}
	match := matchFlight(flights, id)
	if match == nil {
		return nil, nil
	}

	rec := ScheduleFromProvider(*match, today, s.clock.Now())
	if err := s.store.Update(ctx, func(doc *entities.Document) error {
		PutSchedule(doc, id.FlightIata, rec)
		return nil
	}); err != nil {
		logging.Error("[FlightData] Failed to cache flight", "flight", id.FlightIata, "error", err.Error())
	}
	info := flightInfoFromSchedule(id.FlightIata, &rec)
	return &info, nil
}

// GetAirlines serves the cached catalogue, fetching it once when empty.
// A provider failure yields an empty list.
func (s *FlightDataService) GetAirlines(ctx context.Context) ([]entities.Airline, error) {
	doc := s.store.Load(ctx)
	if len(doc.Airlines) > 0 {
		s.hit(collectionAirlines)
		return doc.Airlines, nil
	}
	s.miss(collectionAirlines)

	v, err, _ := s.group.Do("airlines", func() (interface{}, error) {
		ctx, cancel := s.sharedContext(ctx)
		defer cancel()
		return s.provider.ListAirlines(ctx)
	})
	if err != nil {
		logging.Error("[FlightData] Error fetching airlines", "error", err.Error())
		return []entities.Airline{}, nil
	}
	airlines, _ := v.([]entities.Airline)
	if len(airlines) == 0 {
		return []entities.Airline{}, nil
	}

	if err := s.store.Update(ctx, func(doc *entities.Document) error {
		doc.Airlines = airlines
		return nil
	}); err != nil {
		logging.Error("[FlightData] Failed to cache airlines", "error", err.Error())
	}
	logging.Info("[FlightData] Airlines cached", "count", len(airlines))
	return airlines, nil
}

// lookupSchedule searches the default airport's departures for the flight and
// caches a match under the requested identifier. Identical concurrent lookups
// share one provider call.
func (s *FlightDataService) lookupSchedule(ctx context.Context, id FlightIdentity, date string) (*entities.FlightScheduleRecord, bool) {
	v, err, _ := s.group.Do("schedule:"+id.FlightIata+":"+date, func() (interface{}, error) {
		ctx, cancel := s.sharedContext(ctx)
		defer cancel()

		flights, err := s.provider.ScheduleByAirport(ctx, s.cfg.DefaultAirport, date, constants.DefaultDirection)
		if err != nil {
			return nil, err
		}

		match := matchFlight(flights, id)
		if match == nil {
			return nil, nil
		}

		rec := ScheduleFromProvider(*match, date, s.clock.Now())
		if err := s.store.Update(ctx, func(doc *entities.Document) error {
			PutSchedule(doc, id.FlightIata, rec)
			return nil
		}); err != nil {
			logging.Error("[FlightData] Failed to cache schedule", "flight", id.FlightIata, "error", err.Error())
		}
		logging.Info("[FlightData] Flight found in schedule", "flight", id.FlightIata, "airport", s.cfg.DefaultAirport, "date", date)
		return &rec, nil
	})
	if err != nil {
		logging.Warn("[FlightData] Schedule lookup failed", "flight", id.FlightIata, "date", date, "error", err.Error())
		return nil, false
	}

	rec, _ := v.(*entities.FlightScheduleRecord)
	return rec, rec != nil
}

// putDelay merges the cached schedule of the same date into rec and stores it
func (s *FlightDataService) putDelay(ctx context.Context, id FlightIdentity, rec entities.FlightDelayRecord) *entities.FlightDelayRecord {
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		stored := rec
		// another day's schedule would move the record to that day
		if sched, ok := doc.FlightSchedules[id.FlightIata]; ok && sched.DepartureDate() == rec.DepartureDate() {
			mergeSchedule(&stored, &sched)
		}
		doc.FlightDelays[id.FlightIata] = stored
		return nil
	})
	if err != nil {
		logging.Error("[FlightData] Failed to cache delay", "flight", id.FlightIata, "error", err.Error())
	}
	return &rec
}

func (s *FlightDataService) mirrorInfo(ctx context.Context, flightIata string, info entities.FlightInfo) {
	err := s.store.Update(ctx, func(doc *entities.Document) error {
		doc.Flights[flightIata] = info
		return nil
	})
	if err != nil {
		logging.Error("[FlightData] Failed to cache flight info", "flight", flightIata, "error", err.Error())
	}
}

// sharedContext detaches a deduplicated call from the request that started it,
// bounded by the provider timeout. Every waiting caller gets the same result.
func (s *FlightDataService) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = sharedCallTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func (s *FlightDataService) isDemoFlight(flightIata, date string) bool {
	if !s.demo.Enabled || flightIata != s.demo.FlightIata {
		return false
	}
	return !s.demo.RequireDate || date == s.demo.Date
}

func (s *FlightDataService) hit(collection string) {
	if s.metrics != nil {
		s.metrics.CacheHitsTotal.WithLabelValues(collection).Inc()
	}
}

func (s *FlightDataService) miss(collection string) {
	if s.metrics != nil {
		s.metrics.CacheMissesTotal.WithLabelValues(collection).Inc()
	}
}
