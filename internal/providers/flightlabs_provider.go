package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"infinite-experiment/flightvault/internal/config"
	"infinite-experiment/flightvault/internal/constants"
	"infinite-experiment/flightvault/internal/metrics"
	"infinite-experiment/flightvault/internal/models/dtos"
	"infinite-experiment/flightvault/internal/models/entities"
)

const maxResponseBytes = 16 << 20

// FlightLabsProvider implements FlightDataProvider over the FlightLabs HTTP API
type FlightLabsProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	limiter *rate.Limiter
	metrics *metrics.MetricsRegistry
}

// Ensure FlightLabsProvider implements FlightDataProvider
var _ FlightDataProvider = (*FlightLabsProvider)(nil)

// NewFlightLabsProvider creates a provider client from configuration.
// Calls are not retried; the client timeout bounds every request.
func NewFlightLabsProvider(cfg config.ProviderConfig, m *metrics.MetricsRegistry) *FlightLabsProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &FlightLabsProvider{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:  cfg.APIToken,
		Client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		metrics: m,
	}
}

// GetProviderType returns the provider type identifier
func (p *FlightLabsProvider) GetProviderType() string {
	return "flightlabs"
}

// ============================================================================
// Endpoints
// ============================================================================

// ListAirlines fetches the airline catalogue
func (p *FlightLabsProvider) ListAirlines(ctx context.Context) ([]entities.Airline, error) {
	body, err := p.doGET(ctx, "airlines", "/airlines", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[entities.Airline](body)
}

// ScheduleByAirport fetches an airport's schedule for a date
func (p *FlightLabsProvider) ScheduleByAirport(ctx context.Context, iataCode, date, direction string) ([]dtos.ProviderFlight, error) {
	if iataCode == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "airport IATA code cannot be empty",
		}
	}
	if direction == "" {
		direction = constants.DefaultDirection
	}

	params := url.Values{}
	params.Set("iataCode", iataCode)
	params.Set("type", direction)
	if date != "" {
		params.Set("flight_date", date)
	}

	body, err := p.doGET(ctx, "flight_schedules", "/flight-schedules", params)
	if err != nil {
		return nil, err
	}
	return decodeList[dtos.ProviderFlight](body)
}

// DelayByFlight fetches delay records for a flight
func (p *FlightLabsProvider) DelayByFlight(ctx context.Context, flightIata, date string, minDelayMinutes int) ([]dtos.ProviderFlight, error) {
	if flightIata == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "flight IATA code cannot be empty",
		}
	}

	params := url.Values{}
	params.Set("flight_iata", flightIata)
	if date != "" {
		params.Set("flight_date", date)
	}
	if minDelayMinutes > 0 {
		params.Set("delay", strconv.Itoa(minDelayMinutes))
	}

	body, err := p.doGET(ctx, "flight_delay", "/flight-delay", params)
	if err != nil {
		return nil, err
	}
	return decodeList[dtos.ProviderFlight](body)
}

// FlightByIata fetches a single flight
func (p *FlightLabsProvider) FlightByIata(ctx context.Context, flightIata string) ([]dtos.ProviderFlight, error) {
	if flightIata == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "flight IATA code cannot be empty",
		}
	}

	params := url.Values{}
	params.Set("flight_iata", flightIata)

	body, err := p.doGET(ctx, "flight", "/flight", params)
	if err != nil {
		return nil, err
	}
	return decodeList[dtos.ProviderFlight](body)
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// doGET performs an authenticated GET and returns the raw body of a 2xx response.
// The key is sent both as a bearer token and as the access_key parameter
// because endpoints disagree on which one they read.
func (p *FlightLabsProvider) doGET(ctx context.Context, name, endpoint string, params url.Values) (body []byte, err error) {
	start := time.Now()
	defer func() {
		p.observe(name, start, err)
	}()

	if p.APIKey == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "FLIGHTLAB_API_TOKEN is not set",
		}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{
				Code:    constants.ErrCodeRateLimited,
				Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
				Err:     err,
			}
		}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("access_key", p.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ProviderError{
			Code:       constants.ErrCodeNetworkError,
			Message:    "Failed to read response body",
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if err := handleHTTPError(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

func (p *FlightLabsProvider) observe(name string, start time.Time, err error) {
	if p.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if pe, ok := err.(*ProviderError); ok {
			outcome = strings.ToLower(pe.Code)
		}
	}
	p.metrics.ProviderRequestsTotal.WithLabelValues(name, outcome).Inc()
	p.metrics.ProviderRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// handleHTTPError converts HTTP errors to ProviderError
func handleHTTPError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	code := constants.ErrCodeNetworkError
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = constants.ErrCodeInvalidAPIKey
	case http.StatusNotFound:
		code = constants.ErrCodeNotFound
	case http.StatusTooManyRequests:
		code = constants.ErrCodeRateLimited
	}

	return &ProviderError{
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d: %s", status, constants.GetErrorMessage(code)),
		Details:    string(body),
		StatusCode: status,
	}
}

// decodeList normalizes the provider's response variants into a slice:
// a bare array, an envelope whose data/response is an array, or an envelope
// wrapping a single object.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, invalidFormat("empty response body", nil)
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, invalidFormat("failed to decode list response", err)
		}
		return items, nil

	case '{':
		var env dtos.ProviderEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, invalidFormat("failed to decode envelope", err)
		}
		if env.Success != nil && !*env.Success {
			return nil, &ProviderError{
				Code:    constants.ErrCodeProviderRejected,
				Message: constants.GetErrorMessage(constants.ErrCodeProviderRejected),
				Details: string(env.Error),
			}
		}

		payload := bytes.TrimSpace(env.Payload())
		if len(payload) == 0 {
			if env.Success != nil {
				// success without data: nothing to report
				return []T{}, nil
			}
			return nil, invalidFormat("response has no data field", nil)
		}

		if payload[0] == '{' {
			var item T
			if err := json.Unmarshal(payload, &item); err != nil {
				return nil, invalidFormat("failed to decode data object", err)
			}
			return []T{item}, nil
		}

		var items []T
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, invalidFormat("failed to decode data list", err)
		}
		return items, nil
	}

	return nil, invalidFormat("unexpected response shape", nil)
}

func invalidFormat(msg string, err error) *ProviderError {
	return &ProviderError{
		Code:    constants.ErrCodeInvalidDataFormat,
		Message: msg,
		Err:     err,
	}
}
