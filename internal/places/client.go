// Package places is a client for the Google Places and Geocoding web services.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

// Sentinel errors for Places/Geocoding failures.
var (
	ErrNotConfigured = errors.New("maps api key not configured")
	ErrNoResults     = errors.New("no places found")
	ErrUnreachable   = errors.New("maps api unreachable")
	ErrTimeout       = errors.New("maps api timeout")
	ErrRequestFailed = errors.New("maps request failed")
)

// MinAutocompleteLength is the shortest input sent to the autocomplete endpoint.
const MinAutocompleteLength = 3

// Client is the interface for place lookups.
type Client interface {
	Autocomplete(ctx context.Context, input, language string) ([]Prediction, error)
	Details(ctx context.Context, placeID, language string) (*Place, error)
	Geocode(ctx context.Context, address, language string) (*Place, error)
	ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error)
}

// Prediction is one autocomplete suggestion.
type Prediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// Place is a resolved address with its coordinates.
type Place struct {
	Address     string            `json:"address"`
	Coordinates models.Coordinate `json:"coordinates"`
}

// HTTPClient implements Client against maps.googleapis.com.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a new Places/Geocoding client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Autocomplete returns geocode predictions for input. Inputs shorter than
// MinAutocompleteLength return an empty result without calling the API.
func (c *HTTPClient) Autocomplete(ctx context.Context, input, language string) ([]Prediction, error) {
	input = strings.TrimSpace(input)
	if utf8.RuneCountInString(input) < MinAutocompleteLength {
		return []Prediction{}, nil
	}

	params := url.Values{}
	params.Set("input", input)
	params.Set("language", LanguageCode(language))
	params.Set("types", "geocode")

	var resp autocompleteResponse
	if err := c.get(ctx, "/maps/api/place/autocomplete/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	predictions := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		predictions = append(predictions, Prediction{PlaceID: p.PlaceID, Description: p.Description})
	}
	return predictions, nil
}

// Details resolves a place ID to its formatted address and coordinates.
func (c *HTTPClient) Details(ctx context.Context, placeID, language string) (*Place, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, fmt.Errorf("%w: place id is required", ErrRequestFailed)
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("language", LanguageCode(language))
	params.Set("fields", "formatted_address,geometry")

	var resp detailsResponse
	if err := c.get(ctx, "/maps/api/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	return resp.Result.toPlace()
}

// Geocode resolves free-form address text to the best matching place.
func (c *HTTPClient) Geocode(ctx context.Context, address, language string) (*Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrRequestFailed)
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("language", LanguageCode(language))

	var resp geocodeResponse
	if err := c.get(ctx, "/maps/api/geocode/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoResults
	}

	return resp.Results[0].toPlace()
}

// ReverseGeocode returns the formatted address nearest to coord.
func (c *HTTPClient) ReverseGeocode(ctx context.Context, coord models.Coordinate) (string, error) {
	if !coord.Valid() {
		return "", fmt.Errorf("%w: invalid coordinate", ErrRequestFailed)
	}

	params := url.Values{}
	params.Set("latlng", strconv.FormatFloat(coord.Latitude, 'f', -1, 64)+","+strconv.FormatFloat(coord.Longitude, 'f', -1, 64))

	var resp geocodeResponse
	if err := c.get(ctx, "/maps/api/geocode/json", params, &resp); err != nil {
		return "", err
	}
	if err := checkStatus(resp.Status, resp.ErrorMessage); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", ErrNoResults
	}

	return resp.Results[0].FormattedAddress, nil
}

// get issues a GET to path with params plus the API key and decodes the JSON body into out.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRequestFailed, err)
	}
	return nil
}

// checkStatus maps the API's body-level status field to sentinel errors.
func checkStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		return ErrNoResults
	}
	if message != "" {
		return fmt.Errorf("%w: %s", ErrRequestFailed, message)
	}
	return fmt.Errorf("%w: Search failed: %s", ErrRequestFailed, status)
}

// LanguageCode maps an app language name to a two-letter Maps language code.
func LanguageCode(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "tamil":
		return "ta"
	case "swahili":
		return "sw"
	case "telugu":
		return "te"
	case "malayalam":
		return "ml"
	default:
		return "en"
	}
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

// --- Maps web service wire types ---

type autocompleteResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Predictions  []struct {
		PlaceID     string `json:"place_id"`
		Description string `json:"description"`
	} `json:"predictions"`
}

type detailsResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Result       placeResult `json:"result"`
}

type geocodeResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	FormattedAddress string `json:"formatted_address"`
	Geometry         *struct {
		Location *struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

func (r placeResult) toPlace() (*Place, error) {
	if r.Geometry == nil || r.Geometry.Location == nil ||
		r.Geometry.Location.Lat == nil || r.Geometry.Location.Lng == nil {
		return nil, fmt.Errorf("%w: result has no location", ErrRequestFailed)
	}
	coord := models.Coordinate{Latitude: *r.Geometry.Location.Lat, Longitude: *r.Geometry.Location.Lng}
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: invalid coordinates in response", ErrRequestFailed)
	}
	return &Place{Address: r.FormattedAddress, Coordinates: coord}, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
