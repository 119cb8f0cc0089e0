package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kiranshivaraju/jobscout/pkg/models"
)

func newTestClient(baseURL string) *HTTPClient {
	return NewHTTPClient(baseURL, "maps-key", 5*time.Second)
}

func TestAutocomplete_ValidResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/place/autocomplete/json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("input") != "Chennai" || q.Get("language") != "ta" || q.Get("types") != "geocode" || q.Get("key") != "maps-key" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":"OK","predictions":[
			{"place_id":"p1","description":"Chennai, Tamil Nadu, India"},
			{"place_id":"p2","description":"Chennai Central, Chennai, India"}]}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL).Autocomplete(context.Background(), " Chennai ", "tamil")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(got))
	}
	if got[0].PlaceID != "p1" || got[0].Description != "Chennai, Tamil Nadu, India" {
		t.Errorf("unexpected prediction: %+v", got[0])
	}
}

func TestAutocomplete_ShortInputSkipsCall(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	for _, in := range []string{"", "Ch", "  ab  "} {
		got, err := newTestClient(ts.URL).Autocomplete(context.Background(), in, "english")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil result for %q, got %v", in, got)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("expected no API calls, got %d", calls.Load())
	}
}

func TestAutocomplete_ZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","predictions":[]}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Autocomplete(context.Background(), "zzzzqqq", "")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestAutocomplete_RequestDenied(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Autocomplete(context.Background(), "Nairobi", "swahili")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "The provided API key is invalid.") {
		t.Errorf("expected error_message in error, got %v", err)
	}
}

func TestAutocomplete_StatusWithoutMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OVER_QUERY_LIMIT"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Autocomplete(context.Background(), "Nairobi", "")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Search failed: OVER_QUERY_LIMIT") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestDetails_ValidResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/place/details/json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("place_id") != "p1" || q.Get("fields") != "formatted_address,geometry" || q.Get("language") != "te" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":"OK","result":{"formatted_address":"Hyderabad, Telangana, India",
			"geometry":{"location":{"lat":17.385,"lng":78.4867}}}}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL).Details(context.Background(), "p1", "telugu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Address != "Hyderabad, Telangana, India" {
		t.Errorf("unexpected address: %s", got.Address)
	}
	if got.Coordinates.Latitude != 17.385 || got.Coordinates.Longitude != 78.4867 {
		t.Errorf("unexpected coordinates: %+v", got.Coordinates)
	}
}

func TestDetails_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"INVALID_REQUEST"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Details(context.Background(), "bogus", "")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestDetails_MissingGeometry(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"formatted_address":"Somewhere"}}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL).Details(context.Background(), "p1", "")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got place=%+v err=%v", got, err)
	}
}

func TestGeocode_MissingLocation(t *testing.T) {
	tests := map[string]string{
		"no geometry":  `{"status":"OK","results":[{"formatted_address":"Somewhere"}]}`,
		"no location":  `{"status":"OK","results":[{"formatted_address":"Somewhere","geometry":{}}]}`,
		"no longitude": `{"status":"OK","results":[{"formatted_address":"Somewhere","geometry":{"location":{"lat":0}}}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer ts.Close()

			got, err := newTestClient(ts.URL).Geocode(context.Background(), "Somewhere", "")
			if !errors.Is(err, ErrRequestFailed) {
				t.Fatalf("expected ErrRequestFailed, got place=%+v err=%v", got, err)
			}
		})
	}
}

func TestGeocode_EquatorAndMeridianAccepted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Null Island","geometry":{"location":{"lat":0,"lng":0}}}]}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL).Geocode(context.Background(), "Null Island", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Coordinates != (models.Coordinate{}) {
		t.Errorf("unexpected coordinates: %+v", got.Coordinates)
	}
}

func TestGeocode_FirstResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("address") != "Kochi" {
			t.Errorf("unexpected address: %s", r.URL.Query().Get("address"))
		}
		w.Write([]byte(`{"status":"OK","results":[
			{"formatted_address":"Kochi, Kerala, India","geometry":{"location":{"lat":9.9312,"lng":76.2673}}},
			{"formatted_address":"Kochi, Japan","geometry":{"location":{"lat":33.5597,"lng":133.5311}}}]}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL).Geocode(context.Background(), "Kochi", "malayalam")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Address != "Kochi, Kerala, India" || got.Coordinates.Latitude != 9.9312 {
		t.Errorf("unexpected place: %+v", got)
	}
}

func TestGeocode_ZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Geocode(context.Background(), "nowhere at all", "")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestReverseGeocode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latlng"); got != "-1.2921,36.8219" {
			t.Errorf("unexpected latlng: %s", got)
		}
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Nairobi, Kenya"}]}`))
	}))
	defer ts.Close()

	got, err := newTestClient(ts.URL).ReverseGeocode(context.Background(), models.Coordinate{Latitude: -1.2921, Longitude: 36.8219})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Nairobi, Kenya" {
		t.Errorf("unexpected address: %s", got)
	}
}

func TestReverseGeocode_InvalidCoordinate(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").ReverseGeocode(context.Background(), models.Coordinate{Latitude: 91})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", "", time.Second)
	if _, err := c.Geocode(context.Background(), "Chennai", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.Autocomplete(context.Background(), "Chennai", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUnreachable(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Geocode(context.Background(), "Chennai", "")
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Geocode(context.Background(), "Chennai", "")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestLanguageCode(t *testing.T) {
	cases := map[string]string{
		"tamil":     "ta",
		"SWAHILI":   "sw",
		"telugu":    "te",
		"malayalam": "ml",
		"english":   "en",
		"":          "en",
	}
	for in, want := range cases {
		if got := LanguageCode(in); got != want {
			t.Errorf("LanguageCode(%q) = %q, want %q", in, got, want)
		}
	}
}
