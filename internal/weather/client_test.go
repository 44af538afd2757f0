package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geo/1.0/direct" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Lisbon" {
			t.Fatalf("unexpected query: %s", got)
		}
		w.Write([]byte(`[{"name":"Lisbon","lat":38.7,"lon":-9.1}]`))
	}))
	defer server.Close()

	client := New(server.URL, "key")
	loc, err := client.Geocode(context.Background(), "Lisbon")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}
	if loc.Name != "Lisbon" || loc.Lat != 38.7 || loc.Lon != -9.1 {
		t.Fatalf("unexpected location: %+v", loc)
	}
}

func TestGeocodeUnknownCity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(server.URL, "key")
	_, err := client.Geocode(context.Background(), "Nowhereville")
	if !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("got %v, want ErrCityNotFound", err)
	}
}

func TestGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "key")
	_, err := client.Geocode(context.Background(), "Lisbon")
	// An outage is not an unknown city; the user sees the fetch-failure string.
	if !errors.Is(err, ErrForecastUnavailable) {
		t.Fatalf("got %v, want ErrForecastUnavailable", err)
	}
	if errors.Is(err, ErrCityNotFound) {
		t.Fatalf("outage must not read as an unknown city: %v", err)
	}
}

func TestForecastParsesEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/forecast" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"list":[
			{"dt":1757664000,"main":{"temp":21.5,"humidity":60},
			 "weather":[{"description":"scattered clouds","icon":"03d"}],
			 "wind":{"speed":5.0}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, "key")
	entries, err := client.Forecast(context.Background(), 38.7, -9.1)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if !entry.Timestamp.Equal(time.Unix(1757664000, 0).UTC()) {
		t.Fatalf("unexpected timestamp: %v", entry.Timestamp)
	}
	if entry.TempC != 21.5 || entry.Humidity != 60 || entry.Description != "scattered clouds" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.WindKph != 18 { // 5 m/s
		t.Fatalf("got wind %v kph, want 18", entry.WindKph)
	}
}

func TestForecastServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "key")
	_, err := client.Forecast(context.Background(), 0, 0)
	if !errors.Is(err, ErrForecastUnavailable) {
		t.Fatalf("got %v, want ErrForecastUnavailable", err)
	}
}
