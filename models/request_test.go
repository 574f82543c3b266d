package models

import (
	"errors"
	"testing"
)

func TestNormalize_ValidRequest(t *testing.T) {
	req := SearchRequest{
		Origin:        "gru",
		Destination:   " jfk ",
		DepartureDate: "01/07/2024",
		WindowDays:    7,
	}

	q, err := req.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if q.Origin != "GRU" || q.Destination != "JFK" {
		t.Errorf("airport codes not upper-cased/trimmed: %+v", q)
	}
	if q.DepartureDate != "2024-07-01" {
		t.Errorf("date not canonicalized: %q", q.DepartureDate)
	}
	if q.WindowDays != 7 {
		t.Errorf("window days = %d", q.WindowDays)
	}
	if q.IsDirect() {
		t.Error("query-based request must not be direct")
	}
}

func TestNormalize_WindowDays(t *testing.T) {
	tests := []struct {
		days int
		ok   bool
	}{
		{1, true},
		{3, true},
		{7, true},
		{14, true},
		{28, true},
		{60, true},
		{160, true},
		{0, false},
		{2, false},
		{5, false},
		{30, false},
		{-7, false},
		{365, false},
	}

	for _, tt := range tests {
		req := SearchRequest{
			Origin:        "GRU",
			Destination:   "JFK",
			DepartureDate: "01/07/2024",
			WindowDays:    tt.days,
		}
		_, err := req.Normalize()
		if tt.ok && err != nil {
			t.Errorf("windowDays %d should be allowed, got %v", tt.days, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("windowDays %d should be rejected", tt.days)
		}
	}
}

func TestNormalize_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  SearchRequest
	}{
		{"no origin", SearchRequest{Destination: "JFK", DepartureDate: "01/07/2024", WindowDays: 7}},
		{"no destination", SearchRequest{Origin: "GRU", DepartureDate: "01/07/2024", WindowDays: 7}},
		{"no date", SearchRequest{Origin: "GRU", Destination: "JFK", WindowDays: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Normalize()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var scrapeErr *ScrapeError
			if !errors.As(err, &scrapeErr) || scrapeErr.Code != ErrCodeInvalidInput {
				t.Errorf("expected %s, got %v", ErrCodeInvalidInput, err)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01/07/2024", "2024-07-01", false},
		{"31/12/2025", "2025-12-31", false},
		{" 15/03/2024 ", "2024-03-15", false},
		{"2024-07-01", "", true}, // already canonical is not the wire format
		{"32/01/2024", "", true},
		{"1/7/24", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeDate(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeDate(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
