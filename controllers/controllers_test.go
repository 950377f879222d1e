package controllers

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/billow-homes/homes-api/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("home x: %w", models.ErrNotFound), http.StatusNotFound},
		{&models.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{fmt.Errorf("token: %w", models.ErrUnauthorized), http.StatusUnauthorized},
		{models.ErrAmbiguousMatch, http.StatusConflict},
		{fmt.Errorf("find: %w", models.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestBaseURL(t *testing.T) {
	plain := httptest.NewRequest(http.MethodPost, "/homes/new", nil)
	plain.Host = "api.homes.test"

	forwarded := httptest.NewRequest(http.MethodPost, "/homes/new", nil)
	forwarded.Host = "api.homes.test"
	forwarded.Header.Set("X-Forwarded-Proto", "https, http")

	secure := httptest.NewRequest(http.MethodPost, "/homes/new", nil)
	secure.Host = "api.homes.test"
	secure.TLS = &tls.ConnectionState{}

	tests := []struct {
		name       string
		configured string
		req        *http.Request
		want       string
	}{
		{"plain", "", plain, "http://api.homes.test"},
		{"forwarded", "", forwarded, "https://api.homes.test"},
		{"tls", "", secure, "https://api.homes.test"},
		{"configured", "https://cdn.homes.test", forwarded, "https://cdn.homes.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := HomeDeps{PublicBaseURL: tt.configured}
			if got := d.baseURL(tt.req); got != tt.want {
				t.Errorf("baseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormReaderPatch(t *testing.T) {
	values := url.Values{
		"price":       {" 250000 "},
		"city":        {"Salem"},
		"bedrooms":    {"three"},
		"owner":       {"ignored"},
		"agent_phone": {""},
	}
	p, err := newFormReader(values).patch()

	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Fields["bedrooms"] == "" {
		t.Fatalf("err = %v", err)
	}
	if p.Price == nil || *p.Price != 250000 {
		t.Errorf("price = %v", p.Price)
	}
	if p.City == nil || *p.City != "Salem" {
		t.Errorf("city = %v", p.City)
	}
	if p.AgentPhone == nil || *p.AgentPhone != "" {
		t.Errorf("agent_phone should be present and blank, got %v", p.AgentPhone)
	}
	if p.Street != nil || p.Bedrooms != nil {
		t.Errorf("absent or malformed fields set: %+v", p)
	}
}

func TestFormReaderHome(t *testing.T) {
	h, err := newFormReader(url.Values{
		"price":  {"100"},
		"street": {"3 Fir St"},
		"lat":    {"44.9"},
	}).home()
	if err != nil {
		t.Fatal(err)
	}
	if h.Price != 100 || h.Street != "3 Fir St" || h.Lat != 44.9 || h.City != "" {
		t.Errorf("home = %+v", h)
	}
}

func TestIntParam(t *testing.T) {
	if n, err := intParam("", "page"); n != 0 || err != nil {
		t.Errorf("empty: %d %v", n, err)
	}
	if n, err := intParam("3", "page"); n != 3 || err != nil {
		t.Errorf("3: %d %v", n, err)
	}
	if _, err := intParam("3.5", "page"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("3.5: %v", err)
	}
}
