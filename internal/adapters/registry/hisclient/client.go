package hisclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hospital-dashboard/internal/domain/prescriptions"
	"hospital-dashboard/internal/platform/httpclient"
)

var (
	ErrRegistryNotConfigured = errors.New("registry client not configured")
	ErrRegistryUnauthorized  = errors.New("registry unauthorized")
	ErrRegistryUpstream      = errors.New("registry upstream error")
)

// Config del cliente del HIS (sistema de historia clínica que emite las recetas).
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

// Client implementa prescriptions.Registry contra el HIS por HTTP.
type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

type medicineDTO struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type prescriptionDTO struct {
	PID       string        `json:"pid"`
	Patient   string        `json:"patient"`
	Doctor    string        `json:"doctor"`
	Date      string        `json:"date"` // YYYY-MM-DD
	Medicines []medicineDTO `json:"medicines"`
}

// LookupPID hace GET /v1/prescriptions/{pid}. 404 se traduce a prescriptions.ErrNotFound.
func (c *Client) LookupPID(ctx context.Context, pid string) (prescriptions.Prescription, error) {
	if !c.IsConfigured() {
		return prescriptions.Prescription{}, ErrRegistryNotConfigured
	}
	pid = strings.TrimSpace(pid)
	if pid == "" {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}

	var out prescriptionDTO
	err := c.http.DoJSON(ctx, http.MethodGet, "/v1/prescriptions/"+url.PathEscape(pid), headers, nil, &out)
	if err != nil {
		status, ok := httpclient.StatusCode(err)
		switch {
		case ok && status == http.StatusNotFound:
			return prescriptions.Prescription{}, prescriptions.ErrNotFound
		case ok && (status == http.StatusUnauthorized || status == http.StatusForbidden):
			return prescriptions.Prescription{}, ErrRegistryUnauthorized
		default:
			return prescriptions.Prescription{}, fmt.Errorf("%w: %v", ErrRegistryUpstream, err)
		}
	}

	return out.toDomain(pid)
}

func (d prescriptionDTO) toDomain(pid string) (prescriptions.Prescription, error) {
	p := prescriptions.Prescription{
		PID:     pid,
		Patient: strings.TrimSpace(d.Patient),
		Doctor:  strings.TrimSpace(d.Doctor),
	}
	if d.Date != "" {
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return prescriptions.Prescription{}, fmt.Errorf("%w: invalid date %q", ErrRegistryUpstream, d.Date)
		}
		p.Date = t
	}
	for _, m := range d.Medicines {
		p.Medicines = append(p.Medicines, prescriptions.PrescribedMedicine{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}
	return p, nil
}
