package ticketmaster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"vinjerock_watcher/internal/domain/ticket"

	"github.com/goccy/go-json"
)

// DefaultBaseURL is the resale availability endpoint for Norwegian events.
const DefaultBaseURL = "https://availability.ticketmaster.eu/api/v2/TM_NO/resale"

const maxBodyBytes = 4 * 1024 * 1024

// TransportError is returned when the request fails or the API answers with a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int // Zero when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("availability http %d from %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("availability request to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when the body is not a {groups, offers} document.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode availability response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type availabilityResponse struct {
	Groups *[]ticket.Group `json:"groups"`
	Offers *[]ticket.Offer `json:"offers"`
}

// Client fetches resale availability from the Ticketmaster API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Fetch implements ticket.Source.
func (c *Client) Fetch(ctx context.Context, categoryID string) (*ticket.Availability, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(categoryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &TransportError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}

	var payload availabilityResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &DecodeError{URL: endpoint, Err: err}
	}
	if payload.Groups == nil || payload.Offers == nil {
		return nil, &DecodeError{URL: endpoint, Err: fmt.Errorf("missing groups or offers in %q", truncate(string(body), 120))}
	}

	return &ticket.Availability{Groups: *payload.Groups, Offers: *payload.Offers}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
