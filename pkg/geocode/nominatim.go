package geocode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cast"

	"github.com/quicktrack/fleetcontrol-service-go/log"
	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

const defaultUserAgent = "FleetControl/1.0 (fleet)"

// Client queries a Nominatim-style reverse geocoding endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	l          *log.Logger
}

type ClientOption func(c *Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func WithClientLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.l = l
	}
}

func NewClient(opts ...ClientOption) *Client {
	ret := &Client{
		baseURL:    "https://nominatim.openstreetmap.org/reverse",
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 7 * time.Second},
		l:          log.Default().Named("geocode"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Reverse resolves a coordinate to an address text. An empty string with
// nil error is never returned; missing data is an error so callers can
// fall back.
func (c *Client) Reverse(ctx context.Context, p model.GeoPoint) (string, error) {
	if !p.Valid() {
		return "", fmt.Errorf("invalid coordinates")
	}
	reqURL := fmt.Sprintf("%s?format=jsonv2&lat=%s&lon=%s", c.baseURL,
		url.QueryEscape(fmt.Sprintf("%v", p.Latitude)),
		url.QueryEscape(fmt.Sprintf("%v", p.Longitude)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	parsed, err := oj.Parse(body)
	if err != nil {
		return "", err
	}
	data, ok := parsed.(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected geocode response")
	}
	if addr, ok := data["address"].(map[string]any); ok {
		if joined := joinAddressParts(addr,
			[]string{"road", "pedestrian", "cycleway", "footway"},
			[]string{"house_number"},
			[]string{"postcode"},
			[]string{"city", "town", "village"}); joined != "" {
			return joined, nil
		}
	}
	if display := cast.ToString(data["display_name"]); display != "" {
		return display, nil
	}
	return "", fmt.Errorf("no address in geocode response")
}

// joinAddressParts picks the first present alternative of each group and
// joins the findings with commas.
func joinAddressParts(addr map[string]any, groups ...[]string) string {
	ret := ""
	for _, group := range groups {
		for _, key := range group {
			if val := cast.ToString(addr[key]); val != "" {
				if ret != "" {
					ret += ", "
				}
				ret += val
				break
			}
		}
	}
	return ret
}
