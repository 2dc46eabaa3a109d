// Package geo detects the user's city and suggests cities by name using a
// Nominatim geocoding service.
package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "GeoMingle/1.0 (https://geo-mingle.vercel.app)"
	DefaultTimeout   = 5 * time.Second

	// FallbackCity is used whenever the city cannot be detected.
	FallbackCity = "New York"
	// UnknownLocation is reported for coordinates with no city, town or
	// village.
	UnknownLocation = "Unknown location"

	DefaultSuggestionLimit = 5
	minQueryLen            = 2
)

// ErrLookupFailed wraps geocoding transport and decoding failures.
var ErrLookupFailed = errors.New("geocoding lookup failed")

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Suggestion is one city search result.
type Suggestion struct {
	City        string
	DisplayName string
	Lat         float64
	Lon         float64
}

// Detector finds the user's current city. It never fails.
type Detector interface {
	DetectCity(ctx context.Context) string
}

// Searcher suggests cities matching a partial name.
type Searcher interface {
	SearchCities(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// Config controls the Nominatim client. A nil Position behaves like a
// denied location permission.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Position  *Coordinates
}

// Nominatim implements Detector and Searcher.
type Nominatim struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewNominatim builds a client. The public service allows one request per
// second, which the client enforces.
func NewNominatim(cfg Config, logger *slog.Logger) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Nominatim{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger,
	}
}

// DetectCity reverse-geocodes the configured position. It returns
// FallbackCity when no position is configured or the lookup fails.
func (n *Nominatim) DetectCity(ctx context.Context) string {
	if n.cfg.Position == nil {
		n.logger.Info("city_detect_fallback", "reason", "no position")
		return FallbackCity
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(n.cfg.Position.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(n.cfg.Position.Lon, 'f', -1, 64))

	body, err := n.get(ctx, "/reverse", q)
	if err != nil {
		n.logger.Warn("city_detect_fallback", "reason", err)
		return FallbackCity
	}
	return cityOf(gjson.GetBytes(body, "address"))
}

// SearchCities returns up to limit suggestions for query. Queries shorter
// than two characters return no suggestions.
func (n *Nominatim) SearchCities(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLen {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("featuretype", "city")
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(limit))

	body, err := n.get(ctx, "/search", q)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected array", ErrLookupFailed)
	}

	var out []Suggestion
	doc.ForEach(func(_, item gjson.Result) bool {
		display := item.Get("display_name").String()
		if display == "" {
			return true
		}
		out = append(out, Suggestion{
			City:        strings.TrimSpace(strings.SplitN(display, ",", 2)[0]),
			DisplayName: display,
			Lat:         item.Get("lat").Float(),
			Lon:         item.Get("lon").Float(),
		})
		return true
	})
	out = lo.UniqBy(out, func(s Suggestion) string { return s.DisplayName })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	var body []byte
	err := retry.Do(
		func() error {
			if err := n.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			var err error
			body, err = n.fetch(ctx, path, q)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return body, nil
}

func (n *Nominatim) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.cfg.UserAgent)

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("status %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, retry.Unrecoverable(errors.New("malformed response"))
	}
	return body, nil
}

func cityOf(address gjson.Result) string {
	for _, field := range []string{"city", "town", "village"} {
		if v := strings.TrimSpace(address.Get(field).String()); v != "" {
			return v
		}
	}
	return UnknownLocation
}

// StaticDetector always reports the same city. It backs an explicitly
// configured city.
type StaticDetector string

func (s StaticDetector) DetectCity(context.Context) string { return string(s) }
