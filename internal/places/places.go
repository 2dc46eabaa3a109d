// Package places resolves a place query to a photo URL. Resolution never
// fails: every error path degrades to a deterministic placeholder image.
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	DefaultTimeout = 8 * time.Second
	photoMaxWidth  = "400"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// PlaceholderURL returns the stock image used when no photo is available.
// Whitespace runs in query become a single '-'.
func PlaceholderURL(query string) string {
	return "https://picsum.photos/seed/" + whitespaceRun.ReplaceAllString(query, "-") + "/400/400"
}

// Resolver looks up a photo for a free-text place query such as
// "Louvre, Paris".
type Resolver interface {
	ResolvePhoto(ctx context.Context, query string) string
}

// Config controls the Google Places resolver.
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration // per lookup, including retries
	RatePerSecond float64
	Burst         int
	Attempts      uint
	CacheTTL      time.Duration
}

// DefaultConfig returns the resolver defaults without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Timeout:       DefaultTimeout,
		RatePerSecond: 10,
		Burst:         5,
		Attempts:      3,
		CacheTTL:      24 * time.Hour,
	}
}

// Option customises a GoogleResolver.
type Option func(*GoogleResolver)

// WithCache sets the lookup cache. The default is an in-process cache.
func WithCache(c Cache) Option {
	return func(r *GoogleResolver) { r.cache = c }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *GoogleResolver) { r.http = c }
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l *slog.Logger) Option {
	return func(r *GoogleResolver) { r.logger = l }
}

// GoogleResolver resolves photos through the Places "find place from text"
// endpoint.
type GoogleResolver struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   Cache
	group   singleflight.Group
	logger  *slog.Logger
}

// NewGoogleResolver builds a resolver. Zero config fields take defaults.
func NewGoogleResolver(cfg Config, opts ...Option) *GoogleResolver {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	r := &GoogleResolver{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache(cfg.CacheTTL)
	}
	return r
}

// ResolvePhoto returns a Places photo URL for query, or PlaceholderURL when
// there is no API key, the lookup fails, or the place has no photo.
func (r *GoogleResolver) ResolvePhoto(ctx context.Context, query string) string {
	query = strings.TrimSpace(query)
	placeholder := PlaceholderURL(query)
	if query == "" || r.cfg.APIKey == "" {
		return placeholder
	}

	if cached, ok := r.cache.Get(ctx, query); ok {
		return cached
	}

	v, err, _ := r.group.Do(query, func() (any, error) {
		return r.lookup(ctx, query)
	})
	if err != nil {
		r.logger.Warn("photo_lookup_failed", "query", query, "error", err)
		return placeholder
	}

	ref := v.(string)
	if ref == "" {
		r.cache.Set(ctx, query, placeholder, r.cfg.CacheTTL)
		return placeholder
	}
	photo := r.photoURL(ref)
	r.cache.Set(ctx, query, photo, r.cfg.CacheTTL)
	return photo
}

// errPermanent marks responses that retrying cannot fix.
var errPermanent = errors.New("places: permanent failure")

// lookup returns the first candidate's photo reference, or "" when the
// place has none.
func (r *GoogleResolver) lookup(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var ref string
	err := retry.Do(
		func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			var err error
			ref, err = r.findPlace(ctx, query)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.cfg.Attempts),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, errPermanent) }),
	)
	return ref, err
}

func (r *GoogleResolver) findPlace(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("input", query)
	q.Set("inputtype", "textquery")
	q.Set("fields", "photos")
	q.Set("key", r.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/findplacefromtext/json?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errPermanent, err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("places returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", errPermanent, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: malformed response", errPermanent)
	}

	doc := gjson.ParseBytes(body)
	switch status := doc.Get("status").String(); status {
	case "", "OK", "ZERO_RESULTS":
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return "", fmt.Errorf("places status %s", status)
	default:
		return "", fmt.Errorf("%w: status %s", errPermanent, status)
	}
	return doc.Get("candidates.0.photos.0.photo_reference").String(), nil
}

func (r *GoogleResolver) photoURL(ref string) string {
	q := url.Values{}
	q.Set("maxwidth", photoMaxWidth)
	q.Set("photoreference", ref)
	q.Set("key", r.cfg.APIKey)
	return r.cfg.BaseURL + "/photo?" + q.Encode()
}

// PlaceholderResolver always returns the placeholder. It is used when photo
// lookups are turned off.
type PlaceholderResolver struct{}

func (PlaceholderResolver) ResolvePhoto(_ context.Context, query string) string {
	return PlaceholderURL(strings.TrimSpace(query))
}
