package places

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *GoogleResolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: time.Second, RatePerSecond: 1000, Burst: 100}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewGoogleResolver(cfg)
}

func photoBody(ref string) string {
	return fmt.Sprintf(`{"status":"OK","candidates":[{"photos":[{"photo_reference":%q,"width":800}]}]}`, ref)
}

func TestPlaceholderURL(t *testing.T) {
	assert.Equal(t, "https://picsum.photos/seed/Louvre,-Paris/400/400", PlaceholderURL("Louvre,  Paris"))
	assert.Equal(t, "https://picsum.photos/seed/Café-de-Flore,-Paris/400/400", PlaceholderURL("Café de Flore,\tParis"))
}

func TestResolvePhoto_Found(t *testing.T) {
	r := testResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/findplacefromtext/json", req.URL.Path)
		q := req.URL.Query()
		assert.Equal(t, "Louvre, Paris", q.Get("input"))
		assert.Equal(t, "textquery", q.Get("inputtype"))
		assert.Equal(t, "photos", q.Get("fields"))
		assert.Equal(t, "test-key", q.Get("key"))
		fmt.Fprint(w, photoBody("ref-123"))
	})

	got := r.ResolvePhoto(context.Background(), "Louvre, Paris")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/photo", u.Path)
	assert.Equal(t, "400", u.Query().Get("maxwidth"))
	assert.Equal(t, "ref-123", u.Query().Get("photoreference"))
	assert.Equal(t, "test-key", u.Query().Get("key"))
}

func TestResolvePhoto_NoAPIKey(t *testing.T) {
	var calls atomic.Int32
	r := testResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}, func(c *Config) { c.APIKey = "" })

	assert.Equal(t, PlaceholderURL("Louvre, Paris"), r.ResolvePhoto(context.Background(), "Louvre, Paris"))
	assert.Zero(t, calls.Load())
}

func TestResolvePhoto_DegradesToPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no candidates", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"status":"ZERO_RESULTS","candidates":[]}`)
		}},
		{"candidate without photos", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"status":"OK","candidates":[{}]}`)
		}},
		{"request denied", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"status":"REQUEST_DENIED","error_message":"bad key"}`)
		}},
		{"bad request", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{not json`)
		}},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testResolver(t, tt.handler)
			assert.Equal(t, PlaceholderURL("Nowhere, Paris"), r.ResolvePhoto(context.Background(), "Nowhere, Paris"))
		})
	}
}

func TestResolvePhoto_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	r := testResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, photoBody("ref-after-retry"))
	})

	got := r.ResolvePhoto(context.Background(), "Louvre, Paris")
	assert.Contains(t, got, "ref-after-retry")
	assert.Equal(t, int32(2), calls.Load())
}

func TestResolvePhoto_DoesNotRetryPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	r := testResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	r.ResolvePhoto(context.Background(), "Louvre, Paris")
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolvePhoto_Timeout(t *testing.T) {
	r := testResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, photoBody("too-late"))
	}, func(c *Config) { c.Timeout = 50 * time.Millisecond })

	assert.Equal(t, PlaceholderURL("Louvre, Paris"), r.ResolvePhoto(context.Background(), "Louvre, Paris"))
}

func TestResolvePhoto_CachesResults(t *testing.T) {
	var calls atomic.Int32
	r := testResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, photoBody("ref-cached"))
	})

	first := r.ResolvePhoto(context.Background(), "Louvre, Paris")
	second := r.ResolvePhoto(context.Background(), "  Louvre, Paris ")
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolvePhoto_ConcurrentSameQuery(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	r := testResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		<-release
		fmt.Fprint(w, photoBody("ref-shared"))
	})

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.ResolvePhoto(context.Background(), "Louvre, Paris")
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, res := range results {
		assert.Contains(t, res, "ref-shared")
	}
	assert.LessOrEqual(t, calls.Load(), int32(5))
}

func TestPlaceholderResolver(t *testing.T) {
	assert.Equal(t, PlaceholderURL("Louvre, Paris"), PlaceholderResolver{}.ResolvePhoto(context.Background(), " Louvre, Paris "))
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	ctx := context.Background()

	c.Set(ctx, "q", "url", 20*time.Millisecond)
	got, ok := c.Get(ctx, "q")
	require.True(t, ok)
	assert.Equal(t, "url", got)

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get(ctx, "q")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GEOMINGLE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GEOMINGLE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisCache(client)
	key := fmt.Sprintf("test-%d", time.Now().UnixNano())
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, "https://example.test/p.jpg", time.Minute)
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "https://example.test/p.jpg", got)
	client.Del(ctx, "geomingle:photo:"+key)
}
