package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/geodist/internal/geocoding"
	"github.com/UnknownOlympus/geodist/pkg/haversine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newNominatim(doFunc func(req *http.Request) (*http.Response, error)) *geocoding.NominatimProvider {
	return geocoding.NewNominatimProviderWithClient(
		&mockHTTPClient{doFunc: doFunc}, geocoding.NominatimBaseURL, slog.Default(),
	)
}

func TestNominatimProvider_Geocode(t *testing.T) {
	ctx := t.Context()

	t.Run("successful geocoding", func(t *testing.T) {
		provider := newNominatim(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org")
			assert.Equal(t, "1600 Amphitheatre Parkway", req.URL.Query().Get("q"))
			assert.Equal(t, "json", req.URL.Query().Get("format"))
			assert.Equal(t, "1", req.URL.Query().Get("limit"))
			assert.Contains(t, req.Header.Get("User-Agent"), "geodist")

			return jsonResponse(http.StatusOK, `[{"lat":"37.4224764","lon":"-122.0842499"}]`), nil
		})

		point, err := provider.Geocode(ctx, "1600 Amphitheatre Parkway")

		require.NoError(t, err)
		assert.InDelta(t, 37.4224764, point.Latitude, 1e-9)
		assert.InDelta(t, -122.0842499, point.Longitude, 1e-9)
	})

	t.Run("empty response from API", func(t *testing.T) {
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `[]`), nil
		})

		_, err := provider.Geocode(ctx, "invalid address")

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`), nil
		})

		_, err := provider.Geocode(ctx, "some, address")

		require.ErrorContains(t, err, "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `invalid json`), nil
		})

		_, err := provider.Geocode(ctx, "some address")

		require.ErrorContains(t, err, "failed to decode nominatim response")
	})

	t.Run("invalid coordinates in response", func(t *testing.T) {
		for body, msg := range map[string]string{
			`[{"lat":"invalid","lon":"-122.08"}]`: "invalid latitude",
			`[{"lat":"37.42","lon":"invalid"}]`:   "invalid longitude",
		} {
			provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, body), nil
			})

			_, err := provider.Geocode(ctx, "some address")

			require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
			assert.ErrorContains(t, err, msg)
		}
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			return nil, assert.AnError
		})

		_, err := provider.Geocode(ctx, "some address")

		require.ErrorIs(t, err, assert.AnError)
		assert.ErrorContains(t, err, "failed to execute geocoding request")
	})

	t.Run("context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(t.Context())
		cancel()

		provider := newNominatim(func(req *http.Request) (*http.Response, error) {
			return nil, req.Context().Err()
		})

		_, err := provider.Geocode(cancelled, "some address")

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNominatimProvider_AddressFallback(t *testing.T) {
	ctx := t.Context()

	t.Run("falls back to shorter variants", func(t *testing.T) {
		var queries []string
		provider := newNominatim(func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query().Get("q")
			queries = append(queries, q)
			if q == "Hrabovets" {
				return jsonResponse(http.StatusOK, `[{"lat":"49.1234","lon":"24.5678"}]`), nil
			}
			return jsonResponse(http.StatusOK, `[]`), nil
		})

		point, err := provider.Geocode(ctx, "Hrabovets, Polova St, 3")

		require.NoError(t, err)
		assert.Equal(t, haversine.NewPoint(49.1234, 24.5678), point)
		assert.Equal(t, []string{"Hrabovets, Polova St, 3", "Hrabovets, Polova St", "Hrabovets"}, queries)
	})

	t.Run("non-empty failure stops fallback", func(t *testing.T) {
		calls := 0
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(http.StatusInternalServerError, `oops`), nil
		})

		_, err := provider.Geocode(ctx, "a, b, c")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("all fallbacks fail", func(t *testing.T) {
		calls := 0
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(http.StatusOK, `[]`), nil
		})

		_, err := provider.Geocode(ctx, "Nowhere, Unknown St, 999")

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
		assert.Equal(t, 3, calls)
	})

	t.Run("single-part address tries once", func(t *testing.T) {
		calls := 0
		provider := newNominatim(func(_ *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(http.StatusOK, `[{"lat":"48.9226","lon":"24.7111"}]`), nil
		})

		_, err := provider.Geocode(ctx, "Ivano-Frankivsk")

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestNominatimProvider_HTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Yuma, AZ", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`[{"lat":"32.652387","lon":"-114.098743"}]`))
	}))
	defer server.Close()

	provider := geocoding.NewNominatimProviderWithClient(server.Client(), server.URL, slog.Default())
	point, err := provider.Geocode(t.Context(), "Yuma, AZ")

	require.NoError(t, err)
	assert.Equal(t, haversine.NewPoint(32.652387, -114.098743), point)
}

func TestNewNominatimProvider(t *testing.T) {
	require.NotNil(t, geocoding.NewNominatimProvider(slog.Default()))
}
