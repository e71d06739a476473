package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/geodist/pkg/haversine"
)

// NominatimBaseURL is the public OpenStreetMap Nominatim search endpoint.
const NominatimBaseURL = "https://nominatim.openstreetmap.org/search"

// nominatimUserAgent must carry contact info per the Nominatim usage policy.
const nominatimUserAgent = "geodist/1.0 (https://github.com/UnknownOlympus/geodist)"

// Common errors for Nominatim provider.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NominatimProvider geocodes addresses with the OpenStreetMap Nominatim API.
// The public instance allows one request per second.
type NominatimProvider struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewNominatimProvider creates a provider against the public Nominatim endpoint.
func NewNominatimProvider(log *slog.Logger) *NominatimProvider {
	const timeout = 10 * time.Second
	return NewNominatimProviderWithClient(&http.Client{Timeout: timeout}, NominatimBaseURL, log)
}

// NewNominatimProviderWithClient creates a provider with a custom HTTP client and endpoint.
func NewNominatimProviderWithClient(client HTTPClient, baseURL string, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{client: client, baseURL: baseURL, log: log}
}

// Geocode resolves address, retrying with progressively shorter variants
// (trailing comma-separated components removed) while Nominatim finds nothing.
// Any other failure is returned immediately.
func (np *NominatimProvider) Geocode(ctx context.Context, address string) (haversine.Point, error) {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "address", address)

	variants := addressVariants(address)
	for level, variant := range variants {
		point, err := np.search(ctx, variant)
		if err == nil {
			if level > 0 {
				np.log.InfoContext(ctx, "Geocoded using fallback address",
					"original", address, "fallback", variant, "fallback_level", level)
			}
			return point, nil
		}
		if !errors.Is(err, ErrNominatimEmptyResponse) {
			return haversine.Point{}, err
		}
		np.log.DebugContext(ctx, "No results for address variant", "variant", variant, "fallback_level", level)
	}

	np.log.WarnContext(ctx, "All address fallbacks exhausted", "address", address, "variants_tried", len(variants))
	return haversine.Point{}, ErrNominatimEmptyResponse
}

// addressVariants returns address followed by each shorter prefix of its
// comma-separated components, without duplicates.
func addressVariants(address string) []string {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	variants := []string{address}
	seen := map[string]struct{}{address: {}}
	for n := len(parts) - 1; n >= 1; n-- {
		v := strings.Join(parts[:n], ", ")
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	return variants
}

func (np *NominatimProvider) search(ctx context.Context, address string) (haversine.Point, error) {
	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return haversine.Point{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return haversine.Point{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return haversine.Point{}, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return haversine.Point{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return haversine.Point{}, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var places []nominatimPlace
	if err = json.Unmarshal(body, &places); err != nil {
		return haversine.Point{}, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(places) == 0 {
		return haversine.Point{}, ErrNominatimEmptyResponse
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return haversine.Point{}, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return haversine.Point{}, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, places[0].Lon)
	}

	return haversine.NewPoint(lat, lon), nil
}
