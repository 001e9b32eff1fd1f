package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUpstream marks a server-side (5xx) failure of the activities catalogue,
// distinguished from other HTTP failures in the error taxonomy.
var ErrUpstream = errors.New("catalogue provider error")

const (
	httpTimeout       = 10 * time.Second
	activitiesTimeout = 20 * time.Second
)

// newHTTPClient returns an http.Client with the standard 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// doGet performs a GET request, optionally with a bearer token, and decodes
// the JSON response into dst.
func doGet(ctx context.Context, client *http.Client, rawURL, bearer string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

// ---- city lookup ----

// tokener is the interface satisfied by TokenSource.
type tokener interface {
	Token(ctx context.Context) (string, error)
}

// CityClient translates free-text input into city candidates with coordinates.
type CityClient struct {
	tokens  tokener
	baseURL string
	client  *http.Client
}

const cityDefaultURL = "https://test.api.amadeus.com/v1/reference-data/locations/cities"

const citySearchMax = 10

// NewCityClient constructs a CityClient using the production lookup endpoint.
func NewCityClient(tokens *TokenSource) *CityClient {
	return &CityClient{tokens: tokens, baseURL: cityDefaultURL, client: newHTTPClient()}
}

// NewCityClientWithURL constructs a CityClient pointing at a custom base URL
// (for tests).
func NewCityClientWithURL(baseURL string, tokens tokener) *CityClient {
	return &CityClient{tokens: tokens, baseURL: baseURL, client: newHTTPClient()}
}

type cityLookupResponse struct {
	Data []struct {
		Name     string `json:"name"`
		IataCode string `json:"iataCode"`
		GeoCode  *struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"geoCode"`
	} `json:"data"`
}

// Search looks up cities matching the keyword. Results without coordinates
// are dropped. A non-success lookup response is treated as "no matches" so
// keystroke-driven search stays responsive; only a token failure is an error.
func (c *CityClient) Search(ctx context.Context, keyword string) ([]CityCandidate, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "?keyword=" + url.QueryEscape(keyword) + "&max=" + strconv.Itoa(citySearchMax)

	var raw cityLookupResponse
	if err := doGet(ctx, c.client, endpoint, token, &raw); err != nil {
		slog.Warn("city lookup failed", "keyword", keyword, "err", err)
		return nil, nil
	}

	candidates := make([]CityCandidate, 0, len(raw.Data))
	for _, d := range raw.Data {
		if d.GeoCode == nil {
			continue
		}
		label := d.Name
		if d.IataCode != "" {
			label = fmt.Sprintf("%s (%s)", d.Name, d.IataCode)
		}
		candidates = append(candidates, CityCandidate{
			Name:      d.Name,
			Code:      d.IataCode,
			Label:     label,
			Latitude:  d.GeoCode.Latitude,
			Longitude: d.GeoCode.Longitude,
		})
	}

	return candidates, nil
}

// ---- activities catalogue ----

// ActivityClient fetches activities around a coordinate from the catalogue.
type ActivityClient struct {
	tokens  tokener
	baseURL string
	client  *http.Client
}

const activitiesDefaultURL = "https://test.api.amadeus.com/v1/shopping/activities"

// NewActivityClient constructs an ActivityClient using the production endpoint.
func NewActivityClient(tokens *TokenSource) *ActivityClient {
	return &ActivityClient{
		tokens:  tokens,
		baseURL: activitiesDefaultURL,
		client:  &http.Client{Timeout: activitiesTimeout},
	}
}

// NewActivityClientWithURL constructs an ActivityClient pointing at a custom
// base URL (for tests).
func NewActivityClientWithURL(baseURL string, tokens tokener) *ActivityClient {
	return &ActivityClient{
		tokens:  tokens,
		baseURL: baseURL,
		client:  &http.Client{Timeout: activitiesTimeout},
	}
}

type activitiesResponse struct {
	Data []struct {
		Name             string `json:"name"`
		ShortDescription string `json:"shortDescription"`
		Description      string `json:"description"`
		Rating           string `json:"rating"`
		Price            *struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"price"`
		MinimumDuration string   `json:"minimumDuration"`
		Pictures        []string `json:"pictures"`
		BookingLink     string   `json:"bookingLink"`
	} `json:"data"`
}

// Fetch retrieves activities within radius distance units of the coordinate.
// The radius is clamped to the catalogue's supported [0, 20] range. Failures
// propagate: a 5xx wraps ErrUpstream, everything else is a plain error.
func (c *ActivityClient) Fetch(ctx context.Context, lat, lon float64, radius int) ([]Activity, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	if radius < 0 {
		radius = 0
	}
	if radius > 20 {
		radius = 20
	}

	endpoint := fmt.Sprintf("%s?latitude=%f&longitude=%f&radius=%d", c.baseURL, lat, lon, radius)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating activities request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activities endpoint returned status %d", resp.StatusCode)
	}

	var raw activitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding activities response: %w", err)
	}

	activities := make([]Activity, 0, len(raw.Data))
	for _, d := range raw.Data {
		description := d.ShortDescription
		if description == "" {
			description = d.Description
		}

		var rating *float64
		if r, err := strconv.ParseFloat(d.Rating, 64); err == nil {
			rating = &r
		}

		var price *Price
		if d.Price != nil && d.Price.Amount != "" {
			price = &Price{Amount: d.Price.Amount, Currency: d.Price.CurrencyCode}
		}

		activities = append(activities, Activity{
			Name:        d.Name,
			Rating:      rating,
			Description: description,
			Price:       price,
			Duration:    d.MinimumDuration,
			Pictures:    d.Pictures,
			BookingLink: d.BookingLink,
		})
	}

	return activities, nil
}

// ---- historical weather archive ----

// WeatherClient fetches single-day historical weather records (no key needed).
type WeatherClient struct {
	baseURL string
	client  *http.Client
}

const weatherDefaultURL = "https://archive-api.open-meteo.com/v1/archive"

// NewWeatherClient constructs a WeatherClient using the production archive URL.
func NewWeatherClient() *WeatherClient {
	return &WeatherClient{baseURL: weatherDefaultURL, client: newHTTPClient()}
}

// NewWeatherClientWithURL constructs a WeatherClient pointing at a custom base
// URL (for tests).
func NewWeatherClientWithURL(baseURL string) *WeatherClient {
	return &WeatherClient{baseURL: baseURL, client: newHTTPClient()}
}

type archiveResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		TemperatureMin   []*float64 `json:"temperature_2m_min"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch retrieves the daily record for one date at the given coordinates.
// Returns nil, nil when the archive has no usable data for that day.
func (c *WeatherClient) Fetch(ctx context.Context, lat, lon float64, date time.Time) (*WeatherSample, error) {
	day := date.Format("2006-01-02")
	endpoint := fmt.Sprintf(
		"%s?latitude=%f&longitude=%f&start_date=%s&end_date=%s&daily=temperature_2m_max,temperature_2m_min,precipitation_sum&timezone=auto",
		c.baseURL, lat, lon, day, day,
	)

	var raw archiveResponse
	if err := doGet(ctx, c.client, endpoint, "", &raw); err != nil {
		return nil, fmt.Errorf("weather archive fetch for %s: %w", day, err)
	}

	d := raw.Daily
	if len(d.Time) == 0 || len(d.TemperatureMax) == 0 || len(d.TemperatureMin) == 0 {
		return nil, nil
	}
	if d.TemperatureMax[0] == nil || d.TemperatureMin[0] == nil {
		return nil, nil
	}

	precip := 0.0
	if len(d.PrecipitationSum) > 0 && d.PrecipitationSum[0] != nil {
		precip = *d.PrecipitationSum[0]
	}

	return &WeatherSample{
		Year:          date.Year(),
		Date:          day,
		MaxTemp:       *d.TemperatureMax[0],
		MinTemp:       *d.TemperatureMin[0],
		Precipitation: precip,
	}, nil
}
