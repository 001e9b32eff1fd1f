package travel

// CityCandidate is a single match from the city-lookup endpoint.
// Candidates without coordinates are filtered out before this type is built.
type CityCandidate struct {
	Name      string  `json:"name"`
	Code      string  `json:"code,omitempty"`
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Price is an activity price as delivered by the catalogue: the amount stays
// a string because the upstream sends it as one and it may be unparseable.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Activity is a single catalogue entry, read-only within this system.
// Rating is nil when the upstream omits it or sends something non-numeric.
type Activity struct {
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *Price   `json:"price,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Pictures    []string `json:"pictures,omitempty"`
	BookingLink string   `json:"booking_link,omitempty"`
}

// WeatherSample is one historical day of weather at a location.
type WeatherSample struct {
	Year          int     `json:"year"`
	Date          string  `json:"date"`
	MaxTemp       float64 `json:"max_temp"`
	MinTemp       float64 `json:"min_temp"`
	Precipitation float64 `json:"precipitation"`
}
