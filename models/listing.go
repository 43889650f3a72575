package models

import "time"

// Source identifies the site a listing was scraped from.
type Source string

const (
	SourceOLX        Source = "olx"
	SourceImobiliare Source = "imobiliare"
	SourceStoria     Source = "storia"
	SourceTrimbitasu Source = "trimbitasu"
)

// RawListing holds unprocessed scraped data directly from the rendered page.
// Only Title and URL are guaranteed non-empty.
type RawListing struct {
	Source      Source `json:"source"`
	Title       string `json:"title"`
	Price       string `json:"price"`
	URL         string `json:"url"`
	Area        string `json:"area"`
	Size        string `json:"size,omitempty"`
	Rooms       string `json:"rooms,omitempty"`
	Description string `json:"description,omitempty"`
}

// Kitchen is the layout of a listing's kitchen.
type Kitchen string

const (
	KitchenClosed Kitchen = "closed"
	KitchenOpen   Kitchen = "open"
)

// PropertyKind separates individual houses from apartments.
type PropertyKind string

const (
	KindUnknown   PropertyKind = ""
	KindHouse     PropertyKind = "house"
	KindApartment PropertyKind = "apartment"
)

// NormalizedListing is a RawListing with its free-text fields parsed.
// Score and Notes are filled in by the ranker.
type NormalizedListing struct {
	Source    Source         `json:"source"`
	Title     string         `json:"title"`
	PriceEUR  Field[float64] `json:"price_eur"`
	Sqm       Field[float64] `json:"sqm"`
	Rooms     Field[int]     `json:"rooms"`
	Bathrooms Field[int]     `json:"bathrooms"`
	YearBuilt Field[int]     `json:"year_built"`
	Kitchen   Field[Kitchen] `json:"kitchen_type"`
	Kind      PropertyKind   `json:"property_kind,omitempty"`
	ForRent   bool           `json:"for_rent,omitempty"`
	Area      string         `json:"area"`
	URL       string         `json:"url"`
	Score     int            `json:"score"`
	Notes     string         `json:"notes,omitempty"`
}

// FilterCriteria is the fixed configuration a run filters and scores against.
type FilterCriteria struct {
	MaxPrice             float64  `yaml:"max_price" json:"max_price"`
	MinSqm               float64  `yaml:"min_sqm" json:"min_sqm"`
	MinRooms             int      `yaml:"min_rooms" json:"min_rooms"`
	MinBathrooms         int      `yaml:"min_bathrooms" json:"min_bathrooms"`
	RequireClosedKitchen bool     `yaml:"require_closed_kitchen" json:"require_closed_kitchen"`
	Areas                []string `yaml:"areas" json:"areas"`
	PremiumAreas         []string `yaml:"premium_areas" json:"premium_areas"`
	FavorablePrice       float64  `yaml:"favorable_price" json:"favorable_price"`
	PriorityYear         int      `yaml:"priority_year" json:"priority_year"`
}

// SourceResult is what one source contributed to a run.
type SourceResult struct {
	Source   Source
	Listings []RawListing
	Err      error
	Elapsed  time.Duration
}

// RunReport holds the counters of a single pipeline run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	Finished   time.Time
	PerSource  map[Source]int
	FailedSrc  []Source
	Scraped    int
	Fresh      int
	Passed     int
	Shown      int
	DigestSent bool
	StateSaved bool
	SeenTotal  int
	TopScored  []NormalizedListing
	ByArea     map[string]int
}
