package geo

import "fmt"

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within the latitude/longitude ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// String formats the point as "lat,lon", the form most providers accept as a query.
func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lon)
}

// BoundingBox is a rectangular lat/lon region. Bounds are inclusive.
type BoundingBox struct {
	MinLat float64 `yaml:"minLat"`
	MaxLat float64 `yaml:"maxLat"`
	MinLon float64 `yaml:"minLon"`
	MaxLon float64 `yaml:"maxLon"`
}

// Contains reports whether p is inside the box, boundaries included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Jurisdiction is the single region this service restricts its results to.
type Jurisdiction struct {
	Name        string      `yaml:"name"`
	Country     string      `yaml:"country"`
	CountryCode string      `yaml:"countryCode"`
	Bounds      BoundingBox `yaml:"bounds"`
	// Reference biases provider ranking. It never filters results.
	Reference Point `yaml:"reference"`
}

// Contains reports whether p falls inside the jurisdiction's bounding box.
func (j Jurisdiction) Contains(p Point) bool {
	return j.Bounds.Contains(p)
}

// Victoria returns the jurisdiction for Victoria, Australia, centred on Melbourne.
func Victoria() Jurisdiction {
	return Jurisdiction{
		Name:        "Victoria",
		Country:     "Australia",
		CountryCode: "au",
		Bounds: BoundingBox{
			MinLat: -39.2,
			MaxLat: -34.0,
			MinLon: 141.0,
			MaxLon: 150.0,
		},
		Reference: Point{Lat: -37.8136, Lon: 144.9631},
	}
}
