// Package firms groups a flat firm-location export into a State → City → Firm lookup document.
package firms

// Column names expected in the input header.
const (
	ColState        = "State"
	ColCity         = "City"
	ColPracticeArea = "Practice Area"
	ColFirmName     = "Firm Name"
	ColLatitude     = "Latitude"
	ColLongitude    = "Longitude"
)

// Row is one input record keyed by column name.
type Row map[string]string

// Firm is a practice listed at a city, with its distinct practice areas in first-seen order.
type Firm struct {
	Name          string   `json:"name"`
	PracticeAreas []string `json:"practiceAreas"`
}

// City holds the coordinates of the first row that introduced it and the firms located there.
type City struct {
	Name   string
	Coords [2]float64 // [longitude, latitude]
	Firms  []Firm
}

// State holds its cities in key order.
type State struct {
	Name   string
	Cities []City
}

// Directory is the finalized lookup. States and their cities are kept in
// ascending key order and encode as JSON objects in that order.
type Directory struct {
	States []State
}

// Counts returns the number of states, cities, and firms in the directory.
func (d *Directory) Counts() (states, cities, firms int) {
	states = len(d.States)
	for _, s := range d.States {
		cities += len(s.Cities)
		for _, c := range s.Cities {
			firms += len(c.Firms)
		}
	}
	return states, cities, firms
}
