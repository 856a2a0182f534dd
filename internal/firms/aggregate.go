package firms

import (
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SkipReason names why a row contributed nothing to the directory.
type SkipReason string

// Skip reasons, checked in this order; a row is counted under the first that applies.
const (
	SkipMissingState SkipReason = "missing_state"
	SkipMissingCity  SkipReason = "missing_city"
	SkipMissingFirm  SkipReason = "missing_firm"
	SkipBadLatitude  SkipReason = "bad_latitude"
	SkipBadLongitude SkipReason = "bad_longitude"
)

// Stats summarizes a BuildNested pass.
type Stats struct {
	Rows    int
	Kept    int
	Skipped map[SkipReason]int
	// OutOfRange counts kept rows whose coordinates are not a valid point on
	// the globe. They are kept as-is.
	OutOfRange int
}

// TotalSkipped returns the number of rows dropped for any reason.
func (s Stats) TotalSkipped() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

type buildOptions struct {
	locale language.Tag
}

// Option configures BuildNested.
type Option func(*buildOptions)

// WithLocale sets the collation used to order firms within a city.
func WithLocale(tag language.Tag) Option {
	return func(o *buildOptions) {
		o.locale = tag
	}
}

func defaultOptions() buildOptions {
	return buildOptions{locale: language.English}
}

type cityAcc struct {
	coords [2]float64
	firms  []Firm
	byName map[string]int
}

type stateAcc struct {
	cities map[string]*cityAcc
}

// BuildNested groups rows into a Directory. Rows with a blank State, City or
// Firm Name, or a Latitude/Longitude that is not a finite number, are dropped
// and counted in Stats. A city keeps the coordinates of the first row that
// introduced it.
func BuildNested(rows []Row, opts ...Option) (*Directory, Stats) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stats := Stats{Skipped: make(map[SkipReason]int)}
	acc := make(map[string]*stateAcc)

	for _, r := range rows {
		stats.Rows++

		state := strings.TrimSpace(r[ColState])
		city := strings.TrimSpace(r[ColCity])
		firm := strings.TrimSpace(r[ColFirmName])
		pa := strings.TrimSpace(r[ColPracticeArea])
		lat, latOK := parseCoord(r[ColLatitude])
		lon, lonOK := parseCoord(r[ColLongitude])

		switch {
		case state == "":
			stats.Skipped[SkipMissingState]++
			continue
		case city == "":
			stats.Skipped[SkipMissingCity]++
			continue
		case firm == "":
			stats.Skipped[SkipMissingFirm]++
			continue
		case !latOK:
			stats.Skipped[SkipBadLatitude]++
			continue
		case !lonOK:
			stats.Skipped[SkipBadLongitude]++
			continue
		}

		stats.Kept++
		if !s2.LatLngFromDegrees(lat, lon).IsValid() {
			stats.OutOfRange++
		}

		st, ok := acc[state]
		if !ok {
			st = &stateAcc{cities: make(map[string]*cityAcc)}
			acc[state] = st
		}

		ct, ok := st.cities[city]
		if !ok {
			ct = &cityAcc{
				coords: [2]float64{lon, lat},
				byName: make(map[string]int),
			}
			st.cities[city] = ct
		}

		idx, ok := ct.byName[firm]
		if !ok {
			idx = len(ct.firms)
			ct.firms = append(ct.firms, Firm{Name: firm, PracticeAreas: []string{}})
			ct.byName[firm] = idx
		}

		f := &ct.firms[idx]
		if pa != "" && !slices.Contains(f.PracticeAreas, pa) {
			f.PracticeAreas = append(f.PracticeAreas, pa)
		}
	}

	return finalize(acc, o), stats
}

// finalize rewrites the accumulator into key order. Firms are ordered by
// collation of their names; practice areas keep first-seen order.
func finalize(acc map[string]*stateAcc, o buildOptions) *Directory {
	coll := collate.New(o.locale)
	byName := func(a, b Firm) int {
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	}

	dir := &Directory{States: make([]State, 0, len(acc))}
	for _, stateName := range slices.Sorted(maps.Keys(acc)) {
		st := acc[stateName]
		out := State{Name: stateName, Cities: make([]City, 0, len(st.cities))}

		for _, cityName := range slices.Sorted(maps.Keys(st.cities)) {
			ct := st.cities[cityName]
			firms := make([]Firm, len(ct.firms))
			for i, f := range ct.firms {
				areas := make([]string, len(f.PracticeAreas))
				copy(areas, f.PracticeAreas)
				firms[i] = Firm{Name: f.Name, PracticeAreas: areas}
			}
			slices.SortStableFunc(firms, byName)

			out.Cities = append(out.Cities, City{
				Name:   cityName,
				Coords: ct.coords,
				Firms:  firms,
			})
		}
		dir.States = append(dir.States, out)
	}
	return dir
}

// decimalPattern matches plain decimal and exponent notation. Go literal
// forms such as hex floats, digit separators and Inf are not coordinates.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseCoord parses a trimmed decimal coordinate. Values that overflow to
// infinity are rejected and negative zero is folded to zero.
func parseCoord(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v == 0 {
		return 0, true
	}
	return v, true
}
