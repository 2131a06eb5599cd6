// Command genmock writes deterministic mock accident and bike-lane GeoJSON
// documents around downtown Montreal for local development. The same seed
// always produces byte-identical files.
//
// Usage:
//
//	go run ./cmd/genmock -accidents bikes.geojson -lanes reseau_cyclable.json
//	go run ./cmd/genmock -count 5000 -seed 7
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

// Downtown Montreal, roughly Plateau to Old Port.
var area = orb.Bound{
	Min: orb.Point{-73.62, 45.49},
	Max: orb.Point{-73.54, 45.54},
}

type options struct {
	accidentsOut string
	lanesOut     string
	count        int
	lanes        int
	seed         uint64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.accidentsOut, "accidents", "bikes.geojson", "output path for the accident document")
	flag.StringVar(&opts.lanesOut, "lanes", "reseau_cyclable.json", "output path for the lane document")
	flag.IntVar(&opts.count, "count", 1500, "number of accidents")
	flag.IntVar(&opts.lanes, "lane-count", 120, "number of lane segments")
	flag.Uint64Var(&opts.seed, "seed", 2012, "random seed")
	flag.Parse()

	if opts.count < 0 || opts.lanes < 0 {
		return fmt.Errorf("-count and -lane-count must be non-negative")
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	lanes := generateLanes(rng, opts.lanes)
	accidents := generateAccidents(rng, opts.count, lanes)

	if err := writeCollection(opts.accidentsOut, accidents); err != nil {
		return err
	}
	if err := writeCollection(opts.lanesOut, lanes); err != nil {
		return err
	}
	log.Printf("wrote %d accidents to %s and %d lanes to %s",
		len(accidents.Features), opts.accidentsOut, len(lanes.Features), opts.lanesOut)
	return nil
}

// Raw GRAVITE values as they appear in the open data, weighted toward
// property damage the way real years are.
var severities = []struct {
	text   string
	weight int
}{
	{"Dommages matériels seulement", 55},
	{"Dommages matériels inférieurs au seuil de rapportage", 10},
	{"Léger", 30},
	{"Grave", 4},
	{"Mortel", 1},
}

var (
	weatherCodes  = []any{11, 11, 11, 11, 12, 13, 13, 14, 14, 15, 16, 17, 18, 19, 99, "11", nil}
	lightingCodes = []any{1, 1, 1, 1, 2, 3, 3, 4, "1", nil}
)

func generateLanes(rng *rand.Rand, n int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range n {
		start := randomPoint(rng)
		line := orb.LineString{start}
		// Montreal's street grid runs about 35 degrees off north; approximate
		// it with short axis-aligned hops.
		for range 2 + rng.IntN(5) {
			prev := line[len(line)-1]
			step := 0.002 + rng.Float64()*0.004
			next := prev
			if rng.IntN(2) == 0 {
				next[0] += step
			} else {
				next[1] += step * 0.7
			}
			line = append(line, next)
		}
		f := geojson.NewFeature(line)
		f.ID = i + 1
		f.Properties["ID_CYCL"] = i + 1
		f.Properties["TYPE_VOIE"] = 1 + rng.IntN(8)
		f.Properties["SAISONS4"] = rng.IntN(2) == 0
		fc.Append(f)
	}
	return fc
}

func generateAccidents(rng *rand.Rand, n int, lanes *geojson.FeatureCollection) *geojson.FeatureCollection {
	total := 0
	for _, s := range severities {
		total += s.weight
	}

	fc := geojson.NewFeatureCollection()
	for i := range n {
		var (
			pt     orb.Point
			onLane bool
		)
		// A third of accidents sit on a lane vertex.
		if len(lanes.Features) > 0 && rng.IntN(3) == 0 {
			line := lanes.Features[rng.IntN(len(lanes.Features))].Geometry.(orb.LineString)
			pt = line[rng.IntN(len(line))]
			onLane = true
		} else {
			pt = randomPoint(rng)
		}

		f := geojson.NewFeature(pt)
		f.Properties[domain.PropID] = fmt.Sprintf("SPVM _ %d _ %d", 2012+rng.IntN(10), 100000+i)
		f.Properties[domain.PropSeverity] = pickSeverity(rng, total)
		f.Properties[domain.PropWeather] = weatherCodes[rng.IntN(len(weatherCodes))]
		f.Properties[domain.PropLighting] = lightingCodes[rng.IntN(len(lightingCodes))]
		f.Properties[domain.PropBikeLane] = onLane
		fc.Append(f)
	}
	return fc
}

func pickSeverity(rng *rand.Rand, total int) string {
	n := rng.IntN(total)
	for _, s := range severities {
		if n < s.weight {
			return s.text
		}
		n -= s.weight
	}
	return severities[0].text
}

func randomPoint(rng *rand.Rand) orb.Point {
	return orb.Point{
		area.Min.Lon() + rng.Float64()*(area.Max.Lon()-area.Min.Lon()),
		area.Min.Lat() + rng.Float64()*(area.Max.Lat()-area.Min.Lat()),
	}
}

func writeCollection(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // fixture files are meant to be world-readable
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
