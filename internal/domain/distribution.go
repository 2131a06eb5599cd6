package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrEmptyDataset is returned when a distribution is requested over zero
// records.
var ErrEmptyDataset = errors.New("no records to aggregate")

// percentPlaces is the number of decimal places kept on percentages.
const percentPlaces = 1

var hundred = decimal.NewFromInt(100)

// Bucket is one label's share of a distribution.
type Bucket struct {
	Label   string  `json:"label" yaml:"label"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Distribution is the breakdown of one attribute across a record set.
// Buckets follow the attribute's display order and omit labels that never
// occur. Total counts every record, fallback labels included.
type Distribution struct {
	Attribute Attribute `json:"attribute" yaml:"attribute"`
	Total     int       `json:"total" yaml:"total"`
	Buckets   []Bucket  `json:"buckets" yaml:"buckets"`
}

// Aggregate tallies the attribute's label over records in a single pass.
// It returns ErrUnknownAttribute for an unsupported selector and
// ErrEmptyDataset when records is empty.
func Aggregate(records []AccidentRecord, attr Attribute) (Distribution, error) {
	if !attr.Valid() {
		return Distribution{}, fmt.Errorf("aggregate: %w: %q", ErrUnknownAttribute, string(attr))
	}
	if len(records) == 0 {
		return Distribution{}, fmt.Errorf("aggregate %s: %w", attr, ErrEmptyDataset)
	}

	counts := make(map[string]int, len(attr.Labels()))
	for i := range records {
		counts[attr.Label(records[i])]++
	}

	total := len(records)
	dist := Distribution{Attribute: attr, Total: total}
	for _, label := range attr.Labels() {
		c, ok := counts[label]
		if !ok {
			continue
		}
		dist.Buckets = append(dist.Buckets, Bucket{
			Label:   label,
			Count:   c,
			Percent: Percent(c, total),
		})
	}
	return dist, nil
}

// Percent returns count/total*100 rounded half away from zero to one
// decimal place. total must be positive.
func Percent(count, total int) float64 {
	p := decimal.NewFromInt(int64(count)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(total)), percentPlaces)
	f, _ := p.Float64()
	return f
}

// Counts returns the label counts as a map.
func (d Distribution) Counts() map[string]int {
	m := make(map[string]int, len(d.Buckets))
	for _, b := range d.Buckets {
		m[b.Label] = b.Count
	}
	return m
}

// Lookup returns the bucket for label.
func (d Distribution) Lookup(label string) (Bucket, bool) {
	for _, b := range d.Buckets {
		if b.Label == label {
			return b, true
		}
	}
	return Bucket{}, false
}

// Lines renders one "Label: 25.0% (1)" line per bucket.
func (d Distribution) Lines() []string {
	lines := make([]string, 0, len(d.Buckets))
	for _, b := range d.Buckets {
		lines = append(lines, fmt.Sprintf("%s: %.1f%% (%d)", b.Label, b.Percent, b.Count))
	}
	return lines
}

// FallbackCount returns how many records fell back to the attribute's
// default label.
func (d Distribution) FallbackCount() int {
	b, _ := d.Lookup(d.Attribute.FallbackLabel())
	return b.Count
}
