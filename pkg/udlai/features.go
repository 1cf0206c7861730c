package udlai

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Coverage warnings. These are diagnostics, not errors: the call still
// succeeds and returns a (possibly empty or nil-filled) result.
const (
	WarnOutsideCoverage     = "location outside coverage"
	WarnSomeOutsideCoverage = "some locations outside coverage"
)

// FeatureRecord is the result of a single-coordinate feature query.
// Values is keyed by the attribute id or name per WithIndexBy. An empty
// Values with WarnOutsideCoverage in Warnings means the coordinate is
// not covered by the database.
type FeatureRecord struct {
	Coordinate Coordinate
	Values     Record
	Warnings   []string
}

// FeatureTable is the result of a multi-coordinate feature query: one
// row per input coordinate, in input order, with "latitude" and
// "longitude" columns plus one column per attribute key. Rows without
// coverage hold nil in every attribute column.
type FeatureTable struct {
	Table
	Warnings []string
}

type featureRequest struct {
	Coordinates Coordinate       `json:"coordinates"`
	Attributes  []attributeParam `json:"attributes"`
}

type featureValue struct {
	Attribute attributeRef `json:"attribute"`
	Value     any          `json:"value"`
}

// featureResponse also carries error/details because the endpoint can
// report an application error inside a 200 body.
type featureResponse struct {
	Error   string         `json:"error"`
	Details []string       `json:"details"`
	Values  []featureValue `json:"values"`
}

func (c *httpClient) Features(ctx context.Context, coord Coordinate, attributeIDs []int, opts ...QueryOption) (*FeatureRecord, error) {
	o := applyQueryOpts(opts)

	body := featureRequest{
		Coordinates: coord,
		Attributes:  attributeParams(attributeIDs),
	}

	var resp featureResponse
	if err := c.post(ctx, "/features/", body, &resp); err != nil {
		return nil, eris.Wrap(err, "udlai: query features")
	}

	if resp.Error != "" {
		if len(resp.Details) > 0 {
			return nil, eris.New("udlai: query features: " + resp.Details[0])
		}
		return nil, eris.New("udlai: query features: " + resp.Error)
	}

	rec := &FeatureRecord{
		Coordinate: coord,
		Values:     make(Record, len(resp.Values)),
	}

	if len(resp.Values) == 0 {
		rec.Warnings = append(rec.Warnings, WarnOutsideCoverage)
		c.logger().Debug("udlai: location outside coverage",
			zap.Float64("latitude", coord.Latitude),
			zap.Float64("longitude", coord.Longitude))
		return rec, nil
	}

	for _, v := range resp.Values {
		rec.Values[o.key(v.Attribute)] = v.Value
	}

	return rec, nil
}

type multiFeatureRequest struct {
	Coordinates []Coordinate     `json:"coordinates"`
	Attributes  []attributeParam `json:"attributes"`
}

type multiFeatureResponse struct {
	Results []struct {
		Coordinates Coordinate     `json:"coordinates"`
		Values      []featureValue `json:"values"`
	} `json:"results"`
}

func (c *httpClient) FeaturesMulti(ctx context.Context, coords []Coordinate, attributeIDs []int, opts ...QueryOption) (*FeatureTable, error) {
	o := applyQueryOpts(opts)

	body := multiFeatureRequest{
		Coordinates: coords,
		Attributes:  attributeParams(attributeIDs),
	}

	var resp multiFeatureResponse
	if err := c.post(ctx, "/features/multi/", body, &resp); err != nil {
		return nil, eris.Wrap(err, "udlai: query features multi")
	}

	// Attribute column set. Indexing by id seeds the full requested set
	// so the schema stays predictable even when every row misses
	// coverage. Names are only knowable from matched rows, so indexing
	// by name collects the union of observed names in response order.
	seen := make(map[string]struct{})
	var keys []string
	if o.indexBy != IndexByName {
		for _, id := range attributeIDs {
			k := o.key(attributeRef{ID: id})
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	for _, pt := range resp.Results {
		for _, v := range pt.Values {
			k := o.key(v.Attribute)
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}

	table := &FeatureTable{
		Table: Table{Columns: append([]string{"latitude", "longitude"}, keys...)},
	}

	missing := false
	for _, pt := range resp.Results {
		row := Record{
			"latitude":  pt.Coordinates.Latitude,
			"longitude": pt.Coordinates.Longitude,
		}
		for _, k := range keys {
			row[k] = nil
		}
		if len(pt.Values) == 0 {
			missing = true
		}
		for _, v := range pt.Values {
			row[o.key(v.Attribute)] = v.Value
		}
		table.Rows = append(table.Rows, row)
	}

	// One aggregate warning per call, not per row.
	if missing {
		table.Warnings = append(table.Warnings, WarnSomeOutsideCoverage)
		c.logger().Debug("udlai: some locations outside coverage",
			zap.Int("locations", len(coords)))
	}

	return table, nil
}
