package udlai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Geometry is a raw GeoJSON geometry mapping (type, coordinates) for a
// Polygon or MultiPolygon area of interest.
type Geometry map[string]any

// GeometryFromGeom converts a go-geom geometry into its GeoJSON mapping
// form for an aggregate query.
func GeometryFromGeom(g geom.T) (Geometry, error) {
	data, err := geojson.Marshal(g)
	if err != nil {
		return nil, eris.Wrap(err, "udlai: encode geometry")
	}

	var m Geometry
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "udlai: decode geometry")
	}

	return m, nil
}

// GridSize is the aggregation grid cell size in meters.
type GridSize int

const (
	Grid25  GridSize = 25
	Grid75  GridSize = 75
	Grid225 GridSize = 225
	Grid675 GridSize = 675
)

func (g GridSize) valid() bool {
	switch g {
	case Grid25, Grid75, Grid225, Grid675:
		return true
	}
	return false
}

// param renders the grid size in the API's wire form, e.g. "grid25".
func (g GridSize) param() string {
	return fmt.Sprintf("grid%d", int(g))
}

// AggregateRow holds the six zonal statistics for one attribute, keyed
// by id or name per WithIndexBy. A nil statistic was not computed by
// the server; zero is never used as a missing marker.
type AggregateRow struct {
	Key    string
	Min    *float64
	Max    *float64
	Mean   *float64
	Median *float64
	Std    *float64
	Sum    *float64
}

// AggregateTable is the result of an aggregate query: one row per
// attribute with coverage, in server response order. Attributes without
// coverage over the queried geometry are absent.
type AggregateTable struct {
	Rows []AggregateRow
}

// AsTable renders the aggregate rows as a generic Table with an
// "attribute" key column and the six statistic columns.
func (t *AggregateTable) AsTable() *Table {
	out := &Table{
		Columns: []string{"attribute", "min", "max", "mean", "median", "std", "sum"},
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, Record{
			"attribute": row.Key,
			"min":       statCell(row.Min),
			"max":       statCell(row.Max),
			"mean":      statCell(row.Mean),
			"median":    statCell(row.Median),
			"std":       statCell(row.Std),
			"sum":       statCell(row.Sum),
		})
	}
	return out
}

// statCell turns a statistic into a table cell, nil when not computed.
func statCell(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type aggregateRequest struct {
	Geometry   Geometry         `json:"geometry"`
	Attributes []attributeParam `json:"attributes"`
	GridSize   string           `json:"grid_size"`
}

type aggregateResponse struct {
	Results []struct {
		Attribute  attributeRef   `json:"attribute"`
		Aggregates map[string]any `json:"aggregates"`
	} `json:"results"`
}

func (c *httpClient) Aggregates(ctx context.Context, geometry Geometry, attributeIDs []int, opts ...QueryOption) (*AggregateTable, error) {
	o := applyQueryOpts(opts)

	if !o.gridSize.valid() {
		return nil, eris.Errorf("udlai: invalid grid size %d (want 25, 75, 225 or 675)", int(o.gridSize))
	}

	body := aggregateRequest{
		Geometry:   geometry,
		Attributes: attributeParams(attributeIDs),
		GridSize:   o.gridSize.param(),
	}

	var resp aggregateResponse
	if err := c.post(ctx, "/aggregates/", body, &resp); err != nil {
		return nil, eris.Wrap(err, "udlai: query aggregates")
	}

	table := &AggregateTable{}
	for _, res := range resp.Results {
		row := AggregateRow{Key: o.key(res.Attribute)}
		for stat, dst := range map[string]**float64{
			"min":    &row.Min,
			"max":    &row.Max,
			"mean":   &row.Mean,
			"median": &row.Median,
			"std":    &row.Std,
			"sum":    &row.Sum,
		} {
			v, err := statValue(res.Aggregates, stat)
			if err != nil {
				return nil, eris.Wrap(err, fmt.Sprintf("udlai: aggregate %q for attribute %s", stat, row.Key))
			}
			*dst = v
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// statValue coerces one decoded statistic to a float. The API reports
// statistics as numbers but older deployments quoted them. An absent
// or null statistic yields nil rather than failing the row.
func statValue(aggregates map[string]any, stat string) (*float64, error) {
	v, ok := aggregates[stat]
	if !ok || v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case float64:
		return &val, nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, eris.Wrap(err, "parse numeric string")
		}
		return &f, nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, eris.Wrap(err, "parse number")
		}
		return &f, nil
	default:
		return nil, eris.Errorf("unexpected type %T", v)
	}
}
