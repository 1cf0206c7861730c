package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbandatalab/udlai-go/pkg/udlai"
)

func TestPairCoordinates(t *testing.T) {
	coords, err := pairCoordinates([]float64{47.37, 48.37}, []float64{8.54, 8.94})
	require.NoError(t, err)
	assert.Equal(t, []udlai.Coordinate{
		{Latitude: 47.37, Longitude: 8.54},
		{Latitude: 48.37, Longitude: 8.94},
	}, coords)
}

func TestPairCoordinatesMismatch(t *testing.T) {
	_, err := pairCoordinates([]float64{47.37, 48.37}, []float64{8.54})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 latitudes but 1 longitudes")

	_, err = pairCoordinates(nil, nil)
	require.Error(t, err)
}

func TestParseIndexBy(t *testing.T) {
	by, err := parseIndexBy("id")
	require.NoError(t, err)
	assert.Equal(t, udlai.IndexByID, by)

	by, err = parseIndexBy("name")
	require.NoError(t, err)
	assert.Equal(t, udlai.IndexByName, by)

	_, err = parseIndexBy("slug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid --index-by "slug"`)
}

func TestParseAddressCSV(t *testing.T) {
	in := strings.NewReader(
		"street,number,postcode,town\n" +
			"Riedgrabenweg,15,8050,Zurich\n" +
			"Butzenstrasse,35,8038,Zurich\n")

	addrs, err := parseAddressCSV(in)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, udlai.StructuredAddress{
		Street: "Riedgrabenweg", Number: "15", Postcode: "8050", Town: "Zurich",
	}, addrs[0])
}

func TestParseAddressCSVColumnOrder(t *testing.T) {
	in := strings.NewReader(
		"town,street,postcode,number\n" +
			"Zurich,Riedgrabenweg,8050,15\n")

	addrs, err := parseAddressCSV(in)
	require.NoError(t, err)
	assert.Equal(t, "Riedgrabenweg", addrs[0].Street)
	assert.Equal(t, "15", addrs[0].Number)
}

func TestParseAddressCSVMissingColumn(t *testing.T) {
	in := strings.NewReader("street,number,town\nRiedgrabenweg,15,Zurich\n")

	_, err := parseAddressCSV(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "postcode"`)
}

func TestParseAddressCSVEmpty(t *testing.T) {
	in := strings.NewReader("street,number,postcode,town\n")

	_, err := parseAddressCSV(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestReadGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poly.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "Polygon", "coordinates": [[[8.53, 47.37], [8.54, 47.37], [8.54, 47.38], [8.53, 47.37]]]}`), 0o644))

	geometry, err := readGeometry(path)
	require.NoError(t, err)
	assert.Equal(t, "Polygon", geometry["type"])
}

func TestReadGeometryFeatureUnwrapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": []}}`), 0o644))

	geometry, err := readGeometry(path)
	require.NoError(t, err)
	assert.Equal(t, "Polygon", geometry["type"])
}

func TestRecordTable(t *testing.T) {
	table := recordTable(udlai.Record{"name": "obj_compact", "id": float64(22)})

	assert.Equal(t, []string{"field", "value"}, table.Columns)
	require.Len(t, table.Rows, 2)
	// Fields are sorted for stable output.
	assert.Equal(t, "id", table.Rows[0]["field"])
	assert.Equal(t, "name", table.Rows[1]["field"])
	assert.Equal(t, "obj_compact", table.Rows[1]["value"])
}
