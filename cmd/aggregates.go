package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/urbandatalab/udlai-go/pkg/udlai"
)

var (
	aggregateGeometryPath string
	aggregateIDs          []int
	aggregateGrid         int
	aggregateIndexBy      string
)

var aggregatesCmd = &cobra.Command{
	Use:   "aggregates",
	Short: "Query zonal statistics over a polygon",
	Long:  "Compute min/max/mean/median/std/sum for attributes over a GeoJSON Polygon or MultiPolygon.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(aggregateIDs) == 0 {
			return eris.New("at least one --id is required")
		}

		geometry, err := readGeometry(aggregateGeometryPath)
		if err != nil {
			return err
		}

		indexBy, err := parseIndexBy(aggregateIndexBy)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		table, err := client.Aggregates(cmd.Context(), geometry, aggregateIDs,
			udlai.WithIndexBy(indexBy),
			udlai.WithGridSize(udlai.GridSize(aggregateGrid)))
		if err != nil {
			return err
		}

		return writeTable(table.AsTable())
	},
}

// readGeometry loads a GeoJSON geometry mapping from a file. A Feature
// wrapper is unwrapped to its geometry.
func readGeometry(path string) (udlai.Geometry, error) {
	if path == "" {
		return nil, eris.New("--geometry is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read geometry file")
	}

	var geometry udlai.Geometry
	if err := json.Unmarshal(data, &geometry); err != nil {
		return nil, eris.Wrap(err, "parse geometry file")
	}

	if geometry["type"] == "Feature" {
		inner, ok := geometry["geometry"].(map[string]any)
		if !ok {
			return nil, eris.New("feature has no geometry")
		}
		geometry = inner
	}

	return geometry, nil
}

func init() {
	aggregatesCmd.Flags().StringVar(&aggregateGeometryPath, "geometry", "", "path to a GeoJSON geometry or feature file")
	aggregatesCmd.Flags().IntSliceVar(&aggregateIDs, "id", nil, "attribute id (repeatable)")
	aggregatesCmd.Flags().IntVar(&aggregateGrid, "grid", 25, "grid size: 25, 75, 225 or 675")
	aggregatesCmd.Flags().StringVar(&aggregateIndexBy, "index-by", "id", "key results by attribute id or name")
	rootCmd.AddCommand(aggregatesCmd)
}
