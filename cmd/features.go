package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/urbandatalab/udlai-go/pkg/udlai"
)

var (
	featureLats    []float64
	featureLons    []float64
	featureIDs     []int
	featureIndexBy string
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Query attribute values at one or more coordinates",
	Long: "Query attribute values at coordinates. One --lat/--lon pair runs a " +
		"single-point query; several pairs run a batch query with one output " +
		"row per coordinate.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		coords, err := pairCoordinates(featureLats, featureLons)
		if err != nil {
			return err
		}
		if len(featureIDs) == 0 {
			return eris.New("at least one --id is required")
		}

		indexBy, err := parseIndexBy(featureIndexBy)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		if len(coords) == 1 {
			rec, err := client.Features(cmd.Context(), coords[0], featureIDs, udlai.WithIndexBy(indexBy))
			if err != nil {
				return err
			}
			logWarnings(rec.Warnings)
			return writeTable(recordTable(rec.Values))
		}

		table, err := client.FeaturesMulti(cmd.Context(), coords, featureIDs, udlai.WithIndexBy(indexBy))
		if err != nil {
			return err
		}
		logWarnings(table.Warnings)
		return writeTable(&table.Table)
	},
}

// pairCoordinates zips equal-length latitude and longitude lists.
func pairCoordinates(lats, lons []float64) ([]udlai.Coordinate, error) {
	if len(lats) == 0 {
		return nil, eris.New("at least one --lat/--lon pair is required")
	}
	if len(lats) != len(lons) {
		return nil, eris.Errorf("got %d latitudes but %d longitudes", len(lats), len(lons))
	}

	coords := make([]udlai.Coordinate, len(lats))
	for i := range lats {
		coords[i] = udlai.Coordinate{Latitude: lats[i], Longitude: lons[i]}
	}
	return coords, nil
}

func parseIndexBy(s string) (udlai.IndexBy, error) {
	switch udlai.IndexBy(s) {
	case udlai.IndexByID, udlai.IndexByName:
		return udlai.IndexBy(s), nil
	}
	return "", eris.Errorf("invalid --index-by %q (want id or name)", s)
}

func init() {
	featuresCmd.Flags().Float64SliceVar(&featureLats, "lat", nil, "latitude (repeatable)")
	featuresCmd.Flags().Float64SliceVar(&featureLons, "lon", nil, "longitude (repeatable)")
	featuresCmd.Flags().IntSliceVar(&featureIDs, "id", nil, "attribute id (repeatable)")
	featuresCmd.Flags().StringVar(&featureIndexBy, "index-by", "id", "key results by attribute id or name")
	rootCmd.AddCommand(featuresCmd)
}
