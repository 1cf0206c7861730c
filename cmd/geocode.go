package main

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/urbandatalab/udlai-go/pkg/udlai"
)

var geocodeCSVPath string

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocode addresses",
}

var geocodeStructuredCmd = &cobra.Command{
	Use:   "structured",
	Short: "Geocode a CSV of street,number,postcode,town records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addrs, err := readAddressCSV(geocodeCSVPath)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		results, err := client.GeocodeStructured(cmd.Context(), addrs)
		if err != nil {
			return err
		}

		return writeTable(udlai.GeocodeTable(results))
	},
}

var geocodeUnstructuredCmd = &cobra.Command{
	Use:   "unstructured <address>...",
	Short: "Geocode free-text address strings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		results, err := client.GeocodeUnstructured(cmd.Context(), args)
		if err != nil {
			return err
		}

		return writeTable(udlai.GeocodeTable(results))
	},
}

// readAddressCSV parses a CSV whose header names the four address
// fields street, number, postcode and town, in any column order.
func readAddressCSV(path string) ([]udlai.StructuredAddress, error) {
	if path == "" {
		return nil, eris.New("--file is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open address file")
	}
	defer f.Close() //nolint:errcheck

	return parseAddressCSV(f)
}

func parseAddressCSV(r io.Reader) ([]udlai.StructuredAddress, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, eris.Wrap(err, "read CSV header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, want := range []string{"street", "number", "postcode", "town"} {
		if _, ok := cols[want]; !ok {
			return nil, eris.Errorf("address CSV is missing column %q", want)
		}
	}

	var addrs []udlai.StructuredAddress
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "read CSV row")
		}

		addrs = append(addrs, udlai.StructuredAddress{
			Street:   record[cols["street"]],
			Number:   record[cols["number"]],
			Postcode: record[cols["postcode"]],
			Town:     record[cols["town"]],
		})
	}

	if len(addrs) == 0 {
		return nil, eris.New("address CSV has no rows")
	}
	return addrs, nil
}

func init() {
	geocodeStructuredCmd.Flags().StringVar(&geocodeCSVPath, "file", "", "path to the address CSV")
	geocodeCmd.AddCommand(geocodeStructuredCmd)
	geocodeCmd.AddCommand(geocodeUnstructuredCmd)
	rootCmd.AddCommand(geocodeCmd)
}
