package udlai

import (
	"context"

	"github.com/rotisserie/eris"
)

// StructuredAddress is an input address split into its four components.
// All four fields are required by the API; no other fields exist.
type StructuredAddress struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	Postcode string `json:"postcode"`
	Town     string `json:"town"`
}

// GeocodedAddress is the address as known in the database, with the
// resolved location and a match score in [0, 1] where 1 is an exact
// match and 0 is no match.
type GeocodedAddress struct {
	Street    string  `json:"street"`
	Number    string  `json:"number"`
	Postcode  string  `json:"postcode"`
	Town      string  `json:"town"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Score     float64 `json:"score"`
}

type structuredGeocodeRequest struct {
	Addresses []StructuredAddress `json:"addresses"`
}

type unstructuredAddress struct {
	Address string `json:"address"`
}

type unstructuredGeocodeRequest struct {
	Addresses []unstructuredAddress `json:"addresses"`
}

type geocodeResponse struct {
	Addresses []struct {
		Address GeocodedAddress `json:"address"`
	} `json:"addresses"`
}

func (r geocodeResponse) results() []GeocodedAddress {
	out := make([]GeocodedAddress, len(r.Addresses))
	for i, a := range r.Addresses {
		out[i] = a.Address
	}
	return out
}

// GeocodeStructured geocodes addresses given as street/number/postcode/
// town records, returning one result per input in input order.
func (c *httpClient) GeocodeStructured(ctx context.Context, addrs []StructuredAddress) ([]GeocodedAddress, error) {
	var resp geocodeResponse
	if err := c.post(ctx, "/geocoding/structured/", structuredGeocodeRequest{Addresses: addrs}, &resp); err != nil {
		return nil, eris.Wrap(err, "udlai: geocode structured")
	}

	return resp.results(), nil
}

// GeocodeUnstructured geocodes free-text address strings, returning one
// result per input in input order.
func (c *httpClient) GeocodeUnstructured(ctx context.Context, addresses []string) ([]GeocodedAddress, error) {
	body := unstructuredGeocodeRequest{
		Addresses: make([]unstructuredAddress, len(addresses)),
	}
	for i, a := range addresses {
		body.Addresses[i] = unstructuredAddress{Address: a}
	}

	var resp geocodeResponse
	if err := c.post(ctx, "/geocoding/unstructured/", body, &resp); err != nil {
		return nil, eris.Wrap(err, "udlai: geocode unstructured")
	}

	return resp.results(), nil
}

// GeocodeTable renders geocoding results as a generic Table.
func GeocodeTable(addrs []GeocodedAddress) *Table {
	t := &Table{
		Columns: []string{"street", "number", "postcode", "town", "latitude", "longitude", "score"},
	}
	for _, a := range addrs {
		t.Rows = append(t.Rows, Record{
			"street":    a.Street,
			"number":    a.Number,
			"postcode":  a.Postcode,
			"town":      a.Town,
			"latitude":  a.Latitude,
			"longitude": a.Longitude,
			"score":     a.Score,
		})
	}
	return t
}
