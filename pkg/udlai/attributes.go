package udlai

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
)

// Attributes lists every attribute the token has access to. Each list
// element is flattened independently; the table's column set is the
// union of flattened keys and rows keep server order.
func (c *httpClient) Attributes(ctx context.Context) (*Table, error) {
	var raw []map[string]any
	if err := c.get(ctx, "/attributes/", &raw); err != nil {
		return nil, eris.Wrap(err, "udlai: list attributes")
	}

	records := make([]Record, len(raw))
	for i, obj := range raw {
		records[i] = Flatten(obj)
	}

	return tableFromRecords(records), nil
}

// AttributeDetail fetches a single attribute's metadata, flattened into
// one record. A "not found" response surfaces as an *APIError carrying
// the server's wording.
func (c *httpClient) AttributeDetail(ctx context.Context, attributeID int) (Record, error) {
	var raw map[string]any
	if err := c.get(ctx, fmt.Sprintf("/attributes/%d/", attributeID), &raw); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("udlai: attribute %d", attributeID))
	}

	return Flatten(raw), nil
}
