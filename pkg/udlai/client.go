// Package udlai provides a client for the UDL.AI public geospatial API:
// attribute catalog lookup, point and polygon feature queries, and
// address geocoding. Responses are reshaped into flat, tabular results.
package udlai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.udl.ai/api/v1/public"

	// StagingBaseURL is the staging deployment root.
	StagingBaseURL = "https://dev-api.udl.ai/api/v1/public"
)

// Client defines the UDL.AI API operations.
type Client interface {
	// Attributes lists every attribute the token has access to,
	// one row per attribute with flattened metadata columns.
	Attributes(ctx context.Context) (*Table, error)

	// AttributeDetail fetches a single attribute's metadata as a
	// flattened record.
	AttributeDetail(ctx context.Context, attributeID int) (Record, error)

	// Features resolves attribute values at a single coordinate.
	Features(ctx context.Context, coord Coordinate, attributeIDs []int, opts ...QueryOption) (*FeatureRecord, error)

	// FeaturesMulti resolves attribute values at multiple coordinates,
	// one output row per input coordinate in input order.
	FeaturesMulti(ctx context.Context, coords []Coordinate, attributeIDs []int, opts ...QueryOption) (*FeatureTable, error)

	// Aggregates resolves zonal statistics for one or more attributes
	// over a polygon or multi-polygon area.
	Aggregates(ctx context.Context, geometry Geometry, attributeIDs []int, opts ...QueryOption) (*AggregateTable, error)

	// GeocodeStructured geocodes addresses split into street, number,
	// postcode and town fields.
	GeocodeStructured(ctx context.Context, addrs []StructuredAddress) ([]GeocodedAddress, error)

	// GeocodeUnstructured geocodes free-text address strings.
	GeocodeUnstructured(ctx context.Context, addresses []string) ([]GeocodedAddress, error)
}

// Coordinate is a WGS84 latitude/longitude pair. Validation happens
// server-side.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IndexBy selects which field of a returned attribute descriptor keys
// the output: the stable integer id (rendered in decimal) or the
// attribute name.
type IndexBy string

const (
	IndexByID   IndexBy = "id"
	IndexByName IndexBy = "name"
)

// QueryOption configures a feature or aggregate query.
type QueryOption func(*queryOpts)

type queryOpts struct {
	indexBy  IndexBy
	gridSize GridSize
}

// WithIndexBy sets the output key projection. Default is IndexByID.
func WithIndexBy(by IndexBy) QueryOption {
	return func(o *queryOpts) {
		o.indexBy = by
	}
}

// WithGridSize sets the aggregation grid size. Default is Grid25.
// Ignored by feature queries.
func WithGridSize(size GridSize) QueryOption {
	return func(o *queryOpts) {
		o.gridSize = size
	}
}

func applyQueryOpts(opts []QueryOption) queryOpts {
	o := queryOpts{indexBy: IndexByID, gridSize: Grid25}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// key projects an attribute descriptor onto the configured output key.
func (o queryOpts) key(ref attributeRef) string {
	if o.indexBy == IndexByName {
		return ref.Name
	}
	return strconv.Itoa(ref.ID)
}

// attributeRef is the attribute descriptor echoed in query responses.
type attributeRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// attributeParam identifies a requested attribute in query bodies.
type attributeParam struct {
	ID int `json:"id"`
}

func attributeParams(ids []int) []attributeParam {
	params := make([]attributeParam, len(ids))
	for i, id := range ids {
		params[i] = attributeParam{ID: id}
	}
	return params
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default (production) base URL. Use
// StagingBaseURL to target the staging deployment.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a client-side requests-per-second limit.
// A burst of at least one request is always allowed so fractional
// rates throttle instead of rejecting. Default is unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		} else {
			c.limiter = nil
		}
	}
}

// WithLogger sets the logger used for coverage diagnostics.
// Defaults to the global zap logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *httpClient) {
		c.log = log
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient creates a new UDL.AI client authenticated with the given
// API token.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) logger() *zap.Logger {
	if c.log != nil {
		return c.log
	}
	return zap.L()
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return eris.Wrap(err, "rate limit")
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return translateError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return eris.Wrap(err, "decode response")
		}
	}

	return nil
}
