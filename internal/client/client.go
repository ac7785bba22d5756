// Package client provides a typed HTTP client for the BaseFinder API.
// It is used by the interactive coordinator and by e2e tests; external
// tooling can import it as well.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/basefinder/basefinder-be/internal/core/domain"
)

const defaultTimeout = 30 * time.Second

// Client talks to a BaseFinder API server.
type Client struct {
	baseURL    string
	token      string
	user       string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUser sets the acting user sent in the X-User header. The server
// records it in audit fields (added_by, deleted_by, taken logs).
func WithUser(user string) Option {
	return func(c *Client) { c.user = user }
}

// New creates a client for the API at baseURL, e.g. "http://localhost:8080".
// The token is sent as a Bearer credential on every request.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// ListResponse is the paginated envelope returned by List.
type ListResponse struct {
	Samples    []domain.Sample `json:"samples"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalCount int64           `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
}

// ListOptions narrows a List call. Zero values are omitted from the query.
type ListOptions struct {
	Page         int
	Limit        int
	Search       string
	Buyer        string
	Item         string
	Status       string
	Availability string
	Shelf        int
	Division     int
	SortBy       string
	SortOrder    string
}

// MutationResult is the envelope returned by position-shift and
// conflict-resolution operations.
type MutationResult struct {
	Success       bool   `json:"success"`
	ModifiedCount int64  `json:"modifiedCount"`
	Message       string `json:"message"`
}

// AvailabilityResult is the envelope returned by CheckPositionAvailability.
type AvailabilityResult struct {
	IsPositionEmpty bool   `json:"isPositionEmpty"`
	Message         string `json:"message"`
}

// ConflictsResult is the envelope returned by FindConflicts.
type ConflictsResult struct {
	Message   string                 `json:"message"`
	Conflicts []domain.ConflictGroup `json:"conflicts"`
}

// SampleInput is the request body for Create and Update.
type SampleInput struct {
	Style       string     `json:"style"`
	Item        string     `json:"item"`
	Buyer       string     `json:"buyer,omitempty"`
	NoOfSamples int        `json:"no_of_sample,omitempty"`
	Comments    string     `json:"comments,omitempty"`
	SampleDate  *time.Time `json:"sample_date,omitempty"`
	Shelf       int        `json:"shelf"`
	Division    int        `json:"division"`
	Position    int        `json:"position"`
	Status      string     `json:"status,omitempty"`
	AddedBy     string     `json:"added_by,omitempty"`
}

// List fetches a page of samples.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResponse, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Buyer != "" {
		q.Set("buyer", opts.Buyer)
	}
	if opts.Item != "" {
		q.Set("item", opts.Item)
	}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Availability != "" {
		q.Set("availability", opts.Availability)
	}
	if opts.Shelf > 0 {
		q.Set("shelf", strconv.Itoa(opts.Shelf))
	}
	if opts.Division > 0 {
		q.Set("division", strconv.Itoa(opts.Division))
	}
	if opts.SortBy != "" {
		q.Set("sort", opts.SortBy)
	}
	if opts.SortOrder != "" {
		q.Set("order", opts.SortOrder)
	}

	var out ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/samples?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single sample by ID.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (*domain.Sample, error) {
	var out domain.Sample
	if err := c.do(ctx, http.MethodGet, "/api/v1/samples/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a new sample and returns the stored record.
func (c *Client) Create(ctx context.Context, input SampleInput) (*domain.Sample, error) {
	var out domain.Sample
	if err := c.do(ctx, http.MethodPost, "/api/v1/samples", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the editable fields of a sample.
func (c *Client) Update(ctx context.Context, id uuid.UUID, input SampleInput) error {
	return c.do(ctx, http.MethodPut, "/api/v1/samples/"+id.String(), input, nil)
}

// Search runs a free-text search across style, item, buyer and comments.
func (c *Client) Search(ctx context.Context, term string) ([]domain.Sample, error) {
	var out struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    []domain.Sample `json:"data"`
	}
	path := "/api/v1/samples/search/" + url.PathEscape(term)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SamplesByLocation lists the samples in one shelf/division, ordered by
// position.
func (c *Client) SamplesByLocation(ctx context.Context, shelf, division int) ([]domain.Sample, error) {
	var out struct {
		Samples []domain.Sample `json:"samples"`
	}
	path := fmt.Sprintf("/api/v1/samples-by-location?shelf=%d&division=%d", shelf, division)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Samples, nil
}

// ListDeleted lists soft-deleted samples.
func (c *Client) ListDeleted(ctx context.Context) ([]domain.Sample, error) {
	var out struct {
		Samples []domain.Sample `json:"samples"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/samples/deleted-samples", nil, &out); err != nil {
		return nil, err
	}
	return out.Samples, nil
}

// Take marks a sample as taken out of the warehouse.
func (c *Client) Take(ctx context.Context, id uuid.UUID, takenBy, purpose string) error {
	body := map[string]string{
		"taken_by": takenBy,
		"purpose":  purpose,
	}
	return c.do(ctx, http.MethodPut, "/api/v1/samples/"+id.String()+"/take", body, nil)
}

// PutBack returns a taken sample to the given position in its original
// shelf/division.
func (c *Client) PutBack(ctx context.Context, id uuid.UUID, position int, returnedBy, returnPurpose string) error {
	body := map[string]interface{}{
		"position":       position,
		"returned_by":    returnedBy,
		"return_purpose": returnPurpose,
	}
	return c.do(ctx, http.MethodPut, "/api/v1/samples/putback/"+id.String(), body, nil)
}

// Delete soft-deletes a sample. When reducePositions is true the server
// closes the gap left behind by shifting later positions down.
func (c *Client) Delete(ctx context.Context, id uuid.UUID, reducePositions bool) error {
	path := "/api/v1/samples/" + id.String()
	if reducePositions {
		path += "?reducePositions=true"
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Restore brings a soft-deleted sample back at the given position.
func (c *Client) Restore(ctx context.Context, id uuid.UUID, position int, restoredBy string) error {
	body := map[string]interface{}{
		"position":    position,
		"restored_by": restoredBy,
	}
	return c.do(ctx, http.MethodPut, "/api/v1/samples/deleted-samples/restore/"+id.String(), body, nil)
}

// PermanentDelete removes a sample row entirely.
func (c *Client) PermanentDelete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/samples/permanent-delete/"+id.String(), nil, nil)
}

// CheckPositionAvailability reports whether a slot is free.
func (c *Client) CheckPositionAvailability(ctx context.Context, shelf, division, position int) (*AvailabilityResult, error) {
	var out AvailabilityResult
	path := fmt.Sprintf("/api/v1/samples/check-position-availability?shelf=%d&division=%d&position=%d",
		shelf, division, position)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShiftPositions increments the position of every sample at or after
// currentPosition in the given shelf/division.
func (c *Client) ShiftPositions(ctx context.Context, shelf, division, currentPosition int) (*MutationResult, error) {
	body := map[string]int{
		"shelf":           shelf,
		"division":        division,
		"currentPosition": currentPosition,
	}
	var out MutationResult
	if err := c.do(ctx, http.MethodPatch, "/api/v1/samples/increase-positions-by-shelf-division", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ShiftPositionsByAmount increments every position in a shelf/division by a
// fixed amount.
func (c *Client) ShiftPositionsByAmount(ctx context.Context, shelf, division, amount int) (*MutationResult, error) {
	body := map[string]int{
		"shelf":            shelf,
		"division":         division,
		"amountToIncrease": amount,
	}
	var out MutationResult
	if err := c.do(ctx, http.MethodPatch, "/api/v1/samples/increase-positions-by-amount", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReducePositions decrements the position of every sample after
// currentPosition, closing a gap.
func (c *Client) ReducePositions(ctx context.Context, shelf, division, currentPosition int) (*MutationResult, error) {
	body := map[string]int{
		"shelf":           shelf,
		"division":        division,
		"currentPosition": currentPosition,
	}
	var out MutationResult
	if err := c.do(ctx, http.MethodPatch, "/api/v1/samples/decrease-positions-by-shelf-division", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NormalizePositions renumbers a division to consecutive positions starting
// at 1, preserving relative order.
func (c *Client) NormalizePositions(ctx context.Context, shelf, division int) (*MutationResult, error) {
	body := map[string]int{
		"shelf":    shelf,
		"division": division,
	}
	var out MutationResult
	if err := c.do(ctx, http.MethodPatch, "/api/v1/samples/normalize-positions-in-division", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindConflicts scans for slots holding more than one active sample. Zero
// shelf and division scan the whole warehouse.
func (c *Client) FindConflicts(ctx context.Context, shelf, division int) (*ConflictsResult, error) {
	var body interface{}
	if shelf != 0 || division != 0 {
		body = map[string]int{"shelf": shelf, "division": division}
	}
	var out ConflictsResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/samples-conflict", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveConflictRequest describes one conflict resolution. Which data
// fields are required depends on the resolution type.
type ResolveConflictRequest struct {
	ResolutionType domain.ResolutionType `json:"resolutionType"`
	Data           struct {
		KeepSampleID uuid.UUID   `json:"keepSampleId,omitempty"`
		SampleIDs    []uuid.UUID `json:"sampleIds,omitempty"`
		Shelf        int         `json:"shelf,omitempty"`
		Division     int         `json:"division,omitempty"`
		Position     int         `json:"position,omitempty"`
	} `json:"data"`
}

// ResolveConflict applies one resolution strategy to a conflicting slot.
func (c *Client) ResolveConflict(ctx context.Context, req ResolveConflictRequest) (*MutationResult, error) {
	var out MutationResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/samples/resolve-conflict", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks the server health endpoint. It does not require auth.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// do issues one request. A nil body sends no payload; a nil out discards
// the response body after checking the status.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.user != "" {
		req.Header.Set("X-User", c.user)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
