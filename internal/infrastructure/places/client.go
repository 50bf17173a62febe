package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BrianJCal99/project-bunnings/internal/discovery/domain"
)

const (
	// DefaultBaseURL is the Places API (New) endpoint root.
	DefaultBaseURL = "https://places.googleapis.com/v1"

	// SearchFieldMask limits searchText responses to the fields rows need.
	SearchFieldMask = "places.id,places.displayName,places.formattedAddress,places.rating,places.userRatingCount,nextPageToken"

	// DetailsFieldMask limits place details to metadata and reviews.
	DetailsFieldMask = "displayName,rating,userRatingCount,reviews"

	maxErrorBody = 4 << 10
)

// Client talks to the Places API (New). It is safe for concurrent use but the
// batch discoverer calls it sequentially.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint, e.g. an httptest server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a Places client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs a text search. Pass the previous page's token to continue.
func (c *Client) Search(ctx context.Context, query, pageToken string) (domain.SearchPage, error) {
	if strings.TrimSpace(query) == "" {
		return domain.SearchPage{}, &domain.RequestError{Message: "empty search query"}
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(searchTextRequest{TextQuery: query, PageToken: pageToken}); err != nil {
		return domain.SearchPage{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", buf)
	if err != nil {
		return domain.SearchPage{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-FieldMask", SearchFieldMask)

	var out searchTextResponse
	if err := c.do(req, &out); err != nil {
		return domain.SearchPage{}, err
	}

	page := domain.SearchPage{
		Places:        make([]domain.PlaceRecord, 0, len(out.Places)),
		NextPageToken: out.NextPageToken,
	}
	for _, p := range out.Places {
		page.Places = append(page.Places, mapPlace(p))
	}
	return page, nil
}

// Details fetches metadata and reviews for one place.
func (c *Client) Details(ctx context.Context, placeID string) (*domain.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, &domain.RequestError{Message: "empty place id"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places/"+url.PathEscape(placeID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Goog-FieldMask", DetailsFieldMask)

	var out placeResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	details := &domain.PlaceDetails{
		ID:              placeID,
		DisplayName:     displayName(out.DisplayName),
		Rating:          out.Rating,
		UserRatingCount: out.UserRatingCount,
		Reviews:         make([]domain.Review, 0, len(out.Reviews)),
	}
	for _, r := range out.Reviews {
		details.Reviews = append(details.Reviews, mapReview(r))
	}
	return details, nil
}

// do sends req with the credential header and decodes a 2xx JSON body into out.
// Failures are classified into the domain error taxonomy.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return classify(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func classify(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)
	msg := errorMessage(parsed, body, resp.Status)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || credentialRejected(parsed):
		return &domain.AuthError{StatusCode: resp.StatusCode, Message: msg}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &domain.TransientError{StatusCode: resp.StatusCode, Err: errors.New(msg)}
	default:
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: msg}
	}
}

// credentialRejected reports an invalid or expired API key. The API answers
// those with 400 INVALID_ARGUMENT, so the status code alone is not enough.
func credentialRejected(parsed errorResponse) bool {
	switch parsed.Error.Status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		return true
	}
	for _, d := range parsed.Error.Details {
		switch d.Reason {
		case "API_KEY_INVALID", "API_KEY_EXPIRED":
			return true
		}
	}
	return false
}

func errorMessage(parsed errorResponse, body []byte, fallback string) string {
	if parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallback
}

func mapPlace(p placeResponse) domain.PlaceRecord {
	return domain.PlaceRecord{
		ID:               p.ID,
		DisplayName:      displayName(p.DisplayName),
		FormattedAddress: p.FormattedAddress,
		Rating:           p.Rating,
		UserRatingCount:  p.UserRatingCount,
	}
}

func mapReview(r reviewBody) domain.Review {
	review := domain.Review{
		Rating:      r.Rating,
		PublishTime: r.PublishTime,
	}
	if r.AuthorAttribution != nil {
		review.Author = r.AuthorAttribution.DisplayName
	}
	if r.Text != nil {
		review.Text = r.Text.Text
	}
	return review
}

func displayName(t *localizedText) string {
	if t == nil {
		return ""
	}
	return t.Text
}
