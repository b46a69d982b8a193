// Package miro is a minimal client for the Miro REST v2 API, covering the
// read surface needed to archive boards: board listing, board metadata, and
// paginated item/connector retrieval.
package miro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hoshizora/mirovault/internal/domain"
)

// tokenPrefix is required by the API in the Authorization header; tokens
// issued through the app console come without it.
const tokenPrefix = "oauth2:"

// maxErrBody caps how much of an error response body is kept for messages.
const maxErrBody = 512

// APIError is a non-2xx response from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("miro: api status %d: %s", e.Status, e.Body)
}

// Client talks to the Miro REST v2 API. All requests pass through a shared
// client-side rate limiter; the API enforces its own credit-based limits.
type Client struct {
	baseURL   string
	token     string
	pageLimit int
	httpc     *http.Client
	limiter   *rate.Limiter
	log       zerolog.Logger
}

// NewClient builds a client for the given API base URL and access token.
// The token gets the oauth2: prefix if it does not carry one already.
func NewClient(baseURL, token string, timeout time.Duration, pageLimit int, rps float64, burst int, log zerolog.Logger) *Client {
	if !strings.HasPrefix(token, tokenPrefix) {
		token = tokenPrefix + token
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		pageLimit: pageLimit,
		httpc:     &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
		log:       log,
	}
}

// GetBoard fetches the metadata of a single board.
func (c *Client) GetBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	body, err := c.get(ctx, "/boards/"+url.PathEscape(boardID), nil)
	if err != nil {
		return nil, fmt.Errorf("miro.Client.GetBoard: %w", err)
	}

	var board domain.Board
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("miro.Client.GetBoard: decode: %w", err)
	}

	return &board, nil
}

// boardsPage is one page of the offset-paginated /boards listing.
type boardsPage struct {
	Data   []domain.Board `json:"data"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// ListBoards fetches every board the token can access, walking the
// offset-based pagination of /boards.
func (c *Client) ListBoards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	offset := 0
	total := -1

	for {
		q := url.Values{
			"limit":  {strconv.Itoa(c.pageLimit)},
			"offset": {strconv.Itoa(offset)},
		}

		body, err := c.get(ctx, "/boards", q)
		if err != nil {
			return nil, fmt.Errorf("miro.Client.ListBoards: offset %d: %w", offset, err)
		}

		var page boardsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("miro.Client.ListBoards: decode: %w", err)
		}

		if total < 0 {
			total = page.Total
		}
		boards = append(boards, page.Data...)

		c.log.Debug().
			Int("fetched", len(boards)).
			Int("total", total).
			Msg("boards page")

		if len(page.Data) == 0 || offset+c.pageLimit >= total {
			break
		}
		offset += c.pageLimit
	}

	c.log.Info().Int("boards", len(boards)).Msg("board listing complete")
	return boards, nil
}

// ListItems fetches every item of a board via cursor pagination.
func (c *Client) ListItems(ctx context.Context, boardID string) ([]domain.Item, error) {
	items, err := listPaginated[domain.Item](ctx, c, "/boards/"+url.PathEscape(boardID)+"/items", "items")
	if err != nil {
		return nil, fmt.Errorf("miro.Client.ListItems: %w", err)
	}
	return items, nil
}

// ListConnectors fetches every connector of a board via cursor pagination.
func (c *Client) ListConnectors(ctx context.Context, boardID string) ([]domain.Connector, error) {
	connectors, err := listPaginated[domain.Connector](ctx, c, "/boards/"+url.PathEscape(boardID)+"/connectors", "connectors")
	if err != nil {
		return nil, fmt.Errorf("miro.Client.ListConnectors: %w", err)
	}
	return connectors, nil
}

// cursorPage is one page of a cursor-paginated collection endpoint.
type cursorPage[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Links *struct {
		Next string `json:"next"`
	} `json:"links"`
}

// listPaginated walks a cursor-paginated endpoint until the API stops
// handing out a next link or a page comes back empty.
func listPaginated[T any](ctx context.Context, c *Client, path, resource string) ([]T, error) {
	var all []T
	cursor := ""

	for {
		q := url.Values{"limit": {strconv.Itoa(c.pageLimit)}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		body, err := c.get(ctx, path, q)
		if err != nil {
			return nil, err
		}

		var page cursorPage[T]
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode %s page: %w", resource, err)
		}

		if len(page.Data) == 0 {
			break
		}
		all = append(all, page.Data...)

		c.log.Debug().
			Str("resource", resource).
			Int("fetched", len(all)).
			Int("total", page.Total).
			Msg("collection page")

		if page.Links == nil || page.Links.Next == "" {
			break
		}

		cursor, err = nextCursor(page.Links.Next)
		if err != nil {
			return nil, fmt.Errorf("%s pagination: %w", resource, err)
		}
		if cursor == "" {
			break
		}
	}

	return all, nil
}

// nextCursor pulls the cursor query parameter out of a links.next URL.
func nextCursor(next string) (string, error) {
	u, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("parse next link %q: %w", next, err)
	}
	return u.Query().Get("cursor"), nil
}

// get issues one rate-limited GET against the API. A 429 is retried once
// after honoring Retry-After; any other non-2xx status becomes an *APIError.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, retryAfter, err := c.doGet(ctx, path, q)
	if err == nil || retryAfter < 0 {
		return body, err
	}

	c.log.Warn().
		Str("path", path).
		Dur("retry_after", retryAfter).
		Msg("rate limited by api, retrying once")

	select {
	case <-time.After(retryAfter):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	body, _, err = c.doGet(ctx, path, q)
	return body, err
}

// doGet performs the request. On 429 it returns the wait duration as a
// non-negative retryAfter so the caller can decide to retry.
func (c *Client) doGet(ctx context.Context, path string, q url.Values) (body []byte, retryAfter time.Duration, err error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, -1, fmt.Errorf("GET %s: read body: %w", path, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &APIError{
			Status: resp.StatusCode,
			Body:   truncate(string(data), maxErrBody),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, -1, &APIError{
			Status: resp.StatusCode,
			Body:   truncate(string(data), maxErrBody),
		}
	}

	return data, -1, nil
}

// parseRetryAfter reads a Retry-After value in seconds, with a sane default
// when the header is missing or malformed.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 2 * time.Second
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
