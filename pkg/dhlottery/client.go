package dhlottery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html/charset"
)

// DefaultBaseURL is the public lottery site.
const DefaultBaseURL = "https://www.dhlottery.co.kr"

// Sentinel errors
var (
	ErrRequestFailed    = errors.New("upstream request failed")
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrDecodeFailed     = errors.New("decoding upstream response failed")
	ErrNotAnObject      = errors.New("body is not a JSON object")
)

const (
	basicUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	basicAccept     = "application/json, text/plain, */*"
	basicLanguage   = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
	detailUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	detailAccept    = "text/html,application/xhtml+xml"
	detailLanguage  = "ko-KR,ko;q=0.9"
)

// Client talks to the lottery site's structured endpoint and its results page
type Client struct {
	httpClient *http.Client
	baseURL    string

	attempts       uint64
	initialBackoff time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithRetry retries the basic fetch up to attempts times in total with
// exponential backoff starting at initial. attempts <= 1 disables retrying.
func WithRetry(attempts uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.initialBackoff = initial
	}
}

// NewClient creates a new client with custom HTTP client and base URL
func NewClient(httpClient *http.Client, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		attempts:       1,
		initialBackoff: 200 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LottoNumber is the structured draw result as published by the upstream
type LottoNumber struct {
	ReturnValue    string `json:"returnValue"`
	DrwNo          Number `json:"drwNo"`
	DrwNoDate      string `json:"drwNoDate"`
	DrwtNo1        Number `json:"drwtNo1"`
	DrwtNo2        Number `json:"drwtNo2"`
	DrwtNo3        Number `json:"drwtNo3"`
	DrwtNo4        Number `json:"drwtNo4"`
	DrwtNo5        Number `json:"drwtNo5"`
	DrwtNo6        Number `json:"drwtNo6"`
	BnusNo         Number `json:"bnusNo"`
	TotSellamnt    Number `json:"totSellamnt"`
	FirstWinamnt   Number `json:"firstWinamnt"`
	FirstPrzwnerCo Number `json:"firstPrzwnerCo"`
	FirstAccumamnt Number `json:"firstAccumamnt"`

	// Raw holds the response body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// ReturnSuccess is the status value of a published draw.
const ReturnSuccess = "success"

// Success reports whether the upstream marked the draw as published.
func (n LottoNumber) Success() bool {
	return n.ReturnValue == ReturnSuccess
}

// GetLottoNumber retrieves the structured result of the given draw.
func (c *Client) GetLottoNumber(ctx context.Context, drwNo int) (LottoNumber, error) {
	if c.attempts <= 1 {
		return c.getLottoNumber(ctx, drwNo)
	}

	var b backoff.BackOff = backoff.NewExponentialBackOff(backoff.WithInitialInterval(c.initialBackoff))
	b = backoff.WithContext(backoff.WithMaxRetries(b, c.attempts-1), ctx)

	return backoff.RetryWithData(func() (LottoNumber, error) {
		n, err := c.getLottoNumber(ctx, drwNo)
		if errors.Is(err, ErrDecodeFailed) {
			return n, backoff.Permanent(err)
		}
		return n, err
	}, b)
}

func (c *Client) getLottoNumber(ctx context.Context, drwNo int) (LottoNumber, error) {
	url := fmt.Sprintf("%s/common.do?method=getLottoNumber&drwNo=%d", c.baseURL, drwNo)

	body, err := c.get(ctx, url, http.Header{
		"User-Agent":      {basicUserAgent},
		"Accept":          {basicAccept},
		"Accept-Language": {basicLanguage},
		"Referer":         {c.baseURL + "/"},
		"Origin":          {c.baseURL},
	}, func(r io.Reader, _ string) (io.Reader, error) { return r, nil })
	if err != nil {
		return LottoNumber{}, err
	}

	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return LottoNumber{}, fmt.Errorf("%w: %w", ErrDecodeFailed, ErrNotAnObject)
	}

	var n LottoNumber
	if err := json.Unmarshal(body, &n); err != nil {
		return LottoNumber{}, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	n.Raw = body

	return n, nil
}

// GetWinningPage retrieves the HTML results page of the given draw, transcoded to UTF-8.
func (c *Client) GetWinningPage(ctx context.Context, drwNo int) (string, error) {
	url := fmt.Sprintf("%s/gameResult.do?method=byWin&drwNo=%d", c.baseURL, drwNo)

	body, err := c.get(ctx, url, http.Header{
		"User-Agent":      {detailUserAgent},
		"Accept":          {detailAccept},
		"Accept-Language": {detailLanguage},
	}, charset.NewReader)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

type decoder func(r io.Reader, contentType string) (io.Reader, error)

func (c *Client) get(ctx context.Context, url string, header http.Header, decode decoder) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrRequestFailed, err)
	}
	req.Header = header

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	r, err := decode(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", ErrRequestFailed, err)
	}

	return body, nil
}
