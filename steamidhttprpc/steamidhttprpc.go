package steamidhttprpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"steamid-convert/steamidhttp"
)

type Client struct {
	address string
	httpc   http.Client
}

func NewClient(httpc http.Client, address string) *Client {
	if address == "" {
		address = "http://localhost:9876"
	}

	return &Client{
		address: address,
		httpc:   httpc,
	}
}

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Convert(ctx context.Context, id string) (*steamidhttp.ConvertResponse, error) {
	addr := c.address + "/convert?id=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	var response steamidhttp.ConvertResponse

	if err := c.do(req, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) ConvertBatch(ctx context.Context, ids []string) (*steamidhttp.ConvertBatchResponse, error) {
	body, err := json.Marshal(steamidhttp.ConvertBatchRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	addr := c.address + "/convert/batch"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	var response steamidhttp.ConvertBatchResponse

	if err := c.do(req, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *Client) do(req *http.Request, response any) error {
	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var e steamidhttp.ErrorResponse
		if err := json.Unmarshal(b, &e); err != nil || e.Error == "" {
			e.Error = string(bytes.TrimSpace(b))
		}

		return &StatusError{StatusCode: res.StatusCode, Message: e.Error}
	}

	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
