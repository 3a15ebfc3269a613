package effects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
)

// HTTPClient implements Effects.Send against a real alien-language
// server, the way original_source/src/client.rs's reqwest-based Client
// hits the same two endpoints. It does not implement Display; pair it
// with an ImageSink (image.go) via Live (live.go) if a program also
// draws.
type HTTPClient struct {
	ServerURL string
	APIKey    string
	client    *http.Client
}

// NewHTTPClient builds a client bound to serverURL/apiKey, trimming
// trailing slashes and whitespace exactly like the prototype did.
func NewHTTPClient(serverURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		ServerURL: strings.TrimRight(serverURL, "/"),
		APIKey:    strings.TrimSpace(apiKey),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Send POSTs bits to {server}/aliens/send?apiKey={key} and returns the
// response body, which must be a same-shape '0'/'1' string.
func (c *HTTPClient) Send(ctx context.Context, bits string) (string, error) {
	reqID := uuid.New()
	url := fmt.Sprintf("%s/aliens/send?apiKey=%s", c.ServerURL, c.APIKey)

	glog.V(1).Infof("send[%s]: %d bits -> %s", reqID, len(bits), c.ServerURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(bits))
	if err != nil {
		return "", &SendError{Kind: Protocol, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", &SendError{Kind: Cancelled, Err: err}
		}
		return "", &SendError{Kind: Network, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SendError{Kind: Network, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		glog.Warningf("send[%s]: server returned status %d", reqID, resp.StatusCode)
		return "", &SendError{Kind: Status, Err: fmt.Errorf("http status %d: %s", resp.StatusCode, body)}
	}

	glog.V(1).Infof("send[%s]: received %d bits", reqID, len(body))
	return string(body), nil
}

// Echo hits the diagnostic echo endpoint POST {server} described in §6.
// It is not part of the Effects interface; neither the evaluator nor
// cmd/galaxy calls it.
func (c *HTTPClient) Echo(ctx context.Context, content string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ServerURL, bytes.NewBufferString(content))
	if err != nil {
		return "", &SendError{Kind: Protocol, Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &SendError{Kind: Network, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &SendError{Kind: Network, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &SendError{Kind: Status, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}
	return string(body), nil
}
