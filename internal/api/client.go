// Package api wraps the REST backend behind a thin JSON client: bearer
// injection on every request, a fixed timeout, and centralized mapping of
// failures into the client error taxonomy with a toast per failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anushkaEsdev/alumni-client/internal/credentials"
	"github.com/anushkaEsdev/alumni-client/internal/models"
	"github.com/anushkaEsdev/alumni-client/internal/notify"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	http    *http.Client
	baseURL string
	creds   credentials.Store
	notify  notify.Notifier
	log     *logrus.Logger

	// onSignOut is the redirect-to-login analog, invoked after a 401
	// outside the login endpoint clears the persisted credentials.
	onSignOut func()
}

func New(baseURL string, timeout time.Duration, creds credentials.Store, n notify.Notifier, log *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if n == nil {
		n = notify.NewLogNotifier(log)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		creds:   creds,
		notify:  n,
		log:     log,
	}
}

// OnSignOut registers the hook run when the backend reports the current
// credential as invalid. At most one hook; later calls replace it.
func (c *Client) OnSignOut(fn func()) { c.onSignOut = fn }

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A superseded or unmounted caller canceled the request; that is
		// not a connectivity problem and gets no toast.
		if errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		c.log.WithError(err).WithField("path", path).Warn("request failed")
		c.notify.Error("Network error. Please check your connection.")
		return &Error{Kind: KindNetworkError, Message: "Network error. Please check your connection.", cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.fail(resp, path)
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// fail normalizes a non-2xx response: one toast, persisted-credential
// teardown on an expired session, and a taxonomy error for the caller.
func (c *Client) fail(resp *http.Response, path string) error {
	var backendMsg string
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		backendMsg = errResp.Message
	}

	loginEndpoint := strings.HasPrefix(path, "/auth/login")
	kind := kindForStatus(resp.StatusCode, loginEndpoint)

	msg := backendMsg
	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError:
		msg = fallbackMessage(resp.StatusCode)
	default:
		if msg == "" {
			msg = fallbackMessage(resp.StatusCode)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized && !loginEndpoint {
		if err := c.creds.Clear(); err != nil {
			c.log.WithError(err).Warn("failed to clear credentials")
		}
		msg = "Your session has expired. Please log in again."
		if c.onSignOut != nil {
			c.onSignOut()
		}
	}

	c.log.WithFields(logrus.Fields{
		"path":   path,
		"status": resp.StatusCode,
	}).Warn(msg)
	c.notify.Error(msg)

	return &Error{Kind: kind, Status: resp.StatusCode, Message: msg}
}
