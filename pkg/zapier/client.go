package zapier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// SecretHeader carries the shared secret on inbound Zapier webhooks.
	SecretHeader = "X-Zapier-Secret"

	defaultTimeout = 10 * time.Second
)

var ErrHookURLNotSet = errors.New("zapier hook url is not set")

// Client posts JSON payloads to a Zapier catch hook.
type Client struct {
	hookURL string
	timeout time.Duration
}

func NewClient(hookURL string) *Client {
	return &Client{
		hookURL: hookURL,
		timeout: defaultTimeout,
	}
}

func (c *Client) Configured() bool {
	return c.hookURL != ""
}

// Send makes a single POST attempt. The request timeout is the smaller of the
// client timeout and the time left on ctx.
func (c *Client) Send(ctx context.Context, payload interface{}) error {
	if c.hookURL == "" {
		return ErrHookURLNotSet
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	a := fiber.Post(c.hookURL)
	a.JSON(payload)
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		return fmt.Errorf("failed to build zapier request: %w", err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("zapier request failed: %w", errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("zapier responded with status %d: %s", code, truncate(body, 200))
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
