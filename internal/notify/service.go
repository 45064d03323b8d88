package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Dispatcher delivers a result payload.
type Dispatcher interface {
	Dispatch(ctx context.Context, p Payload) error
}

// SendError wraps a delivery failure after the payload was accepted.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return "send email: " + e.Err.Error() }
func (e *SendError) Unwrap() error { return e.Err }

// Service validates payloads and mails them.
type Service struct {
	mailer Mailer
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a Service.
func NewService(mailer Mailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{mailer: mailer, logger: logger, now: time.Now}
}

// Handle decodes a raw request body and sends it. It returns
// *ErrInvalidPayload for bad input and *SendError when delivery fails.
func (s *Service) Handle(ctx context.Context, raw []byte) error {
	p, err := DecodePayload(raw)
	if err != nil {
		return err
	}
	return s.send(ctx, *p)
}

// Dispatch validates p and sends it.
func (s *Service) Dispatch(ctx context.Context, p Payload) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.send(ctx, p)
}

func (s *Service) send(ctx context.Context, p Payload) error {
	msg := Compose(p, s.now())
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("result email failed", zap.String("participant", p.PersonalData.Email), zap.Error(err))
		return &SendError{Err: err}
	}
	s.logger.Info("result email sent", zap.String("participant", p.PersonalData.Email), zap.Int("scores", len(p.Scores)))
	return nil
}

// Response is the JSON body returned by the send-results endpoint.
type Response struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Client posts payloads to a remote send-results endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a Client. A nil httpClient uses a 20s timeout client.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{endpoint: endpoint, http: httpClient}
}

func (c *Client) Dispatch(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post results: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("send-results returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		if len(out.Details) > 0 {
			return fmt.Errorf("send-results returned %d: %s: %s", resp.StatusCode, out.Error, out.Details)
		}
		return fmt.Errorf("send-results returned %d: %s", resp.StatusCode, out.Error)
	}
	return nil
}
