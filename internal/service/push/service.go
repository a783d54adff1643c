// internal/service/push/service.go
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FabiSax12/uniflow-notification-service/internal/service/delivery"
)

// PushSender posts notification payloads to the push gateway, addressed
// by a user-scoped tag. Sends are fire-and-forget per device token:
// a single token failing is logged without aborting the batch.
type PushSender struct {
	gatewayURL string
	apiKey     string
	client     *http.Client
	logger     *zap.Logger
}

func NewPushSender(gatewayURL, apiKey string, logger *zap.Logger) *PushSender {
	return &PushSender{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type pushRequest struct {
	Tag     string               `json:"tag"`
	Token   string               `json:"token"`
	Message delivery.PushPayload `json:"message"`
}

// Send dispatches the payload to every device token of the user.
func (s *PushSender) Send(ctx context.Context, userID string, deviceTokens []string, payload delivery.PushPayload) error {
	if len(deviceTokens) == 0 {
		s.logger.Warn("no device tokens for user, skipping push", zap.String("user_id", userID))
		return nil
	}

	tag := fmt.Sprintf("userId:%s", userID)
	var lastErr error
	failed := 0

	for _, token := range deviceTokens {
		if err := s.sendOne(ctx, tag, token, payload); err != nil {
			s.logger.Error("push send failed for device",
				zap.String("user_id", userID),
				zap.String("device", truncateToken(token)),
				zap.Error(err),
			)
			lastErr = err
			failed++
		}
	}

	// The batch as a whole only fails when every token failed.
	if failed == len(deviceTokens) {
		return fmt.Errorf("all %d push sends failed: %w", failed, lastErr)
	}
	return nil
}

func (s *PushSender) sendOne(ctx context.Context, tag, token string, payload delivery.PushPayload) error {
	body, err := json.Marshal(pushRequest{Tag: tag, Token: token, Message: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}

// DisabledSender stands in when the push channel is turned off; sends
// become logged no-ops.
type DisabledSender struct {
	logger *zap.Logger
}

func NewDisabledSender(logger *zap.Logger) *DisabledSender {
	return &DisabledSender{logger: logger}
}

func (s *DisabledSender) Send(ctx context.Context, userID string, deviceTokens []string, payload delivery.PushPayload) error {
	s.logger.Debug("push channel disabled, skipping send", zap.String("user_id", userID))
	return nil
}

func truncateToken(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
