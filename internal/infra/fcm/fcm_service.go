// Package fcm implements push delivery against the FCM HTTP v1 API using a
// service-account JWT-bearer exchange for authorization.
package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"pairpost/config"
	"pairpost/internal/domain/entity"
	"pairpost/internal/domain/service"
	"pairpost/internal/errors"
)

const httpTimeout = 10 * time.Second

// messageRequest is the FCM v1 send envelope. Only data messages are sent;
// the client app renders its own notification UI.
type messageRequest struct {
	Message message `json:"message"`
}

type message struct {
	Token   string            `json:"token"`
	Data    map[string]string `json:"data"`
	Android androidConfig     `json:"android"`
}

type androidConfig struct {
	Priority string `json:"priority"`
}

type pushSender struct {
	cfg    *config.FirebaseConfig
	tokens *tokenSource
	client *http.Client
	logger *slog.Logger
}

// NewPushSender creates the FCM-backed PushSender. Credentials are validated
// lazily on first send, not here.
func NewPushSender(cfg *config.Config, logger *slog.Logger) service.PushSender {
	client := &http.Client{Timeout: httpTimeout}

	return &pushSender{
		cfg:    cfg.Firebase,
		tokens: newTokenSource(cfg.Firebase, client),
		client: client,
		logger: logger,
	}
}

// Send delivers the data payload to every token in parallel. One access token
// is minted per call and shared by all deliveries. Per-device failures land
// in the results slice; only credential and exchange failures abort the call.
func (s *pushSender) Send(ctx context.Context, tokens []string, data map[string]string) ([]entity.DeliveryResult, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	accessToken, err := s.tokens.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "Sending push",
		slog.Int("devices", len(tokens)),
	)

	results := make([]entity.DeliveryResult, len(tokens))

	var wg sync.WaitGroup
	for idx, token := range tokens {
		wg.Add(1)
		go func(idx int, token string) {
			defer wg.Done()

			messageID, err := s.sendOne(ctx, accessToken, token, data)
			if err != nil {
				results[idx] = entity.DeliveryResult{Token: token, Error: err.Error()}

				return
			}
			results[idx] = entity.DeliveryResult{Token: token, Delivered: true, MessageID: messageID}
		}(idx, token)
	}
	wg.Wait()

	return results, nil
}

// sendOne posts a single message and returns the provider message name.
func (s *pushSender) sendOne(ctx context.Context, accessToken, token string, data map[string]string) (string, error) {
	payload, err := json.Marshal(messageRequest{
		Message: message{
			Token:   token,
			Data:    data,
			Android: androidConfig{Priority: "high"},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal message")
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/messages:send", s.cfg.MessagingEndpoint, s.cfg.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build send request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read send response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errors.New(string(body))
	}

	var sent struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &sent); err != nil {
		return "", nil
	}

	return sent.Name, nil
}
