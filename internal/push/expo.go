package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// maxMessagesPerRequest - лимит Expo на количество сообщений в одном запросе
const maxMessagesPerRequest = 100

// Message - одно сообщение для Expo Push API
type Message struct {
	To        string         `json:"to"`
	Sound     string         `json:"sound,omitempty"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data,omitempty"`
	Priority  string         `json:"priority,omitempty"`
	ChannelID string         `json:"channelId,omitempty"`
}

// Ticket - квитанция Expo по одному сообщению
type Ticket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (t Ticket) OK() bool { return t.Status == "ok" }

type sendResponse struct {
	Data   []Ticket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Sender - интерфейс отправки пушей
//
//go:generate mockgen -source=expo.go -destination=mocks/mock_sender.go -package=mocks
type Sender interface {
	Send(ctx context.Context, messages []Message) ([]Ticket, error)
}

// ExpoClient - реализация Sender поверх Expo Push API
type ExpoClient struct {
	url         string
	accessToken string
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewExpoClient создает новый ExpoClient
func NewExpoClient(url, accessToken string, timeout time.Duration, logger *logrus.Logger) *ExpoClient {
	return &ExpoClient{
		url:         url,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Send отправляет сообщения пачками. Любая транспортная ошибка или не-2xx ответ
// считается провалом всей операции: квитанции по отдельным токенам не разбираются
// на уровне успеха, только возвращаются вызывающему.
func (c *ExpoClient) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no push messages to send")
	}

	tickets := make([]Ticket, 0, len(messages))
	for start := 0; start < len(messages); start += maxMessagesPerRequest {
		end := min(start+maxMessagesPerRequest, len(messages))
		chunk, err := c.sendChunk(ctx, messages[start:end])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, chunk...)
	}
	return tickets, nil
}

func (c *ExpoClient) sendChunk(ctx context.Context, messages []Message) ([]Ticket, error) {
	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read push response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("push service responded with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed sendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Транспорт отработал, квитанции не разобрать - считаем отправку успешной
		c.logger.WithError(err).Warn("Failed to decode push receipt")
		return nil, nil
	}
	for _, e := range parsed.Errors {
		c.logger.WithField("code", e.Code).Warnf("Push service reported request error: %s", e.Message)
	}
	for i, t := range parsed.Data {
		if !t.OK() {
			c.logger.WithFields(logrus.Fields{
				"index":   i,
				"message": t.Message,
				"details": t.Details,
			}).Warn("Push ticket rejected")
		}
	}
	return parsed.Data, nil
}
