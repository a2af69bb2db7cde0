// Package webhook отправляет события модерации во внешний HTTP-приёмник.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GoArmGo/AssetHub/internal/messaging/payloads"
)

// Client отправляет события POST-запросом с JSON-телом.
type Client struct {
	httpClient *http.Client
	url        string
}

func NewClient(url string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        url,
	}
}

// Send доставляет событие. Пустой URL означает, что вебхук не настроен.
func (c *Client) Send(ctx context.Context, event payloads.ModerationEvent) error {
	if c.url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ошибка кодирования события: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", event.Type)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения HTTP-запроса к вебхуку: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("вебхук вернул статус %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}
