package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the notification service. The wire shape is the service's
// concern; everything here just decodes into Notification.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type Notification struct {
	ID            uint      `json:"id"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	ReservationID uint      `json:"reservation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Client) FetchFeed(ctx context.Context, userID uint) ([]Notification, error) {
	var feed []Notification
	if err := c.get(ctx, fmt.Sprintf("/users/%d/notifications", userID), &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

func (c *Client) FetchCount(ctx context.Context, userID uint) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, fmt.Sprintf("/users/%d/notifications/count", userID), &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return c.post(ctx, fmt.Sprintf("/users/%d/notifications/%d/read", userID, notificationID))
}

func (c *Client) MarkAllRead(ctx context.Context, userID uint) error {
	return c.post(ctx, fmt.Sprintf("/users/%d/notifications/read-all", userID))
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("notification service status: %d", resp.StatusCode)
	}
	return nil
}
