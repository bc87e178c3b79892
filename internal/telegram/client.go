package telegram

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lumiforge/kinoteka-backend/internal/config"
)

type Client struct {
	token   string
	chatID  string
	env     string
	baseURL string
	client  *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		token:   cfg.TelegramBotToken,
		chatID:  cfg.TelegramAdminChatID,
		env:     cfg.Env,
		baseURL: "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured сообщает, заданы ли токен бота и чат
func (c *Client) IsConfigured() bool {
	return c != nil && c.token != "" && c.chatID != ""
}

func (c *Client) SendAlert(msg string) error {
	if !c.IsConfigured() {
		return nil
	}
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	vals := url.Values{}
	vals.Set("chat_id", c.chatID)
	vals.Set("text", fmt.Sprintf("🚨 kinoteka [%s] ERROR: %s", c.env, msg))

	resp, err := c.client.PostForm(apiURL, vals)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram responded with status %d", resp.StatusCode)
	}
	return nil
}
