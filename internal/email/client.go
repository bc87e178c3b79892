package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"
	appconfig "github.com/lumiforge/kinoteka-backend/internal/config"
)

// Notifier отправляет служебные письма пользователям
type Notifier interface {
	IsConfigured() bool
	SendWelcomeEmail(ctx context.Context, toEmail, displayName string) (*EmailMessage, error)
	SendRoleChangedEmail(ctx context.Context, toEmail, role string) (*EmailMessage, error)
}

// EmailType представляет тип email
type EmailType string

const (
	EmailTypeWelcome     EmailType = "welcome"
	EmailTypeRoleChanged EmailType = "role_changed"
)

// EmailStatus представляет статус email
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

// EmailMessage представляет email сообщение
type EmailMessage struct {
	ID        string      `json:"id"`
	Type      EmailType   `json:"type"`
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Status    EmailStatus `json:"status"`
	SentAt    time.Time   `json:"sent_at"`
	Error     string      `json:"error,omitempty"`
}

// Client отправляет письма через Postbox (SES-совместимый API)
type Client struct {
	SESClient *sesv2.Client
	Sender    string
	AppURL    string
}

// NewClient создает клиента. Без KT_EMAIL_FROM клиент не настроен и письма не шлет.
func NewClient(appCfg *appconfig.Config) *Client {
	c := &Client{
		Sender: appCfg.EmailFrom,
		AppURL: appCfg.AppURL,
	}
	if appCfg.EmailFrom == "" || appCfg.SESEndpoint == "" {
		return c
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(appCfg.SESAccessKeyID, appCfg.SESSecretAccessKey, "")),
		config.WithRegion(appCfg.SESRegion),
	)
	if err != nil {
		slog.Error("failed to load SES config, email disabled", "error", err)
		return c
	}

	c.SESClient = sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		o.BaseEndpoint = aws.String(appCfg.SESEndpoint)
	})
	return c
}

// IsConfigured проверяет, настроен ли email сервис
func (c *Client) IsConfigured() bool {
	return c.Sender != "" && c.SESClient != nil
}

// SendWelcomeEmail отправляет приветствие после регистрации
func (c *Client) SendWelcomeEmail(ctx context.Context, toEmail, displayName string) (*EmailMessage, error) {
	name := displayName
	if name == "" {
		name = toEmail
	}

	subject := "Добро пожаловать в Кинотеку"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Здравствуйте, %s!</h2>
			<p>Ваша учетная запись создана. Смотрите фильмы и сериалы по ссылке: <a href="%s">%s</a></p>
			<p>Если вы не регистрировались, проигнорируйте это письмо.</p>
		</body>
		</html>
	`, html.EscapeString(name), c.AppURL, c.AppURL)

	return c.send(ctx, EmailTypeWelcome, toEmail, subject, body)
}

// SendRoleChangedEmail сообщает пользователю о новой роли
func (c *Client) SendRoleChangedEmail(ctx context.Context, toEmail, role string) (*EmailMessage, error) {
	subject := "Ваша роль в Кинотеке изменена"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Роль обновлена</h2>
			<p>Администратор назначил вам роль <strong>%s</strong>.</p>
			<p>Чтобы изменения вступили в силу, войдите заново: <a href="%s">%s</a></p>
			<p>Это письмо сгенерировано автоматически, пожалуйста, не отвечайте на него.</p>
		</body>
		</html>
	`, html.EscapeString(role), c.AppURL, c.AppURL)

	return c.send(ctx, EmailTypeRoleChanged, toEmail, subject, body)
}

func (c *Client) send(ctx context.Context, typ EmailType, toEmail, subject, body string) (*EmailMessage, error) {
	message := &EmailMessage{
		ID:        uuid.New().String(),
		Type:      typ,
		Recipient: toEmail,
		Subject:   subject,
		Body:      body,
		Status:    EmailStatusSent,
		SentAt:    time.Now(),
	}

	if !c.IsConfigured() {
		message.Status = EmailStatusFailed
		message.Error = "email client is not configured"
		return message, fmt.Errorf("email client is not configured")
	}

	if err := c.sendHTMLEmail(ctx, toEmail, subject, body); err != nil {
		message.Status = EmailStatusFailed
		message.Error = err.Error()
		return message, err
	}

	return message, nil
}

// sendHTMLEmail отправляет HTML email через SES
func (c *Client) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &c.Sender,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: &subject,
				},
				Body: &types.Body{
					Html: &types.Content{
						Data: &htmlBody,
					},
				},
			},
		},
	}

	_, err := c.SESClient.SendEmail(ctx, input)
	return err
}
