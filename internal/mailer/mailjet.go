package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/sportmate/internal/model"
)

const defaultMailjetEndpoint = "https://api.mailjet.com/v3.1/send"

type MailjetConfig struct {
	APIKey      string `json:"api_key"`
	SecretKey   string `json:"secret_key"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Endpoint    string `json:"endpoint"`
}

type mailjetSender struct {
	cfg        MailjetConfig
	codeTTL    time.Duration
	httpClient *http.Client
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart"`
}

type mailjetSendRequest struct {
	Messages []mailjetMessage `json:"Messages"`
}

func init() {
	Register("mailjet", func(args interface{}, codeTTL time.Duration) (Sender, error) {
		var cfg MailjetConfig
		if err := decodeConfig(args, &cfg); err != nil {
			return nil, err
		}
		return NewMailjetSender(cfg, codeTTL)
	})
}

func NewMailjetSender(cfg MailjetConfig, codeTTL time.Duration) (Sender, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	cfg.SenderEmail = strings.TrimSpace(cfg.SenderEmail)
	if cfg.APIKey == "" || cfg.SecretKey == "" || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("mailjet api_key, secret_key and sender_email are required")
	}
	if cfg.SenderName == "" {
		cfg.SenderName = appName
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultMailjetEndpoint
	}
	return &mailjetSender{
		cfg:        cfg,
		codeTTL:    codeTTL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (m *mailjetSender) SendCode(ctx context.Context, email, code string, purpose model.OTPPurpose) error {
	subject, body := message(code, purpose, m.codeTTL)
	reqBody := mailjetSendRequest{
		Messages: []mailjetMessage{
			{
				From:     mailjetAddress{Email: m.cfg.SenderEmail, Name: m.cfg.SenderName},
				To:       []mailjetAddress{{Email: email}},
				Subject:  subject,
				TextPart: body,
			},
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.SetBasicAuth(m.cfg.APIKey, m.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailjet send http %d", resp.StatusCode)
	}
	return nil
}
