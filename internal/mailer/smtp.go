package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/xxxsen/sportmate/internal/model"
)

type SMTPConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	From       string `json:"from"`
}

type smtpSender struct {
	cfg     SMTPConfig
	codeTTL time.Duration
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func init() {
	Register("smtp", func(args interface{}, codeTTL time.Duration) (Sender, error) {
		var cfg SMTPConfig
		if err := decodeConfig(args, &cfg); err != nil {
			return nil, err
		}
		return NewSMTPSender(cfg, codeTTL)
	})
}

func NewSMTPSender(cfg SMTPConfig, codeTTL time.Duration) (Sender, error) {
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.Host == "" || cfg.Port == 0 || cfg.From == "" {
		return nil, fmt.Errorf("smtp host, port and from are required")
	}
	return &smtpSender{cfg: cfg, codeTTL: codeTTL, send: smtp.SendMail}, nil
}

func (s *smtpSender) SendCode(_ context.Context, email, code string, purpose model.OTPPurpose) error {
	subject, body := message(code, purpose, s.codeTTL)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	msg := []byte("From: " + s.cfg.From + "\r\n" +
		"To: " + email + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body)
	return s.send(addr, auth, s.cfg.From, []string{email}, msg)
}
