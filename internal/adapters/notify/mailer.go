// Package notify は管理者向け通知メールの送信を提供します。
package notify

import (
	"fmt"
	"log/slog"

	"github.com/stafftrack/stafftrack/internal/platform/config"
	"gopkg.in/gomail.v2"
)

// Mailer はプレーンテキストメールを送信します。
type Mailer interface {
	Send(subject, body string) error
}

// SMTPMailer は gomail による SMTP 送信の実装です。
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer は SMTPMailer を生成します。
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send は管理者宛にメールを送信します。
func (m *SMTPMailer) Send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.AdminEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	return nil
}

// LogMailer は SMTP が未設定の環境向けに、送信内容をログへ出力するだけの実装です。
type LogMailer struct {
	log *slog.Logger
}

// NewLogMailer は LogMailer を生成します。
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send は件名と本文をログに出力します。
func (m *LogMailer) Send(subject, body string) error {
	m.log.Info("mail (smtp disabled)", "subject", subject, "body", body)
	return nil
}
