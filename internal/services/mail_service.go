package services

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

// MailService delivers transactional email.
type MailService interface {
	SendOTP(ctx context.Context, recipient, code string) error
}

type smtpMailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailService(host string, port int, username, password, from string) MailService {
	return &smtpMailService{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html lang="en">
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f4f4f4;">
  <table align="center" border="0" cellpadding="0" cellspacing="0" width="600" style="border:1px solid #cccccc;background-color:#ffffff;">
    <tr>
      <td align="center" bgcolor="#007bff" style="padding:30px 0;color:#ffffff;font-size:28px;font-weight:bold;">
        OTP Security Verification
      </td>
    </tr>
    <tr>
      <td style="padding:40px 30px;">
        <h1 style="font-size:24px;margin:0;color:#333333;">Password Reset Request</h1>
        <p style="margin:20px 0;font-size:16px;color:#555555;">
          Please use the following One-Time Password (OTP) to reset your password.
        </p>
        <p align="center" style="background-color:#e9ecef;padding:15px 25px;font-size:32px;letter-spacing:8px;font-weight:bold;color:#0056b3;font-family:monospace;">
          {{.Code}}
        </p>
        <p style="margin:20px 0;font-size:16px;color:#555555;">
          This code is valid for <strong>1 minute</strong>.
        </p>
        <p style="margin-top:30px;font-size:14px;color:#888888;">
          If you did not request this, please ignore this email. Your account is still secure.
        </p>
      </td>
    </tr>
  </table>
</body>
</html>`))

func (s *smtpMailService) SendOTP(ctx context.Context, recipient, code string) error {
	var body bytes.Buffer
	if err := otpTemplate.Execute(&body, struct{ Code string }{Code: code}); err != nil {
		return fmt.Errorf("failed to render OTP email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", "Your One-Time Password")
	msg.SetBody("text/html", body.String())

	return s.dialer.DialAndSend(msg)
}
