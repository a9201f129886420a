package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"
)

// SMTPSender envia correos HTML via SMTP.
type SMTPSender struct {
	host        string
	port        int
	username    string
	password    string
	from        string
	fromName    string
	useTLS      bool
	frontendURL string
	send        func(addr string, msg []byte, to string) error
}

func NewSMTPSender(host string, port int, username, password, from, fromName string, useTLS bool, frontendURL string) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	s := &SMTPSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		from:        from,
		fromName:    fromName,
		useTLS:      useTLS,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
	s.send = s.deliver
	return s, nil
}

func (s *SMTPSender) SendVerification(_ context.Context, toEmail, token, name string) error {
	body, err := render(verificationTmpl, name, s.link("/verify-email", token))
	if err != nil {
		return err
	}
	return s.sendHTML(toEmail, "Verify Your Email Address - AI Math Solver", body)
}

func (s *SMTPSender) SendPasswordReset(_ context.Context, toEmail, token, name string) error {
	body, err := render(resetTmpl, name, s.link("/reset-password", token))
	if err != nil {
		return err
	}
	return s.sendHTML(toEmail, "Reset Your Password - AI Math Solver", body)
}

func (s *SMTPSender) SendWelcome(_ context.Context, toEmail, name string) error {
	body, err := render(welcomeTmpl, name, s.frontendURL)
	if err != nil {
		return err
	}
	return s.sendHTML(toEmail, "Welcome to AI Math Solver - Your Account is Ready!", body)
}

func (s *SMTPSender) link(path, token string) string {
	return s.frontendURL + path + "?token=" + url.QueryEscape(token)
}

func (s *SMTPSender) sendHTML(toEmail, subject, body string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	msg := buildMessage(s.from, s.fromName, toEmail, subject, body)
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	return s.send(addr, []byte(msg), toEmail)
}

func (s *SMTPSender) deliver(addr string, msg []byte, toEmail string) error {
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if !s.useTLS {
		return smtp.SendMail(addr, auth, s.from, []string{toEmail}, msg)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: s.host,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(msg); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
