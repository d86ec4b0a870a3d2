package outbound

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// Sender transmits outbound messages over SMTP. Port 465 gets an implicit
// TLS connection; anything else is dialed plain and upgraded with STARTTLS.
type Sender struct {
	logger *logrus.Logger
}

// NewSender creates an SMTP sender.
func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

// Send transmits the message through the account's SMTP endpoint and
// returns the generated Message-ID.
func (s *Sender) Send(acc *types.Account, email *types.OutboundEmail) (string, error) {
	host, port := acc.SMTPAddr()
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), host)

	raw, err := buildMessage(email, messageID)
	if err != nil {
		return "", &types.SendError{Cause: err}
	}

	if err := s.transmit(acc, host, port, email, raw); err != nil {
		return "", &types.SendError{Cause: err}
	}

	s.logger.WithFields(logrus.Fields{
		"account":    acc.ID,
		"message_id": messageID,
		"recipients": len(email.Recipients()),
	}).Info("Sent message")

	return messageID, nil
}

func (s *Sender) transmit(acc *types.Account, host string, port int, email *types.OutboundEmail, raw []byte) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	tlsConfig := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	var client *smtp.Client
	if port == 465 {
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("could not connect to SMTP server: %w", err)
		}
		client, err = smtp.NewClient(conn, host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("could not create SMTP client: %w", err)
		}
	} else {
		var err error
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("could not connect to SMTP server: %w", err)
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("could not start TLS: %w", err)
		}
	}
	defer client.Close()

	if acc.Password != "" {
		auth := smtp.PlainAuth("", acc.Username, acc.Password, host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("could not authenticate: %w", err)
		}
	}

	if err := client.Mail(email.From); err != nil {
		return fmt.Errorf("could not set sender: %w", err)
	}
	for _, rcpt := range email.Recipients() {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("could not set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("could not open data stream: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("could not write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("could not close data stream: %w", err)
	}

	return client.Quit()
}

// buildMessage renders the message in MIME format. Bcc recipients appear in
// the envelope only, never in the headers.
func buildMessage(email *types.OutboundEmail, messageID string) ([]byte, error) {
	var buf bytes.Buffer

	header := func(name, value string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
	}

	header("From", email.From)
	header("To", strings.Join(email.To, ", "))
	if len(email.Cc) > 0 {
		header("Cc", strings.Join(email.Cc, ", "))
	}
	if email.ReplyTo != "" {
		header("Reply-To", email.ReplyTo)
	}
	header("Subject", email.Subject)
	header("Date", time.Now().Format(time.RFC1123Z))
	header("Message-ID", messageID)
	if email.InReplyTo != "" {
		header("In-Reply-To", email.InReplyTo)
	}
	if email.References != "" {
		header("References", email.References)
	}
	header("MIME-Version", "1.0")

	if len(email.Attachments) == 0 {
		if err := writeBody(&buf, email.Text, email.HTML, header); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	mixed := multipart.NewWriter(&buf)
	header("Content-Type", fmt.Sprintf("multipart/mixed; boundary=%s", mixed.Boundary()))
	buf.WriteString("\r\n")

	if err := writeBodyPart(mixed, email.Text, email.HTML); err != nil {
		return nil, err
	}

	for _, att := range email.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Type", fmt.Sprintf("%s; name=%q", contentType, att.Filename))
		hdr.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
		hdr.Set("Content-Transfer-Encoding", "base64")

		part, err := mixed.CreatePart(hdr)
		if err != nil {
			return nil, fmt.Errorf("could not create attachment part: %w", err)
		}
		if err := writeBase64(part, att.Content); err != nil {
			return nil, err
		}
	}

	if err := mixed.Close(); err != nil {
		return nil, fmt.Errorf("could not finish message: %w", err)
	}
	return buf.Bytes(), nil
}

// writeBody renders a bare text/html body, using multipart/alternative when
// both are present.
func writeBody(buf *bytes.Buffer, text, html string, header func(name, value string)) error {
	switch {
	case text != "" && html != "":
		alternative := multipart.NewWriter(buf)
		header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%s", alternative.Boundary()))
		buf.WriteString("\r\n")
		if err := writeTextPart(alternative, "text/plain; charset=utf-8", text); err != nil {
			return err
		}
		if err := writeTextPart(alternative, "text/html; charset=utf-8", html); err != nil {
			return err
		}
		return alternative.Close()
	case html != "":
		header("Content-Type", "text/html; charset=utf-8")
		buf.WriteString("\r\n")
		buf.WriteString(html)
	default:
		header("Content-Type", "text/plain; charset=utf-8")
		buf.WriteString("\r\n")
		buf.WriteString(text)
	}
	return nil
}

// writeBodyPart renders the body inside a multipart/mixed message.
func writeBodyPart(mixed *multipart.Writer, text, html string) error {
	if text != "" && html != "" {
		var altBuf bytes.Buffer
		alternative := multipart.NewWriter(&altBuf)
		if err := writeTextPart(alternative, "text/plain; charset=utf-8", text); err != nil {
			return err
		}
		if err := writeTextPart(alternative, "text/html; charset=utf-8", html); err != nil {
			return err
		}
		if err := alternative.Close(); err != nil {
			return err
		}

		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%s", alternative.Boundary()))
		part, err := mixed.CreatePart(hdr)
		if err != nil {
			return fmt.Errorf("could not create body part: %w", err)
		}
		_, err = part.Write(altBuf.Bytes())
		return err
	}

	contentType, body := "text/plain; charset=utf-8", text
	if html != "" {
		contentType, body = "text/html; charset=utf-8", html
	}
	return writeTextPart(mixed, contentType, body)
}

func writeTextPart(w *multipart.Writer, contentType, body string) error {
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return fmt.Errorf("could not create body part: %w", err)
	}
	_, err = part.Write([]byte(body))
	return err
}

// writeBase64 writes content base64-encoded in 76-column lines.
func writeBase64(w io.Writer, content []byte) error {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := fmt.Fprintf(w, "%s\r\n", encoded[:n]); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
