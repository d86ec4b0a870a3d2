package types

import (
	"fmt"
	"time"
)

// Account holds the connection settings for one mail account. The credential
// is decrypted in memory only; it is never serialized by the tool layer.
type Account struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`

	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	TLS      bool   `json:"tls"`

	// ConnectTimeout bounds dial and login, in seconds. Zero means the
	// default of 30 seconds.
	ConnectTimeout int `json:"connect_timeout,omitempty"`

	// Optional distinct SMTP endpoint. Empty host means "same host as IMAP".
	SMTPHost string `json:"smtp_host,omitempty"`
	SMTPPort int    `json:"smtp_port,omitempty"`
}

// Addr returns the host:port of the IMAP endpoint.
func (a *Account) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// SMTPAddr returns the host:port of the SMTP endpoint, falling back to the
// IMAP host with port 587 when no distinct endpoint is configured.
func (a *Account) SMTPAddr() (host string, port int) {
	host, port = a.SMTPHost, a.SMTPPort
	if host == "" {
		host = a.Host
	}
	if port == 0 {
		port = 587
	}
	return host, port
}

// DialTimeout returns the connect timeout as a duration.
func (a *Account) DialTimeout() time.Duration {
	if a.ConnectTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.ConnectTimeout) * time.Second
}

// EmailMessage is a summary of one message, produced by search plus a
// batched header fetch. It carries no body content.
type EmailMessage struct {
	UID       uint32    `json:"uid"`
	Date      time.Time `json:"date"`
	From      string    `json:"from"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	MessageID string    `json:"message_id"`
	InReplyTo string    `json:"in_reply_to,omitempty"`
	Flags     []string  `json:"flags,omitempty"`
}

// EmailContent is a fully fetched and parsed message.
type EmailContent struct {
	EmailMessage

	TextContent string       `json:"text_content,omitempty"`
	HTMLContent string       `json:"html_content,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment describes one attachment of a fetched message. Content holds
// the decoded payload so a forward can re-attach it; it is not rendered to
// the tool layer.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	ContentID   string `json:"content_id,omitempty"`
	Content     []byte `json:"-"`
}

// Folder is one node of the mailbox hierarchy. Name is the full path as the
// server knows it; children paths are joined with this folder's delimiter.
type Folder struct {
	Name       string    `json:"name"`
	Delimiter  string    `json:"delimiter"`
	Attributes []string  `json:"attributes,omitempty"`
	Children   []*Folder `json:"children,omitempty"`
}

// OutboundEmail is a message about to be handed to the SMTP sender. It is
// constructed per call and never persisted.
type OutboundEmail struct {
	From       string
	To         []string
	Cc         []string
	Bcc        []string
	ReplyTo    string
	Subject    string
	Text       string
	HTML       string
	InReplyTo  string
	References string

	Attachments []OutboundAttachment
}

// Recipients returns the full envelope recipient list (To + Cc + Bcc).
func (e *OutboundEmail) Recipients() []string {
	rcpts := make([]string, 0, len(e.To)+len(e.Cc)+len(e.Bcc))
	rcpts = append(rcpts, e.To...)
	rcpts = append(rcpts, e.Cc...)
	rcpts = append(rcpts, e.Bcc...)
	return rcpts
}

// OutboundAttachment is one attachment of an outgoing message.
type OutboundAttachment struct {
	Filename    string
	Content     []byte
	ContentType string
}
