package email

import (
	"context"
	"fmt"
	"net/smtp"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// Transport delivers one message. The queue worker owns retries.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

type SMTPTransport struct {
	from     string
	fromName string
	host     string
	port     string
	user     string
	pass     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPTransport(from, fromName, host, port, user, pass string) *SMTPTransport {
	return &SMTPTransport{
		from:     from,
		fromName: fromName,
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		sendMail: smtp.SendMail,
	}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(_ context.Context, msg Message) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", t.fromName, t.from)
	if msg.ToName != "" {
		message += fmt.Sprintf("To: %s <%s>\r\n", msg.ToName, msg.To)
	} else {
		message += fmt.Sprintf("To: %s\r\n", msg.To)
	}
	message += fmt.Sprintf("Subject: %s\r\n", msg.Subject)
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n" + msg.Body

	var auth smtp.Auth
	if t.user != "" && t.pass != "" {
		auth = smtp.PlainAuth("", t.user, t.pass, t.host)
	}

	addr := t.host + ":" + t.port
	return t.sendMail(addr, auth, t.from, []string{msg.To}, []byte(message))
}
