// Package notify delivers best-effort messages to leads and applicants.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Notifier interface {
	SendThankYou(ctx context.Context, destination, name string) error
	SendApplicationReceived(ctx context.Context, destination, name, position string) error
}

// LeadAddress is the delivery address used for a lead's thank-you message.
// The relay maps it back to the WhatsApp number.
func LeadAddress(contactNumber string) string {
	return strings.TrimSpace(contactNumber) + "@whatsapp.com"
}

type Options struct {
	Driver string // log | http | amqp

	From       string
	CareerFrom string

	APIURL string
	APIKey string

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	Timeout time.Duration
}

// Message is the rendered notification handed to a transport.
type Message struct {
	Kind    string `json:"kind"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

const (
	KindThankYou            = "lead_thank_you"
	KindApplicationReceived = "application_received"
)

var (
	thankYouTmpl = template.Must(template.New(KindThankYou).Parse(
		`<h1>Thank you, {{.Name}}!</h1>
<p>We've received your inquiry about solar energy solutions. Our team will review your requirements and get back to you shortly.</p>
<p>In the meantime, you can learn more about our services on our website.</p>
<p>Best regards,<br>The Nigaran Solar Team</p>
`))

	applicationTmpl = template.Must(template.New(KindApplicationReceived).Parse(
		`<h1>Thank you for applying, {{.Name}}!</h1>
<p>We've received your application for the {{.Position}} position at Nigaran Solar.</p>
<p>Our hiring team will review your application and contact you if your qualifications match our requirements.</p>
<p>Best regards,<br>Nigaran Solar HR Team</p>
`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func thankYou(from, to, name string) (Message, error) {
	body, err := render(thankYouTmpl, struct{ Name string }{name})
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    KindThankYou,
		From:    from,
		To:      to,
		Subject: "Thank You for Your Interest in Solar Energy",
		HTML:    body,
	}, nil
}

func applicationReceived(from, to, name, position string) (Message, error) {
	body, err := render(applicationTmpl, struct{ Name, Position string }{name, position})
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    KindApplicationReceived,
		From:    from,
		To:      to,
		Subject: "Application Received - Nigaran Solar",
		HTML:    body,
	}, nil
}

// transport sends one rendered message.
type transport interface {
	send(ctx context.Context, m Message) error
}

// Mailer renders messages and hands them to a transport.
type Mailer struct {
	from       string
	careerFrom string
	t          transport
}

func (m *Mailer) SendThankYou(ctx context.Context, destination, name string) error {
	msg, err := thankYou(m.from, destination, name)
	if err != nil {
		return err
	}
	return m.t.send(ctx, msg)
}

func (m *Mailer) SendApplicationReceived(ctx context.Context, destination, name, position string) error {
	msg, err := applicationReceived(m.careerFrom, destination, name, position)
	if err != nil {
		return err
	}
	return m.t.send(ctx, msg)
}

// Close releases the transport's connection, if it holds one.
func (m *Mailer) Close() error {
	if c, ok := m.t.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// New builds the notifier selected by opts.Driver. The returned value also
// implements io.Closer.
func New(opts Options, logger *zap.Logger) (*Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("notify")
	if opts.From == "" {
		opts.From = "Nigaran Solar <no-reply@nigaransolar.com>"
	}
	if opts.CareerFrom == "" {
		opts.CareerFrom = "Nigaran Solar Careers <careers@nigaransolar.com>"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	var (
		t   transport
		err error
	)
	switch strings.ToLower(opts.Driver) {
	case "", "log":
		t = &logTransport{log: logger}
	case "http":
		t, err = newHTTPTransport(opts, logger)
	case "amqp":
		t, err = newAMQPTransport(opts, logger)
	default:
		return nil, fmt.Errorf("unknown notify driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return &Mailer{from: opts.From, careerFrom: opts.CareerFrom, t: t}, nil
}

type logTransport struct {
	log *zap.Logger
}

func (l *logTransport) send(_ context.Context, m Message) error {
	l.log.Info("notification",
		zap.String("kind", m.Kind),
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
	)
	return nil
}
