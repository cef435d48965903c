package receipt

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// Message is one outbound receipt mail.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment []byte
	Filename   string
}

// Mailer dispatches receipt mails.
type Mailer interface {
	Send(m Message) error
}

// HTTPMailer delivers mail through an HTTP mail API. Calls go through a
// circuit breaker so a broken mail provider fails fast instead of tying up
// request handlers.
type HTTPMailer struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	from    string
}

func NewHTTPMailer(apiURL, apiKey, from string) *HTTPMailer {
	client := resty.New().
		SetBaseURL(apiURL).
		SetAuthToken(apiKey).
		SetTimeout(10 * time.Second)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "mail-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &HTTPMailer{client: client, breaker: breaker, from: from}
}

func (m *HTTPMailer) Send(msg Message) error {
	payload := map[string]any{
		"from":    m.from,
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Body,
	}
	if len(msg.Attachment) > 0 {
		payload["attachments"] = []map[string]string{{
			"filename":     msg.Filename,
			"content_type": "application/pdf",
			"content":      base64.StdEncoding.EncodeToString(msg.Attachment),
		}}
	}

	_, err := m.breaker.Execute(func() (any, error) {
		resp, err := m.client.R().SetBody(payload).Post("/messages")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("mail api returned %s", resp.Status())
		}
		return nil, nil
	})
	return err
}
