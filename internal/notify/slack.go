package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Slack struct {
	Webhook string
	Client  *http.Client
}

func NewSlack(webhook string) *Slack {
	if webhook == "" {
		return nil
	}
	return &Slack{
		Webhook: webhook,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type slackPayload struct {
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color string `json:"color"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

func (s *Slack) Send(ctx context.Context, o Outcome) error {
	if s == nil || s.Webhook == "" {
		return errors.New("slack disabled")
	}

	att := slackAttachment{
		Color: "good",
		Title: fmt.Sprintf("%s.%s deploy checks passed", o.App, o.Type),
	}
	if !o.Passed {
		att.Color = "danger"
		att.Title = fmt.Sprintf("%s.%s deploy checks FAILED", o.App, o.Type)
		att.Text = o.Summary
	}

	body, _ := json.Marshal(slackPayload{Attachments: []slackAttachment{att}})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return errors.New("slack non-2xx")
	}
	return nil
}
