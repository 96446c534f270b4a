package chat

import (
	"encoding/json"
	"time"

	"github.com/KB1707/CramJam/core/user"
)

// envelope is the wire form of a Message.
type envelope struct {
	ID          string        `json:"id,omitempty"`
	Kind        string        `json:"kind"`
	Author      string        `json:"author"`
	Body        string        `json:"body"`
	Attachments []string      `json:"attachments"`
	Profile     *user.Profile `json:"profile,omitempty"`
	SentAt      time.Time     `json:"sent_at"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	env := envelope{
		ID:          m.ID,
		Kind:        m.Kind(),
		Author:      m.Author,
		Body:        m.Body(),
		Attachments: m.Attachments(),
		SentAt:      m.SentAt,
	}
	if !m.Profile.IsZero() {
		p := m.Profile
		env.Profile = &p
	}
	return json.Marshal(env)
}

// UnmarshalJSON never fails on an unknown kind: the content becomes Unsupported.
func (m *Message) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*m = Message{
		ID:      env.ID,
		Author:  env.Author,
		Content: decodeContent(env.Kind, env.Body, env.Attachments),
		SentAt:  env.SentAt,
	}
	if env.Profile != nil {
		m.Profile = *env.Profile
	}
	return nil
}

func decodeContent(kind, body string, attachments []string) Content {
	switch kind {
	case KindText:
		return Text{Body: body}
	case KindFile:
		return File{Notice: body, Names: attachments}
	case KindPoll:
		return Poll{Question: body, Options: attachments}
	case KindEvent:
		return Event{Body: body}
	case KindLink:
		return Link{URL: body}
	default:
		return Unsupported{Tag: kind, Body: body}
	}
}
