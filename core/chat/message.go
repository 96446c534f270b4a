package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/KB1707/CramJam/core/user"
)

// Message kinds.
const (
	KindText  = "text"
	KindFile  = "file"
	KindPoll  = "poll"
	KindEvent = "event"
	KindLink  = "link"
)

// Content is the kind-specific payload of a Message.
// The set of implementations is closed: Text, File, Poll, Event, Link and,
// only when decoding a foreign envelope, Unsupported.
type Content interface {
	Kind() string
	body() string
	attachments() []string
}

type (
	// Text is a plain chat message.
	Text struct{ Body string }

	// File announces shared files. Notice is the displayed body, Names the stored file names.
	File struct {
		Notice string
		Names  []string
	}

	// Poll opens a vote on Question among Options.
	Poll struct {
		Question string
		Options  []string
	}

	// Event is an announcement: joins, calendar notes...
	Event struct{ Body string }

	// Link points at an external resource.
	Link struct{ URL string }

	// Unsupported carries a kind tag this build does not know.
	Unsupported struct {
		Tag  string
		Body string
	}
)

func (Text) Kind() string                 { return KindText }
func (c Text) body() string               { return c.Body }
func (Text) attachments() []string        { return []string{} }
func (File) Kind() string                 { return KindFile }
func (c File) body() string               { return c.Notice }
func (c File) attachments() []string      { return c.Names }
func (Poll) Kind() string                 { return KindPoll }
func (c Poll) body() string               { return c.Question }
func (c Poll) attachments() []string      { return c.Options }
func (Event) Kind() string                { return KindEvent }
func (c Event) body() string              { return c.Body }
func (Event) attachments() []string       { return []string{} }
func (Link) Kind() string                 { return KindLink }
func (c Link) body() string               { return c.URL }
func (Link) attachments() []string        { return []string{} }
func (c Unsupported) Kind() string        { return c.Tag }
func (c Unsupported) body() string        { return c.Body }
func (Unsupported) attachments() []string { return []string{} }

// Message is one unit of chat activity. It is never modified once built.
type Message struct {
	ID      string
	Author  string
	Profile user.Profile
	Content Content
	SentAt  time.Time // UTC
}

// NewMessage stamps content from author with a fresh id and the current time.
func NewMessage(author user.User, content Content) Message {
	return Message{
		ID:      uuid.New().String(),
		Author:  author.Username,
		Profile: author.Profile,
		Content: content,
		SentAt:  time.Now().UTC(),
	}
}

// Kind is the content kind tag, empty for a message without content.
func (m Message) Kind() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.Kind()
}

// Body is the free-form payload: text, file notice, poll question, event text or URL.
func (m Message) Body() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.body()
}

// Attachments are the poll options of a poll and the file names of a file share. Empty otherwise.
func (m Message) Attachments() []string {
	if m.Content == nil {
		return []string{}
	}
	atts := m.Content.attachments()
	out := make([]string, len(atts))
	copy(out, atts)
	return out
}
