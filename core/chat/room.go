package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
)

// Upload is a file handed to the room for sharing.
type Upload struct {
	Name string
	Data []byte
}

// Room is the shared classroom chat. It owns the poll tally and the broadcaster.
type Room struct {
	Name string

	tally  *Tally
	hub    *Broadcaster
	files  core.FileStorage
	logger core.Logger

	mu    sync.RWMutex
	polls map[string][]string // question -> options

	// held from recording a vote to publishing its results, so results go out in tally order
	votes sync.Mutex

	downloads singleflight.Group
}

func NewRoom(name string, tally *Tally, hub *Broadcaster, files core.FileStorage, logger core.Logger) *Room {
	return &Room{
		Name:   name,
		tally:  tally,
		hub:    hub,
		files:  files,
		logger: logger,
		polls:  make(map[string][]string),
	}
}

// Run runs the tally and broadcaster loops until ctx is done.
func (r *Room) Run(ctx context.Context) {
	go r.tally.Run(ctx)
	r.hub.Run(ctx)
	r.tally.Wait()
}

func (r *Room) publish(ctx context.Context, msg Message) (Message, error) {
	if err := r.hub.Publish(ctx, Update{Message: &msg}); err != nil {
		return Message{}, errors.Wrap(err, "publishing message")
	}
	r.logger.Debug(fmt.Sprintf("%s message from %s", msg.Kind(), msg.Author))
	return msg, nil
}

func blankError(field, label string) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: label + " cannot be blank!"})
}

// Post publishes a text, event or link message, by kind.
func (r *Room) Post(ctx context.Context, author user.User, kind, body string) (Message, error) {
	switch kind {
	case KindText, "":
		return r.SendText(ctx, author, body)
	case KindEvent:
		return r.Announce(ctx, author, body)
	case KindLink:
		return r.ShareLink(ctx, author, body)
	default:
		return Message{}, core.NewValidationError(nil, core.FieldError{
			Field: "kind",
			Error: fmt.Sprintf("kind must be one of %s, %s or %s", KindText, KindEvent, KindLink),
		})
	}
}

func (r *Room) SendText(ctx context.Context, author user.User, body string) (Message, error) {
	body = core.CleanString(body)
	if body == "" {
		return Message{}, blankError("body", "Message")
	}
	return r.publish(ctx, NewMessage(author, Text{Body: body}))
}

func (r *Room) Announce(ctx context.Context, author user.User, body string) (Message, error) {
	body = core.CleanString(body)
	if body == "" {
		return Message{}, blankError("body", "Event")
	}
	return r.publish(ctx, NewMessage(author, Event{Body: body}))
}

// ShareLink publishes url as is. Whether it can be opened is decided when opening it.
func (r *Room) ShareLink(ctx context.Context, author user.User, url string) (Message, error) {
	url = core.CleanString(url)
	if url == "" {
		return Message{}, blankError("body", "Link")
	}
	return r.publish(ctx, NewMessage(author, Link{URL: url}))
}

// Join announces usr to the room.
func (r *Room) Join(ctx context.Context, usr user.User) (Message, error) {
	return r.publish(ctx, NewMessage(usr, Event{Body: fmt.Sprintf("%s has joined the chat.", usr.Username)}))
}

// ShareFiles stores every upload, then publishes one file message per upload.
func (r *Room) ShareFiles(ctx context.Context, author user.User, uploads ...Upload) ([]Message, error) {
	if len(uploads) == 0 {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "files", Error: "Select at least one file!"})
	}

	names := make([]string, 0, len(uploads))
	for _, up := range uploads {
		name, err := core.CleanFileName(up.Name)
		if err != nil {
			return nil, err
		}
		if err = r.files.Write(ctx, name, up.Data); err != nil {
			return nil, errors.Wrapf(err, "storing %s", name)
		}
		names = append(names, name)
	}

	msgs := make([]Message, 0, len(names))
	for _, name := range names {
		msg, err := r.publish(ctx, NewMessage(author, File{Notice: name, Names: []string{name}}))
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Download returns the bytes of a shared file. Concurrent downloads of one file share a single read,
// which a cancelled caller does not abort for the others.
func (r *Room) Download(ctx context.Context, name string) ([]byte, error) {
	name, err := core.CleanFileName(name)
	if err != nil {
		return nil, err
	}
	v, err, _ := r.downloads.Do(name, func() (interface{}, error) {
		return r.files.Read(context.WithoutCancel(ctx), name)
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]byte)
	data := make([]byte, len(shared))
	copy(data, shared)
	return data, nil
}

// CreatePoll opens a poll on question. options is a comma-separated list:
// each option is trimmed, blank and repeated ones are dropped.
// Opening a poll on a question already asked replaces its options and keeps its votes.
func (r *Room) CreatePoll(ctx context.Context, author user.User, question, options string) (Message, error) {
	question = core.CleanString(question)
	opts := uniq(core.SplitList(options))

	var flds []core.FieldError
	if question == "" {
		flds = append(flds, core.FieldError{Field: "question", Error: "Question cannot be blank!"})
	}
	if len(opts) == 0 {
		flds = append(flds, core.FieldError{Field: "options", Error: "Poll needs at least one option!"})
	}
	if len(flds) > 0 {
		return Message{}, core.NewValidationError(nil, flds...)
	}

	r.mu.Lock()
	r.polls[question] = opts
	r.mu.Unlock()

	return r.publish(ctx, NewMessage(author, Poll{Question: question, Options: opts}))
}

func (r *Room) pollOptions(question string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.polls[question]
	return opts, ok
}

// Vote records a vote on an open poll and publishes the new results.
// Unknown questions and options not offered by the poll are refused with a NotFoundError.
func (r *Room) Vote(ctx context.Context, question, option string) (Summary, error) {
	question = core.CleanString(question)
	option = core.CleanString(option)
	opts, ok := r.pollOptions(question)
	if !ok {
		return Summary{}, core.NewNotFoundError("Poll", question)
	}
	if !contains(opts, option) {
		return Summary{}, core.NewNotFoundError("Poll option", option)
	}

	r.votes.Lock()
	defer r.votes.Unlock()

	sum, err := r.tally.Vote(ctx, question, option, opts)
	if err != nil {
		return Summary{}, errors.Wrap(err, "recording vote")
	}
	if err = r.hub.Publish(ctx, Update{Results: &sum}); err != nil {
		return Summary{}, errors.Wrap(err, "publishing results")
	}
	return sum, nil
}

// Results summarizes question over options, or over the poll options when none are given.
func (r *Room) Results(ctx context.Context, question string, options ...string) (Summary, error) {
	question = core.CleanString(question)
	if len(options) == 0 {
		opts, ok := r.pollOptions(question)
		if !ok {
			return Summary{}, core.NewNotFoundError("Poll", question)
		}
		options = opts
	}
	return r.tally.Summarize(ctx, question, options)
}

// Render renders msg with the current results when it is a poll.
func (r *Room) Render(ctx context.Context, msg Message) (Fragment, error) {
	p, ok := msg.Content.(Poll)
	if !ok {
		return Render(msg, Summary{}), nil
	}
	sum, err := r.tally.Summarize(ctx, p.Question, p.Options)
	if err != nil {
		return Fragment{}, err
	}
	return Render(msg, sum), nil
}

// Subscribe follows the room from now on.
func (r *Room) Subscribe(ctx context.Context, handler Handler) (*Subscription, error) {
	return r.hub.Subscribe(ctx, handler)
}

func uniq(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}
