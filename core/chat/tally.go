package chat

import (
	"context"

	"github.com/pkg/errors"
)

// ErrClosed is returned by the tally and the broadcaster once their loop has stopped.
var ErrClosed = errors.New("chat: service stopped")

type (
	// OptionCount is the number of votes one option received.
	OptionCount struct {
		Option string `json:"option"`
		Votes  int    `json:"votes"`
	}

	// Summary is the vote count of a poll question for a list of options.
	Summary struct {
		Question string        `json:"question"`
		Counts   []OptionCount `json:"counts"`
		// Voted reports whether the question has received any vote at all.
		Voted bool `json:"voted"`
	}

	tallyTable map[string]map[string]int
)

// Total is the number of votes across the listed options.
func (s Summary) Total() int {
	var n int
	for _, c := range s.Counts {
		n += c.Votes
	}
	return n
}

// Tally counts poll votes per question and option.
// Every read and write runs on the Run loop, one at a time.
type Tally struct {
	ops  chan func(tallyTable)
	done chan struct{}
}

// NewTally returns a tally with no votes. It serves nothing until Run is called.
func NewTally() *Tally {
	return &Tally{
		ops:  make(chan func(tallyTable)),
		done: make(chan struct{}),
	}
}

// Run owns the counts until ctx is done.
func (t *Tally) Run(ctx context.Context) {
	counts := make(tallyTable)
	for {
		select {
		case <-ctx.Done():
			close(t.done)
			return
		case op := <-t.ops:
			op(counts)
		}
	}
}

// Wait blocks until the tally loop has stopped.
func (t *Tally) Wait() {
	<-t.done
}

func (t *Tally) do(ctx context.Context, op func(tallyTable)) error {
	select {
	case t.ops <- op:
		return nil
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordVote adds one vote for option on question, creating both entries as needed.
// There is no voter identity: every call counts.
func (t *Tally) RecordVote(ctx context.Context, question, option string) error {
	return t.do(ctx, func(counts tallyTable) {
		record(counts, question, option)
	})
}

// Vote records one vote for option on question and summarizes question over options in the same step,
// so the summary always includes this vote and no later one.
func (t *Tally) Vote(ctx context.Context, question, option string, options []string) (Summary, error) {
	res := make(chan Summary, 1)
	err := t.do(ctx, func(counts tallyTable) {
		record(counts, question, option)
		res <- summarize(counts, question, options)
	})
	if err != nil {
		return Summary{}, err
	}
	return <-res, nil
}

// Summarize returns one count per option, in the given order. Options never voted for count 0.
func (t *Tally) Summarize(ctx context.Context, question string, options []string) (Summary, error) {
	res := make(chan Summary, 1)
	err := t.do(ctx, func(counts tallyTable) {
		res <- summarize(counts, question, options)
	})
	if err != nil {
		return Summary{}, err
	}
	return <-res, nil
}

func record(counts tallyTable, question, option string) {
	opts, ok := counts[question]
	if !ok {
		opts = make(map[string]int)
		counts[question] = opts
	}
	opts[option]++
}

func summarize(counts tallyTable, question string, options []string) Summary {
	opts, voted := counts[question]
	s := Summary{
		Question: question,
		Counts:   make([]OptionCount, 0, len(options)),
		Voted:    voted,
	}
	for _, o := range options {
		s.Counts = append(s.Counts, OptionCount{Option: o, Votes: opts[o]})
	}
	return s
}
