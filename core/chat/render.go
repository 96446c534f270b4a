package chat

import (
	"fmt"
	"strings"

	"github.com/KB1707/CramJam/core"
)

// Line styles.
const (
	StylePlain    = "plain"
	StyleBold     = "bold"
	StyleEmphasis = "emphasis"
	StyleItalic   = "italic"
)

// Action kinds.
const (
	ActionDownload = "download"
	ActionVote     = "vote"
	ActionOpenLink = "open_link"
)

const unsupportedText = "Unsupported message type."

type (
	// Line is one displayed line of a fragment.
	Line struct {
		Text  string `json:"text"`
		Style string `json:"style"`
	}

	// Action is something a viewer can do with a rendered message.
	// Target is the file name, the poll question or the URL.
	Action struct {
		Kind   string `json:"kind"`
		Label  string `json:"label"`
		Target string `json:"target"`
	}

	// Fragment is the display form of a Message.
	Fragment struct {
		ID      string        `json:"id,omitempty"`
		Kind    string        `json:"kind"`
		Author  string        `json:"author,omitempty"`
		Avatar  *Avatar       `json:"avatar,omitempty"`
		Tooltip string        `json:"tooltip,omitempty"`
		Lines   []Line        `json:"lines"`
		Actions []Action      `json:"actions,omitempty"`
		Results []OptionCount `json:"results,omitempty"`
	}
)

// Text joins the fragment lines, one per row.
func (f Fragment) Text() string {
	rows := make([]string, 0, len(f.Lines))
	for _, l := range f.Lines {
		rows = append(rows, l.Text)
	}
	return strings.Join(rows, "\n")
}

// Render builds the display form of msg. results is only read for polls and
// only shown when it is about the poll question and the question has votes.
func Render(msg Message, results Summary) Fragment {
	var frag Fragment
	switch c := msg.Content.(type) {
	case Text:
		frag = authored(msg, Line{Text: c.Body, Style: StylePlain})
	case File:
		frag = authored(msg, Line{Text: "File shared: " + c.Notice, Style: StylePlain})
		for _, name := range c.Names {
			frag.Actions = append(frag.Actions, Action{Kind: ActionDownload, Label: name, Target: name})
		}
	case Poll:
		frag = authored(msg, Line{Text: "Poll: " + c.Question, Style: StyleBold})
		for _, opt := range c.Options {
			frag.Actions = append(frag.Actions, Action{Kind: ActionVote, Label: opt, Target: c.Question})
		}
		if results.Voted && results.Question == c.Question {
			frag.Lines = append(frag.Lines, Line{Text: "Results:", Style: StyleItalic})
			for _, rc := range results.Counts {
				frag.Lines = append(frag.Lines, Line{Text: fmt.Sprintf("%s: %d votes", rc.Option, rc.Votes), Style: StyleItalic})
			}
			frag.Results = results.Counts
		}
	case Event:
		frag = authored(msg, Line{Text: "Event Notification: " + c.Body, Style: StyleEmphasis})
	case Link:
		frag = authored(msg, Line{Text: "Resource Link: " + c.URL, Style: StylePlain})
		frag.Actions = []Action{{Kind: ActionOpenLink, Label: "Open Link", Target: c.URL}}
	default:
		return Fragment{
			ID:    msg.ID,
			Kind:  msg.Kind(),
			Lines: []Line{{Text: unsupportedText, Style: StylePlain}},
		}
	}
	return frag
}

func authored(msg Message, lines ...Line) Fragment {
	avatar := AvatarFor(msg.Author)
	return Fragment{
		ID:      msg.ID,
		Kind:    msg.Kind(),
		Author:  msg.Author,
		Avatar:  &avatar,
		Tooltip: msg.Profile.Tooltip(),
		Lines:   append([]Line{{Text: msg.Author, Style: StyleBold}}, lines...),
	}
}

// Viewer shows an external resource to the person using the chat.
type Viewer interface {
	Open(url string) error
}

// IsWebURL reports whether url can be handed to a Viewer.
func IsWebURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// Open hands the link target to viewer. Targets without an http(s) scheme are
// refused with an InvalidFormatError and viewer is not called.
func (a Action) Open(viewer Viewer) error {
	if !IsWebURL(a.Target) {
		return core.NewInvalidFormatError("URL", a.Target)
	}
	return viewer.Open(a.Target)
}
