package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
)

type viewerMock struct {
	opened []string
}

func (v *viewerMock) Open(url string) error {
	v.opened = append(v.opened, url)
	return nil
}

func msgOf(c Content) Message {
	return Message{ID: "m1", Author: "ana", Content: c}
}

func TestRender(t *testing.T) {
	poll := Poll{Question: "Best day?", Options: []string{"Mon", "Fri"}}

	tests := []struct {
		name        string
		msg         Message
		results     Summary
		wantText    string
		wantActions []Action
	}{
		{
			name:     "text",
			msg:      msgOf(Text{Body: "hello"}),
			wantText: "ana\nhello",
		},
		{
			name:        "file",
			msg:         msgOf(File{Notice: "notes.pdf", Names: []string{"notes.pdf"}}),
			wantText:    "ana\nFile shared: notes.pdf",
			wantActions: []Action{{Kind: ActionDownload, Label: "notes.pdf", Target: "notes.pdf"}},
		},
		{
			name:     "poll without votes",
			msg:      msgOf(poll),
			results:  Summary{Question: "Best day?", Counts: []OptionCount{{"Mon", 0}, {"Fri", 0}}},
			wantText: "ana\nPoll: Best day?",
			wantActions: []Action{
				{Kind: ActionVote, Label: "Mon", Target: "Best day?"},
				{Kind: ActionVote, Label: "Fri", Target: "Best day?"},
			},
		},
		{
			name:     "poll with votes",
			msg:      msgOf(poll),
			results:  Summary{Question: "Best day?", Counts: []OptionCount{{"Mon", 0}, {"Fri", 2}}, Voted: true},
			wantText: "ana\nPoll: Best day?\nResults:\nMon: 0 votes\nFri: 2 votes",
			wantActions: []Action{
				{Kind: ActionVote, Label: "Mon", Target: "Best day?"},
				{Kind: ActionVote, Label: "Fri", Target: "Best day?"},
			},
		},
		{
			name:     "poll with results of another question",
			msg:      msgOf(poll),
			results:  Summary{Question: "Lunch?", Counts: []OptionCount{{"Mon", 3}}, Voted: true},
			wantText: "ana\nPoll: Best day?",
			wantActions: []Action{
				{Kind: ActionVote, Label: "Mon", Target: "Best day?"},
				{Kind: ActionVote, Label: "Fri", Target: "Best day?"},
			},
		},
		{
			name:     "event",
			msg:      msgOf(Event{Body: "ana has joined the chat."}),
			wantText: "ana\nEvent Notification: ana has joined the chat.",
		},
		{
			name:        "link",
			msg:         msgOf(Link{URL: "https://go.dev"}),
			wantText:    "ana\nResource Link: https://go.dev",
			wantActions: []Action{{Kind: ActionOpenLink, Label: "Open Link", Target: "https://go.dev"}},
		},
		{
			name:     "unknown kind",
			msg:      msgOf(Unsupported{Tag: "bogus", Body: "??"}),
			wantText: "Unsupported message type.",
		},
		{
			name:     "no content",
			msg:      Message{Author: "ana"},
			wantText: "Unsupported message type.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag := Render(tt.msg, tt.results)
			assert.Equal(t, tt.wantText, frag.Text())
			assert.Equal(t, tt.wantActions, frag.Actions)
		})
	}
}

func TestRender_Styles(t *testing.T) {
	frag := Render(msgOf(Event{Body: "Exam on Friday"}), Summary{})
	require.Len(t, frag.Lines, 2)
	assert.Equal(t, StyleBold, frag.Lines[0].Style)
	assert.Equal(t, StyleEmphasis, frag.Lines[1].Style)

	unsupported := Render(msgOf(Unsupported{Tag: "bogus"}), Summary{})
	assert.Nil(t, unsupported.Avatar)
	assert.Empty(t, unsupported.Author)
	assert.Empty(t, unsupported.Actions)
}

func TestRender_Author(t *testing.T) {
	msg := Message{
		Author:  "ana",
		Profile: user.Profile{Major: "Physics", Year: "2", Interests: []string{"chess"}},
		Content: Text{Body: "hi"},
	}
	frag := Render(msg, Summary{})
	require.NotNil(t, frag.Avatar)
	assert.Equal(t, "A", frag.Avatar.Initials)
	assert.Equal(t, "Major: Physics\nYear: 2\nInterests: chess", frag.Tooltip)

	frag = Render(Message{Author: "bob", Content: Text{Body: "hi"}}, Summary{})
	assert.Equal(t, "No profile details available.", frag.Tooltip)
}

func TestAction_Open(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://go.dev"},
		{name: "http", url: "http://example.com/a?b=c"},
		{name: "ftp", url: "ftp://x", wantErr: true},
		{name: "no scheme", url: "go.dev", wantErr: true},
		{name: "javascript", url: "javascript:alert(1)", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := &viewerMock{}
			frag := Render(msgOf(Link{URL: tt.url}), Summary{})
			require.Len(t, frag.Actions, 1)

			err := frag.Actions[0].Open(viewer)
			if tt.wantErr {
				assert.True(t, core.IsInvalidFormat(err))
				assert.Equal(t, "Invalid URL format.", err.Error())
				assert.Empty(t, viewer.opened)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, []string{tt.url}, viewer.opened)
		})
	}
}

func TestAvatarFor(t *testing.T) {
	a := AvatarFor("ana")
	assert.Equal(t, "A", a.Initials)
	assert.Contains(t, avatarColors, a.Color)
	assert.Equal(t, a, AvatarFor("ana"))
	assert.Equal(t, "É", AvatarFor("élodie").Initials)
	assert.Equal(t, "?", AvatarFor("  ").Initials)
	assert.Len(t, avatarColors, 13)
}
