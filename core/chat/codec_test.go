package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KB1707/CramJam/core/user"
)

func TestMessage_Accessors(t *testing.T) {
	tests := []struct {
		name     string
		content  Content
		wantKind string
		wantBody string
		wantAtts []string
	}{
		{name: "text", content: Text{Body: "hi"}, wantKind: KindText, wantBody: "hi", wantAtts: []string{}},
		{name: "file", content: File{Notice: "a.pdf", Names: []string{"a.pdf"}}, wantKind: KindFile, wantBody: "a.pdf", wantAtts: []string{"a.pdf"}},
		{name: "poll", content: Poll{Question: "Q?", Options: []string{"A", "B"}}, wantKind: KindPoll, wantBody: "Q?", wantAtts: []string{"A", "B"}},
		{name: "event", content: Event{Body: "Exam"}, wantKind: KindEvent, wantBody: "Exam", wantAtts: []string{}},
		{name: "link", content: Link{URL: "https://go.dev"}, wantKind: KindLink, wantBody: "https://go.dev", wantAtts: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewMessage(user.User{Username: "ana"}, tt.content)
			assert.NotEmpty(t, msg.ID)
			assert.Equal(t, "ana", msg.Author)
			assert.Equal(t, tt.wantKind, msg.Kind())
			assert.Equal(t, tt.wantBody, msg.Body())
			assert.Equal(t, tt.wantAtts, msg.Attachments())
		})
	}
}

func TestMessage_AttachmentsAreCopied(t *testing.T) {
	msg := msgOf(Poll{Question: "Q?", Options: []string{"A", "B"}})
	atts := msg.Attachments()
	atts[0] = "Z"
	assert.Equal(t, []string{"A", "B"}, msg.Attachments())
}

func TestMessage_JSON(t *testing.T) {
	msg := msgOf(Poll{Question: "Q?", Options: []string{"A", "B"}})
	msg.Profile = user.Profile{Major: "Physics"}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "poll", env["kind"])
	assert.Equal(t, "Q?", env["body"])
	assert.Equal(t, []interface{}{"A", "B"}, env["attachments"])

	var got Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, msg.Content, got.Content)
	assert.Equal(t, msg.Profile, got.Profile)
}

func TestMessage_JSONEmptyAttachments(t *testing.T) {
	for _, content := range []Content{Text{Body: "hi"}, Event{Body: "Exam"}, Link{URL: "https://go.dev"}} {
		t.Run(content.Kind(), func(t *testing.T) {
			data, err := json.Marshal(msgOf(content))
			require.NoError(t, err)
			assert.Contains(t, string(data), `"attachments":[]`)
		})
	}
}

func TestMessage_UnmarshalUnknownKind(t *testing.T) {
	var msg Message
	err := json.Unmarshal([]byte(`{"kind":"bogus","author":"ana","body":"??","attachments":[]}`), &msg)
	require.NoError(t, err)
	assert.Equal(t, Unsupported{Tag: "bogus", Body: "??"}, msg.Content)
	assert.Equal(t, "Unsupported message type.", Render(msg, Summary{}).Text())
}
