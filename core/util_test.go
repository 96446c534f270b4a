package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		lower bool
		want  string
	}{
		{name: "trim", s: "  Ana \n", want: "Ana"},
		{name: "trim and lower", s: " Ana ", lower: true, want: "ana"},
		{name: "blank", s: " \t ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanString(tt.s, tt.lower))
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want []string
	}{
		{name: "empty", s: "", want: []string{}},
		{name: "single", s: "Yes", want: []string{"Yes"}},
		{name: "trimmed", s: " Option1,  Option2 ,Option3", want: []string{"Option1", "Option2", "Option3"}},
		{name: "drops blanks", s: "a,, ,b,", want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.s))
		})
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "notes.pdf", want: "notes.pdf"},
		{name: "path stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "windows path", in: `C:\Users\ana\notes.pdf`, want: "notes.pdf"},
		{name: "empty", in: "  ", wantErr: true},
		{name: "dot dot", in: "..", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanFileName(tt.in)
			if tt.wantErr {
				assert.True(t, IsInvalidFormat(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "File notes.pdf not found.", NewNotFoundError("File", "notes.pdf").Error())
	assert.Equal(t, "Invalid URL format.", NewInvalidFormatError("URL", "ftp://x").Error())
	assert.True(t, IsNotFound(NewNotFoundError("File", "x")))
	assert.False(t, IsNotFound(NewInvalidFormatError("URL", "x")))
	assert.True(t, IsShutdown(NewShutdownError("bye")))

	vErr := NewValidationError(nil, FieldError{Field: "body", Error: "Message cannot be blank!"})
	assert.True(t, IsValidation(vErr))
	assert.Equal(t, "Message cannot be blank!", vErr.Error())
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "Name", FieldLabel("username"))
	assert.Equal(t, "Password", FieldLabel("password"))
	assert.Equal(t, "Created at", FieldLabel("created_at"))
}
