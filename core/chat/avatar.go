package chat

import (
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var avatarColors = []string{
	"amber", "blue", "brown", "cyan", "green", "indigo", "lime",
	"orange", "pink", "purple", "red", "teal", "yellow",
}

type Avatar struct {
	Initials string `json:"initials"`
	Color    string `json:"color"`
}

// AvatarFor derives the avatar of an author: the upper-cased first letter
// and a colour that stays the same for a given name.
func AvatarFor(name string) Avatar {
	name = strings.TrimSpace(name)
	if name == "" {
		return Avatar{Initials: "?", Color: avatarColors[0]}
	}
	r, _ := utf8.DecodeRuneInString(name)
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return Avatar{
		Initials: string(unicode.ToUpper(r)),
		Color:    avatarColors[h.Sum32()%uint32(len(avatarColors))],
	}
}
