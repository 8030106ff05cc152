// Package avatars lists the bundled profile pictures.
package avatars

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const prefix = "avatar_"

// Avatar is a bundled picture the user can pick instead of a photo.
type Avatar struct {
	ID          string // e.g. "avatar_software_engineer"
	DisplayName string // e.g. "Software Engineer"
}

var bundled = []string{
	"avatar_accountant",
	"avatar_artist",
	"avatar_chef",
	"avatar_doctor",
	"avatar_farmer",
	"avatar_nurse",
	"avatar_pilot",
	"avatar_software_engineer",
	"avatar_student",
	"avatar_teacher",
}

// Manifest returns the bundled avatars in display order.
func Manifest() []Avatar {
	out := make([]Avatar, 0, len(bundled))
	for _, id := range bundled {
		out = append(out, Avatar{ID: id, DisplayName: DisplayName(id)})
	}
	return out
}

// DisplayName turns an identifier into words: "avatar_software_engineer"
// becomes "Software Engineer".
func DisplayName(id string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimPrefix(id, prefix), "_", " "))
	// Casers keep state, so one is made per call.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Lookup finds a bundled avatar by identifier.
func Lookup(id string) (Avatar, bool) {
	for _, b := range bundled {
		if b == id {
			return Avatar{ID: b, DisplayName: DisplayName(b)}, true
		}
	}
	return Avatar{}, false
}

// IsBundled reports whether an avatar path names a bundled picture rather
// than a file the user supplied.
func IsBundled(path string) bool {
	if path == "" {
		return false
	}
	base := filepath.Base(path)
	if base != path {
		return false
	}
	_, ok := Lookup(strings.TrimSuffix(base, filepath.Ext(base)))
	return ok
}
