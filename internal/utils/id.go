package utils

import (
	"crypto/rand"
	"encoding/base64"
	"path"
	"strings"

	"github.com/google/uuid"
)

const maxOriginalNameLen = 100

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewStorageName returns a collision-resistant, filesystem-safe name for an
// upload: a random UUID followed by a sanitised copy of the original name.
func NewStorageName(original string) string {
	id := uuid.NewString()
	if clean := SanitizeFilename(original); clean != "" {
		return id + "-" + clean
	}
	return id
}

// SanitizeFilename keeps only the base name of a client supplied filename and
// replaces anything outside [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	clean := b.String()
	for strings.Contains(clean, "..") {
		clean = strings.ReplaceAll(clean, "..", ".")
	}
	clean = strings.Trim(clean, "._")
	if len(clean) > maxOriginalNameLen {
		clean = clean[len(clean)-maxOriginalNameLen:]
	}
	return clean
}
