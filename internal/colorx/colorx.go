// Package colorx derives the default pastel color of a subject.
package colorx

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	saturation = 0.45
	lightness  = 0.78
)

var hexRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

// For returns the deterministic #RRGGBB color for subject. The subject is
// trimmed and lower-cased, hashed with MD5 and the digest, read as a big
// unsigned integer, picks the hue.
func For(subject string) string {
	key := strings.ToLower(strings.TrimSpace(subject))
	sum := md5.Sum([]byte(key))

	n := new(big.Int).SetBytes(sum[:])
	hue := new(big.Int).Mod(n, big.NewInt(360)).Int64()

	return hex(colorful.Hsl(float64(hue), saturation, lightness))
}

// hex truncates each channel instead of rounding.
func hex(c colorful.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	n := int(v * 255)
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return n
}

// Normalize upper-cases and validates a user supplied #RRGGBB color.
func Normalize(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, hexRe.MatchString(s)
}
