package format

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// EncodeText returns the stored form of s and the flags describing it.
//
// With compact enabled, non-ASCII strings that fit Windows-1252 are stored one
// byte per character. The compact form is only used when it is shorter and
// decodes back to exactly s; otherwise the UTF-8 bytes are stored unchanged.
func EncodeText(s string, compact bool) ([]byte, uint8) {
	if !compact || isASCII(s) {
		return []byte(s), 0
	}
	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil || len(encoded) >= len(s) {
		return []byte(s), 0
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(encoded)
	if err != nil || string(decoded) != s {
		return []byte(s), 0
	}
	return encoded, FlagCompactText
}

// DecodeText converts a stored payload back into the UTF-8 string it was
// encoded from.
func DecodeText(data []byte, flags uint8) (string, error) {
	if flags&FlagCompactText == 0 {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: windows-1252: %w", ErrText, err)
	}
	return string(decoded), nil
}

// isASCII checks if all bytes in s are ASCII (< 0x80). ASCII has the same
// encoding in Windows-1252 and UTF-8.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
