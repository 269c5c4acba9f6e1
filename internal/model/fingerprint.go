package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for content-addressed regulation identity.
// Version suffix enables future algorithm migration.
const domainRegulation = "regtrace/regulation/v1"

// Fingerprint computes the content hash of a regulation body.
// Format: SHA256(domain + 0x00 + normalized text).
// The null byte separator prevents domain/data boundary ambiguity.
//
// The text is normalized first so cosmetic differences (CRLF vs LF, trailing
// spaces, Unicode composition) do not register as textual drift and force a
// spurious new version.
func Fingerprint(body string) string {
	h := sha256.New()
	h.Write([]byte(domainRegulation))
	h.Write([]byte{0x00})
	h.Write([]byte(NormalizeText(body)))
	return hex.EncodeToString(h.Sum(nil))
}

// NormalizeText canonicalizes regulation text for fingerprinting:
// NFC Unicode normalization, CRLF to LF, trailing whitespace stripped per
// line, leading/trailing blank lines removed.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
