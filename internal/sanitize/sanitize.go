// Package sanitize masks secret material in note bodies before they reach
// any server-rendered page. This is a display behavior, not a security
// control: the JSON API intentionally serves the raw body.
package sanitize

import "strings"

// Replacement strings shown in place of masked tokens. The wording is part
// of the challenge fixture and must match it byte for byte.
const (
	MaskedGeneric = "[INFORMATION SENSIBLE - ACCÈS RESTREINT]"
	MaskedAdmin   = "[CONTENU CONFIDENTIEL ADMIN - VISIBLE UNIQUEMENT VIA API AUTORISÉE]"
	MaskedDecoy   = "[ANCIENNE INFORMATION MASQUÉE]"
)

// Decoys are the planted false flags. They are fixed: the seeder appends
// them to specific notes and the sanitizer masks them everywhere.
var Decoys = [3]string{
	"GENTLE{f4ke_fl4g_123}",
	"GENTLE{0ld_p@ssw0rd}",
	"GENTLE{exp1red_t0ken_456}",
}

// Sanitizer rewrites note bodies for human display. Immutable after
// construction.
type Sanitizer struct {
	flag        string
	adminUserID int
}

// New returns a Sanitizer that masks flag, using the admin wording for
// notes owned by adminUserID.
func New(flag string, adminUserID int) *Sanitizer {
	return &Sanitizer{flag: flag, adminUserID: adminUserID}
}

// Clean replaces every occurrence of the real flag and of each decoy with
// the corresponding masked wording and returns the result. It is pure:
// same inputs, same output, no side effects.
//
// viewerID is accepted but never consulted; the output varies only with
// the note owner. The parameter is vestigial — kept because the exercise's
// solvability depends on masking NOT being a per-viewer policy — and must
// not be promoted into one.
func (s *Sanitizer) Clean(content string, viewerID, ownerID int) string {
	_ = viewerID

	if strings.Contains(content, s.flag) {
		replacement := MaskedGeneric
		if ownerID == s.adminUserID {
			replacement = MaskedAdmin
		}
		content = strings.ReplaceAll(content, s.flag, replacement)
	}

	for _, decoy := range Decoys {
		content = strings.ReplaceAll(content, decoy, MaskedDecoy)
	}

	return content
}

// Flag returns the token this sanitizer masks.
func (s *Sanitizer) Flag() string {
	return s.flag
}
