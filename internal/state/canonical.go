package state

import "golang.org/x/text/unicode/norm"

// Canonical returns the NFC normalization of s.
//
// Agent IDs and field names flow into the event log as map keys and
// comparison targets; two visually identical identifiers with
// different Unicode compositions would otherwise produce logs that
// never compare equal. Everything that names an agent or a field is
// normalized through here before it reaches the log.
func Canonical(s string) string {
	return norm.NFC.String(s)
}
