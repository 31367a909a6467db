// Package matcher extracts the owner identifier embedded in payslip
// filenames. Assignment is purely syntactic: the matched digit run is not
// checked against the account roster.
package matcher

import "regexp"

// ownerIDPattern matches a run of 5 to 12 consecutive digits. Shorter runs
// never qualify; a longer run matches its first 12 digits.
var ownerIDPattern = regexp.MustCompile(`[0-9]{5,12}`)

// OwnerID returns the owner identifier found in the given base filename and
// whether one was found. The first qualifying digit run wins, even when a
// misleading run (e.g. a date prefix) precedes the real ID.
func OwnerID(filename string) (string, bool) {
	id := ownerIDPattern.FindString(filename)
	return id, id != ""
}
