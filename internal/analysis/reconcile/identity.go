package reconcile

import (
	"regexp"
	"strings"
)

// stopWords are connector tokens that carry no identity signal.
var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "of": {}, "in": {},
	"at": {}, "to": {}, "for": {}, "with": {}, "by": {},
}

// InviteeReferenced decides whether the named invitee is referenced in the
// transcript. The transcript must contain at least two distinct speakers
// first; a single-speaker recording can never verify an invitee.
//
// Matching is two-stage: the whole name as a case-insensitive substring
// succeeds immediately; otherwise any name token of 3+ characters (stop
// words dropped) matching as a whole word succeeds. Transcripts render names
// differently from calendar invitee fields (nicknames, transliteration), so
// a single-token whole-word hit is accepted.
func InviteeReferenced(inviteeName, transcript string) bool {
	if !HasMultipleSpeakers(transcript) {
		return false
	}

	name := strings.TrimSpace(inviteeName)
	if name == "" {
		return false
	}

	lowerTranscript := strings.ToLower(transcript)
	if strings.Contains(lowerTranscript, strings.ToLower(name)) {
		return true
	}

	for _, token := range strings.Fields(strings.ToLower(name)) {
		token = strings.Trim(token, ".,;:!?'\"()")
		if len(token) < 3 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if wholeWordMatch(lowerTranscript, token) {
			return true
		}
	}

	return false
}

func wholeWordMatch(text, word string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
