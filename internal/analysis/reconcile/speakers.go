// Package reconcile matches scheduled events against recorded sessions for
// one representative on one business day, verifying candidate matches
// through transcript speaker and invitee-identity checks.
package reconcile

import (
	"regexp"
	"strings"
)

// speakerLabelRe captures line-leading "Speaker:" style labels.
var speakerLabelRe = regexp.MustCompile(`(?m)^\s*([^:\n]{1,60}):`)

// digitsRe strips embedded numerics and timestamp fragments from labels.
var digitsRe = regexp.MustCompile(`[\d:.\[\]]+`)

// ExtractSpeakers parses a raw transcript blob into the set of distinct
// speaker labels (lowercased). Labels shorter than 2 characters after
// cleaning are discarded.
func ExtractSpeakers(transcript string) map[string]struct{} {
	speakers := make(map[string]struct{})

	for _, match := range speakerLabelRe.FindAllStringSubmatch(transcript, -1) {
		label := digitsRe.ReplaceAllString(match[1], "")
		label = strings.ToLower(strings.Join(strings.Fields(label), " "))
		if len(label) < 2 {
			continue
		}
		speakers[label] = struct{}{}
	}

	return speakers
}

// HasMultipleSpeakers reports whether at least two distinct speakers appear.
// A recording with a single detected speaker is not a real meeting (for
// example a rep recording themselves waiting on a no-show), regardless of
// how close it sits to a booked slot.
func HasMultipleSpeakers(transcript string) bool {
	return len(ExtractSpeakers(transcript)) >= 2
}
