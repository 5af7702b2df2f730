package reconcile

import "testing"

const multiSpeakerTranscript = "Sierra: thanks for joining\nJohn Smith: happy to be here\nSierra: let's get started"

func TestInviteeReferencedWholeName(t *testing.T) {
	if !InviteeReferenced("John Smith", multiSpeakerTranscript) {
		t.Error("expected whole-name match to succeed")
	}
}

func TestInviteeReferencedTokenFallback(t *testing.T) {
	// Calendar says "Jonathan Smith", transcript renders "John Smith":
	// the "smith" token still matches as a whole word.
	if !InviteeReferenced("Jonathan Smith", multiSpeakerTranscript) {
		t.Error("expected token fallback to match on surname")
	}
}

func TestInviteeReferencedStopWordsAndShortTokens(t *testing.T) {
	// "of" is a stop word and "Al" is under 3 characters; neither may match.
	transcript := "Alice: the house of cards\nBob: indeed, al the great"
	if InviteeReferenced("Al of", transcript) {
		t.Error("expected no match from stop words and short tokens alone")
	}
}

func TestInviteeReferencedSingleSpeakerGate(t *testing.T) {
	single := "Sierra: is John Smith joining?\nSierra: guess not"
	if InviteeReferenced("John Smith", single) {
		t.Error("expected single-speaker transcript to fail verification")
	}
}

func TestInviteeReferencedNoMatch(t *testing.T) {
	if InviteeReferenced("Maria Garcia", multiSpeakerTranscript) {
		t.Error("expected no match for absent invitee")
	}
}

func TestInviteeReferencedBlankName(t *testing.T) {
	if InviteeReferenced("", multiSpeakerTranscript) {
		t.Error("expected blank invitee to never match")
	}
}
