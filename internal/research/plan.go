// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minDerivedQuestions is the fewest items a parsing tier must produce to be
// accepted.
const minDerivedQuestions = 2

// maxSegments caps the items taken from a numbered list that is not made of
// questions.
const maxSegments = 4

// numberMarker matches a list marker ("1." or "2)"). markerLocs keeps only
// markers that stand alone between whitespace.
var numberMarker = regexp.MustCompile(`\d{1,2}[.)]`)

// DeriveSubQuestions turns a loosely structured provider answer into
// sub-questions. Tiers are tried in order: numbered questions, numbered
// segments, then the fixed template built from query. The template tier
// always succeeds, so the result is never empty.
func DeriveSubQuestions(query, answer string) []string {
	if qs, ok := questionsFromMarkers(answer); ok {
		return qs
	}
	if qs, ok := segmentsFromNumbering(answer); ok {
		return qs
	}
	return templateQuestions(query)
}

// questionsFromMarkers keeps the numbered items that contain a question,
// cut after the first question mark.
func questionsFromMarkers(answer string) ([]string, bool) {
	var out []string
	for _, seg := range numberedSegments(answer) {
		i := strings.IndexByte(seg, '?')
		if i <= 0 {
			continue
		}
		out = append(out, seg[:i+1])
	}
	if len(out) < minDerivedQuestions {
		return nil, false
	}
	return out, true
}

// segmentsFromNumbering keeps up to maxSegments numbered items verbatim.
func segmentsFromNumbering(answer string) ([]string, bool) {
	segs := numberedSegments(answer)
	if len(segs) > maxSegments {
		segs = segs[:maxSegments]
	}
	if len(segs) < minDerivedQuestions {
		return nil, false
	}
	return segs, true
}

// numberedSegments splits text on list markers and returns the non-empty
// items in order. Text before the first marker is a preamble and is
// dropped.
func numberedSegments(text string) []string {
	locs := markerLocs(text)
	var out []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if seg := collapseSpace(text[loc[1]:end]); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// markerLocs returns the list markers in text that are preceded by start
// of text or whitespace and followed by whitespace. Surrounding whitespace
// is not part of a match, so adjacent markers ("1. 2. ...") are all found.
func markerLocs(text string) [][]int {
	var locs [][]int
	for _, loc := range numberMarker.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if !unicode.IsSpace(r) {
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(text[loc[1]:])
		if size == 0 || !unicode.IsSpace(r) {
			continue
		}
		locs = append(locs, loc)
	}
	return locs
}

// templateQuestions returns the four generic questions used when nothing
// usable can be parsed.
func templateQuestions(query string) []string {
	q := collapseSpace(query)
	return []string{
		"What are the key facts about " + q + "?",
		"What are the latest developments in " + q + "?",
		"What are the main challenges or debates around " + q + "?",
		"What do experts predict for the future of " + q + "?",
	}
}

// cleanQuestions trims each question and drops blanks.
func cleanQuestions(qs []string) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		if q = collapseSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
