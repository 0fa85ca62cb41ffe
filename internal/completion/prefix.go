package completion

import "strings"

// StartText is the part of raw kept in front of the fragment being
// completed: everything up to and including the last ".", "(" or space.
func StartText(raw string) string {
	pos := max(strings.LastIndex(raw, "."), strings.LastIndex(raw, "("), strings.LastIndex(raw, " "))
	if pos < 0 {
		return ""
	}
	return raw[:pos+1]
}

// QueryInput turns editor text into the resolver query: a leading "new " is
// dropped and, for a "." trigger, the dot that is about to be typed is
// appended.
func QueryInput(raw string, dotTrigger bool) string {
	q := stripNew(raw)
	if dotTrigger {
		q += "."
	}
	return q
}

func stripNew(raw string) string {
	if len(raw) >= 4 && strings.EqualFold(raw[:4], "new ") {
		return raw[4:]
	}
	return raw
}

// CommitHead is the text kept in front of a fully-qualified commit: the dotted
// token under completion is replaced, so only text up to the last "(" or
// space survives.
func CommitHead(raw string) string {
	pos := max(strings.LastIndex(raw, "("), strings.LastIndex(raw, " "))
	if pos < 0 {
		return ""
	}
	return raw[:pos+1]
}
