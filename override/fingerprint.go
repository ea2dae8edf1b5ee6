package override

import "strings"

// EmptyPair is the placeholder used for missing context slots.
var EmptyPair = Pair{}

// String renders the pair as "(key,value)"; the empty pair renders as "()".
func (p Pair) String() string {
	if p == EmptyPair {
		return "()"
	}

	return "(" + p.Key + "," + p.Value + ")"
}

// Fingerprint joins three context pairs into a cache key of the form
// "(k2,v2)-(k1,v1)-(k0,)". The current pair carries only its key: its value
// is what Suggest predicts, so compositor.ContextFingerprint passes
// Pair{Key: k0}. Compositions producing the same window share the same key,
// which is how the model generalizes across sentences.
// An all-empty window yields "" so callers cannot learn without context.
func Fingerprint(anterior, preceding, current Pair) string {
	if anterior == EmptyPair && preceding == EmptyPair && current == EmptyPair {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(anterior.String())
	sb.WriteByte('-')
	sb.WriteString(preceding.String())
	sb.WriteByte('-')
	sb.WriteString(current.String())

	return sb.String()
}
