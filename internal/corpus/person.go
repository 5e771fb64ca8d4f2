package corpus

// CodeSet is the set of tag codes that mark a token as part of a person-name
// span. The CoNLL-2003 scheme uses 1 (B-PER) and 2 (I-PER); other corpora may
// use different codes, so the set is configuration, not a literal.
type CodeSet map[int]bool

// NewCodeSet builds a CodeSet from a list of codes.
func NewCodeSet(codes ...int) CodeSet {
	set := make(CodeSet, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// DefaultPersonCodes returns the CoNLL-2003 person codes.
func DefaultPersonCodes() CodeSet {
	return NewCodeSet(1, 2)
}

// Contains reports whether code is in the set.
func (c CodeSet) Contains(code int) bool {
	return c[code]
}

// Codes returns the member codes. Order is unspecified; callers needing a
// stable order should sort.
func (c CodeSet) Codes() []int {
	out := make([]int, 0, len(c))
	for code := range c {
		out = append(out, code)
	}
	return out
}

// PersonTokens returns the ordered sublist of the record's tokens whose paired
// tag is a person code. Adjacent person tokens are not merged into spans; each
// matching token appears individually, in original order. A record with no
// person tokens yields an empty (non-nil) list.
//
// Equal token/tag lengths is a caller precondition; see Record.Validate.
func PersonTokens(rec Record, codes CodeSet) []string {
	out := make([]string, 0, len(rec.Tokens))
	for i, tok := range rec.Tokens {
		if codes.Contains(rec.Tags[i]) {
			out = append(out, tok)
		}
	}
	return out
}
