package core

// Ternary is the three-valued verdict produced by equality, subtyping and
// evaluation: a definite yes, a definite no, or "can't be decided yet"
// because an inference variable hasn't been pinned down.
type Ternary int

const (
	Yes Ternary = iota
	No
	Maybe
)

func (t Ternary) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	case Maybe:
		return "maybe"
	default:
		return "invalid-ternary"
	}
}

// And short-circuits on the first No; otherwise yields Maybe if either side
// is Maybe, else Yes.
func And(a, b Ternary) Ternary {
	if a == No || b == No {
		return No
	}
	if a == Maybe || b == Maybe {
		return Maybe
	}
	return Yes
}

// Or short-circuits on the first Yes; otherwise yields Maybe if either side
// is Maybe, else No.
func Or(a, b Ternary) Ternary {
	if a == Yes || b == Yes {
		return Yes
	}
	if a == Maybe || b == Maybe {
		return Maybe
	}
	return No
}
