package interpolate

// Kind identifies what a Token represents in a template.
type Kind int

const (
	// Text is a literal run copied to the output as is.
	Text Kind = iota
	// Placeholder is a [key] lookup. Value holds the key.
	Placeholder
	// Escaped is a [[text]] block. Value holds the text
	// between the doubled brackets.
	Escaped
	// Unterminated is an opening bracket with no closing
	// one. Value holds the rest of the template, opening
	// bracket included.
	Unterminated
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Placeholder:
		return "placeholder"
	case Escaped:
		return "escaped"
	case Unterminated:
		return "unterminated"
	default:
		return "unknown"
	}
}

// Token is one span of a scanned template. Pos is the
// byte offset of the span in the template.
type Token struct {
	Kind  Kind
	Value string
	Pos   int
}

type state int

const (
	stateLiteral state = iota
	stateInToken
	stateInEscapedBlock
)

// scan walks tpl once and hands every span to emit in
// order. Brackets do not nest: the first ']' closes
// whatever is open.
func scan(tpl string, emit func(Token)) {
	st := stateLiteral

	// start is where the pending literal run or bracket
	// content begins; open is the opening bracket.
	start, open := 0, 0

	for i := 0; i < len(tpl); i++ {
		ch := tpl[i]

		switch st {
		case stateLiteral:
			if ch != '[' {
				continue
			}

			if i > start {
				emit(Token{Kind: Text, Value: tpl[start:i], Pos: start})
			}

			open = i

			if i+1 < len(tpl) && tpl[i+1] == '[' {
				st = stateInEscapedBlock
				i++
			} else {
				st = stateInToken
			}

			start = i + 1

		case stateInToken:
			if ch != ']' {
				continue
			}

			emit(Token{Kind: Placeholder, Value: tpl[start:i], Pos: open})

			st = stateLiteral
			start = i + 1

		case stateInEscapedBlock:
			if ch != ']' {
				continue
			}

			emit(Token{Kind: Escaped, Value: tpl[start:i], Pos: open})

			// Collapse "]]" to a single closing bracket.
			if i+1 < len(tpl) && tpl[i+1] == ']' {
				i++
			}

			st = stateLiteral
			start = i + 1
		}
	}

	if st != stateLiteral {
		emit(Token{Kind: Unterminated, Value: tpl[open:], Pos: open})

		return
	}

	if start < len(tpl) {
		emit(Token{Kind: Text, Value: tpl[start:], Pos: start})
	}
}

// Parse splits a template into its tokens in scan order.
// Concatenating the rendered tokens gives the same result
// as Interpolate.
func Parse(template string) []Token {
	var tokens []Token

	scan(template, func(tok Token) {
		tokens = append(tokens, tok)
	})

	return tokens
}

// Keys returns the distinct lookup keys of a template in
// order of first appearance. Escaped blocks contribute no
// keys. The empty key is reported when the template has
// a "[]" placeholder.
func Keys(template string) []string {
	var keys []string

	seen := make(map[string]struct{})

	scan(template, func(tok Token) {
		if tok.Kind != Placeholder {
			return
		}

		if _, ok := seen[tok.Value]; ok {
			return
		}

		seen[tok.Value] = struct{}{}
		keys = append(keys, tok.Value)
	})

	return keys
}

// Missing returns the distinct keys of template that
// subs has no entry for, that is the placeholders that
// would render as Undefined.
func Missing(
	template string,
	subs map[string]string,
) []string {
	var missing []string

	for _, key := range Keys(template) {
		if _, ok := subs[key]; !ok {
			missing = append(missing, key)
		}
	}

	return missing
}
