package interpolate

import (
	"io"

	"github.com/valyala/bytebufferpool"
)

// Undefined is written in place of a placeholder whose
// key has no mapping. It is a fixed string, never the
// result of looking up a key named "undefined".
const Undefined = "[undefined]"

// LookupFunc resolves a placeholder key. The boolean
// reports whether the key has a mapping; an empty value
// with ok set is a valid substitution.
type LookupFunc func(key string) (string, bool)

// MapLookup returns a LookupFunc backed by subs. A nil
// map resolves nothing.
func MapLookup(subs map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		val, ok := subs[key]
		return val, ok
	}
}

// Interpolate replaces every [key] in template with
// subs[key], renders [[text]] as [text] and writes
// Undefined for keys subs does not hold.
//
//	Interpolate("Hello [name] [[author]]", map[string]string{"name": "Jim"})
//	// "Hello Jim [author]"
func Interpolate(
	template string,
	subs map[string]string,
) string {
	return Func(template, MapLookup(subs))
}

// Func is Interpolate with key resolution delegated to
// lookup.
func Func(template string, lookup LookupFunc) string {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	render(bb, template, lookup)

	return bb.String()
}

// Execute interpolates template against subs and writes
// the result to w. The only possible error is the one
// returned by w.
func Execute(
	w io.Writer,
	template string,
	subs map[string]string,
) (int64, error) {
	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)

	render(bb, template, MapLookup(subs))

	return bb.WriteTo(w)
}

func render(
	bb *bytebufferpool.ByteBuffer,
	template string,
	lookup LookupFunc,
) {
	scan(template, func(tok Token) {
		switch tok.Kind {
		case Placeholder:
			val, ok := lookup(tok.Value)
			if !ok {
				val = Undefined
			}

			_, _ = bb.WriteString(val) //nolint:errcheck // ByteBuffer never fails
		case Escaped:
			_ = bb.WriteByte('[') //nolint:errcheck // ByteBuffer never fails
			_, _ = bb.WriteString(tok.Value) //nolint:errcheck // ByteBuffer never fails
			_ = bb.WriteByte(']') //nolint:errcheck // ByteBuffer never fails
		default:
			// Text and Unterminated are both literal.
			_, _ = bb.WriteString(tok.Value) //nolint:errcheck // ByteBuffer never fails
		}
	})
}
