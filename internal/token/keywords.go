package token

// keywords maps identifier spellings to keyword kinds.
var keywords = map[string]Kind{
	"let":   KwLet,
	"true":  KwTrue,
	"false": KwFalse,
	"nil":   KwNil,
	"in":    KwIn,
}

// LookupKeyword returns the keyword kind for an identifier spelling,
// or Ident if the spelling is not reserved.
func LookupKeyword(text string) Kind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	return Ident
}
