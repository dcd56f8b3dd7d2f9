package blueprint

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
)

var ErrMalformedBlueprint = errors.New("Malformed blueprint")

type Options struct {
	// Strip comments in the lexer instead of cutting every line at '#'/'--'.
	QuoteAwareComments bool
}

type parser struct {
	tokens []*lexmachine.Token
	pos    int
}

func (p *parser) peek(ahead int) *lexmachine.Token {
	if p.pos+ahead < len(p.tokens) {
		return p.tokens[p.pos+ahead]
	}
	return nil
}

func (p *parser) errorf(tok *lexmachine.Token, format string, args ...interface{}) error {
	if tok == nil {
		return errors.Wrapf(ErrMalformedBlueprint, "at end of input: "+format, args...)
	}
	return errors.Wrapf(ErrMalformedBlueprint, "line %d col %d near %q: "+format,
		append([]interface{}{tok.StartLine, tok.StartColumn, string(tok.Lexeme)}, args...)...)
}

func (p *parser) expect(tokenType int) (*lexmachine.Token, error) {
	tok := p.peek(0)
	if tok == nil || tok.Type != tokenType {
		return nil, p.errorf(tok, "expected %s", tokenNames[tokenType])
	}
	p.pos++
	return tok, nil
}

// document := [name] table | field {sep field}
func (p *parser) document() (interface{}, error) {
	first := p.peek(0)
	if first == nil {
		return map[string]interface{}{}, nil
	}

	if first.Type == TOKEN_NAME {
		if next := p.peek(1); next != nil && next.Type == TOKEN_ASSIGN {
			return p.fields(nil)
		}
	}

	root, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, isTable := root.(map[string]interface{}); !isTable {
		if _, isList := root.([]interface{}); !isList {
			return nil, p.errorf(first, "root is not a table")
		}
	}
	if tok := p.peek(0); tok != nil {
		return nil, p.errorf(tok, "trailing data after root table")
	}
	return root, nil
}

// table := '{' [field {sep field} [sep]] '}'
func (p *parser) table() (interface{}, error) {
	if _, err := p.expect(TOKEN_LBRACE); err != nil {
		return nil, err
	}
	closing := TOKEN_RBRACE
	t, err := p.fields(&closing)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TOKEN_RBRACE); err != nil {
		return nil, err
	}
	return t, nil
}

// fields reads entries until closing token (or end of input when closing is nil).
// A table of positional entries only becomes a list, any key makes it a map
// with positional entries stored under their index.
func (p *parser) fields(closing *int) (interface{}, error) {
	keyed := make(map[string]interface{})
	positional := make([]interface{}, 0)
	hasKeys := false

	for {
		tok := p.peek(0)
		if tok == nil {
			if closing != nil {
				return nil, p.errorf(nil, "unbalanced braces")
			}
			break
		}
		if closing != nil && tok.Type == *closing {
			break
		}

		if next := p.peek(1); tok.Type == TOKEN_NAME && next != nil && next.Type == TOKEN_ASSIGN {
			p.pos += 2
			if after := p.peek(0); after == nil || after.Type == TOKEN_SEPARATOR || after.Type == TOKEN_RBRACE {
				return nil, p.errorf(after, "missing value for %q", tok.Lexeme)
			}
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			hasKeys = true
			if v != nil {
				keyed[string(tok.Lexeme)] = v
			}
		} else {
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			if v != nil {
				positional = append(positional, v)
			}
		}

		sep := p.peek(0)
		if sep == nil || (closing != nil && sep.Type == *closing) {
			continue
		}
		if sep.Type != TOKEN_SEPARATOR {
			return nil, p.errorf(sep, "expected ',' between fields")
		}
		p.pos++
	}

	if !hasKeys && len(positional) != 0 {
		return positional, nil
	}
	for i, v := range positional {
		keyed[strconv.Itoa(i)] = v
	}
	return keyed, nil
}

// value := table | name table | scalar
func (p *parser) value() (interface{}, error) {
	tok := p.peek(0)
	if tok == nil {
		return nil, p.errorf(nil, "expected value")
	}

	switch tok.Type {
	case TOKEN_LBRACE:
		return p.table()
	case TOKEN_NAME:
		if next := p.peek(1); next != nil && next.Type == TOKEN_LBRACE {
			// constructor call, the name is not kept
			p.pos++
			return p.table()
		}
		p.pos++
		switch string(tok.Lexeme) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		}
		return nil, p.errorf(tok, "unexpected name")
	case TOKEN_NUMBER:
		p.pos++
		return parseNumber(string(tok.Lexeme))
	case TOKEN_STRING:
		p.pos++
		return unquote(string(tok.Lexeme)), nil
	}
	return nil, p.errorf(tok, "unexpected %s", tokenNames[tok.Type])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseNumber(s string) (interface{}, error) {
	if isDigits(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedBlueprint, "number %q: %v", s, err)
	}
	return f, nil
}

var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// unquote drops the quotes and resolves escapes. Unknown escapes are kept
// as written so windows paths survive.
func unquote(lexeme string) string {
	s := lexeme[1 : len(lexeme)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if c, ok := escapes[s[i+1]]; ok {
				b.WriteByte(c)
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func Parse(text []byte, opts Options) (*Document, error) {
	if !opts.QuoteAwareComments {
		text = stripComments(text)
	}

	tokens, err := tokenize(text)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedBlueprint, "tokenize: %v", err)
	}

	p := &parser{tokens: tokens}
	root, err := p.document()
	if err != nil {
		return nil, err
	}
	return &Document{Root: root}, nil
}
