package blueprint

import (
	"bytes"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_LBRACE = iota
	TOKEN_RBRACE
	TOKEN_ASSIGN
	TOKEN_SEPARATOR
	TOKEN_NAME
	TOKEN_NUMBER
	TOKEN_STRING
	TOKEN_COMMENT
)

var tokenNames = map[int]string{
	TOKEN_LBRACE:    "'{'",
	TOKEN_RBRACE:    "'}'",
	TOKEN_ASSIGN:    "'='",
	TOKEN_SEPARATOR: "','",
	TOKEN_NAME:      "name",
	TOKEN_NUMBER:    "number",
	TOKEN_STRING:    "string",
	TOKEN_COMMENT:   "comment",
}

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`\{`), getToken(TOKEN_LBRACE))
	lexer.Add([]byte(`\}`), getToken(TOKEN_RBRACE))
	lexer.Add([]byte(`=`), getToken(TOKEN_ASSIGN))
	lexer.Add([]byte(`,|;`), getToken(TOKEN_SEPARATOR))
	lexer.Add([]byte(`--[^\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`#[^\n]*`), getToken(TOKEN_COMMENT))
	lexer.Add([]byte(`[\+\-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][\+\-]?[0-9]+)?`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_NAME))
	lexer.Add([]byte(`"(\\.|[^"\\])*"`), getToken(TOKEN_STRING))
	lexer.Add([]byte(`'(\\.|[^'\\])*'`), getToken(TOKEN_STRING))
	lexer.Add([]byte(`\s+`), skip)

	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// stripComments drops everything after '#' or '--' on every line without
// looking at quotes, so a string holding either marker gets cut. Existing
// blueprints are parsed by the game the same way; QuoteAwareComments opts
// out of it.
func stripComments(text []byte) []byte {
	lines := bytes.Split(text, []byte{'\n'})
	for i, line := range lines {
		if j := bytes.IndexByte(line, '#'); j >= 0 {
			line = line[:j]
		}
		if j := bytes.Index(line, []byte("--")); j >= 0 {
			line = line[:j]
		}
		lines[i] = line
	}
	return bytes.Join(lines, []byte{'\n'})
}

func tokenize(text []byte) ([]*lexmachine.Token, error) {
	scanner, err := lexer.Scanner(text)
	if err != nil {
		return nil, err
	}

	tokens := make([]*lexmachine.Token, 0, len(text)/4)
	for itok, err, eos := scanner.Next(); !eos; itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, err
		}
		tok := itok.(*lexmachine.Token)
		if tok.Type == TOKEN_COMMENT {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
