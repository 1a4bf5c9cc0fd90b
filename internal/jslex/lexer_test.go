package jslex_test

import (
	"testing"

	"github.com/kestrel-lang/js2sb3/internal/jslex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(src string) []jslex.Token {
	l := jslex.New(src)
	var toks []jslex.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == jslex.EOF {
			break
		}
	}
	return toks
}

func TestNextToken_Punctuation(t *testing.T) {
	toks := allTokens(`let x = 1 + 2;`)
	require.Len(t, toks, 8) // let, x, =, 1, +, 2, ;, EOF

	assert.Equal(t, jslex.LET, toks[0].Type)
	assert.Equal(t, jslex.IDENT, toks[1].Type)
	assert.Equal(t, "x", toks[1].Literal)
	assert.Equal(t, jslex.ASSIGN, toks[2].Type)
	assert.Equal(t, jslex.NUMBER, toks[3].Type)
	assert.Equal(t, "1", toks[3].Literal)
	assert.Equal(t, jslex.PLUS, toks[4].Type)
	assert.Equal(t, jslex.SEMICOLON, toks[6].Type)
	assert.Equal(t, jslex.EOF, toks[7].Type)
}

func TestNextToken_MultiCharOperatorsPreferLongestMatch(t *testing.T) {
	cases := []struct {
		src  string
		want jslex.Type
	}{
		{"==", jslex.EQ},
		{"===", jslex.STRICTEQ},
		{"!=", jslex.NEQ},
		{"!==", jslex.STRICTNEQ},
		{"<=", jslex.LTE},
		{">=", jslex.GTE},
		{"=>", jslex.ARROW},
		{"++", jslex.INCR},
		{"--", jslex.DECR},
		{"&&", jslex.AND_AND},
		{"||", jslex.OR_OR},
	}
	for _, c := range cases {
		toks := allTokens(c.src)
		require.GreaterOrEqual(t, len(toks), 1)
		assert.Equal(t, c.want, toks[0].Type, "source %q", c.src)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	toks := allTokens(`"line1\nline2\ttab"`)
	require.Len(t, toks, 2)
	assert.Equal(t, jslex.STRING, toks[0].Type)
	assert.Equal(t, "line1\nline2\ttab", toks[0].Literal)
}

func TestNextToken_SkipsLineAndBlockComments(t *testing.T) {
	toks := allTokens("let x = 1; // trailing comment\n/* block\ncomment */let y = 2;")
	var types []jslex.Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, jslex.LET)
	assert.NotContains(t, types, jslex.ILLEGAL)
}

func TestNextToken_TracksLineAndColumn(t *testing.T) {
	toks := allTokens("let x;\nlet y;")
	// second "let" starts on line 2.
	var secondLet jslex.Token
	count := 0
	for _, tok := range toks {
		if tok.Type == jslex.LET {
			count++
			if count == 2 {
				secondLet = tok
			}
		}
	}
	require.Equal(t, 2, count)
	assert.Equal(t, 2, secondLet.Pos.Line)
}

func TestNextToken_IllegalCharacter(t *testing.T) {
	toks := allTokens(`@`)
	require.Len(t, toks, 2)
	assert.Equal(t, jslex.ILLEGAL, toks[0].Type)
	assert.Equal(t, "@", toks[0].Literal)
}
