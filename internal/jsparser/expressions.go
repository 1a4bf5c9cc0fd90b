package jsparser

import (
	"strconv"

	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/jslex"
)

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Type]; ok {
		return pr
	}
	return lowest
}

// parseExpression is the Pratt-parsing core: parse a prefix expression,
// then repeatedly fold in infix operators whose precedence exceeds prec.
func (p *Parser) parseExpression(prec int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for p.cur().Type != jslex.SEMICOLON && prec < p.curPrecedence() {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	tok := p.cur()

	switch tok.Type {
	case jslex.IDENT:
		if p.peek(1).Type == jslex.ARROW {
			return p.parseArrowFunction(false)
		}
		p.advance()
		return &ast.Identifier{Position: tok.Pos, Name: tok.Literal}, nil

	case jslex.NUMBER:
		p.advance()
		val, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.NumberLiteral{Position: tok.Pos, Raw: tok.Literal, Value: val}, nil

	case jslex.STRING:
		p.advance()
		return &ast.StringLiteral{Position: tok.Pos, Value: tok.Literal}, nil

	case jslex.TRUE:
		p.advance()
		return &ast.BooleanLiteral{Position: tok.Pos, Value: true}, nil

	case jslex.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Position: tok.Pos, Value: false}, nil

	case jslex.NULL:
		p.advance()
		return &ast.NullLiteral{Position: tok.Pos}, nil

	case jslex.BANG, jslex.MINUS, jslex.PLUS:
		p.advance()
		operand, err := p.parseExpression(prefixPrec)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Position: tok.Pos, Operator: tok.Literal, Operand: operand}, nil

	case jslex.INCR, jslex.DECR:
		p.advance()
		operand, err := p.parseExpression(prefixPrec)
		if err != nil {
			return nil, err
		}
		return &ast.UpdateExpression{Position: tok.Pos, Operator: tok.Literal, Operand: operand, Prefix: true}, nil

	case jslex.AWAIT:
		p.advance()
		arg, err := p.parseExpression(prefixPrec)
		if err != nil {
			return nil, err
		}
		return &ast.AwaitExpression{Position: tok.Pos, Argument: arg}, nil

	case jslex.ASYNC:
		p.advance()
		if p.cur().Type == jslex.FUNCTION {
			return p.parseFunctionExpression(true)
		}
		return p.parseArrowFunction(true)

	case jslex.FUNCTION:
		return p.parseFunctionExpression(false)

	case jslex.LPAREN:
		if p.isArrowAhead() {
			return p.parseArrowFunction(false)
		}
		p.advance()
		expr, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(jslex.RPAREN, ")"); err != nil {
			return nil, err
		}
		return expr, nil

	case jslex.LBRACKET:
		return p.parseArrayLiteral()

	case jslex.LBRACE:
		return p.parseObjectLiteral()

	default:
		return nil, p.errorf(tok.Pos, "unexpected token %q", tok.Literal)
	}
}

// isArrowAhead reports whether the parenthesized group starting at the
// current "(" is actually an arrow-function parameter list, by scanning
// forward to its matching ")" and checking for a following "=>".
func (p *Parser) isArrowAhead() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case jslex.LPAREN:
			depth++
		case jslex.RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == jslex.ARROW
			}
		case jslex.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrowFunction(async bool) (*ast.ArrowFunctionExpression, error) {
	pos := p.cur().Pos
	var params []string

	if p.cur().Type == jslex.IDENT {
		tok := p.advance()
		params = []string{tok.Literal}
	} else {
		plist, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		params = plist
	}

	if _, err := p.expect(jslex.ARROW, "=>"); err != nil {
		return nil, err
	}

	var body ast.Node
	if p.cur().Type == jslex.LBRACE {
		block, err := p.parseBlockStatement()
		if err != nil {
			return nil, err
		}
		body = block
	} else {
		expr, err := p.parseExpression(assignPrec)
		if err != nil {
			return nil, err
		}
		body = expr
	}

	return &ast.ArrowFunctionExpression{Position: pos, Params: params, Body: body, Async: async}, nil
}

func (p *Parser) parseFunctionExpression(async bool) (*ast.FunctionExpression, error) {
	fnTok := p.advance() // "function"
	name := ""
	if p.cur().Type == jslex.IDENT {
		name = p.advance().Literal
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{Position: fnTok.Pos, Name: name, Params: params, Body: body, Async: async}, nil
}

func (p *Parser) parseArrayLiteral() (*ast.ArrayLiteral, error) {
	lbrack := p.advance()
	lit := &ast.ArrayLiteral{Position: lbrack.Pos}
	for p.cur().Type != jslex.RBRACKET {
		el, err := p.parseExpression(assignPrec)
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, el)
		if p.cur().Type == jslex.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(jslex.RBRACKET, "]"); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseObjectLiteral() (*ast.ObjectLiteral, error) {
	lbrace := p.advance()
	lit := &ast.ObjectLiteral{Position: lbrace.Pos}
	for p.cur().Type != jslex.RBRACE {
		var key string
		switch p.cur().Type {
		case jslex.IDENT:
			key = p.advance().Literal
		case jslex.STRING:
			key = p.advance().Literal
		default:
			return nil, p.errorf(p.cur().Pos, "expected property key, found %q", p.cur().Literal)
		}
		if _, err := p.expect(jslex.COLON, ":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpression(assignPrec)
		if err != nil {
			return nil, err
		}
		lit.Properties = append(lit.Properties, ast.ObjectProperty{Key: key, Value: val})
		if p.cur().Type == jslex.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(jslex.RBRACE, "}"); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseInfix(left ast.Expression) (ast.Expression, error) {
	tok := p.cur()

	switch tok.Type {
	case jslex.ASSIGN, jslex.PLUS_ASSIGN, jslex.MINUS_ASSIGN:
		p.advance()
		// Right-associative: recurse at one less than this operator's own
		// precedence so a chain like `a = b = c` nests as `a = (b = c)`.
		right, err := p.parseExpression(assignPrec - 1)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentExpression{Position: tok.Pos, Operator: tok.Literal, Target: left, Value: right}, nil

	case jslex.PLUS, jslex.MINUS, jslex.ASTERISK, jslex.SLASH, jslex.PERCENT,
		jslex.LT, jslex.GT, jslex.LTE, jslex.GTE,
		jslex.EQ, jslex.STRICTEQ, jslex.NEQ, jslex.STRICTNEQ,
		jslex.AND_AND, jslex.OR_OR:
		p.advance()
		right, err := p.parseExpression(precedences[tok.Type])
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{Position: tok.Pos, Operator: tok.Literal, Left: left, Right: right}, nil

	case jslex.INCR, jslex.DECR:
		p.advance()
		return &ast.UpdateExpression{Position: tok.Pos, Operator: tok.Literal, Operand: left, Prefix: false}, nil

	case jslex.DOT:
		p.advance()
		nameTok, err := p.expect(jslex.IDENT, "property name")
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpression{
			Position: tok.Pos,
			Object:   left,
			Property: &ast.Identifier{Position: nameTok.Pos, Name: nameTok.Literal},
			Computed: false,
		}, nil

	case jslex.LBRACKET:
		p.advance()
		idx, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(jslex.RBRACKET, "]"); err != nil {
			return nil, err
		}
		return &ast.MemberExpression{Position: tok.Pos, Object: left, Property: idx, Computed: true}, nil

	case jslex.LPAREN:
		return p.parseCallExpression(left)

	default:
		return nil, p.errorf(tok.Pos, "unexpected token %q", tok.Literal)
	}
}

func (p *Parser) parseCallExpression(callee ast.Expression) (*ast.CallExpression, error) {
	lparen := p.advance()
	call := &ast.CallExpression{Position: lparen.Pos, Callee: callee}
	for p.cur().Type != jslex.RPAREN {
		arg, err := p.parseExpression(assignPrec)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.cur().Type == jslex.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(jslex.RPAREN, ")"); err != nil {
		return nil, err
	}
	return call, nil
}
