package jsparser

import (
	"github.com/kestrel-lang/js2sb3/internal/ast"
	"github.com/kestrel-lang/js2sb3/internal/jslex"
)

// ParseProgram parses the whole token stream as a sequence of top-level
// statements.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Type != jslex.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case jslex.LET, jslex.CONST, jslex.VAR:
		return p.parseVariableDeclaration()
	case jslex.LBRACE:
		return p.parseBlockStatement()
	case jslex.IF:
		return p.parseIfStatement()
	case jslex.WHILE:
		return p.parseWhileStatement()
	case jslex.FOR:
		return p.parseForStatement()
	case jslex.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case jslex.ASYNC:
		if p.peek(1).Type == jslex.FUNCTION {
			p.advance() // consume "async"
			return p.parseFunctionDeclaration(true)
		}
		return p.parseExpressionStatement()
	case jslex.RETURN:
		return p.parseReturnStatement()
	case jslex.SEMICOLON:
		pos := p.cur().Pos
		p.advance()
		return &ast.ExpressionStatement{Position: pos, Expression: &ast.NullLiteral{Position: pos}}, nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	kindTok := p.advance()
	decl := &ast.VariableDeclaration{Position: kindTok.Pos, Kind: kindTok.Literal}

	for {
		nameTok, err := p.expect(jslex.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		d := ast.VariableDeclarator{Name: nameTok.Literal}
		if p.cur().Type == jslex.ASSIGN {
			p.advance()
			init, err := p.parseExpression(assignPrec)
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		decl.Declarations = append(decl.Declarations, d)
		if p.cur().Type == jslex.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.skipSemicolon()
	return decl, nil
}

func (p *Parser) parseBlockStatement() (*ast.BlockStatement, error) {
	lbrace, err := p.expect(jslex.LBRACE, "{")
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStatement{Position: lbrace.Pos}
	for p.cur().Type != jslex.RBRACE {
		if p.cur().Type == jslex.EOF {
			return nil, p.errorf(p.cur().Pos, "unexpected end of input, expected }")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)
	}
	p.advance() // consume }
	return block, nil
}

func (p *Parser) parseIfStatement() (*ast.IfStatement, error) {
	ifTok := p.advance()
	if _, err := p.expect(jslex.LPAREN, "("); err != nil {
		return nil, err
	}
	test, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(jslex.RPAREN, ")"); err != nil {
		return nil, err
	}
	cons, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Position: ifTok.Pos, Test: test, Consequent: cons}
	if p.cur().Type == jslex.ELSE {
		p.advance()
		alt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Alternate = alt
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (*ast.WhileStatement, error) {
	whileTok := p.advance()
	if _, err := p.expect(jslex.LPAREN, "("); err != nil {
		return nil, err
	}
	test, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(jslex.RPAREN, ")"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Position: whileTok.Pos, Test: test, Body: body}, nil
}

func (p *Parser) parseForStatement() (*ast.ForStatement, error) {
	forTok := p.advance()
	if _, err := p.expect(jslex.LPAREN, "("); err != nil {
		return nil, err
	}

	stmt := &ast.ForStatement{Position: forTok.Pos}

	switch p.cur().Type {
	case jslex.SEMICOLON:
		p.advance()
	case jslex.LET, jslex.CONST, jslex.VAR:
		init, err := p.parseVariableDeclaration()
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	default:
		expr, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		stmt.Init = &ast.ExpressionStatement{Position: expr.Pos(), Expression: expr}
		if _, err := p.expect(jslex.SEMICOLON, ";"); err != nil {
			return nil, err
		}
	}

	if p.cur().Type != jslex.SEMICOLON {
		test, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		stmt.Test = test
	}
	if _, err := p.expect(jslex.SEMICOLON, ";"); err != nil {
		return nil, err
	}

	if p.cur().Type != jslex.RPAREN {
		update, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		stmt.Update = update
	}
	if _, err := p.expect(jslex.RPAREN, ")"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseFunctionDeclaration(async bool) (*ast.FunctionDeclaration, error) {
	fnTok := p.advance() // "function"
	nameTok, err := p.expect(jslex.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{
		Position: fnTok.Pos,
		Name:     nameTok.Literal,
		Params:   params,
		Body:     body,
		Async:    async,
	}, nil
}

func (p *Parser) parseParamList() ([]string, error) {
	if _, err := p.expect(jslex.LPAREN, "("); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Type != jslex.RPAREN {
		tok, err := p.expect(jslex.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Literal)
		if p.cur().Type == jslex.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(jslex.RPAREN, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseReturnStatement() (*ast.ReturnStatement, error) {
	retTok := p.advance()
	stmt := &ast.ReturnStatement{Position: retTok.Pos}
	if p.cur().Type != jslex.SEMICOLON && p.cur().Type != jslex.RBRACE && p.cur().Type != jslex.EOF {
		arg, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		stmt.Argument = arg
	}
	p.skipSemicolon()
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (*ast.ExpressionStatement, error) {
	pos := p.cur().Pos
	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	p.skipSemicolon()
	return &ast.ExpressionStatement{Position: pos, Expression: expr}, nil
}
