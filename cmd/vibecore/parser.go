package main

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"

	"github.com/mgomes/vibecore/core"
)

type node interface {
	eval(w *Workbench) (core.Value, error)
}

type (
	literal   struct{ value core.Value }
	arrayLit  struct{ elems []node }
	hashLit   struct{ keys, values []node }
	varRef    struct{ name string }
	constRef  struct{ name string }
	assign    struct {
		name  string
		value node
	}
	indexExpr struct {
		recv node
		args []node
	}
	indexAssign struct {
		recv  node
		args  []node
		value node
	}
	callExpr struct {
		recv     node
		name     string
		args     []node
		block    *blockLit
		symBlock string
	}
	binaryExpr struct {
		op   string
		l, r node
	}
	unaryExpr struct {
		op string
		x  node
	}
	blockLit struct {
		params []string
		body   []node
	}
	flowExpr struct {
		flow  core.Flow
		value node
	}
)

// Ruby precedence, loosest first.
var binaryLevels = [][]string{
	{"==", "!=", "<=>"},
	{"<", "<=", ">", ">="},
	{"|", "^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "%"},
}

type parser struct {
	toks []token
	pos  int
}

func parse(src string) ([]node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmts, err := p.parseStatements(tokEOF, "")
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return stmts, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(text string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == text
}

func (p *parser) expectOp(text string) error {
	if !p.isOp(text) {
		return fmt.Errorf("expected '%s' at column %d", text, p.peek().pos+1)
	}
	p.next()
	return nil
}

func (p *parser) unexpected(t token) error {
	if t.kind == tokEOF {
		return fmt.Errorf("unexpected end of input")
	}
	return fmt.Errorf("unexpected '%s' at column %d", t.text, t.pos+1)
}

// parseStatements reads ';'-separated statements until the closing token.
func (p *parser) parseStatements(endKind tokenKind, endOp string) ([]node, error) {
	var stmts []node
	for {
		for p.isOp(";") {
			p.next()
		}
		t := p.peek()
		if t.kind == tokEOF || (endKind == tokOp && t.kind == tokOp && t.text == endOp) {
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.isOp(";") {
			return stmts, nil
		}
	}
}

func (p *parser) parseStatement() (node, error) {
	if t := p.peek(); t.kind == tokIdent && (t.text == "break" || t.text == "next") {
		p.next()
		flow := core.FlowNext
		if t.text == "break" {
			flow = core.FlowBreak
		}
		expr := &flowExpr{flow: flow}
		if nt := p.peek(); nt.kind != tokEOF && !p.isOp(";") && !p.isOp("}") {
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			expr.value = value
		}
		return expr, nil
	}
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isOp("=") {
		return target, nil
	}
	p.next()
	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	switch t := target.(type) {
	case *varRef:
		return &assign{name: t.name, value: value}, nil
	case *indexExpr:
		return &indexAssign{recv: t.recv, args: t.args, value: value}, nil
	default:
		return nil, fmt.Errorf("cannot assign to this expression")
	}
}

func (p *parser) parseExpr() (node, error) { return p.parseBinary(0) }

func (p *parser) parseBinary(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || !slices.Contains(binaryLevels[level], t.text) {
			return left, nil
		}
		p.next()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: t.text, l: left, r: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.isOp("-") || p.isOp("!") {
		op := p.next().text
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			if lit, ok := x.(*literal); ok && lit.value.Kind() == core.KindInt {
				return negateLiteral(lit)
			}
			return &unaryExpr{op: "-@", x: x}, nil
		}
		return &unaryExpr{op: "!", x: x}, nil
	}
	return p.parsePower()
}

func negateLiteral(lit *literal) (node, error) {
	v, err := core.IntNegate(lit.value)
	if err != nil {
		return nil, err
	}
	return &literal{value: v}, nil
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &binaryExpr{op: "**", l: base, r: exp}, nil
}

func (p *parser) parsePostfix() (node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("."):
			p.next()
			name := p.next()
			if name.kind != tokIdent {
				return nil, fmt.Errorf("expected method name at column %d", name.pos+1)
			}
			call := &callExpr{recv: expr, name: name.text}
			if p.isOp("(") {
				p.next()
				if call.args, call.symBlock, err = p.parseArgs(")"); err != nil {
					return nil, err
				}
			}
			if p.isOp("{") {
				if call.block, err = p.parseBlock(); err != nil {
					return nil, err
				}
			}
			expr = call
		case p.isOp("["):
			p.next()
			args, symBlock, err := p.parseArgs("]")
			if err != nil {
				return nil, err
			}
			if symBlock != "" || len(args) == 0 {
				return nil, fmt.Errorf("invalid index expression")
			}
			expr = &indexExpr{recv: expr, args: args}
		default:
			return expr, nil
		}
	}
}

// parseArgs reads a comma-separated argument list up to closer. A trailing
// &:name argument is returned separately.
func (p *parser) parseArgs(closer string) ([]node, string, error) {
	var args []node
	symBlock := ""
	for !p.isOp(closer) {
		if len(args) > 0 || symBlock != "" {
			if err := p.expectOp(","); err != nil {
				return nil, "", err
			}
		}
		if t := p.peek(); t.kind == tokBlockArg {
			p.next()
			symBlock = t.text
			continue
		}
		if symBlock != "" {
			return nil, "", fmt.Errorf("block argument must come last")
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, "", err
		}
		args = append(args, arg)
	}
	p.next()
	return args, symBlock, nil
}

func (p *parser) parseBlock() (*blockLit, error) {
	if err := p.expectOp("{"); err != nil {
		return nil, err
	}
	block := &blockLit{}
	if p.isOp("|") {
		p.next()
		for !p.isOp("|") {
			if len(block.params) > 0 {
				if err := p.expectOp(","); err != nil {
					return nil, err
				}
			}
			t := p.next()
			if t.kind != tokIdent {
				return nil, fmt.Errorf("expected block parameter at column %d", t.pos+1)
			}
			block.params = append(block.params, t.text)
		}
		p.next()
	}
	body, err := p.parseStatements(tokOp, "}")
	if err != nil {
		return nil, err
	}
	block.body = body
	return block, p.expectOp("}")
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		if n, err := strconv.ParseInt(t.text, 10, 64); err == nil {
			return &literal{value: core.NewInt(n)}, nil
		}
		n, ok := new(big.Int).SetString(t.text, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %s", t.text)
		}
		return &literal{value: core.NewBigInt(n)}, nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %s", t.text)
		}
		return &literal{value: core.NewFloat(f)}, nil
	case tokString:
		return &literal{value: core.NewString(t.text)}, nil
	case tokSymbol:
		return &literal{value: core.NewSymbol(t.text)}, nil
	case tokIdent:
		switch t.text {
		case "nil":
			return &literal{value: core.NewNil()}, nil
		case "true":
			return &literal{value: core.NewBool(true)}, nil
		case "false":
			return &literal{value: core.NewBool(false)}, nil
		case "Array", "Hash":
			return &constRef{name: t.text}, nil
		}
		return &varRef{name: t.text}, nil
	case tokOp:
		switch t.text {
		case "(":
			expr, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return expr, p.expectOp(")")
		case "[":
			elems, symBlock, err := p.parseArgs("]")
			if err != nil {
				return nil, err
			}
			if symBlock != "" {
				return nil, fmt.Errorf("block argument in array literal")
			}
			return &arrayLit{elems: elems}, nil
		case "{":
			return p.parseHashLiteral()
		}
	}
	return nil, p.unexpected(t)
}

func (p *parser) parseHashLiteral() (node, error) {
	lit := &hashLit{}
	for !p.isOp("}") {
		if len(lit.keys) > 0 {
			if err := p.expectOp(","); err != nil {
				return nil, err
			}
		}
		var key node
		if t := p.peek(); t.kind == tokLabel {
			p.next()
			key = &literal{value: core.NewSymbol(t.text)}
		} else {
			var err error
			if key, err = p.parseExpr(); err != nil {
				return nil, err
			}
			if err := p.expectOp("=>"); err != nil {
				return nil, err
			}
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.keys = append(lit.keys, key)
		lit.values = append(lit.values, value)
	}
	p.next()
	return lit, nil
}
