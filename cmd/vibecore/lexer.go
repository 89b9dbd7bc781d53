package main

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokString
	tokSymbol
	tokIdent
	tokLabel
	tokBlockArg
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Longest operators first so prefixes never shadow them.
var operators = []string{
	"<=>", "**", "<<", ">>", "==", "!=", "<=", ">=", "=>",
	"+", "-", "*", "/", "%", "&", "|", "^", "<", ">", "=",
	"(", ")", "[", "]", "{", "}", ",", ".", ";", "!",
}

var symbolOperators = []string{
	"[]=", "[]", "<=>", "**", "<<", ">>", "==", "!=", "<=", ">=",
	"+", "-", "*", "/", "%", "&", "|", "^", "<", ">",
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '#':
			i = len(src)
		case isDigit(c):
			start := i
			kind := tokInt
			i = scanDigits(src, i)
			if i+1 < len(src) && src[i] == '.' && isDigit(src[i+1]) {
				kind = tokFloat
				i = scanDigits(src, i+1)
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					kind = tokFloat
					i = scanDigits(src, j)
				}
			}
			toks = append(toks, token{kind: kind, text: strings.ReplaceAll(src[start:i], "_", ""), pos: start})
		case c == '"' || c == '\'':
			start := i
			i++
			for i < len(src) && src[i] != c {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(src) {
				return nil, fmt.Errorf("unterminated string at column %d", start+1)
			}
			i++
			raw := src[start:i]
			text := raw[1 : len(raw)-1]
			if c == '"' {
				s, err := strconv.Unquote(raw)
				if err != nil {
					return nil, fmt.Errorf("invalid string literal %s", raw)
				}
				text = s
			}
			toks = append(toks, token{kind: tokString, text: text, pos: start})
		case c == '&' && i+1 < len(src) && src[i+1] == ':':
			name, end := scanSymbolName(src, i+2)
			if name == "" {
				return nil, fmt.Errorf("invalid block argument at column %d", i+1)
			}
			toks = append(toks, token{kind: tokBlockArg, text: name, pos: i})
			i = end
		case c == ':':
			name, end := scanSymbolName(src, i+1)
			if name == "" {
				return nil, fmt.Errorf("unexpected ':' at column %d", i+1)
			}
			toks = append(toks, token{kind: tokSymbol, text: name, pos: i})
			i = end
		case isIdentStart(c):
			start := i
			i = scanIdent(src, i)
			if i < len(src) && src[i] == ':' && (i+1 >= len(src) || src[i+1] != ':') {
				toks = append(toks, token{kind: tokLabel, text: src[start:i], pos: start})
				i++
				continue
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			op := matchPrefix(src[i:], operators)
			if op == "" {
				return nil, fmt.Errorf("unexpected character %q at column %d", c, i+1)
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func scanDigits(src string, i int) int {
	for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
		i++
	}
	return i
}

// scanIdent consumes an identifier with an optional trailing ? or !, which is
// left alone when it starts a != operator.
func scanIdent(src string, i int) int {
	for i < len(src) && isIdentPart(src[i]) {
		i++
	}
	if i < len(src) && (src[i] == '?' || src[i] == '!') && (i+1 >= len(src) || src[i+1] != '=') {
		i++
	}
	return i
}

func scanSymbolName(src string, i int) (string, int) {
	if i < len(src) && isIdentStart(src[i]) {
		end := scanIdent(src, i)
		return src[i:end], end
	}
	op := matchPrefix(src[i:], symbolOperators)
	return op, i + len(op)
}

func matchPrefix(s string, candidates []string) string {
	for _, c := range candidates {
		if strings.HasPrefix(s, c) {
			return c
		}
	}
	return ""
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
