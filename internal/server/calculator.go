// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// calculator.go - Arithmetic evaluator backing the demo calculator tool.
package server

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// extractExpression pulls the longest arithmetic expression out of free
// text. A candidate qualifies when it contains at least one operator
// between two numbers, so ordinary sentences with digits ("turn 3") do
// not trigger the calculator.
func extractExpression(text string) (string, bool) {
	best := ""
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		cand := strings.TrimSpace(text[start:end])
		cand = strings.Trim(cand, "+*/^ ")
		if looksLikeExpression(cand) && len(cand) > len(best) {
			best = cand
		}
		start = -1
	}

	for i, r := range text {
		if unicode.IsDigit(r) || strings.ContainsRune("+-*/^(). ", r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	return best, best != ""
}

// looksLikeExpression reports whether s holds a number, an operator, and
// another number, in that order.
func looksLikeExpression(s string) bool {
	seenNumber := false
	seenOperator := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			if seenOperator {
				return true
			}
			seenNumber = true
		case strings.ContainsRune("+-*/^", r):
			if seenNumber {
				seenOperator = true
			}
		}
	}
	return false
}

// evalExpression evaluates +, -, *, /, ^ and parentheses over floats with
// conventional precedence. It exists so the stub can demo a tool call
// without shelling out to anything.
func evalExpression(expr string) (float64, error) {
	p := &exprParser{input: expr}
	val, err := p.parseAdditive()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos], p.pos)
	}
	return val, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseAdditive() (float64, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseMultiplicative()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseMultiplicative() (float64, error) {
	left, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parsePower()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, errors.New("division by zero")
			}
			left /= right
		}
	}
}

// parsePower handles ^ (right associative) and the ** spelling.
func (p *exprParser) parsePower() (float64, error) {
	base, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.peek() == '^' {
		p.pos++
	} else if strings.HasPrefix(p.input[p.pos:], "**") {
		p.pos += 2
	} else {
		return base, nil
	}
	exp, err := p.parsePower()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *exprParser) parseUnary() (float64, error) {
	p.skipSpaces()
	if p.peek() == '-' {
		p.pos++
		val, err := p.parseUnary()
		return -val, err
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.peek() == '(' {
		p.pos++
		val, err := p.parseAdditive()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return val, nil
	}

	start := p.pos
	for p.pos < len(p.input) && (unicode.IsDigit(rune(p.input[p.pos])) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	val, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", p.input[start:p.pos])
	}
	return val, nil
}

// formatNumber renders a result without a trailing ".000000" for whole
// values.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}
