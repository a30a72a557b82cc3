package simulate

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// evalArithmetic evaluates + - * / // % ^ and parentheses over decimal
// numbers. ^ (or **) is exponentiation, binds tighter than unary minus and is right
// associative.
func evalArithmetic(expr string) (float64, error) {
	for _, r := range expr {
		if !strings.ContainsRune("0123456789+-*/().^% ", r) {
			return 0, errors.Errorf("disallowed character %q", r)
		}
	}
	p := &arithParser{src: expr}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return 0, errors.Errorf("unexpected %q at %d", p.src[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errors.New("result is not a finite number")
	}
	return v, nil
}

type arithParser struct {
	src string
	pos int
}

func (p *arithParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *arithParser) peek(tok string) bool {
	p.skipSpace()
	return strings.HasPrefix(p.src[p.pos:], tok)
}

func (p *arithParser) accept(tok string) bool {
	if p.peek(tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *arithParser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("+"):
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case p.accept("-"):
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *arithParser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		var op string
		switch {
		case p.accept("*"):
			op = "*"
		case p.accept("//"):
			op = "//"
		case p.accept("/"):
			op = "/"
		case p.accept("%"):
			op = "%"
		default:
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op != "*" && right == 0 {
			return 0, errors.New("division by zero")
		}
		switch op {
		case "*":
			left *= right
		case "/":
			left /= right
		case "//":
			left = math.Floor(left / right)
		case "%":
			// Sign follows the divisor.
			left = left - right*math.Floor(left/right)
		}
	}
}

func (p *arithParser) unary() (float64, error) {
	switch {
	case p.accept("-"):
		v, err := p.unary()
		return -v, err
	case p.accept("+"):
		return p.unary()
	}
	return p.power()
}

func (p *arithParser) power() (float64, error) {
	base, err := p.atom()
	if err != nil {
		return 0, err
	}
	if p.accept("^") || p.accept("**") {
		exp, err := p.unary()
		if err != nil {
			return 0, err
		}
		return math.Pow(base, exp), nil
	}
	return base, nil
}

func (p *arithParser) atom() (float64, error) {
	if p.accept("(") {
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if !p.accept(")") {
			return 0, errors.New("missing closing parenthesis")
		}
		return v, nil
	}

	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] == '.' || (p.src[p.pos] >= '0' && p.src[p.pos] <= '9')) {
		p.pos++
	}
	if start == p.pos {
		return 0, errors.Errorf("expected number at %d", start)
	}
	return strconv.ParseFloat(p.src[start:p.pos], 64)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
