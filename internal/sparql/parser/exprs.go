package parser

import (
	"fmt"
	"strings"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// parseExpression parses a full SPARQL expression, lowest precedence
// (logical OR) down to primary expressions and function calls. Grounded
// on the teacher's pkg/sparql/parser.go expression grammar, which this
// package's own parser.go originally left as a "TODO: parse expression
// properly" stub inside parseFilter/parseBind.
func (p *Parser) parseExpression() (Expression, error) {
	return p.parseLogicalOrExpression()
}

func (p *Parser) parseLogicalOrExpression() (Expression, error) {
	left, err := p.parseLogicalAndExpression()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if p.match("||") {
			right, err := p.parseLogicalAndExpression()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpression{Left: left, Operator: OpOr, Right: right}
		} else {
			break
		}
	}
	return left, nil
}

func (p *Parser) parseLogicalAndExpression() (Expression, error) {
	left, err := p.parseComparisonExpression()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if p.match("&&") {
			right, err := p.parseComparisonExpression()
			if err != nil {
				return nil, err
			}
			left = &BinaryExpression{Left: left, Operator: OpAnd, Right: right}
		} else {
			break
		}
	}
	return left, nil
}

func (p *Parser) parseComparisonExpression() (Expression, error) {
	left, err := p.parseAdditiveExpression()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()

	savedPos := p.pos
	notIn := false
	if p.matchKeyword("NOT") {
		p.skipWhitespace()
		if p.matchKeyword("IN") {
			notIn = true
		} else {
			p.pos = savedPos
		}
	} else if p.matchKeyword("IN") {
		notIn = false
	} else {
		p.pos = savedPos
		var op Operator
		switch {
		case p.match("<="):
			op = OpLessThanOrEqual
		case p.match(">="):
			op = OpGreaterThanOrEqual
		case p.match("!="):
			op = OpNotEqual
		case p.match("="):
			op = OpEqual
		case p.match("<"):
			op = OpLessThan
		case p.match(">"):
			op = OpGreaterThan
		default:
			return left, nil
		}
		right, err := p.parseAdditiveExpression()
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Left: left, Operator: op, Right: right}, nil
	}

	p.skipWhitespace()
	if p.peek() != '(' {
		return nil, fmt.Errorf("expected '(' after IN/NOT IN")
	}
	p.advance()

	var values []Expression
	p.skipWhitespace()
	if p.peek() != ')' {
		for {
			expr, err := p.parseAdditiveExpression()
			if err != nil {
				return nil, fmt.Errorf("failed to parse IN value: %w", err)
			}
			values = append(values, expr)
			p.skipWhitespace()
			if p.peek() == ',' {
				p.advance()
				p.skipWhitespace()
				continue
			}
			break
		}
	}
	if p.peek() != ')' {
		return nil, fmt.Errorf("expected ')' after IN value list")
	}
	p.advance()

	return &InExpression{Not: notIn, Expression: left, Values: values}, nil
}

func (p *Parser) parseAdditiveExpression() (Expression, error) {
	left, err := p.parseMultiplicativeExpression()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		var op Operator
		switch {
		case p.match("+"):
			op = OpAdd
		case p.match("-"):
			op = OpSubtract
		default:
			return left, nil
		}
		right, err := p.parseMultiplicativeExpression()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseMultiplicativeExpression() (Expression, error) {
	left, err := p.parseUnaryExpression()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		var op Operator
		switch {
		case p.match("*"):
			op = OpMultiply
		case p.match("/"):
			op = OpDivide
		default:
			return left, nil
		}
		right, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseUnaryExpression() (Expression, error) {
	p.skipWhitespace()
	if p.match("!") {
		operand, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Operator: OpNot, Operand: operand}, nil
	}
	if p.match("+") {
		return p.parseUnaryExpression()
	}
	if p.match("-") {
		operand, err := p.parseUnaryExpression()
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{
			Left:     &LiteralExpression{Literal: rdf.NewIntegerLiteral(0)},
			Operator: OpSubtract,
			Right:    operand,
		}, nil
	}
	return p.parsePrimaryExpression()
}

func (p *Parser) parsePrimaryExpression() (Expression, error) {
	p.skipWhitespace()

	savedPos := p.pos
	if p.matchKeyword("TRUE") {
		return &LiteralExpression{Literal: rdf.NewBooleanLiteral(true)}, nil
	}
	p.pos = savedPos
	if p.matchKeyword("FALSE") {
		return &LiteralExpression{Literal: rdf.NewBooleanLiteral(false)}, nil
	}
	p.pos = savedPos

	if p.matchKeyword("NOT") {
		p.skipWhitespace()
		if p.matchKeyword("EXISTS") {
			p.skipWhitespace()
			pattern, err := p.parseGraphPattern()
			if err != nil {
				return nil, fmt.Errorf("failed to parse graph pattern in NOT EXISTS: %w", err)
			}
			return &ExistsExpression{Not: true, Pattern: *pattern}, nil
		}
		p.pos = savedPos
	} else if p.matchKeyword("EXISTS") {
		p.skipWhitespace()
		pattern, err := p.parseGraphPattern()
		if err != nil {
			return nil, fmt.Errorf("failed to parse graph pattern in EXISTS: %w", err)
		}
		return &ExistsExpression{Not: false, Pattern: *pattern}, nil
	}

	if p.peek() == '(' {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("expected ')' after expression")
		}
		p.advance()
		return expr, nil
	}

	if p.peek() == '?' || p.peek() == '$' {
		variable, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		return &VariableExpression{Variable: variable}, nil
	}

	ch := p.peek()
	if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
		savedPos := p.pos
		_ = p.readWhile(func(c byte) bool {
			return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
		})
		p.skipWhitespace()
		if p.peek() == '(' {
			p.pos = savedPos
			return p.parseFunctionCall()
		}
		p.pos = savedPos
	}

	termOrVar, err := p.parseTermOrVariable()
	if err != nil {
		return nil, fmt.Errorf("expected expression: %w", err)
	}
	if termOrVar.Term != nil {
		return &LiteralExpression{Literal: termOrVar.Term}, nil
	}
	if termOrVar.Variable != nil {
		return &VariableExpression{Variable: termOrVar.Variable}, nil
	}
	return nil, fmt.Errorf("failed to parse expression term")
}

// parseFunctionCall parses a builtin or aggregate call, tagging
// COUNT(*) with the synthetic variable "*" the planner recognizes as
// the no-argument aggregate form (SPARQL §18.5.1.1).
func (p *Parser) parseFunctionCall() (Expression, error) {
	p.skipWhitespace()

	funcName := p.readWhile(func(c byte) bool {
		return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == ':'
	})
	if funcName == "" {
		return nil, fmt.Errorf("expected function name")
	}

	if strings.Contains(funcName, ":") {
		parts := strings.SplitN(funcName, ":", 2)
		if len(parts) == 2 {
			if ns, ok := p.prefixes[parts[0]]; ok {
				funcName = ns + parts[1]
			}
		}
	}

	p.skipWhitespace()

	distinct := false
	if p.peek() != '(' {
		return nil, fmt.Errorf("expected '(' after function name")
	}
	p.advance()
	p.skipWhitespace()
	if p.matchKeyword("DISTINCT") {
		distinct = true
		p.skipWhitespace()
	}

	var args []Expression
	if p.peek() == ')' {
		p.advance()
		return newFunctionCall(funcName, args, distinct), nil
	}

	for {
		if funcName == "COUNT" && p.peek() == '*' {
			p.advance()
			args = append(args, &VariableExpression{Variable: &Variable{Name: "*"}})
		} else {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, fmt.Errorf("error parsing function argument: %w", err)
			}
			args = append(args, arg)
		}
		p.skipWhitespace()
		if p.peek() == ',' {
			p.advance()
			p.skipWhitespace()
			continue
		}
		break
	}

	p.skipWhitespace()
	if p.peek() != ')' {
		return nil, fmt.Errorf("expected ')' after function arguments")
	}
	p.advance()

	return newFunctionCall(funcName, args, distinct), nil
}

func newFunctionCall(name string, args []Expression, distinct bool) Expression {
	return &FunctionCallExpression{Function: name, Arguments: args, Distinct: distinct}
}

// match checks whether the upcoming characters equal s and consumes
// them if so. Unlike matchKeyword it is not word-bounded, so it is used
// for punctuation/operator tokens rather than reserved words.
func (p *Parser) match(s string) bool {
	if p.pos+len(s) > p.length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if p.input[p.pos+i] != s[i] {
			return false
		}
	}
	p.pos += len(s)
	return true
}
