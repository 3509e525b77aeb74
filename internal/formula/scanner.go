package formula

import (
	"strconv"
	"unicode/utf8"
)

// Scan splits a formula into tokens. A '-' becomes UMinus when it opens the
// formula or follows an operator, '(' or ','; otherwise it is the binary Op.
func Scan(src string) ([]Token, error) {
	tokens := make([]Token, 0, len(src)/2+1)

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case isSpace(c):
			i++

		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			text := src[start:i]
			if text == "." {
				return nil, syntaxErrorf("Invalid number in formula: '.'")
			}
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, syntaxErrorf("Invalid number in formula: '%s'", text)
			}
			tokens = append(tokens, Token{Kind: Number, Text: text, Value: value})

		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: Ident, Text: src[start:i]})

		case c == '(':
			tokens = append(tokens, Token{Kind: LParen, Text: "("})
			i++

		case c == ')':
			tokens = append(tokens, Token{Kind: RParen, Text: ")"})
			i++

		case c == ',':
			tokens = append(tokens, Token{Kind: Comma, Text: ","})
			i++

		case c == '-':
			if expectsUnary(tokens) {
				tokens = append(tokens, Token{Kind: UMinus, Text: "-"})
			} else {
				tokens = append(tokens, Token{Kind: Op, Text: OpSub})
			}
			i++

		case c == '*' || c == '/':
			text := string(c)
			if i+1 < len(src) && src[i+1] == c {
				text += text
			}
			tokens = append(tokens, Token{Kind: Op, Text: text})
			i += len(text)

		case c == '+' || c == '%':
			tokens = append(tokens, Token{Kind: Op, Text: string(c)})
			i++

		default:
			r, _ := utf8.DecodeRuneInString(src[i:])
			return nil, syntaxErrorf("Invalid character in formula: '%c'", r)
		}
	}

	return tokens, nil
}

func expectsUnary(tokens []Token) bool {
	if len(tokens) == 0 {
		return true
	}
	switch tokens[len(tokens)-1].Kind {
	case Op, LParen, Comma, UMinus:
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

// IsIdentifier reports whether name is a syntactically valid variable or
// function name.
func IsIdentifier(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return true
}
