package formula

// TokenKind tags a scanned token.
type TokenKind int

const (
	Number TokenKind = iota
	Ident
	LParen
	RParen
	Comma
	Op
	UMinus
)

func (k TokenKind) String() string {
	switch k {
	case Number:
		return "NUMBER"
	case Ident:
		return "IDENT"
	case LParen:
		return "LPAREN"
	case RParen:
		return "RPAREN"
	case Comma:
		return "COMMA"
	case Op:
		return "OP"
	case UMinus:
		return "UMINUS"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit. Text is the source text; Value is set for Number.
type Token struct {
	Kind  TokenKind
	Text  string
	Value float64
}

// Binary operator symbols.
const (
	OpAdd      = "+"
	OpSub      = "-"
	OpMul      = "*"
	OpDiv      = "/"
	OpFloorDiv = "//"
	OpMod      = "%"
	OpPow      = "**"
)

type operatorInfo struct {
	precedence int
	rightAssoc bool
}

var operators = map[string]operatorInfo{
	OpAdd:      {precedence: 2},
	OpSub:      {precedence: 2},
	OpMul:      {precedence: 3},
	OpDiv:      {precedence: 3},
	OpFloorDiv: {precedence: 3},
	OpMod:      {precedence: 3},
	OpPow:      {precedence: 4, rightAssoc: true},
}

// Unary minus binds tighter than **, so -a**2 is (-a)**2.
var unaryMinusInfo = operatorInfo{precedence: 5, rightAssoc: true}
