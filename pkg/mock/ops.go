package mock

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/platform"
)

// OpKind is a mock file mutation.
type OpKind int

const (
	OpAdd OpKind = iota
	OpRemove
	OpClear
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	case OpClear:
		return "clear"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is a single mutation parsed from a mock expression.
type Op struct {
	Kind   OpKind
	Prefix string
	Name   string
}

// Wildcard selects every prefix of a scope.
const Wildcard = "*"

// opsLexer tokenises expressions such as "+0240:K64F,-1234,!5678,-*".
var opsLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Star", Pattern: `\*`},
	// Names start with a letter, digit or underscore so a leading '-' is
	// always read as an operator.
	{Name: "Ident", Pattern: `[A-Za-z0-9_][A-Za-z0-9_.\-]*`},
	{Name: "Sign", Pattern: `[+\-!]`},
})

type opList struct {
	Ops []*opExpr `@@ ( Comma @@ )*`
}

type opExpr struct {
	Sign   string `@Sign?`
	Prefix string `( @Star | @Ident )`
	Name   string `( Colon @( Ident | String ) )?`
}

var opsParser = participle.MustBuild[opList](
	participle.Lexer(opsLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// ParseOps parses a comma separated mock expression:
//
//	0240:K64F    add (a leading '+' is optional)
//	-0240, !0240 remove
//	-*           remove every prefix of the scope
func ParseOps(expr string) ([]Op, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("mock: empty expression")
	}
	list, err := opsParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("mock: parse %q: %w", expr, err)
	}

	ops := make([]Op, 0, len(list.Ops))
	for _, e := range list.Ops {
		op, err := e.op()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func (e *opExpr) op() (Op, error) {
	switch e.Sign {
	case "", "+":
		if e.Prefix == Wildcard {
			return Op{}, fmt.Errorf("mock: cannot add wildcard prefix")
		}
		if e.Name == "" {
			return Op{}, fmt.Errorf("mock: missing platform name for %q", e.Prefix)
		}
		if !platform.ValidPrefix(e.Prefix) {
			return Op{}, &platform.InvalidIdentifierError{Prefix: e.Prefix}
		}
		return Op{Kind: OpAdd, Prefix: e.Prefix, Name: e.Name}, nil
	case "-", "!":
		if e.Prefix == Wildcard {
			return Op{Kind: OpClear}, nil
		}
		return Op{Kind: OpRemove, Prefix: e.Prefix}, nil
	default:
		return Op{}, fmt.Errorf("mock: unknown operator %q", e.Sign)
	}
}
