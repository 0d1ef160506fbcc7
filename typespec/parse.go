package typespec

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/amp-labs/typecheck/errors"
)

// Parse turns an annotation expression into a specification. The grammar is
// the surface syntax of the usual annotation notation:
//
//	int, int64, float, str, bool, bytes, any, None
//	list[T], set[T], dict[K, V]
//	tuple[T1, T2, ...Tn] and the variadic form tuple[T, ...]
//	A | B unions, Union[A, B], Optional[T], and the T? shorthand
//
// Bare container names (list, dict, ...) constrain only the container kind,
// leaving elements unconstrained. Unknown identifiers and malformed syntax
// are errors wrapping errors.ErrUnsupportedAnnotation; an annotation that
// fails to parse is a caller mistake, never silently ignored.
func Parse(expr string) (Spec, error) {
	p := &parser{input: expr}

	spec, err := p.union()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, p.errorf("unexpected %q after expression", p.rest())
	}

	return spec, nil
}

// MustParse is Parse that panics on error, for package-level declarations.
func MustParse(expr string) Spec {
	spec, err := Parse(expr)
	if err != nil {
		panic(err)
	}

	return spec
}

// parser is a hand-rolled recursive-descent parser over the annotation
// grammar. The grammar is six productions; a parser generator would be
// heavier than the parser.
type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q: %s",
		errors.ErrUnsupportedAnnotation, p.input, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) atEnd() bool {
	p.skipSpace()

	return p.pos >= len(p.input)
}

func (p *parser) rest() string {
	return p.input[p.pos:]
}

// accept consumes the literal if it is next in the input.
func (p *parser) accept(lit string) bool {
	p.skipSpace()

	if strings.HasPrefix(p.input[p.pos:], lit) {
		p.pos += len(lit)

		return true
	}

	return false
}

// ident consumes an identifier, or returns "" if none is next.
func (p *parser) ident() string {
	p.skipSpace()

	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}

		p.pos++
	}

	return p.input[start:p.pos]
}

// union := optional ('|' optional)*
func (p *parser) union() (Spec, error) {
	first, err := p.optional()
	if err != nil {
		return nil, err
	}

	alts := []Spec{first}

	for p.accept("|") {
		next, err := p.optional()
		if err != nil {
			return nil, err
		}

		alts = append(alts, next)
	}

	if len(alts) == 1 {
		return alts[0], nil
	}

	return Union(alts...), nil
}

// optional := atom '?'?
func (p *parser) optional() (Spec, error) {
	spec, err := p.atom()
	if err != nil {
		return nil, err
	}

	if p.accept("?") {
		return Optional(spec), nil
	}

	return spec, nil
}

// atom := ident ('[' args ']')?
func (p *parser) atom() (Spec, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected a type name at position %d", p.pos)
	}

	if !p.accept("[") {
		return p.bare(name)
	}

	args, variadic, err := p.args()
	if err != nil {
		return nil, err
	}

	if !p.accept("]") {
		return nil, p.errorf("missing ']' in %s[...]", name)
	}

	return p.parameterized(name, args, variadic)
}

// args := union (',' union)* (',' '...')?
func (p *parser) args() ([]Spec, bool, error) {
	var specs []Spec

	for {
		if p.accept("...") {
			return specs, true, nil
		}

		spec, err := p.union()
		if err != nil {
			return nil, false, err
		}

		specs = append(specs, spec)

		if !p.accept(",") {
			return specs, false, nil
		}
	}
}

// bare resolves an identifier used without brackets.
func (p *parser) bare(name string) (Spec, error) {
	switch name {
	case "int":
		return Int(), nil
	case "int64":
		return Int64(), nil
	case "float", "float64":
		return Float64(), nil
	case "str", "string":
		return String(), nil
	case "bool":
		return Bool(), nil
	case "bytes":
		return Bytes(), nil
	case "any", "Any", "object":
		return Any(), nil
	case "None", "none", "NoneType", "nil":
		return Null(), nil
	case "list", "List":
		return Sequence(Any()), nil
	case "set", "Set":
		return Set(Any()), nil
	case "dict", "Dict":
		return Mapping(Any(), Any()), nil
	case "tuple", "Tuple":
		return VariadicTuple(Any()), nil
	}

	return nil, p.errorf("unknown type name %q", name)
}

// parameterized resolves a bracketed identifier against its arguments.
func (p *parser) parameterized(name string, args []Spec, variadic bool) (Spec, error) {
	if variadic && (name != "tuple" && name != "Tuple") {
		return nil, p.errorf("'...' is only valid inside tuple[...]")
	}

	switch name {
	case "list", "List":
		if len(args) != 1 {
			return nil, p.errorf("list takes exactly one parameter, got %d", len(args))
		}

		return Sequence(args[0]), nil

	case "set", "Set":
		if len(args) != 1 {
			return nil, p.errorf("set takes exactly one parameter, got %d", len(args))
		}

		return Set(args[0]), nil

	case "dict", "Dict":
		if len(args) != 2 {
			return nil, p.errorf("dict takes exactly two parameters, got %d", len(args))
		}

		return Mapping(args[0], args[1]), nil

	case "tuple", "Tuple":
		if variadic {
			if len(args) != 1 {
				return nil, p.errorf("variadic tuple takes exactly one parameter before '...'")
			}

			return VariadicTuple(args[0]), nil
		}

		if len(args) == 0 {
			return nil, p.errorf("tuple requires at least one parameter")
		}

		return Tuple(args...), nil

	case "Optional":
		if len(args) != 1 {
			return nil, p.errorf("Optional takes exactly one parameter, got %d", len(args))
		}

		return Optional(args[0]), nil

	case "Union":
		if len(args) == 0 {
			return nil, p.errorf("Union requires at least one parameter")
		}

		return Union(args...), nil
	}

	return nil, p.errorf("unknown parameterized type %q", name)
}
