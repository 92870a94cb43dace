package hostenv

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"colloml/internal/types"
)

// Config is the YAML-loadable form of a Schema (SPEC_FULL.md
// "Configuration" ambient stack section): a host declares its base
// variables and object field tables once, in a config file, rather
// than wiring Go literals for every deployment.
//
//	base_vars:
//	  Assigned:
//	    - Student
//	    - Slot
//	objects:
//	  Student:
//	    id: Int
//	    name: String
type Config struct {
	BaseVars map[string][]string         `yaml:"base_vars"`
	Objects  map[string]map[string]string `yaml:"objects"`
}

// LoadConfig parses a Config from YAML source.
func LoadConfig(source []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(source, &cfg); err != nil {
		return nil, fmt.Errorf("hostenv: parsing config: %w", err)
	}
	return &cfg, nil
}

// Schema builds a Schema from the config's type-string declarations.
func (c *Config) Schema() (*Schema, error) {
	s := NewSchema()
	for name, paramStrs := range c.BaseVars {
		params := make([]*types.Type, len(paramStrs))
		for i, p := range paramStrs {
			t, err := ParseTypeString(p)
			if err != nil {
				return nil, fmt.Errorf("hostenv: base var %s param %d: %w", name, i, err)
			}
			params[i] = t
		}
		s.DeclareBaseVar(name, params...)
	}
	for name, fieldStrs := range c.Objects {
		fields := make(map[string]*types.Type, len(fieldStrs))
		for field, typeStr := range fieldStrs {
			t, err := ParseTypeString(typeStr)
			if err != nil {
				return nil, fmt.Errorf("hostenv: object %s field %s: %w", name, field, err)
			}
			fields[field] = t
		}
		s.DeclareObject(name, fields)
	}
	return s, nil
}

// ParseTypeString parses a standalone type expression in the same
// surface syntax as ColloML source type annotations: `Int`, `[Int]`, `(Int, Bool)`, `?Int`,
// `A | B`, or a bare capitalized object name. It is a small, independent
// recursive-descent parser rather than a reuse of internal/parser's
// expression-embedded type grammar, since config loading has no token
// stream or diagnostics reporter to share.
func ParseTypeString(s string) (*types.Type, error) {
	p := &typeStringParser{input: s}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input %q", p.input[p.pos:])
	}
	return t, nil
}

type typeStringParser struct {
	input string
	pos   int
}

func (p *typeStringParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *typeStringParser) parseUnion() (*types.Type, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	variants := []*types.Type{first}
	for {
		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == '|' {
			p.pos++
			next, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			variants = append(variants, next)
			continue
		}
		break
	}
	if len(variants) == 1 {
		return variants[0], nil
	}
	return types.Union(variants...), nil
}

func (p *typeStringParser) parseAtom() (*types.Type, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("unexpected end of type string")
	}
	switch p.input[p.pos] {
	case '?':
		p.pos++
		inner, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		return types.Maybe(inner), nil
	case '[':
		p.pos++
		elem, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ']' {
			return nil, fmt.Errorf("expected ']' in list type")
		}
		p.pos++
		return types.ListOf(elem), nil
	case '(':
		p.pos++
		var elems []*types.Type
		for {
			t, err := p.parseUnion()
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return nil, fmt.Errorf("expected ')' in tuple type")
		}
		p.pos++
		if len(elems) < 2 {
			return nil, fmt.Errorf("tuple type needs at least 2 elements")
		}
		return types.TupleOf(elems...), nil
	default:
		name := p.parseIdent()
		if name == "" {
			return nil, fmt.Errorf("expected type name at %q", p.input[p.pos:])
		}
		switch name {
		case "Int":
			return types.Int(), nil
		case "Bool":
			return types.Bool(), nil
		case "String":
			return types.Str(), nil
		case "LinExpr":
			return types.LinExpr(), nil
		case "Constraint":
			return types.Constraint(), nil
		case "None":
			return types.None(), nil
		default:
			if strings.HasPrefix(name, "Object(") {
				return nil, fmt.Errorf("use a bare object name, not Object(...)")
			}
			return types.ObjectOf(name), nil
		}
	}
}

func (p *typeStringParser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ',' || c == ')' || c == ']' || c == '|' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}
