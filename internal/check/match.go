package check

import (
	"colloml/internal/ast"
	"colloml/internal/diag"
	"colloml/internal/types"
)

// inferMatch type-checks a `match` expression: each arm narrows the
// scrutinee's type per its pattern, checks the arm's optional `where`
// guard, and the arms collectively must be exhaustive over the
// scrutinee's type (spec.md §4.2.1).
func (c *Checker) inferMatch(n *ast.MatchExpr, scope *SymbolTable) *types.Type {
	scrutinee := c.inferExpr(n.Scrutinee, scope)

	var admitted []*types.Type
	var resultType *types.Type
	hasCatchAll := false

	for i := range n.Arms {
		arm := &n.Arms[i]
		armScope := NewSymbolTable(scope)
		var armType *types.Type

		switch pat := arm.Pattern.(type) {
		case *ast.TypedPattern:
			armType = c.resolveTypeExpr(pat.Type)
			if !types.IsSubtype(armType, scrutinee) {
				c.errorf(pat.NodeSpan(), diag.CTypeMismatch,
					"match arm type %s is not a subtype of scrutinee type %s", armType, scrutinee)
			}
			c.setType(pat, armType)
			armScope.Define(pat.Name, SymMatchBinding, armType)
			admitted = append(admitted, armType)
		case *ast.ListCatchAllPattern:
			armType = listVariantOf(scrutinee)
			if armType == nil {
				c.errorf(pat.NodeSpan(), diag.CTypeMismatch,
					"match arm `as []` requires a List variant in scrutinee type %s", scrutinee)
				armType = types.None()
			}
			c.setType(pat, armType)
			armScope.Define(pat.Name, SymMatchBinding, armType)
			admitted = append(admitted, armType)
		case *ast.CatchAllPattern:
			armType = scrutinee
			armScope.Define(pat.Name, SymMatchBinding, armType)
			hasCatchAll = true
		}

		if guard := arm.Pattern.Guard(); guard != nil {
			gt := c.inferExpr(guard, armScope)
			c.requireExactType(guard, gt, types.Bool(), "match arm `where` guard")
		}

		bodyType := c.inferExpr(arm.Body, armScope)
		if resultType == nil {
			resultType = bodyType
		} else {
			resultType = types.Join(resultType, bodyType)
		}
	}

	if !hasCatchAll {
		covered := types.Union(admitted...)
		if len(admitted) == 0 || !types.IsSubtype(scrutinee, covered) {
			c.errorf(n.NodeSpan(), diag.CMatchNotExhaustive,
				"match is not exhaustive over %s", scrutinee)
		}
	}

	if resultType == nil {
		return types.None()
	}
	return resultType
}

// listVariantOf returns the List<_> variant of t, if t admits one.
func listVariantOf(t *types.Type) *types.Type {
	for _, v := range t.Variants {
		if v.Kind == types.KList {
			return &types.Type{Variants: []types.Variant{v}}
		}
	}
	return nil
}
