package cgb

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/errors"
	"github.com/funvibe/funxy/internal/refinement"
	"github.com/funvibe/funxy/internal/scope"
)

// check is the expression core (spec.md §4.6): every single-valued
// expression form dispatches through here. expected, if non-nil, guides
// literal-widening decisions; forceSingleton asks string/boolean
// literals to keep their singleton type rather than widen.
func (b *Builder) check(sc *scope.Scope, e ast.Expression, expected *arena.TypeId, forceSingleton bool) Result {
	done, ok := b.recurse(e.GetToken().Pos())
	defer done()
	if !ok {
		return Result{Type: b.errorRecoveryType()}
	}

	var res Result
	switch e := e.(type) {
	case *ast.NilLiteral:
		res = Result{Type: b.Arena.AddType(arena.Primitive{Kind: arena.PrimNil})}

	case *ast.NumberLiteral:
		res = Result{Type: b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber})}

	case *ast.BooleanLiteral:
		res = Result{Type: b.checkSingleton(sc, e, arena.Singleton{IsString: false, BoolValue: e.Value}, arena.PrimBoolean, expected, forceSingleton)}

	case *ast.StringLiteral:
		res = Result{Type: b.checkSingleton(sc, e, arena.Singleton{IsString: true, StringValue: e.Value}, arena.PrimString, expected, forceSingleton)}

	case *ast.InterpolatedStringExpression:
		for _, part := range e.Parts {
			b.check(sc, part, nil, false)
		}
		res = Result{Type: b.Arena.AddType(arena.Primitive{Kind: arena.PrimString})}

	case *ast.VarargExpression:
		res = b.checkVararg(sc)

	case *ast.Identifier:
		res = b.checkIdentifier(sc, e)

	case *ast.IndexName:
		res = b.checkIndex(sc, e, e.Object, e.Name, nil)

	case *ast.IndexExpr:
		res = b.checkIndex(sc, e, e.Object, "", e.Index)

	case *ast.UnaryExpression:
		res = b.checkUnary(sc, e)

	case *ast.BinaryExpression:
		res = b.checkBinary(sc, e)

	case *ast.CallExpression:
		res = b.checkCallSingle(sc, e)

	case *ast.FunctionExpression:
		res = Result{Type: b.checkFunctionExpression(sc, e)}

	case *ast.TableExpression:
		res = Result{Type: b.checkTable(sc, e, expected)}

	case *ast.IfExpression:
		res = b.checkIfExpression(sc, e, expected)

	case *ast.TypeAssertionExpression:
		b.check(sc, e.Expr, nil, false)
		res = Result{Type: b.Resolver.ResolveType(sc, e.Annotation, false)}

	case *ast.ParenExpression:
		inner := b.check(sc, e.Inner, expected, forceSingleton)
		res = Result{Type: inner.Type}

	default:
		b.report(e.GetToken().Pos(), errors.CodeGeneric, "unhandled expression form %T", e)
		res = Result{Type: b.errorRecoveryType()}
	}

	b.recordType(e, res.Type, expected)
	return res
}

// checkSingleton implements spec.md §4.6's literal-widening rule: absent
// forceSingleton, a string/boolean literal returns its base type unless
// the (followed) expected type is still Blocked or a PendingExpansion,
// in which case a Blocked placeholder is returned and a PrimitiveType
// constraint lets the solver decide later whether to widen.
func (b *Builder) checkSingleton(sc *scope.Scope, n ast.Node, singleton arena.Type, base arena.PrimitiveKind, expected *arena.TypeId, forceSingleton bool) arena.TypeId {
	singletonTy := b.Arena.AddType(singleton)
	baseTy := b.Arena.AddType(arena.Primitive{Kind: base})

	if forceSingleton {
		return singletonTy
	}
	if expected != nil {
		switch b.Arena.FollowType(*expected).(type) {
		case arena.Blocked, arena.PendingExpansion:
			blocked := b.Arena.AddType(arena.Blocked{})
			b.Constraints.Add(sc, n.GetToken().Pos(), constraints.PrimitiveType{
				Result:    blocked,
				Expected:  *expected,
				Singleton: singletonTy,
				Primitive: baseTy,
			})
			return blocked
		}
	}
	return baseTy
}

func (b *Builder) checkVararg(sc *scope.Scope) Result {
	if sc.VarargPack == nil {
		return Result{Type: b.errorRecoveryType()}
	}
	if p, ok := b.Arena.FollowTypePack(*sc.VarargPack).(arena.Pack); ok && len(p.Head) > 0 {
		return Result{Type: p.Head[0]}
	}
	if v, ok := b.Arena.FollowTypePack(*sc.VarargPack).(arena.VariadicPack); ok {
		return Result{Type: v.Element}
	}
	return Result{Type: b.Arena.AddType(arena.Primitive{Kind: arena.PrimAny})}
}

// checkIdentifier implements spec.md §4.6's Locals/Globals rule:
// dcrRefinements first, then the lexical binding; unresolved names are
// treated as unknown globals and reported.
func (b *Builder) checkIdentifier(sc *scope.Scope, id *ast.Identifier) Result {
	def, hasDef := b.Graph.GetDef(id)

	ty, hasBinding := func() (arena.TypeId, bool) {
		if hasDef {
			if refined, ok := sc.LookupRefinement(def); ok {
				return refined, true
			}
		}
		if binding, ok := sc.Lookup(id.Name); ok {
			return binding.TypeId, true
		}
		return 0, false
	}()

	if !hasBinding {
		b.report(id.GetToken().Pos(), errors.CodeUnknownSymbol, "unknown symbol '%s'", id.Name)
		return Result{Type: b.errorRecoveryType()}
	}

	var ref refinement.Refinement
	if hasDef {
		ref = refinement.NewProposition(def, ty)
	}
	return Result{Type: ty, Refinement: ref}
}

// checkIndex implements spec.md §4.6's Index rule: `x.f` (name != "") or
// `x[e]` (indexExpr != nil, name == ""). It unifies the subject against a
// Free-headed table carrying exactly the one property/indexer being
// read, which the solver later merges with every other access the
// subject's type is put through.
func (b *Builder) checkIndex(sc *scope.Scope, node ast.Node, objExpr ast.Expression, name string, indexExpr ast.Expression) Result {
	subj := b.check(sc, objExpr, nil, false)
	result := b.Arena.FreshType(sc.ID())

	var freeTable arena.Table
	if indexExpr == nil {
		freeTable = arena.Table{Props: map[string]arena.Prop{name: {Type: result}}, State: arena.TableFree, Scope: sc.ID()}
	} else {
		keyTy := b.check(sc, indexExpr, nil, false).Type
		freeTable = arena.Table{Indexer: &arena.Indexer{Key: keyTy, Value: result}, State: arena.TableFree, Scope: sc.ID()}
	}
	freeTableId := b.Arena.AddType(freeTable)
	b.Constraints.Add(sc, node.GetToken().Pos(), constraints.Subtype{Sub: subj.Type, Super: freeTableId})

	if name != "" {
		b.Constraints.Add(sc, node.GetToken().Pos(), constraints.HasProp{Result: result, Subject: subj.Type, PropName: name})
	}

	var ref refinement.Refinement
	if def, ok := b.Graph.GetDef(node); ok {
		ref = refinement.NewProposition(def, result)
	}
	return Result{Type: result, Refinement: ref}
}

// checkTable implements the Table literal rule (spec.md §4.6): positional
// fields populate the indexer slot at consecutive integer keys collapsed
// to a single `[number]: V` indexer, named fields become props, computed-key
// fields (`[k] = v`, whatever k is) join the same `[number]: V` indexer
// union, and every field's value is checked against nil expected type
// (literal widening only applies when an outer annotation flows in, which
// callers thread through expected for the table as a whole — individual
// fields don't inherit it without a declared prop type to check against).
func (b *Builder) checkTable(sc *scope.Scope, t *ast.TableExpression, expected *arena.TypeId) arena.TypeId {
	props := make(map[string]arena.Prop)
	var indexerValueParts []arena.TypeId
	numberTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimNumber})

	for _, f := range t.Fields {
		valTy := b.check(sc, f.Value, nil, false).Type
		switch {
		case f.Name != "":
			props[f.Name] = arena.Prop{Type: valTy}
		case f.Key != nil:
			b.check(sc, f.Key, nil, false)
			indexerValueParts = append(indexerValueParts, valTy)
		default:
			indexerValueParts = append(indexerValueParts, valTy)
		}
	}

	tbl := arena.Table{Props: props, State: arena.TableUnsealed, Scope: sc.ID()}
	if len(indexerValueParts) > 0 {
		tbl.Indexer = &arena.Indexer{Key: numberTy, Value: b.Arena.AddType(arena.Union{Parts: indexerValueParts})}
	}
	return b.Arena.AddType(tbl)
}

// checkIfExpression implements the expression form `if c then v1 [elseif
// ...] else v2` (spec.md §4.6): the arm's value is checked under the
// condition's (and every preceding arm's negated condition's) refinement,
// and the expression's own type is the union of every arm's value type.
func (b *Builder) checkIfExpression(sc *scope.Scope, e *ast.IfExpression, expected *arena.TypeId) Result {
	var resultParts []arena.TypeId
	var accumulatedNeg refinement.Refinement

	condRes := b.check(sc, e.Cond, nil, false)
	thenScope := b.Tree.ChildScope(e.Then, sc)
	if condRes.Refinement != nil {
		refinement.ApplyRefinements(b.Arena, thenScope, b.Graph, condRes.Refinement, true)
	}
	resultParts = append(resultParts, b.check(thenScope, e.Then, expected, false).Type)
	accumulatedNeg = refinement.Not(condRes.Refinement)

	for _, ei := range e.ElseIfs {
		condScope := b.Tree.ChildScope(ei.Cond, sc)
		if accumulatedNeg != nil {
			refinement.ApplyRefinements(b.Arena, condScope, b.Graph, accumulatedNeg, true)
		}
		eiCondRes := b.check(condScope, ei.Cond, nil, false)

		armScope := b.Tree.ChildScope(ei.Then, condScope)
		if eiCondRes.Refinement != nil {
			refinement.ApplyRefinements(b.Arena, armScope, b.Graph, eiCondRes.Refinement, true)
		}
		resultParts = append(resultParts, b.check(armScope, ei.Then, expected, false).Type)
		accumulatedNeg = refinement.And(accumulatedNeg, refinement.Not(eiCondRes.Refinement))
	}

	elseScope := sc
	if accumulatedNeg != nil {
		elseScope = b.Tree.ChildScope(e.Else, sc)
		refinement.ApplyRefinements(b.Arena, elseScope, b.Graph, accumulatedNeg, true)
	}
	resultParts = append(resultParts, b.check(elseScope, e.Else, expected, false).Type)

	return Result{Type: b.Arena.AddType(arena.Union{Parts: resultParts})}
}

// checkPack checks a tail position expression (the last entry of a call's
// argument list, a local's value list, or a return statement's value
// list) as a type pack: a bare Call or Vararg expands to however many
// results it produces, anything else is a single-element pack.
func (b *Builder) checkPack(sc *scope.Scope, e ast.Expression, expected *arena.TypePackId) PackResult {
	switch e := e.(type) {
	case *ast.CallExpression:
		return b.checkCallPack(sc, e)
	case *ast.VarargExpression:
		if sc.VarargPack == nil {
			return PackResult{Pack: b.errorRecoveryPack()}
		}
		return PackResult{Pack: *sc.VarargPack}
	default:
		res := b.check(sc, e, nil, false)
		pack := b.Arena.AddTypePack(arena.Pack{Head: []arena.TypeId{res.Type}})
		var refs []refinement.Refinement
		if res.Refinement != nil {
			refs = []refinement.Refinement{res.Refinement}
		}
		return PackResult{Pack: pack, Refinements: refs}
	}
}

// checkExprList checks a list of expressions where every entry but the
// last is truncated to one value and the last (if non-empty) expands as a
// pack, returning the flattened head types and the trailing pack's tail
// (nil if the list was empty or its last entry was not multi-valued).
func (b *Builder) checkExprList(sc *scope.Scope, exprs []ast.Expression) ([]arena.TypeId, []refinement.Refinement, *arena.TypePackId) {
	if len(exprs) == 0 {
		return nil, nil, nil
	}
	head := make([]arena.TypeId, 0, len(exprs))
	refs := make([]refinement.Refinement, 0, len(exprs))
	for _, e := range exprs[:len(exprs)-1] {
		res := b.check(sc, e, nil, false)
		head = append(head, res.Type)
		refs = append(refs, res.Refinement)
	}

	last := exprs[len(exprs)-1]
	packRes := b.checkPack(sc, last, nil)
	if p, ok := b.Arena.FollowTypePack(packRes.Pack).(arena.Pack); ok {
		head = append(head, p.Head...)
		refs = append(refs, packRes.Refinements...)
		return head, refs, p.Tail
	}
	return head, refs, &packRes.Pack
}
