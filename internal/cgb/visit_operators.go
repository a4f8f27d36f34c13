package cgb

import (
	"github.com/funvibe/funxy/internal/arena"
	"github.com/funvibe/funxy/internal/ast"
	"github.com/funvibe/funxy/internal/constraints"
	"github.com/funvibe/funxy/internal/refinement"
	"github.com/funvibe/funxy/internal/scope"
	"github.com/funvibe/funxy/internal/token"
)

func (b *Builder) checkUnary(sc *scope.Scope, e *ast.UnaryExpression) Result {
	operand := b.check(sc, e.Operand, nil, false)

	if e.Op == token.NOT {
		boolTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimBoolean})
		return Result{Type: boolTy, Refinement: refinement.Not(operand.Refinement)}
	}

	result := b.Arena.FreshType(sc.ID())
	b.Constraints.Add(sc, e.GetToken().Pos(), constraints.Unary{Op: e.Op, Operand: operand.Type, Result: result})
	return Result{Type: result}
}

func (b *Builder) checkBinary(sc *scope.Scope, e *ast.BinaryExpression) Result {
	switch e.Op {
	case token.AND:
		return b.checkAnd(sc, e)
	case token.OR:
		return b.checkOr(sc, e)
	case token.EQ, token.NEQ:
		return b.checkEquality(sc, e)
	default:
		left := b.check(sc, e.Left, nil, false)
		right := b.check(sc, e.Right, nil, false)
		result := b.Arena.FreshType(sc.ID())
		b.Constraints.Add(sc, e.GetToken().Pos(), constraints.Binary{
			Op: e.Op, Left: left.Type, Right: right.Type, Result: result,
			AstLeft: e.Left, AstRight: e.Right,
		})
		return Result{Type: result}
	}
}

// checkAnd implements `a and b`: b is checked under a's truthy refinement,
// and the expression's own refinement is the conjunction of both sides'
// (so `a and b` only narrows a reader's subsequent use of either
// definition when both a and the whole expression were truthy).
func (b *Builder) checkAnd(sc *scope.Scope, e *ast.BinaryExpression) Result {
	left := b.check(sc, e.Left, nil, false)
	rightScope := sc
	if left.Refinement != nil {
		rightScope = b.Tree.ChildScope(e.Right, sc)
		refinement.ApplyRefinements(b.Arena, rightScope, b.Graph, left.Refinement, true)
	}
	right := b.check(rightScope, e.Right, nil, false)
	resultTy := b.Arena.AddType(arena.Union{Parts: []arena.TypeId{left.Type, right.Type}})
	return Result{Type: resultTy, Refinement: refinement.And(left.Refinement, right.Refinement)}
}

// checkOr implements `a and b`'s dual: b is checked under a's falsy
// refinement, and the expression's refinement is the disjunction of both
// sides' (either one being truthy makes the whole expression truthy).
func (b *Builder) checkOr(sc *scope.Scope, e *ast.BinaryExpression) Result {
	left := b.check(sc, e.Left, nil, false)
	rightScope := sc
	if left.Refinement != nil {
		rightScope = b.Tree.ChildScope(e.Right, sc)
		refinement.ApplyRefinements(b.Arena, rightScope, b.Graph, left.Refinement, false)
	}
	right := b.check(rightScope, e.Right, nil, false)
	resultTy := b.Arena.AddType(arena.Union{Parts: []arena.TypeId{left.Type, right.Type}})
	return Result{Type: resultTy, Refinement: refinement.Or(left.Refinement, right.Refinement)}
}

// typeGuardKinds maps the string literal a `type(x) == "..."` guard
// compares against to the primitive kind it discriminates to. "userdata"
// and "vector" both discriminate to never: CGB has no further information
// to narrow a userdata/vector value with, and leaves disambiguating them
// to whatever downstream semantics the solver eventually grows
// (spec.md's explicit instruction to not guess further here).
var typeGuardKinds = map[string]arena.PrimitiveKind{
	"nil":      arena.PrimNil,
	"boolean":  arena.PrimBoolean,
	"number":   arena.PrimNumber,
	"string":   arena.PrimString,
	"thread":   arena.PrimThread,
	"function": arena.PrimFunction,
	"table":    arena.PrimTable,
	"userdata": arena.PrimNever,
	"vector":   arena.PrimNever,
}

// checkEquality implements `==`/`~=` (spec.md §4.6). A `type(x) == "kind"`
// or `typeof(x) == "kind"` shape takes priority and yields that single
// discriminant proposition outright. Otherwise this is a plain comparison:
// propositions are emitted in both directions (def(lhs) discriminated to
// rhs's type, def(rhs) discriminated to lhs's type) and combined by
// Equivalence — deliberately not left/right's own refinements (a call's
// truthiness or argument-discriminant propositions say nothing about
// whether it equals the other side).
func (b *Builder) checkEquality(sc *scope.Scope, e *ast.BinaryExpression) Result {
	left := b.check(sc, e.Left, nil, false)
	right := b.check(sc, e.Right, nil, true)
	boolTy := b.Arena.AddType(arena.Primitive{Kind: arena.PrimBoolean})

	ref := b.typeGuardProposition(sc, e.Left, e.Right)
	if ref == nil {
		ref = b.typeGuardProposition(sc, e.Right, e.Left)
	}
	if ref == nil {
		ref = refinement.Equiv(
			b.literalEqualityProposition(e.Left, right.Type),
			b.literalEqualityProposition(e.Right, left.Type),
		)
	}

	if e.Op == token.NEQ {
		ref = refinement.Not(ref)
	}
	return Result{Type: boolTy, Refinement: ref}
}

// typeGuardProposition recognizes `type(subject) == "kind"`/`typeof(subject)
// == "kind"` on one side of an equality and, if subject has a def, returns
// a Proposition discriminating it to that primitive kind.
func (b *Builder) typeGuardProposition(sc *scope.Scope, guardSide, litSide ast.Expression) refinement.Refinement {
	call, ok := guardSide.(*ast.CallExpression)
	if !ok || len(call.Args) != 1 {
		return nil
	}
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || (callee.Name != "type" && callee.Name != "typeof") {
		return nil
	}
	lit, ok := litSide.(*ast.StringLiteral)
	if !ok {
		return nil
	}
	kind, ok := typeGuardKinds[lit.Value]
	if !ok {
		return nil
	}
	def, ok := b.Graph.GetDef(call.Args[0])
	if !ok {
		return nil
	}
	discTy := b.Arena.AddType(arena.Primitive{Kind: kind})
	if kind == arena.PrimBoolean && b.Config.LegacyBooleanGuardDiscriminatesThread {
		discTy = b.Arena.AddType(arena.Primitive{Kind: arena.PrimThread})
	}
	return refinement.NewProposition(def, discTy)
}

// literalEqualityProposition handles one side of `x == y`: if side is an
// identifier or index expression with a def, it returns a Proposition
// discriminating side to litTy, the other operand's checked type (a
// literal's singleton type when the other side is a literal).
func (b *Builder) literalEqualityProposition(side ast.Expression, litTy arena.TypeId) refinement.Refinement {
	def, ok := b.Graph.GetDef(side)
	if !ok {
		return nil
	}
	switch side.(type) {
	case *ast.Identifier, *ast.IndexName, *ast.IndexExpr:
	default:
		return nil
	}
	return refinement.NewProposition(def, litTy)
}

func (b *Builder) checkCallSingle(sc *scope.Scope, e *ast.CallExpression) Result {
	res := b.checkCallPack(sc, e)
	ty := b.Arena.AddType(arena.Primitive{Kind: arena.PrimAny})
	if p, ok := b.Arena.FollowTypePack(res.Pack).(arena.Pack); ok && len(p.Head) > 0 {
		ty = p.Head[0]
	}
	var ref refinement.Refinement
	if len(res.Refinements) > 0 {
		ref = refinement.NewVariadic(res.Refinements)
	}
	return Result{Type: ty, Refinement: ref}
}

// isCallTailExpr reports whether e expands to however many values it
// produces when it's the last entry of an argument/value list, rather
// than being truncated to one.
func isCallTailExpr(e ast.Expression) bool {
	switch e.(type) {
	case *ast.CallExpression, *ast.VarargExpression:
		return true
	default:
		return false
	}
}

// extendArgPack mints length fresh types into pack's head, in place. pack
// must still be a Free or Blocked pack (true for the expectedArgPack this
// is used on, which is always a just-allocated free pack) — later
// unification resolves these fresh types against whatever the callee's
// real argument types turn out to be.
func (b *Builder) extendArgPack(sc *scope.Scope, pack arena.TypePackId, length int) []arena.TypeId {
	if length == 0 {
		return nil
	}
	target := b.Arena.FollowPack(pack)
	switch b.Arena.GetTypePack(target).(type) {
	case arena.FreePack, arena.BlockedPack:
	default:
		return nil
	}
	head := make([]arena.TypeId, length)
	for i := range head {
		head[i] = b.Arena.FreshType(sc.ID())
	}
	tail := b.Arena.FreshTypePack(sc.ID())
	b.Arena.EmplaceTypePack(target, arena.Pack{Head: head, Tail: &tail})
	return head
}

// checkArgsAgainstExpected checks each argument against its expected type
// from expectedHead (if any), the same truncate-all-but-last/expand-last
// shape checkExprList uses, and reports each argument's own check
// refinement alongside its type (needed for assert's refinement
// propagation below) along with the trailing pack's tail.
func (b *Builder) checkArgsAgainstExpected(sc *scope.Scope, args []ast.Expression, expectedHead []arena.TypeId) ([]arena.TypeId, []refinement.Refinement, *arena.TypePackId) {
	if len(args) == 0 {
		return nil, nil, nil
	}
	head := make([]arena.TypeId, 0, len(args))
	refs := make([]refinement.Refinement, 0, len(args))
	expectedAt := func(i int) *arena.TypeId {
		if i < len(expectedHead) {
			return &expectedHead[i]
		}
		return nil
	}

	last := len(args) - 1
	for i, a := range args[:last] {
		res := b.check(sc, a, expectedAt(i), false)
		head = append(head, res.Type)
		refs = append(refs, res.Refinement)
	}

	if isCallTailExpr(args[last]) {
		packRes := b.checkPack(sc, args[last], nil)
		if p, ok := b.Arena.FollowTypePack(packRes.Pack).(arena.Pack); ok {
			head = append(head, p.Head...)
			refs = append(refs, packRes.Refinements...)
			return head, refs, p.Tail
		}
		return head, refs, &packRes.Pack
	}

	res := b.check(sc, args[last], expectedAt(last), false)
	head = append(head, res.Type)
	refs = append(refs, res.Refinement)
	return head, refs, nil
}

// checkCallPack implements the Call rule (spec.md §4.6): the callee's
// type is instantiated (generics stripped for this call site), the
// instantiated type is checked against a synthesized Function shape whose
// argument pack is then extracted and fed back into argument checking —
// the extractArgs constraint is what lets argument checking see expected
// types before it has to dive into each argument's own body. The result
// is a Blocked pack the solver fills in once it resolves the callee,
// alongside a Variadic refinement built from a discriminant proposition
// per argument with a known definition.
//
// `setmetatable(t, mt)` and `assert(cond, ...)` are special-cased exactly
// as named calls: setmetatable never emits a FunctionCall at all (the
// result is a fabricated Metatable type, and it rebinds the target
// variable), and assert additionally applies its first argument's
// refinement to the rest of the enclosing block.
func (b *Builder) checkCallPack(sc *scope.Scope, e *ast.CallExpression) PackResult {
	exprArgs := make([]ast.Expression, 0, len(e.Args)+1)
	if e.Method != "" {
		exprArgs = append(exprArgs, e.Callee)
	}
	exprArgs = append(exprArgs, e.Args...)

	var returnRefinements []refinement.Refinement
	discriminants := make([]arena.TypeId, 0, len(exprArgs))
	for _, arg := range exprArgs {
		if def, ok := b.Graph.GetDef(arg); ok {
			blocked := b.Arena.AddType(arena.Blocked{})
			returnRefinements = append(returnRefinements, refinement.NewProposition(def, blocked))
			discriminants = append(discriminants, blocked)
		}
	}

	calleeStart := b.Constraints.Checkpoint()
	calleeRes := b.check(sc, e.Callee, nil, false)
	fnTy := calleeRes.Type
	objTy := fnTy

	if e.Method != "" {
		result := b.Arena.FreshType(sc.ID())
		freeTable := b.Arena.AddType(arena.Table{Props: map[string]arena.Prop{e.Method: {Type: result}}, State: arena.TableFree, Scope: sc.ID()})
		b.Constraints.Add(sc, e.GetToken().Pos(), constraints.Subtype{Sub: fnTy, Super: freeTable})
		fnTy = result
	}
	calleeEnd := b.Constraints.Checkpoint()
	calleeDeps := b.Constraints.Slice(calleeStart, calleeEnd)

	expectedArgPack := b.Arena.FreshTypePack(sc.ID())
	expectedRetPack := b.Arena.FreshTypePack(sc.ID())
	expectedFn := b.Arena.AddType(arena.Function{ArgPack: expectedArgPack, RetPack: expectedRetPack})

	instantiated := b.Arena.AddType(arena.Blocked{})
	b.Constraints.Add(sc, e.GetToken().Pos(), constraints.Instantiation{Target: instantiated, Source: fnTy})
	extractArgs := b.Constraints.Add(sc, e.GetToken().Pos(), constraints.Subtype{Sub: instantiated, Super: expectedFn}, calleeDeps...)

	selfOffset := 0
	if e.Method != "" {
		selfOffset = 1
	}
	expectedHead := b.extendArgPack(sc, expectedArgPack, len(e.Args)+selfOffset)
	if len(expectedHead) >= selfOffset {
		expectedHead = expectedHead[selfOffset:]
	}

	argCheckpointStart := b.Constraints.Checkpoint()
	argHead, argRefs, argTail := b.checkArgsAgainstExpected(sc, e.Args, expectedHead)
	if e.Method != "" {
		argHead = append([]arena.TypeId{objTy}, argHead...)
	}
	argCheckpointEnd := b.Constraints.Checkpoint()
	b.Constraints.ForEachConstraint(argCheckpointStart, argCheckpointEnd, func(c *constraints.Constraint) {
		c.Dependencies = append(c.Dependencies, extractArgs)
	})

	if e.Method == "" {
		if callee, ok := e.Callee.(*ast.Identifier); ok && callee.Name == "setmetatable" && len(argHead) >= 2 {
			resultTy := b.Arena.AddType(arena.Metatable{Target: argHead[0], MetatableTy: argHead[1]})
			if targetExpr, ok := e.Args[0].(*ast.Identifier); ok {
				sc.DefineValue(targetExpr.Name, resultTy, e.GetToken().Pos())
				if def, ok := b.Graph.GetDef(e.Args[0]); ok {
					sc.SetRefinement(def, resultTy)
				}
			}
			return PackResult{
				Pack:        b.Arena.AddTypePack(arena.Pack{Head: []arena.TypeId{resultTy}}),
				Refinements: returnRefinements,
			}
		}
		if callee, ok := e.Callee.(*ast.Identifier); ok && callee.Name == "assert" && len(argRefs) > 0 && argRefs[0] != nil {
			refinement.ApplyRefinements(b.Arena, sc, b.Graph, argRefs[0], true)
		}
	}

	rets := b.Arena.AddTypePack(arena.BlockedPack{})
	argPack := b.Arena.AddTypePack(arena.Pack{Head: argHead, Tail: argTail})
	b.Constraints.Add(sc, e.GetToken().Pos(), constraints.FunctionCall{
		Fn: fnTy, Args: argPack, Rets: rets, CallAst: e, Discriminants: discriminants,
	}, b.Constraints.Slice(calleeEnd, argCheckpointEnd)...)

	return PackResult{Pack: rets, Refinements: returnRefinements}
}
