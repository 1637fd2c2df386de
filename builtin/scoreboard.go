package builtin

import (
	"fmt"
	"strconv"

	"github.com/ardnew/mcmacros/macro"
)

// StoreEntity is the UUID of the marker entity holding constant and loop
// counter scores.
const StoreEntity = "0-0-0-0-0"

// Scoreboard is the "scoreboard" module: score arithmetic helpers, loops
// unrolled at compile time, and loops run by the game.
var Scoreboard = &macro.Module{
	Name:   "scoreboard",
	Origin: "builtin",
	Init: func(cx *macro.Context) error {
		return cx.AppendInitialOnce("scoreboard:store",
			"execute unless entity", StoreEntity,
			"run summon minecraft:armor_stand ~ ~ ~ {UUID: [I; 0, 0, 0, 0], Marker: 1b, Invisible: 1b}")
	},
	Directives: map[string]macro.Directive{
		"var":         macro.CommandFunc(scoreVar, macro.ArgString),
		"const":       macro.CommandFunc(scoreConst, macro.ArgString, macro.ArgInt),
		"op":          macro.CommandFunc(scoreOp),
		"abs":         macro.CommandFunc(scoreAbs, macro.ArgString, macro.ArgString),
		"negate":      macro.CommandFunc(scoreNegate, macro.ArgString, macro.ArgString),
		"function":    macro.CommandFunc(function, macro.ArgString),
		"repeat":      repeat{},
		"exp-repeat":  expRepeat{},
		"foreach":     foreach{},
		"exp-foreach": expForeach{},
		"greeting":    macro.CommandFunc(greeting),
	},
}

func init() { macro.RegisterModule(Scoreboard) }

func constObjective(n int) string { return "mcm.const." + strconv.Itoa(n) }

// addConstant defines a score holding n on the store entity.
func addConstant(cx *macro.Context, n int) (string, error) {
	obj := constObjective(n)

	if _, err := cx.AddScore(obj); err != nil {
		return "", err
	}

	err := cx.AppendInitialOnce("const:"+obj,
		"scoreboard players set", StoreEntity, obj, strconv.Itoa(n))

	return obj, err
}

// var <objective>
func scoreVar(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "var <objective>"); err != nil {
		return err
	}

	_, err := cx.AddScore(args.String(0, ""))

	return err
}

// const <name> <value>
//
// Sets mcm.const.<name> on the store entity where the statement appears.
func scoreConst(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 2, "const <name> <value>"); err != nil {
		return err
	}

	obj := "mcm.const." + args.String(0, "")
	if _, err := cx.AddScore(obj); err != nil {
		return err
	}

	return cx.AppendLine("scoreboard players set", StoreEntity, obj, strconv.Itoa(args.Int(1, 0)))
}

// op <target> <objective> <operation> <source> <objective>
// op <target> <objective> <operation> <integer>
func scoreOp(cx *macro.Context, args macro.Args) error {
	raw := args.Raw()

	switch len(raw) {
	case 5:
		return cx.AppendLine(append([]string{"scoreboard players operation"}, raw...)...)

	case 4:
		n, err := strconv.Atoi(raw[3])
		if err != nil {
			return macro.ErrArgument.Wrapf("op: %q is not an integer", raw[3])
		}

		obj, err := addConstant(cx, n)
		if err != nil {
			return err
		}

		return cx.AppendLine("scoreboard players operation",
			raw[0], raw[1], raw[2], StoreEntity, obj)

	default:
		return macro.ErrArgument.Wrapf(
			"usage: op <target> <objective> <operation> (<source> <objective> | <integer>)")
	}
}

// abs <target> <objective>
func scoreAbs(cx *macro.Context, args macro.Args) error {
	return negateIf(cx, args, "abs", "..-1")
}

// negate <target> <objective>
func scoreNegate(cx *macro.Context, args macro.Args) error {
	return negateIf(cx, args, "negate", "")
}

func negateIf(cx *macro.Context, args macro.Args, name, matches string) error {
	if err := usage(args, 2, name+" <target> <objective>"); err != nil {
		return err
	}

	obj, err := addConstant(cx, -1)
	if err != nil {
		return err
	}

	target, score := args.String(0, ""), args.String(1, "")
	mul := fmt.Sprintf("scoreboard players operation %s %s *= %s %s", target, score, StoreEntity, obj)

	if matches == "" {
		return cx.AppendLine(mul)
	}

	return cx.AppendLine("execute if score", target, score, "matches", matches, "run", mul)
}

// function <[ns:]name>
//
// Calls a function, qualifying an unqualified name with the current
// namespace.
func function(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "function <[namespace:]name>"); err != nil {
		return err
	}

	ns, name, err := cx.SplitFunctionName(args.String(0, ""))
	if err != nil {
		return err
	}

	return cx.AppendLine(append([]string{"function", cx.ResolveFunction(ns, name)}, args.Rest(1)...)...)
}

// greeting <words...>
func greeting(cx *macro.Context, args macro.Args) error {
	return cx.AppendLine("say", args.Words())
}

type repeatDepth struct{}

// repeat <n> runs its block n times in game, as a self-calling anonymous
// function counting on the store entity. Nested repeats use distinct
// counters.
type repeat struct{}

func (repeat) ArgTypes() []macro.ArgType { return []macro.ArgType{macro.ArgInt} }

func (repeat) counter(cx *macro.Context) string {
	depth := 0
	if v, ok := cx.State(repeatDepth{}); ok {
		depth = v.(int)
	}

	return "mcm.repeat." + strconv.Itoa(depth)
}

func (r repeat) BlockBegin(cx *macro.Context, args macro.Args) error {
	if n := args.Int(0, 0); n < 1 {
		return macro.ErrArgument.Wrapf("repeat count must be positive, got %d", n)
	}

	obj := r.counter(cx)
	if _, err := cx.AddScore(obj); err != nil {
		return err
	}

	if err := cx.AppendLine("scoreboard players set", StoreEntity, obj, "0"); err != nil {
		return err
	}

	if err := cx.EnterAnonymousFunction(); err != nil {
		return err
	}

	v, _ := cx.State(repeatDepth{})
	depth, _ := v.(int)
	cx.SetState(repeatDepth{}, depth+1)

	return nil
}

func (r repeat) BlockEnd(cx *macro.Context, args macro.Args) error {
	// The block scope holds this repeat's depth+1; its own counter is one
	// below.
	v, _ := cx.State(repeatDepth{})
	obj := "mcm.repeat." + strconv.Itoa(v.(int)-1)

	if err := cx.AppendLine("scoreboard players add", StoreEntity, obj, "1"); err != nil {
		return err
	}

	last := strconv.Itoa(args.Int(0, 0) - 1)
	if err := cx.AppendLine("execute if score", StoreEntity, obj, "matches", ".."+last,
		"run function", cx.CurrentFunction()); err != nil {
		return err
	}

	cx.ExitFunction()

	return nil
}

type expRepeatState struct{ next, end int }

type expRepeatKey struct{}

// exp-repeat <end>
// exp-repeat <start> <end>
//
// Repeats its block at compile time with ${count} bound to start (default 0)
// through end-1.
type expRepeat struct{}

func (expRepeat) ArgTypes() []macro.ArgType {
	return []macro.ArgType{macro.ArgInt, macro.ArgInt}
}

func (expRepeat) BlockBegin(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "exp-repeat [<start>] <end>"); err != nil {
		return err
	}

	st := &expRepeatState{end: args.Int(0, 0)}
	if args.Len() > 1 {
		st.next, st.end = args.Int(0, 0), args.Int(1, 0)
	}

	cx.SetState(expRepeatKey{}, st)

	return nil
}

func (expRepeat) BlockRepeat(cx *macro.Context, _ macro.Args) (bool, error) {
	v, _ := cx.State(expRepeatKey{})
	st := v.(*expRepeatState)

	if st.next >= st.end {
		return false, nil
	}

	cx.Set("count", st.next)
	st.next++

	return true, nil
}

// foreach <selector...> runs its block as and at each selected entity.
type foreach struct{}

func (foreach) ArgTypes() []macro.ArgType { return nil }

func (foreach) BlockBegin(cx *macro.Context, args macro.Args) error {
	if err := usage(args, 1, "foreach <selector>"); err != nil {
		return err
	}

	if err := cx.Append("execute as", args.Words(), "at @s run "); err != nil {
		return err
	}

	return cx.EnterAnonymousFunction()
}

func (foreach) BlockEnd(cx *macro.Context, _ macro.Args) error {
	cx.ExitFunction()

	return nil
}

type expForeachKey struct{}

// exp-foreach <json array>
//
// Repeats its block at compile time for each element, with ${item} bound to
// the element, ${index} to its position, and ${count} to the position plus
// one.
type expForeach struct{}

func (expForeach) ArgTypes() []macro.ArgType { return []macro.ArgType{macro.ArgJSON} }

func (expForeach) BlockBegin(cx *macro.Context, args macro.Args) error {
	if _, ok := args.Value(0).([]any); !ok {
		return macro.ErrArgument.Wrapf("exp-foreach expects an array, got %q", args.Words())
	}

	cx.SetState(expForeachKey{}, new(int))

	return nil
}

func (expForeach) BlockRepeat(cx *macro.Context, args macro.Args) (bool, error) {
	items := args.Value(0).([]any)

	v, _ := cx.State(expForeachKey{})
	i := v.(*int)

	if *i >= len(items) {
		return false, nil
	}

	cx.Set("item", items[*i])
	cx.Set("index", *i)
	cx.Set("count", *i+1)
	*i++

	return true, nil
}
