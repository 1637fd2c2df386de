package builtin

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/mcmacros/macro"
)

const summonStore = "execute unless entity 0-0-0-0-0 run summon minecraft:armor_stand ~ ~ ~ " +
	"{UUID: [I; 0, 0, 0, 0], Marker: 1b, Invisible: 1b}\n"

func scoreboardScript(lines ...string) []string {
	return append([]string{
		"namespace demo",
		"mcfunction init load",
		"require scoreboard",
		"require scoreboard",
		"mcfunction main",
	}, lines...)
}

func TestScoreboard_Arithmetic(t *testing.T) {
	cx := mustCompile(t, scoreboardScript(
		"var hp",
		"op @s hp += 5",
		"op @s hp *= @p hp",
		"op @s hp -= 5",
		"abs @s hp",
		"negate @s hp",
		"const ten 10",
		"function helper",
		"function other:thing",
		"greeting hello world",
	)...)

	want := map[string]string{
		"demo:init": summonStore +
			"scoreboard objectives add hp dummy\n" +
			"scoreboard objectives add mcm.const.5 dummy\n" +
			"scoreboard players set 0-0-0-0-0 mcm.const.5 5\n" +
			"scoreboard objectives add mcm.const.-1 dummy\n" +
			"scoreboard players set 0-0-0-0-0 mcm.const.-1 -1\n" +
			"scoreboard objectives add mcm.const.ten dummy\n",
		"demo:main": "scoreboard players operation @s hp += 0-0-0-0-0 mcm.const.5\n" +
			"scoreboard players operation @s hp *= @p hp\n" +
			"scoreboard players operation @s hp -= 0-0-0-0-0 mcm.const.5\n" +
			"execute if score @s hp matches ..-1 run " +
			"scoreboard players operation @s hp *= 0-0-0-0-0 mcm.const.-1\n" +
			"scoreboard players operation @s hp *= 0-0-0-0-0 mcm.const.-1\n" +
			"scoreboard players set 0-0-0-0-0 mcm.const.ten 10\n" +
			"function demo:helper\n" +
			"function other:thing\n" +
			"say hello world\n",
	}

	if diff := cmp.Diff(want, bodies(cx)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreboard_Repeat(t *testing.T) {
	cx := mustCompile(t, scoreboardScript(
		"repeat 3",
		"  say hi",
		"  repeat 2",
		"    say inner",
		"say done",
	)...)

	want := map[string]string{
		"demo:init": summonStore +
			"scoreboard objectives add mcm.repeat.0 dummy\n" +
			"scoreboard objectives add mcm.repeat.1 dummy\n",
		"demo:main": "scoreboard players set 0-0-0-0-0 mcm.repeat.0 0\n" +
			"function demo:anon/0_0\n" +
			"say done\n",
		"demo:anon/0_0": "say hi\n" +
			"scoreboard players set 0-0-0-0-0 mcm.repeat.1 0\n" +
			"function demo:anon/0_1\n" +
			"scoreboard players add 0-0-0-0-0 mcm.repeat.0 1\n" +
			"execute if score 0-0-0-0-0 mcm.repeat.0 matches ..2 run function demo:anon/0_0\n",
		"demo:anon/0_1": "say inner\n" +
			"scoreboard players add 0-0-0-0-0 mcm.repeat.1 1\n" +
			"execute if score 0-0-0-0-0 mcm.repeat.1 matches ..1 run function demo:anon/0_1\n",
	}

	if diff := cmp.Diff(want, bodies(cx)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreboard_CompileTimeLoops(t *testing.T) {
	cx := mustCompile(t, scoreboardScript(
		"exp-repeat 2",
		"  say ${count}",
		"exp-repeat 3 5",
		"  say ${count}",
		`exp-foreach ["a", "b"]`,
		"  say ${index} ${item} ${count}",
		"exp-foreach [{name: x, hp: 3}]",
		"  say ${item.name} ${item.hp}",
		"exp-repeat 0",
		"  say never",
	)...)

	want := "say 0\nsay 1\n" +
		"say 3\nsay 4\n" +
		"say 0 a 1\nsay 1 b 2\n" +
		"say x 3\n"

	if got := bodies(cx)["demo:main"]; got != want {
		t.Errorf("main =\n%s\nwant\n%s", got, want)
	}
}

func TestScoreboard_Foreach(t *testing.T) {
	cx := mustCompile(t, scoreboardScript(
		"foreach @a[tag=player]",
		"  say hi",
	)...)

	got := bodies(cx)
	if got["demo:main"] != "execute as @a[tag=player] at @s run function demo:anon/0_0\n" {
		t.Errorf("main = %q", got["demo:main"])
	}

	if got["demo:anon/0_0"] != "say hi\n" {
		t.Errorf("anon = %q", got["demo:anon/0_0"])
	}
}

func TestScoreboard_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"op arity", scoreboardScript("op @s hp +="), macro.ErrArgument},
		{"op constant", scoreboardScript("op @s hp += five"), macro.ErrArgument},
		{"repeat count", scoreboardScript("repeat 0", "  say x"), macro.ErrArgument},
		{"repeat type", scoreboardScript("repeat x", "  say x"), macro.ErrArgument},
		{"foreach selector", scoreboardScript("foreach", "  say x"), macro.ErrArgument},
		{"exp-foreach object", scoreboardScript("exp-foreach {a: 1}", "  say x"), macro.ErrArgument},
		{"no initial function", []string{"require scoreboard"}, macro.ErrModuleLoad},
		{"no initial function cause", []string{"require scoreboard"}, macro.ErrNoInitialFunction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compile(t, tt.lines...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
