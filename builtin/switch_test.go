package builtin

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "5", want: Range{5, 5}},
		{in: "-3", want: Range{-3, -3}},
		{in: "1..9", want: Range{1, 9}},
		{in: "10..", want: Range{10, math.MaxInt}},
		{in: "..-1", want: Range{math.MinInt, -1}},
		{in: "4..4", want: Range{4, 4}},
		{in: "..", wantErr: true},
		{in: "9..1", wantErr: true},
		{in: "a..b", wantErr: true},
		{in: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRange(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrRange) {
					t.Errorf("ParseRange(%q) err = %v, want %v", tt.in, err, ErrRange)
				}

				return
			}

			if err != nil {
				t.Fatalf("ParseRange(%q): %v", tt.in, err)
			}

			if got != tt.want {
				t.Errorf("ParseRange(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRange_String(t *testing.T) {
	for _, s := range []string{"5", "1..9", "10..", "..-1"} {
		r, err := ParseRange(s)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", s, err)
		}

		if got := r.String(); got != s {
			t.Errorf("String() = %q, want %q", got, s)
		}
	}

	if got := (Range{2, 9}).Union(Range{10, math.MaxInt}).String(); got != "2.." {
		t.Errorf("Union = %q, want %q", got, "2..")
	}

	if r := (Range{2, 9}); !r.Contains(2) || !r.Contains(9) || r.Contains(10) {
		t.Errorf("%v Contains is wrong", r)
	}
}

func TestBuildDispatchTable(t *testing.T) {
	table, err := BuildDispatchTable(2, []string{"0", "1", "2..9", "10.."})
	if err != nil {
		t.Fatalf("BuildDispatchTable: %v", err)
	}

	want := DispatchTable{
		"0":    {Ranges: []string{"0..1", "0"}, Exits: 0},
		"1":    {Ranges: []string{"1"}, Exits: 1},
		"2..9": {Ranges: []string{"2..", "2..9"}, Exits: 0},
		"10..": {Ranges: []string{"10.."}, Exits: 1},
	}

	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDispatchTable_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fanout int
		labels []string
		want   error
	}{
		{"fanout", 1, []string{"1"}, ErrFanout},
		{"duplicate", 2, []string{"1", "1"}, ErrDuplicateCase},
		{"descending", 2, []string{"5", "1"}, ErrCaseOrder},
		{"overlap", 2, []string{"1..5", "5"}, ErrCaseOrder},
		{"after unbounded", 2, []string{"1..", "9"}, ErrCaseOrder},
		{"bad label", 2, []string{"one"}, ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildDispatchTable(tt.fanout, tt.labels); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestBuildDispatchTable_Balanced emits cases in order, tracking how many
// guard functions are open, and checks that every case body runs inside at
// least one guard, that guard depth is logarithmic, and that every function
// opened is closed.
func TestBuildDispatchTable_Balanced(t *testing.T) {
	for fanout := 2; fanout <= 5; fanout++ {
		for n := 1; n <= 40; n++ {
			labels := make([]string, n)
			for i := range labels {
				labels[i] = Range{Min: i * 10, Max: i*10 + 5}.String()
			}

			table, err := BuildDispatchTable(fanout, labels)
			if err != nil {
				t.Fatalf("fanout %d, n %d: %v", fanout, n, err)
			}

			limit := 0
			for p := 1; p < n; p *= fanout {
				limit++
			}

			limit = max(limit, 1)
			depth := 0

			for _, label := range labels {
				part := table[label]
				if len(part.Ranges) > limit {
					t.Errorf("fanout %d, n %d: %s has %d guards, limit %d",
						fanout, n, label, len(part.Ranges), limit)
				}

				depth += len(part.Ranges)
				if depth < 1 {
					t.Fatalf("fanout %d, n %d: %s body outside any guard", fanout, n, label)
				}

				depth -= part.Exits + 1
				if depth < 0 {
					t.Fatalf("fanout %d, n %d: %s closes too many functions", fanout, n, label)
				}
			}

			if depth != 0 {
				t.Errorf("fanout %d, n %d: %d functions left open", fanout, n, depth)
			}
		}
	}
}

func TestSwitch_Compile(t *testing.T) {
	cx := mustCompile(t,
		"namespace demo",
		"mcfunction main",
		"switch @s sc",
		"  case 0",
		"    say zero",
		"  case 1",
		"    say one",
		"  case 2..9",
		"    say ${range}",
		`  case "10.."`,
		"    say big",
		"say after",
	)

	guard := "execute if score @s sc matches "
	want := map[string]string{
		"demo:main": guard + "0..1 run function demo:anon/0_0\n" +
			guard + "2.. run function demo:anon/0_3\n" +
			"say after\n",
		"demo:anon/0_0": guard + "0 run function demo:anon/0_1\n" +
			guard + "1 run function demo:anon/0_2\n",
		"demo:anon/0_1": "say zero\n",
		"demo:anon/0_2": "say one\n",
		"demo:anon/0_3": guard + "2..9 run function demo:anon/0_4\n" +
			guard + "10.. run function demo:anon/0_5\n",
		"demo:anon/0_4": "say 2..9\n",
		"demo:anon/0_5": "say big\n",
	}

	if diff := cmp.Diff(want, bodies(cx)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	if cx.InAnonymousFunction() {
		t.Error("function stack not balanced after switch")
	}
}

func TestSwitch_CaseWithoutBlock(t *testing.T) {
	cx := mustCompile(t,
		"namespace demo",
		"mcfunction main",
		"switch @s sc 3",
		"  case 1",
		"  case 2",
		"    say two",
		"  case 3",
		"say after",
	)

	if cx.InAnonymousFunction() {
		t.Fatal("function stack not balanced after switch")
	}

	got := bodies(cx)
	if got["demo:anon/0_0"] != "" || got["demo:anon/0_1"] != "say two\n" {
		t.Errorf("bodies = %v", got)
	}
}

func TestSwitch_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"non-case child", []string{"switch @s sc", "  say hi"}, ErrSwitchChild},
		{"fanout", []string{"switch @s sc 1", "  case 1"}, ErrFanout},
		{"order", []string{"switch @s sc", "  case 3", "  case 1"}, ErrCaseOrder},
		{"outside", []string{"case 1", "  say hi"}, ErrCaseOutsideSwitch},
		{"nested case", []string{
			"switch @s sc", "  case 1", "    case 1", "      say hi",
		}, ErrCaseOutsideSwitch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := append([]string{"mcfunction demo:main"}, tt.lines...)
			if _, err := compile(t, lines...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
