package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/mgomes/vibecore/core"
)

func evalLine(t *testing.T, wb *Workbench, src string) core.Value {
	t.Helper()
	v, err := wb.Eval(src)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return v
}

func TestWorkbenchExpressions(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"1 << 2 + 1", "8"},
		{"7 / -2", "-4"},
		{"-7 % 3", "2"},
		{"-2 ** 2", "-4"},
		{"2 ** 64", "18446744073709551616"},
		{"9223372036854775807 + 1", "9223372036854775808"},
		{"-9223372036854775808", "-9223372036854775808"},
		{"1.5 * 2", "3.0"},
		{"[1, 2] == [1, 2.0]", "true"},
		{"[1, 2].eql?([1, 2.0])", "false"},
		{"1 <=> 2", "-1"},
		{"!nil", "true"},
		{`"a" + 'b'`, `"ab"`},
		{"[1, 2, 3].inject(:+)", "6"},
		{"[3, 1, 2].sort", "[1, 2, 3]  # int32, len 3"},
		{"[1, 2, 3].map(&:to_f)", "[1.0, 2.0, 3.0]  # float64, len 3"},
		{"[1, 2, 3].map { |x| x * 2 }", "[2, 4, 6]  # int32, len 3"},
		{"[1, 2, 3].each { |x| break x * 10 }", "10"},
		{"[1, 2, 3, 4].select { |x| x % 2 == 0 }", "[2, 4]  # int32, len 2"},
		{"[[1, 2], [3, 4]].map { |a, b| a + b }", "[3, 7]  # int32, len 2"},
		{"Array.new(3, 0)", "[0, 0, 0]  # int32, len 3"},
		{"Array.new(3) { |i| i * 1.5 }", "[0.0, 1.5, 3.0]  # float64, len 3"},
		{"Hash.new(5)[:missing]", "5"},
		{"{a: 1, 'b' => 2}", `{:a=>1, "b"=>2}  # pairs, size 2`},
		{"{}", "{}  # empty, size 0"},
		{"[]", "[]  # empty, len 0"},
		{"[1, [2, [3]]].flatten", "[1, 2, 3]  # int32, len 3"},
		{"[1, 2] * ', '", `"1, 2"`},
		{"[65, 66].pack('C*')", `"AB"`},
	}
	for _, tc := range cases {
		wb := NewWorkbench(nil)
		got := describe(evalLine(t, wb, tc.src))
		if got != tc.want {
			t.Fatalf("%s => %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestWorkbenchVariablesAndAssignment(t *testing.T) {
	wb := NewWorkbench(nil)
	evalLine(t, wb, "a = [1, 2, 3]")
	evalLine(t, wb, "a[1] = 'x'")
	if got := describe(evalLine(t, wb, "a")); got != `[1, "x", 3]  # boxed, len 3` {
		t.Fatalf("after index assign: %s", got)
	}
	evalLine(t, wb, "a[0, 2] = [7, 8, 9]")
	if got := evalLine(t, wb, "a").Inspect(); got != "[7, 8, 9, 3]" {
		t.Fatalf("after range assign: %s", got)
	}
	if got := evalLine(t, wb, "_").Inspect(); got != "[7, 8, 9, 3]" {
		t.Fatalf("_ should hold the last result, got %s", got)
	}

	evalLine(t, wb, "x = 5; [1, 2].each { |x| x }")
	if got := evalLine(t, wb, "x").Int(); got != 5 {
		t.Fatalf("block parameter leaked: x = %d", got)
	}
	evalLine(t, wb, "[1].each { |fresh| fresh }")
	if _, ok := wb.Lookup("fresh"); ok {
		t.Fatalf("block parameter should not outlive the block")
	}

	evalLine(t, wb, "h = {}")
	for i := 0; i < 9; i++ {
		evalLine(t, wb, "h[h.size] = h.size * h.size")
	}
	if got := describe(evalLine(t, wb, "h[5]")); got != "25" {
		t.Fatalf("h[5] = %s", got)
	}
	if got := evalLine(t, wb, "h.keys").Inspect(); got != "[0, 1, 2, 3, 4, 5, 6, 7, 8]" {
		t.Fatalf("h.keys = %s", got)
	}
	if v, _ := wb.Lookup("h"); v.Map().Kind() != core.StorageTable {
		t.Fatalf("nine keys should be in the table tier, got %s", v.Map().Kind())
	}
}

func TestWorkbenchErrors(t *testing.T) {
	wb := NewWorkbench(nil)
	evalLine(t, wb, "a = [1, 2, 3]")
	cases := []struct {
		src      string
		sentinel error
		contains string
	}{
		{"a[10] = 1", core.ErrUnsupportedGap, "IndexError"},
		{"a[-10] = 1", core.ErrIndexTooSmall, "IndexError"},
		{"a[0, -1] = 1", core.ErrNegativeLength, "negative length"},
		{"1 / 0", core.ErrZeroDivision, "ZeroDivisionError"},
		{"a.frobnicate", core.ErrNoMethod, "NoMethodError"},
		{"{a: 1}.fetch(:b)", core.ErrKeyNotFound, "KeyError"},
		{"nope", nil, "undefined local variable"},
		{"1 +", nil, "syntax error"},
		{"break 1", nil, "outside of a block"},
		{"Array", nil, "Array.new"},
	}
	for _, tc := range cases {
		_, err := wb.Eval(tc.src)
		if err == nil {
			t.Fatalf("%s: expected error", tc.src)
		}
		if tc.sentinel != nil && !errors.Is(err, tc.sentinel) {
			t.Fatalf("%s: expected %v, got %v", tc.src, tc.sentinel, err)
		}
		if !strings.Contains(err.Error(), tc.contains) {
			t.Fatalf("%s: error %q does not mention %q", tc.src, err, tc.contains)
		}
	}
	if got := evalLine(t, wb, "a").Inspect(); got != "[1, 2, 3]" {
		t.Fatalf("failed writes mutated a: %s", got)
	}
}

func TestWorkbenchStats(t *testing.T) {
	wb := NewWorkbench(nil)
	if wb.Stats() != "no storage transitions" {
		t.Fatalf("fresh stats = %q", wb.Stats())
	}
	evalLine(t, wb, "a = [1, 2]")
	evalLine(t, wb, "a.push('s')")
	stats := wb.Stats()
	if !strings.Contains(stats, "empty -> int32: 1") || !strings.Contains(stats, "int32 -> boxed: 1") {
		t.Fatalf("unexpected stats:\n%s", stats)
	}
}

func TestLexerSymbolsAndLabels(t *testing.T) {
	toks, err := lex("h = {key: :val, :+ => &:to_s}")
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	kinds := []tokenKind{tokIdent, tokOp, tokOp, tokLabel, tokSymbol, tokOp, tokSymbol, tokOp, tokBlockArg, tokOp, tokEOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(kinds))
	}
	for i, kind := range kinds {
		if toks[i].kind != kind {
			t.Fatalf("token %d (%q) kind %d, want %d", i, toks[i].text, toks[i].kind, kind)
		}
	}
	if toks[6].text != "+" || toks[8].text != "to_s" {
		t.Fatalf("unexpected symbol texts %q %q", toks[6].text, toks[8].text)
	}
	if _, err := lex(`"unterminated`); err == nil {
		t.Fatalf("expected unterminated string error")
	}
}
