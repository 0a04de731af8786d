package shell

import "testing"

func TestHistoryNavigation(t *testing.T) {
	var h history
	for _, line := range []string{"a", "b", "c"} {
		h.Add(line)
	}
	var got string
	for i := 0; i < 3; i++ {
		got, _ = h.Up()
	}
	if got != "a" {
		t.Fatalf("expected oldest entry, got %q", got)
	}
	if got, _ = h.Up(); got != "a" {
		t.Fatalf("expected clamp at oldest, got %q", got)
	}
	for i := 0; i < 3; i++ {
		got, _ = h.Down()
	}
	if got != "" {
		t.Fatalf("expected empty line past newest, got %q", got)
	}
	if _, ok := h.Down(); ok {
		t.Fatalf("expected no-op past the end")
	}
}

func TestHistoryEmpty(t *testing.T) {
	var h history
	if _, ok := h.Up(); ok {
		t.Fatalf("expected no entry")
	}
	if _, ok := h.Down(); ok {
		t.Fatalf("expected no entry")
	}
}

func TestInputLineWideRunes(t *testing.T) {
	var l inputLine
	l.Append('a')
	l.Append('日')
	if l.Width() != 3 {
		t.Fatalf("expected width 3, got %d", l.Width())
	}
	r, ok := l.Backspace()
	if !ok || r != '日' {
		t.Fatalf("expected wide rune removed, got %q", r)
	}
	if eraseCells(2) != "\b \b\b \b" {
		t.Fatalf("unexpected erase sequence")
	}
}
