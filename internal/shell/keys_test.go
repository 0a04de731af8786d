package shell

import (
	"bytes"
	"testing"
)

func decodeAll(t *testing.T, input string) []key {
	t.Helper()
	out := make(chan key, 64)
	done := make(chan struct{})
	defer close(done)
	readKeys(bytes.NewReader([]byte(input)), out, done)
	var keys []key
	for k := range out {
		keys = append(keys, k)
	}
	return keys
}

func TestReadKeysDecodesControls(t *testing.T) {
	keys := decodeAll(t, "ab\r\n\x7f\x1b[A\x1b[B\x03\x04é")
	want := []key{
		{kind: keyRune, r: 'a'},
		{kind: keyRune, r: 'b'},
		{kind: keyEnter},
		{kind: keyBackspace},
		{kind: keyUp},
		{kind: keyDown},
		{kind: keyCtrlC},
		{kind: keyCtrlD},
		{kind: keyRune, r: 'é'},
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %+v", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %+v, got %+v", i, want[i], keys[i])
		}
	}
}

func TestReadKeysLoneEscape(t *testing.T) {
	keys := decodeAll(t, "\x1b")
	if len(keys) != 1 || keys[0].kind != keyEscape {
		t.Fatalf("expected lone escape, got %+v", keys)
	}
}

func TestReadKeysStopsWhenDone(t *testing.T) {
	out := make(chan key)
	done := make(chan struct{})
	close(done)
	readKeys(bytes.NewReader([]byte("abc")), out, done)
	if _, ok := <-out; ok {
		t.Fatalf("expected closed channel")
	}
}
