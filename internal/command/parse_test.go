package command

import "testing"

func TestParseKeepsArgumentCase(t *testing.T) {
	cmd, ok := Parse("  CD  C0derhin0-WP.com  ")
	if !ok {
		t.Fatalf("expected parsed command")
	}
	if cmd.Name != "cd" {
		t.Fatalf("expected lowercased name, got %q", cmd.Name)
	}
	if cmd.Remainder != "C0derhin0-WP.com" {
		t.Fatalf("expected remainder in original case, got %q", cmd.Remainder)
	}
	if cmd.Key != "cd c0derhin0-wp.com" {
		t.Fatalf("unexpected key %q", cmd.Key)
	}
}

func TestParseCollapsesKeyWhitespace(t *testing.T) {
	cmd, ok := Parse("Sudo   APT install\tcoffee")
	if !ok {
		t.Fatalf("expected parsed command")
	}
	if cmd.Key != "sudo apt install coffee" {
		t.Fatalf("unexpected key %q", cmd.Key)
	}
	if len(cmd.Args) != 3 {
		t.Fatalf("expected 3 args, got %v", cmd.Args)
	}
}

func TestParseBlank(t *testing.T) {
	if _, ok := Parse(" \t "); ok {
		t.Fatalf("expected blank input to be rejected")
	}
}
