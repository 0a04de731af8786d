package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/schema"
)

func newTestInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	return New(cat, Config{})
}

func interpret(in *Interpreter, line string) Result {
	return in.Interpret(context.Background(), line)
}

func expectError(t *testing.T, res Result, sentinel error, text string) {
	t.Helper()
	if !errors.Is(res.Err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, res.Err)
	}
	if res.Action != ActionType || res.Output.Style != schema.StyleError {
		t.Fatalf("expected typed error output, got %+v", res)
	}
	if len(res.Output.Lines) != 1 || res.Output.Lines[0] != text {
		t.Fatalf("expected %q, got %v", text, res.Output.Lines)
	}
}

func TestInterpretEmptyLine(t *testing.T) {
	in := newTestInterpreter(t)
	if res := interpret(in, "   "); res.Action != ActionPrompt {
		t.Fatalf("expected prompt, got %v", res.Action)
	}
}

func TestInterpretContentCommandAnyCase(t *testing.T) {
	in := newTestInterpreter(t)
	var first []string
	for _, input := range []string{"about", "ABOUT", "  About "} {
		res := interpret(in, input)
		if res.Action != ActionFetch || res.Pending == nil {
			t.Fatalf("%q: expected fetch, got %+v", input, res)
		}
		if res.Pending.Kind != PendingCommand || res.Pending.Name != "about" {
			t.Fatalf("%q: unexpected pending %+v", input, res.Pending)
		}
		if first == nil {
			first = res.Pending.Output.Lines
			continue
		}
		if strings.Join(first, "\n") != strings.Join(res.Pending.Output.Lines, "\n") {
			t.Fatalf("%q: output differs by case", input)
		}
	}
}

func TestInterpretMultiWordContentCommand(t *testing.T) {
	in := newTestInterpreter(t)
	res := interpret(in, "sudo apt install COFFEE")
	if res.Action != ActionFetch || res.Pending == nil {
		t.Fatalf("expected fetch, got %+v", res)
	}
	if res.Pending.Output.Effect != schema.EffectPackageInstall {
		t.Fatalf("expected package-install effect, got %q", res.Pending.Output.Effect)
	}
}

func TestInterpretUnknownKeepsOriginalInput(t *testing.T) {
	in := newTestInterpreter(t)
	expectError(t, interpret(in, "Hack The Planet"), schema.ErrUnknownCommand, "command not found: Hack The Planet")
}

func TestInterpretBuiltinsRejectArguments(t *testing.T) {
	in := newTestInterpreter(t)
	for _, input := range []string{"help me", "clear all", "pwd now", "exit 1", "share it", "ls -l"} {
		expectError(t, interpret(in, input), schema.ErrUnknownCommand, "command not found: "+input)
	}
}

func TestInterpretHelpListsCategoriesInOrder(t *testing.T) {
	in := newTestInterpreter(t)
	res := interpret(in, "HELP")
	if res.Action != ActionType {
		t.Fatalf("expected typed help, got %v", res.Action)
	}
	text := strings.Join(res.Output.Lines, "\n")
	prev := -1
	for _, label := range []string{"Portfolio:", "Navigation:", "Terminal:", "Fun:"} {
		idx := strings.Index(text, label)
		if idx <= prev {
			t.Fatalf("expected %q after previous label in:\n%s", label, text)
		}
		prev = idx
	}
	if !strings.Contains(text, "  about           - Who is behind the rhino") {
		t.Fatalf("expected aligned about entry in:\n%s", text)
	}
	if !strings.Contains(text, "  sudo apt install coffee - Refuel the developer") {
		t.Fatalf("expected long name with single space padding in:\n%s", text)
	}
}

func TestInterpretClear(t *testing.T) {
	in := newTestInterpreter(t)
	if res := interpret(in, "Clear"); res.Action != ActionClear {
		t.Fatalf("expected clear, got %v", res.Action)
	}
}

func TestInterpretASCIIToggle(t *testing.T) {
	in := newTestInterpreter(t)
	expectError(t, interpret(in, "ascii"), schema.ErrMissingArgument, "ascii requires an argument. Usage: ascii [on/off]")
	expectError(t, interpret(in, "ascii maybe"), schema.ErrInvalidArgument, "Invalid argument: maybe. Usage: ascii [on/off]")
	expectError(t, interpret(in, "ascii on"), schema.ErrInvalidArgument, "ASCII art is already enabled.")

	if res := interpret(in, "ascii OFF"); res.Action != ActionRedraw {
		t.Fatalf("expected redraw, got %+v", res)
	}
	if in.ASCII() {
		t.Fatalf("expected ascii disabled")
	}
	expectError(t, interpret(in, "ascii off"), schema.ErrInvalidArgument, "ASCII art is already disabled.")
	if in.ASCII() {
		t.Fatalf("redundant toggle changed state")
	}
	if res := interpret(in, "ascii on"); res.Action != ActionRedraw || !in.ASCII() {
		t.Fatalf("expected ascii enabled with redraw, got %+v", res)
	}
}

func TestInterpretCdIsSilent(t *testing.T) {
	in := newTestInterpreter(t)
	if res := interpret(in, "cd"); res.Action != ActionPrompt {
		t.Fatalf("expected silent cd at home, got %+v", res)
	}
	if res := interpret(in, "cd c0derhin0-wp.com"); res.Action != ActionPrompt {
		t.Fatalf("expected silent cd, got %+v", res)
	}
	if in.FS().Current() != schema.DirSite {
		t.Fatalf("expected site dir, got %q", in.FS().Current())
	}
	if res := interpret(in, "cd c0derhin0-wp.com"); res.Action != ActionPrompt {
		t.Fatalf("expected idempotent cd, got %+v", res)
	}
	if got := in.Prompt(); got != "visitor@c0derhin0-wp.com:~/c0derhin0-wp.com$ " {
		t.Fatalf("unexpected prompt %q", got)
	}
	interpret(in, "cd")
	if in.FS().Current() != schema.DirDefault {
		t.Fatalf("expected default after bare cd")
	}
	if got := in.Prompt(); got != "visitor@c0derhin0-wp.com:~$ " {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestInterpretCdInvalid(t *testing.T) {
	in := newTestInterpreter(t)
	interpret(in, "cd secret")
	res := interpret(in, "cd Nowhere")
	expectError(t, res, schema.ErrInvalidDirectory, "Directory not found: Nowhere")
	if in.FS().Current() != schema.DirSecret {
		t.Fatalf("invalid cd changed directory")
	}
}

func TestInterpretLsSecret(t *testing.T) {
	in := newTestInterpreter(t)
	interpret(in, "cd secret")
	if res := interpret(in, "ls"); res.Action != ActionPrompt {
		t.Fatalf("expected empty listing to show only the prompt, got %+v", res)
	}
	res := interpret(in, "ls -a")
	if res.Action != ActionType {
		t.Fatalf("expected listing, got %+v", res)
	}
	if len(res.Output.Lines) != 1 || res.Output.Lines[0] != "secret.sh" {
		t.Fatalf("unexpected listing %v", res.Output.Lines)
	}
}

func TestInterpretPwd(t *testing.T) {
	in := newTestInterpreter(t)
	interpret(in, "cd c0derhin0-wp.com")
	res := interpret(in, "pwd")
	if len(res.Output.Lines) != 1 || res.Output.Lines[0] != "/Users/c0derhin0/Internet/c0derhin0-wp.com" {
		t.Fatalf("unexpected pwd %v", res.Output.Lines)
	}
}

func TestInterpretRun(t *testing.T) {
	in := newTestInterpreter(t)
	expectError(t, interpret(in, "run"), schema.ErrMissingArgument, "run requires a parameter. Usage: run [file]")
	expectError(t, interpret(in, "run hello.sh"), schema.ErrFileNotRunnable, "No file found with name hello.sh")

	interpret(in, "cd c0derhin0-wp.com")
	expectError(t, interpret(in, "run HELLO.sh"), schema.ErrFileNotRunnable, "No file found with name HELLO.sh")
	res := interpret(in, "run hello.sh")
	if res.Action != ActionFetch || res.Pending == nil || res.Pending.Kind != PendingRun {
		t.Fatalf("expected pending run, got %+v", res)
	}
	if !strings.Contains(res.Pending.File.Content, "Hello, visitor.") {
		t.Fatalf("unexpected file content %q", res.Pending.File.Content)
	}
}

func TestInterpretShareAndExit(t *testing.T) {
	in := newTestInterpreter(t)
	if res := interpret(in, "share"); res.Action != ActionShare {
		t.Fatalf("expected share, got %v", res.Action)
	}
	if res := interpret(in, "EXIT"); res.Action != ActionExit {
		t.Fatalf("expected exit, got %v", res.Action)
	}
}
