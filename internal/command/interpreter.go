// Package command interprets submitted terminal lines against the content
// catalog and the role-play filesystem.
package command

import (
	"context"
	"errors"
	"strings"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/internal/vfs"
	"pkt.systems/rhinoterm/schema"
)

// Action tells the session what to do with a Result.
type Action int

const (
	// ActionPrompt re-shows the prompt and nothing else.
	ActionPrompt Action = iota
	// ActionType types Output and then re-shows the prompt.
	ActionType
	// ActionClear runs the clearing animation, then wipes the surface and
	// redraws banner and prompt.
	ActionClear
	// ActionRedraw wipes the surface and redraws banner and prompt at once.
	ActionRedraw
	// ActionFetch runs the fetch spinner, then executes Pending.
	ActionFetch
	// ActionShare shows the portfolio URL as a QR code.
	ActionShare
	// ActionExit ends the session.
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionPrompt:
		return "prompt"
	case ActionType:
		return "type"
	case ActionClear:
		return "clear"
	case ActionRedraw:
		return "redraw"
	case ActionFetch:
		return "fetch"
	case ActionShare:
		return "share"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// PendingKind is the deferred work behind a fetch spinner.
type PendingKind int

const (
	PendingCommand PendingKind = iota + 1
	PendingRun
)

// Output is text to reveal on the main surface.
type Output struct {
	Lines  []string
	Style  schema.Style
	Effect schema.Effect
	Links  []content.Link
}

// Pending is a command accepted but waiting for the fetch spinner.
type Pending struct {
	Kind   PendingKind
	Name   string
	Output Output
	File   content.File
}

// Result is the outcome of one submitted line.
type Result struct {
	Action  Action
	Output  Output
	Pending *Pending
	// Err is set for user-facing errors; Output then holds the error line.
	Err error
}

// Config tunes an Interpreter.
type Config struct {
	DisableAuditLogging bool
}

// Interpreter holds the per-session command state.
type Interpreter struct {
	cat   *content.Catalog
	fs    *vfs.FS
	ascii bool
	cfg   Config
}

// New returns an interpreter over cat with ASCII art enabled.
func New(cat *content.Catalog, cfg Config) *Interpreter {
	return &Interpreter{cat: cat, fs: vfs.New(cat), ascii: true, cfg: cfg}
}

// Catalog returns the snapshot the interpreter was built with.
func (in *Interpreter) Catalog() *content.Catalog { return in.cat }

// FS returns the session filesystem.
func (in *Interpreter) FS() *vfs.FS { return in.fs }

// ASCII reports whether banner art is enabled.
func (in *Interpreter) ASCII() bool { return in.ascii }

// Prompt renders the prompt text without color.
func (in *Interpreter) Prompt() string {
	site := in.cat.Site
	return site.PromptUser + "@" + site.PromptHost + ":" + in.fs.PromptPath() + "$ "
}

// Interpret routes one submitted line.
func (in *Interpreter) Interpret(ctx context.Context, line string) Result {
	cmd, ok := Parse(line)
	if !ok {
		return Result{Action: ActionPrompt}
	}
	log := pslog.Ctx(ctx).With("command", cmd.Name, "args", len(cmd.Args))
	if !in.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", in.commandType(cmd), "command", cmd.Raw, "dir", string(in.fs.Current()))
	}
	res := in.dispatch(cmd)
	if res.Err != nil {
		var uerr *UserError
		if errors.As(res.Err, &uerr) {
			log.Debug("command rejected", "reason", uerr.Err)
		}
	}
	return res
}

func (in *Interpreter) commandType(cmd Command) string {
	if in.isBuiltin(cmd.Name) {
		return "builtin"
	}
	if c, ok := in.cat.Command(cmd.Key); ok && !c.Builtin {
		return "content"
	}
	return "unknown"
}

func (in *Interpreter) isBuiltin(name string) bool {
	for _, b := range content.Builtins {
		if b == name {
			return true
		}
	}
	return false
}

func (in *Interpreter) dispatch(cmd Command) Result {
	switch cmd.Name {
	case "help":
		if len(cmd.Args) > 0 {
			return failure(notFound(cmd.Raw))
		}
		return typed(Output{Lines: in.helpLines(), Style: schema.StyleOutput})
	case "clear":
		if len(cmd.Args) > 0 {
			return failure(notFound(cmd.Raw))
		}
		return Result{Action: ActionClear}
	case "ascii":
		return in.handleASCII(cmd)
	case "cd":
		return in.handleCd(cmd)
	case "ls":
		return in.handleLs(cmd)
	case "pwd":
		if len(cmd.Args) > 0 {
			return failure(notFound(cmd.Raw))
		}
		return typed(Output{Lines: []string{in.fs.Pwd()}, Style: schema.StyleOutput})
	case "run":
		return in.handleRun(cmd)
	case "share":
		if len(cmd.Args) > 0 {
			return failure(notFound(cmd.Raw))
		}
		return Result{Action: ActionShare}
	case "exit":
		if len(cmd.Args) > 0 {
			return failure(notFound(cmd.Raw))
		}
		return Result{Action: ActionExit}
	}
	if c, ok := in.cat.Command(cmd.Key); ok && !c.Builtin {
		return Result{
			Action: ActionFetch,
			Pending: &Pending{
				Kind:   PendingCommand,
				Name:   c.Name,
				Output: Output{Lines: c.Output, Style: c.Style, Effect: c.Effect, Links: c.Links},
			},
		}
	}
	return failure(notFound(cmd.Raw))
}

func (in *Interpreter) handleASCII(cmd Command) Result {
	if len(cmd.Args) == 0 {
		return failure(userErrorf(schema.ErrMissingArgument, "ascii requires an argument. Usage: ascii [on/off]"))
	}
	arg := strings.ToLower(cmd.Remainder)
	var want bool
	switch arg {
	case "on":
		want = true
	case "off":
		want = false
	default:
		return failure(userErrorf(schema.ErrInvalidArgument, "Invalid argument: %s. Usage: ascii [on/off]", arg))
	}
	if want == in.ascii {
		state := "disabled"
		if want {
			state = "enabled"
		}
		return failure(userErrorf(schema.ErrInvalidArgument, "ASCII art is already %s.", state))
	}
	in.ascii = want
	return Result{Action: ActionRedraw}
}

func (in *Interpreter) handleCd(cmd Command) Result {
	if cmd.Remainder == "" {
		in.fs.Home()
		return Result{Action: ActionPrompt}
	}
	if _, err := in.fs.Cd(cmd.Remainder); err != nil {
		return failure(&UserError{Text: "Directory not found: " + cmd.Remainder, Err: err})
	}
	return Result{Action: ActionPrompt}
}

func (in *Interpreter) handleLs(cmd Command) Result {
	all := false
	switch {
	case len(cmd.Args) == 0:
	case len(cmd.Args) == 1 && strings.ToLower(cmd.Args[0]) == "-a":
		all = true
	default:
		return failure(notFound(cmd.Raw))
	}
	listing := in.fs.List(all)
	if len(listing) == 0 {
		return Result{Action: ActionPrompt}
	}
	return typed(Output{Lines: listing, Style: schema.StyleOutput})
}

func (in *Interpreter) handleRun(cmd Command) Result {
	name := cmd.Remainder
	if name == "" {
		return failure(userErrorf(schema.ErrMissingArgument, "run requires a parameter. Usage: run [file]"))
	}
	file, err := in.fs.Runnable(name)
	if err != nil {
		return failure(&UserError{Text: "No file found with name " + name, Err: err})
	}
	return Result{Action: ActionFetch, Pending: &Pending{Kind: PendingRun, Name: name, File: file}}
}

const helpNameWidth = 16

func (in *Interpreter) helpLines() []string {
	lines := []string{"Available commands:"}
	for _, cat := range in.cat.Categories {
		lines = append(lines, "", cat.Label+":")
		for _, c := range cat.Commands {
			pad := helpNameWidth - len(c.Name)
			if pad < 1 {
				pad = 1
			}
			lines = append(lines, "  "+c.Name+strings.Repeat(" ", pad)+"- "+c.Description)
		}
	}
	return lines
}

func typed(out Output) Result {
	if out.Effect == "" {
		out.Effect = schema.EffectTypewriter
	}
	return Result{Action: ActionType, Output: out}
}

func failure(err *UserError) Result {
	res := typed(Output{Lines: []string{err.Text}, Style: schema.StyleError})
	res.Err = err
	return res
}
