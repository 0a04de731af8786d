package schema

import "errors"

var (
	// ErrUnknownCommand indicates input matched no built-in and no content command.
	ErrUnknownCommand = errors.New("command not found")
	// ErrInvalidDirectory indicates cd named a directory outside the fixed set.
	ErrInvalidDirectory = errors.New("directory not found")
	// ErrMissingArgument indicates a command that needs an argument got none.
	ErrMissingArgument = errors.New("missing argument")
	// ErrInvalidArgument indicates an unsupported or redundant argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrFileNotRunnable indicates run named a file the current directory does not offer.
	ErrFileNotRunnable = errors.New("file not runnable")
	// ErrInvalidContent indicates a content catalog failed validation.
	ErrInvalidContent = errors.New("invalid content")
	// ErrAnimationBusy indicates an animation is already running.
	ErrAnimationBusy = errors.New("animation in progress")
)
