package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm"
	"pkt.systems/rhinoterm/internal/appconfig"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/internal/shell"
	"pkt.systems/rhinoterm/schema"
)

func newLocalCmd() *cobra.Command {
	var cfgPath string
	var logFile string
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Run the portfolio terminal on this TTY",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			store, err := content.Open(cfg.Content.Path)
			if err != nil {
				return err
			}
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("local requires an interactive terminal")
			}

			// Logs would corrupt the raw screen; send them to a file or nowhere.
			var sink io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				sink = f
			}
			logger := pslog.NewWithOptions(sink, pslog.Options{Mode: pslog.ModeStructured, MinLevel: pslog.DebugLevel})
			ctx := pslog.ContextWithLogger(cmd.Context(), logger)

			width, height, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width, height = 80, 24
			}
			state, err := term.MakeRaw(fd)
			if err != nil {
				return err
			}
			defer func() { _ = term.Restore(fd, state) }()

			resize := make(chan shell.Size, 1)
			stopResize := watchResize(int(os.Stdout.Fd()), resize)
			defer stopResize()

			out := shell.NewTerminalSurface(os.Stdout)
			session := shell.NewSession(store.Current(), out, shell.Options{
				Surface: schema.SurfaceLocal,
				Audio:   shell.Bell{W: out},
				Config:  rhinoterm.ShellConfigFromApp(cfg),
				Size:    shell.Size{Width: width, Height: height},
			})
			return session.Run(ctx, os.Stdin, resize)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append structured logs to this file")
	return cmd
}
