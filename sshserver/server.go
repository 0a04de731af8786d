package sshserver

import (
	"context"
	"errors"
	"io"
	"net"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/internal/logx"
	"pkt.systems/rhinoterm/internal/shell"
	"pkt.systems/rhinoterm/schema"
)

// CatalogSource yields the catalog snapshot a new session starts from.
type CatalogSource interface {
	Current() *content.Catalog
}

// Server exposes the portfolio terminal over SSH. Any user name is
// accepted without credentials.
type Server struct {
	Addr        string
	HostKeyPath string
	Listener    net.Listener
	Content     CatalogSource
	Shell       shell.Config
	logger      pslog.Logger
}

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}
	if s.Content == nil {
		return errors.New("content source is required for SSH")
	}

	signer, err := EnsureHostKey(s.HostKeyPath)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	addr := s.Addr
	if s.Listener != nil {
		addr = s.Listener.Addr().String()
	}
	s.logger.Info("ssh listen", "addr", addr)

	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		if errors.Is(err, gliderssh.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	remote := sess.RemoteAddr().String()
	log = log.With("user", sess.User(), "remote", remote)
	if sshSession := sess.Context().SessionID(); sshSession != "" {
		log = log.With("ssh_session", sshSession)
	}

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		return
	}

	id := schema.NewSessionID()
	ctx := pslog.ContextWithLogger(sess.Context(), log)
	log = logx.WithSessionSurface(ctx, id, schema.SurfaceSSH)
	ctx = logx.ContextWithSessionLogger(ctx, log, id, schema.SurfaceSSH)
	log.Info("ssh session opened", "term", pty.Term)

	resize := make(chan shell.Size, 1)
	go forwardWindows(ctx, winCh, resize)

	surface := shell.NewTerminalSurface(sess)
	session := shell.NewSession(s.Content.Current(), surface, shell.Options{
		ID:      id,
		Surface: schema.SurfaceSSH,
		Audio:   shell.Bell{W: surface},
		Config:  s.Shell,
		Size:    shell.Size{Width: pty.Window.Width, Height: pty.Window.Height},
	})
	_ = session.Run(ctx, sess, resize)
	log.Info("ssh session closed", "term", pty.Term)
}

// forwardWindows relays window changes, keeping only the newest pending size.
func forwardWindows(ctx context.Context, winCh <-chan gliderssh.Window, resize chan shell.Size) {
	for {
		select {
		case <-ctx.Done():
			return
		case win, ok := <-winCh:
			if !ok {
				return
			}
			size := shell.Size{Width: win.Width, Height: win.Height}
			select {
			case resize <- size:
			default:
				select {
				case <-resize:
				default:
				}
				select {
				case resize <- size:
				default:
				}
			}
		}
	}
}
