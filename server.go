// Package rhinoterm composes the web and SSH surfaces of the portfolio
// terminal around one content store.
package rhinoterm

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/httpapi"
	"pkt.systems/rhinoterm/internal/appconfig"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/internal/shell"
	"pkt.systems/rhinoterm/sshserver"
)

// Server composes the HTTP and SSH services.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	HTTP    httpapi.Config
	SSH     sshserver.Config
	Content ContentConfig
	Shell   shell.Config
}

// ContentConfig selects and optionally watches the catalog file.
type ContentConfig struct {
	Path  string
	Watch bool
}

// ServerDeps captures optional pre-built dependencies.
type ServerDeps struct {
	// Content replaces opening ServerConfig.Content.Path.
	Content *content.Store
	// HTTPListener and SSHListener replace listening on the configured addresses.
	HTTPListener net.Listener
	SSHListener  net.Listener
}

// ServerOption toggles compositor components.
type ServerOption func(*serverOptions)

type serverOptions struct {
	enableHTTP bool
	enableSSH  bool
}

// WithHTTP enables the web terminal.
func WithHTTP() ServerOption {
	return func(o *serverOptions) { o.enableHTTP = true }
}

// WithSSH enables the SSH server.
func WithSSH() ServerOption {
	return func(o *serverOptions) { o.enableSSH = true }
}

// ConfigFromApp maps the application config onto the compositor config.
func ConfigFromApp(cfg appconfig.Config) ServerConfig {
	return ServerConfig{
		HTTP: httpapi.Config{
			Addr:           cfg.HTTP.Addr,
			BasePath:       cfg.HTTP.BasePath,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		},
		SSH: sshserver.Config{
			Addr:        cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKeyPath,
		},
		Content: ContentConfig{
			Path:  cfg.Content.Path,
			Watch: cfg.Content.Watch,
		},
		Shell: ShellConfigFromApp(cfg),
	}
}

// ShellConfigFromApp converts terminal timings to session settings.
func ShellConfigFromApp(cfg appconfig.Config) shell.Config {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return shell.Config{
		CharDelay:           ms(cfg.Terminal.CharDelayMS),
		LineDelay:           ms(cfg.Terminal.LineDelayMS),
		FetchDuration:       ms(cfg.Terminal.FetchDurationMS),
		FetchInterval:       ms(cfg.Terminal.FetchIntervalMS),
		ClearDuration:       ms(cfg.Terminal.ClearDurationMS),
		ClearInterval:       ms(cfg.Terminal.ClearIntervalMS),
		OverlayCharDelay:    ms(cfg.Terminal.OverlayCharDelayMS),
		DisableAuditLogging: cfg.Logging.DisableAuditTrails,
	}
}

// New constructs a composable rhinoterm server.
func New(cfg ServerConfig, deps ServerDeps, opts ...ServerOption) (Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.enableHTTP && !options.enableSSH {
		return nil, errors.New("no services enabled")
	}

	store := deps.Content
	if store == nil {
		opened, err := content.Open(cfg.Content.Path)
		if err != nil {
			return nil, err
		}
		store = opened
	}
	if cfg.Content.Watch && store.Path() == "" {
		return nil, errors.New("content watch requires content.path")
	}

	var httpSrv *httpapi.Server
	var sshSrv *sshserver.Server
	if options.enableHTTP {
		httpSrv = httpapi.NewServer(cfg.HTTP, store, cfg.Shell)
	}
	if options.enableSSH {
		sshSrv = &sshserver.Server{
			Addr:        cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKeyPath,
			Listener:    deps.SSHListener,
			Content:     store,
			Shell:       cfg.Shell,
		}
	}

	return &compositeServer{
		cfg:          cfg,
		options:      options,
		store:        store,
		httpSrv:      httpSrv,
		httpListener: deps.HTTPListener,
		sshSrv:       sshSrv,
	}, nil
}

type compositeServer struct {
	cfg          ServerConfig
	options      serverOptions
	store        *content.Store
	httpSrv      *httpapi.Server
	httpListener net.Listener
	sshSrv       *sshserver.Server
	logger       pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	errCh   chan error
	wg      sync.WaitGroup
	started bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.errCh = make(chan error, 3)
	s.started = true
	s.logger = pslog.Ctx(s.ctx)
	s.mu.Unlock()

	log := s.logger
	log.Info(
		"server start",
		"http", s.options.enableHTTP,
		"ssh", s.options.enableSSH,
		"http_addr", s.cfg.HTTP.Addr,
		"http_base_path", s.cfg.HTTP.BasePath,
		"ssh_addr", s.cfg.SSH.Addr,
		"content", contentSource(s.store),
		"content_watch", s.cfg.Content.Watch,
	)
	if s.httpSrv != nil {
		s.run("http", func(ctx context.Context) error {
			if s.httpListener != nil {
				return httpapi.Serve(ctx, s.httpListener, s.httpSrv.Handler())
			}
			return httpapi.ListenAndServe(ctx, s.cfg.HTTP.Addr, s.httpSrv.Handler())
		})
	}
	if s.sshSrv != nil {
		s.run("ssh", s.sshSrv.ListenAndServe)
	}
	if s.cfg.Content.Watch {
		s.run("content watch", func(ctx context.Context) error {
			return content.Watch(ctx, s.store)
		})
	}
	return nil
}

func (s *compositeServer) run(name string, serve func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := serve(s.ctx); err != nil {
			s.logger.Error(name+" server failed", "err", err)
			s.errCh <- err
		}
	}()
}

func contentSource(store *content.Store) string {
	if store.Path() == "" {
		return "embedded"
	}
	return store.Path()
}

func (s *compositeServer) Wait() error {
	s.mu.Lock()
	ctx := s.ctx
	errCh := s.errCh
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			pslog.Ctx(ctx).Error("server stopped", "err", err)
			_ = s.Stop(context.Background())
			return err
		}
		return nil
	}
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	started := s.started
	log := s.logger
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested")
	if cancel != nil {
		cancel()
	}
	if s.httpSrv != nil {
		if n := s.httpSrv.ActiveSessions(); n > 0 {
			log.Info("server closing web sessions", "active", n)
		}
		s.httpSrv.Close()
	}
	if ctx == nil {
		log.Info("server stop completed")
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err())
		return ctx.Err()
	case <-done:
		log.Info("server stopped")
		return nil
	}
}
