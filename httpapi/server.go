package httpapi

import (
	"bytes"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/internal/shell"
)

// CatalogSource yields the catalog snapshot a new session starts from.
type CatalogSource interface {
	Current() *content.Catalog
}

// Server serves the terminal page and its websocket bridge.
type Server struct {
	cfg      Config
	content  CatalogSource
	shell    shell.Config
	sessions *sessionStore
	basePath string
	upgrader websocket.Upgrader
}

// NewServer constructs an HTTP server.
func NewServer(cfg Config, source CatalogSource, shellCfg shell.Config) *Server {
	s := &Server{
		cfg:      cfg,
		content:  source,
		shell:    shellCfg,
		sessions: newSessionStore(),
		basePath: normalizeBasePath(cfg.BasePath),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// ActiveSessions reports the number of attached web terminals.
func (s *Server) ActiveSessions() int {
	return s.sessions.count()
}

// Close ends every attached web terminal.
func (s *Server) Close() {
	s.sessions.closeAll()
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))
	mux.HandleFunc("/ws", s.handleTerminal)

	handler := withRequestLogging(mux)
	if s.basePath == "" {
		return handler
	}
	prefix := s.basePath
	root := http.NewServeMux()
	root.Handle(prefix+"/", http.StripPrefix(prefix, handler))
	root.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != prefix {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, prefix+"/", http.StatusTemporaryRedirect)
	})
	return root
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := fs.ReadFile(assetsFS, "index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	stat, err := fs.Stat(assetsFS, "index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusInternalServerError)
		return
	}
	data = applyBaseHref(data, baseHref(s.basePath))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", stat.ModTime(), bytes.NewReader(data))
}

const baseHrefPlaceholder = "<!-- BASE_HREF -->"

func applyBaseHref(data []byte, href string) []byte {
	replacement := ""
	if strings.TrimSpace(href) != "" {
		replacement = fmt.Sprintf(`<base href="%s" />`, html.EscapeString(href))
	}
	return bytes.ReplaceAll(data, []byte(baseHrefPlaceholder), []byte(replacement))
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if sameOrigin(origin, allowed) {
			return true
		}
	}
	pslog.Ctx(r.Context()).Warn("websocket origin rejected", "origin", origin, "remote", clientIP(r))
	return false
}

func sameOrigin(a, b string) bool {
	left, err := url.Parse(strings.TrimSpace(a))
	if err != nil {
		return false
	}
	right, err := url.Parse(strings.TrimSpace(b))
	if err != nil {
		return false
	}
	return strings.EqualFold(left.Scheme, right.Scheme) && strings.EqualFold(left.Host, right.Host)
}
