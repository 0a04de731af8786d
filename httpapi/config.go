package httpapi

// Config defines web terminal settings.
type Config struct {
	Addr string
	// BasePath mounts the page and websocket under a path prefix.
	BasePath string
	// AllowedOrigins restricts websocket origins; empty accepts any.
	AllowedOrigins []string
}
