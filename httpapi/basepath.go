package httpapi

import "strings"

func normalizeBasePath(value string) string {
	path := strings.TrimSpace(value)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if path == "/" {
		return ""
	}
	return path
}

// baseHref is the document base the page resolves its websocket URL against.
func baseHref(basePath string) string {
	path := normalizeBasePath(basePath)
	if path == "" {
		return ""
	}
	return path + "/"
}
