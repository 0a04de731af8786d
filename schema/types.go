package schema

import "github.com/google/uuid"

// SessionID identifies one terminal session.
type SessionID string

// NewSessionID returns a fresh random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// DirName identifies a role-play directory.
type DirName string

// The fixed role-play directories.
const (
	DirDefault DirName = "default"
	DirSite    DirName = "c0derhin0-wp.com"
	DirSecret  DirName = "secret"
)

// Dirs lists the fixed directory set in display order.
func Dirs() []DirName {
	return []DirName{DirDefault, DirSite, DirSecret}
}

// Effect selects how output lines are revealed.
type Effect string

const (
	// EffectTypewriter reveals one character at a time.
	EffectTypewriter Effect = "typewriter"
	// EffectPackageInstall reveals whole lines with content-dependent delays.
	EffectPackageInstall Effect = "package-install"
)

// Style names a display color role.
type Style string

const (
	StyleOutput  Style = "output"
	StyleError   Style = "error"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleInfo    Style = "info"
	StylePrompt  Style = "prompt"
	StyleRhino   Style = "rhino"
	StyleLink    Style = "link"
)

// SurfaceKind names the transport hosting a session.
type SurfaceKind string

const (
	SurfaceSSH   SurfaceKind = "ssh"
	SurfaceWeb   SurfaceKind = "web"
	SurfaceLocal SurfaceKind = "local"
)
