package schema

import "strings"

// NormalizeEffect validates an effect tag. Empty means typewriter.
func NormalizeEffect(value string) (Effect, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "typewriter":
		return EffectTypewriter, true
	case "package-install", "package_install", "packageinstall":
		return EffectPackageInstall, true
	default:
		return "", false
	}
}

// NormalizeStyle validates a style name. Empty means output.
func NormalizeStyle(value string) (Style, bool) {
	switch s := Style(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return StyleOutput, true
	case StyleOutput, StyleError, StyleSuccess, StyleWarning, StyleInfo, StylePrompt, StyleRhino, StyleLink:
		return s, true
	default:
		return "", false
	}
}

// LookupDir matches name exactly against the fixed directory set.
func LookupDir(name string) (DirName, bool) {
	for _, dir := range Dirs() {
		if string(dir) == name {
			return dir, true
		}
	}
	return "", false
}
