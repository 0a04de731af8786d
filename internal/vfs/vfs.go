// Package vfs implements the role-play directory tree behind cd, ls, pwd and run.
package vfs

import (
	"fmt"

	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/schema"
)

// FS tracks the current directory over a catalog's fixed directory set.
type FS struct {
	cat      *content.Catalog
	current  schema.DirName
	homeUser string
}

// New returns a filesystem positioned at the default directory.
func New(cat *content.Catalog) *FS {
	return &FS{cat: cat, current: schema.DirDefault, homeUser: cat.Site.HomeUser}
}

// Current returns the current directory.
func (f *FS) Current() schema.DirName {
	return f.current
}

// Home returns to the default directory. It reports whether the directory changed.
func (f *FS) Home() bool {
	changed := f.current != schema.DirDefault
	f.current = schema.DirDefault
	return changed
}

// Cd switches to name. Names match the fixed set exactly.
func (f *FS) Cd(name string) (bool, error) {
	dir, ok := schema.LookupDir(name)
	if !ok {
		return false, fmt.Errorf("%w: %s", schema.ErrInvalidDirectory, name)
	}
	if dir == f.current {
		return false, nil
	}
	f.current = dir
	return true, nil
}

// List returns the current listing, including hidden entries when all is set.
func (f *FS) List(all bool) []string {
	dir := f.cat.Directory(f.current)
	out := make([]string, 0, len(dir.Listing)+len(dir.Hidden))
	out = append(out, dir.Listing...)
	if all {
		out = append(out, dir.Hidden...)
	}
	return out
}

// Pwd renders the role-play absolute path of the current directory.
func (f *FS) Pwd() string {
	return fmt.Sprintf("/Users/%s/Internet/%s", f.homeUser, f.current)
}

// Runnable resolves a run target in the current directory.
func (f *FS) Runnable(name string) (content.File, error) {
	dir := f.cat.Directory(f.current)
	for _, candidate := range dir.Runnable {
		if candidate != name {
			continue
		}
		if file, ok := f.cat.File(name); ok {
			return file, nil
		}
	}
	return content.File{}, fmt.Errorf("%w: %s", schema.ErrFileNotRunnable, name)
}

// PromptPath returns the path segment shown in the prompt.
func (f *FS) PromptPath() string {
	if f.current == schema.DirDefault {
		return "~"
	}
	return "~/" + string(f.current)
}
