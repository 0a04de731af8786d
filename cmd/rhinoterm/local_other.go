//go:build !unix

package main

import "pkt.systems/rhinoterm/internal/shell"

// watchResize is a no-op where SIGWINCH does not exist.
func watchResize(int, chan shell.Size) func() {
	return func() {}
}
