//go:build unix

package main

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"pkt.systems/rhinoterm/internal/shell"
)

// watchResize forwards SIGWINCH sizes of fd until the returned stop is called.
func watchResize(fd int, resize chan shell.Size) func() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGWINCH)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-sig:
				width, height, err := term.GetSize(fd)
				if err != nil {
					continue
				}
				size := shell.Size{Width: width, Height: height}
				select {
				case resize <- size:
				case <-done:
					return
				}
			}
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
	}
}
