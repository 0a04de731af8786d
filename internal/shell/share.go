package shell

import (
	"bytes"

	"github.com/mdp/qrterminal/v3"

	"pkt.systems/rhinoterm/internal/command"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/schema"
)

// crlfWriter turns bare newlines into CRLF for raw terminals.
type crlfWriter struct {
	s *Session
}

func (w crlfWriter) Write(p []byte) (int, error) {
	w.s.write(string(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))))
	return len(p), nil
}

// share draws the portfolio URL as a QR code, then types the URL as a link.
func (s *Session) share() {
	url := s.interp.Catalog().Site.URL
	if url == "" {
		s.typeOutput(command.Output{Lines: []string{"Nothing to share."}, Style: schema.StyleWarning})
		return
	}
	qrterminal.GenerateHalfBlock(url, qrterminal.L, crlfWriter{s: s})
	s.typeOutput(command.Output{
		Lines: []string{url},
		Style: schema.StyleInfo,
		Links: []content.Link{{Match: url, URL: url}},
	})
}
