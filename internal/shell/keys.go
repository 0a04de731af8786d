package shell

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"
)

type keyKind int

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyDelete
	keyLeft
	keyRight
	keyHome
	keyEnd
	keyUp
	keyDown
	keyTab
	keyEscape
	keyCtrlC
	keyCtrlD
	keyCtrlJ
)

type key struct {
	kind keyKind
	r    rune
}

type keyReader struct {
	br   *bufio.Reader
	out  chan<- key
	done <-chan struct{}
}

// readKeys decodes r into keys until r fails or done closes.
func readKeys(r io.Reader, out chan<- key, done <-chan struct{}) {
	defer close(out)
	kr := &keyReader{br: bufio.NewReader(r), out: out, done: done}
	kr.run()
}

func (kr *keyReader) emit(k key) bool {
	select {
	case kr.out <- k:
		return true
	case <-kr.done:
		return false
	}
}

func (kr *keyReader) run() {
	br := kr.br
	lastWasCR := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if lastWasCR {
			lastWasCR = false
			if b == '\n' {
				continue
			}
		}
		ok := true
		switch b {
		case 0x1b:
			// A lone escape arrives without a sequence behind it.
			if br.Buffered() == 0 {
				ok = kr.emit(key{kind: keyEscape})
			} else {
				ok = kr.readEscape()
			}
		case '\r':
			ok = kr.emit(key{kind: keyEnter})
			lastWasCR = true
		case '\n':
			ok = kr.emit(key{kind: keyCtrlJ})
		case 0x7f, 0x08:
			ok = kr.emit(key{kind: keyBackspace})
		case 0x04:
			ok = kr.emit(key{kind: keyCtrlD})
		case 0x03:
			ok = kr.emit(key{kind: keyCtrlC})
		case 0x09:
			ok = kr.emit(key{kind: keyTab})
		default:
			if b < utf8.RuneSelf {
				ok = kr.emit(key{kind: keyRune, r: rune(b)})
				break
			}
			_ = br.UnreadByte()
			rn, _, err := br.ReadRune()
			if err != nil {
				return
			}
			ok = kr.emit(key{kind: keyRune, r: rn})
		}
		if !ok {
			return
		}
	}
}

func (kr *keyReader) readEscape() bool {
	b, err := kr.br.ReadByte()
	if err != nil {
		return false
	}
	switch b {
	case '[':
		return kr.readCSI()
	case 'O':
		return kr.readSS3()
	case 0x1b:
		return kr.emit(key{kind: keyEscape})
	}
	return true
}

func (kr *keyReader) readCSI() bool {
	seq := []byte{}
	for {
		b, err := kr.br.ReadByte()
		if err != nil {
			return false
		}
		seq = append(seq, b)
		if b == '~' || unicode.IsLetter(rune(b)) {
			break
		}
		if len(seq) > 8 {
			return true
		}
	}
	switch string(seq) {
	case "A":
		return kr.emit(key{kind: keyUp})
	case "B":
		return kr.emit(key{kind: keyDown})
	case "C":
		return kr.emit(key{kind: keyRight})
	case "D":
		return kr.emit(key{kind: keyLeft})
	case "H", "1~":
		return kr.emit(key{kind: keyHome})
	case "F", "4~":
		return kr.emit(key{kind: keyEnd})
	case "3~":
		return kr.emit(key{kind: keyDelete})
	}
	return true
}

func (kr *keyReader) readSS3() bool {
	b, err := kr.br.ReadByte()
	if err != nil {
		return false
	}
	switch b {
	case 'A':
		return kr.emit(key{kind: keyUp})
	case 'B':
		return kr.emit(key{kind: keyDown})
	case 'H':
		return kr.emit(key{kind: keyHome})
	case 'F':
		return kr.emit(key{kind: keyEnd})
	}
	return true
}
