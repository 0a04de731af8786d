package shell

import (
	"strconv"

	"pkt.systems/rhinoterm/schema"
)

type rgb struct {
	r int
	g int
	b int
}

const (
	ansiReset     = "\x1b[0m"
	ansiUnderline = "\x1b[4m"
)

var (
	colorOutput  = rgb{r: 207, g: 207, b: 207}
	colorError   = rgb{r: 255, g: 0, b: 0}
	colorSuccess = rgb{r: 0, g: 255, b: 0}
	colorWarning = rgb{r: 255, g: 255, b: 0}
	colorInfo    = rgb{r: 0, g: 179, b: 179}
	colorPrompt  = rgb{r: 62, g: 134, b: 0}
	colorRhino   = rgb{r: 13, g: 188, b: 121}
	colorLink    = rgb{r: 17, g: 168, b: 205}
)

func (c rgb) hex() string {
	const digits = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []int{c.r, c.g, c.b} {
		out[1+i*2] = digits[(v>>4)&0xf]
		out[2+i*2] = digits[v&0xf]
	}
	return string(out)
}

func ansiFgRGB(c rgb) string {
	return "\x1b[38;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

var linkStyle = ansiUnderline + ansiFgRGB(colorLink)

// styleANSI maps a style role to its escape prefix. Plain output keeps the
// surface's own foreground.
func styleANSI(style schema.Style) string {
	switch style {
	case schema.StyleError:
		return ansiFgRGB(colorError)
	case schema.StyleSuccess:
		return ansiFgRGB(colorSuccess)
	case schema.StyleWarning:
		return ansiFgRGB(colorWarning)
	case schema.StyleInfo:
		return ansiFgRGB(colorInfo)
	case schema.StylePrompt:
		return ansiFgRGB(colorPrompt)
	case schema.StyleRhino:
		return ansiFgRGB(colorRhino)
	case schema.StyleLink:
		return linkStyle
	default:
		return ""
	}
}
