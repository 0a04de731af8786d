package shell

import (
	"github.com/mattn/go-runewidth"

	"pkt.systems/rhinoterm/internal/content"
)

const bannerGap = 2

// bannerLines lays out the banner for a surface width. The rhino sits
// beside the title when both fit, alone when only it fits, and is left out
// below that. Welcome lines always follow.
func bannerLines(b content.Banner, width int, ascii bool) []string {
	var out []string
	if ascii && len(b.Rhino) > 0 {
		rhinoWidth := maxWidth(b.Rhino)
		titleWidth := maxWidth(b.Title)
		rhinoStyle := ansiFgRGB(colorRhino)
		switch {
		case len(b.Title) > 0 && width >= rhinoWidth+bannerGap+titleWidth:
			rows := max(len(b.Rhino), len(b.Title))
			for i := 0; i < rows; i++ {
				left := runewidth.FillRight(lineAt(b.Rhino, i), rhinoWidth)
				out = append(out, rhinoStyle+left+ansiReset+"  "+lineAt(b.Title, i))
			}
			out = append(out, "")
		case width >= rhinoWidth:
			for _, line := range b.Rhino {
				out = append(out, rhinoStyle+line+ansiReset)
			}
			out = append(out, "")
		}
	}
	out = append(out, b.Welcome...)
	out = append(out, "")
	return out
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func maxWidth(lines []string) int {
	w := 0
	for _, line := range lines {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w
}
