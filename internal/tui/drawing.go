// internal/tui/drawing.go
package tui

import (
	"fmt"
	"strings"

	"github.com/bethropolis/mgesture/internal/action"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Cell is a screen position.
type Cell struct {
	X, Y int
}

var arrows = map[gesture.Direction]string{
	gesture.DirectionUp:          "↑",
	gesture.DirectionDown:        "↓",
	gesture.DirectionLeft:        "←",
	gesture.DirectionRight:       "→",
	gesture.DirectionRightButton: "R",
	gesture.DirectionLeftClick:   "L",
}

// Arrows renders a sequence as space separated arrows.
func Arrows(seq []gesture.Direction) string {
	parts := make([]string, len(seq))
	for i, d := range seq {
		if a, ok := arrows[d]; ok {
			parts[i] = a
		} else {
			parts[i] = string(d)
		}
	}
	return strings.Join(parts, " ")
}

// drawText draws text from (x, y) using grapheme widths and returns the
// column after the last drawn cluster. Nothing is drawn at or past maxX.
func drawText(screen tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if x+clusterWidth > maxX {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		for cw := 1; cw < clusterWidth; cw++ {
			screen.SetContent(x+cw, y, ' ', nil, style)
		}
		x += clusterWidth
	}
	return x
}

func fillLine(screen tcell.Screen, y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// PageArea returns the rows between the tab strip and the status bar.
func PageArea(height, statusBarHeight int) (top, bottom int) {
	return 1, height - statusBarHeight
}

// DrawTabs draws the tab strip on the first line.
func DrawTabs(t *TUI, tabs []action.TabView, active int, activeTheme *theme.Theme) {
	width, height := t.Size()
	if width <= 0 || height <= 0 {
		return
	}
	inactive := activeTheme.GetStyle(theme.StyleTabInactive)
	fillLine(t.screen, 0, width, inactive)

	x := 0
	for i, tab := range tabs {
		style := inactive
		if i == active {
			style = activeTheme.GetStyle(theme.StyleTabActive)
		}
		label := fmt.Sprintf(" %d:%s ", i+1, shortURL(tab.URL))
		x = drawText(t.screen, x, 0, width, label, style)
		if x >= width {
			break
		}
		x = drawText(t.screen, x, 0, width, "│", inactive)
	}
}

func shortURL(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	if len([]rune(u)) > 24 {
		u = string([]rune(u)[:23]) + "…"
	}
	return u
}

// DrawPage draws the active tab's page between top and bottom, with a scroll
// indicator in the last column.
func DrawPage(t *TUI, tab action.TabView, ok bool, pageLength, top, bottom int, activeTheme *theme.Theme) {
	width, _ := t.Size()
	if width <= 0 || bottom <= top {
		return
	}
	pageStyle := activeTheme.GetStyle(theme.StylePage)
	for y := top; y < bottom; y++ {
		fillLine(t.screen, y, width, pageStyle)
	}
	if !ok {
		drawText(t.screen, 1, top, width, "No tabs open. Draw → ← with the right button held to reopen one.", pageStyle)
		return
	}

	heading := tab.URL
	if tab.Reloads > 0 {
		heading = fmt.Sprintf("%s  (reloaded %d×)", tab.URL, tab.Reloads)
	}
	drawText(t.screen, 1, top, width-1, heading, activeTheme.GetStyle(theme.StylePageHeading))

	textTop := top + 1
	for y := textTop; y < bottom; y++ {
		line := tab.Scroll + (y - textTop)
		if line > pageLength {
			break
		}
		drawText(t.screen, 1, y, width-1, fmt.Sprintf("%4d  %s", line, filler(line)), pageStyle)
	}

	// Scroll indicator
	rows := bottom - textTop
	if rows <= 0 || pageLength <= 0 {
		return
	}
	barStyle := activeTheme.GetStyle(theme.StyleScrollBar)
	thumb := textTop + tab.Scroll*(rows-1)/pageLength
	for y := textTop; y < bottom; y++ {
		r := '│'
		if y == thumb {
			r = '█'
		}
		t.screen.SetContent(width-1, y, r, nil, barStyle)
	}
}

func filler(line int) string {
	const words = "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor"
	fields := strings.Fields(words)
	n := 3 + line%7
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fields[(line+i)%len(fields)])
	}
	return strings.Join(out, " ")
}

// DrawTrail draws the path of the gesture in progress.
func DrawTrail(t *TUI, trail []Cell, top, bottom int, activeTheme *theme.Theme) {
	if len(trail) == 0 {
		return
	}
	width, _ := t.Size()
	trailStyle := activeTheme.GetStyle(theme.StyleTrail)
	for i, c := range trail {
		if c.X < 0 || c.X >= width || c.Y < top || c.Y >= bottom {
			continue
		}
		if i == len(trail)-1 {
			t.screen.SetContent(c.X, c.Y, '●', nil, activeTheme.GetStyle(theme.StyleTrailHead))
			continue
		}
		t.screen.SetContent(c.X, c.Y, '·', nil, trailStyle)
	}
}

// DrawOverlay draws text right-aligned on row y.
func DrawOverlay(t *TUI, y int, text, styleName string, activeTheme *theme.Theme) {
	if text == "" {
		return
	}
	width, _ := t.Size()
	text = " " + text + " "
	x := width - 1 - uniseg.StringWidth(text)
	if x < 0 {
		x = 0
	}
	drawText(t.screen, x, y, width-1, text, activeTheme.GetStyle(styleName))
}

// DrawHelp draws lines in a box centred in the page area.
func DrawHelp(t *TUI, lines []string, top, bottom int, activeTheme *theme.Theme) {
	width, _ := t.Size()
	boxWidth := 0
	for _, l := range lines {
		boxWidth = max(boxWidth, uniseg.StringWidth(l))
	}
	boxWidth += 4
	boxHeight := len(lines) + 2
	x0 := max(0, (width-boxWidth)/2)
	y0 := max(top, top+(bottom-top-boxHeight)/2)

	style := activeTheme.GetStyle(theme.StyleHelp)
	for y := y0; y < y0+boxHeight && y < bottom; y++ {
		for x := x0; x < x0+boxWidth && x < width; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	for i, l := range lines {
		y := y0 + 1 + i
		if y >= bottom {
			break
		}
		drawText(t.screen, x0+2, y, min(width, x0+boxWidth), l, style)
	}
}

// DrawContextMenu draws items in a box anchored at the cell below and right
// of at, shifted left or up to stay inside the page area.
func DrawContextMenu(t *TUI, at Cell, items []string, top, bottom int, activeTheme *theme.Theme) {
	width, _ := t.Size()
	boxWidth := 0
	for _, item := range items {
		boxWidth = max(boxWidth, uniseg.StringWidth(item))
	}
	boxWidth += 2
	boxHeight := len(items)

	x0 := min(at.X+1, width-boxWidth)
	y0 := min(at.Y+1, bottom-boxHeight)
	x0 = max(0, x0)
	y0 = max(top, y0)

	style := activeTheme.GetStyle(theme.StyleHelp)
	for i, item := range items {
		y := y0 + i
		if y >= bottom {
			break
		}
		for x := x0; x < x0+boxWidth && x < width; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
		drawText(t.screen, x0+1, y, min(width, x0+boxWidth), item, style)
	}
}
