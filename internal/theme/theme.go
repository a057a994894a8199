// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names drawn by the gesture pad.
const (
	StyleDefault          = "Default"
	StyleTabActive        = "Tab.Active"
	StyleTabInactive      = "Tab.Inactive"
	StylePage             = "Page"
	StylePageHeading      = "Page.Heading"
	StyleScrollBar        = "ScrollBar"
	StyleTrail            = "Trail"
	StyleTrailHead        = "Trail.Head"
	StyleSequence         = "Sequence"
	StyleMatch            = "Match"
	StyleNoMatch          = "NoMatch"
	StyleHelp             = "Help"
	StyleStatusBar        = "StatusBar"
	StyleStatusBarMessage = "StatusBarMessage"
	StyleStatusBarError   = "StatusBarError"
)

// styleNames lists every style a theme file may set.
var styleNames = []string{
	StyleDefault, StyleTabActive, StyleTabInactive, StylePage, StylePageHeading,
	StyleScrollBar, StyleTrail, StyleTrailHead, StyleSequence, StyleMatch,
	StyleNoMatch, StyleHelp, StyleStatusBar, StyleStatusBarMessage, StyleStatusBarError,
}

// Theme is a named set of styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the first
// dot and then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	// 1. Try exact name
	if style, ok := t.Styles[name]; ok {
		return style
	}

	// 2. Try base name (part before first dot)
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	// 3. Return "Default" style
	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.DebugTagf("theme", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	// 4. Absolute fallback
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// --- Built-in themes ---

var GestureDark Theme
var GestureLight Theme

func init() {
	// --- Palette ---
	dcBackground := tcell.NewHexColor(0x2a2f38) // Muted dark blue/grey (bars)
	dcForeground := tcell.NewHexColor(0xc5cdd9) // Soft off-white (text)
	dcComment := tcell.NewHexColor(0x5c6370)    // Muted grey (inactive)
	dcOrange := tcell.NewHexColor(0xd19a66)
	dcYellow := tcell.NewHexColor(0xe5c07b)
	dcGreen := tcell.NewHexColor(0x98c379)
	dcCyan := tcell.NewHexColor(0x56b6c2)
	dcBlue := tcell.NewHexColor(0x61afef)
	dcRed := tcell.NewHexColor(0xe06c75)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)
	barStyle := tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground)

	GestureDark = Theme{
		Name:   "Gesture Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:          baseStyle,
			StyleTabActive:        barStyle.Foreground(dcYellow).Bold(true),
			StyleTabInactive:      barStyle.Foreground(dcComment),
			StylePage:             baseStyle,
			StylePageHeading:      baseStyle.Foreground(dcBlue).Bold(true),
			StyleScrollBar:        baseStyle.Foreground(dcComment),
			StyleTrail:            baseStyle.Foreground(dcCyan),
			StyleTrailHead:        baseStyle.Foreground(dcOrange).Bold(true),
			StyleSequence:         baseStyle.Foreground(dcOrange).Bold(true),
			StyleMatch:            baseStyle.Foreground(dcGreen).Bold(true),
			StyleNoMatch:          baseStyle.Foreground(dcRed),
			StyleHelp:             barStyle,
			StyleStatusBar:        barStyle,
			StyleStatusBarMessage: barStyle.Bold(true),
			StyleStatusBarError:   barStyle.Foreground(dcRed).Bold(true),
		},
	}

	lightBase := tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	lightBar := tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)

	GestureLight = Theme{
		Name:   "Gesture Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:          lightBase,
			StyleTabActive:        lightBar.Foreground(tcell.ColorNavy).Bold(true),
			StyleTabInactive:      lightBar.Foreground(tcell.ColorGray),
			StylePageHeading:      lightBase.Foreground(tcell.ColorNavy).Bold(true),
			StyleTrail:            lightBase.Foreground(tcell.ColorTeal),
			StyleTrailHead:        lightBase.Foreground(tcell.ColorMaroon).Bold(true),
			StyleSequence:         lightBase.Foreground(tcell.ColorMaroon).Bold(true),
			StyleMatch:            lightBase.Foreground(tcell.ColorGreen).Bold(true),
			StyleNoMatch:          lightBase.Foreground(tcell.ColorRed),
			StyleStatusBar:        lightBar,
			StyleStatusBarMessage: lightBar.Bold(true),
			StyleStatusBarError:   lightBar.Foreground(tcell.ColorRed).Bold(true),
		},
	}
}
