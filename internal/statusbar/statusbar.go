// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/mgesture/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation
)

// Config defines the behavior of the status bar.
type Config struct {
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		MessageTimeout: 4 * time.Second,
	}
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields
	now    func() time.Time

	// Content fields (updated externally)
	configSource string
	gestureCount int
	tracking     bool
	sequence     string
	lastGesture  string

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
	tempIsError     bool
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
		now:    time.Now,
	}
}

// SetConfigInfo updates where the active gesture table came from and its size.
func (sb *StatusBar) SetConfigInfo(source string, gestures int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.configSource = source
	sb.gestureCount = gestures
}

// SetTracking updates the in-progress gesture indicator.
func (sb *StatusBar) SetTracking(tracking bool, sequence string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tracking = tracking
	sb.sequence = sequence
}

// SetLastGesture records the most recently recognised gesture.
func (sb *StatusBar) SetLastGesture(summary string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.lastGesture = summary
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.setMessage(false, format, args...)
}

// SetErrorMessage displays an error message for a configured duration.
func (sb *StatusBar) SetErrorMessage(format string, args ...interface{}) {
	sb.setMessage(true, format, args...)
}

func (sb *StatusBar) setMessage(isError bool, format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = sb.now()
	sb.tempIsError = isError
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
	sb.tempIsError = false
}

// getDefaultDisplayText builds the default status line text.
// Assumes the lock is held.
func (sb *StatusBar) getDefaultDisplayText() string {
	source := sb.configSource
	if source == "" {
		source = "loading"
	}
	text := fmt.Sprintf("gestures: %d (%s)", sb.gestureCount, source)
	if sb.tracking {
		seq := sb.sequence
		if seq == "" {
			seq = "…"
		}
		text += " -- TRACKING " + seq
	} else if sb.lastGesture != "" {
		text += " -- last: " + sb.lastGesture
	}
	return text + " -- ? help"
}

// Text returns the line Draw would render and the style name to render it in.
func (sb *StatusBar) Text() (text, styleName string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	isTempMsgActive := !sb.tempMessageTime.IsZero() && sb.now().Sub(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
		sb.tempIsError = false
	}

	switch {
	case isTempMsgActive && sb.tempIsError:
		return sb.tempMessage, theme.StyleStatusBarError
	case isTempMsgActive:
		return sb.tempMessage, theme.StyleStatusBarMessage
	default:
		return sb.getDefaultDisplayText(), theme.StyleStatusBar
	}
}

// Draw renders the status bar onto the last screen line using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, activeTheme *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	text, styleName := sb.Text()
	style := activeTheme.GetStyle(styleName)

	// Fill background first
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}

	// Draw text using uniseg for width calculation
	gr := uniseg.NewGraphemes(text)
	currentX := 0
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > width {
			break // Stop if cluster doesn't fit
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
}
