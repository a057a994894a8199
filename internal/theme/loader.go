// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// styleFile is one [styles.<Name>] table. Pointers tell "unset" from false.
type styleFile struct {
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Reverse   *bool   `toml:"reverse"`
}

// themeFile is a pad theme on disk:
//
//	name = "Ocean"
//	base = "Gesture Dark"
//
//	[palette]
//	accent = "#61afef"
//
//	[styles.Match]
//	fg = "accent"
//	bold = true
type themeFile struct {
	Name    string               `toml:"name"`
	Base    string               `toml:"base"`
	IsDark  *bool                `toml:"is_dark"`
	Palette map[string]string    `toml:"palette"`
	Styles  map[string]styleFile `toml:"styles"`
}

// BaseLookup finds a theme a file may build on.
type BaseLookup func(name string) (*Theme, bool)

// LoadThemeFromFile reads a pad theme. The theme starts as a copy of its base
// (the built-in dark or light theme unless base names another) and each
// [styles.<Name>] table adjusts one of the styles the pad draws.
func LoadThemeFromFile(filePath string, lookup BaseLookup) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}
	fallbackName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	theme, err := ParseTheme(data, fallbackName, lookup)
	if err != nil {
		return nil, fmt.Errorf("theme file '%s': %w", filePath, err)
	}
	logger.Debugf("Loaded theme '%s' from '%s'", theme.Name, filePath)
	return theme, nil
}

// ParseTheme decodes a theme document. fallbackName is used when the
// document has no name.
func ParseTheme(data []byte, fallbackName string, lookup BaseLookup) (*Theme, error) {
	var file themeFile
	metadata, err := toml.Decode(string(data), &file)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if file.Name == "" {
		file.Name = fallbackName
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme '%s': unrecognized keys %v", file.Name, undecoded)
	}

	base := resolveBase(file, lookup)
	palette, err := parsePalette(file.Palette)
	if err != nil {
		return nil, err
	}

	theme := &Theme{
		Name:   file.Name,
		IsDark: base.IsDark,
		Styles: make(map[string]tcell.Style, len(styleNames)),
	}
	if file.IsDark != nil {
		theme.IsDark = *file.IsDark
	}
	for name, style := range base.Styles {
		theme.Styles[name] = style
	}

	for name, def := range file.Styles {
		canonical, ok := canonicalStyleName(name)
		if !ok {
			logger.Warnf("Theme '%s': unknown style '%s', expected one of %s", theme.Name, name, strings.Join(styleNames, ", "))
			continue
		}
		style, err := def.apply(base.GetStyle(canonical), palette)
		if err != nil {
			logger.Warnf("Theme '%s': style '%s' skipped: %v", theme.Name, canonical, err)
			continue
		}
		theme.Styles[canonical] = style
	}
	return theme, nil
}

func resolveBase(file themeFile, lookup BaseLookup) *Theme {
	fallback := &GestureDark
	if file.IsDark != nil && !*file.IsDark {
		fallback = &GestureLight
	}
	if file.Base == "" {
		return fallback
	}
	if lookup != nil {
		if base, ok := lookup(file.Base); ok {
			return base
		}
	}
	logger.Warnf("Theme '%s': base theme '%s' not found, using '%s'", file.Name, file.Base, fallback.Name)
	return fallback
}

func parsePalette(raw map[string]string) (map[string]tcell.Color, error) {
	palette := make(map[string]tcell.Color, len(raw))
	for name, value := range raw {
		color, err := parseColorString(value)
		if err != nil {
			return nil, fmt.Errorf("palette entry '%s': %w", name, err)
		}
		palette[strings.ToLower(name)] = color
	}
	return palette, nil
}

// canonicalStyleName matches name against the drawn styles ignoring case.
func canonicalStyleName(name string) (string, bool) {
	for _, known := range styleNames {
		if strings.EqualFold(known, name) {
			return known, true
		}
	}
	return "", false
}

func (def styleFile) apply(style tcell.Style, palette map[string]tcell.Color) (tcell.Style, error) {
	if def.Fg != nil {
		color, err := resolveColor(*def.Fg, palette)
		if err != nil {
			return style, fmt.Errorf("foreground: %w", err)
		}
		style = style.Foreground(color)
	}
	if def.Bg != nil {
		color, err := resolveColor(*def.Bg, palette)
		if err != nil {
			return style, fmt.Errorf("background: %w", err)
		}
		style = style.Background(color)
	}
	if def.Bold != nil {
		style = style.Bold(*def.Bold)
	}
	if def.Italic != nil {
		style = style.Italic(*def.Italic)
	}
	if def.Underline != nil {
		style = style.Underline(*def.Underline)
	}
	if def.Reverse != nil {
		style = style.Reverse(*def.Reverse)
	}
	return style, nil
}

// resolveColor looks value up in the palette before parsing it as a color.
func resolveColor(value string, palette map[string]tcell.Color) (tcell.Color, error) {
	if color, ok := palette[strings.ToLower(strings.TrimSpace(value))]; ok {
		return color, nil
	}
	return parseColorString(value)
}

// parseColorString converts "#rrggbb", a tcell color name, "reset" or
// "default" to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color '%s', want #rrggbb", s)
		}
		val, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	}

	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if color, ok := tcell.ColorNames[s]; ok {
		return color, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color '%s'", s)
}
