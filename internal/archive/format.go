package archive

import (
	"unicode"
	"unicode/utf8"
)

// MetaBadmanLabel overrides the entry type when a figure is a meta-badman.
const MetaBadmanLabel = "Meta-Badman"

// DefaultModalityColor is returned for modalities without a mapping.
const DefaultModalityColor = "#6c757d"

var modalityColors = map[string]string{
	"detective":         "#3388ff",
	"revolutionary":     "#dc3545",
	"folk_hero_outlaw":  "#d4af37",
	"gangsta_pimp":      "#6f42c1",
	"superhero_villain": "#20c997",
}

// FormatFigureType returns the display label for an entry type: the
// meta-badman label when isMetaBadman is set, otherwise figureType with its
// first character upper-cased.
func FormatFigureType(figureType string, isMetaBadman bool) string {
	if isMetaBadman {
		return MetaBadmanLabel
	}
	if figureType == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(figureType)
	if r == utf8.RuneError && size == 1 {
		return figureType
	}
	return string(unicode.ToUpper(r)) + figureType[size:]
}

// ResolveModalityColor maps a modality tag to its hex display color.
func ResolveModalityColor(modality string) string {
	if c, ok := modalityColors[modality]; ok {
		return c
	}
	return DefaultModalityColor
}

// Modalities returns the modality tags that have a dedicated color.
func Modalities() []string {
	return []string{"detective", "revolutionary", "folk_hero_outlaw", "gangsta_pimp", "superhero_villain"}
}
