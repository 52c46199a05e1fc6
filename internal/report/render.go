package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/gestao-mpe/gmpe/internal/config"
	"github.com/gestao-mpe/gmpe/internal/model"
)

const wordWrap = 100

// Render formats markdown for the terminal. StylePlain returns it as is,
// StyleAuto follows theme, and any other value names a glamour style.
func Render(markdown, style string, theme model.Theme) (string, error) {
	switch style {
	case config.StylePlain:
		return markdown, nil
	case config.StyleAuto, "":
		style = string(model.NormalizeTheme(string(theme)))
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
