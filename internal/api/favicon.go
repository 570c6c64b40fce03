package api

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"
)

const defaultFaviconBackground = "#3b82f6"

// GenerateFaviconSVG draws a rounded square with a single letter.
func GenerateFaviconSVG(letter, background string) string {
	if background == "" {
		background = defaultFaviconBackground
	}
	if letter == "" {
		letter = "L"
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect width="32" height="32" rx="6" fill="%s"/>`+
			`<text x="50%%" y="50%%" dominant-baseline="central" text-anchor="middle" fill="white" font-family="system-ui, -apple-system, sans-serif" font-weight="600" font-size="20">%s</text></svg>`,
		html.EscapeString(background), html.EscapeString(letter),
	)
}

// GetFavicon serves a custom favicon file if one exists, otherwise one
// generated from the active board's name.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")

	if h.faviconPath != "" {
		if data, err := os.ReadFile(h.faviconPath); err == nil {
			_, _ = w.Write(data)
			return
		}
	}

	letter := ""
	if board, ok := h.boards.ActiveBoard(); ok {
		if first, _ := utf8.DecodeRuneInString(strings.TrimSpace(board.Name)); first != utf8.RuneError {
			letter = strings.ToUpper(string(first))
		}
	}
	_, _ = w.Write([]byte(GenerateFaviconSVG(letter, "")))
}
