package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{" _   _     _      _        _   ", "#34d399"},
		{"| |_| |__ (_) ___| | _____| |_ ", "#10b981"},
		{"| __| '_ \\| |/ __| |/ / _ \\ __|", "#059669"},
		{"| |_| | | | | (__|   <  __/ |_ ", "#047857"},
		{" \\__|_| |_|_|\\___|_|\\_\\___|\\__|", "#065f46"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
