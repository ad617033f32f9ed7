package tui

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/thicket"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Light or dark, from the terminal background
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Report renders a search result as markdown.
func Report(res *thicket.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title(res.Task))
	fmt.Fprintf(&sb, "**Search** `%s` · **Status** `%s` · **Time** %s\n\n", res.Search, res.Status, res.Elapsed.Round(time.Microsecond))

	if res.Solved() {
		fmt.Fprintf(&sb, "## Plan (%d steps, cost %d)\n\n", len(res.Steps), res.Cost)
		sb.WriteString("| # | Operator | Cost |\n|---:|---|---:|\n")
		for i, step := range res.Steps {
			fmt.Fprintf(&sb, "| %d | %s | %d |\n", i+1, step.Name, step.Cost)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("> No plan found.\n\n")
	}

	sb.WriteString("## Statistics\n\n| Counter | Value |\n|---|---:|\n")
	stats := res.Statistics.Map()
	for _, k := range slices.Sorted(maps.Keys(stats)) {
		fmt.Fprintf(&sb, "| %s | %d |\n", k, stats[k])
	}
	return sb.String()
}

// PrintReport writes the report, styled when w is a terminal.
func PrintReport(w io.Writer, res *thicket.Result) error {
	md := Report(res)
	if IsTerminal(w) {
		out, err := NewRenderer()(md)
		if err == nil {
			md = out
		}
	}
	_, err := io.WriteString(w, md)
	return err
}

func title(name string) string {
	if name == "" {
		return "Search"
	}
	return name
}
