package cmd

import (
	"fmt"
	"io"

	"github.com/mohammad-safakhou/grocer/internal/assistant"
)

// terminalProgress prints turn status lines the way the chat shows them
type terminalProgress struct {
	out io.Writer
	err io.Writer
}

func (p terminalProgress) QueryRewritten(query string) {
	fmt.Fprintf(p.out, "Searching with query: %s\n", query)
}

func (p terminalProgress) ScrapeStarted(i, n int, url string) {
	fmt.Fprintf(p.out, "Scraping details from %s (%d/%d)\n", url, i, n)
}

func (p terminalProgress) ScrapeFinished(int, int, string, bool) {}

func (p terminalProgress) Warning(_ string, msg string) {
	fmt.Fprintf(p.err, "warning: %s\n", msg)
}

func printSources(w io.Writer, turn *assistant.Turn) {
	if turn.Results.Len() == 0 {
		return
	}
	fmt.Fprintln(w, "\nSources:")
	for i, r := range turn.Results.Results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, title, r.URL)
	}
}
