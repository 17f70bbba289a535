package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// rawMarkdown disables the terminal rendering of markdown, see printMarkdown.
var rawMarkdown = os.Getenv("SREP_RAW_MARKDOWN") != ""

// printMarkdown renders md for the terminal, or prints it as is when it cannot be rendered.
func printMarkdown(md string) {
	if rawMarkdown {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
