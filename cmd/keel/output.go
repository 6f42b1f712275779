package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/emberline/keel/internal/client"
	"github.com/emberline/keel/internal/model"
)

// shouldUseColor returns true when ANSI colors should be used on stdout.
// It respects NO_COLOR, CLICOLOR_FORCE, CLICOLOR, and TTY detection.
func shouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(os.Getenv("CLICOLOR")) == "0" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func dim(s string) string {
	if shouldUseColor() {
		return "\x1b[2m" + s + "\x1b[0m"
	}
	return s
}

func printExecuteResult(res *client.ExecuteResult) {
	if jsonOutput {
		printJSON(res.Events)
		return
	}
	if len(res.Events) == 0 {
		fmt.Println(res.Message)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GLOBAL\tSEQ\tSTREAM\tTYPE\tDATA")
	for _, ev := range res.Events {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", ev.GlobalID, ev.Sequence, ev.StreamName, ev.EventType, ev.Data)
	}
	w.Flush() //nolint:errcheck
}

func printEvent(ev *model.Event) {
	if jsonOutput {
		printJSON(ev)
		return
	}
	ts := ev.Time.Format(time.RFC3339)
	fmt.Printf("%s %d %s %s %s\n", dim(ts), ev.GlobalID, ev.StreamName, ev.EventType, ev.Data)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
