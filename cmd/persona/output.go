package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"text/tabwriter"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/redact"
)

// consoleNotifier prints presenter notices with credentials redacted. Info
// goes to out; warnings and errors go to errOut and mark the invocation as
// failed.
type consoleNotifier struct {
	out    io.Writer
	errOut io.Writer
	bad    atomic.Bool
}

func newConsoleNotifier(out, errOut io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out, errOut: errOut}
}

func (n *consoleNotifier) Info(msg string) {
	fmt.Fprintln(n.out, redact.String(msg))
}

func (n *consoleNotifier) Warn(msg string) {
	n.bad.Store(true)
	fmt.Fprintln(n.errOut, "warning:", redact.String(msg))
}

func (n *consoleNotifier) Error(msg string) {
	n.bad.Store(true)
	fmt.Fprintln(n.errOut, "error:", redact.String(msg))
}

func (n *consoleNotifier) failed() bool {
	return n.bad.Load()
}

// personView is the printed form of a person.
type personView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date,omitempty"`
}

func viewOf(p domain.Person) personView {
	v := personView{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName}
	if !p.BirthDate.IsZero() {
		v.BirthDate = p.BirthDate.Format(domain.DateLayout)
	}
	return v
}

// printPersons writes persons as a table, or as a JSON array when asJSON
// is set.
func printPersons(w io.Writer, persons []domain.Person, asJSON bool) error {
	views := make([]personView, len(persons))
	for i, p := range persons {
		views[i] = viewOf(p)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFIRST NAME\tLAST NAME\tBIRTH DATE")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", v.ID, v.FirstName, v.LastName, v.BirthDate)
	}
	return tw.Flush()
}

// lockedWriter serializes writes from worker logs and UI notices that
// share one stream.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
