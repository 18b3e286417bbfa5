package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rsilvagit/cyjobs/internal/model"
)

// ResultWriter defines how matched jobs are presented or stored.
type ResultWriter interface {
	WriteJobs(jobs []model.Job) error
}

// ConsolePrinter writes jobs as an aligned table.
type ConsolePrinter struct {
	w io.Writer
}

func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	return &ConsolePrinter{w: w}
}

func (cp *ConsolePrinter) WriteJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(cp.w, "No jobs found.")
		return err
	}

	w := tabwriter.NewWriter(cp.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tKEYWORDS\tDATE\tLINK")
	fmt.Fprintln(w, "-----\t--------\t----\t----")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", j.DisplayTitle(), j.KeywordList(), j.PostedDate, j.Link)
	}
	return w.Flush()
}
