// Package journal keeps the append-only run log (code_log.txt). It is a
// run artifact, not application logging: every pipeline stage appends
// one timestamped line, and entries survive across runs.
package journal

import (
	"fmt"
	"log"
	"os"
	"time"
)

// stampLayout is strictly numeric and sorts lexicographically. Month
// names are deliberately avoided: they are locale-dependent and
// ambiguous against the day field.
const stampLayout = "2006-01-02-15:04:05"

// Journal appends timestamped progress entries to a file.
type Journal struct {
	Path string
	now  func() time.Time
}

// New returns a Journal writing to path. The file is created on first
// append.
func New(path string) *Journal {
	return &Journal{Path: path, now: time.Now}
}

// Append writes one timestamped entry. A journal failure is reported on
// the process log and swallowed; it never fails the run.
func (j *Journal) Append(message string) {
	f, err := os.OpenFile(j.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("[WARN] journal open: %v", err)
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s : %s\n", j.now().Format(stampLayout), message); err != nil {
		log.Printf("[WARN] journal write: %v", err)
	}
}
