package cmd

import (
	"fmt"
	"io"
)

// progress draws a single-line upload percentage.
type progress struct {
	out  io.Writer
	last int
}

func newProgress(out io.Writer) *progress {
	return &progress{out: out, last: -1}
}

func (p *progress) report(sent, total int64) {
	if total <= 0 {
		return
	}
	pct := int(sent * 100 / total)
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(p.out, "\ruploading: %3d%%", pct)
}

func (p *progress) done() {
	if p.last >= 0 {
		fmt.Fprintln(p.out)
	}
}
