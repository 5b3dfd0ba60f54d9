package logging

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a write out to every writer. A failing writer does not
// stop the others; all errors are returned together.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	cw := &CombinedWriter{}
	for _, w := range writers {
		if w != nil {
			cw.Writers = append(cw.Writers, w)
		}
	}
	return cw
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	ok := false
	for _, w := range cw.Writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		ok = true
	}
	if !ok && err != nil {
		return 0, err
	}
	return len(p), err
}
