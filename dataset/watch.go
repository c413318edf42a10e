package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/heatmap"
)

// Watch follows a CSV file that is being appended to. Every time the
// reader catches up with the end of the file, the points read since the
// previous call are passed to fn. Rows that fail to parse are logged and
// skipped. Watch returns when ctx is done, when fn returns an error, or
// when the file is removed or renamed.
func Watch(ctx context.Context, path string, cols Columns, fn func([]heatmap.Point) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("dataset: watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("dataset: watch %s: %w", path, err)
	}

	cols = cols.withDefaults()
	cr := csv.NewReader(newLineReader(f))
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var (
		idx   []int
		batch []heatmap.Point
		line  int
	)
readLoop:
	for {
		rec, err := cr.Read()
		switch {
		case err == nil:
			line++
			if idx == nil {
				t := Table{Header: rec}
				if idx, err = t.indices(cols.X, cols.Y, cols.Value); err != nil {
					return err
				}
				continue
			}
			if blank(rec) {
				continue
			}
			v, err := numbers(rec, idx)
			if err != nil {
				heatmap.Logger().Warn("dataset: skipping row", "file", path, "line", line, "err", err)
				continue
			}
			batch = append(batch, heatmap.Point{X: v[0], Y: v[1], Value: v[2]})
		case errors.Is(err, io.EOF):
			if len(batch) > 0 {
				if err := fn(batch); err != nil {
					return err
				}
				batch = nil
			}
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
						heatmap.Logger().Info("dataset: watched file went away", "file", path, "op", ev.Op.String())
						return nil
					}
					if ev.Has(fsnotify.Write) {
						continue readLoop
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					return fmt.Errorf("dataset: watch %s: %w", path, err)
				}
			}
		default:
			line++
			heatmap.Logger().Warn("dataset: malformed csv record", "file", path, "err", err)
		}
	}
}

// lineReader hands out only newline-terminated lines. A trailing line that
// is still being written is held back until its newline arrives, so the
// CSV reader never sees half a record.
type lineReader struct {
	r       *bufio.Reader
	partial []byte
	pending []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if err != nil {
			l.partial = append(l.partial, line...)
			return 0, err
		}
		if len(l.partial) > 0 {
			line = append(l.partial, line...)
			l.partial = nil
		}
		l.pending = line
	}
	n := copy(b, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
