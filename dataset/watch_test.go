package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/heatmap"
)

func TestLineReaderHoldsPartialLine(t *testing.T) {
	src := &growingReader{}
	lr := newLineReader(src)
	buf := make([]byte, 64)

	src.data = "1,2,"
	if n, err := lr.Read(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("Read() = %d, %v; want 0, EOF", n, err)
	}

	src.data = "3\n"
	n, err := lr.Read(buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := string(buf[:n]); got != "1,2,3\n" {
		t.Errorf("Read() = %q, want %q", got, "1,2,3\n")
	}
}

func TestLineReaderSmallBuffer(t *testing.T) {
	lr := newLineReader(strings.NewReader("abcdef\n"))
	var out []byte
	buf := make([]byte, 4)
	for {
		n, err := lr.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			break
		}
	}
	if string(out) != "abcdef\n" {
		t.Errorf("got %q", out)
	}
}

// growingReader returns its pending data once, then EOF until refilled.
type growingReader struct {
	data string
}

func (g *growingReader) Read(b []byte) (int, error) {
	if g.data == "" {
		return 0, io.EOF
	}
	n := copy(b, g.data)
	g.data = g.data[n:]
	return n, nil
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.csv")
	if err := os.WriteFile(path, []byte("x,y,value\n1,1,1\nbad,row,here\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []heatmap.Point, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, Columns{}, func(p []heatmap.Point) error {
			batches <- p
			return nil
		})
	}()

	first := receive(t, batches)
	if len(first) != 1 || first[0] != heatmap.Pt(1, 1, 1) {
		t.Fatalf("first batch = %+v", first)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("2,2,2\n3,3,3\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var second []heatmap.Point
	for len(second) < 2 {
		second = append(second, receive(t, batches)...)
	}
	if second[0] != heatmap.Pt(2, 2, 2) || second[1] != heatmap.Pt(3, 3, 3) {
		t.Errorf("second batch = %+v", second)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.csv")
	if err := os.WriteFile(path, []byte("x,y,value\n1,1,1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	err := Watch(context.Background(), path, Columns{}, func([]heatmap.Point) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("Watch() error = %v, want %v", err, stop)
	}
}

func TestWatchMissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "none.csv"), Columns{}, func([]heatmap.Point) error { return nil })
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func receive(t *testing.T, ch <-chan []heatmap.Point) []heatmap.Point {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for batch")
		return nil
	}
}
