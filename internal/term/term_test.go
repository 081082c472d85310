package term

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNotATerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("a regular file is not a terminal")
	}
}

func TestPaint(t *testing.T) {
	p := NewPainter(&bytes.Buffer{})
	if got := p.Paint(Red, "fail"); got != "fail" {
		t.Errorf("disabled painter colored text: %q", got)
	}
	p = &Painter{enabled: true}
	if got := p.Paint(Green, "ok"); got != "\x1b[32mok\x1b[0m" {
		t.Errorf("Paint = %q", got)
	}
}
