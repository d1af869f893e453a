package storage

import (
	"bytes"
	"errors"
	"testing"
)

func TestFuncAdapter(t *testing.T) {
	var got string
	var s Storage = Func(func(data string) error {
		got = data
		return nil
	})
	if err := s.Save("payload"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got != "payload" {
		t.Errorf("got %q", got)
	}
}

func TestScopeOf(t *testing.T) {
	mem := NewMemory()
	if err := ScopeOf(mem, "doc-1").Save("one"); err != nil {
		t.Fatal(err)
	}
	if saves := mem.Saves("doc-1"); len(saves) != 1 || saves[0] != "one" {
		t.Errorf("saves = %v", saves)
	}

	errBoom := errors.New("boom")
	plain := Func(func(string) error { return errBoom })
	if err := ScopeOf(plain, "x").Save(""); !errors.Is(err, errBoom) {
		t.Errorf("unscoped backend should be returned as-is, err = %v", err)
	}
}

func TestMemoryRecordsChecksum(t *testing.T) {
	mem := NewMemory()
	_ = mem.Save("abc")
	_ = mem.Scope("other").Save("")
	all := mem.All()
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all[0].Name != DefaultName || all[0].Size != 3 || all[0].Checksum == "" {
		t.Errorf("unexpected record %+v", all[0])
	}
	if all[1].Name != "other" || all[1].Body != "" {
		t.Errorf("unexpected record %+v", all[1])
	}
}

func TestWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Scope("intro").Save("Hello\n\tthere"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := "--- intro ---\nHello\n\tthere\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriterPropagatesError(t *testing.T) {
	if err := NewWriter(failingWriter{}).Save("x"); err == nil {
		t.Error("expected write error")
	}
}
