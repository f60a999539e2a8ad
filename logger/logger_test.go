package logger

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func entry(msg string) LogEntry {
	return LogEntry{Level: "info", Message: msg}
}

func TestLogBufferWraps(t *testing.T) {
	b := NewLogBuffer(3)
	for i := 1; i <= 5; i++ {
		b.Add(entry(fmt.Sprint(i)))
	}

	all := b.GetAll()
	if len(all) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(all))
	}
	for i, want := range []string{"3", "4", "5"} {
		if all[i].Message != want {
			t.Errorf("Expected entry %d to be %s, got %s", i, want, all[i].Message)
		}
	}
}

func TestLogBufferResize(t *testing.T) {
	b := NewLogBuffer(5)
	for i := 1; i <= 5; i++ {
		b.Add(entry(fmt.Sprint(i)))
	}

	b.Resize(2)
	all := b.GetAll()
	if len(all) != 2 || all[0].Message != "4" || all[1].Message != "5" {
		t.Errorf("Expected [4 5] after shrink, got %v", all)
	}

	b.Resize(4)
	b.Add(entry("6"))
	all = b.GetAll()
	if len(all) != 3 || all[2].Message != "6" {
		t.Errorf("Expected [4 5 6] after grow, got %v", all)
	}
}

func TestLogBufferFiltered(t *testing.T) {
	b := NewLogBuffer(10)
	b.Add(LogEntry{Level: "info", Message: "a"})
	b.Add(LogEntry{Level: "warning", Message: "b"})
	b.Add(LogEntry{Level: "error", Message: "c"})

	got := b.GetFiltered("warning", "error")
	if len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Errorf("Expected [b c], got %v", got)
	}

	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Expected empty buffer, got %d", b.Len())
	}
}

func TestBufferedHookRecordsComponent(t *testing.T) {
	l := &Logger{Logger: logrus.New(), hook: NewBufferedHook(10)}
	l.SetOutput(io.Discard)
	l.AddHook(l.hook)

	l.Component("overlay").Warn("ladder step failed")
	l.Info("plain")

	recent := l.Recent(1)
	if len(recent) != 1 || recent[0].Message != "plain" {
		t.Fatalf("Expected only the newest entry, got %v", recent)
	}

	warn := l.Recent(0, "warning")
	if len(warn) != 1 || warn[0].Component != "overlay" {
		t.Errorf("Expected overlay warning, got %v", warn)
	}
}
