package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestSimpleProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(4)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			progress.Increment()
		}()
	}
	wg.Wait()
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "(4/4)") {
		t.Errorf("expected final count in output, got %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Finish() should end the progress line")
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(0)
	progress.Increment()
	progress.Finish()

	if strings.Contains(buf.String(), "Validating") {
		t.Errorf("zero total should not render a bar, got %q", buf.String())
	}
}
