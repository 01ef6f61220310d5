package harness

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// TestLogger receives progress events as scenarios run
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is a scenario's debug output, handed to TestFinished
type CapturedOutput []CapturedMessage

// Dump writes one timestamped line per message
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n", prefix, m.Time.Format(timestampFormat), m.Message)
	}
}

// debugBuffer holds a scenario's Debug lines until it finishes. A scenario may
// write to it from helper goroutines.
type debugBuffer struct {
	lock   sync.Mutex
	output CapturedOutput
}

func (b *debugBuffer) add(message string) {
	b.lock.Lock()
	b.output = append(b.output, CapturedMessage{Time: time.Now(), Message: message})
	b.lock.Unlock()
}

func (b *debugBuffer) snapshot() CapturedOutput {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append(CapturedOutput(nil), b.output...)
}
