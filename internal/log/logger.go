package log

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"
)

// Logger records congestion-control events as key/value pairs. The default
// logger is a no-op so hooks on the packet-processing path pay nothing
// unless logging was explicitly enabled.
type Logger interface {
	Log(event string, params ...any)
	Close()
}

type FileLogger struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

func (f *FileLogger) Log(event string, params ...any) {
	var pairs []string
	for i := 0; i+1 < len(params); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", params[i], params[i+1]))
	}

	log := fmt.Sprintf("timestamp=%s event=%s %s\n", time.Now().Format(time.RFC3339), event, strings.Join(pairs, " "))
	f.mu.Lock()
	_, _ = f.writer.WriteString(log)
	f.mu.Unlock()
}

func (f *FileLogger) Close() {
	f.mu.Lock()
	_ = f.writer.Flush()
	_ = f.file.Close()
	f.mu.Unlock()
}

// NewLogger returns a file-backed logger when the STEADY_LOG_DIR environment
// variable points at a directory, and a no-op logger otherwise. label keeps
// log files of different connections apart.
func NewLogger(label string) Logger {
	dir := os.Getenv("STEADY_LOG_DIR")
	if dir == "" {
		return NopLogger{}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return NopLogger{}
	}

	b := make([]byte, 8)
	_, _ = rand.Read(b)
	file, err := os.OpenFile(path.Join(dir, fmt.Sprintf("%s-%s.log", label, hex.EncodeToString(b))), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return NopLogger{}
	}
	return &FileLogger{file: file, writer: bufio.NewWriter(file)}
}

type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Log(_ string, _ ...any) {}
func (NopLogger) Close()                 {}
