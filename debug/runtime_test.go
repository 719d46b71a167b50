package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestStartRuntimeLogger_LogsUntilCancelled(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	ctx, cancel := context.WithCancel(context.Background())

	done := StartRuntimeLogger(ctx, 5*time.Millisecond, logger)
	require.Eventually(t, func() bool {
		return strings.Contains(buf.String(), `"msg":"runtime"`)
	}, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runtime logger did not stop")
	}

	var line map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(l, `"msg":"runtime"`) {
			require.NoError(t, json.Unmarshal([]byte(l), &line))
			break
		}
	}
	assert.Greater(t, line["goroutines"], 0.0)
	assert.Contains(t, line, "heap_alloc")
}
