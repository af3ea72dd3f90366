package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestLogBufferRecentAndSpill(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "logs", "spill.log")
	buffer, err := NewLogBuffer(3, spillFile)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, buffer.Add(LogEntry{Level: "info", Message: fmt.Sprintf("m%d", i)}))
	}

	recent := buffer.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "m2", recent[0].Message)
	assert.Equal(t, "m4", recent[2].Message)

	last := buffer.Recent(2)
	require.Len(t, last, 2)
	assert.Equal(t, "m3", last[0].Message)

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, uint64(2), spilled)

	require.NoError(t, buffer.Close())
	assert.Equal(t, 5, countLines(t, spillFile))
}

func TestLogBufferRejectsBadSize(t *testing.T) {
	_, err := NewLogBuffer(0, filepath.Join(t.TempDir(), "spill.log"))
	assert.Error(t, err)
}

func TestTUILoggerWritesIntoBuffer(t *testing.T) {
	buffer, err := NewLogBuffer(10, filepath.Join(t.TempDir(), "spill.log"))
	require.NoError(t, err)
	defer buffer.Close()

	log, err := CreateTUILoggerWithBuffer(false, buffer)
	require.NoError(t, err)

	log.Named("presale").Info("Transaction sent", zap.String("signature", "abc123"))
	log.Debug("hidden")

	recent := buffer.Recent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, "Transaction sent", recent[0].Message)
	assert.Equal(t, "info", recent[0].Level)
	assert.Equal(t, "presale", recent[0].Logger)
	assert.Equal(t, "abc123", recent[0].Fields["signature"])
	assert.False(t, recent[0].Timestamp.IsZero())
}

func TestTUILoggerRequiresBuffer(t *testing.T) {
	_, err := CreateTUILoggerWithBuffer(false, nil)
	assert.Error(t, err)
}

func TestLogBufferConcurrentAccess(t *testing.T) {
	buffer, err := NewLogBuffer(50, filepath.Join(t.TempDir(), "spill.log"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = buffer.Add(LogEntry{Message: fmt.Sprintf("g%d-%d", id, j)})
				_ = buffer.Recent(5)
			}
		}(g)
	}
	wg.Wait()

	total, spilled := buffer.GetStats()
	assert.Equal(t, uint64(800), total)
	assert.Equal(t, uint64(750), spilled)
	require.NoError(t, buffer.Sync())
	require.NoError(t, buffer.Close())
}
