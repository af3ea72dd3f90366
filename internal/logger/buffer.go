package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogEntry – одна запись лога в кольцевом буфере.
type LogEntry struct {
	Timestamp time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"msg"`
	Logger    string                 `json:"logger,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer хранит последние записи для экрана TUI и вытесняет старые в файл.
// Реализует io.Writer, поэтому подключается к zap как WriteSyncer.
type LogBuffer struct {
	mu          sync.Mutex
	ring        []LogEntry
	next        int
	size        int
	spillFile   *os.File
	spillWriter *bufio.Writer

	totalEntries   uint64
	spilledEntries uint64
}

// NewLogBuffer создаёт буфер на maxSize записей с файлом вытеснения spillFilePath.
func NewLogBuffer(maxSize int, spillFilePath string) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("invalid buffer size: %d", maxSize)
	}
	if err := os.MkdirAll(filepath.Dir(spillFilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	spillFile, err := os.OpenFile(spillFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open spill file: %w", err)
	}

	return &LogBuffer{
		ring:        make([]LogEntry, maxSize),
		spillFile:   spillFile,
		spillWriter: bufio.NewWriter(spillFile),
	}, nil
}

// Write принимает одну JSON-строку от zap encoder.
func (lb *LogBuffer) Write(p []byte) (int, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p, &raw); err != nil {
		return 0, fmt.Errorf("failed to decode log line: %w", err)
	}

	entry := LogEntry{Fields: make(map[string]interface{})}
	for key, value := range raw {
		switch key {
		case "time":
			if s, ok := value.(string); ok {
				entry.Timestamp, _ = time.Parse(time.RFC3339Nano, s)
			}
		case "level":
			entry.Level, _ = value.(string)
		case "msg":
			entry.Message, _ = value.(string)
		case "logger":
			entry.Logger, _ = value.(string)
		default:
			entry.Fields[key] = value
		}
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := lb.Add(entry); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Add добавляет запись; при заполнении самая старая уходит в файл.
func (lb *LogBuffer) Add(entry LogEntry) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.size == len(lb.ring) {
		if err := lb.spill(lb.ring[lb.next]); err != nil {
			return err
		}
		lb.spilledEntries++
	} else {
		lb.size++
	}

	lb.ring[lb.next] = entry
	lb.next = (lb.next + 1) % len(lb.ring)
	lb.totalEntries++
	return nil
}

func (lb *LogBuffer) spill(entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := lb.spillWriter.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write to spill file: %w", err)
	}
	return nil
}

// Recent возвращает до limit последних записей, от старых к новым.
func (lb *LogBuffer) Recent(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	count := lb.size
	if limit > 0 && limit < count {
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	start := (lb.next - count + len(lb.ring)) % len(lb.ring)
	for i := 0; i < count; i++ {
		logs = append(logs, lb.ring[(start+i)%len(lb.ring)])
	}
	return logs
}

// Sync сбрасывает файл вытеснения на диск.
func (lb *LogBuffer) Sync() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush spill writer: %w", err)
	}
	return lb.spillFile.Sync()
}

// Close записывает оставшиеся в памяти записи в файл и закрывает его.
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	start := (lb.next - lb.size + len(lb.ring)) % len(lb.ring)
	for i := 0; i < lb.size; i++ {
		if err := lb.spill(lb.ring[(start+i)%len(lb.ring)]); err != nil {
			return err
		}
	}
	lb.size = 0

	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush during close: %w", err)
	}
	return lb.spillFile.Close()
}

// GetStats returns buffer statistics.
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.spilledEntries
}
