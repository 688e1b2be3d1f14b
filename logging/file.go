package logging

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileName is the active log file inside the log directory.
const FileName = "pricing-ui.log"

// FileOptions bounds a FileWriter. Zero values fall back to defaults.
type FileOptions struct {
	MaxSizeMB int
	MaxFiles  int
	MaxAge    time.Duration
}

// FileWriter appends log lines to a file, rotating it by size or age and
// gzipping the rotated copies.
type FileWriter struct {
	mu           sync.Mutex
	wg           sync.WaitGroup
	archiveMu    sync.Mutex
	dir          string
	filename     string
	maxSize      int64
	maxFiles     int
	maxAge       time.Duration
	currentFile  *os.File
	currentSize  int64
	lastRotation time.Time
	now          func() time.Time
}

// NewFileWriter opens dir/filename for appending, creating dir if needed.
func NewFileWriter(dir, filename string, opts FileOptions) (*FileWriter, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("logging: log directory is required")
	}
	if filename == "" {
		filename = FileName
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 10
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 5
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 24 * time.Hour
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	fw := &FileWriter{
		dir:      dir,
		filename: filename,
		maxSize:  int64(opts.MaxSizeMB) * 1024 * 1024,
		maxFiles: opts.MaxFiles,
		maxAge:   opts.MaxAge,
		now:      time.Now,
	}
	fw.lastRotation = fw.now()
	if err := fw.openFile(); err != nil {
		return nil, err
	}
	return fw, nil
}

// Path returns the active log file path.
func (fw *FileWriter) Path() string {
	return filepath.Join(fw.dir, fw.filename)
}

func (fw *FileWriter) openFile() error {
	f, err := os.OpenFile(fw.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.currentFile = f
	fw.currentSize = info.Size()
	return nil
}

func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.currentFile == nil {
		return 0, os.ErrClosed
	}
	if fw.shouldRotate(int64(len(p))) {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := fw.currentFile.Write(p)
	fw.currentSize += int64(n)
	return n, err
}

func (fw *FileWriter) shouldRotate(writeSize int64) bool {
	if fw.currentSize == 0 {
		return false
	}
	if fw.currentSize+writeSize > fw.maxSize {
		return true
	}
	return fw.now().Sub(fw.lastRotation) > fw.maxAge
}

func (fw *FileWriter) rotate() error {
	if err := fw.currentFile.Close(); err != nil {
		return fmt.Errorf("close current file: %w", err)
	}

	rotated := fmt.Sprintf("%s.%s", fw.Path(), fw.now().Format("20060102-150405.000"))
	if err := os.Rename(fw.Path(), rotated); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rename log file: %w", err)
	}

	fw.wg.Add(1)
	go func() {
		defer fw.wg.Done()
		fw.archiveMu.Lock()
		defer fw.archiveMu.Unlock()
		compressFile(rotated)
		fw.cleanup()
	}()

	if err := fw.openFile(); err != nil {
		return err
	}
	fw.lastRotation = fw.now()
	return nil
}

func compressFile(path string) {
	in, err := os.Open(path)
	if err != nil {
		return
	}
	defer in.Close()

	gzPath := path + ".gz"
	out, err := os.Create(gzPath)
	if err != nil {
		return
	}
	gz := gzip.NewWriter(out)
	_, copyErr := io.Copy(gz, in)
	closeErr := gz.Close()
	out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(gzPath)
		return
	}
	os.Remove(path)
}

// cleanup keeps only the newest maxFiles rotated copies. Rotated names embed
// a sortable timestamp.
func (fw *FileWriter) cleanup() {
	matches, err := filepath.Glob(fw.Path() + ".*")
	if err != nil || len(matches) <= fw.maxFiles {
		return
	}
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-fw.maxFiles] {
		os.Remove(path)
	}
}

// Close flushes pending compression and closes the active file.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	f := fw.currentFile
	fw.currentFile = nil
	fw.mu.Unlock()

	fw.wg.Wait()
	if f != nil {
		return f.Close()
	}
	return nil
}

// ReadRecent returns up to n of the newest entries in the log at logPath.
// Malformed lines are skipped.
func ReadRecent(logPath string, n int) ([]Entry, error) {
	f, err := os.Open(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n <= 0 {
		return []Entry{}, nil
	}
	entries := make([]Entry, 0, n)
	for i := len(lines) - 1; i >= 0 && len(entries) < n; i-- {
		var entry Entry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	// restore file order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}
