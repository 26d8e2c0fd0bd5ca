package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrIngestion marks a failure to read input at all (nothing matched, or a
// file was unreadable), as opposed to a configuration problem. Callers map
// it to its own exit code.
var ErrIngestion = errors.New("ingestion failure")

// ErrNoFiles is the ErrIngestion case where no file matched the patterns.
var ErrNoFiles = fmt.Errorf("%w: no log files matched the provided patterns", ErrIngestion)

// scanner buffer sizing: start at 64KB, allow lines up to 1MB.
const (
	scannerInitialBuffer = 64 * 1024
	scannerMaxLine       = 1024 * 1024
)

// Adapter turns one raw log line into a Record. The bool is false when the
// line is unusable and must be skipped.
type Adapter interface {
	Extract(line string) (Record, bool)
}

// ExpandFiles resolves literal paths and glob patterns into a deduplicated
// list of files in first-seen order. Patterns that match nothing contribute
// nothing; an overall empty result is ErrNoFiles.
func ExpandFiles(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}
		add(pattern)
	}

	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	return paths, nil
}

// ReadFiles scans each file line by line, runs the adapter, and feeds usable
// records into the ingestor. Line numbers restart at 1 per file. An
// unreadable file aborts the run as an ingestion failure; unusable lines
// never do.
func ReadFiles(paths []string, adapter Adapter, ing *Ingestor, logger *zap.SugaredLogger) error {
	for _, path := range paths {
		if err := readFile(path, adapter, ing, logger); err != nil {
			return fmt.Errorf("%w: %v", ErrIngestion, err)
		}
	}
	return nil
}

func readFile(path string, adapter Adapter, ing *Ingestor, logger *zap.SugaredLogger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxLine)

	lineNo := 0
	accepted := 0
	for scanner.Scan() {
		lineNo++
		rec, ok := adapter.Extract(scanner.Text())
		if !ok {
			continue
		}
		rec.Source = path
		rec.LineNo = lineNo
		if ing.Add(rec) {
			accepted++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %v", path, err)
	}

	logger.Debugw("Scanned log file", "path", path, "lines", lineNo, "events", accepted)
	return nil
}
