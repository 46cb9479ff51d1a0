package watcher

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"
)

// Finding is one occurrence of the magic text in a tracked file.
type Finding struct {
	Path      string
	Line      int // 1-based
	MagicText string
	FoundAt   time.Time
}

// ScanFile reads path from the first line and reports every line at or after
// startLine that contains magicText. Each match is passed to emit in file
// order. It returns the number of lines in the file, which is the startLine
// to use on the next pass. An empty file yields 0.
//
// The file is re-read from the beginning on every call rather than seeking,
// so cost grows with the file's total size. A final line without a trailing
// newline is counted like any other line.
func ScanFile(path string, startLine int, magicText string, emit func(Finding)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(f)
	lines := 0
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if lines >= startLine && strings.Contains(line, magicText) && emit != nil {
				emit(Finding{
					Path:      path,
					Line:      lines + 1,
					MagicText: magicText,
					FoundAt:   time.Now(),
				})
			}
			lines++
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, &ReadError{Path: path, Err: err}
		}
	}
}
