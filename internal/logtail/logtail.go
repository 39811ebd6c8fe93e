package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the log file at path. A
// missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	return ReadMatching(path, maxLines, nil)
}

// ReadMatching is Read restricted to lines for which keep returns true. A nil
// keep accepts every line.
func ReadMatching(path string, maxLines int, keep func(string) bool) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if keep != nil && !keep(line) {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level extracts the three-letter level token (DBG, INF, WRN, ERR, FTL) from
// a console-formatted log line, or "" when none is present.
func Level(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if i > 2 {
			break
		}
		switch f {
		case "TRC", "DBG", "INF", "WRN", "ERR", "FTL", "PNC":
			return f
		}
	}
	return ""
}

// IsProblem reports whether line was logged at warn level or above.
func IsProblem(line string) bool {
	switch Level(line) {
	case "WRN", "ERR", "FTL", "PNC":
		return true
	}
	return false
}
