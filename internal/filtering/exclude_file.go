package filtering

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// readExcludedJobs reads job IDs from path, one per line. Blank lines and
// lines starting with # are skipped.
func readExcludedJobs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclude file: %w", err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclude file: %w", err)
	}

	return ids, nil
}
