package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RedisPort extracts the listening port from a redis-style configuration
// file: the first line whose keyword is "port". A missing file yields zero
// with no error; the strategy is simply inapplicable then.
func RedisPort(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open store config: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "port" {
			continue
		}
		port, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("%s: invalid port %q: %w", path, fields[1], err)
		}
		return port, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("read store config: %w", err)
	}
	return 0, nil
}
