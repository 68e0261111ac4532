// Package playlist implements the on-disk playlist format (§6): one UTF-8
// path per line, blank lines and "#"-prefixed lines ignored as comments,
// written via a temp-file-then-rename so a crash mid-write never corrupts
// the previous playlist.
package playlist

import (
	"bufio"
	"os"
	"strings"
)

// Load reads path and returns the ordered list of track paths it names.
// A missing file is treated as an empty playlist, not an error.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Save writes paths to path, one per line, via path+".tmp" then an atomic
// rename, so a reader never observes a partially-written playlist.
func Save(path string, paths []string) error {
	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o666); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
