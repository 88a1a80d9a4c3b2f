package migrate

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileName = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir: the file name carries a unique
// 14-digit version, the goose Up section precedes Down, and StatementBegin /
// StatementEnd markers pair up. An empty directory is valid.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("migrations dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir %q: %w", dir, err)
	}

	versions := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		match := migrationFileName.FindStringSubmatch(name)
		if match == nil {
			return fmt.Errorf("migration %q: name must look like YYYYMMDDHHMMSS_slug.sql", name)
		}
		if other, dup := versions[match[1]]; dup {
			return fmt.Errorf("migration version %s used by both %q and %q", match[1], other, name)
		}
		versions[match[1]] = name

		if err := checkAnnotations(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}
	return nil
}

func checkAnnotations(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var seenUp, seenDown bool
	open := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "-- +goose Up":
			seenUp = true
		case "-- +goose Down":
			if !seenUp {
				return errors.New("goose Down appears before goose Up")
			}
			seenDown = true
		case "-- +goose StatementBegin":
			open++
		case "-- +goose StatementEnd":
			open--
			if open < 0 {
				return errors.New("StatementEnd without StatementBegin")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	switch {
	case !seenUp:
		return errors.New(`missing "-- +goose Up"`)
	case !seenDown:
		return errors.New(`missing "-- +goose Down"`)
	case open != 0:
		return errors.New("unterminated StatementBegin")
	}
	return nil
}
