package store

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// schema возвращает up-миграции диалекта в порядке применения
func schema(dialect string) ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/"+dialect+"/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no migrations for %s", dialect)
	}
	sort.Strings(entries)

	stmts := make([]string, 0, len(entries))
	for _, name := range entries {
		b, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		stmts = append(stmts, string(b))
	}
	return stmts, nil
}
