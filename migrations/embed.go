package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

type Migration struct {
	Name string
	SQL  string
}

// Load returns the migrations for direction "up" or "down", in the order
// they must be applied.
func Load(direction string) ([]Migration, error) {
	if direction != "up" && direction != "down" {
		return nil, fmt.Errorf("direction must be up or down, got %q", direction)
	}

	names, err := fs.Glob(files, "*."+direction+".sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	if direction == "down" {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Migration{Name: strings.TrimSuffix(name, "."+direction+".sql"), SQL: string(b)})
	}
	return out, nil
}

// Apply runs every migration of direction against db, one transaction per
// file, and returns how many were applied.
func Apply(ctx context.Context, db *sql.DB, direction string) (int, error) {
	list, err := Load(direction)
	if err != nil {
		return 0, err
	}
	for i, m := range list {
		if err := applyOne(ctx, db, m); err != nil {
			return i, fmt.Errorf("migration %s: %w", m.Name, err)
		}
	}
	return len(list), nil
}

func applyOne(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
