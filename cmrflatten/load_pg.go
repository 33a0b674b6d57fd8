package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"cmrexport/flatten"
)

// pgLoadOptions controls how the final table lands in PostgreSQL.
type pgLoadOptions struct {
	Table   string
	Replace bool // drop an existing table of the same name first
}

// loadTableToPg creates one text/boolean column per table column and bulk
// loads every row with COPY in a single transaction. Returns the number of
// rows copied.
func loadTableToPg(ctx context.Context, t *flatten.Table, connStr string, opts pgLoadOptions, logger zerolog.Logger) (int64, error) {
	start := time.Now()

	if err := checkPgIdentifiers(opts.Table, t.Names()); err != nil {
		return 0, err
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return 0, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return 0, fmt.Errorf("ping: %w", err)
	}
	logger.Info().Msg("connected to PostgreSQL")

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	ident := pgx.Identifier{opts.Table}
	if opts.Replace {
		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
			return 0, fmt.Errorf("drop table %s: %w", opts.Table, err)
		}
	}
	if _, err := tx.Exec(ctx, createTableSQL(ident, t)); err != nil {
		return 0, fmt.Errorf("create table %s: %w", opts.Table, err)
	}

	cols := t.Columns()
	copied, err := tx.CopyFrom(ctx, ident, t.Names(),
		pgx.CopyFromSlice(t.Rows(), func(i int) ([]any, error) {
			values := make([]any, len(cols))
			for j := range cols {
				values[j] = pgValue(&cols[j], i)
			}
			return values, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", opts.Table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	logger.Info().
		Str("table", opts.Table).
		Int64("rows", copied).
		Int("columns", len(cols)).
		Dur("elapsed", time.Since(start)).
		Msg("loaded into PostgreSQL")
	return copied, nil
}

// createTableSQL renders CREATE TABLE for t with columns in output order.
func createTableSQL(ident pgx.Identifier, t *flatten.Table) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (\n")
	for j, c := range t.Columns() {
		if j > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("\t")
		b.WriteString(pgx.Identifier{c.Name}.Sanitize())
		if c.Type == flatten.BoolColumn {
			b.WriteString(" boolean NOT NULL")
		} else {
			b.WriteString(" text")
		}
	}
	b.WriteString("\n)")
	return b.String()
}

// pgMaxIdentifierLen is NAMEDATALEN-1; PostgreSQL silently truncates
// longer identifiers.
const pgMaxIdentifierLen = 63

var errIdentifierCollision = errors.New("column names collide after PostgreSQL truncation")

// pgIdentifier returns name as PostgreSQL stores it: cut to at most 63
// bytes without splitting a UTF-8 character.
func pgIdentifier(name string) string {
	if len(name) <= pgMaxIdentifierLen {
		return name
	}
	cut := pgMaxIdentifierLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// checkPgIdentifiers fails if two column names, or a column name and its
// truncation, end up as the same PostgreSQL identifier.
func checkPgIdentifiers(table string, names []string) error {
	seen := make(map[string]string, len(names))
	for _, name := range names {
		id := pgIdentifier(name)
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("table %s: column %q and column %q both become %q: %w",
				table, prev, name, id, errIdentifierCollision)
		}
		seen[id] = name
	}
	return nil
}

func pgValue(c *flatten.Column, i int) any {
	if c.Type == flatten.BoolColumn {
		return c.Values[i].Bool
	}
	if s, ok := c.Text(i); ok {
		return sanitizeUTF8(s)
	}
	return nil
}

// sanitizeUTF8 replaces invalid UTF-8 bytes with spaces.
func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}
