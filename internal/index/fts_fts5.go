//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
			post_id UNINDEXED,
			title,
			body,
			tags,
			category,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, p PostRow, body string) error {
	if _, err := tx.Exec(`DELETE FROM posts_fts WHERE post_id = ?`, p.ID); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	_, err := tx.Exec(`INSERT INTO posts_fts (post_id, title, body, tags, category) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, body, strings.Join(p.Tags, " "), p.Category)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id int) error {
	_, err := tx.Exec(`DELETE FROM posts_fts WHERE post_id = ?`, id)
	return err
}

// matchExpr quotes every term so user input is never parsed as FTS5 syntax.
// Terms are implicitly ANDed.
func matchExpr(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}

// Search performs an FTS5 full-text search and returns matching posts with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	expr := matchExpr(query)
	if expr == "" {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT p.id,
		       p.slug,
		       p.title,
		       snippet(posts_fts, 2, '<b>', '</b>', '...', 32)
		FROM posts_fts
		JOIN posts p ON p.id = posts_fts.post_id
		WHERE posts_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, expr, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
