package store

import (
	"database/sql"
	"fmt"

	"github.com/DeusData/snippets-explorer/internal/snippet"
)

const rowColumns = `id, language, file_path, kind, extension_id, extension_version, name, prefix, description, body`

// Replace swaps the catalog contents for the snippets in tree, atomically.
func (s *Store) Replace(tree *snippet.Tree) error {
	entries := tree.Entries()
	return s.WithTransaction(func(tx *Store) error {
		if _, err := tx.q.Exec(`DELETE FROM snippets`); err != nil {
			return fmt.Errorf("clear snippets: %w", err)
		}
		for _, e := range entries {
			if err := tx.insertRecord(e.LanguageID, e.Record); err != nil {
				return fmt.Errorf("insert %s: %w", e.FullPath, err)
			}
		}
		return nil
	})
}

func (s *Store) insertRecord(languageID string, rec *snippet.Record) error {
	info := rec.Meta.PathInfo
	for _, sn := range rec.Snippets() {
		_, err := s.q.Exec(`
			INSERT INTO snippets (language, file_path, kind, extension_id, extension_version, name, prefix, description, body)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(language, file_path, name) DO UPDATE SET
				prefix=excluded.prefix, description=excluded.description, body=excluded.body`,
			languageID, rec.FullPath(), rec.Meta.Kind.String(), info.ExtensionID, info.ExtensionVersion,
			sn.Name, sn.PrefixText(), sn.DescriptionText(), sn.BodyText())
		if err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of stored snippets.
func (s *Store) Count() (int, error) {
	var n int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM snippets`).Scan(&n)
	return n, err
}

// Get returns one snippet, or nil if it is not stored.
func (s *Store) Get(languageID, filePath, name string) (*Row, error) {
	row := s.q.QueryRow(`SELECT `+rowColumns+` FROM snippets WHERE language=? AND file_path=? AND name=?`,
		languageID, filePath, name)
	r, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// LanguageCount summarises one language bucket.
type LanguageCount struct {
	Language string
	Files    int
	Snippets int
}

// Languages returns per-language file and snippet counts, by language id.
func (s *Store) Languages() ([]LanguageCount, error) {
	rows, err := s.q.Query(`
		SELECT language, COUNT(DISTINCT file_path), COUNT(*)
		FROM snippets GROUP BY language ORDER BY language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LanguageCount
	for rows.Next() {
		var lc LanguageCount
		if err := rows.Scan(&lc.Language, &lc.Files, &lc.Snippets); err != nil {
			return nil, err
		}
		out = append(out, lc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(row scanner) (*Row, error) {
	var r Row
	if err := row.Scan(&r.ID, &r.Language, &r.FilePath, &r.Kind, &r.ExtensionID, &r.ExtensionVersion,
		&r.Name, &r.Prefix, &r.Description, &r.Body); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRows(rows *sql.Rows) ([]*Row, error) {
	defer rows.Close()
	var out []*Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
