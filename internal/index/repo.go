package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/promptdeck/internal/apperr"
	"github.com/starford/promptdeck/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string `json:"path"`
	Target  string `json:"target"`
	Snippet string `json:"snippet"`
}

// ReplacePage deletes any stored page for p.FilePath and recreates it
// with its sections and prompts inside one transaction. A master prompt
// the same file produced in an earlier revision is removed too, so a
// file that loses its master marker does not keep serving stale blocks.
func (db *DB) ReplacePage(p models.Page) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := deletePageTx(tx, p.FilePath); err != nil {
		return err
	}
	_, _ = tx.Exec(`DELETE FROM master_prompts WHERE file_path = ?`, p.FilePath)

	searchText := buildSearchText(p)
	_, err = tx.Exec(`
		INSERT INTO pages (file_path, target_file, checksum, search_text, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, p.FilePath, p.TargetFile, p.Checksum, searchText, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: insert page: %w", err)
	}

	for pos, s := range p.Sections {
		res, err := tx.Exec(`
			INSERT INTO sections (page_path, position, name, start_line, end_line, purpose)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.FilePath, pos, s.Name, s.StartLine, s.EndLine, s.Purpose)
		if err != nil {
			return fmt.Errorf("index: insert section: %w", err)
		}
		sectionID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("index: section id: %w", err)
		}
		for ppos, pr := range s.Prompts {
			_, err := tx.Exec(`
				INSERT INTO prompts (section_id, position, template, example, line_number)
				VALUES (?, ?, ?, ?, ?)
			`, sectionID, ppos, pr.Template, pr.Example, pr.LineNumber)
			if err != nil {
				return fmt.Errorf("index: insert prompt: %w", err)
			}
		}
	}

	if err := ftsUpsert(tx, p.FilePath, p.TargetFile, searchText); err != nil {
		return err
	}

	return tx.Commit()
}

// UpsertMasterPrompt inserts or replaces a master prompt keyed on its
// page file path. Page rows the same source file produced in an earlier
// revision are removed in the same transaction, so a page that gains the
// master marker stops serving its old sections.
func (db *DB) UpsertMasterPrompt(mp models.MasterPrompt) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if mp.FilePath != "" {
		if err := deletePageTx(tx, mp.FilePath); err != nil {
			return err
		}
	}
	_, err = tx.Exec(`
		INSERT INTO master_prompts
			(page_file_path, file_path, checksum, nlp_instruction, sections_summary, query_examples, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(page_file_path) DO UPDATE SET
			file_path        = excluded.file_path,
			checksum         = excluded.checksum,
			nlp_instruction  = excluded.nlp_instruction,
			sections_summary = excluded.sections_summary,
			query_examples   = excluded.query_examples,
			updated_at       = excluded.updated_at
	`, mp.PageFilePath, mp.FilePath, mp.Checksum, mp.NLPInstruction, mp.SectionsSummary, mp.QueryExamples, mp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert master prompt: %w", err)
	}
	return tx.Commit()
}

// DeleteFile removes everything persisted for a prompt file path: its
// page with sections and prompts, and any master prompt it produced.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deletePageTx(tx, path); err != nil {
		return err
	}
	_, _ = tx.Exec(`DELETE FROM master_prompts WHERE file_path = ?`, path)

	return tx.Commit()
}

func deletePageTx(tx *sql.Tx, path string) error {
	_, _ = tx.Exec(`
		DELETE FROM prompts WHERE section_id IN
			(SELECT id FROM sections WHERE page_path = ?)
	`, path)
	_, _ = tx.Exec(`DELETE FROM sections WHERE page_path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM pages WHERE file_path = ?`, path)
	ftsDelete(tx, path)
	return nil
}

// GetPage returns one page with its sections and prompts.
func (db *DB) GetPage(path string) (*models.Page, error) {
	var p models.Page
	err := db.conn.QueryRow(`
		SELECT file_path, target_file, checksum, updated_at
		FROM pages WHERE file_path = ?
	`, path).Scan(&p.FilePath, &p.TargetFile, &p.Checksum, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get page: %w", err)
	}
	sections, err := db.loadSections(path)
	if err != nil {
		return nil, err
	}
	p.Sections = sections
	return &p, nil
}

// ListPages returns all pages with their sections and prompts, ordered
// by file path.
func (db *DB) ListPages() ([]models.Page, error) {
	rows, err := db.conn.Query(`
		SELECT file_path, target_file, checksum, updated_at
		FROM pages ORDER BY file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list pages: %w", err)
	}
	defer rows.Close()

	var out []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.FilePath, &p.TargetFile, &p.Checksum, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		sections, err := db.loadSections(out[i].FilePath)
		if err != nil {
			return nil, err
		}
		out[i].Sections = sections
	}
	return out, nil
}

func (db *DB) loadSections(pagePath string) ([]models.Section, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, start_line, end_line, purpose
		FROM sections WHERE page_path = ? ORDER BY position
	`, pagePath)
	if err != nil {
		return nil, fmt.Errorf("index: load sections: %w", err)
	}
	defer rows.Close()

	sections := []models.Section{}
	var ids []int64
	for rows.Next() {
		var id int64
		var s models.Section
		if err := rows.Scan(&id, &s.Name, &s.StartLine, &s.EndLine, &s.Purpose); err != nil {
			return nil, err
		}
		s.Prompts = []models.Prompt{}
		sections = append(sections, s)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		prompts, err := db.loadPrompts(id)
		if err != nil {
			return nil, err
		}
		sections[i].Prompts = prompts
	}
	return sections, nil
}

func (db *DB) loadPrompts(sectionID int64) ([]models.Prompt, error) {
	rows, err := db.conn.Query(`
		SELECT template, example, line_number
		FROM prompts WHERE section_id = ? ORDER BY position
	`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("index: load prompts: %w", err)
	}
	defer rows.Close()

	prompts := []models.Prompt{}
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.Template, &p.Example, &p.LineNumber); err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// ListMasterPrompts returns all stored master prompts.
func (db *DB) ListMasterPrompts() ([]models.MasterPrompt, error) {
	rows, err := db.conn.Query(`
		SELECT page_file_path, file_path, checksum, nlp_instruction, sections_summary, query_examples, updated_at
		FROM master_prompts ORDER BY page_file_path
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list master prompts: %w", err)
	}
	defer rows.Close()

	var out []models.MasterPrompt
	for rows.Next() {
		var mp models.MasterPrompt
		if err := rows.Scan(&mp.PageFilePath, &mp.FilePath, &mp.Checksum,
			&mp.NLPInstruction, &mp.SectionsSummary, &mp.QueryExamples, &mp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, mp)
	}
	return out, rows.Err()
}

// AllChecksums returns the stored checksum for every ingested prompt
// file, pages and master prompts alike, keyed by file path.
func (db *DB) AllChecksums() (map[string]string, error) {
	out := make(map[string]string)
	for _, q := range []string{
		`SELECT file_path, checksum FROM pages`,
		`SELECT file_path, checksum FROM master_prompts`,
	} {
		rows, err := db.conn.Query(q)
		if err != nil {
			return nil, fmt.Errorf("index: all checksums: %w", err)
		}
		for rows.Next() {
			var path, cs string
			if err := rows.Scan(&path, &cs); err != nil {
				rows.Close()
				return nil, err
			}
			out[path] = cs
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

// buildSearchText concatenates the searchable parts of a page for the
// fallback LIKE search and the FTS index.
func buildSearchText(p models.Page) string {
	var b strings.Builder
	for _, s := range p.Sections {
		b.WriteString(s.Name)
		b.WriteString("\n")
		b.WriteString(s.Purpose)
		b.WriteString("\n")
		for _, pr := range s.Prompts {
			b.WriteString(pr.Template)
			b.WriteString("\n")
			if pr.Example != "" {
				b.WriteString(pr.Example)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
