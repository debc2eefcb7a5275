// Package store persists keywords, insights, and generated posts in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"trendpulse/internal/core"
)

// Store wraps the SQLite database holding all persistent state.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "trendpulse.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables.
func (s *Store) initialize() error {
	keywordsTable := `
	CREATE TABLE IF NOT EXISTS keywords (
		id TEXT PRIMARY KEY,
		keyword TEXT NOT NULL UNIQUE,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	insightsTable := `
	CREATE TABLE IF NOT EXISTS insights (
		id TEXT PRIMARY KEY,
		keyword_id TEXT NOT NULL,
		keyword TEXT NOT NULL,
		summary_kr TEXT NOT NULL,
		summary_en TEXT NOT NULL,
		sources_analyzed INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (keyword_id) REFERENCES keywords (id)
	);`

	postsTable := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		insight_id TEXT NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		hashtags TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (insight_id) REFERENCES insights (id)
	);`

	tables := []string{keywordsTable, insightsTable, postsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateKeyword registers a new keyword. The keyword text must be unique;
// duplicates return an error from the UNIQUE constraint.
func (s *Store) CreateKeyword(keyword string) (*core.Keyword, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword must not be empty")
	}

	now := time.Now().UTC()
	kw := core.Keyword{
		ID:        uuid.New().String(),
		Keyword:   keyword,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
	INSERT INTO keywords (id, keyword, is_active, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)`

	if _, err := s.db.Exec(query, kw.ID, kw.Keyword, kw.IsActive, kw.CreatedAt, kw.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert keyword: %w", err)
	}

	return &kw, nil
}

// GetKeyword returns the keyword with the given ID, or nil when absent.
func (s *Store) GetKeyword(id string) (*core.Keyword, error) {
	query := `
	SELECT id, keyword, is_active, created_at, updated_at
	FROM keywords
	WHERE id = ?`

	row := s.db.QueryRow(query, id)
	return scanKeyword(row)
}

// GetKeywordByText returns the keyword with the given text, or nil when absent.
func (s *Store) GetKeywordByText(keyword string) (*core.Keyword, error) {
	query := `
	SELECT id, keyword, is_active, created_at, updated_at
	FROM keywords
	WHERE keyword = ?`

	row := s.db.QueryRow(query, strings.TrimSpace(keyword))
	return scanKeyword(row)
}

// ListKeywords returns all keywords ordered by creation time. With activeOnly
// set, inactive keywords are excluded.
func (s *Store) ListKeywords(activeOnly bool) ([]core.Keyword, error) {
	query := `
	SELECT id, keyword, is_active, created_at, updated_at
	FROM keywords`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query keywords: %w", err)
	}
	defer rows.Close()

	var keywords []core.Keyword
	for rows.Next() {
		var kw core.Keyword
		if err := rows.Scan(&kw.ID, &kw.Keyword, &kw.IsActive, &kw.CreatedAt, &kw.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// SetKeywordActive toggles whether the scheduler processes the keyword. It
// reports whether a keyword with that ID existed.
func (s *Store) SetKeywordActive(id string, active bool) (bool, error) {
	result, err := s.db.Exec(
		`UPDATE keywords SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update keyword: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// DeleteKeyword removes a keyword along with its insights and their posts. It
// reports whether a keyword with that ID existed.
func (s *Store) DeleteKeyword(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM posts WHERE insight_id IN (SELECT id FROM insights WHERE keyword_id = ?)`, id,
	); err != nil {
		return false, fmt.Errorf("failed to delete posts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM insights WHERE keyword_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete insights: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM keywords WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete keyword: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return affected > 0, nil
}

// SaveInsight persists a generated insight, filling in ID and CreatedAt.
func (s *Store) SaveInsight(insight *core.Insight) error {
	if insight.ID == "" {
		insight.ID = uuid.New().String()
	}
	if insight.CreatedAt.IsZero() {
		insight.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO insights (id, keyword_id, keyword, summary_kr, summary_en, sources_analyzed, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		insight.ID,
		insight.KeywordID,
		insight.Keyword,
		insight.SummaryKR,
		insight.SummaryEN,
		insight.SourcesAnalyzed,
		insight.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert insight: %w", err)
	}
	return nil
}

// GetInsight returns the insight with the given ID, or nil when absent.
func (s *Store) GetInsight(id string) (*core.Insight, error) {
	query := `
	SELECT id, keyword_id, keyword, summary_kr, summary_en, sources_analyzed, created_at
	FROM insights
	WHERE id = ?`

	row := s.db.QueryRow(query, id)

	var insight core.Insight
	err := row.Scan(
		&insight.ID,
		&insight.KeywordID,
		&insight.Keyword,
		&insight.SummaryKR,
		&insight.SummaryEN,
		&insight.SourcesAnalyzed,
		&insight.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan insight: %w", err)
	}
	return &insight, nil
}

// ListInsights returns insights newest first, optionally filtered by keyword
// ID. A non-positive limit returns everything.
func (s *Store) ListInsights(keywordID string, limit int) ([]core.Insight, error) {
	query := `
	SELECT id, keyword_id, keyword, summary_kr, summary_en, sources_analyzed, created_at
	FROM insights`
	var args []any
	if keywordID != "" {
		query += ` WHERE keyword_id = ?`
		args = append(args, keywordID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	defer rows.Close()

	var insights []core.Insight
	for rows.Next() {
		var insight core.Insight
		if err := rows.Scan(
			&insight.ID,
			&insight.KeywordID,
			&insight.Keyword,
			&insight.SummaryKR,
			&insight.SummaryEN,
			&insight.SourcesAnalyzed,
			&insight.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		insights = append(insights, insight)
	}
	return insights, rows.Err()
}

// SavePost persists a generated post, filling in ID and CreatedAt.
func (s *Store) SavePost(post *core.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	hashtags, err := json.Marshal(post.Hashtags)
	if err != nil {
		return fmt.Errorf("failed to encode hashtags: %w", err)
	}

	query := `
	INSERT INTO posts (id, insight_id, type, content, hashtags, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	if _, err := s.db.Exec(query,
		post.ID,
		post.InsightID,
		string(post.Type),
		post.Content,
		string(hashtags),
		post.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// ListPosts returns posts newest first, optionally filtered by insight ID and
// post type. A non-positive limit returns everything.
func (s *Store) ListPosts(insightID string, postType core.PostType, limit int) ([]core.Post, error) {
	query := `
	SELECT id, insight_id, type, content, hashtags, created_at
	FROM posts`
	var (
		conditions []string
		args       []any
	)
	if insightID != "" {
		conditions = append(conditions, "insight_id = ?")
		args = append(args, insightID)
	}
	if postType != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(postType))
	}
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []core.Post
	for rows.Next() {
		var (
			post         core.Post
			postType     string
			hashtagsJSON string
		)
		if err := rows.Scan(&post.ID, &post.InsightID, &postType, &post.Content, &hashtagsJSON, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.Type = core.PostType(postType)
		if hashtagsJSON != "" {
			if err := json.Unmarshal([]byte(hashtagsJSON), &post.Hashtags); err != nil {
				return nil, fmt.Errorf("failed to decode hashtags: %w", err)
			}
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Stats summarizes the database contents.
type Stats struct {
	KeywordCount int
	InsightCount int
	PostCount    int
	FileSize     int64
	LastUpdated  time.Time
}

// GetStats returns row counts and the database file size.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}

	queries := map[string]*int{
		"SELECT COUNT(*) FROM keywords": &stats.KeywordCount,
		"SELECT COUNT(*) FROM insights": &stats.InsightCount,
		"SELECT COUNT(*) FROM posts":    &stats.PostCount,
	}

	for query, target := range queries {
		if err := s.db.QueryRow(query).Scan(target); err != nil {
			return nil, fmt.Errorf("failed to get count: %w", err)
		}
	}

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.FileSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}

func scanKeyword(row *sql.Row) (*core.Keyword, error) {
	var kw core.Keyword
	err := row.Scan(&kw.ID, &kw.Keyword, &kw.IsActive, &kw.CreatedAt, &kw.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan keyword: %w", err)
	}
	return &kw, nil
}
