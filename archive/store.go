// Package archive persists scrape runs and writes article collections to
// disk.
package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/newsharvest/article"
	"github.com/pevans/newsharvest/orchestrator"
)

var ErrRunNotFound = errors.New("run not found")

// Store archives runs and their articles using SQLite.
type Store struct {
	db *sql.DB
}

// Run is the stored summary of one scrape run.
type Run struct {
	RunID        uuid.UUID                 `json:"run_id"`
	StartedAt    time.Time                 `json:"started_at"`
	FinishedAt   time.Time                 `json:"finished_at"`
	ArticleCount int                       `json:"article_count"`
	Sites        []orchestrator.SiteResult `json:"sites"`
}

// StoredArticle is an archived article with the run that produced it.
type StoredArticle struct {
	RunID uuid.UUID `json:"run_id"`
	article.Article
}

// ArticleFilter narrows ListArticles.
type ArticleFilter struct {
	Publication *string    // Match the publication display name
	RunID       *uuid.UUID // Only articles of this run
	Limit       int
	Offset      int
}

// NewStore opens (creating if needed) the archive at dsn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		article_count INTEGER NOT NULL,
		sites TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		publication TEXT NOT NULL,
		publication_logo TEXT NOT NULL,
		publish_date TEXT NOT NULL,
		category TEXT NOT NULL,
		excerpt TEXT NOT NULL,
		image TEXT NOT NULL,
		read_time TEXT NOT NULL,
		author TEXT NOT NULL,
		link TEXT NOT NULL,
		views TEXT NOT NULL,
		shares TEXT NOT NULL,
		engagement TEXT NOT NULL,
		scraped_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_run ON articles(run_id);
	CREATE INDEX IF NOT EXISTS idx_articles_publication ON articles(publication);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a report and all of its articles atomically. Articles are
// kept even when their link already exists from an earlier run.
func (s *Store) SaveRun(report *orchestrator.Report) error {
	sites, err := json.Marshal(report.Sites)
	if err != nil {
		return fmt.Errorf("failed to marshal sites: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, started_at, finished_at, article_count, sites) VALUES (?, ?, ?, ?, ?)`,
		report.RunID.String(),
		formatTime(report.StartedAt),
		formatTime(report.FinishedAt),
		len(report.Articles),
		string(sites),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (
			article_id, run_id, position, title, publication, publication_logo,
			publish_date, category, excerpt, image, read_time, author, link,
			views, shares, engagement, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range report.Articles {
		_, err := stmt.Exec(
			uuid.New().String(), report.RunID.String(), i,
			a.Title, a.Publication, a.PublicationLogo,
			a.PublishDate, a.Category, a.Excerpt, a.Image, a.ReadTime, a.Author, a.Link,
			a.Metrics.Views, a.Metrics.Shares, a.Metrics.Engagement,
			formatTime(report.FinishedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert article %s: %w", a.Link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run summary by ID.
func (s *Store) GetRun(runID uuid.UUID) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, started_at, finished_at, article_count, sites FROM runs WHERE run_id = ?`,
		runID.String(),
	)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns lists runs, most recent first. A limit of zero means no limit.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `SELECT run_id, started_at, finished_at, article_count, sites FROM runs ORDER BY started_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// ListArticles lists archived articles, newest run first and in run order
// within a run.
func (s *Store) ListArticles(filter ArticleFilter) ([]StoredArticle, error) {
	query := `
		SELECT run_id, title, publication, publication_logo, publish_date,
		       category, excerpt, image, read_time, author, link,
		       views, shares, engagement
		FROM articles
	`

	var whereClauses []string
	var args []any

	if filter.Publication != nil {
		whereClauses = append(whereClauses, "publication = ?")
		args = append(args, *filter.Publication)
	}
	if filter.RunID != nil {
		whereClauses = append(whereClauses, "run_id = ?")
		args = append(args, filter.RunID.String())
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY scraped_at DESC, position ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []StoredArticle{}
	for rows.Next() {
		var runIDStr string
		var a article.Article
		err := rows.Scan(
			&runIDStr, &a.Title, &a.Publication, &a.PublicationLogo, &a.PublishDate,
			&a.Category, &a.Excerpt, &a.Image, &a.ReadTime, &a.Author, &a.Link,
			&a.Metrics.Views, &a.Metrics.Shares, &a.Metrics.Engagement,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		runID, err := uuid.Parse(runIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run ID: %w", err)
		}
		articles = append(articles, StoredArticle{RunID: runID, Article: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var runIDStr, startedAtStr, finishedAtStr, sitesJSON string
	var count int

	if err := row.Scan(&runIDStr, &startedAtStr, &finishedAtStr, &count, &sitesJSON); err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID: %w", err)
	}

	run := &Run{
		RunID:        runID,
		StartedAt:    parseTime(startedAtStr),
		FinishedAt:   parseTime(finishedAtStr),
		ArticleCount: count,
	}
	if err := json.Unmarshal([]byte(sitesJSON), &run.Sites); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sites: %w", err)
	}

	return run, nil
}

// timeFormat has fixed-width fractions so stored times sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
