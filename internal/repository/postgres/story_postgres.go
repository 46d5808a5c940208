package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

const storyColumns = `id, title, writers, synopsis, category, status, keyword, cover, chapters, last_updated, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// StoryPostgres is a PostgreSQL implementation of repository.StoryRepository.
// Chapters live in a JSONB column and keywords in a text[] column.
type StoryPostgres struct {
	db *sql.DB
}

// NewStoryPostgres creates a new StoryPostgres repository.
func NewStoryPostgres(db *sql.DB) *StoryPostgres {
	return &StoryPostgres{db: db}
}

var _ repository.StoryRepository = (*StoryPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*model.Story, error) {
	var (
		s        model.Story
		keywords pq.StringArray
		chapters []byte
	)
	if err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Writers,
		&s.Synopsis,
		&s.Category,
		&s.Status,
		&keywords,
		&s.Cover,
		&chapters,
		&s.LastUpdated,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Keyword = []string(keywords)
	if s.Keyword == nil {
		s.Keyword = []string{}
	}
	s.Chapters = []model.Chapter{}
	if len(chapters) > 0 {
		if err := json.Unmarshal(chapters, &s.Chapters); err != nil {
			return nil, fmt.Errorf("decode chapters of story %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

func encodeChapters(chapters []model.Chapter) (string, error) {
	if chapters == nil {
		chapters = []model.Chapter{}
	}
	b, err := json.Marshal(chapters)
	if err != nil {
		return "", fmt.Errorf("encode chapters: %w", err)
	}
	return string(b), nil
}

func keywordArray(keywords []string) any {
	if keywords == nil {
		keywords = []string{}
	}
	return pq.Array(keywords)
}

// buildListQuery composes the list statement for f. The search term is matched
// as a literal substring, so LIKE metacharacters in it are escaped.
func buildListQuery(f repository.StoryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR writers ILIKE $%d)", n, n))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString("SELECT " + storyColumns + " FROM stories")
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY created_at ASC, id ASC")
	return b.String(), args
}

// Create inserts a new story row. The ID and audit timestamps come from column defaults.
func (r *StoryPostgres) Create(ctx context.Context, story *model.Story) (*model.Story, error) {
	chapters, err := encodeChapters(story.Chapters)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO stories (title, writers, synopsis, category, status, keyword, cover, chapters, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		RETURNING ` + storyColumns
	row := r.db.QueryRowContext(ctx, q,
		story.Title,
		story.Writers,
		story.Synopsis,
		story.Category,
		story.Status,
		keywordArray(story.Keyword),
		story.Cover,
		chapters,
		story.LastUpdated,
	)
	return scanStory(row)
}

// FindByID fetches a single story by its ID.
func (r *StoryPostgres) FindByID(ctx context.Context, id string) (*model.Story, error) {
	q := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`
	return scanStory(r.db.QueryRowContext(ctx, q, id))
}

// List returns every story matching f, oldest first. It never returns a nil slice.
func (r *StoryPostgres) List(ctx context.Context, f repository.StoryFilter) ([]model.Story, error) {
	q, args := buildListQuery(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Story, 0)
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Replace overwrites the story row and bumps updated_at.
func (r *StoryPostgres) Replace(ctx context.Context, id string, story *model.Story) (*model.Story, error) {
	chapters, err := encodeChapters(story.Chapters)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE stories
		SET title = $2, writers = $3, synopsis = $4, category = $5, status = $6,
		    keyword = $7, cover = $8, chapters = $9::jsonb, last_updated = $10, updated_at = now()
		WHERE id = $1
		RETURNING ` + storyColumns
	row := r.db.QueryRowContext(ctx, q,
		id,
		story.Title,
		story.Writers,
		story.Synopsis,
		story.Category,
		story.Status,
		keywordArray(story.Keyword),
		story.Cover,
		chapters,
		story.LastUpdated,
	)
	return scanStory(row)
}

// AppendChapter pushes ch onto the chapters array in a single statement.
func (r *StoryPostgres) AppendChapter(ctx context.Context, id string, ch model.Chapter, lastUpdated time.Time) (*model.Story, error) {
	b, err := json.Marshal(ch)
	if err != nil {
		return nil, fmt.Errorf("encode chapter: %w", err)
	}

	q := `
		UPDATE stories
		SET chapters = chapters || jsonb_build_array($2::jsonb), last_updated = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + storyColumns
	return scanStory(r.db.QueryRowContext(ctx, q, id, string(b), lastUpdated))
}

// Delete removes a story by ID and reports sql.ErrNoRows when nothing was deleted.
func (r *StoryPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM stories WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
