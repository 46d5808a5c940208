package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

// ErrNotFound is returned when an ID does not resolve to a story, malformed IDs included.
var ErrNotFound = errors.New("story not found")

// ValidationError reports the required fields missing from a story payload.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// ListQuery holds the optional story search parameters.
type ListQuery struct {
	Search   string
	Category string
	Status   string
}

// StoryInput is the client payload for create and update. It carries no ID
// and no timestamps; those are always assigned by the service or the store.
type StoryInput struct {
	Title    string         `json:"title"`
	Writers  string         `json:"writers"`
	Synopsis string         `json:"synopsis"`
	Category string         `json:"category"`
	Status   string         `json:"status"`
	Keyword  []string       `json:"keyword"`
	Cover    string         `json:"cover"`
	Chapters []ChapterInput `json:"chapters"`
}

// ChapterInput is the client payload for a single chapter.
type ChapterInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StoryService defines the use cases for handling stories.
type StoryService interface {
	// List returns stories matching every non-empty field of q. No match yields an empty slice.
	List(ctx context.Context, q ListQuery) ([]model.Story, error)

	// Get returns a single story by its ID.
	Get(ctx context.Context, id string) (*model.Story, error)

	// Create validates the payload, stamps chapters and lastUpdated, and persists it.
	Create(ctx context.Context, in StoryInput) (*model.Story, error)

	// Update replaces the whole story, restamping every chapter.
	Update(ctx context.Context, id string, in StoryInput) (*model.Story, error)

	// Delete removes a story by ID.
	Delete(ctx context.Context, id string) error

	// AppendChapter adds one chapter after the existing ones.
	AppendChapter(ctx context.Context, id string, in ChapterInput) (*model.Story, error)
}

type storyService struct {
	repo repository.StoryRepository
	now  func() time.Time
	loc  *time.Location
}

// NewStoryService constructs a new StoryService. Chapter dates use the server's local time zone.
func NewStoryService(repo repository.StoryRepository) StoryService {
	return &storyService{repo: repo, now: time.Now, loc: time.Local}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func (in StoryInput) validate() error {
	var missing []string
	if blank(in.Title) {
		missing = append(missing, "title")
	}
	if blank(in.Writers) {
		missing = append(missing, "writers")
	}
	if blank(in.Category) {
		missing = append(missing, "category")
	}
	if blank(in.Status) {
		missing = append(missing, "status")
	}
	if len(in.Chapters) == 0 {
		missing = append(missing, "chapters")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// canonicalID returns id in the lowercase hyphenated form the store understands.
// uuid.Parse also accepts urn, braced and bare-hex spellings, which are
// normalized here. Anything unparsable cannot name a stored story.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// stamp returns the instant written to lastUpdated and the date written to chapters.
func (s *storyService) stamp() (time.Time, string) {
	now := s.now()
	return now.UTC().Truncate(time.Millisecond), now.In(s.loc).Format(model.ChapterDateLayout)
}

func (s *storyService) toModel(in StoryInput) *model.Story {
	lastUpdated, chapterDate := s.stamp()

	chapters := make([]model.Chapter, 0, len(in.Chapters))
	for _, ch := range in.Chapters {
		chapters = append(chapters, model.Chapter{
			Title:     ch.Title,
			Content:   ch.Content,
			UpdatedAt: chapterDate,
		})
	}
	keyword := in.Keyword
	if keyword == nil {
		keyword = []string{}
	}

	return &model.Story{
		Title:       in.Title,
		Writers:     in.Writers,
		Synopsis:    in.Synopsis,
		Category:    in.Category,
		Status:      in.Status,
		Keyword:     keyword,
		Cover:       in.Cover,
		Chapters:    chapters,
		LastUpdated: lastUpdated,
	}
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s story: %w", op, err)
}

func (s *storyService) List(ctx context.Context, q ListQuery) ([]model.Story, error) {
	items, err := s.repo.List(ctx, repository.StoryFilter{
		Search:   q.Search,
		Category: q.Category,
		Status:   q.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	if items == nil {
		items = []model.Story{}
	}
	return items, nil
}

func (s *storyService) Get(ctx context.Context, id string) (*model.Story, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrNotFound
	}
	story, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "get")
	}
	return story, nil
}

func (s *storyService) Create(ctx context.Context, in StoryInput) (*model.Story, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	stored, err := s.repo.Create(ctx, s.toModel(in))
	if err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	return stored, nil
}

func (s *storyService) Update(ctx context.Context, id string, in StoryInput) (*model.Story, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrNotFound
	}
	updated, err := s.repo.Replace(ctx, id, s.toModel(in))
	if err != nil {
		return nil, notFoundOr(err, "update")
	}
	return updated, nil
}

func (s *storyService) Delete(ctx context.Context, id string) error {
	id, ok := canonicalID(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete")
	}
	return nil
}

func (s *storyService) AppendChapter(ctx context.Context, id string, in ChapterInput) (*model.Story, error) {
	id, ok := canonicalID(id)
	if !ok {
		return nil, ErrNotFound
	}
	lastUpdated, chapterDate := s.stamp()
	ch := model.Chapter{
		Title:     in.Title,
		Content:   in.Content,
		UpdatedAt: chapterDate,
	}
	updated, err := s.repo.AppendChapter(ctx, id, ch, lastUpdated)
	if err != nil {
		return nil, notFoundOr(err, "append chapter to")
	}
	return updated, nil
}
