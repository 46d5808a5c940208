package repository

import (
	"context"
	"time"

	"storyapi/internal/model"
)

// StoryRepository defines data access for stories. No business logic here:
// validation and derived fields belong to the service layer.
// Lookups by ID return sql.ErrNoRows when no row matches.
type StoryRepository interface {
	// Create inserts a story and returns the stored record with its assigned ID.
	Create(ctx context.Context, story *model.Story) (*model.Story, error)

	// FindByID returns a story by its ID.
	FindByID(ctx context.Context, id string) (*model.Story, error)

	// List returns every story matching the filter in insertion order.
	List(ctx context.Context, f StoryFilter) ([]model.Story, error)

	// Replace overwrites every mutable field of the story with the given ID,
	// chapters included.
	Replace(ctx context.Context, id string, story *model.Story) (*model.Story, error)

	// AppendChapter adds a chapter to the end of the story's chapter list and
	// sets its last-updated instant in the same statement.
	AppendChapter(ctx context.Context, id string, ch model.Chapter, lastUpdated time.Time) (*model.Story, error)

	// Delete removes a story by ID.
	Delete(ctx context.Context, id string) error
}

// StoryFilter narrows List. Empty fields impose no constraint; set fields are ANDed.
type StoryFilter struct {
	// Search is a case-insensitive literal substring matched against title or writers.
	Search string
	// Category and Status must match exactly.
	Category string
	Status   string
}
