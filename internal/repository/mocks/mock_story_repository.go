package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"storyapi/internal/model"
	"storyapi/internal/repository"
)

type MockStoryRepository struct {
	mock.Mock
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)

func (m *MockStoryRepository) Create(ctx context.Context, story *model.Story) (*model.Story, error) {
	args := m.Called(ctx, story)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryRepository) FindByID(ctx context.Context, id string) (*model.Story, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryRepository) List(ctx context.Context, f repository.StoryFilter) ([]model.Story, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Story), args.Error(1)
}

func (m *MockStoryRepository) Replace(ctx context.Context, id string, story *model.Story) (*model.Story, error) {
	args := m.Called(ctx, id, story)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryRepository) AppendChapter(ctx context.Context, id string, ch model.Chapter, lastUpdated time.Time) (*model.Story, error) {
	args := m.Called(ctx, id, ch, lastUpdated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
