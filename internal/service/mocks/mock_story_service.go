package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"storyapi/internal/model"
	"storyapi/internal/service"
)

type MockStoryService struct {
	mock.Mock
}

var _ service.StoryService = (*MockStoryService)(nil)

func (m *MockStoryService) List(ctx context.Context, q service.ListQuery) ([]model.Story, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Story), args.Error(1)
}

func (m *MockStoryService) Get(ctx context.Context, id string) (*model.Story, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryService) Create(ctx context.Context, in service.StoryInput) (*model.Story, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryService) Update(ctx context.Context, id string, in service.StoryInput) (*model.Story, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

func (m *MockStoryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoryService) AppendChapter(ctx context.Context, id string, in service.ChapterInput) (*model.Story, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Story), args.Error(1)
}

type MockCoverService struct {
	mock.Mock
}

var _ service.CoverService = (*MockCoverService)(nil)

func (m *MockCoverService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*service.CoverUpload, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CoverUpload), args.Error(1)
}

func (m *MockCoverService) Open(ctx context.Context, filename string) (*service.CoverObject, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CoverObject), args.Error(1)
}
