package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"storyapi/internal/storage"
	storeMocks "storyapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCoverService(store storage.Storage) *coverService {
	return &coverService{
		store: store,
		now:   func() time.Time { return fixedNow },
		newID: func() string { return "5f0c" },
	}
}

func TestCoverService_Upload(t *testing.T) {
	ctx := context.Background()
	wantName := "1709649000123-5f0c.png"

	tests := []struct {
		name             string
		originalFilename string
		contentType      string
		setupMocks       func(mStore *storeMocks.MockStorage) io.Reader
		wantErr          error
		wantErrMsg       string
		wantUpload       *CoverUpload
	}{
		{
			name:             "happy path",
			originalFilename: "cover.png",
			contentType:      "image/png",
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, wantName, r, storage.PutObjectOptions{
					Size:        3,
					ContentType: "image/png",
					Metadata:    map[string]string{"original-filename": "cover.png"},
				}).Return(storage.ObjectInfo{Key: wantName, Size: 3}, nil)
				return r
			},
			wantUpload: &CoverUpload{Filename: wantName, URL: "/uploads/" + wantName},
		},
		{
			name:             "content type inferred from extension",
			originalFilename: "cover.png",
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, wantName, r, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.ContentType == "image/png"
				})).Return(storage.ObjectInfo{Key: wantName}, nil)
				return r
			},
			wantUpload: &CoverUpload{Filename: wantName, URL: "/uploads/" + wantName},
		},
		{
			name:             "generic multipart type refined from extension",
			originalFilename: "cover.jpg",
			contentType:      "application/octet-stream",
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("jpg")
				mStore.On("Put", ctx, "1709649000123-5f0c.jpg", r, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.ContentType == "image/jpeg"
				})).Return(storage.ObjectInfo{}, nil)
				return r
			},
			wantUpload: &CoverUpload{Filename: "1709649000123-5f0c.jpg", URL: "/uploads/1709649000123-5f0c.jpg"},
		},
		{
			name:             "no extension falls back to octet-stream",
			originalFilename: "cover",
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("raw")
				mStore.On("Put", ctx, "1709649000123-5f0c", r, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.ContentType == "application/octet-stream"
				})).Return(storage.ObjectInfo{}, nil)
				return r
			},
			wantUpload: &CoverUpload{Filename: "1709649000123-5f0c", URL: "/uploads/1709649000123-5f0c"},
		},
		{
			name:             "validation error - nil reader",
			originalFilename: "cover.png",
			setupMocks:       func(mStore *storeMocks.MockStorage) io.Reader { return nil },
			wantErr:          ErrReaderNil,
		},
		{
			name:             "storage error",
			originalFilename: "cover.png",
			setupMocks: func(mStore *storeMocks.MockStorage) io.Reader {
				r := strings.NewReader("png")
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("disk full"))
				return r
			},
			wantErrMsg: "upload to storage: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			svc := newTestCoverService(mStore)
			r := tt.setupMocks(mStore)

			got, err := svc.Upload(ctx, r, tt.originalFilename, tt.contentType, 3)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantUpload, got)
			}
			mStore.AssertExpectations(t)
		})
	}
}

func TestCoverService_UploadNamesAreUnique(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := NewCoverService(store)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		up, err := svc.Upload(context.Background(), strings.NewReader("x"), "c.jpg", "image/jpeg", 1)
		require.NoError(t, err)
		assert.False(t, seen[up.Filename], "duplicate name %s", up.Filename)
		assert.True(t, strings.HasSuffix(up.Filename, ".jpg"))
		seen[up.Filename] = true
	}
}

func TestCoverService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := newTestCoverService(mStore)
		body := io.NopCloser(strings.NewReader("png"))
		mStore.On("Get", ctx, "a.png").Return(body, storage.ObjectInfo{Size: 3, ContentType: "image/png"}, nil)

		obj, err := svc.Open(ctx, "a.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", obj.ContentType)
		assert.Equal(t, int64(3), obj.Size)
		b, _ := io.ReadAll(obj.Body)
		assert.Equal(t, "png", string(b))
	})

	t.Run("missing object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := newTestCoverService(mStore)
		mStore.On("Get", ctx, "gone.png").Return(nil, storage.ObjectInfo{}, storage.ErrObjectNotFound)

		_, err := svc.Open(ctx, "gone.png")
		assert.ErrorIs(t, err, ErrCoverNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := newTestCoverService(mStore)
		mStore.On("Get", ctx, "a.png").Return(nil, storage.ObjectInfo{}, errors.New("io"))

		_, err := svc.Open(ctx, "a.png")
		assert.EqualError(t, err, "open cover: io")
	})

	for _, name := range []string{"", ".", "..", "../secret", `a\b.png`} {
		t.Run("rejects "+name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			svc := newTestCoverService(mStore)

			_, err := svc.Open(ctx, name)
			assert.ErrorIs(t, err, ErrCoverNotFound)
			mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", extension("cover.png"))
	assert.Equal(t, ".JPG", extension("holiday.JPG"))
	assert.Equal(t, "", extension("noext"))
	assert.Equal(t, "", extension(`evil.p\ng`))
	assert.Equal(t, "", extension("x."+strings.Repeat("a", 40)))
	assert.Equal(t, ".webp2", extension("x.webp2"))
	assert.Equal(t, "", extension("trailing."))

	for _, name := range []string{"cover.jpé", "cover.p#g", "cover.a%b", "cover.p?g", "cover.pn g", "cover.p+g"} {
		assert.Equal(t, "", extension(name), name)
	}
}
