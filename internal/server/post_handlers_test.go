package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetAllPosts(ctx context.Context, userID *uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) AddPost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) UpdatePost(ctx context.Context, post *models.Post) (repository.UpdateOutcome, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(repository.UpdateOutcome), args.Error(1)
}

func (m *MockPostRepository) DeletePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) PostExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newPostsTestApp(repo repository.PostRepository) *fiber.App {
	s := &Server{postRepo: repo}
	app := fiber.New(fiber.Config{ErrorHandler: s.handleError})
	app.Get("/posts", s.GetPosts)
	app.Get("/posts/:id", s.GetPost)
	app.Post("/posts", s.CreatePost)
	app.Put("/posts/:id", s.UpdatePost)
	app.Delete("/posts/:id", s.DeletePost)
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(v)
	default:
		raw, _ := json.Marshal(v)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func validPostBody(id uint) map[string]any {
	return map[string]any{
		"id":    id,
		"title": "Title",
		"body":  "Body",
		"user":  map[string]any{"id": 1},
	}
}

func TestGetPosts(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
		expectedLen    int
	}{
		{
			name:   "All posts",
			target: "/posts",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetAllPosts", mock.Anything, (*uint)(nil)).
					Return([]*models.Post{{ID: 1}, {ID: 2}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name:   "Filtered by user",
			target: "/posts?userId=3",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetAllPosts", mock.Anything, mock.MatchedBy(func(id *uint) bool {
					return id != nil && *id == 3
				})).Return([]*models.Post{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name:           "Non-numeric userId",
			target:         "/posts?userId=abc",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Zero userId matches nobody",
			target: "/posts?userId=0",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetAllPosts", mock.Anything, mock.MatchedBy(func(id *uint) bool {
					return id != nil && *id == 0
				})).Return([]*models.Post{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name:   "Negative userId matches nobody",
			target: "/posts?userId=-4",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetAllPosts", mock.Anything, mock.MatchedBy(func(id *uint) bool {
					return id != nil && *id == 0
				})).Return([]*models.Post{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name:   "Storage failure",
			target: "/posts",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetAllPosts", mock.Anything, (*uint)(nil)).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app := newPostsTestApp(mockRepo)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var posts []models.Post
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
				assert.Len(t, posts, tt.expectedLen)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetPost(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name:   "Found",
			target: "/posts/1",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetPost", mock.Anything, uint(1)).Return(&models.Post{ID: 1, Title: "One"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Not found",
			target: "/posts/9",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetPost", mock.Anything, uint(9)).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid id",
			target:         "/posts/abc",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Zero id",
			target:         "/posts/0",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Negative id",
			target:         "/posts/-1",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app := newPostsTestApp(mockRepo)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name             string
		body             any
		mockSetup        func(m *MockPostRepository)
		expectedStatus   int
		expectedLocation string
	}{
		{
			name: "Success",
			body: validPostBody(0),
			mockSetup: func(m *MockPostRepository) {
				m.On("PostExists", mock.Anything, uint(0)).Return(false, nil)
				m.On("AddPost", mock.Anything, mock.AnythingOfType("*models.Post")).
					Run(func(args mock.Arguments) {
						p := args.Get(1).(*models.Post)
						p.ID = 6
						p.Version = 1
					}).Return(nil)
			},
			expectedStatus:   http.StatusCreated,
			expectedLocation: "/api/posts/6",
		},
		{
			name:           "Unparsable body",
			body:           "{not json",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing title",
			body:           map[string]any{"body": "b", "user": map[string]any{"id": 1}},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing body",
			body:           map[string]any{"title": "t", "user": map[string]any{"id": 1}},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing user",
			body:           map[string]any{"title": "t", "body": "b"},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "User without id",
			body:           map[string]any{"title": "t", "body": "b", "user": map[string]any{"name": "x"}},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Id already taken",
			body: validPostBody(4),
			mockSetup: func(m *MockPostRepository) {
				m.On("PostExists", mock.Anything, uint(4)).Return(true, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown user",
			body: validPostBody(0),
			mockSetup: func(m *MockPostRepository) {
				m.On("PostExists", mock.Anything, uint(0)).Return(false, nil)
				m.On("AddPost", mock.Anything, mock.Anything).Return(repository.ErrUserNotFound)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate key race",
			body: validPostBody(0),
			mockSetup: func(m *MockPostRepository) {
				m.On("PostExists", mock.Anything, uint(0)).Return(false, nil)
				m.On("AddPost", mock.Anything, mock.Anything).Return(repository.ErrPostExists)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Storage failure",
			body: validPostBody(0),
			mockSetup: func(m *MockPostRepository) {
				m.On("PostExists", mock.Anything, uint(0)).Return(false, nil)
				m.On("AddPost", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app := newPostsTestApp(mockRepo)

			resp, err := app.Test(jsonRequest(http.MethodPost, "/posts", tt.body))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, resp.Header.Get("Location"))
				var created models.Post
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
				assert.Equal(t, uint(6), created.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdatePost(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           any
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "Applied",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateApplied, nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Validation failure",
			target:         "/posts/2",
			body:           map[string]any{"id": 2, "title": "t"},
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Path and body id differ",
			target:         "/posts/2",
			body:           validPostBody(3),
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Body without id",
			target:         "/posts/2",
			body:           validPostBody(0),
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid path id",
			target:         "/posts/zero",
			body:           validPostBody(2),
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Not found and gone",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateNotFound, nil)
				m.On("PostExists", mock.Anything, uint(2)).Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Conflict and gone",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateConflict, nil)
				m.On("PostExists", mock.Anything, uint(2)).Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Conflict and still present",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateConflict, nil)
				m.On("PostExists", mock.Anything, uint(2)).Return(true, nil)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
		{
			name:   "Not found but reappeared",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateNotFound, nil)
				m.On("PostExists", mock.Anything, uint(2)).Return(true, nil)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
		{
			name:   "Unknown user",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateFailed, repository.ErrUserNotFound)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Storage failure",
			target: "/posts/2",
			body:   validPostBody(2),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateFailed, errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:   "Zero path id with zero body id",
			target: "/posts/0",
			body:   validPostBody(0),
			mockSetup: func(m *MockPostRepository) {
				m.On("UpdatePost", mock.Anything, mock.Anything).Return(repository.UpdateNotFound, nil)
				m.On("PostExists", mock.Anything, uint(0)).Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Negative path id",
			target:         "/posts/-2",
			body:           validPostBody(2),
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app := newPostsTestApp(mockRepo)

			resp, err := app.Test(jsonRequest(http.MethodPut, tt.target, tt.body))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedCode != "" {
				var errResp models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
				assert.Equal(t, tt.expectedCode, errResp.Code)
				assert.Contains(t, errResp.Details, repository.ErrConcurrencyConflict.Error())
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestDeletePost(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		mockSetup      func(m *MockPostRepository)
		expectedStatus int
	}{
		{
			name:   "Deleted",
			target: "/posts/2",
			mockSetup: func(m *MockPostRepository) {
				post := &models.Post{ID: 2, Title: "Two"}
				m.On("GetPost", mock.Anything, uint(2)).Return(post, nil)
				m.On("DeletePost", mock.Anything, post).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Absent",
			target: "/posts/999",
			mockSetup: func(m *MockPostRepository) {
				m.On("GetPost", mock.Anything, uint(999)).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Removed concurrently",
			target: "/posts/2",
			mockSetup: func(m *MockPostRepository) {
				post := &models.Post{ID: 2}
				m.On("GetPost", mock.Anything, uint(2)).Return(post, nil)
				m.On("DeletePost", mock.Anything, post).Return(repository.ErrConcurrencyConflict)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid id",
			target:         "/posts/two",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Zero id",
			target:         "/posts/0",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Negative id",
			target:         "/posts/-1",
			mockSetup:      func(m *MockPostRepository) {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPostRepository)
			tt.mockSetup(mockRepo)
			app := newPostsTestApp(mockRepo)

			resp, err := app.Test(httptest.NewRequest(http.MethodDelete, tt.target, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var deleted models.Post
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&deleted))
				assert.Equal(t, "Two", deleted.Title)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
