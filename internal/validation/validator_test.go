package validation

import (
	"errors"
	"testing"

	"blogapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Post(t *testing.T) {
	tests := []struct {
		name    string
		post    models.Post
		wantErr string
	}{
		{
			name: "Valid",
			post: models.Post{Title: "Posty", Body: "McPost", User: &models.User{ID: 1}},
		},
		{
			name:    "Missing Title",
			post:    models.Post{Body: "McPost", User: &models.User{ID: 1}},
			wantErr: "title is required",
		},
		{
			name:    "Missing Body",
			post:    models.Post{Title: "Posty", User: &models.User{ID: 1}},
			wantErr: "body is required",
		},
		{
			name:    "Missing User",
			post:    models.Post{Title: "Posty", Body: "McPost"},
			wantErr: "user is required",
		},
		{
			name:    "User Without ID",
			post:    models.Post{Title: "Posty", Body: "McPost", User: &models.User{Name: "Rob Pike"}},
			wantErr: "user.id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.post)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Contains(t, appErr.Message, tt.wantErr)
		})
	}
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(&models.Post{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "body is required")
	assert.Contains(t, err.Error(), "user is required")
}

func TestTrimRoot(t *testing.T) {
	assert.Equal(t, "user.id", trimRoot("Post.user.id"))
	assert.Equal(t, "title", trimRoot("title"))
}
