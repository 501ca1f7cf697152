package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListSponsored(ctx context.Context, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Post, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Random(ctx context.Context, n int) ([]*models.Post, error) {
	args := m.Called(ctx, n)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Search(ctx context.Context, query string) ([]*models.Post, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Paginate(ctx context.Context, page, pageSize int) (*repository.PostPage, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PostPage), args.Error(1)
}

func newPostTestServer(repo *MockPostRepository) (*fiber.App, *Server) {
	s := &Server{
		config:   &config.Config{Env: "test"},
		tokens:   newTestTokenService(),
		postRepo: repo,
	}
	app := fiber.New()
	app.Get("/sponsordPost", s.SponsoredPosts)
	app.Get("/featuresPost", s.FeaturedPosts)
	app.Get("/randomPost", s.RandomPosts)
	app.Get("/search", s.SearchPosts)
	app.Get("/getPosts", s.GetPosts)
	app.Get("/fullpost/:postId", s.GetFullPost)
	app.Post("/createPost", s.CreatePost)
	app.Delete("/delete/:postId", s.DeletePost)
	app.Put("/updatePost/:postId", s.UpdatePost)
	return app, s
}

func TestSponsoredPostsUsesFixedCap(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("ListSponsored", mock.Anything, 2).Return([]*models.Post{
		{ID: 1, Title: "First", IsSpecial: true},
		{ID: 2, Title: "Second", IsSpecial: true},
	}, nil)
	app, _ := newPostTestServer(repo)

	req, _ := http.NewRequest(http.MethodGet, "/sponsordPost", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
	repo.AssertExpectations(t)
}

func TestFeaturedPostsUsesFixedCap(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("ListFeatured", mock.Anything, 2).Return([]*models.Post{
		{ID: 3, Title: "Third", Featured: true},
	}, nil)
	app, _ := newPostTestServer(repo)

	req, _ := http.NewRequest(http.MethodGet, "/featuresPost", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestRandomPostsUsesFixedCap(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("Random", mock.Anything, 3).Return([]*models.Post{
		{ID: 1}, {ID: 2}, {ID: 3},
	}, nil)
	app, _ := newPostTestServer(repo)

	req, _ := http.NewRequest(http.MethodGet, "/randomPost", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestSearchPosts(t *testing.T) {
	t.Run("Missing Query", func(t *testing.T) {
		app, _ := newPostTestServer(new(MockPostRepository))

		req, _ := http.NewRequest(http.MethodGet, "/search", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Matches", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Search", mock.Anything, "gopher").Return([]*models.Post{
			{ID: 7, Title: "All About Gophers"},
		}, nil)
		app, _ := newPostTestServer(repo)

		req, _ := http.NewRequest(http.MethodGet, "/search?query=gopher", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []models.Post
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
		assert.Len(t, posts, 1)
		repo.AssertExpectations(t)
	})
}

func TestGetPostsPagination(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Paginate", mock.Anything, 1, 8).Return(&repository.PostPage{
			Posts:       []*models.Post{{ID: 1}},
			TotalPages:  1,
			CurrentPage: 1,
			TotalPosts:  1,
		}, nil)
		app, _ := newPostTestServer(repo)

		req, _ := http.NewRequest(http.MethodGet, "/getPosts", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		repo.AssertExpectations(t)
	})

	t.Run("Explicit Page And Limit", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Paginate", mock.Anything, 2, 8).Return(&repository.PostPage{
			Posts:       make([]*models.Post, 8),
			TotalPages:  3,
			CurrentPage: 2,
			TotalPosts:  20,
		}, nil)
		app, _ := newPostTestServer(repo)

		req, _ := http.NewRequest(http.MethodGet, "/getPosts?page=2&limit=8", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var page repository.PostPage
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Equal(t, 2, page.CurrentPage)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(20), page.TotalPosts)
		repo.AssertExpectations(t)
	})
}

func TestGetFullPost(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("GetByID", mock.Anything, uint(42)).Return(&models.Post{
			ID: 42, Title: "Deep Dive",
		}, nil)
		app, _ := newPostTestServer(repo)

		req, _ := http.NewRequest(http.MethodGet, "/fullpost/42", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var decoded struct {
			Post models.Post `json:"post"`
		}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
		assert.Equal(t, uint(42), decoded.Post.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, models.NewNotFoundError("Post", uint(99)))
		app, _ := newPostTestServer(repo)

		req, _ := http.NewRequest(http.MethodGet, "/fullpost/99", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		app, _ := newPostTestServer(new(MockPostRepository))

		req, _ := http.NewRequest(http.MethodGet, "/fullpost/abc", nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreatePost(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.Title == "A New Post" &&
				p.Category == "technology" &&
				p.PosterDetails.Author == "Alice Doe" &&
				p.IsSpecial && !p.Featured
		})).Return(nil)
		app, _ := newPostTestServer(repo)

		body, _ := json.Marshal(map[string]any{
			"title":        "A New Post",
			"maincategory": "technology",
			"content":      "Some body text.",
			"imageUrl":     "https://example.com/cover.jpg",
			"author":       "Alice Doe",
			"email":        "alice@example.com",
			"tags":         []string{"go", "testing"},
			"isSpecial":    true,
			"isFeatured":   false,
		})
		req, _ := http.NewRequest(http.MethodPost, "/createPost", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		repo.AssertExpectations(t)
	})

	t.Run("Script Tags Are Stripped", func(t *testing.T) {
		repo := new(MockPostRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return !bytes.Contains([]byte(p.Content), []byte("<script>"))
		})).Return(nil)
		app, _ := newPostTestServer(repo)

		body, _ := json.Marshal(map[string]any{
			"title":        "A New Post",
			"maincategory": "technology",
			"content":      "hello <script>alert(1)</script> world",
		})
		req, _ := http.NewRequest(http.MethodPost, "/createPost", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		repo.AssertExpectations(t)
	})

	t.Run("Missing Title", func(t *testing.T) {
		app, _ := newPostTestServer(new(MockPostRepository))

		body, _ := json.Marshal(map[string]any{
			"maincategory": "technology",
			"content":      "Some body text.",
		})
		req, _ := http.NewRequest(http.MethodPost, "/createPost", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePostEchoesRemovedDocument(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("Delete", mock.Anything, uint(5)).Return(&models.Post{
		ID: 5, Title: "Doomed Post",
	}, nil)
	app, _ := newPostTestServer(repo)

	req, _ := http.NewRequest(http.MethodDelete, "/delete/5", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, "Doomed Post", post.Title)
	repo.AssertExpectations(t)
}

func TestDeletePostNotFound(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("Delete", mock.Anything, uint(99)).
		Return(nil, models.NewNotFoundError("Post", uint(99)))
	app, _ := newPostTestServer(repo)

	req, _ := http.NewRequest(http.MethodDelete, "/delete/99", nil)
	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePostPartialUpdate(t *testing.T) {
	existing := &models.Post{
		ID:        10,
		Title:     "Original Title",
		Category:  "travel",
		Content:   "Original content.",
		IsSpecial: true,
		Featured:  false,
	}

	repo := new(MockPostRepository)
	repo.On("GetByID", mock.Anything, uint(10)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		// Only the title changed; untouched fields keep their values,
		// including the true sponsored flag absent from the body.
		return p.Title == "Updated Title" &&
			p.Category == "travel" &&
			p.Content == "Original content." &&
			p.IsSpecial && !p.Featured
	})).Return(nil)
	app, _ := newPostTestServer(repo)

	body, _ := json.Marshal(map[string]any{"title": "Updated Title"})
	req, _ := http.NewRequest(http.MethodPut, "/updatePost/10", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestUpdatePostFlagCanBeCleared(t *testing.T) {
	existing := &models.Post{
		ID:        11,
		Title:     "Sponsored Post",
		Category:  "food",
		Content:   "Body.",
		IsSpecial: true,
	}

	repo := new(MockPostRepository)
	repo.On("GetByID", mock.Anything, uint(11)).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return !p.IsSpecial
	})).Return(nil)
	app, _ := newPostTestServer(repo)

	// An explicit false is distinct from an absent field.
	body, _ := json.Marshal(map[string]any{"isSpecial": false})
	req, _ := http.NewRequest(http.MethodPut, "/updatePost/11", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	repo.AssertExpectations(t)
}

func TestUpdatePostNotFound(t *testing.T) {
	repo := new(MockPostRepository)
	repo.On("GetByID", mock.Anything, uint(404)).
		Return(nil, models.NewNotFoundError("Post", uint(404)))
	app, _ := newPostTestServer(repo)

	body, _ := json.Marshal(map[string]any{"title": "New Title"})
	req, _ := http.NewRequest(http.MethodPut, "/updatePost/404", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
