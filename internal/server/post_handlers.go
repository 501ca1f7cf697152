package server

import (
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Result caps for the fixed-size public listings.
const (
	sponsoredPostCap = 2
	featuredPostCap  = 2
	randomPostCap    = 3
)

// SponsoredPosts handles GET /sponsordPost (legacy spelling is the contract).
func (s *Server) SponsoredPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListSponsored(c.Context(), sponsoredPostCap)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}

// FeaturedPosts handles GET /featuresPost.
func (s *Server) FeaturedPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListFeatured(c.Context(), featuredPostCap)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}

// RandomPosts handles GET /randomPost.
func (s *Server) RandomPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.Random(c.Context(), randomPostCap)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /search?query=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	posts, err := s.postRepo.Search(c.Context(), query)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}

// GetFullPost handles GET /fullpost/:postId
func (s *Server) GetFullPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// DeletePost handles DELETE /delete/:postId and echoes the removed document.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.Delete(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /createPost
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title        string   `json:"title"`
		MainCategory string   `json:"maincategory"`
		Content      string   `json:"content"`
		ImageURL     string   `json:"imageUrl"`
		Author       string   `json:"author"`
		Email        string   `json:"email"`
		Tags         []string `json:"tags"`
		IsSpecial    bool     `json:"isSpecial"`
		IsFeatured   bool     `json:"isFeatured"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidatePostFields(req.Title, req.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	post := &models.Post{
		Title:    req.Title,
		Category: req.MainCategory,
		Content:  validation.SanitizeContent(req.Content),
		ImageURL: req.ImageURL,
		PosterDetails: models.PosterDetails{
			Author: req.Author,
			Email:  req.Email,
		},
		Tags:      req.Tags,
		IsSpecial: req.IsSpecial,
		Featured:  req.IsFeatured,
	}

	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /getPosts?page=&limit= with page metadata in the response.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 8)

	result, err := s.postRepo.Paginate(c.Context(), page, limit)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(result)
}

// UpdatePost handles PUT /updatePost/:postId. Fields absent from the body are
// left untouched; the flags use pointers so false is distinguishable from unset.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Title        *string   `json:"title"`
		MainCategory *string   `json:"maincategory"`
		Content      *string   `json:"content"`
		ImageURL     *string   `json:"imageUrl"`
		Tags         *[]string `json:"tags"`
		IsSpecial    *bool     `json:"isSpecial"`
		IsFeatured   *bool     `json:"isFeatured"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.MainCategory != nil {
		post.Category = *req.MainCategory
	}
	if req.Content != nil {
		post.Content = validation.SanitizeContent(*req.Content)
	}
	if req.ImageURL != nil {
		post.ImageURL = *req.ImageURL
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.IsSpecial != nil {
		post.IsSpecial = *req.IsSpecial
	}
	if req.IsFeatured != nil {
		post.Featured = *req.IsFeatured
	}

	if err := validation.ValidatePostFields(post.Title, post.Content); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if err := s.postRepo.Update(c.Context(), post); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}
