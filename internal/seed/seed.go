// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	"technology", "travel", "food", "lifestyle", "culture", "science",
}

// Seeder populates the database with generated users and posts.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Posts first so nothing references users.
func (s *Seeder) ClearAll() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("failed to clear posts: %w", err)
	}
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	log.Println("Cleared existing users and posts")
	return nil
}

// SeedUsers creates n users, all with the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, &models.User{
			Names:    gofakeit.Name(),
			Email:    fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		})
	}

	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedPosts creates n posts attributed to random seeded users. Roughly one in
// five posts is marked sponsored and one in four featured, so the fixed-size
// listing endpoints always have material to serve.
func (s *Seeder) SeedPosts(users []*models.User, n int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attribute posts to")
	}

	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		posts = append(posts, s.buildPost(author))
	}

	if err := s.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))
	return posts, nil
}

func (s *Seeder) buildPost(author *models.User) *models.Post {
	tags := make([]string, 0, 3)
	for i := 0; i < s.rand.Intn(3)+1; i++ {
		tags = append(tags, gofakeit.Word())
	}

	// spread publication dates over the last 90 days
	daysBack := s.rand.Intn(90)
	hoursBack := s.rand.Intn(24)
	posted := time.Now().UTC().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	return &models.Post{
		Title:      gofakeit.Sentence(6),
		Category:   categories[s.rand.Intn(len(categories))],
		Content:    gofakeit.Paragraph(3, 5, 8, "\n\n"),
		ImageURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		DatePosted: posted,
		PosterDetails: models.PosterDetails{
			Author: author.Names,
			Email:  author.Email,
		},
		Tags:      tags,
		IsSpecial: s.rand.Intn(5) == 0,
		Featured:  s.rand.Intn(4) == 0,
	}
}
