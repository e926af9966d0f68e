// Package seed populates the gateway server's database with demo data so the
// client can be exercised without manual setup.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"campushub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password shared by all seeded accounts.
const DemoPassword = "campus123"

// Run seeds demo users, posts, comments, and likes. It is idempotent: an
// already-seeded database is left untouched.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Database already seeded; skipping")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Username: "admin", Email: "admin@campus.edu", Role: models.RoleAdmin},
		{Username: "mod_taylor", Email: "taylor@campus.edu", Role: models.RoleModerator},
	}
	for i := 0; i < 8; i++ {
		users = append(users, models.User{
			Username: gofakeit.Username(),
			Email:    gofakeit.Email(),
			Role:     models.RoleStudent,
		})
	}
	for i := range users {
		users[i].Password = string(hashed)
		if err := db.Create(&users[i]).Error; err != nil {
			return fmt.Errorf("seeding user %s: %w", users[i].Username, err)
		}
	}

	statuses := []models.PostStatus{
		models.StatusPending, models.StatusApproved, models.StatusApproved,
		models.StatusRejected, models.StatusPending,
	}

	var posts []models.Post
	for i := 0; i < 20; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			Title:    gofakeit.Sentence(6),
			Content:  gofakeit.Paragraph(1, 3, 12, " "),
			AuthorID: author.ID,
			Status:   statuses[i%len(statuses)],
		}
		if err := db.Create(&post).Error; err != nil {
			return fmt.Errorf("seeding post: %w", err)
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			comment := models.Comment{
				PostID:   post.ID,
				AuthorID: users[rand.Intn(len(users))].ID,
				Content:  gofakeit.Sentence(10),
			}
			if err := db.Create(&comment).Error; err != nil {
				return fmt.Errorf("seeding comment: %w", err)
			}
		}

		for _, user := range users {
			if rand.Intn(3) == 0 {
				like := models.Like{UserID: user.ID, PostID: post.ID}
				if err := db.Create(&like).Error; err != nil {
					return fmt.Errorf("seeding like: %w", err)
				}
			}
		}
	}

	log.Printf("Seeded %d users and %d posts (password %q)", len(users), len(posts), DemoPassword)
	return nil
}
