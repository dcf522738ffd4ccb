package seed

import (
	"fmt"
	"log"

	"chronicle/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	ShouldClean bool
}

// Seed populates the database with test data. All generated users share
// the password "password123".
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d articles...", opts.NumUsers, opts.NumArticles)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := ensurePermissions(db); err != nil {
		return fmt.Errorf("failed to create permissions: %w", err)
	}

	factory := NewFactory(db)

	users, err := createUsers(db, factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d test users created", len(users))

	articles, err := createArticles(factory, users, opts.NumArticles)
	if err != nil {
		return fmt.Errorf("failed to create articles: %w", err)
	}
	log.Printf("%d articles created", len(articles))

	if err := createComments(factory, users, articles); err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, article_tags, articles, tags, user_permissions, permissions, profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// ensurePermissions creates the full permission catalogue so grants can
// reference the rows by codename.
func ensurePermissions(db *gorm.DB) error {
	for _, codename := range models.AllPermissions {
		var perm models.Permission
		if err := db.Where("codename = ?", codename).
			FirstOrCreate(&perm, models.Permission{Codename: codename}).Error; err != nil {
			return err
		}
	}
	return nil
}

func grantPermissions(db *gorm.DB, user *models.User, codenames []string) error {
	var perms []models.Permission
	if err := db.Where("codename IN ?", codenames).Find(&perms).Error; err != nil {
		return err
	}
	return db.Model(user).Association("Permissions").Append(&perms)
}

func createUsers(db *gorm.DB, factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A couple of well-known accounts for manual testing. The editor
	// holds the full permission set, including article deletion.
	if count >= 2 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		for _, name := range []string{"editor", "reader"} {
			user := &models.User{
				Username: name,
				Email:    fmt.Sprintf("%s@example.com", name),
				Password: string(hashedPassword),
				Profile:  &models.Profile{},
			}
			if err := db.Create(user).Error; err != nil {
				continue
			}

			grants := models.DefaultPermissions
			if name == "editor" {
				grants = models.AllPermissions
			}
			if err := grantPermissions(db, user, grants); err != nil {
				return nil, err
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		if err := grantPermissions(db, user, models.DefaultPermissions); err != nil {
			return nil, err
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createArticles(factory *Factory, users []*models.User, count int) ([]*models.Article, error) {
	if len(users) == 0 {
		return nil, nil
	}

	articles := make([]*models.Article, 0, count)
	for i := 0; i < count; i++ {
		author := users[factory.r.Intn(len(users))]
		article, err := factory.CreateArticle(author)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d articles...", i)
		}
	}
	return articles, nil
}

func createComments(factory *Factory, users []*models.User, articles []*models.Article) error {
	if len(users) == 0 {
		return nil
	}

	total := 0
	for _, article := range articles {
		for i := 0; i < factory.r.Intn(5); i++ {
			author := users[factory.r.Intn(len(users))]
			if _, err := factory.CreateComment(author, article); err != nil {
				return err
			}
			total++
		}
	}
	log.Printf("%d comments created", total)
	return nil
}
