package seed

import (
	"fmt"
	"log/slog"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	// MaxDays spreads generated created_at timestamps over the last N days.
	MaxDays int
	// RandomSeed fixes the generator for reproducible runs; 0 means time-based.
	RandomSeed int64
}

var tagPool = []string{
	"go", "python", "rust", "frontend", "backend", "devops", "cloud",
	"databases", "linux", "homelab", "ai", "security", "testing",
	"music", "movies", "books", "travel", "food", "fitness", "gaming",
}

// Run populates the database with a connected social mesh: users, tags,
// tagged posts, follows, likes and comments.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = opts.NumUsers * 3
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		overrides := []func(*models.User){}
		if i == 0 {
			// first user is staff so tag administration works out of the box
			overrides = append(overrides, func(u *models.User) {
				u.Username = "staff_" + u.Username
				u.IsStaff = true
			})
		}
		user, err := f.CreateUser(overrides...)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}

	tags := make([]models.Tag, 0, len(tagPool))
	for _, name := range tagPool {
		tag, err := f.CreateTag(name)
		if err != nil {
			return fmt.Errorf("creating tag %q: %w", name, err)
		}
		tags = append(tags, *tag)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rnd.Intn(len(users))]
		postTags := pickTags(f, tags)
		post, err := f.CreatePost(author, postTags)
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}

	// Each user follows a handful of others and interacts with a few posts.
	for _, user := range users {
		for i := 0; i < 3; i++ {
			if err := f.CreateFollow(user, users[f.rnd.Intn(len(users))]); err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
		}
		for i := 0; i < 5; i++ {
			post := posts[f.rnd.Intn(len(posts))]
			if err := f.CreateLike(user, post); err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
		}
		for i := 0; i < 2; i++ {
			post := posts[f.rnd.Intn(len(posts))]
			if _, err := f.CreateComment(user, post); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}
	}

	slog.Info("seed complete",
		"users", len(users), "tags", len(tags), "posts", len(posts))
	return nil
}

// pickTags selects 0-3 distinct tags for a post.
func pickTags(f *Factory, tags []models.Tag) []models.Tag {
	n := f.rnd.Intn(4)
	if n == 0 {
		return nil
	}
	picked := make([]models.Tag, 0, n)
	seen := make(map[uint]struct{}, n)
	for len(picked) < n {
		t := tags[f.rnd.Intn(len(tags))]
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		picked = append(picked, t)
	}
	return picked
}

// Clean removes all seeded rows. Join and child tables go first so foreign
// keys stay satisfied.
func Clean(db *gorm.DB) error {
	for _, stmt := range []string{
		"DELETE FROM post_tags",
		"DELETE FROM likes",
		"DELETE FROM comments",
		"DELETE FROM follows",
		"DELETE FROM posts",
		"DELETE FROM tags",
		"DELETE FROM users",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
