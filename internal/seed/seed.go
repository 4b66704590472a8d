// Package seed fills the database with fake blog content for development.
package seed

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bluelog/core/internal/models"
	"github.com/bluelog/core/internal/modules/auth/user"
	"github.com/bluelog/core/internal/modules/content/category"
	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"
)

const (
	FakeUsername = "admin"
	FakePassword = "helloflask"

	bodyLength = 2000
	batchSize  = 100
)

// FakeProfile is the profile of the forged admin.
var FakeProfile = user.Profile{
	BlogTitle:    "Bluelog",
	BlogSubTitle: "This is a fake blog",
	Name:         "Admin",
	About:        "A fake admin...",
}

// Options sizes the generated data.
type Options struct {
	Categories int
	Posts      int
	Comments   int
	// AdminEmail and BaseURL fill the admin comments.
	AdminEmail string
	BaseURL    string
	// Seed makes the output reproducible; 0 picks a random seed.
	Seed uint64
}

// DefaultOptions mirrors the forge command defaults.
func DefaultOptions() Options {
	return Options{Categories: 10, Posts: 50, Comments: 500}
}

// Forger writes fake records and reports progress to out.
type Forger struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	out   io.Writer
	opts  Options
	now   time.Time
}

func New(db *gorm.DB, opts Options, out io.Writer) *Forger {
	if out == nil {
		out = io.Discard
	}
	return &Forger{
		db:    db,
		faker: gofakeit.New(opts.Seed),
		out:   out,
		opts:  opts,
		now:   time.Now(),
	}
}

// Run generates the admin, categories, posts and comments in that order.
// The tables are expected to be empty.
func (f *Forger) Run() error {
	fmt.Fprintln(f.out, "Generating the administrator...")
	if err := f.Admin(); err != nil {
		return fmt.Errorf("forge admin: %w", err)
	}
	fmt.Fprintf(f.out, "Generating %d categories...\n", f.opts.Categories)
	if err := f.Categories(f.opts.Categories); err != nil {
		return fmt.Errorf("forge categories: %w", err)
	}
	fmt.Fprintf(f.out, "Generating %d posts...\n", f.opts.Posts)
	if err := f.Posts(f.opts.Posts); err != nil {
		return fmt.Errorf("forge posts: %w", err)
	}
	fmt.Fprintf(f.out, "Generating %d comments...\n", f.opts.Comments)
	if err := f.Comments(f.opts.Comments); err != nil {
		return fmt.Errorf("forge comments: %w", err)
	}
	fmt.Fprintln(f.out, "Done.")
	return nil
}

// Admin creates the fake administrator.
func (f *Forger) Admin() error {
	_, _, err := user.NewService(f.db).Upsert(FakeUsername, FakePassword, FakeProfile)
	return err
}

// Categories creates the default category and count random ones. Random
// names that already exist are skipped.
func (f *Forger) Categories(count int) error {
	svc := category.NewService(f.db)
	if _, err := svc.EnsureDefault(); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		_, err := svc.Create(f.faker.Word())
		if err != nil && !errors.Is(err, category.ErrNameInUse) {
			return err
		}
	}
	return nil
}

// Posts creates count posts spread over the existing categories.
func (f *Forger) Posts(count int) error {
	var categoryIDs []uint
	if err := f.db.Model(&models.CategoryModel{}).Pluck("id", &categoryIDs).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return errors.New("no categories")
	}

	posts := make([]models.PostModel, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, models.PostModel{
			Title:      f.faker.Sentence(6),
			Body:       f.text(bodyLength),
			CategoryID: categoryIDs[f.faker.IntN(len(categoryIDs))],
			Timestamp:  f.thisYear(),
			CanComment: true,
		})
	}
	return f.db.CreateInBatches(posts, batchSize).Error
}

// Comments creates count reviewed visitor comments, then a tenth of count
// each of unreviewed comments, admin comments and replies.
func (f *Forger) Comments(count int) error {
	var postIDs []uint
	if err := f.db.Model(&models.PostModel{}).Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	if len(postIDs) == 0 {
		return errors.New("no posts")
	}
	randomPost := func() uint { return postIDs[f.faker.IntN(len(postIDs))] }

	salt := count / 10
	comments := make([]models.CommentModel, 0, count+2*salt)
	for i := 0; i < count; i++ {
		comments = append(comments, f.visitorComment(randomPost(), true))
	}
	for i := 0; i < salt; i++ {
		comments = append(comments, f.visitorComment(randomPost(), false))
	}

	adminName := FakeProfile.Name
	if owner, err := user.NewService(f.db).GetOwner(); err == nil && owner != nil {
		adminName = owner.Name
	}
	for i := 0; i < salt; i++ {
		comments = append(comments, models.CommentModel{
			Author:    adminName,
			Email:     f.opts.AdminEmail,
			Site:      f.opts.BaseURL,
			Body:      f.faker.Sentence(10),
			Timestamp: f.thisYear(),
			FromAdmin: true,
			Reviewed:  true,
			PostID:    randomPost(),
		})
	}
	if len(comments) > 0 {
		if err := f.db.CreateInBatches(comments, batchSize).Error; err != nil {
			return err
		}
	}
	if salt == 0 {
		return nil
	}

	var targets []models.CommentModel
	if err := f.db.Select("id, post_id").Find(&targets).Error; err != nil {
		return err
	}
	replies := make([]models.CommentModel, 0, salt)
	for i := 0; i < salt; i++ {
		replied := targets[f.faker.IntN(len(targets))]
		reply := f.visitorComment(replied.PostID, true)
		id := replied.ID
		reply.RepliedID = &id
		replies = append(replies, reply)
	}
	return f.db.CreateInBatches(replies, batchSize).Error
}

func (f *Forger) visitorComment(postID uint, reviewed bool) models.CommentModel {
	return models.CommentModel{
		Author:    f.faker.Name(),
		Email:     f.faker.Email(),
		Site:      f.faker.URL(),
		Body:      f.faker.Sentence(10),
		Timestamp: f.thisYear(),
		Reviewed:  reviewed,
		PostID:    postID,
	}
}

func (f *Forger) thisYear() time.Time {
	start := time.Date(f.now.Year(), time.January, 1, 0, 0, 0, 0, f.now.Location())
	return f.faker.DateRange(start, f.now)
}

// text returns paragraphs of lorem text of at most n runes.
func (f *Forger) text(n int) string {
	body := []rune(f.faker.Paragraph(5, 6, 12, "\n\n"))
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
