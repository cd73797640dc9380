package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/penline/blog/internal/database"
	"github.com/penline/blog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

// fixture creates rows with explicit timestamps relative to testNow.
type fixture struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func newFixture(t *testing.T) *fixture { return &fixture{t: t, db: newTestDB(t)} }

func (f *fixture) seq(prefix string) string {
	f.n++
	return fmt.Sprintf("%s-%d", prefix, f.n)
}

func (f *fixture) category(name string) *models.CategoryModel {
	c := &models.CategoryModel{Name: name, Slug: f.seq(name)}
	c.CreatedAt = testNow.Add(-30 * 24 * time.Hour)
	require.NoError(f.t, f.db.Create(c).Error)
	return c
}

func (f *fixture) tag(name string) *models.TagModel {
	tg := &models.TagModel{Name: name, Slug: f.seq(name)}
	tg.CreatedAt = testNow.Add(-30 * 24 * time.Hour)
	require.NoError(f.t, f.db.Create(tg).Error)
	return tg
}

func (f *fixture) post(status models.PostStatus, category *models.CategoryModel, tags ...models.TagModel) *models.PostModel {
	p := &models.PostModel{Title: f.seq("post"), Status: status, Tags: tags}
	p.Slug = p.Title
	if category != nil {
		p.CategoryID = &category.ID
	}
	p.CreatedAt = testNow.Add(-10 * 24 * time.Hour)
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}

func (f *fixture) comments(post *models.PostModel, n int, age time.Duration) {
	for i := 0; i < n; i++ {
		c := &models.CommentModel{PostID: post.ID, Author: "reader", Text: "nice"}
		c.CreatedAt = testNow.Add(-age)
		require.NoError(f.t, f.db.Create(c).Error)
	}
}

func (f *fixture) likes(post *models.PostModel, n int, age time.Duration) {
	for i := 0; i < n; i++ {
		l := &models.LikeModel{PostID: post.ID, IP: f.seq("10.0.0")}
		l.CreatedAt = testNow.Add(-age)
		require.NoError(f.t, f.db.Create(l).Error)
	}
}

func TestStoreCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	published := f.post(models.PostPublished, nil)
	f.post(models.PostDraft, nil)
	featured := f.post(models.PostPublished, nil)
	require.NoError(t, f.db.Model(featured).Update("featured", true).Error)
	require.NoError(t, f.db.Create(&models.UserModel{Username: "admin", Name: "Admin", Password: "x", IsAdmin: true}).Error)

	f.comments(published, 3, time.Hour)
	f.comments(published, 2, 72*time.Hour)
	f.likes(published, 4, 2*time.Hour)
	f.likes(featured, 1, 96*time.Hour)

	c, err := NewStore(f.db).Counts(ctx, testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.TotalPosts)
	assert.Equal(t, int64(2), c.PublishedPosts)
	assert.Equal(t, int64(1), c.DraftPosts)
	assert.Equal(t, int64(1), c.FeaturedPosts)
	assert.Equal(t, int64(5), c.TotalComments)
	assert.Equal(t, int64(5), c.TotalLikes)
	assert.Equal(t, int64(1), c.TotalUsers)
	assert.Equal(t, int64(3), c.RecentComments)
	assert.Equal(t, int64(4), c.RecentLikes)
	assert.Equal(t, int64(0), c.RecentPosts)
}

func TestStoreTopPostsOrdersByEstimatedViews(t *testing.T) {
	f := newFixture(t)
	quiet := f.post(models.PostPublished, nil)
	liked := f.post(models.PostPublished, nil)
	talked := f.post(models.PostPublished, nil)

	f.comments(talked, 3, time.Hour)
	f.likes(liked, 2, time.Hour)

	top, err := NewStore(f.db).TopPosts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, liked.ID, top[0].ID)
	assert.Equal(t, int64(4), top[0].ViewCount)
	assert.Equal(t, int64(2), top[0].LikeCount)
	assert.Equal(t, talked.ID, top[1].ID)
	assert.Equal(t, int64(3), top[1].CommentCount)
	assert.Equal(t, quiet.ID, top[2].ID)
	assert.Equal(t, int64(0), top[2].ViewCount)
}

func TestStoreTopCategoriesAndTags(t *testing.T) {
	f := newFixture(t)
	goCat := f.category("go")
	lifeCat := f.category("life")
	f.category("empty")

	goTag := f.tag("golang")
	dbTag := f.tag("database")

	a := f.post(models.PostPublished, goCat, *goTag, *dbTag)
	b := f.post(models.PostPublished, goCat, *goTag)
	c := f.post(models.PostPublished, lifeCat)

	f.comments(a, 2, time.Hour)
	f.likes(b, 1, time.Hour)
	f.likes(c, 5, time.Hour)

	store := NewStore(f.db)
	cats, err := store.TopCategories(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "life", cats[0].Name)
	assert.Equal(t, int64(10), cats[0].TotalViews)
	assert.Equal(t, int64(1), cats[0].PostCount)
	assert.Equal(t, "go", cats[1].Name)
	assert.Equal(t, int64(4), cats[1].TotalViews)
	assert.Equal(t, int64(2), cats[1].PostCount)
	assert.Equal(t, "empty", cats[2].Name)
	assert.Equal(t, int64(0), cats[2].TotalViews)

	tags, err := store.TopTags(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "golang", tags[0].Name)
	assert.Equal(t, int64(4), tags[0].TotalViews)
	assert.Equal(t, int64(2), tags[0].PostCount)
	assert.Equal(t, "database", tags[1].Name)
	assert.Equal(t, int64(2), tags[1].TotalViews)
}

func TestStoreSkipsSoftDeletedPosts(t *testing.T) {
	f := newFixture(t)
	cat := f.category("go")
	kept := f.post(models.PostPublished, cat)
	gone := f.post(models.PostPublished, cat)
	f.likes(gone, 3, time.Hour)
	require.NoError(t, f.db.Delete(gone).Error)

	store := NewStore(f.db)
	top, err := store.TopPosts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, kept.ID, top[0].ID)

	cats, err := store.TopCategories(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, int64(1), cats[0].PostCount)
	assert.Equal(t, int64(0), cats[0].TotalViews)
}
