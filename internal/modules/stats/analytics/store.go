package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/penline/blog/internal/models"
	"gorm.io/gorm"
)

// Counts are the raw totals the internal and vercel providers start from.
type Counts struct {
	TotalPosts     int64
	PublishedPosts int64
	DraftPosts     int64
	FeaturedPosts  int64
	TotalComments  int64
	TotalLikes     int64
	TotalUsers     int64

	RecentPosts    int64
	RecentComments int64
	RecentLikes    int64
}

// Source is the read model behind the database-backed providers.
type Source interface {
	Counts(ctx context.Context, since time.Time) (Counts, error)
	TopPosts(ctx context.Context, limit int) ([]TopPost, error)
	TopCategories(ctx context.Context, limit int) ([]TopGroup, error)
	TopTags(ctx context.Context, limit int) ([]TopGroup, error)
}

// Store answers analytics queries with gorm.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Counts runs one COUNT per figure. No transaction spans them.
func (s *Store) Counts(ctx context.Context, since time.Time) (Counts, error) {
	db := s.db.WithContext(ctx)
	var c Counts

	queries := []struct {
		dst *int64
		tx  *gorm.DB
	}{
		{&c.TotalPosts, db.Model(&models.PostModel{})},
		{&c.PublishedPosts, db.Model(&models.PostModel{}).Where("status = ?", models.PostPublished)},
		{&c.DraftPosts, db.Model(&models.PostModel{}).Where("status = ?", models.PostDraft)},
		{&c.FeaturedPosts, db.Model(&models.PostModel{}).Where("featured = ?", true)},
		{&c.TotalComments, db.Model(&models.CommentModel{})},
		{&c.TotalLikes, db.Model(&models.LikeModel{})},
		{&c.TotalUsers, db.Model(&models.UserModel{})},
		{&c.RecentPosts, db.Model(&models.PostModel{}).Where("created_at >= ?", since)},
		{&c.RecentComments, db.Model(&models.CommentModel{}).Where("created_at >= ?", since)},
		{&c.RecentLikes, db.Model(&models.LikeModel{}).Where("created_at >= ?", since)},
	}
	for _, q := range queries {
		if err := q.tx.Count(q.dst).Error; err != nil {
			return Counts{}, err
		}
	}
	return c, nil
}

// engagementJoins attaches per-post comment and like counts as cc.cnt and lc.cnt.
func (s *Store) engagementJoins(tx *gorm.DB, postColumn string) *gorm.DB {
	comments := s.db.Model(&models.CommentModel{}).Select("post_id, COUNT(*) AS cnt").Group("post_id")
	likes := s.db.Model(&models.LikeModel{}).Select("post_id, COUNT(*) AS cnt").Group("post_id")
	return tx.
		Joins("LEFT JOIN (?) AS cc ON cc.post_id = "+postColumn, comments).
		Joins("LEFT JOIN (?) AS lc ON lc.post_id = "+postColumn, likes)
}

const viewExpr = "(COALESCE(cc.cnt, 0) + COALESCE(lc.cnt, 0) * 2)"

// TopPosts orders posts by the estimated view count comments + likes*2.
func (s *Store) TopPosts(ctx context.Context, limit int) ([]TopPost, error) {
	var rows []struct {
		ID           string `gorm:"column:id"`
		Title        string `gorm:"column:title"`
		Slug         string `gorm:"column:slug"`
		Status       string `gorm:"column:status"`
		CommentCount int64  `gorm:"column:comment_count"`
		LikeCount    int64  `gorm:"column:like_count"`
	}
	tx := s.db.WithContext(ctx).Table("posts").
		Select("posts.id, posts.title, posts.slug, posts.status, " +
			"COALESCE(cc.cnt, 0) AS comment_count, COALESCE(lc.cnt, 0) AS like_count")
	err := s.engagementJoins(tx, "posts.id").
		Where("posts.deleted_at IS NULL").
		Order(viewExpr + " DESC").
		Order("posts.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]TopPost, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopPost{
			ID:           r.ID,
			Title:        r.Title,
			Slug:         r.Slug,
			Status:       r.Status,
			CommentCount: r.CommentCount,
			LikeCount:    r.LikeCount,
			ViewCount:    r.CommentCount + r.LikeCount*2,
		})
	}
	return out, nil
}

type groupRow struct {
	ID         string `gorm:"column:id"`
	Name       string `gorm:"column:name"`
	Slug       string `gorm:"column:slug"`
	PostCount  int64  `gorm:"column:post_count"`
	TotalViews int64  `gorm:"column:total_views"`
}

const groupSelect = "%[1]s.id, %[1]s.name, %[1]s.slug, COUNT(posts.id) AS post_count, " +
	"COALESCE(SUM(" + viewExpr + "), 0) AS total_views"

// TopCategories ranks categories by the summed estimated views of their posts.
func (s *Store) TopCategories(ctx context.Context, limit int) ([]TopGroup, error) {
	var rows []groupRow
	tx := s.db.WithContext(ctx).Table("categories").
		Select(fmt.Sprintf(groupSelect, "categories")).
		Joins("LEFT JOIN posts ON posts.category_id = categories.id AND posts.deleted_at IS NULL")
	err := s.engagementJoins(tx, "posts.id").
		Where("categories.deleted_at IS NULL").
		Group("categories.id, categories.name, categories.slug").
		Order("total_views DESC").
		Order("post_count DESC").
		Order("categories.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGroups(rows), nil
}

// TopTags ranks tags through the post_tags join table.
func (s *Store) TopTags(ctx context.Context, limit int) ([]TopGroup, error) {
	var rows []groupRow
	tx := s.db.WithContext(ctx).Table("tags").
		Select(fmt.Sprintf(groupSelect, "tags")).
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL")
	err := s.engagementJoins(tx, "posts.id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name, tags.slug").
		Order("total_views DESC").
		Order("post_count DESC").
		Order("tags.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toGroups(rows), nil
}

func toGroups(rows []groupRow) []TopGroup {
	out := make([]TopGroup, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopGroup(r))
	}
	return out
}
