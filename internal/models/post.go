package models

import "time"

// PostStatus is the editorial state of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
	PostArchived  PostStatus = "archived"
)

// PostModel is a blog post.
type PostModel struct {
	Base
	Title       string         `json:"title"        gorm:"not null"`
	Slug        string         `json:"slug"         gorm:"uniqueIndex;size:191;not null"`
	Summary     string         `json:"summary"`
	Text        string         `json:"text"         gorm:"type:longtext"`
	Status      PostStatus     `json:"status"       gorm:"size:16;default:draft;index"`
	Featured    bool           `json:"featured"     gorm:"default:false;index"`
	CategoryID  *string        `json:"category_id"  gorm:"index"`
	Category    *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	AuthorID    *string        `json:"author_id"    gorm:"index"`
	Author      *UserModel     `json:"author,omitempty"   gorm:"foreignKey:AuthorID"`
	PublishedAt *time.Time     `json:"published_at" gorm:"index"`
	Tags        []TagModel     `json:"tags,omitempty"     gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
}

func (PostModel) TableName() string { return "posts" }
