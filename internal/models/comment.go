package models

// CommentModel is a reader comment on a post.
type CommentModel struct {
	Base
	PostID string `json:"post_id" gorm:"type:char(36);not null;index"`
	Author string `json:"author"  gorm:"not null"`
	Mail   string `json:"mail"`
	Text   string `json:"text"    gorm:"type:text;not null"`
	IP     string `json:"ip"`
}

func (CommentModel) TableName() string { return "comments" }

// LikeModel records one like on a post.
type LikeModel struct {
	Base
	PostID string `json:"post_id" gorm:"type:char(36);not null;index"`
	IP     string `json:"ip"`
}

func (LikeModel) TableName() string { return "likes" }
