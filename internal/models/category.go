package models

// CategoryModel groups posts; each post belongs to at most one category.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;size:191;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:191;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"foreignKey:CategoryID"`
}

func (CategoryModel) TableName() string { return "categories" }

// TagModel is a free-form label attached to posts through post_tags.
type TagModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;size:191;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:191;not null"`

	Posts []PostModel `json:"posts,omitempty" gorm:"many2many:post_tags;joinForeignKey:TagID;joinReferences:PostID"`
}

func (TagModel) TableName() string { return "tags" }
