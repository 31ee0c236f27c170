package model

import "time"

type Comment struct {
	ID              int64      `db:"id" json:"id"`
	MemeID          int64      `db:"meme_id" json:"meme_id" validate:"gt=0"`
	UserID          int64      `db:"user_id" json:"user_id" validate:"gt=0"`
	CommentText     string     `db:"comment_text" json:"comment_text" validate:"notblank"`
	ParentCommentID *int64     `db:"parent_comment_id" json:"parent_comment_id,omitempty" validate:"omitempty,gt=0"`
	IsEdited        bool       `db:"is_edited" json:"is_edited"`
	EditedAt        *time.Time `db:"edited_at" json:"edited_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// CommentNode is a comment with its replies, rebuilt from parent ids.
type CommentNode struct {
	Comment
	Replies []CommentNode `json:"replies"`
}

// Reaction is one user's reaction to a meme; at most one per (meme, user).
type Reaction struct {
	ID           int64     `db:"id" json:"id"`
	MemeID       int64     `db:"meme_id" json:"meme_id" validate:"gt=0"`
	UserID       int64     `db:"user_id" json:"user_id" validate:"gt=0"`
	ReactionType string    `db:"reaction_type" json:"reaction_type" validate:"notblank"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
