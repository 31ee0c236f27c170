package model

import "time"

type Collection struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id" validate:"gt=0"`
	Name        string    `db:"name" json:"name" validate:"notblank"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsPublic    *bool     `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CollectionMeme places a Meme in a Collection.
type CollectionMeme struct {
	ID           int64     `db:"id" json:"id"`
	CollectionID int64     `db:"collection_id" json:"collection_id" validate:"gt=0"`
	MemeID       int64     `db:"meme_id" json:"meme_id" validate:"gt=0"`
	AddedAt      time.Time `db:"added_at" json:"added_at"`
}
