package model

import "time"

type Meme struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id" validate:"gt=0"`
	Title       string    `db:"title" json:"title" validate:"notblank"`
	Description *string   `db:"description" json:"description,omitempty"`
	ImageURL    string    `db:"image_url" json:"image_url" validate:"notblank"`
	IsPublic    *bool     `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Public reports the visibility flag, treating an unset flag as private.
func (m Meme) Public() bool {
	return m.IsPublic != nil && *m.IsPublic
}

type Tag struct {
	ID      int64  `db:"id" json:"id"`
	TagName string `db:"tag_name" json:"tag_name" validate:"notblank"`
}

// MemeTag links a Meme to a Tag.
type MemeTag struct {
	ID     int64 `db:"id" json:"id"`
	MemeID int64 `db:"meme_id" json:"meme_id" validate:"gt=0"`
	TagID  int64 `db:"tag_id" json:"tag_id" validate:"gt=0"`
}

// MemeMetadatum holds image facts for exactly one Meme; MemeID is its key.
type MemeMetadatum struct {
	MemeID   int64  `db:"meme_id" json:"meme_id" validate:"gt=0"`
	FileSize int64  `db:"file_size" json:"file_size" validate:"gt=0"`
	Width    int    `db:"width" json:"width" validate:"gt=0"`
	Height   int    `db:"height" json:"height" validate:"gt=0"`
	Format   string `db:"format" json:"format" validate:"notblank"`
	MimeType string `db:"mime_type" json:"mime_type" validate:"notblank"`
}

type UploadStat struct {
	ID        int64 `db:"id" json:"id"`
	MemeID    int64 `db:"meme_id" json:"meme_id" validate:"gt=0"`
	Views     *int  `db:"views" json:"views" validate:"omitempty,gte=0"`
	Downloads *int  `db:"downloads" json:"downloads" validate:"omitempty,gte=0"`
	Shares    *int  `db:"shares" json:"shares" validate:"omitempty,gte=0"`
}

// StatKind names one of the UploadStat counters.
type StatKind string

const (
	StatViews     StatKind = "views"
	StatDownloads StatKind = "downloads"
	StatShares    StatKind = "shares"
)

func (k StatKind) Valid() bool {
	switch k {
	case StatViews, StatDownloads, StatShares:
		return true
	}
	return false
}
