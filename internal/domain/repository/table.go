package repository

import (
	"strings"

	"memeshare/internal/domain/model"
)

// ForeignKey names a column holding the primary key of another table.
type ForeignKey struct {
	Column string
	Table  string
}

// Table describes how an entity type maps onto a relational table.
type Table[T any] struct {
	Name       string
	Key        string // primary key column
	Generated  bool   // key assigned by the store on insert
	Columns    []string
	Unique     [][]string // storage-level unique constraints besides the key
	References []ForeignKey

	key    func(*T) int64
	setKey func(*T, int64)
}

func (t *Table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.Columns, ", ") + " FROM " + t.Name
}

func (t *Table[T]) writableColumns() []string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if t.Generated && c == t.Key {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

func (t *Table[T]) insertSQL() string {
	cols := t.writableColumns()
	q := "INSERT INTO " + t.Name + " (" + strings.Join(cols, ", ") + ") VALUES (:" + strings.Join(cols, ", :") + ")"
	if t.Generated {
		q += " RETURNING " + t.Key
	}
	return q
}

func (t *Table[T]) updateSQL() string {
	sets := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c == t.Key {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	return "UPDATE " + t.Name + " SET " + strings.Join(sets, ", ") + " WHERE " + t.Key + " = :" + t.Key
}

func (t *Table[T]) deleteSQL() string {
	return "DELETE FROM " + t.Name + " WHERE " + t.Key + " = ?"
}

var (
	UsersTable = &Table[model.User]{
		Name: "users", Key: "id", Generated: true,
		Columns: []string{"id", "username", "email", "password_hash", "created_at"},
		Unique:  [][]string{{"username"}, {"email"}},
		key:     func(e *model.User) int64 { return e.ID },
		setKey:  func(e *model.User, id int64) { e.ID = id },
	}
	RolesTable = &Table[model.Role]{
		Name: "roles", Key: "id", Generated: true,
		Columns: []string{"id", "role_name", "description"},
		Unique:  [][]string{{"role_name"}},
		key:     func(e *model.Role) int64 { return e.ID },
		setKey:  func(e *model.Role, id int64) { e.ID = id },
	}
	UserRolesTable = &Table[model.UserRole]{
		Name: "user_roles", Key: "id", Generated: true,
		Columns:    []string{"id", "user_id", "role_id"},
		Unique:     [][]string{{"user_id", "role_id"}},
		References: []ForeignKey{{"user_id", "users"}, {"role_id", "roles"}},
		key:        func(e *model.UserRole) int64 { return e.ID },
		setKey:     func(e *model.UserRole, id int64) { e.ID = id },
	}
	MemesTable = &Table[model.Meme]{
		Name: "memes", Key: "id", Generated: true,
		Columns:    []string{"id", "user_id", "title", "description", "image_url", "is_public", "created_at"},
		References: []ForeignKey{{"user_id", "users"}},
		key:        func(e *model.Meme) int64 { return e.ID },
		setKey:     func(e *model.Meme, id int64) { e.ID = id },
	}
	TagsTable = &Table[model.Tag]{
		Name: "tags", Key: "id", Generated: true,
		Columns: []string{"id", "tag_name"},
		Unique:  [][]string{{"tag_name"}},
		key:     func(e *model.Tag) int64 { return e.ID },
		setKey:  func(e *model.Tag, id int64) { e.ID = id },
	}
	MemeTagsTable = &Table[model.MemeTag]{
		Name: "meme_tags", Key: "id", Generated: true,
		Columns:    []string{"id", "meme_id", "tag_id"},
		Unique:     [][]string{{"meme_id", "tag_id"}},
		References: []ForeignKey{{"meme_id", "memes"}, {"tag_id", "tags"}},
		key:        func(e *model.MemeTag) int64 { return e.ID },
		setKey:     func(e *model.MemeTag, id int64) { e.ID = id },
	}
	MemeMetadataTable = &Table[model.MemeMetadatum]{
		Name: "meme_metadata", Key: "meme_id",
		Columns:    []string{"meme_id", "file_size", "width", "height", "format", "mime_type"},
		References: []ForeignKey{{"meme_id", "memes"}},
		key:        func(e *model.MemeMetadatum) int64 { return e.MemeID },
		setKey:     func(e *model.MemeMetadatum, id int64) { e.MemeID = id },
	}
	UploadStatsTable = &Table[model.UploadStat]{
		Name: "upload_stats", Key: "id", Generated: true,
		Columns:    []string{"id", "meme_id", "views", "downloads", "shares"},
		Unique:     [][]string{{"meme_id"}},
		References: []ForeignKey{{"meme_id", "memes"}},
		key:        func(e *model.UploadStat) int64 { return e.ID },
		setKey:     func(e *model.UploadStat, id int64) { e.ID = id },
	}
	CommentsTable = &Table[model.Comment]{
		Name: "comments", Key: "id", Generated: true,
		Columns:    []string{"id", "meme_id", "user_id", "comment_text", "parent_comment_id", "is_edited", "edited_at", "created_at"},
		References: []ForeignKey{{"meme_id", "memes"}, {"user_id", "users"}, {"parent_comment_id", "comments"}},
		key:        func(e *model.Comment) int64 { return e.ID },
		setKey:     func(e *model.Comment, id int64) { e.ID = id },
	}
	ReactionsTable = &Table[model.Reaction]{
		Name: "reactions", Key: "id", Generated: true,
		Columns:    []string{"id", "meme_id", "user_id", "reaction_type", "created_at"},
		Unique:     [][]string{{"meme_id", "user_id"}},
		References: []ForeignKey{{"meme_id", "memes"}, {"user_id", "users"}},
		key:        func(e *model.Reaction) int64 { return e.ID },
		setKey:     func(e *model.Reaction, id int64) { e.ID = id },
	}
	CollectionsTable = &Table[model.Collection]{
		Name: "collections", Key: "id", Generated: true,
		Columns:    []string{"id", "user_id", "name", "slug", "description", "is_public", "created_at"},
		Unique:     [][]string{{"user_id", "name"}},
		References: []ForeignKey{{"user_id", "users"}},
		key:        func(e *model.Collection) int64 { return e.ID },
		setKey:     func(e *model.Collection, id int64) { e.ID = id },
	}
	CollectionMemesTable = &Table[model.CollectionMeme]{
		Name: "collection_memes", Key: "id", Generated: true,
		Columns:    []string{"id", "collection_id", "meme_id", "added_at"},
		Unique:     [][]string{{"collection_id", "meme_id"}},
		References: []ForeignKey{{"collection_id", "collections"}, {"meme_id", "memes"}},
		key:        func(e *model.CollectionMeme) int64 { return e.ID },
		setKey:     func(e *model.CollectionMeme, id int64) { e.ID = id },
	}
)
