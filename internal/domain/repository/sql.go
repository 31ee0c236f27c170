package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type sqlOp func(ctx context.Context, tx *sqlx.Tx) error

type sqlUnitOfWork struct {
	db      *sqlx.DB
	pending []sqlOp
}

func (u *sqlUnitOfWork) stage(op sqlOp) {
	u.pending = append(u.pending, op)
}

func (u *sqlUnitOfWork) Pending() int {
	return len(u.pending)
}

func (u *sqlUnitOfWork) Commit(ctx context.Context) error {
	if len(u.pending) == 0 {
		return nil
	}
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for _, op := range u.pending {
		if err := op(ctx, tx); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	u.pending = nil
	return nil
}

type sqlGateway[T any] struct {
	db    *sqlx.DB
	uow   *sqlUnitOfWork
	table *Table[T]
}

func newSQLGateway[T any](db *sqlx.DB, uow *sqlUnitOfWork, table *Table[T]) *sqlGateway[T] {
	return &sqlGateway[T]{db: db, uow: uow, table: table}
}

func (g *sqlGateway[T]) FindAll(ctx context.Context) ([]T, error) {
	return g.FindByCondition(ctx)
}

func (g *sqlGateway[T]) FindByCondition(ctx context.Context, conds ...Condition) ([]T, error) {
	where, args := whereClause(conds)
	query := g.db.Rebind(g.table.selectSQL() + where + " ORDER BY " + g.table.Key)
	rows := []T{}
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: select: %w", g.table.Name, err)
	}
	return rows, nil
}

func (g *sqlGateway[T]) Create(entity *T) {
	g.uow.stage(func(ctx context.Context, tx *sqlx.Tx) error {
		query, args, err := sqlx.Named(g.table.insertSQL(), entity)
		if err != nil {
			return err
		}
		query = tx.Rebind(query)
		if !g.table.Generated {
			_, err = tx.ExecContext(ctx, query, args...)
			return err
		}
		var id int64
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return err
		}
		g.table.setKey(entity, id)
		return nil
	})
}

func (g *sqlGateway[T]) Update(entity *T) {
	g.uow.stage(func(ctx context.Context, tx *sqlx.Tx) error {
		query, args, err := sqlx.Named(g.table.updateSQL(), entity)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	})
}

func (g *sqlGateway[T]) Delete(entity *T) {
	key := g.table.key(entity)
	g.uow.stage(func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(g.table.deleteSQL()), key)
		return err
	})
}

// NewSQLStore builds a Store whose gateways read through db and write inside
// one transaction per Save.
func NewSQLStore(db *sqlx.DB) *Store {
	uow := &sqlUnitOfWork{db: db}
	return &Store{
		Users:           newSQLGateway(db, uow, UsersTable),
		Roles:           newSQLGateway(db, uow, RolesTable),
		UserRoles:       newSQLGateway(db, uow, UserRolesTable),
		Memes:           newSQLGateway(db, uow, MemesTable),
		Tags:            newSQLGateway(db, uow, TagsTable),
		MemeTags:        newSQLGateway(db, uow, MemeTagsTable),
		MemeMetadata:    newSQLGateway(db, uow, MemeMetadataTable),
		UploadStats:     newSQLGateway(db, uow, UploadStatsTable),
		Comments:        newSQLGateway(db, uow, CommentsTable),
		Reactions:       newSQLGateway(db, uow, ReactionsTable),
		Collections:     newSQLGateway(db, uow, CollectionsTable),
		CollectionMemes: newSQLGateway(db, uow, CollectionMemesTable),
		uow:             uow,
	}
}

func NewSQLStoreFactory(db *sqlx.DB) StoreFactory {
	return func() *Store { return NewSQLStore(db) }
}
