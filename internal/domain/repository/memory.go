package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx/reflectx"
)

var columnMapper = reflectx.NewMapper("db")

// ConstraintError is returned by the in-memory store when a commit would
// violate a key, unique or foreign key constraint. The whole batch is rejected.
// References is set only for foreign key violations.
type ConstraintError struct {
	Table      string
	Columns    []string
	References string
}

func (e *ConstraintError) Error() string {
	if e.References != "" {
		return fmt.Sprintf("%s: (%s) violates foreign key constraint referencing %s", e.Table, strings.Join(e.Columns, ", "), e.References)
	}
	return fmt.Sprintf("%s: duplicate key value violates unique constraint on (%s)", e.Table, strings.Join(e.Columns, ", "))
}

func (e *ConstraintError) Constraint() string {
	if e.References != "" {
		return e.Table + "_" + strings.Join(e.Columns, "_") + "_fkey"
	}
	return e.Table + "_" + strings.Join(e.Columns, "_") + "_key"
}

type memoryTable struct {
	rows    map[int64]any
	seq     int64
	unique  [][]string
	refs    []ForeignKey
	touched bool
}

func (t *memoryTable) clone() *memoryTable {
	rows := make(map[int64]any, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	return &memoryTable{rows: rows, seq: t.seq, unique: t.unique, refs: t.refs}
}

// MemoryDB is a process-local relational store. Each Store obtained from it
// is an independent unit of work over the shared committed state.
type MemoryDB struct {
	mu      sync.RWMutex
	tables  map[string]*memoryTable
	commits int
}

func NewMemoryDB() *MemoryDB {
	db := &MemoryDB{tables: make(map[string]*memoryTable)}
	registerMemoryTable(db, UsersTable)
	registerMemoryTable(db, RolesTable)
	registerMemoryTable(db, UserRolesTable)
	registerMemoryTable(db, MemesTable)
	registerMemoryTable(db, TagsTable)
	registerMemoryTable(db, MemeTagsTable)
	registerMemoryTable(db, MemeMetadataTable)
	registerMemoryTable(db, UploadStatsTable)
	registerMemoryTable(db, CommentsTable)
	registerMemoryTable(db, ReactionsTable)
	registerMemoryTable(db, CollectionsTable)
	registerMemoryTable(db, CollectionMemesTable)
	return db
}

func registerMemoryTable[T any](db *MemoryDB, t *Table[T]) {
	db.tables[t.Name] = &memoryTable{rows: make(map[int64]any), unique: t.Unique, refs: t.References}
}

// Commits returns how many non-empty batches were committed successfully.
func (db *MemoryDB) Commits() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.commits
}

// Store opens a new unit of work.
func (db *MemoryDB) Store() *Store {
	uow := &memoryUnitOfWork{db: db}
	return &Store{
		Users:           newMemoryGateway(db, uow, UsersTable),
		Roles:           newMemoryGateway(db, uow, RolesTable),
		UserRoles:       newMemoryGateway(db, uow, UserRolesTable),
		Memes:           newMemoryGateway(db, uow, MemesTable),
		Tags:            newMemoryGateway(db, uow, TagsTable),
		MemeTags:        newMemoryGateway(db, uow, MemeTagsTable),
		MemeMetadata:    newMemoryGateway(db, uow, MemeMetadataTable),
		UploadStats:     newMemoryGateway(db, uow, UploadStatsTable),
		Comments:        newMemoryGateway(db, uow, CommentsTable),
		Reactions:       newMemoryGateway(db, uow, ReactionsTable),
		Collections:     newMemoryGateway(db, uow, CollectionsTable),
		CollectionMemes: newMemoryGateway(db, uow, CollectionMemesTable),
		uow:             uow,
	}
}

type memoryOp func(tables map[string]*memoryTable) error

type memoryUnitOfWork struct {
	db      *MemoryDB
	pending []memoryOp
}

func (u *memoryUnitOfWork) Pending() int {
	return len(u.pending)
}

func (u *memoryUnitOfWork) Commit(ctx context.Context) error {
	if len(u.pending) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	working := make(map[string]*memoryTable, len(u.db.tables))
	for name, t := range u.db.tables {
		working[name] = t.clone()
	}
	for _, op := range u.pending {
		if err := op(working); err != nil {
			return err
		}
	}
	for name, t := range working {
		if !t.touched {
			continue
		}
		if err := checkUnique(name, t); err != nil {
			return err
		}
		t.touched = false
	}
	if err := checkReferences(working); err != nil {
		return err
	}
	u.db.tables = working
	u.db.commits++
	u.pending = nil
	return nil
}

func checkUnique(name string, t *memoryTable) error {
	for _, cols := range t.unique {
		seen := make(map[string]struct{}, len(t.rows))
		for _, row := range t.rows {
			v := reflect.ValueOf(row)
			parts := make([]string, 0, len(cols))
			null := false
			for _, c := range cols {
				val, ok := columnValue(v, c)
				if !ok {
					null = true
					break
				}
				parts = append(parts, fmt.Sprintf("%v", val))
			}
			if null {
				continue
			}
			k := strings.Join(parts, "\x00")
			if _, dup := seen[k]; dup {
				return &ConstraintError{Table: name, Columns: cols}
			}
			seen[k] = struct{}{}
		}
	}
	return nil
}

// checkReferences verifies every non-NULL foreign key against the rows of the
// referenced table, after the whole batch has been applied.
func checkReferences(tables map[string]*memoryTable) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := tables[name]
		for _, fk := range t.refs {
			parent := tables[fk.Table]
			for _, row := range t.rows {
				val, ok := columnValue(reflect.ValueOf(row), fk.Column)
				if !ok {
					continue
				}
				id, _ := val.(int64)
				if _, found := parent.rows[id]; !found {
					return &ConstraintError{Table: name, Columns: []string{fk.Column}, References: fk.Table}
				}
			}
		}
	}
	return nil
}

// columnValue reads the column tagged col from v, dereferencing pointers.
// It reports false when the column holds NULL.
func columnValue(v reflect.Value, col string) (any, bool) {
	fi, ok := columnMapper.TypeMap(v.Type()).Names[col]
	if !ok {
		panic("repository: unknown column " + col)
	}
	f := reflectx.FieldByIndexesReadOnly(v, fi.Index)
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return nil, false
		}
		f = f.Elem()
	}
	return normalize(f.Interface()), true
}

func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())
	}
	return v
}

func matches(row any, conds []Condition) bool {
	v := reflect.ValueOf(row)
	for _, c := range conds {
		val, ok := columnValue(v, c.Column)
		switch c.Op {
		case OpEq:
			if !ok || val != normalize(c.Value) {
				return false
			}
		case OpNe:
			if !ok || val == normalize(c.Value) {
				return false
			}
		case OpIsNull:
			if ok {
				return false
			}
		}
	}
	return true
}

type memoryGateway[T any] struct {
	db    *MemoryDB
	uow   *memoryUnitOfWork
	table *Table[T]
}

func newMemoryGateway[T any](db *MemoryDB, uow *memoryUnitOfWork, table *Table[T]) *memoryGateway[T] {
	return &memoryGateway[T]{db: db, uow: uow, table: table}
}

func (g *memoryGateway[T]) FindAll(ctx context.Context) ([]T, error) {
	return g.FindByCondition(ctx)
}

func (g *memoryGateway[T]) FindByCondition(ctx context.Context, conds ...Condition) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.db.mu.RLock()
	t := g.db.tables[g.table.Name]
	keys := make([]int64, 0, len(t.rows))
	for k, row := range t.rows {
		if matches(row, conds) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.rows[k].(T))
	}
	g.db.mu.RUnlock()
	return out, nil
}

func (g *memoryGateway[T]) Create(entity *T) {
	g.uow.pending = append(g.uow.pending, func(tables map[string]*memoryTable) error {
		t := tables[g.table.Name]
		t.touched = true
		key := g.table.key(entity)
		if g.table.Generated {
			t.seq++
			key = t.seq
			g.table.setKey(entity, key)
		}
		if _, exists := t.rows[key]; exists {
			return &ConstraintError{Table: g.table.Name, Columns: []string{g.table.Key}}
		}
		t.rows[key] = *entity
		return nil
	})
}

func (g *memoryGateway[T]) Update(entity *T) {
	g.uow.pending = append(g.uow.pending, func(tables map[string]*memoryTable) error {
		t := tables[g.table.Name]
		key := g.table.key(entity)
		if _, exists := t.rows[key]; !exists {
			return nil
		}
		t.touched = true
		t.rows[key] = *entity
		return nil
	})
}

func (g *memoryGateway[T]) Delete(entity *T) {
	key := g.table.key(entity)
	g.uow.pending = append(g.uow.pending, func(tables map[string]*memoryTable) error {
		delete(tables[g.table.Name].rows, key)
		return nil
	})
}
