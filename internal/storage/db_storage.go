package storage

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/ferdiebergado/hbnb/internal/model"
	"github.com/ferdiebergado/hbnb/internal/platform/db"
)

var _ Engine = (*DBStorage)(nil)

type pendingOp struct {
	obj    model.Entity
	delete bool
}

// DBStorage persists entities in SQL tables, one per class.
//
// It behaves like a unit-of-work session: New and Delete only stage
// changes, queries flush staged changes into an open session transaction
// so they see them, and Save commits that transaction.
type DBStorage struct {
	mu           sync.Mutex
	db           *sql.DB
	txMgr        db.TxManager
	dropOnReload bool

	tx      *sql.Tx
	pending map[string]pendingOp
}

// NewDBStorage wraps conn. When dropOnReload is set, Reload drops every
// table before recreating the schema.
func NewDBStorage(conn *sql.DB, dropOnReload bool) *DBStorage {
	return &DBStorage{
		db:           conn,
		txMgr:        db.NewSQLTxManager(conn),
		dropOnReload: dropOnReload,
		pending:      make(map[string]pendingOp),
	}
}

func (s *DBStorage) New(obj model.Entity) {
	if model.IsNil(obj) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[model.Key(obj)] = pendingOp{obj: obj}
}

func (s *DBStorage) Delete(obj model.Entity) {
	if model.IsNil(obj) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[model.Key(obj)] = pendingOp{obj: obj, delete: true}
}

// Save flushes staged changes and commits the session transaction.
func (s *DBStorage) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil && len(s.pending) == 0 {
		return nil
	}

	tx, err := s.flushLocked(ctx)
	if err != nil {
		return err
	}

	s.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	slog.Debug("Database storage committed.")
	return nil
}

func (s *DBStorage) All(ctx context.Context, class string) (map[string]model.Entity, error) {
	selected, err := classes(class)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.flushLocked(ctx)
	if err != nil {
		return nil, err
	}

	objects := make(map[string]model.Entity)
	for _, c := range selected {
		t, err := tableFor(c)
		if err != nil {
			return nil, err
		}

		rows, err := queryEntities(ctx, tx, t, t.selectQuery())
		if err != nil {
			return nil, err
		}

		if t.class == model.ClassPlace {
			if err := attachAmenities(ctx, tx, rows); err != nil {
				return nil, err
			}
		}

		for _, obj := range rows {
			objects[model.Key(obj)] = obj
		}
	}

	return objects, nil
}

func (s *DBStorage) Get(ctx context.Context, class, id string) (model.Entity, error) {
	t, err := tableFor(class)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.flushLocked(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := queryEntities(ctx, tx, t, t.findQuery(), id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrNotFound, class, id)
	}

	obj := rows[0]
	if place, ok := obj.(*model.Place); ok {
		if place.AmenityIDs, err = findAmenityIDs(ctx, tx, place.ID); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (s *DBStorage) Count(ctx context.Context, class string) (int, error) {
	selected, err := classes(class)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.flushLocked(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, c := range selected {
		t, err := tableFor(c)
		if err != nil {
			return 0, err
		}

		var n int
		if err := tx.QueryRowContext(ctx, t.countQuery()).Scan(&n); err != nil {
			return 0, fmt.Errorf("count %s: %w", t.name, err)
		}
		total += n
	}
	return total, nil
}

// Reload discards the session and makes sure the schema exists.
func (s *DBStorage) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.discardLocked()

	if s.dropOnReload {
		if err := s.dropSchema(ctx); err != nil {
			return err
		}
	}

	if err := s.createSchema(ctx); err != nil {
		return err
	}

	slog.Info("Database schema ready.", "drop_on_reload", s.dropOnReload)
	return nil
}

// DropSchema discards the session and drops every table.
func (s *DBStorage) DropSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.discardLocked()
	return s.dropSchema(ctx)
}

// Close rolls back uncommitted work and closes the connection pool.
func (s *DBStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.discardLocked()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *DBStorage) createSchema(ctx context.Context) error {
	return s.txMgr.RunInTx(ctx, func(tx db.Executor) error {
		for i := range tables {
			if _, err := tx.ExecContext(ctx, tables[i].createQuery()); err != nil {
				return fmt.Errorf("create table %s: %w", tables[i].name, err)
			}
		}
		if _, err := tx.ExecContext(ctx, queryCreatePlaceAmenity); err != nil {
			return fmt.Errorf("create table %s: %w", placeAmenityTable, err)
		}
		return nil
	})
}

func (s *DBStorage) dropSchema(ctx context.Context) error {
	return s.txMgr.RunInTx(ctx, func(tx db.Executor) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+placeAmenityTable); err != nil {
			return fmt.Errorf("drop table %s: %w", placeAmenityTable, err)
		}
		for _, t := range byRank(true) {
			if _, err := tx.ExecContext(ctx, t.dropQuery()); err != nil {
				return fmt.Errorf("drop table %s: %w", t.name, err)
			}
		}
		return nil
	})
}

// flushLocked writes staged changes into the session transaction, opening
// it first if needed. Deletions run children first, upserts parents first.
// On failure the whole session is rolled back.
func (s *DBStorage) flushLocked(ctx context.Context) (*sql.Tx, error) {
	if s.tx == nil {
		// the session outlives ctx, so it must not be cancelled with it.
		tx, err := s.db.BeginTx(context.WithoutCancel(ctx), nil)
		if err != nil {
			return nil, fmt.Errorf("begin session: %w", err)
		}
		s.tx = tx
	}

	if len(s.pending) == 0 {
		return s.tx, nil
	}

	ops := slices.Collect(maps.Values(s.pending))
	slices.SortStableFunc(ops, compareOps)

	for _, op := range ops {
		if err := applyOp(ctx, s.tx, op); err != nil {
			s.discardLocked()
			return nil, err
		}
	}

	slog.Debug("Database storage flushed.", "operations", len(ops))
	clear(s.pending)
	return s.tx, nil
}

func (s *DBStorage) discardLocked() {
	if s.tx != nil {
		db.Rollback(s.tx)
		s.tx = nil
	}
	clear(s.pending)
}

func compareOps(a, b pendingOp) int {
	if a.delete != b.delete {
		if a.delete {
			return -1
		}
		return 1
	}

	ra, rb := tablesByClass[a.obj.ClassName()].rank, tablesByClass[b.obj.ClassName()].rank
	if a.delete {
		ra, rb = rb, ra
	}
	if c := cmp.Compare(ra, rb); c != 0 {
		return c
	}
	return cmp.Compare(model.Key(a.obj), model.Key(b.obj))
}

func applyOp(ctx context.Context, tx db.Executor, op pendingOp) error {
	t, err := tableFor(op.obj.ClassName())
	if err != nil {
		return err
	}

	if op.delete {
		if _, err := tx.ExecContext(ctx, t.deleteQuery(), op.obj.GetID()); err != nil {
			return fmt.Errorf("delete %s: %w", model.Key(op.obj), err)
		}
		return nil
	}

	if _, err := tx.ExecContext(ctx, t.upsertQuery(), t.values(op.obj)...); err != nil {
		return fmt.Errorf("upsert %s: %w", model.Key(op.obj), err)
	}

	if place, ok := op.obj.(*model.Place); ok {
		return saveAmenityIDs(ctx, tx, place)
	}
	return nil
}

func saveAmenityIDs(ctx context.Context, tx db.Executor, place *model.Place) error {
	if _, err := tx.ExecContext(ctx, queryPlaceAmenityDelete, place.ID); err != nil {
		return fmt.Errorf("unlink amenities of place %s: %w", place.ID, err)
	}
	for i, amenityID := range place.AmenityIDs {
		if _, err := tx.ExecContext(ctx, queryPlaceAmenityInsert, place.ID, amenityID, i); err != nil {
			return fmt.Errorf("link amenity %s to place %s: %w", amenityID, place.ID, err)
		}
	}
	return nil
}

// queryEntities runs query and decodes every row into an entity of t's
// class. The rows are fully read and closed before it returns.
func queryEntities(ctx context.Context, tx db.Executor, t *table, query string, args ...any) ([]model.Entity, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.name, err)
	}
	defer rows.Close()

	names := t.columnNames()
	var objects []model.Entity
	for rows.Next() {
		values := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", t.name, err)
		}

		d := make(map[string]any, len(names))
		for i, name := range names {
			d[name] = values[i]
		}

		obj, err := model.FromDictAs(t.class, d)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close %s rows: %w", t.name, err)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over %s rows: %w", t.name, err)
	}

	return objects, nil
}

func attachAmenities(ctx context.Context, tx db.Executor, places []model.Entity) error {
	if len(places) == 0 {
		return nil
	}

	rows, err := tx.QueryContext(ctx, queryPlaceAmenityList)
	if err != nil {
		return fmt.Errorf("query %s: %w", placeAmenityTable, err)
	}
	defer rows.Close()

	links := make(map[string][]string)
	for rows.Next() {
		var placeID, amenityID string
		if err := rows.Scan(&placeID, &amenityID); err != nil {
			return fmt.Errorf("scan %s row: %w", placeAmenityTable, err)
		}
		links[placeID] = append(links[placeID], amenityID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate over %s rows: %w", placeAmenityTable, err)
	}

	for _, obj := range places {
		if place, ok := obj.(*model.Place); ok {
			place.AmenityIDs = links[place.ID]
		}
	}
	return nil
}

func findAmenityIDs(ctx context.Context, tx db.Executor, placeID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, queryPlaceAmenityFind, placeID)
	if err != nil {
		return nil, fmt.Errorf("query amenities of place %s: %w", placeID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", placeAmenityTable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over %s rows: %w", placeAmenityTable, err)
	}
	return ids, nil
}

// byRank returns the tables ordered parents first, or children first when
// reverse is set.
func byRank(reverse bool) []table {
	sorted := slices.Clone(tables)
	slices.SortStableFunc(sorted, func(a, b table) int {
		if reverse {
			return cmp.Compare(b.rank, a.rank)
		}
		return cmp.Compare(a.rank, b.rank)
	})
	return sorted
}
