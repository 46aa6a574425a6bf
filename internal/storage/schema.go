package storage

import (
	"fmt"
	"strings"

	"github.com/ferdiebergado/hbnb/internal/model"
)

type column struct {
	name string
	def  string
}

// table maps one entity class to its SQL table. Parents have a lower rank
// than the tables referencing them.
type table struct {
	class   string
	name    string
	rank    int
	columns []column
}

const (
	idDef   = "VARCHAR(60) NOT NULL"
	nameDef = "VARCHAR(128) NOT NULL"
)

func references(parent string) string {
	return idDef + " REFERENCES " + parent + "(id) ON DELETE CASCADE"
}

var tables = []table{
	{
		class: model.ClassState, name: "states", rank: 0,
		columns: []column{{"name", nameDef}},
	},
	{
		class: model.ClassUser, name: "users", rank: 0,
		columns: []column{
			{"email", nameDef},
			{"password", nameDef},
			{"first_name", "VARCHAR(128)"},
			{"last_name", "VARCHAR(128)"},
		},
	},
	{
		class: model.ClassAmenity, name: "amenities", rank: 0,
		columns: []column{{"name", nameDef}},
	},
	{
		class: model.ClassCity, name: "cities", rank: 1,
		columns: []column{
			{"state_id", references("states")},
			{"name", nameDef},
		},
	},
	{
		class: model.ClassPlace, name: "places", rank: 2,
		columns: []column{
			{"city_id", references("cities")},
			{"user_id", references("users")},
			{"name", nameDef},
			{"description", "VARCHAR(1024)"},
			{"number_rooms", "INTEGER NOT NULL DEFAULT 0"},
			{"number_bathrooms", "INTEGER NOT NULL DEFAULT 0"},
			{"max_guest", "INTEGER NOT NULL DEFAULT 0"},
			{"price_by_night", "INTEGER NOT NULL DEFAULT 0"},
			{"latitude", "DOUBLE PRECISION"},
			{"longitude", "DOUBLE PRECISION"},
		},
	},
	{
		class: model.ClassReview, name: "reviews", rank: 3,
		columns: []column{
			{"place_id", references("places")},
			{"user_id", references("users")},
			{"text", "VARCHAR(1024) NOT NULL"},
		},
	},
}

// placeAmenityTable links places to amenities; it is not an entity.
const placeAmenityTable = "place_amenity"

const queryCreatePlaceAmenity = `
CREATE TABLE IF NOT EXISTS place_amenity (
    place_id VARCHAR(60) NOT NULL REFERENCES places(id) ON DELETE CASCADE,
    amenity_id VARCHAR(60) NOT NULL REFERENCES amenities(id) ON DELETE CASCADE,
    sort_order INTEGER NOT NULL,
    PRIMARY KEY (place_id, amenity_id)
)`

const (
	queryPlaceAmenityDelete = "DELETE FROM place_amenity WHERE place_id = $1"
	queryPlaceAmenityInsert = "INSERT INTO place_amenity (place_id, amenity_id, sort_order) VALUES ($1, $2, $3)"
	queryPlaceAmenityList   = "SELECT place_id, amenity_id FROM place_amenity ORDER BY place_id, sort_order"
	queryPlaceAmenityFind   = "SELECT amenity_id FROM place_amenity WHERE place_id = $1 ORDER BY sort_order"
)

var tablesByClass = func() map[string]*table {
	m := make(map[string]*table, len(tables))
	for i := range tables {
		m[tables[i].class] = &tables[i]
	}
	return m
}()

func tableFor(class string) (*table, error) {
	t, ok := tablesByClass[class]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownClass, class)
	}
	return t, nil
}

func (t *table) columnNames() []string {
	names := make([]string, 0, len(t.columns)+3)
	names = append(names, "id", "created_at", "updated_at")
	for _, c := range t.columns {
		names = append(names, c.name)
	}
	return names
}

func (t *table) createQuery() string {
	defs := make([]string, 0, len(t.columns)+3)
	defs = append(defs,
		"id "+idDef+" PRIMARY KEY",
		"created_at TIMESTAMP NOT NULL",
		"updated_at TIMESTAMP NOT NULL",
	)
	for _, c := range t.columns {
		defs = append(defs, c.name+" "+c.def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", t.name, strings.Join(defs, ",\n    "))
}

func (t *table) dropQuery() string {
	return "DROP TABLE IF EXISTS " + t.name
}

// upsertQuery inserts a row or, when the id exists, overwrites every column.
func (t *table) upsertQuery() string {
	names := t.columnNames()
	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	updates := make([]string, 0, len(names)-1)
	for _, name := range names[1:] {
		updates = append(updates, name+" = EXCLUDED."+name)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		t.name, strings.Join(names, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

func (t *table) deleteQuery() string {
	return "DELETE FROM " + t.name + " WHERE id = $1"
}

func (t *table) selectQuery() string {
	return "SELECT " + strings.Join(t.columnNames(), ", ") + " FROM " + t.name + " ORDER BY created_at, id"
}

func (t *table) findQuery() string {
	return "SELECT " + strings.Join(t.columnNames(), ", ") + " FROM " + t.name + " WHERE id = $1"
}

func (t *table) countQuery() string {
	return "SELECT COUNT(*) FROM " + t.name
}

// values returns the arguments of upsertQuery for obj.
func (t *table) values(obj model.Entity) []any {
	createdAt, updatedAt := model.Timestamps(obj)
	d := obj.ToDict()

	args := make([]any, 0, len(t.columns)+3)
	args = append(args, obj.GetID(), createdAt, updatedAt)
	for _, c := range t.columns {
		args = append(args, d[c.name])
	}
	return args
}
