package repositories

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// updateBuilder collects SET clauses for a typed partial update.
// Columns are added in call order so the generated SQL is stable.
// Nil pointer values are skipped, meaning "leave the column alone".
type updateBuilder struct {
	sets []string
	args []interface{}
}

func newUpdateBuilder() *updateBuilder {
	return &updateBuilder{}
}

// Set registers a column assignment when value is a non-nil pointer
// (or any non-pointer value).
func (b *updateBuilder) Set(column string, value interface{}) {
	if value == nil {
		return
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		value = v.Elem().Interface()
	}
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// Empty reports whether no assignments were registered.
func (b *updateBuilder) Empty() bool {
	return len(b.sets) == 0
}

// BuildByID finishes the statement with an updated_at bump and an id
// predicate. Returns the query and its arguments.
func (b *updateBuilder) BuildByID(table string, id int64) (string, []interface{}) {
	b.args = append(b.args, time.Now())
	b.sets = append(b.sets, fmt.Sprintf("updated_at = $%d", len(b.args)))
	b.args = append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(b.sets, ", "), len(b.args))
	return query, b.args
}

// BuildByIDAndShop is BuildByID with a tenant predicate, so a tenant
// can never update another shop's row even with a guessed id.
func (b *updateBuilder) BuildByIDAndShop(table string, id, barbershopID int64) (string, []interface{}) {
	b.args = append(b.args, time.Now())
	b.sets = append(b.sets, fmt.Sprintf("updated_at = $%d", len(b.args)))
	b.args = append(b.args, id, barbershopID)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND barbershop_id = $%d",
		table, strings.Join(b.sets, ", "), len(b.args)-1, len(b.args))
	return query, b.args
}

// requireRowsAffected turns a zero-row update/delete into ErrNotFound.
func requireRowsAffected(result sql.Result, context string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected for %s: %v", ErrDatabaseError, context, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
