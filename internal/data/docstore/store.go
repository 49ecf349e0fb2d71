package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
	"github.com/badgeboard/badgeboard-backend/internal/pkg/logger"
)

// Store is the uniform document access contract. Get/FindOne translate
// missing documents into domain not-found errors keyed by (model, code);
// every returned document is normalized per Document.
type Store interface {
	Get(ctx context.Context, id, model string, code int) (*Document, error)
	FindOne(ctx context.Context, sel Selector, model string, code int) (*Document, error)
	Find(ctx context.Context, sel Selector) ([]*Document, error)
	// Save upserts: an empty id inserts with a fresh uuid and rev 1, an
	// existing id rewrites the body and bumps the revision. Last write wins;
	// the store neither checks nor retries on conflicting revisions.
	Save(ctx context.Context, doc *Document) (*Document, error)
	Delete(ctx context.Context, id, model string, code int) error
	Count(ctx context.Context, sel Selector) (int64, error)
}

type documentRow struct {
	ID        string         `gorm:"column:id;primaryKey"`
	Rev       int64          `gorm:"column:rev;not null"`
	DocType   string         `gorm:"column:doc_type;index;not null"`
	Body      datatypes.JSON `gorm:"column:body;type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
}

func (documentRow) TableName() string { return "documents" }

// AutoMigrate creates the documents table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&documentRow{})
}

// PostgresStore keeps schemaless documents in one JSONB-backed table and
// compiles selectors to JSONB SQL.
type PostgresStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresStore(db *gorm.DB, baseLog *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: baseLog.With("store", "PostgresStore")}
}

func (s *PostgresStore) Get(ctx context.Context, id, model string, code int) (*Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(model, code, "id "+id)
	}
	if err != nil {
		return nil, err
	}
	return rowToDocument(&row), nil
}

func (s *PostgresStore) FindOne(ctx context.Context, sel Selector, model string, code int) (*Document, error) {
	docs, err := s.Find(ctx, sel.Limited(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperr.NotFound(model, code, "")
	}
	return docs[0], nil
}

func (s *PostgresStore) Find(ctx context.Context, sel Selector) ([]*Document, error) {
	q := applySelector(s.db.WithContext(ctx).Model(&documentRow{}), sel)
	if sel.SortField != "" {
		dir := "ASC"
		if sel.SortDesc {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("(body ->> '%s')::numeric %s, id ASC", sel.SortField, dir))
	} else {
		q = q.Order("id ASC")
	}
	if sel.Skip > 0 {
		q = q.Offset(sel.Skip)
	}
	if sel.Limit > 0 {
		q = q.Limit(sel.Limit)
	}
	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(rows))
	for i := range rows {
		docs = append(docs, rowToDocument(&rows[i]))
	}
	return docs, nil
}

func (s *PostgresStore) Save(ctx context.Context, doc *Document) (*Document, error) {
	saved := doc.clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		saved.Rev = 1
		row := documentRow{ID: saved.ID, Rev: saved.Rev, DocType: saved.Type, Body: datatypes.JSON(saved.Body)}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		return saved, nil
	}
	// RETURNING keeps the reported rev honest when the caller's copy is
	// stale: a bump always lands on the row's current value.
	var updated documentRow
	res := s.db.WithContext(ctx).Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "rev"}}}).
		Where("id = ?", saved.ID).
		Updates(map[string]interface{}{
			"rev":      gorm.Expr("rev + 1"),
			"doc_type": saved.Type,
			"body":     datatypes.JSON(saved.Body),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		saved.Rev = 1
		row := documentRow{ID: saved.ID, Rev: saved.Rev, DocType: saved.Type, Body: datatypes.JSON(saved.Body)}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		return saved, nil
	}
	saved.Rev = updated.Rev
	return saved, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id, model string, code int) error {
	res := s.db.WithContext(ctx).Delete(&documentRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(model, code, "id "+id)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, sel Selector) (int64, error) {
	var n int64
	q := applySelector(s.db.WithContext(ctx).Model(&documentRow{}), sel)
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func rowToDocument(row *documentRow) *Document {
	body := make([]byte, len(row.Body))
	copy(body, row.Body)
	return &Document{ID: row.ID, Rev: row.Rev, Type: row.DocType, Body: body}
}

func applySelector(q *gorm.DB, sel Selector) *gorm.DB {
	if len(sel.Clauses) == 0 {
		return q
	}
	exprs := make([]string, 0, len(sel.Clauses))
	var args []interface{}
	for _, clause := range sel.Clauses {
		expr, clauseArgs := clauseSQL(clause)
		exprs = append(exprs, expr)
		args = append(args, clauseArgs...)
	}
	return q.Where(strings.Join(exprs, " OR "), args...)
}

func clauseSQL(clause Clause) (string, []interface{}) {
	if len(clause) == 0 {
		return "TRUE", nil
	}
	parts := make([]string, 0, len(clause))
	var args []interface{}
	for _, cond := range clause {
		expr, condArgs := condSQL(cond)
		parts = append(parts, expr)
		args = append(args, condArgs...)
	}
	return "(" + strings.Join(parts, " AND ") + ")", args
}

func condSQL(cond Cond) (string, []interface{}) {
	expr := fieldExpr(cond.Field, cond.Value)
	switch cond.Op {
	case OpEq:
		return expr + " = ?", []interface{}{cond.Value}
	case OpNe:
		return "(" + expr + " IS DISTINCT FROM ?)", []interface{}{cond.Value}
	case OpGt:
		return expr + " > ?", []interface{}{cond.Value}
	case OpLt:
		return expr + " < ?", []interface{}{cond.Value}
	case OpIn:
		return expr + " IN ?", []interface{}{cond.Value}
	case OpNotIn:
		return expr + " NOT IN ?", []interface{}{cond.Value}
	case OpContains:
		return expr + " ILIKE ?", []interface{}{"%" + escapeLike(cond.Value.(string)) + "%"}
	case OpAnyIn:
		values := cond.Value.([]string)
		placeholders := make([]string, len(values))
		args := make([]interface{}, len(values))
		for i, v := range values {
			placeholders[i] = "?"
			args[i] = v
		}
		return fmt.Sprintf("jsonb_exists_any(body -> '%s', ARRAY[%s])", cond.Field, strings.Join(placeholders, ", ")), args
	default:
		return "FALSE", nil
	}
}

// fieldExpr addresses a condition field: the reserved id/type fields map to
// their columns, everything else is extracted from the JSONB body with a cast
// matching the Go value type.
func fieldExpr(field string, value interface{}) string {
	switch field {
	case "id":
		return "id"
	case "type":
		return "doc_type"
	}
	jsonExpr := fmt.Sprintf("body ->> '%s'", field)
	switch value.(type) {
	case bool:
		return "(" + jsonExpr + ")::boolean"
	case int, int32, int64, float32, float64:
		return "(" + jsonExpr + ")::numeric"
	default:
		return jsonExpr
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
