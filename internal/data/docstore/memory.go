package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/badgeboard/badgeboard-backend/internal/pkg/apperr"
)

// MemoryStore is an in-memory Store used by service and repo tests. It
// evaluates selectors directly against decoded document bodies with the same
// semantics as the Postgres implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*memDoc
	seq  int64
}

type memDoc struct {
	doc    *Document
	fields map[string]interface{}
	seq    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*memDoc)}
}

func (m *MemoryStore) Get(ctx context.Context, id, model string, code int) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	md, ok := m.docs[id]
	if !ok {
		return nil, apperr.NotFound(model, code, "id "+id)
	}
	return md.doc.clone(), nil
}

func (m *MemoryStore) FindOne(ctx context.Context, sel Selector, model string, code int) (*Document, error) {
	docs, err := m.Find(ctx, sel.Limited(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperr.NotFound(model, code, "")
	}
	return docs[0], nil
}

func (m *MemoryStore) Find(ctx context.Context, sel Selector) ([]*Document, error) {
	m.mu.RLock()
	matched := make([]*memDoc, 0)
	for _, md := range m.docs {
		if matchSelector(md, sel) {
			matched = append(matched, md)
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if sel.SortField != "" {
			vi := numericField(matched[i], sel.SortField)
			vj := numericField(matched[j], sel.SortField)
			if vi != vj {
				if sel.SortDesc {
					return vi > vj
				}
				return vi < vj
			}
		}
		return matched[i].seq < matched[j].seq
	})

	if sel.Skip > 0 {
		if sel.Skip >= len(matched) {
			matched = nil
		} else {
			matched = matched[sel.Skip:]
		}
	}
	if sel.Limit > 0 && len(matched) > sel.Limit {
		matched = matched[:sel.Limit]
	}

	docs := make([]*Document, 0, len(matched))
	for _, md := range matched {
		docs = append(docs, md.doc.clone())
	}
	return docs, nil
}

func (m *MemoryStore) Save(ctx context.Context, doc *Document) (*Document, error) {
	saved := doc.clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
		saved.Rev = 1
	} else if existing, ok := m.docs[saved.ID]; ok {
		saved.Rev = existing.doc.Rev + 1
	} else {
		saved.Rev = 1
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(saved.Body, &fields); err != nil {
		return nil, err
	}
	m.seq++
	seq := m.seq
	if existing, ok := m.docs[saved.ID]; ok {
		seq = existing.seq
	}
	m.docs[saved.ID] = &memDoc{doc: saved.clone(), fields: fields, seq: seq}
	return saved, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id, model string, code int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return apperr.NotFound(model, code, "id "+id)
	}
	delete(m.docs, id)
	return nil
}

func (m *MemoryStore) Count(ctx context.Context, sel Selector) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, md := range m.docs {
		if matchSelector(md, sel) {
			n++
		}
	}
	return n, nil
}

func matchSelector(md *memDoc, sel Selector) bool {
	if len(sel.Clauses) == 0 {
		return true
	}
	for _, clause := range sel.Clauses {
		if matchClause(md, clause) {
			return true
		}
	}
	return false
}

func matchClause(md *memDoc, clause Clause) bool {
	for _, cond := range clause {
		if !matchCond(md, cond) {
			return false
		}
	}
	return true
}

func matchCond(md *memDoc, cond Cond) bool {
	val, present := fieldValue(md, cond.Field)
	switch cond.Op {
	case OpEq:
		return present && equalValues(val, cond.Value)
	case OpNe:
		return !present || !equalValues(val, cond.Value)
	case OpGt:
		return present && toFloat(val) > toFloat(cond.Value)
	case OpLt:
		return present && toFloat(val) < toFloat(cond.Value)
	case OpIn:
		return present && member(toString(val), cond.Value.([]string))
	case OpNotIn:
		return present && !member(toString(val), cond.Value.([]string))
	case OpContains:
		sub := strings.ToLower(cond.Value.(string))
		return present && strings.Contains(strings.ToLower(toString(val)), sub)
	case OpAnyIn:
		arr, ok := val.([]interface{})
		if !present || !ok {
			return false
		}
		for _, item := range arr {
			if member(toString(item), cond.Value.([]string)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func fieldValue(md *memDoc, field string) (interface{}, bool) {
	switch field {
	case "id":
		return md.doc.ID, true
	case "type":
		return md.doc.Type, true
	}
	val, ok := md.fields[field]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

func numericField(md *memDoc, field string) float64 {
	val, ok := fieldValue(md, field)
	if !ok {
		return 0
	}
	return toFloat(val)
}

func equalValues(a, b interface{}) bool {
	switch b.(type) {
	case int, int32, int64, float32, float64:
		return toFloat(a) == toFloat(b)
	case bool:
		ab, ok := a.(bool)
		bb := b.(bool)
		return ok && ab == bb
	default:
		return toString(a) == toString(b)
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	default:
		return 0
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func member(s string, values []string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
