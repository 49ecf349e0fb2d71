package docstore

// Op is a comparison operator applied to one document field.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpLt
	OpIn
	OpNotIn
	// OpContains matches a case-insensitive substring of a string field.
	OpContains
	// OpAnyIn matches when a JSON array field shares at least one element
	// with the given values.
	OpAnyIn
)

// Cond is one field comparison. Field names refer to body fields except the
// reserved "id" and "type", which address the document id and type tag.
type Cond struct {
	Field string
	Op    Op
	Value interface{}
}

func Eq(field string, value interface{}) Cond  { return Cond{Field: field, Op: OpEq, Value: value} }
func Ne(field string, value interface{}) Cond  { return Cond{Field: field, Op: OpNe, Value: value} }
func Gt(field string, value interface{}) Cond  { return Cond{Field: field, Op: OpGt, Value: value} }
func Lt(field string, value interface{}) Cond  { return Cond{Field: field, Op: OpLt, Value: value} }
func In(field string, values []string) Cond    { return Cond{Field: field, Op: OpIn, Value: values} }
func NotIn(field string, values []string) Cond { return Cond{Field: field, Op: OpNotIn, Value: values} }
func Contains(field, substr string) Cond       { return Cond{Field: field, Op: OpContains, Value: substr} }
func AnyIn(field string, values []string) Cond { return Cond{Field: field, Op: OpAnyIn, Value: values} }

// Clause is a conjunction of conditions.
type Clause []Cond

func And(conds ...Cond) Clause { return Clause(conds) }

// Selector is a structured query: a disjunction of clauses plus ordering and
// paging. An empty clause list matches every document. Sort fields are
// numeric (epoch millisecond) body fields.
type Selector struct {
	Clauses   []Clause
	SortField string
	SortDesc  bool
	Skip      int
	Limit     int
}

// Where builds a single-clause selector.
func Where(conds ...Cond) Selector {
	return Selector{Clauses: []Clause{Clause(conds)}}
}

// Any builds a selector matching documents that satisfy at least one clause.
func Any(clauses ...Clause) Selector {
	return Selector{Clauses: clauses}
}

func (s Selector) SortAsc(field string) Selector {
	s.SortField = field
	s.SortDesc = false
	return s
}

func (s Selector) SortDescBy(field string) Selector {
	s.SortField = field
	s.SortDesc = true
	return s
}

// OrderedBy applies the requested direction to a numeric sort field.
func (s Selector) OrderedBy(field string, desc bool) Selector {
	s.SortField = field
	s.SortDesc = desc
	return s
}

// Page translates 1-based page coordinates into skip/limit. When either value
// is not a positive integer no bound is applied; callers rely on that for
// small reference sets and must validate list requests upstream.
func (s Selector) Page(pageNum, pageSize int) Selector {
	if pageNum > 0 && pageSize > 0 {
		s.Skip = (pageNum - 1) * pageSize
		s.Limit = pageSize
	}
	return s
}

// Limited caps the result size without paging.
func (s Selector) Limited(n int) Selector {
	s.Limit = n
	return s
}
