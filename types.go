package lister

// Field names one query dimension owned by a field controller.
type Field string

const (
	FieldPage    Field = "page"
	FieldLimit   Field = "limit"
	FieldSort    Field = "sort"
	FieldOrder   Field = "order"
	FieldSearch  Field = "search"
	FieldFilters Field = "filters"
)

var allFields = []Field{FieldPage, FieldLimit, FieldSort, FieldOrder, FieldSearch, FieldFilters}

// defaultTriggers are the fields that auto-apply when Config.Triggers is unset.
var defaultTriggers = []Field{FieldPage, FieldLimit, FieldSort, FieldOrder}

// Fields returns every field in canonical order.
func Fields() []Field {
	return append([]Field(nil), allFields...)
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	switch f {
	case FieldPage, FieldLimit, FieldSort, FieldOrder, FieldSearch, FieldFilters:
		return true
	default:
		return false
	}
}

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Valid reports whether o is asc or desc.
func (o Order) Valid() bool {
	return o == OrderAsc || o == OrderDesc
}

// Toggle returns the opposite direction.
func (o Order) Toggle() Order {
	if o == OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}

// Parameters is the projection of the query state that participates in
// hashing and change detection. Field order is the serialized key order.
type Parameters struct {
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Sort    string         `json:"sort"`
	Order   Order          `json:"order"`
	Search  string         `json:"search"`
	Filters map[string]any `json:"filters"`
}

// Map returns the parameters as a JSON-shaped object, used as the rule
// environment binding.
func (p Parameters) Map() map[string]any {
	filters := cloneFilters(p.Filters)
	if filters == nil {
		filters = map[string]any{}
	}
	return map[string]any{
		"page":    p.Page,
		"limit":   p.Limit,
		"sort":    p.Sort,
		"order":   string(p.Order),
		"search":  p.Search,
		"filters": filters,
	}
}

// hashView mirrors Parameters with untyped members so that payloads which
// have not been normalized yet serialize exactly the way they arrived.
type hashView struct {
	Page    any `json:"page"`
	Limit   any `json:"limit"`
	Sort    any `json:"sort"`
	Order   any `json:"order"`
	Search  any `json:"search"`
	Filters any `json:"filters"`
}

func hashViewOf(state map[string]any) hashView {
	return hashView{
		Page:    state[string(FieldPage)],
		Limit:   state[string(FieldLimit)],
		Sort:    state[string(FieldSort)],
		Order:   state[string(FieldOrder)],
		Search:  state[string(FieldSearch)],
		Filters: state[string(FieldFilters)],
	}
}
