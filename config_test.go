package lister

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	opts := Resolve(Config{})

	if opts.Page != DefaultPage || opts.Limit != DefaultLimit || opts.Sort != DefaultSort || opts.Order != DefaultOrder {
		t.Fatalf("unexpected defaults %+v", opts)
	}
	if want := []Field{FieldPage, FieldLimit, FieldSort, FieldOrder}; !reflect.DeepEqual(opts.Triggers(), want) {
		t.Fatalf("expected default triggers %v, got %v", want, opts.Triggers())
	}
	if opts.IsAuto(FieldSearch) || opts.IsAuto(FieldFilters) {
		t.Fatalf("search and filters must not auto-apply by default")
	}
	if filters := opts.DefaultFilters(); filters == nil || len(filters) != 0 {
		t.Fatalf("expected empty default filters, got %v", filters)
	}
}

func TestResolveFallsBackOnUnusableValues(t *testing.T) {
	opts := Resolve(Config{Page: -3, Limit: -1, Order: "sideways"})

	if opts.Page != DefaultPage || opts.Limit != DefaultLimit || opts.Order != DefaultOrder {
		t.Fatalf("expected fallbacks, got %+v", opts)
	}
}

func TestResolveDetachesInput(t *testing.T) {
	cfg := Config{
		ValidLimits: []int{10, 25},
		Filters:     map[string]any{"tags": []string{"a"}, "gone": nil},
	}
	opts := Resolve(cfg)
	cfg.ValidLimits[0] = 99

	if opts.ValidLimits[0] != 10 {
		t.Fatalf("expected resolved limits detached from input")
	}
	if !reflect.DeepEqual(opts.DefaultFilters(), map[string]any{"tags": []any{"a"}}) {
		t.Fatalf("expected normalized filters, got %v", opts.DefaultFilters())
	}

	filters := opts.DefaultFilters()
	filters["tags"] = "mutated"
	if reflect.DeepEqual(opts.DefaultFilters(), filters) {
		t.Fatalf("DefaultFilters must return a copy")
	}
}

func TestTriggerSelection(t *testing.T) {
	cases := []struct {
		name     string
		triggers Triggers
		want     []Field
	}{
		{name: "zero value", triggers: Triggers{}, want: []Field{FieldPage, FieldLimit, FieldSort, FieldOrder}},
		{name: "all", triggers: AllTriggers(), want: Fields()},
		{name: "explicit", triggers: TriggerOn(FieldSearch, FieldPage), want: []Field{FieldPage, FieldSearch}},
		{name: "none", triggers: TriggerOn(), want: []Field{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(Config{Triggers: tc.triggers}).Triggers()
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero", cfg: Config{}},
		{name: "complete", cfg: Config{
			Page: 2, Limit: 10, ValidLimits: []int{10, 20}, Sort: "name",
			ValidSorts: []string{"name"}, Order: OrderDesc, Triggers: AllTriggers(),
			FilterRules: map[string]string{"status": `value != ""`},
		}},
		{name: "negative page", cfg: Config{Page: -1}, wantErr: true},
		{name: "negative limit", cfg: Config{Limit: -1}, wantErr: true},
		{name: "zero valid limit", cfg: Config{ValidLimits: []int{0}}, wantErr: true},
		{name: "blank valid sort", cfg: Config{ValidSorts: []string{" "}}, wantErr: true},
		{name: "bad order", cfg: Config{Order: "up"}, wantErr: true},
		{name: "bad trigger", cfg: Config{Triggers: TriggerOn("offset")}, wantErr: true},
		{name: "empty rule", cfg: Config{FilterRules: map[string]string{"status": ""}}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestOrderHelpers(t *testing.T) {
	if OrderAsc.Toggle() != OrderDesc || OrderDesc.Toggle() != OrderAsc {
		t.Fatalf("toggle must flip the direction")
	}
	if Order("ASC").Valid() {
		t.Fatalf("order matching is case sensitive")
	}
	if !FieldFilters.Valid() || Field("offset").Valid() {
		t.Fatalf("unexpected field validity")
	}
}
