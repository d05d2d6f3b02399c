package catalog

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"dp-catalog/internal/model"
)

func TestQuery_NoFilters(t *testing.T) {
	c := loadFixture(t)

	got := ids(c.Query(Query{}))
	want := []string{"gmax", "helipower", "mroy", "primeroyal", "vrd"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Query() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Search(t *testing.T) {
	c := loadFixture(t)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"description match", "dosing", []string{"gmax", "helipower"}},
		{"case insensitive", "PUMP", []string{"gmax", "mroy", "primeroyal"}},
		{"name match", "mixer", []string{"helipower", "vrd"}},
		{"no match", "turbine", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(c.Query(Query{Search: tt.search}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Query(%q) mismatch (-want +got):\n%s", tt.search, diff)
			}
		})
	}
}

func TestQuery_CategoryFilter(t *testing.T) {
	c := loadFixture(t)

	assert.Equal(t, []string{"helipower", "vrd"}, ids(c.Query(Query{Category: "agitators"})))
	assert.Equal(t, []string{"gmax", "mroy", "primeroyal"}, ids(c.Query(Query{Category: "metering-pumps", Search: "pump"})))
	assert.Len(t, c.Query(Query{Category: AllCategories}), 5)
	assert.Empty(t, c.Query(Query{Category: "spare-kits"}))
	assert.Empty(t, c.Query(Query{Category: "unknown"}))
}

func TestQuery_SortDirection(t *testing.T) {
	c := loadFixture(t)

	for _, field := range []SortField{SortByName, SortByID} {
		asc := ids(c.Query(Query{SortBy: field, Order: Ascending}))
		desc := ids(c.Query(Query{SortBy: field, Order: Descending}))

		reversed := slices.Clone(desc)
		slices.Reverse(reversed)
		assert.Equal(t, asc, reversed, "field %s", field)
	}
}

func TestQuery_ResultIsSubsetMatchingSearch(t *testing.T) {
	c := loadFixture(t)
	all := c.Items()

	for _, s := range []string{"", "p", "PUMP", "roy", "er", "x", "dosing tanks"} {
		got := c.Query(Query{Search: s})
		for _, it := range got {
			assert.True(t, slices.ContainsFunc(all, func(o model.ListedItem) bool { return o.ID == it.ID }))
			if s != "" {
				needle := strings.ToLower(s)
				assert.True(t,
					strings.Contains(strings.ToLower(it.Name), needle) ||
						strings.Contains(strings.ToLower(it.Description), needle),
					"item %s does not match %q", it.ID, s)
			}
		}
		if s == "" {
			assert.Len(t, got, len(all))
		}
	}
}

func TestQuery_StableOnTies(t *testing.T) {
	c := New([]model.Category{
		{ID: "a", Name: "A", Items: []model.Item{
			{ID: "3", Name: "Same"},
			{ID: "1", Name: "Other"},
			{ID: "2", Name: "Same"},
			{ID: "4", Name: "Same"},
		}},
	})

	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(c.Query(Query{SortBy: SortByName})))
	assert.Equal(t, []string{"3", "2", "4", "1"}, ids(c.Query(Query{SortBy: SortByName, Order: Descending})))
}

func TestQuery_DoesNotMutateCatalog(t *testing.T) {
	c := loadFixture(t)

	_ = c.Query(Query{SortBy: SortByName, Order: Descending})
	assert.Equal(t, []string{"mroy", "gmax", "primeroyal", "helipower", "vrd"}, ids(c.Items()))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortByID, ParseSortField("id"))
	assert.Equal(t, SortByID, ParseSortField("ID"))
	assert.Equal(t, SortByName, ParseSortField("price"))
	assert.Equal(t, SortByName, ParseSortField(""))

	assert.Equal(t, Descending, ParseSortOrder("desc"))
	assert.Equal(t, Ascending, ParseSortOrder("asc"))
	assert.Equal(t, Ascending, ParseSortOrder("sideways"))
}
