package segment

import (
	"testing"

	"crm-segments/internal/domain"
)

func tag(name string) domain.Tag {
	return domain.Tag{Name: name, Slug: name}
}

func fixtureCustomers() []domain.CustomerRecord {
	return []domain.CustomerRecord{
		{ID: 1, Name: "Alice", Tags: []domain.Tag{tag("Gold Interested")}},
		{ID: 2, Name: "Bob", Tags: []domain.Tag{tag("High-Spending Customer")}},
		{ID: 3, Name: "Cara", Tags: []domain.Tag{}},
	}
}

func idsOf(records []domain.CustomerRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_SearchText_CaseInsensitiveSubstring(t *testing.T) {
	st := NewFilterState()
	st.SearchText = "a"

	got := Filter(fixtureCustomers(), st)
	if len(got) != 2 || got[0].Name != "Alice" || got[1].Name != "Cara" {
		t.Fatalf("expected Alice and Cara, got %v", idsOf(got))
	}
}

func TestFilter_SearchText_MatchesEmailAndCity(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Name: "X", Email: "gold@example.com"},
		{ID: 2, Name: "Y", City: "Goldfield"},
		{ID: 3, Name: "Z"},
	}
	st := NewFilterState()
	st.SearchText = "GOLD"

	got := Filter(records, st)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", idsOf(got))
	}
}

func TestFilter_SearchInTags_OptionalMode(t *testing.T) {
	st := NewFilterState()
	st.SearchText = "gold interested"

	if got := Filter(fixtureCustomers(), st); len(got) != 0 {
		t.Fatalf("without SearchInTags tag names must not match, got %v", idsOf(got))
	}

	st.SearchInTags = true
	got := Filter(fixtureCustomers(), st)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("with SearchInTags expected only Alice, got %v", idsOf(got))
	}
}

func TestFilter_SingleTag_OrSemantics(t *testing.T) {
	st := NewFilterState()
	st.SingleTagFilter = "Gold Interested"

	got := Filter(fixtureCustomers(), st)
	if len(got) != 1 || got[0].Name != "Alice" {
		t.Fatalf("expected only Alice, got %v", idsOf(got))
	}
}

func TestFilter_SelectedTags_AndSemantics(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Tags: []domain.Tag{tag("Gold Interested"), tag("Wedding Buyer")}},
		{ID: 2, Tags: []domain.Tag{tag("Gold Interested")}},
		{ID: 3, Tags: []domain.Tag{tag("Wedding Buyer"), tag("Gold Interested"), tag("New Lead")}},
	}
	st := NewFilterState()
	st.ToggleSelectedTag("Gold Interested")
	st.ToggleSelectedTag("Wedding Buyer")

	got := Filter(records, st)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected records 1 and 3 (superset semantics), got %v", idsOf(got))
	}
}

func TestFilter_SelectedTagsOverrideSingleTag(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Tags: []domain.Tag{tag("Gold Interested")}},
		{ID: 2, Tags: []domain.Tag{tag("Wedding Buyer")}},
	}
	st := NewFilterState()
	st.ToggleSelectedTag("Wedding Buyer")
	st.SingleTagFilter = "Gold Interested" // 有 SelectedTags 时必须不生效

	got := Filter(records, st)
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("selectedTags must take precedence, got %v", idsOf(got))
	}
}

func TestFilter_SubsetInvariant(t *testing.T) {
	full := fixtureCustomers()
	states := []FilterState{
		NewFilterState(),
		{SearchText: "a", SingleTagFilter: SingleTagAll},
		{SearchText: "zzz", SingleTagFilter: SingleTagAll},
		{SingleTagFilter: "Gold Interested"},
	}
	for _, st := range states {
		if got := Filter(full, st); len(got) > len(full) {
			t.Fatalf("filtered %d > full %d for %+v", len(got), len(full), st)
		}
	}
}

func TestFilter_EmptyCollection(t *testing.T) {
	st := NewFilterState()
	st.SearchText = "anything"
	got := Filter(nil, st)
	if got == nil || len(got) != 0 {
		t.Fatalf("empty collection must yield empty non-nil sequence, got %v", got)
	}
}

func TestFilter_TextAndTagCombined(t *testing.T) {
	st := NewFilterState()
	st.SearchText = "a"
	st.SingleTagFilter = "Gold Interested"

	got := Filter(fixtureCustomers(), st)
	if len(got) != 1 || got[0].Name != "Alice" {
		t.Fatalf("expected only Alice, got %v", idsOf(got))
	}
}
