package segment

import (
	"reflect"
	"testing"

	"crm-segments/internal/domain"
)

func TestSummaryTiles_CountsOverFullCollection(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Tags: []domain.Tag{
			{Name: "High-Spending Customer", Slug: domain.SlugHighValue},
			{Name: "Birthday Week", Slug: domain.SlugBirthdayWeek},
		}},
		{ID: 2, Tags: []domain.Tag{
			{Name: "Needs Follow-up", Slug: domain.SlugNeedsFollowUp},
		}},
		{ID: 3, Tags: []domain.Tag{
			{Name: "New Lead", Slug: domain.SlugNewLead},
			{Name: "High-Spending Customer", Slug: domain.SlugHighValue},
		}},
		{ID: 4},
	}

	tiles := SummaryTiles(records)
	want := TileCounts{HighValue: 2, NeedsFollowUp: 1, BirthdayWeek: 1, NewLeads: 1}
	if tiles != want {
		t.Fatalf("tiles = %+v, want %+v", tiles, want)
	}
}

func TestHistogram_PerTagInstanceFirstSeenOrder(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Tags: []domain.Tag{tag("Gold Interested"), tag("Wedding Buyer")}},
		{ID: 2, Tags: []domain.Tag{tag("Wedding Buyer")}},
		{ID: 3, Tags: []domain.Tag{tag("New Lead"), tag("Gold Interested")}},
	}

	got := Histogram(records)
	want := []TagCount{
		{Name: "Gold Interested", Count: 2},
		{Name: "Wedding Buyer", Count: 2},
		{Name: "New Lead", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("histogram = %v, want %v", got, want)
	}
}

func TestHistogram_RecordWithKTagsIncrementsKBuckets(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Tags: []domain.Tag{tag("A"), tag("B"), tag("C")}},
	}
	got := Histogram(records)
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets for a 3-tag record, got %d", len(got))
	}
	sum := 0
	for _, b := range got {
		sum += b.Count
	}
	if sum != 3 {
		t.Fatalf("bucket counts should sum to tag instances (3), got %d", sum)
	}
}

func TestHistogram_Empty(t *testing.T) {
	if got := Histogram(nil); len(got) != 0 {
		t.Fatalf("empty input must give empty histogram, got %v", got)
	}
}

func TestDistinctTagNames_SortedCaseSensitive(t *testing.T) {
	records := []domain.CustomerRecord{
		{ID: 1, Tags: []domain.Tag{tag("gold"), tag("Wedding Buyer")}},
		{ID: 2, Tags: []domain.Tag{tag("Gold Interested"), tag("gold")}},
	}
	got := DistinctTagNames(records)
	// 区分大小写的升序：大写字母排在小写之前
	want := []string{"Gold Interested", "Wedding Buyer", "gold"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("distinct names = %v, want %v", got, want)
	}
}
