package segment

import (
	"fmt"
	"testing"

	"crm-segments/internal/domain"
)

func makeRecords(n int) []domain.CustomerRecord {
	out := make([]domain.CustomerRecord, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.CustomerRecord{ID: int64(i), Name: fmt.Sprintf("c%02d", i)})
	}
	return out
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		count, pageSize, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := TotalPages(c.count, c.pageSize); got != c.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", c.count, c.pageSize, got, c.want)
		}
	}
}

func TestSlice_PaginationCompleteness(t *testing.T) {
	records := makeRecords(25)
	total := TotalPages(len(records), 10)
	if total != 3 {
		t.Fatalf("expected 3 pages, got %d", total)
	}

	var seen []int64
	for page := 1; page <= total; page++ {
		chunk := Slice(records, ViewState{Page: page, PageSize: 10})
		if page == 3 && len(chunk) != 5 {
			t.Fatalf("page 3 should hold exactly 5 records, got %d", len(chunk))
		}
		seen = append(seen, idsOf(chunk)...)
	}

	if len(seen) != 25 {
		t.Fatalf("concatenated pages hold %d records, want 25", len(seen))
	}
	for i, id := range seen {
		if id != int64(i+1) {
			t.Fatalf("record %d out of place: got id %d", i, id)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, totalPages, want int
	}{
		{4, 3, 3},  // 越过末页夹回末页
		{0, 3, 1},  // 页号下界
		{-5, 3, 1},
		{2, 3, 2},
		{1, 0, 1}, // 空集合仍然落在第 1 页
		{7, 0, 1},
	}
	for _, c := range cases {
		if got := ClampPage(c.page, c.totalPages); got != c.want {
			t.Fatalf("ClampPage(%d, %d) = %d, want %d", c.page, c.totalPages, got, c.want)
		}
	}
}

func TestSlice_OutOfRangeYieldsEmpty(t *testing.T) {
	records := makeRecords(5)
	if got := Slice(records, ViewState{Page: 3, PageSize: 10}); len(got) != 0 {
		t.Fatalf("out-of-range page must be empty, got %v", idsOf(got))
	}
	if got := Slice(records, ViewState{Page: 1, PageSize: 0}); len(got) != 0 {
		t.Fatalf("zero page size must be empty, got %v", idsOf(got))
	}
}

func TestClampThenSlice_ShrunkFilter(t *testing.T) {
	records := makeRecords(5)
	vs := ViewState{Page: 4, PageSize: 10}
	vs.Page = ClampPage(vs.Page, TotalPages(len(records), vs.PageSize))
	got := Slice(records, vs)
	if len(got) != 5 {
		t.Fatalf("after clamp page 1 should hold all 5 records, got %d", len(got))
	}
}
