package pagination

import (
	"strconv"
	"testing"
	"time"
)

func TestPaginationParamsValidate(t *testing.T) {
	tests := []struct {
		name        string
		in          PaginationParams
		wantPage    int
		wantPerPage int
	}{
		{"zero values", PaginationParams{}, 1, 20},
		{"negative page", PaginationParams{Page: -3, PerPage: 10}, 1, 10},
		{"too large", PaginationParams{Page: 2, PerPage: 500}, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got page=%d per_page=%d, want %d/%d", p.Page, p.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasNext || !p.HasPrev {
		t.Errorf("expected both HasNext and HasPrev on middle page: %+v", p)
	}
}

func TestCursorRoundTripAndTrim(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []int{1, 2, 3, 4}
	key := func(i int) (string, time.Time) {
		return strconv.Itoa(i), base.Add(-time.Duration(i) * time.Hour)
	}

	res := NewCursorPaginatedResult(items, 3, key)
	if len(res.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(res.Items))
	}
	if !res.Pagination.HasNext || res.Pagination.NextCursor == nil {
		t.Fatalf("expected next cursor, got %+v", res.Pagination)
	}

	params := CursorParams{Cursor: *res.Pagination.NextCursor}
	c, err := params.DecodeCursor()
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if c.ID != "3" || !c.CreatedAt.Equal(base.Add(-3*time.Hour)) {
		t.Errorf("decoded cursor = %+v", c)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	params := CursorParams{Cursor: "%%%"}
	if _, err := params.DecodeCursor(); err == nil {
		t.Error("expected error for malformed cursor")
	}
}
