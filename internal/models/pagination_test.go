package models

import "testing"

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		wantPages   int
	}{
		{1, 10, 0, 0},
		{1, 10, 10, 1},
		{1, 10, 11, 2},
		{2, 2, 5, 3},
		{1, 0, 5, 0},
	}

	for _, tc := range cases {
		p := NewPagination(tc.page, tc.limit, tc.total)
		if p.Pages != tc.wantPages {
			t.Errorf("total=%d limit=%d: expected %d pages, got %d",
				tc.total, tc.limit, tc.wantPages, p.Pages)
		}
		if p.Total != tc.total || p.Page != tc.page {
			t.Errorf("Expected page=%d total=%d carried through, got page=%d total=%d",
				tc.page, tc.total, p.Page, p.Total)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 1000, 20, 100)
	if page != 1 || limit != 20 {
		t.Errorf("Expected page=1 limit=20, got page=%d limit=%d", page, limit)
	}
	page, limit = NormalizePage(3, 50, 20, 100)
	if page != 3 || limit != 50 {
		t.Errorf("Expected page=3 limit=50, got page=%d limit=%d", page, limit)
	}
}
