package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/billow-homes/homes-api/models"
	"github.com/billow-homes/homes-api/testsupport"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		page, limit int
		want        Window
	}{
		{1, 10, Window{Page: 1, Limit: 10, Offset: 0}},
		{3, 5, Window{Page: 3, Limit: 5, Offset: 10}},
		{0, 5, Window{Page: 1, Limit: 5, Offset: 0}},
		{-2, 0, Window{Page: 1, Limit: 10, Offset: 0}},
		{2, 500, Window{Page: 2, Limit: 100, Offset: 100}},
		{1e17, 100, Window{Page: 1e17, Limit: 100, Offset: math.MaxInt64}},
		{math.MaxInt, 1, Window{Page: math.MaxInt, Limit: 1, Offset: math.MaxInt - 1}},
	}

	for _, tt := range tests {
		got := NewWindow(tt.page, tt.limit, 10, 100)
		if got != tt.want {
			t.Errorf("NewWindow(%d, %d) = %+v; want %+v", tt.page, tt.limit, got, tt.want)
		}
	}
}

func TestListPagination(t *testing.T) {
	const total = 7
	seed := make([]models.Home, total)
	for i := range seed {
		seed[i] = testsupport.Home(fmt.Sprintf("%d Main St", i+1))
	}
	svc := NewHomeService(testsupport.NewMemStore(seed...), nil, DefaultOptions())

	for p := 1; p <= 5; p++ {
		for _, l := range []int{1, 2, 3, 7, 10} {
			page, err := svc.List(context.Background(), p, l)
			if err != nil {
				t.Fatalf("List(%d, %d): %v", p, l, err)
			}

			want := total - (p-1)*l
			if want > l {
				want = l
			}
			if want < 0 {
				want = 0
			}
			if len(page.Results) != want {
				t.Errorf("List(%d, %d) returned %d results; want %d", p, l, len(page.Results), want)
			}
			if page.Total != total {
				t.Errorf("List(%d, %d) total = %d; want %d", p, l, page.Total, total)
			}
			if (page.Previous != nil) != (p > 1) {
				t.Errorf("List(%d, %d) previous = %v", p, l, page.Previous)
			}
			if (page.Next != nil) != (p*l < total) {
				t.Errorf("List(%d, %d) next = %v", p, l, page.Next)
			}
			if page.Next != nil && (page.Next.Page != p+1 || page.Next.Limit != l) {
				t.Errorf("List(%d, %d) next = %+v", p, l, *page.Next)
			}
		}
	}
}

func TestListOutOfRangeIsEmptyNotError(t *testing.T) {
	svc := NewHomeService(testsupport.NewMemStore(testsupport.Home("Elm St")), nil, DefaultOptions())

	page, err := svc.List(context.Background(), 99, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Results == nil || len(page.Results) != 0 {
		t.Fatalf("expected empty results, got %#v", page.Results)
	}
	if page.Next != nil || page.Previous == nil {
		t.Fatalf("unexpected links prev=%v next=%v", page.Previous, page.Next)
	}
}

func TestListPageBeyondAddressableOffset(t *testing.T) {
	svc := NewHomeService(testsupport.NewMemStore(testsupport.Home("Elm St")), nil, DefaultOptions())

	page, err := svc.List(context.Background(), 100000000000000000, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Results == nil || len(page.Results) != 0 {
		t.Fatalf("expected empty results, got %#v", page.Results)
	}
	if page.Next != nil {
		t.Fatalf("expected no next link, got %+v", page.Next)
	}
	if page.Total != 1 {
		t.Fatalf("expected total 1, got %d", page.Total)
	}
}
