package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name         string
		totalItems   int
		itemsPerPage int
		expected     int
	}{
		{"exact multiple", 100, 10, 10},
		{"partial last page", 25, 10, 3},
		{"single item", 1, 10, 1},
		{"empty list", 0, 10, 0},
		{"per-page larger than list", 5, 50, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.totalItems, tt.itemsPerPage, 1)
			assert.Equal(t, tt.expected, p.TotalPages())
		})
	}
}

func TestWindow(t *testing.T) {
	p := New(100, 10, 1)
	start, end := p.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	p.SetPage(3)
	start, end = p.Window()
	assert.Equal(t, 20, start)
	assert.Equal(t, 30, end)
}

func TestWindowPartialLastPage(t *testing.T) {
	p := New(25, 10, 3)
	start, end := p.Window()
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)
}

func TestWindowEmptyList(t *testing.T) {
	p := New(0, 10, 1)
	assert.Equal(t, 0, p.TotalPages())
	assert.Equal(t, 1, p.CurrentPage())

	start, end := p.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestSetPageClamping(t *testing.T) {
	p := New(100, 10, 1)

	p.SetPage(999)
	assert.Equal(t, 10, p.CurrentPage())

	p.SetPage(0)
	assert.Equal(t, 1, p.CurrentPage())

	p.SetPage(-5)
	assert.Equal(t, 1, p.CurrentPage())
}

func TestNewClampsInitialPage(t *testing.T) {
	p := New(30, 10, 7)
	assert.Equal(t, 3, p.CurrentPage())

	p = New(30, 10, -2)
	assert.Equal(t, 1, p.CurrentPage())
}

func TestDefaultItemsPerPage(t *testing.T) {
	p := New(100, 0, 1)
	assert.Equal(t, 10, p.TotalPages())

	p = New(100, -3, 1)
	assert.Equal(t, 10, p.TotalPages())
}

func TestNextPrev(t *testing.T) {
	p := New(25, 10, 1)

	p.Next()
	assert.Equal(t, 2, p.CurrentPage())
	assert.True(t, p.HasNext())
	assert.True(t, p.HasPrev())

	p.Next()
	assert.Equal(t, 3, p.CurrentPage())
	assert.False(t, p.HasNext())

	// Never past the last page
	p.Next()
	assert.Equal(t, 3, p.CurrentPage())

	p.Prev()
	p.Prev()
	p.Prev()
	assert.Equal(t, 1, p.CurrentPage())
	assert.False(t, p.HasPrev())
}

func TestSetTotalItemsKeepsPage(t *testing.T) {
	p := New(100, 10, 5)
	assert.Equal(t, 5, p.CurrentPage())

	// Shrinking the list must not move the page on its own; the caller
	// resets explicitly when a filter changes.
	p.SetTotalItems(12)
	assert.Equal(t, 5, p.CurrentPage())
	assert.Equal(t, 2, p.TotalPages())

	// Out-of-range page yields an empty window, not a panic.
	start, end := p.Window()
	assert.Equal(t, 12, start)
	assert.Equal(t, 12, end)

	p.SetPage(1)
	start, end = p.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}
