package nav

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func page() []Section {
	return []Section{
		{ID: "home", Top: 0, Height: 800},
		{ID: "about", Top: 800, Height: 600},
		{ID: "projects", Top: 1400, Height: 1000},
		{ID: "contact", Top: 2400, Height: 500},
	}
}

func TestActive(t *testing.T) {
	cases := []struct {
		offset int
		want   string
	}{
		{0, "home"},
		{599, "home"},
		{600, "about"},
		{1199, "about"},
		{1200, "projects"},
		{2200, "contact"},
		{2699, "contact"},
		{5000, "home"},
		{-500, "home"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Active(tc.offset, page()), "offset %d", tc.offset)
	}
}

func TestActive_FirstMatchWins(t *testing.T) {
	overlapping := []Section{
		{ID: "a", Top: 0, Height: 1000},
		{ID: "b", Top: 100, Height: 1000},
	}
	assert.Equal(t, "a", Active(300, overlapping))
}

func TestActive_NoSections(t *testing.T) {
	assert.Equal(t, "home", Active(10, nil))
}

func TestHighlighter_LatestOffsetWins(t *testing.T) {
	h := NewHighlighter(10)
	now := time.Unix(1_700_000_000, 0)

	assert.Equal(t, "home", h.UpdateAt(now, 0, page()))
	assert.Equal(t, "contact", h.UpdateAt(now.Add(20*time.Millisecond), 2300, page()))
	assert.Equal(t, "contact", h.Last())
}

func TestHighlighter_LimitsPolls(t *testing.T) {
	h := NewHighlighter(1)
	now := time.Unix(1_700_000_000, 0)

	assert.True(t, h.AllowAt(now))
	assert.False(t, h.AllowAt(now.Add(100*time.Millisecond)))
	assert.True(t, h.AllowAt(now.Add(1100*time.Millisecond)))
}

func TestHighlighter_Unthrottled(t *testing.T) {
	h := NewHighlighter(0)
	now := time.Now()
	for i := 0; i < 100; i++ {
		assert.True(t, h.AllowAt(now))
	}
	assert.Equal(t, "about", h.UpdateAt(now, 700, page()))
	assert.Equal(t, "contact", h.UpdateAt(now, 2300, page()))
}

func TestLayout(t *testing.T) {
	s := Layout(Sections, 900)
	assert.Len(t, s, 4)
	assert.Equal(t, Section{ID: "projects", Top: 1800, Height: 900}, s[2])
	assert.Equal(t, "projects", Active(1700, s))
}
