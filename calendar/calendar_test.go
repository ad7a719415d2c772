package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidColor(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  bool
	}{
		{"well-formed", "#AABBCC", true},
		{"lowercase", "#aabbcc", true},
		{"no hash", "AABBCC", false},
		{"short form", "#ABC", false},
		{"css name", "red", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidColor(tt.color))
		})
	}
}

func TestCalendarEqual(t *testing.T) {
	a := Calendar{ID: "1", DisplayName: "Work", Color: "#AABBCC"}
	b := a
	assert.True(t, a.Equal(b))

	b.Description = "changed"
	assert.False(t, a.Equal(b))
}

func TestCalendarKey(t *testing.T) {
	a := Calendar{ID: "abc", DisplayName: "x"}
	b := Calendar{ID: "abc", DisplayName: "y"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestNewHasRandomID(t *testing.T) {
	a := New()
	b := New()
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
