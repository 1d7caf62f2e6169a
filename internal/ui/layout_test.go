package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 22, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 1).ContentHeight())
}

func TestRenderHeader_FillsWidth(t *testing.T) {
	l := NewLayout(60, 20)
	h := l.RenderHeader("Airdrops", "2024-05-01  1/3 done")
	assert.Equal(t, 60, lipgloss.Width(h))
	assert.Contains(t, h, "Airdrops")
	assert.Contains(t, h, "1/3 done")
}

func TestRenderStatusBar_WithStatus(t *testing.T) {
	l := NewLayout(70, 20)
	bar := l.RenderStatusBar("Airdrop added", "q quit")
	assert.Contains(t, bar, "Airdrop added")
	assert.Contains(t, bar, "q quit")
	assert.Equal(t, 70, lipgloss.Width(bar))
}
