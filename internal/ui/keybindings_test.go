package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}))
	assert.False(t, isQuit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyRight}))
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyLeft}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsDown(t *testing.T) {
	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyDown}))
	assert.True(t, isDown(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}))
	assert.False(t, isDown(tea.KeyMsg{Type: tea.KeyUp}))
}

func TestIsUp(t *testing.T) {
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyUp}))
	assert.True(t, isUp(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}))
	assert.False(t, isUp(tea.KeyMsg{Type: tea.KeyDown}))
}

func TestIsReload(t *testing.T) {
	assert.True(t, isReload(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}))
	assert.True(t, isReload(tea.KeyMsg{Type: tea.KeyCtrlR}))
	assert.False(t, isReload(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}}))
}

func TestIsKey(t *testing.T) {
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "s"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyBackspace}, "backspace"))
	assert.True(t, isKey(tea.KeyMsg{Type: tea.KeyRight}, "left", "right"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, "a"))
	assert.False(t, isKey(tea.KeyMsg{Type: tea.KeyLeft}, "right"))
}
