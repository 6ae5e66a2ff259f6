package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKey_Comparable(t *testing.T) {
	assert.Equal(t, NewPageKey("rick", 2), PageKey{Term: "rick", Page: 2})
	assert.NotEqual(t, NewPageKey("rick", 2), NewPageKey("rick", 3))
	assert.NotEqual(t, NewPageKey("rick", 1), NewPageKey("", 1))

	seen := map[PageKey]bool{NewPageKey("", 1): true}
	assert.True(t, seen[PageKey{Page: 1}])
}

func TestPageKey_NextAndString(t *testing.T) {
	k := NewPageKey("morty", 4)
	assert.Equal(t, NewPageKey("morty", 5), k.Next())
	assert.Equal(t, "morty_4", k.String())
	assert.Equal(t, "_1", NewPageKey("", 1).String())
}

func TestPage_HasNext(t *testing.T) {
	p := &Page{TotalPages: 3}
	assert.True(t, p.HasNext(1))
	assert.True(t, p.HasNext(2))
	assert.False(t, p.HasNext(3))

	var nilPage *Page
	assert.False(t, nilPage.HasNext(1))
	assert.Zero(t, nilPage.Len())
}

func TestCharacter_DisplayType(t *testing.T) {
	assert.Equal(t, "unknown type", Character{}.DisplayType())
	assert.Equal(t, "Parasite", Character{Type: "Parasite"}.DisplayType())
}

func TestPage_Clone(t *testing.T) {
	p := &Page{Results: []Character{{ID: 1, Name: "Rick"}}, TotalPages: 2}
	c := p.Clone()
	c.Results[0].Name = "Morty"
	c.TotalPages = 5

	assert.Equal(t, "Rick", p.Results[0].Name)
	assert.Equal(t, 2, p.TotalPages)

	var nilPage *Page
	assert.Nil(t, nilPage.Clone())
}
