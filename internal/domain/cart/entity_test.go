package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem(1, 10, 2, "블랙")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "블랙", item.Option)

	_, err = NewItem(1, 10, 0, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCart_FindLine(t *testing.T) {
	c := &Cart{Items: []Item{
		{ID: 1, ProductID: 10, Option: "블랙", Quantity: 1},
		{ID: 2, ProductID: 10, Option: "화이트", Quantity: 3},
		{ID: 3, ProductID: 11, Quantity: 1},
	}}

	line := c.FindLine(10, "화이트")
	require.NotNil(t, line)
	assert.Equal(t, uint(2), line.ID)

	assert.Nil(t, c.FindLine(10, "레드"))
	assert.NotNil(t, c.FindLine(11, ""))
	assert.Equal(t, []uint{1, 2, 3}, c.ItemIDs())
}

func TestCart_IsEmpty(t *testing.T) {
	var nilCart *Cart
	assert.True(t, nilCart.IsEmpty())
	assert.True(t, (&Cart{}).IsEmpty())
	assert.False(t, (&Cart{Items: []Item{{ID: 1}}}).IsEmpty())
}
