package shoppinglist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAggregate_SumsAndKeepsFirstSeenOrder(t *testing.T) {
	// recipe A: flour 2 g, egg 1 pcs; recipe B: flour 3 g
	lines := []Line{
		{Name: "flour", Unit: "g", Amount: 2},
		{Name: "egg", Unit: "pcs", Amount: 1},
		{Name: "flour", Unit: "g", Amount: 3},
	}

	items := Aggregate(lines)

	require.Len(t, items, 2)
	assert.Equal(t, Item{Name: "flour", Unit: "g", Amount: 5}, items[0])
	assert.Equal(t, Item{Name: "egg", Unit: "pcs", Amount: 1}, items[1])
}

func TestAggregate_MixedUnitsStaySeparate(t *testing.T) {
	items := Aggregate([]Line{
		{Name: "молоко", Unit: "мл", Amount: 200},
		{Name: "молоко", Unit: "стакан", Amount: 1},
		{Name: "молоко", Unit: "мл", Amount: 300},
	})

	require.Len(t, items, 2)
	assert.Equal(t, 500, items[0].Amount)
	assert.Equal(t, "стакан", items[1].Unit)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

func TestRenderText(t *testing.T) {
	text := RenderText([]Item{
		{Name: "flour", Unit: "g", Amount: 5},
		{Name: "egg", Unit: "pcs", Amount: 1},
	})

	assert.Equal(t, "Список покупок:\nflour — 5 g\negg — 1 pcs\n", text)
}

func TestRenderText_EmptyCartIsHeaderOnly(t *testing.T) {
	assert.Equal(t, "Список покупок:\n", RenderText(Aggregate(nil)))
}

func TestRenderXLSX(t *testing.T) {
	data, err := RenderXLSX([]Item{
		{Name: "flour", Unit: "g", Amount: 5},
		{Name: "egg", Unit: "pcs", Amount: 1},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"flour", "5", "g"}, rows[1])
	assert.Equal(t, []string{"egg", "1", "pcs"}, rows[2])
}
