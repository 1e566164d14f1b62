// Package shoppinglist folds the ingredient lines of the recipes in a
// shopping cart into one list with amounts summed per ingredient.
package shoppinglist

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	Header    = "Список покупок:"
	sheetName = "Shopping list"
)

// Line is one ingredient amount taken from one recipe in the cart.
type Line struct {
	Name   string
	Unit   string
	Amount int
}

// Item is an aggregated shopping-list entry.
type Item struct {
	Name   string
	Unit   string
	Amount int
}

type key struct {
	name string
	unit string
}

// Aggregate sums amounts per (name, unit). Output keeps the order in which
// each pair was first seen, so the same ingredient in two units stays on two
// separate lines.
func Aggregate(lines []Line) []Item {
	index := make(map[key]int, len(lines))
	items := make([]Item, 0, len(lines))

	for _, line := range lines {
		k := key{name: line.Name, unit: line.Unit}
		if i, ok := index[k]; ok {
			items[i].Amount += line.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, Item{Name: line.Name, Unit: line.Unit, Amount: line.Amount})
	}
	return items
}

// RenderText produces the plain-text export: a header line followed by one
// "<name> — <amount> <unit>" line per item.
func RenderText(items []Item) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "%s — %d %s\n", item.Name, item.Amount, item.Unit)
	}
	return b.String()
}

// RenderXLSX produces the same list as a single-sheet workbook.
func RenderXLSX(items []Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"Ингредиент", "Количество", "Единица измерения"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{item.Name, item.Amount, item.Unit}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 32); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
