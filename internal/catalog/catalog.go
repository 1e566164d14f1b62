// Package catalog reads tag and ingredient catalogs from spreadsheets.
//
// A workbook has an "ingredients" sheet with name and measurement unit
// columns and an optional "tags" sheet with name and slug columns. The first
// row of each sheet is a header.
package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	IngredientsSheet = "ingredients"
	TagsSheet        = "tags"
)

// Catalog is the parsed workbook content.
type Catalog struct {
	Ingredients []model.Ingredient
	Tags        []model.Tag
	Skipped     int // rows with missing cells or repeats
}

// Read parses a workbook. Rows repeating an earlier (name, unit) pair or tag
// slug are skipped.
func Read(r io.Reader) (*Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]string)
	for _, name := range f.GetSheetList() {
		sheets[strings.ToLower(strings.TrimSpace(name))] = name
	}

	ingredientSheet, ok := sheets[IngredientsSheet]
	if !ok {
		return nil, fmt.Errorf("workbook has no %q sheet", IngredientsSheet)
	}

	c := &Catalog{}
	rows, err := f.GetRows(ingredientSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ingredientSheet, err)
	}
	seen := make(map[[2]string]bool)
	for _, row := range skipHeader(rows) {
		name, unit := cell(row, 0), cell(row, 1)
		key := [2]string{strings.ToLower(name), strings.ToLower(unit)}
		if name == "" || unit == "" || seen[key] {
			c.Skipped++
			continue
		}
		seen[key] = true
		c.Ingredients = append(c.Ingredients, model.Ingredient{Name: name, MeasurementUnit: unit})
	}

	if tagSheet, ok := sheets[TagsSheet]; ok {
		rows, err := f.GetRows(tagSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", tagSheet, err)
		}
		slugs := make(map[string]bool)
		for _, row := range skipHeader(rows) {
			name, slug := cell(row, 0), cell(row, 1)
			if name == "" || slug == "" || slugs[slug] {
				c.Skipped++
				continue
			}
			slugs[slug] = true
			c.Tags = append(c.Tags, model.Tag{Name: name, Slug: slug})
		}
	}
	return c, nil
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	return rows[1:]
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
