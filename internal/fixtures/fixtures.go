// Package fixtures reads reference data files (ingredients and tags) for bulk loading.
//
// JSON files hold an array of objects. CSV files hold one record per line without a
// header: "name,measurement_unit" for ingredients and "name,slug" for tags.
package fixtures

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadIngredientsFile picks the decoder from the file extension.
func ReadIngredientsFile(path string) ([]models.Ingredient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIngredients(f, filepath.Ext(path))
}

func ReadIngredients(r io.Reader, ext string) ([]models.Ingredient, error) {
	var items []models.Ingredient
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("decoding ingredients: %w", err)
		}
	case ".csv":
		records, err := readCSV(r)
		if err != nil {
			return nil, fmt.Errorf("reading ingredients: %w", err)
		}
		for _, rec := range records {
			items = append(items, models.Ingredient{Name: rec[0], MeasurementUnit: rec[1]})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	for i := range items {
		items[i].ID = 0
		items[i].Name = strings.TrimSpace(items[i].Name)
		items[i].MeasurementUnit = strings.TrimSpace(items[i].MeasurementUnit)
		if items[i].Name == "" || items[i].MeasurementUnit == "" {
			return nil, fmt.Errorf("ingredient %d: name and measurement unit are required", i+1)
		}
	}
	return items, nil
}

func ReadTagsFile(path string) ([]models.Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTags(f, filepath.Ext(path))
}

func ReadTags(r io.Reader, ext string) ([]models.Tag, error) {
	var tags []models.Tag
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&tags); err != nil {
			return nil, fmt.Errorf("decoding tags: %w", err)
		}
	case ".csv":
		records, err := readCSV(r)
		if err != nil {
			return nil, fmt.Errorf("reading tags: %w", err)
		}
		for _, rec := range records {
			tags = append(tags, models.Tag{Name: rec[0], Slug: rec[1]})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	for i := range tags {
		tags[i].ID = 0
		tags[i].Name = strings.TrimSpace(tags[i].Name)
		tags[i].Slug = strings.TrimSpace(tags[i].Slug)
		if tags[i].Name == "" || tags[i].Slug == "" {
			return nil, fmt.Errorf("tag %d: name and slug are required", i+1)
		}
	}
	return tags, nil
}

// readCSV returns two-column records.
func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}
