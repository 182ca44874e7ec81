package services

import (
	"fmt"
	"sort"

	"github.com/alimgiray/ghmirror/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// exportRowLimit caps how many rows one export contains
const exportRowLimit = 10000

// ExportService renders a mirrored collection as an XLSX workbook
type ExportService struct {
	collectionRepo *repositories.CollectionRepository
}

func NewExportService(collectionRepo *repositories.CollectionRepository) *ExportService {
	return &ExportService{collectionRepo: collectionRepo}
}

// ExportCollection builds a workbook with one sheet holding the collection's
// rows, columns in alphabetical order with a header row.
func (s *ExportService) ExportCollection(collection string) (*excelize.File, error) {
	page, err := s.collectionRepo.ListData(collection, 1, exportRowLimit, "")
	if err != nil {
		return nil, err
	}

	schema, err := s.collectionRepo.GetSchema(collection)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(schema))
	for name := range schema {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, column := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, column); err != nil {
			return nil, err
		}
	}

	for rowIdx, record := range page.Data {
		for colIdx, column := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, record[column]); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
	}

	return f, nil
}
