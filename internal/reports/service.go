package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

// Store is the read surface exports pull from.
type Store interface {
	Find(ctx context.Context, f place.Filter, limit, offset int) ([]place.Place, error)
}

type Service struct {
	Store Store
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

var exportColumns = []string{"ID", "Name", "Slug", "Deity", "Architecture", "City", "State", "Region", "Status", "Active", "Created At"}

func exportRow(p *place.Place) []interface{} {
	return []interface{}{
		p.ID, p.Name, p.Slug, p.Deity, p.Architecture,
		p.City, p.State, p.Region, p.ApprovalStatus, p.IsActive,
		p.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// ExportXLSX renders the filtered directory as a spreadsheet.
func (s *Service) ExportXLSX(ctx context.Context, f place.Filter) ([]byte, error) {
	places, err := s.Store.Find(ctx, f, 0, 0)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Places"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	for col, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, name)
	}
	for row, p := range places {
		for col, val := range exportRow(&p) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, val)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportPDF renders the filtered directory as a tabular PDF.
func (s *Service) ExportPDF(ctx context.Context, f place.Filter) ([]byte, error) {
	places, err := s.Store.Find(ctx, f, 0, 0)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Temple Directory Export")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d records", time.Now().Format("2006-01-02 15:04"), len(places)))
	pdf.Ln(10)

	widths := []float64{12, 55, 35, 30, 30, 30, 20, 22, 15, 28}
	headers := []string{"ID", "Name", "Deity", "Architecture", "City", "State", "Region", "Status", "Active", "Created"}

	pdf.SetFont("Arial", "B", 9)
	for i, hdr := range headers {
		pdf.CellFormat(widths[i], 7, hdr, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, p := range places {
		cells := []string{
			fmt.Sprintf("%d", p.ID), p.Name, p.Deity, p.Architecture,
			p.City, p.State, p.Region, p.ApprovalStatus,
			fmt.Sprintf("%t", p.IsActive), p.CreatedAt.Format("2006-01-02"),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
