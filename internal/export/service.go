package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/constants"
	"github.com/KyllHutchens-OA/GWorkspaceAnalyzer/internal/engine"
)

// Service renders a finding report as an XLSX workbook for download.
type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// WriteReportXLSX returns an XLSX workbook (as bytes) with one sheet of
// findings and one summary sheet of totals and the per-kind breakdown.
func (s *Service) WriteReportXLSX(report *engine.Report) ([]byte, error) {
	f := excelize.NewFile()

	const sheet = "Findings"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Kind",
		"Vendor",
		"Title",
		"Confidence",
		"Guaranteed Amount",
		"Potential Amount",
		"Currency",
		"Invoices",
		"Description",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, finding := range report.Findings {
		values := []interface{}{
			string(finding.Kind),
			finding.VendorName,
			finding.Title,
			finding.Confidence,
			finding.GuaranteedAmount.String(),
			finding.PotentialAmount.String(),
			finding.Currency,
			strings.Join(finding.MemberInvoiceIDs, ", "),
			finding.Description,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	if err := s.writeSummarySheet(f, report); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("report exported", zap.Int("findings", len(report.Findings)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (s *Service) writeSummarySheet(f *excelize.File, report *engine.Report) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	set := func(col, row int, v interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	set(1, 1, "Total Guaranteed Waste")
	set(2, 1, report.TotalGuaranteed.String())
	set(1, 2, "Total Potential Waste")
	set(2, 2, report.TotalPotential.String())
	set(1, 3, "Invoices Analyzed")
	set(2, 3, report.InvoiceCount)
	set(1, 4, "Vendors")
	set(2, 4, report.VendorCount)

	set(1, 6, "Kind")
	set(2, 6, "Count")
	set(3, 6, "Pending")
	set(4, 6, "Total Amount")
	row := 7
	for _, kind := range constants.AllFindingKinds() {
		kb := report.Breakdown[kind]
		set(1, row, string(kind))
		set(2, row, kb.Count)
		set(3, row, kb.PendingCount)
		set(4, row, kb.TotalAmount.String())
		row++
	}
	return nil
}
