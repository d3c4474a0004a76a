package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/travian22/aksa-2/internal/audit"
	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
)

const (
	exportFormatCSV  = "csv"
	exportFormatXLSX = "xlsx"

	exportTimeLayout = "2006-01-02 15:04:05"
	exportSheet      = "Employees"
)

var exportHeader = []string{"Name", "Phone", "Position", "Division", "Created At"}

// ────────────────────── Export ──────────────────────

// Export 按列表筛选条件导出全部员工（不分页）
// 返回的 ExportFile.Write 由调用方直接写入响应流
func (s *employeeService) Export(ctx context.Context, req *dto.EmployeeExportRequest) (*dto.ExportFile, error) {
	filters := &repository.EmployeeListFilters{Name: req.Name, DivisionID: req.DivisionID}

	employees, err := s.repo.Employee.ListAll(ctx, filters)
	if err != nil {
		s.logger.Error("查询导出员工失败", zap.Error(err))
		return nil, err
	}

	rows := make([][]string, 0, len(employees))
	for i := range employees {
		rows = append(rows, exportRow(&employees[i]))
	}

	format := req.Format
	if format == "" {
		format = exportFormatCSV
	}

	file := &dto.ExportFile{
		Filename: fmt.Sprintf("employees_%s.%s", time.Now().Format("2006-01-02_150405"), format),
	}
	switch format {
	case exportFormatXLSX:
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		file.Write = func(w io.Writer) error { return writeXLSX(w, rows) }
	default:
		file.ContentType = "text/csv; charset=utf-8"
		file.Write = func(w io.Writer) error { return writeCSV(w, rows) }
	}

	s.recorder.Record(ctx, s.repo, audit.Entry{
		Action:      model.ActionExported,
		ModelType:   model.ModelTypeEmployee,
		Description: fmt.Sprintf("Exported %d employees", len(rows)),
		New: map[string]any{
			"format":      format,
			"count":       len(rows),
			"name":        req.Name,
			"division_id": req.DivisionID,
		},
	})

	return file, nil
}

func exportRow(e *model.Employee) []string {
	division := ""
	if e.Division != nil {
		division = e.Division.Name
	}
	return []string{e.Name, e.Phone, e.Position, division, e.CreatedAt.Format(exportTimeLayout)}
}

// writeCSV 逐行写出 CSV
func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX 用 StreamWriter 逐行生成工作表后写出
func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}

	setRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return sw.SetRow(cell, cells)
	}

	if err := setRow(1, exportHeader); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(i+2, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("写入 xlsx 失败: %w", err)
	}
	return nil
}
