package calculator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/myrjola/liftcalc/internal/errors"
)

const historySheet = "History"

// ExportHistoryXLSX writes the history as a spreadsheet with one row per calculation, newest first, and one column
// per set.
func (s *Service) ExportHistoryXLSX(ctx context.Context, w io.Writer) (err error) {
	entries, err := s.History(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err = f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	maxSets := 0
	for _, e := range entries {
		maxSets = max(maxSets, len(e.Results))
	}
	header := []any{"Date", "Mode", "Base weight (lbs)", "Sets", "Reps", "Scheme"}
	for i := range maxSets {
		header = append(header, fmt.Sprintf("Set %d", i+1))
	}
	if err = f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err = f.SetCellStyle(historySheet, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range entries {
		row := []any{e.CreatedAt.Local().Format("2006-01-02 15:04"), modeLabel(e.Mode), e.BaseWeight, e.Sets, e.Reps,
			e.SchemeID}
		for _, r := range e.Results {
			row = append(row, r)
		}
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2) //nolint:mnd // row 1 is the header.
		if cellErr != nil {
			return fmt.Errorf("row cell: %w", cellErr)
		}
		if err = f.SetSheetRow(historySheet, cell, &row); err != nil {
			return errors.Wrap(err, "write history row", slog.String("id", e.ID.String()))
		}
	}
	if err = f.SetColWidth(historySheet, "A", "A", 18); err != nil { //nolint:mnd // fits a timestamp.
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err = f.WriteTo(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "exported history", slog.Int("entries", len(entries)))
	return nil
}

func modeLabel(m Mode) string {
	if m == ModeUniform {
		return "Uniform"
	}
	return "1RM"
}
