package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/okrogh/thglab/internal/sweep"
)

// SweepRow is one mismatch point of a sweep, flattened for tabular output.
type SweepRow struct {
	DeltaBeta       float64 `json:"delta_beta"`
	DeltaBetaL      float64 `json:"delta_beta_l"`
	PeakConversion  float64 `json:"peak_conversion"`
	FinalConversion float64 `json:"final_conversion"`
	MinFundamental  float64 `json:"min_fundamental"`
	InvariantDrift  float64 `json:"invariant_drift"`
	Steps           int     `json:"steps"`
	Failed          bool    `json:"failed,omitempty"`
}

// RowFromRun flattens one completed run. Failed runs keep their mismatch
// value so the table stays aligned with the requested sweep.
func RowFromRun(r sweep.Run, length float64) SweepRow {
	row := SweepRow{
		DeltaBeta:  r.DeltaBeta,
		DeltaBetaL: r.DeltaBeta * length,
	}
	if r.Err != nil || r.Result == nil {
		row.Failed = true
		return row
	}

	row.PeakConversion = r.Result.Metrics["peak_conversion"]
	row.MinFundamental = r.Result.Metrics["min_fundamental"]
	row.InvariantDrift = r.Result.InvariantDrift
	row.Steps = r.Result.StepsTaken

	if n := len(r.Result.States); n > 0 {
		i0 := r.Result.States[0].Intensity(0)
		if i0 > 0 {
			row.FinalConversion = r.Result.States[n-1].Intensity(1) / i0
		}
	}
	return row
}

// SaveXLSX writes a sweep summary workbook: a Summary sheet with the
// sweep extent and a Runs sheet with one row per mismatch value.
func SaveXLSX(filename string, rows []SweepRow) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	f.SetCellValue(summary, "A1", "Points")
	f.SetCellValue(summary, "B1", len(rows))

	failed := 0
	var bestRow SweepRow
	for _, r := range rows {
		if r.Failed {
			failed++
			continue
		}
		if r.PeakConversion > bestRow.PeakConversion {
			bestRow = r
		}
	}

	f.SetCellValue(summary, "A2", "Failed")
	f.SetCellValue(summary, "B2", failed)
	f.SetCellValue(summary, "A3", "Best delta_beta")
	f.SetCellValue(summary, "B3", bestRow.DeltaBeta)
	f.SetCellValue(summary, "A4", "Best peak conversion")
	f.SetCellValue(summary, "B4", bestRow.PeakConversion)

	runs := "Runs"
	f.NewSheet(runs)

	headers := []string{
		"delta_beta", "delta_beta*L", "peak_conversion",
		"final_conversion", "min_fundamental", "invariant_drift", "steps",
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(runs, cell, h)
	}

	for i, r := range rows {
		rowIdx := i + 2
		values := []interface{}{
			r.DeltaBeta, r.DeltaBetaL, r.PeakConversion,
			r.FinalConversion, r.MinFundamental, r.InvariantDrift, r.Steps,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			f.SetCellValue(runs, cell, v)
		}
	}

	return f.SaveAs(filename)
}
