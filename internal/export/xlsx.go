package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/tailer-cli/internal/detect"
)

// Workbook sheet names.
const (
	SheetFlagged = "flagged"
	SheetSharps  = "sharps"
	SheetScores  = "scores"
)

// WriteWorkbook writes the detection result as an XLSX workbook with one
// sheet each for flagged users, the sharp summary and all user scores.
func WriteWorkbook(w io.Writer, res *detect.Result) error {
	f := xlsx.NewFile()

	if err := addUserSheet(f, SheetFlagged, res); err != nil {
		return err
	}

	sharps, err := f.AddSheet(SheetSharps)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", SheetSharps)
	}
	addHeader(sharps, "sharp_id", "tailers_detected", "total_tail_bets")
	for _, s := range res.Sharps {
		row := sharps.AddRow()
		row.AddCell().SetString(s.SharpID)
		row.AddCell().SetInt(s.TailersDetected)
		row.AddCell().SetInt(s.TotalTailBets)
	}

	if err := addUserSheet(f, SheetScores, res); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func addUserSheet(f *xlsx.File, name string, res *detect.Result) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "xlsx: add sheet %s", name)
	}

	users := res.Flagged
	if name == SheetScores {
		users = res.Scores
	}

	addHeader(sheet, "user_id", "tail_count", "total_shared_bets", "tail_score")
	for _, u := range users {
		row := sheet.AddRow()
		row.AddCell().SetString(u.UserID)
		row.AddCell().SetInt(u.TailCount)
		row.AddCell().SetInt(u.TotalSharedBets)
		row.AddCell().SetFloat(u.TailScore)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().SetString(n)
	}
}
