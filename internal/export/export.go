package export

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tailer-cli/internal/config"
	"github.com/sells-group/tailer-cli/internal/detect"
	"github.com/sells-group/tailer-cli/internal/model"
	"github.com/sells-group/tailer-cli/internal/simulate"
)

// Result file names.
const (
	FlaggedFile  = "flagged_tailers.csv"
	SharpsFile   = "sharp_summary.csv"
	ScoresFile   = "user_scores.csv"
	WorkbookFile = "tailers.xlsx"
	ResultFile   = "tailers.json"
)

// Dataset file names.
const (
	PicksFile  = "picks.csv"
	BetsFile   = "bets.csv"
	GroupsFile = "groups.csv"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "json: encode")
	}
	return nil
}

// WriteResult writes res into dir in the given format and returns the paths
// written.
func WriteResult(dir, format string, res *detect.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	var files []fileWriter
	switch format {
	case config.FormatCSV:
		files = []fileWriter{
			{FlaggedFile, func(w io.Writer) error { return WriteUsersCSV(w, res.Flagged) }},
			{SharpsFile, func(w io.Writer) error { return WriteSharpsCSV(w, res.Sharps) }},
			{ScoresFile, func(w io.Writer) error { return WriteUsersCSV(w, res.Scores) }},
		}
	case config.FormatXLSX:
		files = []fileWriter{{WorkbookFile, func(w io.Writer) error { return WriteWorkbook(w, res) }}}
	case config.FormatJSON:
		files = []fileWriter{{ResultFile, func(w io.Writer) error { return WriteJSON(w, res) }}}
	default:
		return nil, eris.Errorf("export: unsupported format %q", format)
	}

	return writeFiles(dir, files)
}

// WriteDataset writes the pick stream, bet stream and ground-truth groups
// into dir as CSV.
func WriteDataset(dir string, ds *simulate.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	return writeFiles(dir, []fileWriter{
		{PicksFile, func(w io.Writer) error { return WritePicksCSV(w, ds.Picks) }},
		{BetsFile, func(w io.Writer) error { return WriteBetsCSV(w, ds.Bets) }},
		{GroupsFile, func(w io.Writer) error { return WriteGroupsCSV(w, ds.Population) }},
	})
}

// ReadDataset loads picks and bets from CSV files.
func ReadDataset(ctx context.Context, picksPath, betsPath string) ([]model.Pick, []model.Bet, error) {
	pf, err := os.Open(picksPath)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "export: open %s", picksPath)
	}
	defer pf.Close() //nolint:errcheck

	picks, err := ReadPicksCSV(ctx, pf)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "export: %s", picksPath)
	}

	bf, err := os.Open(betsPath)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "export: open %s", betsPath)
	}
	defer bf.Close() //nolint:errcheck

	bets, err := ReadBetsCSV(ctx, bf)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "export: %s", betsPath)
	}

	zap.L().Info("export: dataset loaded",
		zap.String("picks_path", picksPath),
		zap.String("bets_path", betsPath),
		zap.Int("picks", len(picks)),
		zap.Int("bets", len(bets)),
	)
	return picks, bets, nil
}

type fileWriter struct {
	name  string
	write func(w io.Writer) error
}

func writeFiles(dir string, files []fileWriter) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeFile(path, f.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := write(out); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "export: write %s", path)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	zap.L().Debug("export: wrote file", zap.String("path", path))
	return nil
}
