// Package export writes detection results and simulated datasets to CSV,
// XLSX and JSON, and reads pick and bet streams back from CSV.
package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tailer-cli/internal/model"
)

// TimeLayout is the timestamp format used in every CSV file.
const TimeLayout = time.RFC3339Nano

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Comment   rune // comment character (0 = none)
	TrimSpace bool
}

// StreamCSV reads CSV records and sends them to a channel, header included.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.FieldsPerRecord = -1 // allow variable fields

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// No comment rune: a leading '#' is valid data in an id column.
var readOpts = CSVOptions{TrimSpace: true}

// columns maps header names to their position.
type columns map[string]int

func newColumns(header []string, required ...string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		}
		cols[strings.ToLower(h)] = i
	}
	var missing []string
	for _, r := range required {
		if _, ok := cols[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("csv: missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// get returns the named field, or "" when the column is absent or the row
// is short.
func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// readRows drains StreamCSV, treating the first record as the header. The
// handler receives the 1-based index of each data record, header excluded.
// A record may span several physical lines when a field is quoted.
func readRows(ctx context.Context, r io.Reader, required []string, handle func(record int, cols columns, row []string) error) error {
	rowCh, errCh := StreamCSV(ctx, r, readOpts)

	var cols columns
	record := 0
	var handleErr error
	for row := range rowCh {
		if handleErr != nil {
			continue // drain so the reader goroutine can exit
		}
		if cols == nil {
			c, err := newColumns(row, required...)
			if err != nil {
				handleErr = err
				continue
			}
			cols = c
			continue
		}
		record++
		if err := handle(record, cols, row); err != nil {
			handleErr = err
		}
	}
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return handleErr
}

func parseTime(record int, field, v string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, v)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "csv: record %d: parse %s", record, field)
	}
	return t, nil
}

// ReadPicksCSV reads picks with columns prop_id, sharp_id, post_time.
func ReadPicksCSV(ctx context.Context, r io.Reader) ([]model.Pick, error) {
	picks := []model.Pick{}
	err := readRows(ctx, r, []string{"prop_id", "sharp_id", "post_time"}, func(record int, cols columns, row []string) error {
		ts, err := parseTime(record, "post_time", cols.get(row, "post_time"))
		if err != nil {
			return err
		}
		picks = append(picks, model.Pick{
			PropID:   cols.get(row, "prop_id"),
			SharpID:  cols.get(row, "sharp_id"),
			PostTime: ts,
		})
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "export: read picks")
	}
	return picks, nil
}

// ReadBetsCSV reads bets with columns bet_id, timestamp, user_id, prop_id and
// an optional sharp_followed.
func ReadBetsCSV(ctx context.Context, r io.Reader) ([]model.Bet, error) {
	bets := []model.Bet{}
	err := readRows(ctx, r, []string{"bet_id", "timestamp", "user_id", "prop_id"}, func(record int, cols columns, row []string) error {
		ts, err := parseTime(record, "timestamp", cols.get(row, "timestamp"))
		if err != nil {
			return err
		}
		bets = append(bets, model.Bet{
			BetID:         cols.get(row, "bet_id"),
			Timestamp:     ts,
			UserID:        cols.get(row, "user_id"),
			PropID:        cols.get(row, "prop_id"),
			SharpFollowed: cols.get(row, "sharp_followed"),
		})
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "export: read bets")
	}
	return bets, nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "csv: flush")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteUsersCSV writes per-user scores (flagged or not).
func WriteUsersCSV(w io.Writer, users []model.FlaggedUser) error {
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.UserID, strconv.Itoa(u.TailCount), strconv.Itoa(u.TotalSharedBets), formatFloat(u.TailScore)}
	}
	return writeCSV(w, []string{"user_id", "tail_count", "total_shared_bets", "tail_score"}, rows)
}

// WriteSharpsCSV writes the per-sharp summary.
func WriteSharpsCSV(w io.Writer, sharps []model.SharpSummary) error {
	rows := make([][]string, len(sharps))
	for i, s := range sharps {
		rows[i] = []string{s.SharpID, strconv.Itoa(s.TailersDetected), strconv.Itoa(s.TotalTailBets)}
	}
	return writeCSV(w, []string{"sharp_id", "tailers_detected", "total_tail_bets"}, rows)
}

// WritePicksCSV writes the pick stream in the layout ReadPicksCSV accepts.
func WritePicksCSV(w io.Writer, picks []model.Pick) error {
	rows := make([][]string, len(picks))
	for i, p := range picks {
		rows[i] = []string{p.PropID, p.SharpID, p.PostTime.Format(TimeLayout)}
	}
	return writeCSV(w, []string{"prop_id", "sharp_id", "post_time"}, rows)
}

// WriteBetsCSV writes the bet stream in the layout ReadBetsCSV accepts.
func WriteBetsCSV(w io.Writer, bets []model.Bet) error {
	rows := make([][]string, len(bets))
	for i, b := range bets {
		rows[i] = []string{b.BetID, b.Timestamp.Format(TimeLayout), b.UserID, b.PropID, b.SharpFollowed}
	}
	return writeCSV(w, []string{"bet_id", "timestamp", "user_id", "prop_id", "sharp_followed"}, rows)
}

// WriteGroupsCSV writes the ground-truth partition, one row per tailer.
func WriteGroupsCSV(w io.Writer, pop *model.Population) error {
	var rows [][]string
	for _, g := range pop.Groups {
		for _, m := range g.Members {
			rows = append(rows, []string{strconv.Itoa(g.Index), g.SharpID, m})
		}
	}
	return writeCSV(w, []string{"group", "sharp_id", "user_id"}, rows)
}
