package main

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/tailer-cli/internal/detect"
	"github.com/sells-group/tailer-cli/internal/model"
)

var printer = message.NewPrinter(language.English)

// printReport writes the flagged-tailer and sharp tables followed by the
// pass summary. top <= 0 prints every row.
func printReport(w io.Writer, res *detect.Result, top int) error {
	if err := writeFlaggedTable(w, limitRows(res.Flagged, top)); err != nil {
		return err
	}
	if err := writeSharpTable(w, limitRows(res.Sharps, top)); err != nil {
		return err
	}
	return writeSummary(w, res)
}

func limitRows[T any](rows []T, top int) []T {
	if top > 0 && len(rows) > top {
		return rows[:top]
	}
	return rows
}

func writeFlaggedTable(w io.Writer, users []model.FlaggedUser) error {
	if _, err := printer.Fprintf(w, "\nFlagged Tailers\n%-12s %10s %12s %10s\n", "User", "Tail Bets", "Shared Props", "Score"); err != nil {
		return eris.Wrap(err, "report: write flagged header")
	}
	if _, err := printer.Fprintln(w, strings.Repeat("-", 47)); err != nil {
		return eris.Wrap(err, "report: write flagged separator")
	}
	if len(users) == 0 {
		_, err := printer.Fprintln(w, "(none)")
		return eris.Wrap(err, "report: write flagged row")
	}
	for _, u := range users {
		if _, err := printer.Fprintf(w, "%-12s %10d %12d %10.4f\n", u.UserID, u.TailCount, u.TotalSharedBets, u.TailScore); err != nil {
			return eris.Wrap(err, "report: write flagged row")
		}
	}
	return nil
}

func writeSharpTable(w io.Writer, sharps []model.SharpSummary) error {
	if _, err := printer.Fprintf(w, "\nMost Tailed Sharps\n%-12s %10s %10s\n", "Sharp", "Tailers", "Tail Bets"); err != nil {
		return eris.Wrap(err, "report: write sharp header")
	}
	if _, err := printer.Fprintln(w, strings.Repeat("-", 34)); err != nil {
		return eris.Wrap(err, "report: write sharp separator")
	}
	if len(sharps) == 0 {
		_, err := printer.Fprintln(w, "(none)")
		return eris.Wrap(err, "report: write sharp row")
	}
	for _, s := range sharps {
		if _, err := printer.Fprintf(w, "%-12s %10d %10d\n", s.SharpID, s.TailersDetected, s.TotalTailBets); err != nil {
			return eris.Wrap(err, "report: write sharp row")
		}
	}
	return nil
}

func writeSummary(w io.Writer, res *detect.Result) error {
	st := res.Stats
	_, err := printer.Fprintf(w, "\n--- Summary ---\n"+
		"Picks:          %d\n"+
		"Bets:           %d\n"+
		"Unmatched:      %d\n"+
		"Out of window:  %d\n"+
		"Candidates:     %d\n"+
		"Users scored:   %d\n"+
		"Users flagged:  %d\n",
		st.Picks, st.Bets, st.Unmatched, st.OutOfWindow, st.Candidates, st.Users, len(res.Flagged))
	return eris.Wrap(err, "report: write summary")
}

func writePaths(w io.Writer, label string, paths []string) error {
	for _, p := range paths {
		if _, err := printer.Fprintf(w, "%s: %s\n", label, p); err != nil {
			return eris.Wrap(err, "report: write path")
		}
	}
	return nil
}
