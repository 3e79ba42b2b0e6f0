package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/impactradar/internal/database"
	"github.com/nao1215/impactradar/internal/model"
)

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()
	if cmd.Use != "history [company]" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	flagsWithShort := map[string]string{
		"list":           "l",
		"list-companies": "L",
		"with-id":        "i",
		"with-uuid":      "u",
		"since":          "s",
		"json":           "j",
		"markdown":       "m",
		"db-dir":         "",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}
}

// buildSnapshot returns a snapshot of company with the given scores in
// dimension order.
func buildSnapshot(t *testing.T, company string, scores ...int) *model.Snapshot {
	t.Helper()

	s := model.NewSession()
	s.SetCompanyName(company)
	for i, v := range scores {
		if err := s.SetScore(model.DimensionID(i), v); err != nil {
			t.Fatal(err)
		}
	}
	return s.Snapshot()
}

// seedArchive stores the snapshots two days apart starting on 2025-01-01 at
// noon UTC and returns the archive directory.
func seedArchive(t *testing.T, snaps ...*model.Snapshot) string {
	t.Helper()

	dbDir := filepath.Join(t.TempDir(), "db")
	archive, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer archive.Close()

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, snap := range snaps {
		if _, err := archive.SaveAnalysis(t.Context(), snap, start.AddDate(0, 0, 2*i)); err != nil {
			t.Fatal(err)
		}
	}
	return dbDir
}

func TestCompareAnalyses(t *testing.T) {
	t.Parallel()

	previous := &database.StoredAnalysis{
		Record:   database.AnalysisRecord{ID: 1, CompanyName: "Acme Pay"},
		Snapshot: buildSnapshot(t, "Acme Pay", 20, 50, 50, 50, 80, 50),
	}
	current := &database.StoredAnalysis{
		Record:   database.AnalysisRecord{ID: 2, CompanyName: "Acme Pay"},
		Snapshot: buildSnapshot(t, "Acme Pay", 40, 50, 50, 50, 60, 74),
	}

	result := compareAnalyses(previous, current)

	if result.CompanyName != "Acme Pay" {
		t.Errorf("unexpected company %q", result.CompanyName)
	}
	if result.Previous.AverageScore != 50 || result.Current.AverageScore != 54 {
		t.Errorf("unexpected averages %d -> %d", result.Previous.AverageScore, result.Current.AverageScore)
	}
	if result.AverageDelta != 4 || result.Direction != directionImproved {
		t.Errorf("expected +4 improved, got %d %s", result.AverageDelta, result.Direction)
	}
	if len(result.Dimensions) != model.DimensionCount {
		t.Fatalf("expected %d dimensions, got %d", model.DimensionCount, len(result.Dimensions))
	}

	tests := []struct {
		id        model.DimensionID
		delta     int
		direction string
		prevSev   string
		curSev    string
	}{
		{model.Integration, 20, directionImproved, "Low", "Medium"},
		{model.Monetization, 0, directionUnchanged, "Medium", "Medium"},
		{model.Compliance, -20, directionDeclined, "High", "Medium"},
		{model.Target, 24, directionImproved, "Medium", "High"},
	}
	for _, tt := range tests {
		d := result.Dimensions[tt.id]
		if d.Dimension != tt.id.Slug() {
			t.Errorf("position %d: expected %s, got %s", tt.id, tt.id.Slug(), d.Dimension)
		}
		if d.Delta != tt.delta || d.Direction != tt.direction {
			t.Errorf("%s: expected %d %s, got %d %s", d.Dimension, tt.delta, tt.direction, d.Delta, d.Direction)
		}
		if d.PreviousSeverity != tt.prevSev || d.CurrentSeverity != tt.curSev {
			t.Errorf("%s: expected %s -> %s, got %s -> %s", d.Dimension, tt.prevSev, tt.curSev, d.PreviousSeverity, d.CurrentSeverity)
		}
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delta int
		want  string
	}{
		{5, "+5"},
		{-3, "-3"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatDelta(tt.delta); got != tt.want {
			t.Errorf("formatDelta(%d) = %q, expected %q", tt.delta, got, tt.want)
		}
	}
}

func TestFormatDirection(t *testing.T) {
	t.Parallel()

	if !strings.HasPrefix(formatDirection(directionImproved), "IMPROVED") {
		t.Error("unexpected improved label")
	}
	if !strings.HasPrefix(formatDirection(directionDeclined), "DECLINED") {
		t.Error("unexpected declined label")
	}
	if formatDirection(directionUnchanged) != "UNCHANGED" {
		t.Error("unexpected unchanged label")
	}
}

func TestFormatSeveritySummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		summary map[string]int
		want    string
	}{
		{"nil", nil, "N/A"},
		{"all zero", map[string]int{"High": 0}, "N/A"},
		{"high first", map[string]int{"Low": 1, "Medium": 3, "High": 2}, "H:2 M:3 L:1"},
		{"skips empty bands", map[string]int{"Low": 6}, "L:6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatSeveritySummary(tt.summary); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOutputComparison(t *testing.T) {
	t.Parallel()

	result := compareAnalyses(
		&database.StoredAnalysis{
			Record:   database.AnalysisRecord{ID: 1, CompanyName: "Acme Pay"},
			Snapshot: buildSnapshot(t, "Acme Pay", 20, 50, 50, 50, 50, 50),
		},
		&database.StoredAnalysis{
			Record:   database.AnalysisRecord{ID: 2, CompanyName: "Acme Pay"},
			Snapshot: buildSnapshot(t, "Acme Pay", 80, 50, 50, 50, 50, 50),
		},
	)

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonText(&buf, result); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"IMPACT Comparison: Acme Pay", "IMPROVED", "Integration", "+60", "Average", "+10"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonMarkdown(&buf, result); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{
			"# IMPACT Comparison: Acme Pay",
			"## Dimensions",
			"## Band Changes",
			"Integration moved from Low to High",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonJSON(&buf, result); err != nil {
			t.Fatal(err)
		}
		var decoded ComparisonResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.AverageDelta != 10 || decoded.Direction != directionImproved {
			t.Errorf("unexpected decoded result %+v", decoded)
		}
		if decoded.Dimensions[0].Dimension != "integration" {
			t.Errorf("unexpected first dimension %q", decoded.Dimensions[0].Dimension)
		}
	})
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	first := buildSnapshot(t, "Acme Pay", 50, 50, 50, 50, 50, 50)
	second := buildSnapshot(t, "Acme Pay", 60, 50, 50, 50, 50, 50)
	third := buildSnapshot(t, "Acme Pay", 30, 50, 50, 50, 50, 50)
	other := buildSnapshot(t, "Other Bank", 10, 10, 10, 10, 10, 10)

	// IDs: first=1, second=2, other=3, third=4.
	dbDir := seedArchive(t, first, second, other, third)

	t.Run("compares the latest two", func(t *testing.T) {
		out, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var result ComparisonResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Previous.ID != 2 || result.Current.ID != 4 {
			t.Errorf("expected 2 -> 4, got %d -> %d", result.Previous.ID, result.Current.ID)
		}
		if result.Dimensions[0].Delta != -30 || result.Direction != directionDeclined {
			t.Errorf("unexpected comparison %+v", result)
		}
	})

	t.Run("with id", func(t *testing.T) {
		out, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--with-id", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "(ID 1)") || !strings.Contains(out, "-20") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("with id of another company", func(t *testing.T) {
		_, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--with-id", "3")
		if err == nil || !strings.Contains(err.Error(), "belongs to Other Bank") {
			t.Errorf("expected ownership error, got %v", err)
		}
	})

	t.Run("with unknown id", func(t *testing.T) {
		if _, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--with-id", "99"); err == nil {
			t.Error("expected error for unknown id")
		}
	})

	t.Run("with invalid uuid", func(t *testing.T) {
		if _, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--with-uuid", "not-a-uuid"); err == nil {
			t.Error("expected error for invalid uuid")
		}
	})

	t.Run("since", func(t *testing.T) {
		out, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--since", "2025-01-03", "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var result ComparisonResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if result.Previous.ID != 2 {
			t.Errorf("expected analysis 2 as baseline, got %d", result.Previous.ID)
		}
	})

	t.Run("since with bad date", func(t *testing.T) {
		if _, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--since", "01/02/2025"); err == nil {
			t.Error("expected error for invalid date")
		}
	})

	t.Run("list", func(t *testing.T) {
		out, err := executeCmd(t, "history", "--list", "Acme Pay", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "History for Acme Pay (3 analyses)") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if strings.Contains(out, "Other Bank") {
			t.Error("expected only Acme Pay analyses")
		}
	})

	t.Run("list companies", func(t *testing.T) {
		out, err := executeCmd(t, "history", "--list-companies", "--db-dir", dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Archived companies (2)") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("requires a company", func(t *testing.T) {
		if _, err := executeCmd(t, "history", "--db-dir", dbDir); err == nil {
			t.Error("expected error without company")
		}
	})

	t.Run("single analysis cannot be compared", func(t *testing.T) {
		_, err := executeCmd(t, "history", "Other Bank", "--db-dir", dbDir)
		if err == nil || !strings.Contains(err.Error(), "at least 2") {
			t.Errorf("expected 'at least 2' error, got %v", err)
		}
	})

	t.Run("exclusive flags", func(t *testing.T) {
		if _, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--json", "--markdown"); err == nil {
			t.Error("expected error for --json with --markdown")
		}
		if _, err := executeCmd(t, "history", "Acme Pay", "--db-dir", dbDir, "--with-id", "1", "--since", "2025-01-01"); err == nil {
			t.Error("expected error for --with-id with --since")
		}
	})
}

func TestListHistoryEmpty(t *testing.T) {
	t.Parallel()

	dbDir := filepath.Join(t.TempDir(), "db")

	out, err := executeCmd(t, "history", "--list-companies", "--db-dir", dbDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No archived analyses found.") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = executeCmd(t, "history", "--list", "Nobody", "--db-dir", dbDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No archived analyses found for Nobody") {
		t.Errorf("unexpected output %q", out)
	}
}
