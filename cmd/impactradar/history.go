package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/impactradar/internal/config"
	"github.com/nao1215/impactradar/internal/database"
	"github.com/nao1215/impactradar/internal/model"
)

// Directions of a score change. Higher scores are better on every dimension.
const (
	directionImproved  = "improved"
	directionDeclined  = "declined"
	directionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command reads analyses recorded with 'impactradar score --archive'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [company]",
		Short: "List and compare archived analyses",
		Long: `History reads the local archive of exported analyses.

Without flags it compares the two most recent analyses of a company and
shows the change of every dimension score and of the overall average.

Analyses are archived when exporting with --archive (or archive: true in
the configuration file).

Examples:
  # Compare the latest two analyses of a company
  impactradar history "Acme Pay"

  # List every archived analysis of a company
  impactradar history --list "Acme Pay"

  # Compare the latest analysis with a specific one
  impactradar history --with-id 3 "Acme Pay"
  impactradar history --with-uuid 1b4e28ba-2fa1-11d2-883f-0016d3cca427 "Acme Pay"

  # Compare with the first analysis since a date
  impactradar history --since 2025-01-01 "Acme Pay"

  # Output the comparison as Markdown
  impactradar history --markdown "Acme Pay"

  # List every archived company
  impactradar history --list-companies`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List archived analyses of the company")
	cmd.Flags().BoolP("list-companies", "L", false,
		"List every company in the archive")

	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific analysis by ID (use --list to see IDs)")
	cmd.Flags().StringP("with-uuid", "u", "",
		"Compare with a specific analysis by UUID")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first analysis on or after this date (format: YYYY-MM-DD)")

	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	cmd.Flags().String("db-dir", "",
		"Archive directory (default: XDG data directory)")

	return cmd
}

// compareOptions selects the analyses to compare and the output format.
type compareOptions struct {
	withID   int64
	withUUID string
	since    string
	json     bool
	markdown bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listCompanies, err := cmd.Flags().GetBool("list-companies")
	if err != nil {
		return err
	}

	// Validate arguments before opening the archive.
	var company string
	if !listCompanies {
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return errors.New("company name is required (use --list-companies to see archived companies)")
		}
		company = args[0]
	}

	var opts compareOptions
	if opts.withID, err = cmd.Flags().GetInt64("with-id"); err != nil {
		return err
	}
	if opts.withUUID, err = cmd.Flags().GetString("with-uuid"); err != nil {
		return err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if opts.json && opts.markdown {
		return errors.New("--json and --markdown are mutually exclusive")
	}
	selectors := 0
	for _, set := range []bool{opts.withID != 0, opts.withUUID != "", opts.since != ""} {
		if set {
			selectors++
		}
	}
	if selectors > 1 {
		return errors.New("--with-id, --with-uuid and --since are mutually exclusive")
	}

	dbDir, err := historyDBDir(cmd)
	if err != nil {
		return err
	}
	archive, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer archive.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listCompanies {
		return listArchivedCompanies(ctx, out, archive)
	}

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listAnalysisHistory(ctx, out, archive, company)
	}

	result, err := compareHistory(ctx, archive, company, opts)
	if err != nil {
		return err
	}
	switch {
	case opts.json:
		return outputComparisonJSON(out, result)
	case opts.markdown:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// historyDBDir resolves the archive directory from --db-dir, the
// configuration file and the XDG default, in that order.
func historyDBDir(cmd *cobra.Command) (string, error) {
	cfg := config.NewConfig()
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	if err := applyConfigFile(cmd, cfg); err != nil {
		return "", err
	}
	return cfg.DBDir, nil
}

// listArchivedCompanies lists every company with archived analyses.
func listArchivedCompanies(ctx context.Context, w io.Writer, archive *database.Archive) error {
	companies, err := archive.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	if len(companies) == 0 {
		fmt.Fprintln(w, "No archived analyses found.")
		fmt.Fprintln(w, "\nUse 'impactradar score --archive <file>' to archive an analysis.")
		return nil
	}

	fmt.Fprintf(w, "Archived companies (%d):\n\n", len(companies))
	for _, company := range companies {
		fmt.Fprintf(w, "  • %s\n", displayName(company))
	}
	fmt.Fprintln(w, "\nUse 'impactradar history --list <company>' to see the analyses of a company.")
	return nil
}

// listAnalysisHistory lists the archived analyses of a company.
func listAnalysisHistory(ctx context.Context, w io.Writer, archive *database.Archive, company string) error {
	records, err := archive.GetHistory(ctx, company)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintf(w, "No archived analyses found for %s\n", company)
		return nil
	}

	fmt.Fprintf(w, "History for %s (%d analyses):\n\n", company, len(records))
	fmt.Fprintf(w, "  %-6s  %-20s  %-8s  %-14s  %s\n", "ID", "Date", "Average", "Bands", "UUID")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 96))

	for _, rec := range records {
		fmt.Fprintf(w, "  %-6d  %-20s  %-8s  %-14s  %s\n",
			rec.ID,
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/100", rec.OverallScore),
			formatSeveritySummary(rec.SeveritySummary),
			rec.UUID,
		)
	}

	fmt.Fprintln(w, "\nUse 'impactradar history <company>' to compare the latest two analyses.")
	fmt.Fprintln(w, "Use 'impactradar history --with-id <id> <company>' to compare with a specific analysis.")
	return nil
}

// formatSeveritySummary formats band counts as "H:2 M:3 L:1".
func formatSeveritySummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "N/A"
	}

	var parts []string
	for _, s := range []model.Severity{model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		if v := summary[s.String()]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", s.String()[:1], v))
		}
	}
	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, " ")
}

// compareHistory picks the two analyses to compare. The latest analysis is
// always the current one.
func compareHistory(ctx context.Context, archive *database.Archive, company string, opts compareOptions) (*ComparisonResult, error) {
	records, err := archive.GetHistory(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no archived analyses found for %s", company)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("at least 2 analyses are required for comparison (found %d)", len(records))
	}

	current, err := archive.GetAnalysisByID(ctx, records[0].ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("analysis %d disappeared from the archive", records[0].ID)
	}

	var previous *database.StoredAnalysis
	switch {
	case opts.withID != 0:
		previous, err = archive.GetAnalysisByID(ctx, opts.withID)
		if err != nil {
			return nil, fmt.Errorf("failed to get analysis %d: %w", opts.withID, err)
		}
		if previous == nil {
			return nil, fmt.Errorf("analysis with ID %d not found", opts.withID)
		}
	case opts.withUUID != "":
		previous, err = archive.GetAnalysisByUUID(ctx, opts.withUUID)
		if err != nil {
			return nil, err
		}
		if previous == nil {
			return nil, fmt.Errorf("analysis %s not found", opts.withUUID)
		}
	case opts.since != "":
		sinceDate, err := time.ParseInLocation("2006-01-02", opts.since, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		// Records are newest first, so walk backwards to find the oldest
		// analysis on or after the date.
		var id int64
		for i := len(records) - 1; i >= 0; i-- {
			if !records[i].Timestamp.Before(sinceDate) {
				id = records[i].ID
				break
			}
		}
		if id == 0 {
			return nil, fmt.Errorf("no analyses found since %s", opts.since)
		}
		if id == current.Record.ID {
			return nil, fmt.Errorf("only one analysis found since %s; at least 2 are required for comparison", opts.since)
		}
		previous, err = archive.GetAnalysisByID(ctx, id)
		if err != nil {
			return nil, err
		}
	default:
		previous, err = archive.GetAnalysisByID(ctx, records[1].ID)
		if err != nil {
			return nil, err
		}
	}

	if previous == nil {
		return nil, errors.New("previous analysis not found")
	}
	if previous.Record.CompanyName != company {
		return nil, fmt.Errorf("analysis %d belongs to %s, not %s",
			previous.Record.ID, displayName(previous.Record.CompanyName), company)
	}
	if previous.Record.ID == current.Record.ID {
		return nil, errors.New("cannot compare an analysis with itself")
	}

	return compareAnalyses(previous, current), nil
}

// ComparisonResult holds the result of comparing two analyses.
type ComparisonResult struct {
	// CompanyName is the analysed company.
	CompanyName string `json:"company_name"`

	// Previous contains metadata about the older analysis.
	Previous AnalysisMetadata `json:"previous"`

	// Current contains metadata about the newer analysis.
	Current AnalysisMetadata `json:"current"`

	// Dimensions holds one entry per dimension in report order.
	Dimensions []DimensionChange `json:"dimensions"`

	// AverageDelta is the change of the overall average.
	AverageDelta int `json:"average_delta"`

	// Direction is "improved", "declined", or "unchanged".
	Direction string `json:"direction"`
}

// AnalysisMetadata identifies an archived analysis.
type AnalysisMetadata struct {
	ID           int64          `json:"id"`
	UUID         string         `json:"uuid"`
	Timestamp    time.Time      `json:"timestamp"`
	AverageScore int            `json:"average_score"`
	Severities   map[string]int `json:"severities"`
}

// DimensionChange is the change of one dimension between two analyses.
type DimensionChange struct {
	Dimension        string `json:"dimension"`
	Title            string `json:"title"`
	Previous         int    `json:"previous"`
	Current          int    `json:"current"`
	Delta            int    `json:"delta"`
	PreviousSeverity string `json:"previous_severity"`
	CurrentSeverity  string `json:"current_severity"`
	Direction        string `json:"direction"`
}

// compareAnalyses computes per-dimension and average changes.
func compareAnalyses(previous, current *database.StoredAnalysis) *ComparisonResult {
	result := &ComparisonResult{
		CompanyName: current.Record.CompanyName,
		Previous:    analysisMetadata(previous),
		Current:     analysisMetadata(current),
	}

	for i, cur := range current.Snapshot.Dimensions {
		prev := previous.Snapshot.Dimensions[i]
		delta := cur.Score - prev.Score
		result.Dimensions = append(result.Dimensions, DimensionChange{
			Dimension:        cur.ID.Slug(),
			Title:            cur.Spec.Title,
			Previous:         prev.Score,
			Current:          cur.Score,
			Delta:            delta,
			PreviousSeverity: prev.Severity().String(),
			CurrentSeverity:  cur.Severity().String(),
			Direction:        direction(delta),
		})
	}

	result.AverageDelta = result.Current.AverageScore - result.Previous.AverageScore
	result.Direction = direction(result.AverageDelta)
	return result
}

func analysisMetadata(a *database.StoredAnalysis) AnalysisMetadata {
	severities := make(map[string]int, 3)
	for sev, n := range a.Snapshot.SeverityCounts() {
		severities[sev.String()] = n
	}
	return AnalysisMetadata{
		ID:           a.Record.ID,
		UUID:         a.Record.UUID,
		Timestamp:    a.Record.Timestamp,
		AverageScore: a.Snapshot.AverageScore(),
		Severities:   severities,
	}
}

func direction(delta int) string {
	switch {
	case delta > 0:
		return directionImproved
	case delta < 0:
		return directionDeclined
	default:
		return directionUnchanged
	}
}

// displayName returns the company name, or a placeholder for unnamed analyses.
func displayName(company string) string {
	if company == "" {
		return "(unnamed)"
	}
	return company
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(w)
	md.H1("IMPACT Comparison: " + displayName(result.CompanyName))

	md.H2("Summary")
	md.PlainText("**Overall:** " + formatDirection(result.Direction))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{
				"Date",
				result.Previous.Timestamp.Local().Format("2006-01-02 15:04"),
				result.Current.Timestamp.Local().Format("2006-01-02 15:04"),
				"-",
			},
			{
				"**Average**",
				fmt.Sprintf("**%d/100**", result.Previous.AverageScore),
				fmt.Sprintf("**%d/100**", result.Current.AverageScore),
				"**" + formatDelta(result.AverageDelta) + "**",
			},
		},
	})

	md.H2("Dimensions")
	rows := make([][]string, 0, len(result.Dimensions))
	for _, d := range result.Dimensions {
		rows = append(rows, []string{
			d.Title,
			fmt.Sprintf("%d (%s)", d.Previous, d.PreviousSeverity),
			fmt.Sprintf("%d (%s)", d.Current, d.CurrentSeverity),
			formatDelta(d.Delta),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Dimension", "Previous", "Current", "Change"},
		Rows:   rows,
	})

	var crossed []string
	for _, d := range result.Dimensions {
		if d.PreviousSeverity != d.CurrentSeverity {
			crossed = append(crossed, fmt.Sprintf("%s moved from %s to %s", d.Title, d.PreviousSeverity, d.CurrentSeverity))
		}
	}
	if len(crossed) > 0 {
		md.H2("Band Changes")
		md.BulletList(crossed...)
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(w, "IMPACT Comparison: %s\n", displayName(result.CompanyName))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nOverall: %s\n", formatDirection(result.Direction))

	fmt.Fprintf(w, "\nPrevious analysis: %s (ID %d)\n",
		result.Previous.Timestamp.Local().Format("2006-01-02 15:04:05"), result.Previous.ID)
	fmt.Fprintf(w, "Current analysis:  %s (ID %d)\n",
		result.Current.Timestamp.Local().Format("2006-01-02 15:04:05"), result.Current.ID)

	fmt.Fprintln(w, "\nScores:")
	fmt.Fprintf(w, "  %-14s  %-14s  %-14s  %-8s\n", "Dimension", "Previous", "Current", "Change")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 56))
	for _, d := range result.Dimensions {
		fmt.Fprintf(w, "  %-14s  %-14s  %-14s  %-8s\n",
			d.Title,
			fmt.Sprintf("%d %s", d.Previous, d.PreviousSeverity),
			fmt.Sprintf("%d %s", d.Current, d.CurrentSeverity),
			formatDelta(d.Delta),
		)
	}
	fmt.Fprintln(w, "  "+strings.Repeat("-", 56))
	fmt.Fprintf(w, "  %-14s  %-14d  %-14d  %-8s\n", "Average",
		result.Previous.AverageScore, result.Current.AverageScore,
		formatDelta(result.AverageDelta))

	return nil
}

// formatDirection formats the overall direction for display.
func formatDirection(d string) string {
	switch d {
	case directionImproved:
		return "IMPROVED (average score increased)"
	case directionDeclined:
		return "DECLINED (average score decreased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
