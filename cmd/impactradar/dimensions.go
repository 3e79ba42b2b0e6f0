package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/impactradar/internal/model"
)

// NewDimensionsCmd creates the dimensions command.
func NewDimensionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dimensions",
		Short: "Show the six IMPACT dimensions and their rubrics",
		Long: `Dimensions prints the evaluation axes in report order, with the question
each one answers, the meaning of both ends of the scale, the rubric for
every severity band and the challenge prompts.

Examples:
  impactradar dimensions
  impactradar dimensions --markdown > IMPACT.md
  impactradar dimensions --json`,
		Args: cobra.NoArgs,
		RunE: runDimensionsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format (mutually exclusive with --json)")

	return cmd
}

func runDimensionsCmd(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	out := cmd.OutOrStdout()
	specs := model.Dimensions()
	switch {
	case jsonOutput:
		return outputDimensionsJSON(out, specs)
	case markdownOutput:
		return outputDimensionsMarkdown(out, specs)
	default:
		return outputDimensionsText(out, specs)
	}
}

// dimensionJSON is the JSON form of a dimension.
type dimensionJSON struct {
	ID               string            `json:"id"`
	Letter           string            `json:"letter"`
	Title            string            `json:"title"`
	Subtitle         string            `json:"subtitle"`
	Question         string            `json:"question"`
	LeftLabel        string            `json:"left_label"`
	RightLabel       string            `json:"right_label"`
	Rubric           map[string]string `json:"rubric"`
	ChallengePrompts []string          `json:"challenge_prompts"`
}

func outputDimensionsJSON(w io.Writer, specs []model.DimensionSpec) error {
	out := make([]dimensionJSON, 0, len(specs))
	for _, d := range specs {
		rubric := make(map[string]string, 3)
		for _, s := range model.Severities() {
			rubric[strings.ToLower(s.String())] = d.Rubric.For(s)
		}
		out = append(out, dimensionJSON{
			ID:               d.ID,
			Letter:           d.Letter,
			Title:            d.Title,
			Subtitle:         d.Subtitle,
			Question:         d.Question,
			LeftLabel:        d.LeftLabel,
			RightLabel:       d.RightLabel,
			Rubric:           rubric,
			ChallengePrompts: d.ChallengePrompts,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func outputDimensionsMarkdown(w io.Writer, specs []model.DimensionSpec) error {
	md := markdown.NewMarkdown(w)
	md.H1("IMPACT Dimensions")

	for _, d := range specs {
		md.H2(fmt.Sprintf("%s %s - %s", d.Icon, d.Title, d.Subtitle))
		md.PlainText("**" + d.Question + "**")
		md.PlainText("")
		md.PlainTextf("Scale: %s (0) to %s (100)", d.LeftLabel, d.RightLabel)
		md.PlainText("")

		rows := make([][]string, 0, 3)
		for _, s := range model.Severities() {
			lo, hi := s.Bounds()
			rows = append(rows, []string{s.String(), fmt.Sprintf("%d-%d", lo, hi), d.Rubric.For(s)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Band", "Scores", "Rubric"},
			Rows:   rows,
		})
		md.PlainText("")
		md.BulletList(d.ChallengePrompts...)
		md.PlainText("")
	}

	return md.Build()
}

func outputDimensionsText(w io.Writer, specs []model.DimensionSpec) error {
	for i, d := range specs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%s] %s %s (%s)\n", d.Letter, d.Icon, d.Title, d.ID)
		fmt.Fprintf(w, "    %s\n", d.Subtitle)
		fmt.Fprintf(w, "    %s\n", d.Question)
		fmt.Fprintf(w, "    0: %s  |  100: %s\n", d.LeftLabel, d.RightLabel)
		for _, s := range model.Severities() {
			lo, hi := s.Bounds()
			fmt.Fprintf(w, "    %-6s %3d-%-3d  %s\n", s, lo, hi, d.Rubric.For(s))
		}
		for _, p := range d.ChallengePrompts {
			fmt.Fprintf(w, "    ? %s\n", p)
		}
	}
	return nil
}
