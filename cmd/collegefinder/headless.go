package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"collegefinder/internal/browse"
	"collegefinder/internal/domain"
	"collegefinder/internal/location"
	"collegefinder/internal/ui/views"
)

func newListCmd(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list [link or query]",
		Short: "Print one page of the college listing",
		Example: `  collegefinder list "stream=Engineering&state=Karnataka"
  collegefinder list https://portal.example/colleges?sort=fees_low --page 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				q, err := location.QueryOf(args[0])
				if err != nil {
					return err
				}
				query = q
			}
			return a.list(cmd.Context(), cmd.OutOrStdout(), query, page)
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to print")
	return cmd
}

// list runs the same controller the UI uses, without a bus
func (a *app) list(ctx context.Context, out io.Writer, query string, page int) error {
	ctrl := browse.New(a.client(), location.New(nil, query), nil, a.log, nil, a.browseOptions())
	defer ctrl.Close()

	ctrl.InitializeFromURL(query)
	// SetPage fetches on its own only when the page moved
	ctrl.SetPage(page)
	ctrl.Wait()
	if !ctrl.Snapshot().Results.Fetched {
		ctrl.FetchResults(ctx)
	}

	view := ctrl.Snapshot()
	if err := view.Results.Err; err != nil {
		return err
	}
	writeResults(out, view, a.cfg.Browse.PageSize)
	return nil
}

func writeResults(out io.Writer, view browse.View, pageSize int) {
	if view.Empty() {
		if view.Filters.ExcludesColleges() {
			fmt.Fprintln(out, "No colleges for this goal. Add \"Colleges\" to the goal filter to list colleges.")
			return
		}
		fmt.Fprintln(out, "No colleges found. Try removing some filters.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "College", "Location", "NIRF", "Rating", "Fees")
	first := (view.Page.Page-1)*pageSize + 1
	for i, c := range view.Results.Colleges {
		t.Row(strconv.Itoa(first+i), c.Name, c.Location.Place(), rank(c), rating(c), fee(c))
	}
	fmt.Fprintln(out, t.Render())

	fmt.Fprintf(out, "Page %d of %d\n", view.Page.Page, view.Page.TotalPages)
	if view.Page.HasMoreResults {
		fmt.Fprintf(out, "More results exist beyond page %d. Refine your filters to narrow them down.\n", view.MaxPages)
	}
}

func rank(c domain.CollegeSummary) string {
	if c.NIRFRank == nil {
		return "-"
	}
	return "#" + strconv.Itoa(*c.NIRFRank)
}

func rating(c domain.CollegeSummary) string {
	if c.Rating == nil {
		return "-"
	}
	return strconv.FormatFloat(*c.Rating, 'f', 1, 64)
}

func fee(c domain.CollegeSummary) string {
	if f := views.TuitionFee(c); f > 0 {
		return views.FormatRupees(f)
	}
	return "-"
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <term>",
		Short: "Print type-ahead suggestions for a college name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			hits, err := a.client().SearchColleges(cmd.Context(), term)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No suggestions")
				return nil
			}
			for _, h := range hits {
				line := fmt.Sprintf("%s (%s)", h.Name, h.Slug)
				if place := h.Location.Place(); place != "" {
					line += "  " + place
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var (
		width    int
		style    string
		markdown bool
	)
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print the detail page of a college",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client().GetCollege(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r := views.NewDetailRenderer(style)
			out := cmd.OutOrStdout()
			if markdown {
				_, err = io.WriteString(out, r.Markdown(c))
				return err
			}
			text, err := r.Render(c, width)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, text)
			return err
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 80, "wrap width")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark, light, notty...); detected when empty")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the markdown source instead of rendering it")
	return cmd
}

func newCourseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "course <slug>",
		Short: "Print a course page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client().GetCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writePage(cmd.OutOrStdout(), p)
		},
	}
}

func newExamCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exam <slug>",
		Short: "Print an exam page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client().GetExam(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writePage(cmd.OutOrStdout(), p)
		},
	}
}

// writePage prints the typed fields of a content page, then the rest as YAML
func writePage(out io.Writer, p domain.Page) error {
	fmt.Fprintln(out, p.Name)
	if p.Description != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, views.NewDetailRenderer("").PlainText(p.Description))
	}
	if len(p.Fields) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(p.Fields); err != nil {
		return fmt.Errorf("encoding page fields: %w", err)
	}
	return enc.Close()
}

func newPredictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "predict <kind> [key=value...]",
		Short:   "Query a predictor endpoint and print its answer",
		Example: `  collegefinder predict college exam=JEE rank=5400`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			for _, kv := range args[1:] {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("parameter %q is not key=value", kv)
				}
				params.Add(k, v)
			}
			raw, err := a.client().Predict(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, raw, "", "  "); err != nil {
				return fmt.Errorf("predictor answer is not JSON: %w", err)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
