// Package report renders evaluation overviews and detailed results for the
// terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/DjordjeVuckovic/rag-insight/internal/domain"
	"github.com/DjordjeVuckovic/rag-insight/pkg/utils"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

const maxQuestionWidth = 60

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid format %q, expected table or json", s)
	}
}

type Options struct {
	Format    Format
	UseColors bool
	Precision int
	Threshold float64
}

func DefaultOptions() Options {
	return Options{
		Format:    FormatTable,
		UseColors: true,
		Precision: 4,
		Threshold: domain.FailThreshold,
	}
}

type palette struct {
	red, green, yellow func(...any) string
}

func newPalette(useColors bool) palette {
	if !useColors {
		return palette{red: fmt.Sprint, green: fmt.Sprint, yellow: fmt.Sprint}
	}
	return palette{
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
	}
}

func WriteOverview(w io.Writer, overview *domain.MetricsOverview, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, overview)
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Retriever", "Faithfulness", "Answer Relevancy", "Context Precision", "Context Recall", "Average", "Avg %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	p := newPalette(opts.UseColors)
	fmtFloat := floatFormatter(opts.Precision)

	data := make([][]string, 0, len(overview.Metrics))
	for i, s := range overview.Metrics {
		name := string(s.Retriever)
		if overview.Best != nil && overview.Best.Retriever == s.Retriever {
			name = p.green(name + " *")
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			name,
			p.score(s.Faithfulness, opts.Threshold, fmtFloat),
			p.score(s.AnswerRelevancy, opts.Threshold, fmtFloat),
			p.score(s.ContextPrecision, opts.Threshold, fmtFloat),
			p.score(s.ContextRecall, opts.Threshold, fmtFloat),
			fmtFloat(s.Average),
			strconv.FormatFloat(utils.RoundDecimal(s.Average*100, 2), 'f', 2, 64),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if overview.Best != nil {
		if _, err := fmt.Fprintf(w, "Best performer: %s (average %s)\n", overview.Best.Retriever, fmtFloat(overview.Best.Average)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Retrievers: %d\n", len(overview.Metrics))
	return err
}

func WriteDetailed(w io.Writer, result *domain.DetailedResult, opts Options) error {
	if opts.Format == FormatJSON {
		return writeJSON(w, result)
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"#", "Question", "Faithfulness", "Answer Relevancy", "Context Precision", "Context Recall", "Average", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	p := newPalette(opts.UseColors)
	fmtFloat := floatFormatter(opts.Precision)

	data := make([][]string, 0, len(result.Results))
	for i, r := range result.Results {
		status := p.green("PASS")
		if r.Metrics.Fails(opts.Threshold) {
			status = p.red("FAIL")
		}
		m := r.Metrics
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncate(r.Question, maxQuestionWidth),
			p.score(m.Faithfulness, opts.Threshold, fmtFloat),
			p.score(m.AnswerRelevancy, opts.Threshold, fmtFloat),
			p.score(m.ContextPrecision, opts.Threshold, fmtFloat),
			p.score(m.ContextRecall, opts.Threshold, fmtFloat),
			fmtFloat(m.Average()),
			status,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Summary
	if _, err := fmt.Fprintf(w, "Retriever: %s\n", result.Retriever); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total queries: %d, Failing queries: %s\n", s.TotalQueries, p.failing(s.FailingQueries)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Mean faithfulness: %s, answer relevancy: %s, context precision: %s, context recall: %s\n",
		fmtFloat(s.AverageMetrics.Faithfulness),
		fmtFloat(s.AverageMetrics.AnswerRelevancy),
		fmtFloat(s.AverageMetrics.ContextPrecision),
		fmtFloat(s.AverageMetrics.ContextRecall),
	)
	return err
}

func (p palette) score(v, threshold float64, fmtFloat func(float64) string) string {
	if v < threshold {
		return p.red(fmtFloat(v))
	}
	return fmtFloat(v)
}

func (p palette) failing(n int) string {
	if n == 0 {
		return p.green("0")
	}
	return p.yellow(strconv.Itoa(n))
}

func floatFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
