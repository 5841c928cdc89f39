package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/inflammation-cli/internal/analysis"
	"github.com/KaramelBytes/inflammation-cli/internal/logger"
	"github.com/KaramelBytes/inflammation-cli/internal/parser"
	"github.com/KaramelBytes/inflammation-cli/internal/utils"
	"github.com/KaramelBytes/inflammation-cli/internal/views"
)

var (
	anaOnScreen    bool
	anaGraph       bool
	anaChartDir    string
	anaChartFormat string
	anaSheetName   string
	anaKeepGoing   bool
	anaThreshold   float64
	anaPatient     int
	anaNormalise   bool
)

// truthyBool is a bool flag that accepts the usual yes/no spellings and
// always takes an explicit value.
type truthyBool struct{ v *bool }

func newTruthyBool(p *bool, def bool) *truthyBool {
	*p = def
	return &truthyBool{v: p}
}

func (b *truthyBool) String() string {
	if b.v == nil || !*b.v {
		return "false"
	}
	return "true"
}

func (b *truthyBool) Set(s string) error {
	v, err := parseTruthy(s)
	if err != nil {
		return err
	}
	*b.v = v
	return nil
}

func (b *truthyBool) Type() string { return "bool" }

func parseTruthy(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "y", "true", "yes", "on":
		return true, nil
	case "0", "f", "n", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid truth value %q", s)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Compute daily statistics for one or more inflammation files",
	Long: `Load each file as a patients x days grid and compute the daily average,
standard deviation, maximum and minimum. Results are written as a table to
stdout (--onscreen) and/or as a chart per file (--graph).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		flags := cmd.Flags()
		onScreen, graph := anaOnScreen, anaGraph
		if !flags.Changed("onscreen") {
			onScreen = c.OnScreenDefault
		}
		if !flags.Changed("graph") {
			graph = c.GraphDefault
		}
		out := cmd.OutOrStdout()
		if !onScreen && !graph {
			fmt.Fprintln(out, "Data not processed: Both visualisations disabled.")
			return nil
		}

		chartDir := c.ChartDir
		if flags.Changed("chart-dir") {
			chartDir = anaChartDir
		}
		chartFormat := c.ChartFormat
		if flags.Changed("chart-format") {
			chartFormat = strings.ToLower(strings.TrimSpace(anaChartFormat))
		}
		if graph && chartFormat != "png" && chartFormat != "html" {
			return fmt.Errorf("unsupported --chart-format: %s (use png|html)", chartFormat)
		}
		sheet := c.XLSXSheet
		if flags.Changed("sheet-name") {
			sheet = anaSheetName
		}
		if flags.Changed("patient") != flags.Changed("threshold") {
			return fmt.Errorf("--threshold and --patient must be given together")
		}

		files, missing := utils.ExpandInputs(args)
		for _, m := range missing {
			if !anaKeepGoing {
				return fmt.Errorf("input not found: %s", m)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Skipping %s: no such file\n", warnMark, m)
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		if graph {
			dir, err := utils.ExpandHome(chartDir)
			if err != nil {
				return err
			}
			if err := utils.EnsureDir(dir); err != nil {
				return fmt.Errorf("ensure chart dir: %w", err)
			}
			chartDir = dir
		}

		job := analyzeJob{
			onScreen:    onScreen,
			graph:       graph,
			chartDir:    chartDir,
			chartFormat: chartFormat,
			precision:   c.Precision,
			heightIn:    c.ChartHeightIn,
			sheet:       sheet,
			threshold:   flags.Changed("threshold"),
		}

		stems := chartStems(files)
		total := len(files)
		failed := 0
		for i, path := range files {
			if total > 1 {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if err := job.run(cmd, path, stems[i]); err != nil {
				if !anaKeepGoing {
					return err
				}
				failed++
				logger.Logger.Warnw("file skipped", "path", path, "error", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", warnMark, filepath.Base(path), err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

type analyzeJob struct {
	onScreen    bool
	graph       bool
	chartDir    string
	chartFormat string
	precision   int
	heightIn    float64
	sheet       string
	threshold   bool
}

func (j analyzeJob) run(cmd *cobra.Command, path, base string) error {
	out := cmd.OutOrStdout()
	g, err := parser.LoadFile(path, parser.Options{Sheet: j.sheet})
	if err != nil {
		return err
	}
	rows, cols := g.Dims()
	logger.Logger.Debugw("grid loaded", "path", path, "patients", rows, "days", cols)

	summaries := []analysis.Summary{analysis.Summarise(base, g)}
	if anaNormalise {
		ng, err := analysis.NormalisePatient(g)
		if err != nil {
			return err
		}
		summaries = append(summaries, analysis.Summarise(base+"-normalised", ng))
	}

	if j.threshold {
		n, err := analysis.DailyAboveThreshold(g, anaPatient, anaThreshold)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "patient %d: %d days above %s\n", anaPatient, n, formatFlagFloat(anaThreshold))
	}

	for _, s := range summaries {
		if j.onScreen {
			if len(summaries) > 1 {
				fmt.Fprintf(out, "# %s\n", s.Source)
			}
			if err := views.WriteTable(out, s, j.precision); err != nil {
				return fmt.Errorf("write table: %w", err)
			}
		}
		if j.graph {
			target, err := j.writeChart(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Wrote chart to %s\n", okMark, target)
		}
	}
	return nil
}

func (j analyzeJob) writeChart(s analysis.Summary) (string, error) {
	target := filepath.Join(j.chartDir, s.Source+"."+j.chartFormat)
	if j.chartFormat == "png" {
		if err := views.Visualize(target, s, views.ChartOptions{HeightIn: j.heightIn}); err != nil {
			return "", err
		}
		return target, nil
	}
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create chart: %w", err)
	}
	if err := views.VisualizeHTML(f, s); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close chart: %w", err)
	}
	return target, nil
}

// chartStems names each input's charts after its base name without the
// extension. Inputs sharing a base name get -1, -2, ... suffixes in input
// order so no chart overwrites another from the same run.
func chartStems(files []string) []string {
	stems := make([]string, len(files))
	count := map[string]int{}
	for i, path := range files {
		stems[i] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		count[stems[i]]++
	}
	taken := map[string]bool{}
	for _, s := range stems {
		if count[s] == 1 {
			taken[s] = true
		}
	}
	next := map[string]int{}
	for i, s := range stems {
		if count[s] == 1 {
			continue
		}
		for {
			next[s]++
			name := s + "-" + strconv.Itoa(next[s])
			if !taken[name] {
				taken[name] = true
				stems[i] = name
				break
			}
		}
	}
	return stems
}

func formatFlagFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Var(newTruthyBool(&anaOnScreen, false), "onscreen", "output statistics on screen (1/0, yes/no, on/off, true/false)")
	analyzeCmd.Flags().Var(newTruthyBool(&anaGraph, true), "graph", "output statistics as a chart (1/0, yes/no, on/off, true/false)")
	analyzeCmd.Flags().StringVar(&anaChartDir, "chart-dir", "", "directory for chart files (overrides config)")
	analyzeCmd.Flags().StringVar(&anaChartFormat, "chart-format", "", "chart format: png | html (overrides config)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to read (default first sheet)")
	analyzeCmd.Flags().BoolVar(&anaKeepGoing, "keep-going", false, "report failing files and continue with the rest")
	analyzeCmd.Flags().Float64Var(&anaThreshold, "threshold", 0, "count days above this value for --patient")
	analyzeCmd.Flags().IntVar(&anaPatient, "patient", 0, "0-based patient row used with --threshold")
	analyzeCmd.Flags().BoolVar(&anaNormalise, "normalise", false, "also summarise the per-patient normalised grid")
}
