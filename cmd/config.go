package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/inflammation-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set inflammation configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "chart_dir: %s\n", c.ChartDir)
		fmt.Fprintf(out, "chart_format: %s\n", c.ChartFormat)
		fmt.Fprintf(out, "chart_height_in: %.2f\n", c.ChartHeightIn)
		fmt.Fprintf(out, "precision: %d\n", c.Precision)
		fmt.Fprintf(out, "graph_default: %t\n", c.GraphDefault)
		fmt.Fprintf(out, "onscreen_default: %t\n", c.OnScreenDefault)
		if c.XLSXSheet != "" {
			fmt.Fprintf(out, "xlsx_sheet: %s\n", c.XLSXSheet)
		}
		fmt.Fprintf(out, "roster_dir: %s\n", c.RosterDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		next := *cfg
		switch key {
		case "chart_dir":
			next.ChartDir = val
		case "chart_format":
			next.ChartFormat = strings.ToLower(val)
		case "chart_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for chart_height_in: %w", err)
			}
			next.ChartHeightIn = f
		case "precision":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for precision: %w", err)
			}
			next.Precision = i
		case "graph_default":
			b, err := parseTruthy(val)
			if err != nil {
				return fmt.Errorf("invalid bool for graph_default: %w", err)
			}
			next.GraphDefault = b
		case "onscreen_default":
			b, err := parseTruthy(val)
			if err != nil {
				return fmt.Errorf("invalid bool for onscreen_default: %w", err)
			}
			next.OnScreenDefault = b
		case "xlsx_sheet":
			next.XLSXSheet = val
		case "roster_dir":
			next.RosterDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(&next, cfgFile); err != nil {
			return err
		}
		cfg = &next
		fmt.Fprintf(cmd.OutOrStdout(), "%s Saved config\n", okMark)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
