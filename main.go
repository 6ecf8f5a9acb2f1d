package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nconklindev/codeplug/internal/config"
	"github.com/nconklindev/codeplug/internal/converter"
	"github.com/nconklindev/codeplug/internal/report"
	"github.com/nconklindev/codeplug/internal/types"
	"github.com/nconklindev/codeplug/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   "codeplug",
		Short: "Convert amateur-radio codeplug channel lists",
		Long: `codeplug converts channel lists between a RepeaterBook export, the RT Systems
FT-70D import layout and the Anytone CPS import layout.

Use --yaesu to rewrite a RepeaterBook sheet into FT-70D format in place, or
--anytone NAME to add an Anytone sheet built from an FT-70D sheet.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			config.Setup(v, cfgFile)

			loaded, used, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if used != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.HelpStyle.Render("Using config file: "+used))
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if anytone, _ := cmd.Flags().GetString("anytone"); cmd.Flags().Changed("anytone") && strings.TrimSpace(anytone) == "" {
				return errors.New("--anytone requires a non-empty sheet name")
			}
			cmd.SilenceUsage = true
			return runConvert(cmd, cfg)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./codeplug.yaml or ~/.config/codeplug/codeplug.yaml)")

	flags := rootCmd.Flags()
	flags.StringP("input", "i", "", "input file (.xlsx or .csv)")
	flags.StringP("output", "o", "", "output file (.xlsx or .csv)")
	flags.StringP("sheet", "s", config.DefaultSheet, "sheet to modify or translate")
	flags.StringP("anytone", "a", "", "sheet name to create in Anytone CPS format")
	flags.BoolP("yaesu", "y", false, "rewrite the RepeaterBook sheet into RT Systems FT-70D format")
	flags.String("report", "", "write a YAML conversion report to this path")

	_ = rootCmd.MarkFlagRequired("input")
	_ = rootCmd.MarkFlagRequired("output")
	rootCmd.MarkFlagsOneRequired("anytone", "yaesu")
	rootCmd.MarkFlagsMutuallyExclusive("anytone", "yaesu")

	_ = v.BindPFlag("sheet", flags.Lookup("sheet"))
	_ = v.BindPFlag("report", flags.Lookup("report"))

	rootCmd.AddCommand(newUICmd(&cfg), newVersionCmd())
	return rootCmd
}

func runConvert(cmd *cobra.Command, cfg *config.Config) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	anytone, _ := cmd.Flags().GetString("anytone")

	opts := converter.Options{
		InputFile:   input,
		OutputFile:  output,
		Mode:        types.ModeFT70,
		SourceSheet: cfg.Sheet,
		Defaults:    cfg.Anytone.Defaults,
	}
	if anytone != "" {
		opts.Mode = types.ModeAnytone
		opts.TargetSheet = anytone
	}

	result, err := converter.ConvertFile(opts, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("✓ Wrote %s", result.OutputFile)))
	fmt.Fprint(out, ui.Summary(result))

	if cfg.Report != "" {
		if err := report.Write(cfg.Report, report.New(result, time.Now())); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.HelpStyle.Render("Report: "+cfg.Report))
	}
	return nil
}

func newUICmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Pick a file and conversion interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			settings := ui.Settings{
				SourceSheet:  c.Sheet,
				AnytoneSheet: c.AnytoneSheet,
				Defaults:     c.Anytone.Defaults,
			}

			p := tea.NewProgram(ui.InitialModel(settings), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err := p.Run()
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of codeplug",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codeplug %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
