package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/potent-zedlee/templar-archives/internal/config"
	"github.com/potent-zedlee/templar-archives/internal/hand"
	"github.com/potent-zedlee/templar-archives/internal/logging"
	"github.com/potent-zedlee/templar-archives/internal/pipeline"
	"github.com/potent-zedlee/templar-archives/internal/server"
	"github.com/potent-zedlee/templar-archives/pkg/util"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "hae",
	Short:        "hae - poker hand analysis engine",
	Long:         "Extracts structured hand histories from poker video segments using a multimodal model.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logging.Init(level, cfg.Logging.Format)

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./hae.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	analyzeCmd.Flags().String("url", "", "YouTube video URL")
	analyzeCmd.Flags().StringArrayP("segment", "s", nil, "segment as start-end[=label], e.g. 00:10:00-00:25:00=Final Table")
	analyzeCmd.Flags().String("platform", string(analyzer.PlatformEPT), "prompt platform (ept or triton)")
	analyzeCmd.Flags().String("out", "", "write results JSON to this file")
	analyzeCmd.Flags().Bool("json", false, "print results JSON to stdout")
	_ = analyzeCmd.MarkFlagRequired("url")
	_ = analyzeCmd.MarkFlagRequired("segment")

	summarizeCmd.Flags().StringP("file", "f", "-", "hand JSON file (- for stdin)")

	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(configCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		srv, err := server.New(log.Logger, server.Options{
			Addr:              cfg.Server.Addr,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			CORSOrigins:       cfg.Server.CORSOrigins,
			ServiceName:       cfg.Tracing.ServiceName,
		}, a.pipeline, a.analyzer)
		if err != nil {
			return err
		}

		return srv.Run(cmd.Context())
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze video segments and extract hands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		url, _ := cmd.Flags().GetString("url")
		segArgs, _ := cmd.Flags().GetStringArray("segment")
		platform, _ := cmd.Flags().GetString("platform")
		outPath, _ := cmd.Flags().GetString("out")
		asJSON, _ := cmd.Flags().GetBool("json")

		inputs, err := segmentInputs(segArgs)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		var spinner *pterm.SpinnerPrinter
		if !asJSON {
			spinner, _ = pterm.DefaultSpinner.Start(fmt.Sprintf("Analyzing %d segment(s)...", len(inputs)))
		}

		results := a.pipeline.Analyze(cmd.Context(), pipeline.AnalyzeOptions{
			SourceURL: url,
			Segments:  inputs,
			Platform:  analyzer.ParsePlatform(platform),
		})

		if spinner != nil {
			spinner.Success("Analysis finished")
		}

		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		if outPath != "" {
			if err := util.WriteFile(outPath, data); err != nil {
				return fmt.Errorf("write results: %w", err)
			}
		}
		if asJSON {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}

		renderResults(inputs, results)
		if outPath != "" {
			pterm.Success.Printfln("Results written to %s", outPath)
		}
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize one hand record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		path, _ := cmd.Flags().GetString("file")

		raw, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		if !json.Valid(raw) {
			return fmt.Errorf("%s: malformed JSON", path)
		}
		h, err := hand.Parse(raw)
		if err != nil {
			log.Warn().Err(err).Msg("hand record not understood")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), analyzer.MsgSummaryFailed)
			return err
		}

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.analyzer.Summarize(cmd.Context(), h))
		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		data, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func segmentInputs(segArgs []string) ([]pipeline.SegmentInput, error) {
	inputs := make([]pipeline.SegmentInput, 0, len(segArgs))
	for _, s := range segArgs {
		arg, err := util.ParseSegmentArg(s)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, pipeline.SegmentInput{Start: arg.Start, End: arg.End, Label: arg.Label})
	}
	return inputs, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func renderResults(inputs []pipeline.SegmentInput, results []analyzer.Result) {
	rows := [][]string{{"Segment", "Window", "Hands", "Error"}}
	for i, r := range results {
		in := inputs[i]
		label := in.Label
		if label == "" {
			label = "Gameplay"
		}
		rows = append(rows, []string{
			label,
			util.FormatSeconds(in.Start) + " - " + util.FormatSeconds(in.End),
			fmt.Sprint(len(r.Hands)),
			r.Error,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
