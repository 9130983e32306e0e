/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/ssargent/smbreplay/pkg/api"
	"github.com/ssargent/smbreplay/pkg/convert"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <in-file> <out-file>",
	Short: "Convert a replay between formats",
	Long: `Convert a replay between the binary capture, JSON, YAML and GCI formats.

When a format flag is omitted the config default is used, then the file
extension (.bin, .json, .yaml, .gci).

Examples:
  smbreplay convert -i binary -o gci replay.bin replay.gci
  smbreplay convert replay.gci replay.json
  smbreplay convert -i json -o gci --metrics-file ./smbreplay.prom in.json out.gci`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)
		logger := loggerFromContext(cmd)

		inFormat, _ := cmd.Flags().GetString("in-format")
		outFormat, _ := cmd.Flags().GetString("out-format")
		metricsFile, _ := cmd.Flags().GetString("metrics-file")
		if metricsFile == "" {
			metricsFile = cfg.Metrics.TextfilePath
		}

		from, err := resolveFormat(inFormat, cfg.Convert.InFormat, args[0])
		if err != nil {
			return fmt.Errorf("input format: %w", err)
		}
		to, err := resolveFormat(outFormat, cfg.Convert.OutFormat, args[1])
		if err != nil {
			return fmt.Errorf("output format: %w", err)
		}

		c, err := requireContainer()
		if err != nil {
			return err
		}

		job := convertJob{
			InPath:      args[0],
			OutPath:     args[1],
			From:        from,
			To:          to,
			MetricsFile: metricsFile,
		}
		n, err := runConvert(c.NewConverter, job, logger)
		if err != nil {
			return err
		}

		cmd.Printf("Wrote %s (%s, %d bytes)\n", job.OutPath, to, n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("in-format", "i", "", "input file format (binary, gci, json, yaml)")
	convertCmd.Flags().StringP("out-format", "o", "", "output file format (binary, gci, json, yaml)")
	convertCmd.Flags().String("metrics-file", "", "write conversion metrics to this Prometheus textfile")
}

type convertJob struct {
	InPath      string
	OutPath     string
	From        convert.Format
	To          convert.Format
	MetricsFile string
}

// runConvert converts one file and returns the number of bytes written
func runConvert(newConverter func(...convert.Option) *convert.Converter, job convertJob, logger *slog.Logger) (int, error) {
	opts := []convert.Option{convert.WithLogger(logger)}

	var metrics *api.Metrics
	if job.MetricsFile != "" {
		metrics = api.NewMetrics(prometheus.NewRegistry())
		opts = append(opts, convert.WithObserver(metrics))
	}
	converter := newConverter(opts...)

	input, err := convert.LoadFile(job.InPath)
	if err != nil {
		return 0, err
	}

	output, convErr := converter.Convert(input, job.From, job.To)

	// failed conversions are counted too
	if metrics != nil {
		if err := metrics.WriteTextfile(job.MetricsFile); err != nil {
			logger.Warn("failed to write metrics textfile", "path", job.MetricsFile, "error", err)
		}
	}
	if convErr != nil {
		return 0, convErr
	}

	if err := convert.SaveFile(job.OutPath, output); err != nil {
		return 0, err
	}
	return len(output), nil
}

// resolveFormat picks the flag value, then the config default, then the
// file extension
func resolveFormat(flagValue, configValue, path string) (convert.Format, error) {
	switch {
	case flagValue != "":
		return convert.ParseFormat(flagValue)
	case configValue != "":
		return convert.ParseFormat(configValue)
	default:
		return convert.FormatFromPath(path)
	}
}
