/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ssargent/smbreplay/pkg/convert"
	"github.com/ssargent/smbreplay/pkg/gci"
	"github.com/ssargent/smbreplay/pkg/replay"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the header of a replay",
	Long: `Show the replay header. For GCI files the memory card entry, the
comments and the result of the checksum check are shown too.

Examples:
  smbreplay inspect replay.gci
  smbreplay inspect -i binary capture.dat --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)
		inFormat, _ := cmd.Flags().GetString("in-format")
		asJSON, _ := cmd.Flags().GetBool("json")

		format, err := resolveFormat(inFormat, cfg.Convert.InFormat, args[0])
		if err != nil {
			return fmt.Errorf("input format: %w", err)
		}

		c, err := requireContainer()
		if err != nil {
			return err
		}

		data, err := convert.LoadFile(args[0])
		if err != nil {
			return err
		}

		report, err := inspectReplay(c.NewConverter(convert.WithLogger(loggerFromContext(cmd))), data, format)
		if err != nil {
			return err
		}

		if asJSON {
			return writeInspectionJSON(cmd.OutOrStdout(), report)
		}
		writeInspection(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("in-format", "i", "", "input file format (binary, gci, json, yaml)")
	inspectCmd.Flags().Bool("json", false, "print the report as JSON")
}

// inspection is what inspect reports about a replay
type inspection struct {
	Format string        `json:"format"`
	Size   int           `json:"size"`
	Header replay.Header `json:"header"`
	Card   *cardReport   `json:"card,omitempty"`
}

type cardReport struct {
	GameID           string `json:"game_id"`
	FileName         string `json:"file_name"`
	Blocks           uint16 `json:"blocks"`
	GameComment      string `json:"game_comment"`
	FileComment      string `json:"file_comment"`
	Checksum         uint16 `json:"checksum"`
	ChecksumValid    bool   `json:"checksum_valid"`
	UncompressedSize uint64 `json:"uncompressed_size"`
	PayloadSize      int    `json:"payload_size"`
}

func inspectReplay(converter *convert.Converter, data []byte, format convert.Format) (*inspection, error) {
	rec, err := converter.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s replay: %w", format, err)
	}

	report := &inspection{Format: format.String(), Size: len(data), Header: rec.Header}
	if format != convert.FormatGCI {
		return report, nil
	}

	info, err := gci.ParseInfo(data)
	if err != nil {
		return nil, err
	}

	verifyErr := gci.Verify(data)
	if verifyErr != nil && !errors.Is(verifyErr, gci.ErrChecksumMismatch) {
		return nil, verifyErr
	}

	report.Card = &cardReport{
		GameID:           info.Entry.GameID(),
		FileName:         info.Entry.FileName,
		Blocks:           info.Entry.BlockCount,
		GameComment:      info.GameComment,
		FileComment:      info.FileComment,
		Checksum:         info.Checksum,
		ChecksumValid:    verifyErr == nil,
		UncompressedSize: info.UncompressedSize,
		PayloadSize:      info.PayloadSize,
	}
	return report, nil
}

func writeInspection(out io.Writer, report *inspection) {
	fmt.Fprintf(out, "Format: %s (%d bytes)\n\n", report.Format, report.Size)

	if card := report.Card; card != nil {
		checksum := "ok"
		if !card.ChecksumValid {
			checksum = "MISMATCH"
		}
		rows := [][]string{
			{"game", card.GameID},
			{"file name", card.FileName},
			{"blocks", fmt.Sprint(card.Blocks)},
			{"comment", card.GameComment},
			{"comment", card.FileComment},
			{"checksum", fmt.Sprintf("%#04x (%s)", card.Checksum, checksum)},
			{"replay size", fmt.Sprintf("%d bytes, %d compressed", card.UncompressedSize, card.PayloadSize)},
		}
		fmt.Fprintln(out, renderTable(out, []string{"Card", "Value"}, rows, nil))
		fmt.Fprintln(out)
	}

	fields := report.Header.Fields()
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []string{f.Name, fmt.Sprint(f.Value)})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func writeInspectionJSON(out io.Writer, report *inspection) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
