/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/smbreplay/pkg/api"
	"github.com/ssargent/smbreplay/pkg/convert"
	"github.com/ssargent/smbreplay/pkg/storage"
)

// libraryCmd represents the library command
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local replay library",
	Long: `Store replays in the local library under the data directory, then
list, export or delete them by id.

Examples:
  smbreplay library import replay.gci
  smbreplay library list
  smbreplay library export 2Yq8bX0Kx0pD1Xq0vL3W2yF5ZbQ out.json -o json`,
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Add replays to the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inFormat, _ := cmd.Flags().GetString("in-format")
		return withLibrary(cmd, func(lib api.ReplayLibrary, converter *convert.Converter) error {
			cfg := configFromContext(cmd)
			for _, path := range args {
				format, err := resolveFormat(inFormat, cfg.Convert.InFormat, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				id, err := importReplay(lib, converter, path, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, path)
			}
			return nil
		})
	},
}

var libraryExportCmd = &cobra.Command{
	Use:   "export <id> <out-file>",
	Short: "Write a stored replay to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outFormat, _ := cmd.Flags().GetString("out-format")
		return withLibrary(cmd, func(lib api.ReplayLibrary, converter *convert.Converter) error {
			cfg := configFromContext(cmd)
			format, err := resolveFormat(outFormat, cfg.Convert.OutFormat, args[1])
			if err != nil {
				return err
			}
			n, err := exportReplay(lib, converter, args[0], args[1], format)
			if err != nil {
				return err
			}
			cmd.Printf("Wrote %s (%s, %d bytes)\n", args[1], format, n)
			return nil
		})
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored replays",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withLibrary(cmd, func(lib api.ReplayLibrary, _ *convert.Converter) error {
			entries, err := lib.List()
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			writeEntries(cmd.OutOrStdout(), entries)
			return nil
		})
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Remove replays from the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(cmd, func(lib api.ReplayLibrary, _ *convert.Converter) error {
			for _, arg := range args {
				if err := deleteReplay(lib, arg); err != nil {
					return err
				}
				cmd.Printf("Deleted %s\n", arg)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryImportCmd, libraryExportCmd, libraryListCmd, libraryDeleteCmd)

	libraryImportCmd.Flags().StringP("in-format", "i", "", "input file format (binary, gci, json, yaml)")
	libraryExportCmd.Flags().StringP("out-format", "o", "", "output file format (binary, gci, json, yaml)")
	libraryListCmd.Flags().Bool("json", false, "print the listing as JSON")
}

// withLibrary opens the library under the configured data dir for the
// duration of fn
func withLibrary(cmd *cobra.Command, fn func(api.ReplayLibrary, *convert.Converter) error) error {
	c, err := requireContainer()
	if err != nil {
		return err
	}
	cfg := configFromContext(cmd)
	logger := loggerFromContext(cmd)

	lib, err := c.GetLibraryFactory().OpenLibrary(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lib.Close(); err != nil {
			logger.Warn("failed to close replay library", "error", err)
		}
	}()

	return fn(lib, c.NewConverter(convert.WithLogger(logger)))
}

func importReplay(lib api.ReplayLibrary, converter *convert.Converter, path string, format convert.Format) (ksuid.KSUID, error) {
	data, err := convert.LoadFile(path)
	if err != nil {
		return ksuid.Nil, err
	}
	rec, err := converter.Decode(data, format)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return lib.Put(rec)
}

func exportReplay(lib api.ReplayLibrary, converter *convert.Converter, rawID, path string, format convert.Format) (int, error) {
	id, err := ksuid.Parse(rawID)
	if err != nil {
		return 0, fmt.Errorf("invalid replay id %q: %w", rawID, err)
	}
	rec, err := lib.Get(id)
	if err != nil {
		return 0, err
	}
	out, err := converter.Encode(rec, format)
	if err != nil {
		return 0, err
	}
	if err := convert.SaveFile(path, out); err != nil {
		return 0, err
	}
	return len(out), nil
}

func deleteReplay(lib api.ReplayLibrary, rawID string) error {
	id, err := ksuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid replay id %q: %w", rawID, err)
	}
	return lib.Delete(id)
}

func writeEntries(out io.Writer, entries []storage.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No replays found")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID.String(),
			e.CreatedAt.Local().Format(time.RFC3339),
			fmt.Sprint(e.Header.LevelID),
			fmt.Sprintf("%s.FL%d", e.Header.DifficultyName(), e.Header.LevelFloor),
			fmt.Sprint(e.Header.ScorePoints),
			fmt.Sprint(e.Size),
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(out, []string{"ID", "Created", "Level", "Floor", "Score", "Bytes"}, rows, aligns))
}
