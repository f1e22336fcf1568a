package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/cahier/internal/cell"
	"github.com/zjrosen/cahier/internal/records"
)

var validateCmd = &cobra.Command{
	Use:   "validate <records-file>",
	Short: "Validate every cell record in a records file",
	Long: `Validate that every record in a notebook records file can be converted
into a cell: a well-formed UUID cell_id, code, a folded flag, and metadata.

Each record gets one line of output. The command exits non-zero when any
record is invalid.

Examples:
  cahier validate notebook.json
  cahier validate notebook.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	recs, err := records.Load(args[0])
	if err != nil {
		return err
	}

	invalid := validateRecords(cmd.OutOrStdout(), recs)
	if invalid > 0 {
		return fmt.Errorf("%d of %d records invalid", invalid, len(recs))
	}
	return nil
}

// validateRecords converts each record in turn, writing one line per
// record, and returns how many failed.
func validateRecords(w io.Writer, recs []cell.Record) int {
	invalid := 0
	for i, rec := range recs {
		c, err := cell.NewFromRecord(rec)
		if err != nil {
			invalid++
			fmt.Fprintf(w, "record %d: %v\n", i, err)
			continue
		}
		fmt.Fprintf(w, "record %d: ok (%s)\n", i, c.ID)
	}
	return invalid
}
