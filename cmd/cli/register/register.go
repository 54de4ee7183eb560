package register

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nyaya-ai/nyaya/cmd/cli/clidb"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	firregister "github.com/nyaya-ai/nyaya/internal/register"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "register",
	Title: "FIR register",
}

func init() {
	clidb.AddFlags(Export)
	Export.Flags().String("out", "fir-register.xlsx", "output file")
	Export.Flags().String("status", "", "only export FIRs with this status, pending or solved")
	Export.Flags().String("type", "", "only export FIRs of this incident type")
	Command.AddCommand(Export)
}

var Command = &cobra.Command{
	Use:     "register",
	GroupID: "register",
	Short:   "Work with the station FIR register",
}

var Export = &cobra.Command{
	Use:   "export",
	Short: "Export the FIR register as an Excel workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			logger      = clidb.Logger(cmd)
			out, _      = cmd.Flags().GetString("out")
			status, _   = cmd.Flags().GetString("status")
			incident, _ = cmd.Flags().GetString("type")
			filter      = models.FIRFilter{IncidentType: incident} //nolint:exhaustruct // unbounded listing
			db          *sqlite.Database
			firs        []models.FIR
			file        *os.File
			err         error
		)
		if status != "" {
			if filter.Status, err = models.ParseFIRStatus(status); err != nil {
				return err
			}
		}
		if db, err = clidb.Open(cmd.Context(), cmd, logger); err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.LogAttrs(cmd.Context(), slog.LevelError, "error closing database", errors.SlogError(closeErr))
			}
		}()

		if firs, _, err = repositories.NewFIRRepository(db, logger).List(cmd.Context(), filter); err != nil {
			return errors.Wrap(err, "list FIRs")
		}
		if file, err = os.Create(out); err != nil {
			return errors.Wrap(err, "create output file", slog.String("path", out))
		}
		if err = firregister.Write(file, firs); err != nil {
			_ = file.Close()
			return errors.Wrap(err, "write register", slog.String("path", out))
		}
		if err = file.Close(); err != nil {
			return errors.Wrap(err, "close output file", slog.String("path", out))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d FIRs to %s\n", len(firs), out)
		return nil
	},
}
