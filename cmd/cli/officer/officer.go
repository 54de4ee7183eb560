package officer

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nyaya-ai/nyaya/cmd/cli/clidb"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/models"
	"github.com/nyaya-ai/nyaya/internal/repositories"
	"github.com/nyaya-ai/nyaya/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "officer",
	Title: "Officer accounts",
}

func init() {
	clidb.AddFlags(Add)
	Add.Flags().String("name", "", "officer's full name")
	Add.Flags().String("password", "", "login password, defaults to NYAYA_OFFICER_PASSWORD")
	Command.AddCommand(Add)
}

var Command = &cobra.Command{
	Use:     "officer",
	GroupID: "officer",
	Short:   "Manage officer logins",
}

var Add = &cobra.Command{
	Use:   "add [badge number]",
	Short: "Provision an officer login",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			logger      = clidb.Logger(cmd)
			name, _     = cmd.Flags().GetString("name")
			password, _ = cmd.Flags().GetString("password")
			db          *sqlite.Database
			officer     *models.Officer
			err         error
		)
		if password == "" {
			password = os.Getenv("NYAYA_OFFICER_PASSWORD")
		}
		if db, err = clidb.Open(cmd.Context(), cmd, logger); err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.LogAttrs(cmd.Context(), slog.LevelError, "error closing database", errors.SlogError(closeErr))
			}
		}()

		officers := repositories.NewOfficerRepository(db, logger)
		if officer, err = officers.Create(cmd.Context(), args[0], name, password); err != nil {
			return errors.Wrap(err, "create officer", slog.String("badge", args[0]))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created officer %s (%s) with id %d\n",
			officer.BadgeNumber, officer.Name, officer.ID)
		return nil
	},
}
