package predict

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/nyaya-ai/nyaya/cmd/cli/clidb"
	"github.com/nyaya-ai/nyaya/internal/ai"
	"github.com/nyaya-ai/nyaya/internal/errors"
	"github.com/nyaya-ai/nyaya/internal/fallback"
	"github.com/nyaya-ai/nyaya/internal/prediction"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "predict",
	Title: "Section prediction",
}

func init() {
	provider, ok := os.LookupEnv("NYAYA_AI_PROVIDER")
	if !ok {
		provider = "openai"
	}
	Command.Flags().String("provider", provider, "openai, anthropic or none")
	Command.Flags().String("model", os.Getenv("NYAYA_AI_MODEL"), "model name, empty for the provider default")
	Command.Flags().String("incident-type", "", "incident type, e.g. Theft")
	Command.Flags().String("location", "", "where the incident happened")
}

var Command = &cobra.Command{
	Use:     "predict [complaint text]",
	GroupID: "predict",
	Short:   "Suggest legal sections",
	Long:    `Suggests BNS sections for a complaint the same way the police console does, falling back to keyword matching`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			logger   = clidb.Logger(cmd)
			flags    = cmd.Flags()
			name, _  = flags.GetString("provider")
			model, _ = flags.GetString("model")
			kind, _  = flags.GetString("incident-type")
			place, _ = flags.GetString("location")
			provider ai.Provider
			result   prediction.Result
			err      error
		)
		if provider, err = ai.NewProvider(ai.Config{
			Provider:         name,
			Model:            model,
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
			AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		}); errors.Is(err, ai.ErrMissingAPIKey) {
			logger.LogAttrs(cmd.Context(), slog.LevelWarn, "no API key, using keyword matching", errors.SlogError(err))
			provider = ai.Disabled{}
		} else if err != nil {
			return errors.Wrap(err, "create provider")
		}
		cfg := prediction.DefaultConfig()
		cfg.Model = model
		gateway := prediction.NewGateway(provider, fallback.NewDefaultMatcher(), cfg, logger)

		if result, err = gateway.PredictSections(cmd.Context(), strings.Join(args, " "), prediction.Incident{
			IncidentType: kind,
			Location:     place,
		}); err != nil {
			return errors.Wrap(err, "predict sections")
		}

		out := cmd.OutOrStdout()
		if result.Fallback {
			_, _ = fmt.Fprintln(out, "Language model unavailable, showing keyword matches.")
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd // column padding
		_, _ = fmt.Fprintln(tw, "SECTION\tTITLE\tCATEGORY\tCONFIDENCE")
		for _, p := range result.Predictions {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f%%\n",
				p.Section.SectionNumber, p.Section.Title, p.Section.Category, p.Confidence)
		}
		if err = tw.Flush(); err != nil {
			return errors.Wrap(err, "write table")
		}
		return nil
	},
}
