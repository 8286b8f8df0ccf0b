package classify

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/cmd/util"
	"github.com/mpapenbr/stagerace-classification-go/pkg/config"
	"github.com/mpapenbr/stagerace-classification-go/pkg/processing"
	"github.com/mpapenbr/stagerace-classification-go/pkg/racefile"
	"github.com/mpapenbr/stagerace-classification-go/pkg/registry"
)

var output string

func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <racefile>",
		Short: "prints stage rankings and race classifications of a race file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := util.SetupLogger(); err != nil {
				return err
			}
			appConfig, err := config.Resolve()
			if err != nil {
				return err
			}
			return classify(cmd.OutOrStdout(), args[0], appConfig, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func classify(w io.Writer, filename string, appConfig *config.Config, format string) error {
	reg := registry.New()
	applied, err := Load(filename, reg)
	if err != nil {
		return err
	}
	return Print(w, reg, applied.RaceID, appConfig, format)
}

// Load reads the race file into reg
func Load(filename string, reg *registry.Registry) (*racefile.Applied, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := racefile.Parse(f)
	if err != nil {
		return nil, err
	}
	applied, err := content.Apply(reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	log.Debug("race file loaded",
		log.String("file", filename),
		log.Int("race", applied.RaceID),
		log.Int("stages", len(applied.StageIDs)),
		log.Int("riders", len(applied.Riders)))
	return applied, nil
}

// Print writes the classification report of the race. Format is text or json.
func Print(
	w io.Writer,
	reg *registry.Registry,
	raceID int,
	appConfig *config.Config,
	format string,
) error {
	if appConfig.Ordering == config.OrderingGC {
		log.Warn("points and mountain classification are listed in general classification order",
			log.String("hint", "use --ordering points to rank by points"))
	}
	proc := processing.NewProcessor(
		processing.WithLookup(reg),
		processing.WithBunchingThreshold(appConfig.BunchingThreshold))
	report, err := buildReport(reg, proc, raceID, appConfig.Ordering)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return writeJSON(w, report)
	case "text", "":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
