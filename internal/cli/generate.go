package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidalpow/backend-go/internal/app"
	"github.com/tidalpow/backend-go/internal/metrics"
	"github.com/tidalpow/backend-go/internal/models"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch tide data, rank every station and publish the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			gen, err := app.NewGenerator(cmd.Context(), cfg, cacheConfig(), app.Dependencies{
				Metrics: metrics.New(nil),
			})
			if err != nil {
				return err
			}

			rep, err := gen.Run(cmd.Context())
			if err != nil {
				return err
			}

			destination := cfg.ReportOutputPath
			if cfg.ReportBucket != "" {
				destination = "s3://" + cfg.ReportBucket
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d stations for %s to %s (run %s)\n",
				len(rep.Stations), rep.ReferenceDate, destination, rep.RunID)
			return printTop(cmd.OutOrStdout(), rep, top)
		},
	}

	cmd.Flags().Int("days", 0, "days to cover from today onward (default 7)")
	cmd.Flags().Int("days-back", 0, "days before today to include (default 2)")
	cmd.Flags().String("output", "", "report file path when no bucket is set")
	cmd.Flags().String("bucket", "", "S3 bucket to publish the report to")
	cmd.Flags().IntVar(&top, "top", 5, "number of top-ranked stations to print")
	cobra.CheckErr(v.BindPFlag(keyReportDays, cmd.Flags().Lookup("days")))
	cobra.CheckErr(v.BindPFlag(keyReportDaysBack, cmd.Flags().Lookup("days-back")))
	cobra.CheckErr(v.BindPFlag(keyOutputPath, cmd.Flags().Lookup("output")))
	cobra.CheckErr(v.BindPFlag(keyBucket, cmd.Flags().Lookup("bucket")))
	return cmd
}

func printTop(out io.Writer, rep *models.Report, top int) error {
	if top <= 0 || len(rep.Stations) == 0 {
		return nil
	}
	if top > len(rep.Stations) {
		top = len(rep.Stations)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTATION\tREGION\tPOWER (W/m²)")
	for _, st := range rep.Stations[:top] {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\n", st.PowerRank, st.Station, st.Region, st.TodaysPowerWattsPerSqm)
	}
	return w.Flush()
}
