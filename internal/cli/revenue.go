package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidalpow/backend-go/internal/app"
	"github.com/tidalpow/backend-go/internal/energy"
)

func newRevenueCmd(v *viper.Viper) *cobra.Command {
	var (
		power   float64
		area    string
		price   float64
		station string
	)

	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Estimate daily revenue for a plant of a given collector area",
		Long: `Estimates daily revenue as power × area × 24 h × price per kWh.
Power comes from --power, or from today's figure for --station in the
latest report. An empty or invalid area yields zero revenue.`,
		Example: `  tidalpow revenue --power 10 --area 100
  tidalpow revenue --station Okha --area 2500 --price 6.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if price == 0 {
				price = cfg.PricePerKWh
			}
			areaSqm := energy.ParseArea(area)

			if station != "" {
				service, err := app.NewDashboardService(cmd.Context(), cfg, cacheConfig(), app.Dependencies{})
				if err != nil {
					return err
				}
				estimate, err := service.Revenue(cmd.Context(), station, areaSqm, price)
				if err != nil {
					return err
				}
				power = estimate.PowerWattsPerSqm
				fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: %.3f W/m²\n", estimate.Station, estimate.Date, power)
			} else if !cmd.Flags().Changed("power") {
				return errors.New("either --power or --station is required")
			}

			revenue := energy.EstimateDailyRevenue(power, areaSqm, price)
			fmt.Fprintf(cmd.OutOrStdout(), "Daily revenue: %.2f (%.2f m² at %.2f per kWh)\n", revenue, areaSqm, price)
			return nil
		},
	}

	cmd.Flags().Float64Var(&power, "power", 0, "average power in W/m²")
	cmd.Flags().StringVar(&area, "area", "", "collector area in m²")
	cmd.Flags().Float64Var(&price, "price", 0, "tariff per kWh (default from PRICE_PER_KWH)")
	cmd.Flags().StringVar(&station, "station", "", "take today's power for this station from the latest report")
	return cmd
}
