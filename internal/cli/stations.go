package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidalpow/backend-go/internal/station"
)

func newStationsCmd(v *viper.Viper) *cobra.Command {
	var region string

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List the station catalogue by region",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := station.LoadCatalog(v.GetString(keyStationCatalog))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REGION\tSTATION\tID")
			count := 0
			for _, r := range catalog.Regions() {
				if region != "" && r.Name != region {
					continue
				}
				for _, key := range r.Stations {
					fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, station.DisplayName(key), key)
					count++
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d stations\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "only list this region")
	return cmd
}
