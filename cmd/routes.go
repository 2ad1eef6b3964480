package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/agenda-vta/internal/routes"
)

var routesMode string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the page table of a routing mode",
	Run: func(cmd *cobra.Command, args []string) {
		table, err := routes.ForMode(routes.Mode(routesMode))
		exitOnError(err)

		static := table.Mode() == routes.ModeStatic
		entries := table.Entries()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if static {
			fmt.Fprintln(w, "PAGE\tURL\tFILE")
		} else {
			fmt.Fprintln(w, "PAGE\tURL")
		}
		for _, page := range table.Pages() {
			if !static {
				fmt.Fprintf(w, "%s\t%s\n", page, entries[page])
				continue
			}
			name, err := table.Filename(page)
			exitOnError(err)
			fmt.Fprintf(w, "%s\t%s\t%s\n", page, entries[page], name)
		}
		fmt.Fprintf(w, "logout\t%s\n", table.LogoutURL())
		w.Flush()
	},
}

func init() {
	routesCmd.Flags().StringVar(&routesMode, "mode", string(routes.ModeBackend), "Routing mode: static or backend")
	rootCmd.AddCommand(routesCmd)
}
