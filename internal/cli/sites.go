package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"iisempleos/internal/config"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the configured sites",
	RunE:  sitesAction,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}

func sitesAction(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tACTIVE\tURL")
	for _, s := range cfg.Sites {
		active := "yes"
		if !s.Active {
			active = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Mode, active, s.URL)
	}
	return w.Flush()
}
