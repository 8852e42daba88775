package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/syssam/storm/compiler/gen"
)

var convertersCmd = &cobra.Command{
	Use:   "converters",
	Short: "List the types that can be persisted",
	Long: `List every canonical type name with a registered converter, including
the custom converters of the config file.`,
	Args: cobra.NoArgs,
	RunE: runConverters,
}

func init() {
	rootCmd.AddCommand(convertersCmd)
}

func runConverters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.GenOptions()
	if err != nil {
		return err
	}
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCONVERTER\tSQL\tBIND")
	for _, name := range c.Converters.Names() {
		d, err := c.Converters.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, d.QualifiedName(), d.SQLType, d.BindType)
	}
	return w.Flush()
}
