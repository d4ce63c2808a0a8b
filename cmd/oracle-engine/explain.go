// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/oracle-engine/internal/dimension"
	"github.com/pdiddy/oracle-engine/internal/resolve"
)

var explainCmd = &cobra.Command{
	Use:   "explain <code> [description...]",
	Short: "Show how an activity code resolves to a dimension",
	Long: `Explain runs the configured resolution tables on a single code and prints
the dimension and the rule that produced it. Strategy letters take the
remaining arguments as their description.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		code := strings.ToUpper(args[0])
		desc := strings.Join(args[1:], " ")

		dim, rule := resolve.New(cfg.Resolver).Explain(code, desc)
		if rule == resolve.RuleNone {
			return fmt.Errorf("code %s does not resolve to a dimension", code)
		}

		name := "not in the dimension catalog"
		if e, ok := dimension.Lookup(dim); ok {
			name = e.DisplayName
		}
		fmt.Printf("%s -> %s (%s) via %s\n", code, dim, name, rule)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
