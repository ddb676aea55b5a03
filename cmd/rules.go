package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-scorer/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective scoring rules after config overrides",
	Run: func(_ *cobra.Command, _ []string) {
		rs, err := rules.Load(viper.GetViper())
		if err != nil {
			log.Fatalf("loading scoring rules: %s", err)
		}

		// do not bother error since the rule set is plain data
		pretty, _ := json.MarshalIndent(rs, "", "  ")
		fmt.Println(string(pretty))
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
