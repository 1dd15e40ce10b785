package cli

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed demo_cases.yaml
var demoCasesYAML []byte

type demoCase struct {
	Query    string   `yaml:"query"`
	Passages []string `yaml:"passages"`
}

type demoFile struct {
	Cases []demoCase `yaml:"cases"`
}

func loadDemoCases() ([]demoCase, error) {
	var f demoFile
	if err := yaml.Unmarshal(demoCasesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse demo cases: %w", err)
	}
	return f.Cases, nil
}

func newDemoCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Rank a few built-in example queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := loadDemoCases()
			if err != nil {
				return err
			}
			a, err := newApp(gf)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			out := cmd.OutOrStdout()
			sep := strings.Repeat("=", 50)
			for i, c := range cases {
				ranked, err := a.service.Rank(cmd.Context(), c.Query, c.Passages)
				if err != nil {
					return fmt.Errorf("demo case %d: %w", i+1, err)
				}
				fmt.Fprintf(out, "Test %d: %s\n", i+1, c.Query)
				for _, p := range ranked {
					fmt.Fprintf(out, "- %s\n", p)
				}
				fmt.Fprintf(out, "\n%s\n\n", sep)
			}
			return nil
		},
	}
}
