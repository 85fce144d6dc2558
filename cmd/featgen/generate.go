package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brattlof/featgen/internal/catalog"
	"github.com/brattlof/featgen/internal/output"
	"github.com/brattlof/featgen/internal/scaffold"
)

var generateCmd = &cobra.Command{
	Use:     "generate <type> <name> <ticket-id> [output-dir]",
	Aliases: []string{"gen"},
	Short:   "Generate boilerplate files for a feature",
	Example: `  featgen generate api user-management PROJ-123
  featgen generate ui login-form PROJ-456 ./src
  featgen generate rest orders PROJ-789 --dry-run`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 3 || len(args) > 4 {
			return fmt.Errorf("usage: %s\navailable types: %s",
				cmd.UseLine(), strings.Join(catalog.Types(), ", "))
		}
		return nil
	},
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return catalog.Types(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	featureType, name, ticketID := args[0], args[1], args[2]
	outputDir := cfg.Generate.OutputDir
	if len(args) == 4 {
		outputDir = args[3]
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	printer := output.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	engine := scaffold.New(
		scaffold.WithLogger(logger),
		scaffold.WithProgress(printer.Created),
	)

	if dryRun {
		files, err := engine.Plan(featureType, name, ticketID, outputDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			printer.Planned(f.Path, len(f.Content))
		}
		printer.Info(fmt.Sprintf("\nDry run: %d files for %s feature: %s", len(files), featureType, name))
		return nil
	}

	report, err := engine.Generate(featureType, name, ticketID, outputDir)
	if err != nil {
		var writeErr *scaffold.WriteError
		if errors.As(err, &writeErr) && report != nil {
			printer.Info(fmt.Sprintf("\n%d of the files were written before the failure", report.Count()))
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	printer.Success(scaffold.Describe(report))
	return nil
}

func init() {
	generateCmd.Flags().Bool("dry-run", false, "Print the files that would be written without writing them")
}
