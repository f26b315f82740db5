package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"abibind/internal/diag"
	"abibind/internal/driver"
	"abibind/internal/project"
	"abibind/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] <abi.json | dir>",
	Short: "Generate bindings from an ABI document or a directory of them",
	Long: `Generate one deterministic binding module per input ABI.

A single JSON file produces one generated file; a directory produces one
package per *.json file under the output directory. Settings come from
abibind.toml when present; flags override it.`,
	Args: cobra.ExactArgs(1),
	RunE: generateExecution,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output file (single-file mode)")
	generateCmd.Flags().String("out-dir", "", "output directory (batch mode)")
	generateCmd.Flags().String("package", "", "generated package name (single-file mode)")
	generateCmd.Flags().String("runtime", "", "runtime package import path")
	generateCmd.Flags().Int("jobs", 0, "max parallel generations in batch mode (0 = GOMAXPROCS)")
	generateCmd.Flags().String("ui", "auto", "progress view in batch mode (auto|on|off)")
}

func generateExecution(cmd *cobra.Command, args []string) error {
	applyColorMode(cmd)

	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out-dir")
	pkgName, _ := cmd.Flags().GetString("package")
	runtimePath, _ := cmd.Flags().GetString("runtime")
	jobs, _ := cmd.Flags().GetInt("jobs")
	uiValue, _ := cmd.Flags().GetString("ui")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	uiModeValue, err := parseUIMode(uiValue)
	if err != nil {
		return err
	}

	// Манифест — значения по умолчанию; флаги имеют приоритет
	manifest, found, err := project.LoadNearest(".")
	if err != nil {
		return err
	}
	if found {
		if outDir == "" {
			outDir = manifest.Config.Generate.OutDir
		}
		if pkgName == "" {
			pkgName = manifest.Config.Package.Name
		}
		if runtimePath == "" {
			runtimePath = manifest.Config.Generate.Runtime
		}
		if jobs == 0 {
			jobs = manifest.Config.Generate.Jobs
		}
	}
	if outDir == "" {
		outDir = "bindings"
	}

	info, err := os.Stat(input)
	if err != nil {
		return err
	}

	opts := driver.Options{
		RuntimePath:    runtimePath,
		MaxDiagnostics: maxDiagnostics,
	}

	if !info.IsDir() {
		return generateSingle(input, output, pkgName, opts, quiet)
	}
	return generateBatch(cmd.Context(), input, outDir, opts, jobs, uiModeValue, quiet)
}

func generateSingle(input, output, pkgName string, opts driver.Options, quiet bool) error {
	if pkgName == "" {
		pkgName = driver.PackageNameFor(input)
	}
	if output == "" {
		output = driver.PackageNameFor(input) + ".go"
	}
	opts.PackageName = pkgName

	res, err := driver.GenerateFile(input, output, opts)
	if err != nil {
		reportDiagnostics(res.Bag)
		return fmt.Errorf("generation failed for %s", input)
	}
	if !quiet {
		reportDiagnostics(res.Bag)
		fmt.Printf("%s %s -> %s (%d bindings)\n", color.GreenString("generated"), input, output, len(res.Bindings))
	}
	return nil
}

func generateBatch(ctx context.Context, dir, outDir string, opts driver.Options, jobs int, mode uiMode, quiet bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := driver.ListABIFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no *.json files under %s", dir)
	}

	var results []driver.BatchResult
	if mode.useTUI() {
		events := make(chan driver.Event, len(files)*4)
		model := ui.NewProgressModel("generating bindings", files, events)
		prog := tea.NewProgram(model)

		done := make(chan error, 1)
		go func() {
			var genErr error
			results, genErr = driver.GenerateDir(ctx, dir, outDir, opts, jobs, driver.ChannelSink{Ch: events})
			close(events)
			done <- genErr
		}()
		if _, err := prog.Run(); err != nil {
			return err
		}
		if err := <-done; err != nil {
			return err
		}
	} else {
		results, err = driver.GenerateDir(ctx, dir, outDir, opts, jobs, nil)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("failed"), r.Path)
			reportDiagnostics(r.Bag)
			continue
		}
		if !quiet {
			fmt.Printf("%s %s -> %s\n", color.GreenString("generated"), r.Path, r.OutPath)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d ABI files failed", failed, len(results))
	}
	return nil
}

// reportDiagnostics печатает диагностики в детерминированном порядке
func reportDiagnostics(bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	bag.Sort()
	out := os.Stdout
	if bag.HasErrors() {
		out = os.Stderr
	}
	fmt.Fprintln(out, diag.FormatDiagnostics(bag.Items()))
}
