package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/krishadi/ulgo/internal/calculation"
	"github.com/krishadi/ulgo/internal/config"
	"github.com/krishadi/ulgo/internal/output"
	"github.com/krishadi/ulgo/internal/server"
	"github.com/krishadi/ulgo/internal/solver"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ulgo",
	Short: "Flexible-premium life illustration calculator",
	Long:  "Cash-value illustration and minimum-premium solver for flexible-premium life products",
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "ulgo %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

var illustrateCmd = &cobra.Command{
	Use:   "illustrate [input-file]",
	Short: "Run a policy illustration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}
		if cfg.Policy == nil {
			log.Fatal("input file has no policy section")
		}

		engine := newEngine(cmd)
		res := engine.RunIllustration(cfg.Policy)

		format, _ := cmd.Flags().GetString("format")
		formatter, err := output.NewFormatter(format)
		if err != nil {
			log.Fatal(err)
		}
		body, err := formatter.Format(res)
		if err != nil {
			log.Fatal(err)
		}

		if err := writeOut(cmd, body); err != nil {
			log.Fatal(err)
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve [input-file]",
	Short: "Solve the minimum premium funding an obligation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}
		if cfg.Solve == nil {
			log.Fatal("input file has no solve section")
		}

		engine := newEngine(cmd)
		s := solver.NewDefaultSolver(engine)

		result, err := s.Solve(context.Background(), *cfg.Solve)
		if err != nil {
			log.Fatal(err)
		}

		os.Stdout.Write(output.FormatSolverResult(result))

		if result.Illustration != nil {
			format, _ := cmd.Flags().GetString("format")
			if format != "" && format != "console" {
				formatter, err := output.NewFormatter(format)
				if err != nil {
					log.Fatal(err)
				}
				body, err := formatter.Format(result.Illustration)
				if err != nil {
					log.Fatal(err)
				}
				if err := writeOut(cmd, body); err != nil {
					log.Fatal(err)
				}
			}
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the illustration API over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		engine := newEngine(cmd)

		log.Printf("illustration API listening on %s", addr)
		srv := server.New(engine)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	},
}

func newEngine(cmd *cobra.Command) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		engine.SetLogger(simpleCLILogger{})
	}
	return engine
}

func writeOut(cmd *cobra.Command, body []byte) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := os.Stdout.Write(body)
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

func main() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	illustrateCmd.Flags().String("format", "console", "Output format (console, csv, json)")
	illustrateCmd.Flags().String("output", "", "Write output to file instead of stdout")
	solveCmd.Flags().String("format", "console", "Illustration output format (console, csv, json)")
	solveCmd.Flags().String("output", "", "Write illustration output to file instead of stdout")
	serveCmd.Flags().String("addr", ":8080", "Listen address")

	rootCmd.AddCommand(illustrateCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
