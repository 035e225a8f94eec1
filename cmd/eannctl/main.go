package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"eann/internal/stats"
	"eann/pkg/eann"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:], stdout, stderr)
	case "runs":
		return runRuns(ctx, args[1:], stdout)
	case "history":
		return runHistory(ctx, args[1:], stdout)
	case "export":
		return runExport(ctx, args[1:], stdout)
	case "scapes":
		return runScapes(stdout)
	case "operators":
		return runOperators(stdout)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// storeFlags are shared by every command that opens the store.
type storeFlags struct {
	configPath *string
	storeKind  *string
	dbPath     *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		configPath: fs.String("config", "", "YAML or INI config file overlaid on the defaults"),
		storeKind:  fs.String("store", "", "store backend: memory|sqlite (default from config)"),
		dbPath:     fs.String("db-path", "", "sqlite database path (default from config)"),
	}
}

// load reads the config file and applies explicit store flags.
func (f storeFlags) load() (*eann.Config, error) {
	cfg, err := eann.LoadConfig(*f.configPath)
	if err != nil {
		return nil, err
	}
	if *f.storeKind != "" {
		cfg.Store.Kind = *f.storeKind
	}
	if *f.dbPath != "" {
		cfg.Store.Path = *f.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openClient(ctx context.Context, cfg *eann.Config, stderr io.Writer) (*eann.Client, error) {
	client, err := eann.New(eann.Options{Config: cfg, LogOutput: stderr})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func runRun(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	sf := addStoreFlags(fs)
	scapeName := fs.String("scape", "", "scape name (default from config)")
	generations := fs.Int("generations", 0, "generations to evaluate (default from config)")
	seed := fs.Int64("seed", 0, "random seed (default from config)")
	population := fs.Int("pop", 0, "population size (default from config)")
	csvPath := fs.String("csv", "", "stream generation diagnostics to this CSV file")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	logLevel := fs.String("log-level", "", "debug|info|warn|error (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sf.load()
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scape":
			cfg.Run.Scape = *scapeName
		case "generations":
			cfg.Run.Generations = *generations
		case "seed":
			cfg.Population.Seed = *seed
		case "pop":
			cfg.Population.Size = *population
		case "csv":
			cfg.Output.CSV = *csvPath
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := openClient(ctx, cfg, stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := eann.RunRequest{RunID: *runID}
	if cfg.Output.CSV != "" {
		f, err := os.Create(cfg.Output.CSV)
		if err != nil {
			return fmt.Errorf("creating csv output: %w", err)
		}
		defer f.Close()
		req.OnGeneration = stats.NewGenerationWriter(f).Write
	}

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run completed run_id=%s scape=%s generations=%d best_evaluation=%.6f",
		summary.RunID, summary.Scape, summary.Generations, summary.BestEvaluation)
	for _, mode := range []string{"validation", "test"} {
		if evaluation, ok := summary.HoldoutEvaluations[mode]; ok {
			fmt.Fprintf(stdout, " %s_evaluation=%.6f", mode, evaluation)
		}
	}
	fmt.Fprintln(stdout)
	return nil
}

func runRuns(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	sf := addStoreFlags(fs)
	limit := fs.Int("limit", 20, "max runs to list, most recent first")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	cfg, err := sf.load()
	if err != nil {
		return err
	}
	client, err := openClient(ctx, cfg, io.Discard)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, eann.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs found")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(stdout, "run_id=%s started_at=%s scape=%s topology=%s seed=%d pop=%d gens=%d best_evaluation=%.6f\n",
			r.ID,
			r.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			r.Scape,
			formatTopology(r.Topology),
			r.Seed,
			r.PopulationSize,
			r.Generations,
			r.BestEvaluation,
		)
	}
	return nil
}

func runHistory(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	sf := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	csvPath := fs.String("csv", "", "read diagnostics from an exported CSV file instead of the store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *csvPath != "" {
		return errors.New("use either --run-id or --csv")
	}

	var history []eann.GenerationDiagnostics
	switch {
	case *csvPath != "":
		f, err := os.Open(*csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if history, err = eann.ReadHistoryCSV(f); err != nil {
			return err
		}
	case *runID != "":
		var err error
		if history, err = loadHistory(ctx, sf, *runID); err != nil {
			return err
		}
	default:
		return errors.New("history requires --run-id or --csv")
	}

	for _, d := range history {
		fmt.Fprintf(stdout, "generation=%d best_evaluation=%.6f mean_evaluation=%.6f min_evaluation=%.6f std_evaluation=%.6f best_fitness=%.6f\n",
			d.Generation, d.BestEvaluation, d.MeanEvaluation, d.MinEvaluation, d.StdEvaluation, d.BestFitness)
	}
	return nil
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	sf := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	outPath := fs.String("out", "", "CSV output path (default <run-id>.csv)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("export requires --run-id")
	}
	if *outPath == "" {
		*outPath = *runID + ".csv"
	}

	history, err := loadHistory(ctx, sf, *runID)
	if err != nil {
		return err
	}

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := stats.WriteGenerationsCSV(f, history); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "exported run_id=%s generations=%d to=%s\n", *runID, len(history), *outPath)
	return nil
}

func runScapes(stdout io.Writer) error {
	items, err := eann.Scapes()
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Fprintf(stdout, "scape=%s inputs=%d outputs=%d\n", item.Name, item.Inputs, item.Outputs)
	}
	return nil
}

func runOperators(stdout io.Writer) error {
	ops := eann.ListOperators()
	fmt.Fprintf(stdout, "activations=%s\n", strings.Join(ops.Activations, ","))
	fmt.Fprintf(stdout, "selectors=%s\n", strings.Join(ops.Selectors, ","))
	fmt.Fprintf(stdout, "fitness=%s\n", strings.Join(ops.FitnessCalculators, ","))
	return nil
}

func loadHistory(ctx context.Context, sf storeFlags, runID string) ([]eann.GenerationDiagnostics, error) {
	cfg, err := sf.load()
	if err != nil {
		return nil, err
	}
	client, err := openClient(ctx, cfg, io.Discard)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Close()
	}()
	return client.Diagnostics(ctx, eann.DiagnosticsRequest{RunID: runID})
}

func formatTopology(topology []int) string {
	parts := make([]string, len(topology))
	for i, n := range topology {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "-")
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: eannctl <run|runs|history|export|scapes|operators> [flags]", msg)
}
