// Command modbench measures Montgomery and Barrett modular reduction
// against a naive big.Int reference over a set of benchmark moduli.
//
// Every measured output is checked against the naive engine, so a run
// that completes is also a correctness witness for the fast engines.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chancehudson/moduli-comparison/bench"
)

const envPrefix = "MODBENCH"

var (
	flagIterations int
	flagSeed       string
	flagBits       []int
	flagModes      []string
	flagWorkers    int
	flagList       bool
	flagVerbose    bool
	flagConfig     string
)

var mainCmd = &cobra.Command{
	Use:   "modbench",
	Short: "Compare modular reduction strategies over big moduli",
	Long: `modbench times Montgomery and Barrett reduction against a naive
modular multiply over moduli between 31 and 255 bits, and verifies that
all three agree on every sampled operand stream.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func main() {
	// For environment variables.
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	mainFlags := mainCmd.Flags()
	mainFlags.IntVarP(&flagIterations, "iterations", "n", bench.DefaultIterations, "multiplications per case and mode")
	mainFlags.StringVar(&flagSeed, "seed", "", "hex seed for reproducible operand streams")
	mainFlags.IntSliceVar(&flagBits, "bits", nil, "only run cases with these modulus bit lengths")
	mainFlags.StringSliceVar(&flagModes, "modes", nil, "measurement modes to run (fold, pairwise, mulsum)")
	mainFlags.IntVar(&flagWorkers, "workers", 0, "concurrent jobs, 0 means one per CPU")
	mainFlags.BoolVar(&flagList, "list", false, "list the benchmark moduli and exit")
	mainFlags.BoolVarP(&flagVerbose, "verbose", "v", false, "log per-run progress")
	mainFlags.StringVar(&flagConfig, "config", "", "config file with flag defaults")
	viper.BindPFlags(mainFlags)

	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	if flagConfig != "" {
		viper.SetConfigFile(flagConfig)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", flagConfig)
		}
	}

	logger, err := newLogger(viper.GetBool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	bits := viper.GetIntSlice("bits")
	cases := bench.FilterByBits(bench.DefaultCases(), bits...)
	if len(cases) == 0 {
		return errors.Errorf("no benchmark case has a modulus of %v bits", bits)
	}

	if viper.GetBool("list") {
		return listCases(cmd, cases)
	}

	var seed []byte
	if s := viper.GetString("seed"); s != "" {
		seed, err = hex.DecodeString(s)
		if err != nil {
			return errors.Wrapf(err, "decode seed %q", s)
		}
	}

	var modes []bench.Mode
	for _, name := range viper.GetStringSlice("modes") {
		mode, err := bench.ParseMode(name)
		if err != nil {
			return err
		}
		modes = append(modes, mode)
	}

	cfg := bench.Config{
		Iterations: viper.GetInt("iterations"),
		Seed:       seed,
		Modes:      modes,
		Workers:    viper.GetInt("workers"),
	}

	logger.Info("measuring",
		zap.Int("cases", len(cases)),
		zap.Int("iterations", cfg.Iterations),
		zap.Int("workers", cfg.Workers),
		zap.Bool("seeded", len(seed) > 0),
	)

	results, err := bench.RunAll(cases, cfg)
	if err != nil {
		return err
	}

	logger.Info("all engines agree", zap.Int("results", len(results)))

	return bench.Report{Results: results}.WriteTable(cmd.OutOrStdout())
}

func listCases(cmd *cobra.Command, cases []bench.Case) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBITS\tMODULUS")
	for _, c := range cases {
		fmt.Fprintf(tw, "%s\t%d\t%v\n", c.Name, c.Modulus.BitLen(), c.Modulus)
	}
	return tw.Flush()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
