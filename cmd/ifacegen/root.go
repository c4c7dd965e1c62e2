package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/toyz/ifacegen/internal/cli"
	"github.com/toyz/ifacegen/internal/config"
	"github.com/toyz/ifacegen/internal/observability"
	"github.com/toyz/ifacegen/internal/utils"
)

// app carries the state shared by all commands of one invocation
type app struct {
	viper       *viper.Viper
	configFile  string
	verbose     bool
	quiet       bool
	cfg         *config.Config
	logger      *zap.Logger
	diagnostics *utils.DiagnosticSystem
	stdout      io.Writer
	stderr      io.Writer
}

// execute runs the command line in args and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{viper: viper.New(), stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		cli.NewDiagnosticReporterWithWriter(a.verbose, stderr).ReportError(err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ifacegen",
		Short: "Generate C# interfaces from class member manifests",
		Long: "ifacegen projects the public instance methods and properties of each class in a\n" +
			"manifest onto an interface named I<Class>, substituting every generated class with\n" +
			"its interface in return and property types.",
		Version:           buildVersion().GitVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default is ./ifacegen.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output and detailed error reporting")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only show errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	root.AddCommand(a.generateCmd(), a.cleanCmd(), a.serveCmd(), a.versionCmd())
	return root
}

// initialize loads configuration and sets up logging before any command runs
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	a.diagnostics = utils.NewDiagnosticSystemWithWriters(utils.LevelFromFlags(a.quiet, a.verbose), a.stdout, a.stderr)

	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	a.cfg = cfg

	observability.InitializeLogger(cfg.Logger)
	a.logger = observability.GetLogger()
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("file", a.viper.ConfigFileUsed()))
	return nil
}

// bindFlag binds a command flag to a configuration key. Flags win over the config
// file and environment only when set explicitly.
func (a *app) bindFlag(cmd *cobra.Command, key, flag string) {
	if err := a.viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}
