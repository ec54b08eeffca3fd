package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/reducekit/bootstrap"
	"github.com/kbukum/reducekit/config"
	"github.com/kbukum/reducekit/errors"
	"github.com/kbukum/reducekit/logger"
	"github.com/kbukum/reducekit/observability"
	"github.com/kbukum/reducekit/pipeline"
	"github.com/kbukum/reducekit/reducer"
	"github.com/kbukum/reducekit/scenario"
	"github.com/kbukum/reducekit/util"
	"github.com/kbukum/reducekit/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"scenario":    "scenario",
	"registry":    "pipeline.registry",
	"parallelism": "pipeline.parallelism",
	"strict":      "pipeline.strict",
	"trace":       "pipeline.trace",
	"history":     "output.history",
	"output":      "output.format",
	"log-level":   "logging.level",
}

type cliFlags struct {
	set         *pflag.FlagSet
	configFile  string
	showVersion bool
	printSample bool
}

func newFlags(stderr io.Writer) *cliFlags {
	f := &cliFlags{set: pflag.NewFlagSet("reducekit", pflag.ContinueOnError)}
	fs := f.set
	fs.SetOutput(stderr)

	fs.String("scenario", "", "scenario file (YAML or JSON); the built-in sample runs when empty")
	fs.String("registry", reducer.ShapeKeyed, "registry shape: keyed or chained")
	fs.Int("parallelism", 1, "goroutines reducing users within one action")
	fs.Bool("strict", false, "reject unknown action types and missing payloads before running")
	fs.Bool("trace", false, "log every reducer step")
	fs.Bool("history", false, "print the users after every action")
	fs.StringP("output", "o", scenario.FormatJSON, "output format: json or yaml")
	fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: search standard locations)")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	fs.BoolVar(&f.printSample, "print-sample", false, "print the built-in sample scenario and exit")
	return f
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := newFlags(stderr)
	if err := flags.set.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Get())
		return exitOK
	}

	opts := []config.LoaderOption{config.WithFlags(flags.set, flagKeys)}
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	cfg.Version = util.Coalesce(cfg.Version, version.Get().Short())

	if flags.printSample {
		data, err := scenario.EncodeScenario(scenario.Sample(), cfg.Output.Format)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		_, _ = stdout.Write(data)
		return exitOK
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)
	logger.SetGlobalLogger(log)
	logger.RegisterDefaults("pipeline", "scenario", "trace")

	app, err := bootstrap.NewApp(cfg,
		bootstrap.WithLogger(log),
		bootstrap.WithSummaryOutput(summaryOutput(cfg, stderr)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	tel := &telemetry{}
	if cfg.Observability.Enabled {
		app.OnStart(tel.start(cfg))
		app.OnStop(tel.stop)
	}

	err = app.RunTask(ctx, func(ctx context.Context) error {
		return execute(ctx, app, tel.metrics, stdout)
	})
	if err != nil {
		appErr := errors.Wrap(err)
		fields := logger.Fields("code", string(appErr.Code))
		if errors.IsInputCode(appErr.Code) {
			log.Warn("run rejected input", logger.ErrorFields("run", err), fields)
		} else {
			log.Error("run failed", logger.ErrorFields("run", err), fields)
		}
		return exitFailure
	}
	return exitOK
}

// summaryOutput prints the closing summary only in debug mode.
func summaryOutput(cfg *config.Config, stderr io.Writer) io.Writer {
	if cfg.Debug && cfg.Logging.Level == "debug" {
		return stderr
	}
	return nil
}

func execute(ctx context.Context, app *bootstrap.App[*config.Config], metrics *observability.Metrics, stdout io.Writer) error {
	cfg := app.Cfg
	log := app.Logger

	sc, err := loadScenario(cfg.Scenario, logger.Get("scenario"))
	if err != nil {
		return err
	}
	if err := sc.Validate(cfg.Pipeline.Strict); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	log.Debug("scenario loaded", logger.Fields(
		"scenario", sc.Name,
		"users", len(sc.Users),
		"actions", len(sc.Actions),
	))

	reg, ok := reducer.ForShape(cfg.Pipeline.Registry)
	if !ok {
		return errors.InvalidInput("registry", "must be keyed or chained")
	}

	rec := pipeline.NewRecorder()
	opts := []pipeline.Option{
		pipeline.WithLogger(logger.Get("pipeline")),
		pipeline.WithParallelism(cfg.Pipeline.Parallelism),
		pipeline.WithServiceName(cfg.Name),
		pipeline.WithObserver(rec),
	}
	if cfg.Pipeline.Trace {
		opts = append(opts, pipeline.WithObserver(pipeline.LoggingObserver(logger.Get("trace"))))
	}
	if metrics != nil {
		opts = append(opts,
			pipeline.WithMetrics(metrics),
			pipeline.WithObserver(pipeline.MetricsObserver(metrics)),
			pipeline.WithObserver(pipeline.TracingObserver("reducer")),
		)
	}
	d := pipeline.New(reg, opts...)

	actions := sc.ActionList()
	var data []byte
	if cfg.Output.History {
		history, err := d.History(ctx, sc.Users, actions)
		if err != nil {
			return err
		}
		data, err = scenario.EncodeHistory(actions, history, cfg.Output.Format)
		if err != nil {
			return err
		}
	} else {
		users, err := d.Run(ctx, sc.Users, actions)
		if err != nil {
			return err
		}
		data, err = scenario.Encode(users, cfg.Output.Format)
		if err != nil {
			return err
		}
	}

	if _, err := stdout.Write(data); err != nil {
		return errors.Internal(err)
	}

	app.Summary.Track("registry", cfg.Pipeline.Registry)
	app.Summary.Track("users", len(sc.Users))
	app.Summary.Track("actions", len(actions))
	app.Summary.Track("steps", rec.Len())
	app.Summary.Track("changed", len(rec.Changed()))
	return nil
}

func loadScenario(path string, log *logger.Logger) (*scenario.Scenario, error) {
	if path == "" {
		log.Info("no scenario given, running the built-in sample")
		return scenario.Sample(), nil
	}
	return scenario.Load(path)
}

// telemetry owns the OTLP providers for the lifetime of a run.
type telemetry struct {
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *observability.Metrics
}

func (t *telemetry) start(cfg *config.Config) bootstrap.Hook {
	return func(ctx context.Context) error {
		tc := observability.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = cfg.Version
		tc.Environment = cfg.Environment
		tc.Endpoint = cfg.Observability.Endpoint
		tc.Insecure = cfg.Observability.Insecure
		tc.SampleRate = cfg.Observability.Rate()

		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return err
		}
		t.tp = tp

		mc := observability.DefaultMeterConfig(cfg.Name)
		mc.ServiceVersion = cfg.Version
		mc.Environment = cfg.Environment
		mc.Endpoint = cfg.Observability.Endpoint
		mc.Insecure = cfg.Observability.Insecure

		mp, err := observability.InitMeter(ctx, mc)
		if err != nil {
			return err
		}
		t.mp = mp

		metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return err
		}
		t.metrics = metrics
		return nil
	}
}

func (t *telemetry) stop(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
