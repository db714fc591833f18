// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/luthersystems/conslisp/lisp"
	"github.com/luthersystems/conslisp/lisp/lisplib"
	"github.com/luthersystems/conslisp/lisp/x/profiler"
	"github.com/luthersystems/conslisp/parser"
)

// Option configures an exported command factory (DocCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.LEnv
}

// WithEnv injects a fully configured LEnv.  The doc command documents the
// symbols bound in it and the lsp command uses it for hover and completion.
func WithEnv(env *lisp.LEnv) Option {
	return func(c *cmdConfig) { c.env = env }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}

// interp is an interpreter configured from the persistent flags.
type interp struct {
	env    *lisp.LEnv
	logger *logrus.Logger

	// done releases tracing and profiling resources.  It must be called
	// once evaluation has finished.
	done func() error
}

// newLogger returns the driver's logger.  It writes to stderr at the level
// given by --log-level, or debug when --debug is set.
func newLogger(stderr io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(stderr)
	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing log level")
	}
	logger.SetLevel(level)
	if viper.GetBool("debug") || viper.GetBool("debug-library") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger, nil
}

func newReader() (lisp.Reader, error) {
	switch p := viper.GetString("parser"); p {
	case "", "rd":
		return parser.NewReader(), nil
	case "regex":
		return parser.NewReader(parser.WithRegexParser()), nil
	default:
		return nil, errors.Errorf("unknown parser: %s", p)
	}
}

// newInterp creates a root environment from the persistent flags and loads
// the library into it.  Failure to load the library is fatal to the caller.
func newInterp(stdout, stderr io.Writer) (*interp, error) {
	logger, err := newLogger(stderr)
	if err != nil {
		return nil, err
	}
	reader, err := newReader()
	if err != nil {
		return nil, err
	}

	env := lisp.NewEnv(nil)
	lerr := lisp.InitializeUserEnv(env,
		lisp.WithReader(reader),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
		lisp.WithMaximumPhysicalStackHeight(viper.GetInt("max-stack-height")))
	if err := lisp.GoError(lerr); err != nil {
		return nil, errors.Wrap(err, "initializing environment")
	}

	done, err := attachProfiler(env, logger)
	if err != nil {
		return nil, err
	}

	quiet := env.Runtime.Logger
	if viper.GetBool("debug-library") {
		env.Runtime.Logger = logger
	}
	if err := loadLibrary(env); err != nil {
		_ = done()
		return nil, err
	}
	env.Runtime.Logger = quiet
	if viper.GetBool("debug") {
		env.Runtime.Logger = logger
	}
	return &interp{env: env, logger: logger, done: done}, nil
}

// loadLibrary loads the bundled library, or the file named by --library in
// its place.
func loadLibrary(env *lisp.LEnv) error {
	path := viper.GetString("library")
	if path == "" {
		return errors.Wrap(lisp.GoError(lisplib.LoadLibrary(env)), "loading library")
	}
	return errors.Wrap(loadFile(env, path), "opening library file")
}

// loadFile evaluates the file at path.  A file that cannot be opened yields
// a chain whose cause is the underlying *os.PathError.
func loadFile(env *lisp.LEnv, path string) error {
	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return errors.Wrapf(err, "opening file %s", path)
	}
	defer f.Close() //nolint:errcheck
	return lisp.GoError(env.Load(path, f))
}

// attachProfiler enables the profiler or tracer selected by --profile and
// --trace.
func attachProfiler(env *lisp.LEnv, logger *logrus.Logger) (func() error, error) {
	var closers []func() error
	done := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	enable := func(p lisp.Profiler) error {
		if err := lisp.GoError(lisp.WithProfiler(p)(env)); err != nil {
			return errors.Wrap(err, "enabling profiler")
		}
		closers = append(closers, p.Complete)
		return nil
	}

	if path := viper.GetString("profile"); path != "" {
		p := profiler.NewCallgrindProfiler(env.Runtime)
		if err := p.SetFile(path); err != nil {
			return nil, errors.Wrapf(err, "opening profile %s", path)
		}
		if err := enable(p); err != nil {
			return nil, err
		}
		return done, nil
	}

	ctx := context.Background()
	switch mode := viper.GetString("trace"); mode {
	case "":
		return done, nil
	case "otel":
		tp := profiler.NewLogTracerProvider(logger)
		otel.SetTracerProvider(tp)
		closers = append(closers, func() error { return tp.Shutdown(ctx) })
		return done, enable(profiler.NewOpenTelemetryAnnotator(env.Runtime, ctx, profiler.WithSkipFilter(profiler.SkipBuiltins)))
	case "opencensus":
		unregister := profiler.RegisterLogCensusExporter(logger)
		closers = append(closers, func() error { unregister(); return nil })
		return done, enable(profiler.NewOpenCensusAnnotator(env.Runtime, ctx, profiler.WithSkipFilter(profiler.SkipBuiltins)))
	case "pprof":
		return done, enable(profiler.NewPprofAnnotator(env.Runtime, ctx))
	default:
		return nil, errors.Errorf("unknown trace mode: %s", mode)
	}
}
