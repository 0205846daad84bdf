package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/fwsizing/fixedwing"
	"github.com/fwsizing/fixedwing/aircraft"
	"github.com/fwsizing/fixedwing/vsp"
	kitlog "github.com/go-kit/log"
	"github.com/goforj/godump"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Flies the Piper Cherokee 180 reference mission and exports the results.

var (
	confDir    string
	verbose    bool
	vspCommand string
	vspDir     string
)

func init() {
	flag.StringVar(&confDir, "config", "", "directory of conf.toml (defaults to $"+fixedwing.ConfigEnv+")")
	flag.BoolVar(&verbose, "verbose", false, "dump the vehicle before flying it")
	flag.StringVar(&vspCommand, "vsp", "", "external lofting command run on the vehicle model")
	flag.StringVar(&vspDir, "vsp-dir", "", "keep the vehicle model in this directory")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// run flies the mission and returns the exit code, so that deferred closes run on failure.
func run() int {
	conf, err := fixedwing.LoadConfig(confDir)
	if err != nil {
		log.Print(err)
		return 1
	}

	var w io.Writer = os.Stdout
	if conf.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   conf.Log.File,
			MaxSize:    conf.Log.MaxSizeMB,
			MaxBackups: conf.Log.MaxBackups,
		}
		defer lj.Close()
		w = lj
	}
	logger := fixedwing.NewLogger(w, "the_mission")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if conf.Tracing.Enabled {
		shutdown, err := initTracing(conf.Tracing)
		if err != nil {
			log.Print(err)
			return 1
		}
		defer shutdown(context.Background())
	}

	var atmo fixedwing.Atmosphere = fixedwing.USStandard1976{}
	if conf.AtmosphereCache > 0 {
		if atmo, err = fixedwing.NewCachedAtmosphere(atmo, conf.AtmosphereCache); err != nil {
			log.Print(err)
			return 1
		}
	}

	vehicle, err := aircraft.Cherokee(atmo, logger)
	if err != nil {
		log.Printf("building the vehicle: %s", err)
		return 1
	}
	if verbose {
		godump.Dump(vehicle)
	}
	if vspCommand != "" || vspDir != "" {
		if err := measure(ctx, vehicle, logger); err != nil {
			log.Print(err)
			return 1
		}
	}

	mission, err := aircraft.CherokeeMission(vehicle, aircraft.CherokeeAnalyses(vehicle, atmo), logger)
	if err != nil {
		log.Print(err)
		return 1
	}
	mission.Solver = conf.Solver
	if mission.Metrics, err = fixedwing.NewSolverMetrics(nil); err != nil {
		log.Print(err)
		return 1
	}

	results, evalErr := mission.Evaluate(ctx)
	if results != nil && !conf.Export.IsUseless() {
		if err := export(conf.Export, results); err != nil {
			logger.Log("level", "critical", "subsys", "export", "err", err)
		}
	}
	if evalErr != nil {
		log.Print(evalErr)
		return 1
	}
	for _, sr := range results.Segments {
		fmt.Println(sr)
	}
	return 0
}

// measure writes the vehicle model, runs the lofting tool when one is given and merges its
// measurements into the unset geometry.
func measure(ctx context.Context, v *fixedwing.Vehicle, logger kitlog.Logger) error {
	s, err := vsp.Open(ctx, vsp.Config{WorkDir: vspDir, Command: vspCommand, Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()
	if _, err := s.Write(v); err != nil {
		return err
	}
	if vspCommand == "" {
		return nil
	}
	if err := s.Run(ctx); err != nil {
		return err
	}
	m, err := s.ReadMeasurements()
	if err != nil {
		return err
	}
	filled := vsp.Merge(v, m)
	logger.Log("level", "info", "subsys", "vsp", "filled", fmt.Sprint(filled))
	return nil
}

func export(conf fixedwing.ExportConfig, r *fixedwing.Results) error {
	name := conf.Filename
	if name == "" {
		name = r.Mission
	}
	if err := os.MkdirAll(conf.OutputDir, 0o755); err != nil {
		return err
	}
	var eg errgroup.Group
	if conf.AsCSV {
		for _, sr := range r.Segments {
			sr := sr
			eg.Go(func() error {
				return fixedwing.ExportFile(conf.Path(name+"-"+sr.Tag, "csv"), func(w io.Writer) error {
					return fixedwing.WriteCSV(w, sr)
				})
			})
		}
	}
	if conf.AsJSON {
		eg.Go(func() error {
			return fixedwing.ExportFile(conf.Path(name, "json"), func(w io.Writer) error {
				return fixedwing.WriteJSON(w, r)
			})
		})
	}
	if conf.Archive {
		eg.Go(func() error {
			return fixedwing.ExportFile(conf.Path(name, "msgpack.zst"), func(w io.Writer) error {
				return fixedwing.SaveArchive(w, r)
			})
		})
	}
	return eg.Wait()
}

func initTracing(conf fixedwing.TracingConfig) (func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", conf.ServiceName))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
