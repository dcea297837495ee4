// Command tsforecast runs the forecasting pipeline over a CSV dataset and
// writes the multi-model forecast response as JSON, standing in for the web
// ingestion layer during development.
package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/quantfold/tsforecast"
	"github.com/quantfold/tsforecast/models"
	"github.com/quantfold/tsforecast/prepare"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to yaml config file")
		input       = flag.String("input", "", "path to the csv dataset")
		output      = flag.String("output", "", "path for the json response, stdout when empty")
		plot        = flag.String("plot", "", "optional path for an html forecast plot")
		dateColumn  = flag.String("date-column", "", "name of the date column")
		valueColumn = flag.String("value-column", "", "name of the value column")
		aggColumn   = flag.String("agg-column", "", "optional aggregation column")
		frequency   = flag.String("frequency", "", "daily, weekly, monthly, quarterly, or yearly")
		horizon     = flag.Int("horizon", 0, "number of future periods to forecast")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("unable to load config")
	}
	applyFlagOverrides(cfg, input, output, plot, dateColumn, valueColumn, aggColumn, frequency, horizon)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Fatal("invalid log level")
	}
	logger.SetLevel(level)

	if cfg.Input == "" {
		logger.Fatal("no input dataset, set -input or the config input key")
	}
	if cfg.DateColumn == "" || cfg.ValueColumn == "" {
		logger.Fatal("date and value column roles are required")
	}

	table, err := readTable(cfg.Input)
	if err != nil {
		logger.WithError(err).Fatal("unable to read dataset")
	}

	prepOpt := prepare.NewDefaultOptions()
	prepOpt.MinHistory = cfg.MinHistory
	prepOpt.Logger = logger

	pipeline := tsforecast.New(&tsforecast.Options{
		Prepare: prepOpt,
		Runner: &models.RunnerOptions{
			Parallel: cfg.Parallel,
			Timeout:  cfg.ModelTimeout,
			Logger:   logger,
		},
		Logger: logger,
	})

	resp, err := pipeline.Run(context.Background(), table, prepare.SeriesSpec{
		DateColumn:  cfg.DateColumn,
		ValueColumn: cfg.ValueColumn,
		AggColumn:   cfg.AggColumn,
	}, cfg.Frequency, cfg.Horizon)
	if err != nil {
		logger.WithError(err).Fatal("pipeline run failed")
	}

	logger.WithFields(logrus.Fields{
		"best_model": resp.BestModel,
		"historical": len(resp.Historical),
	}).Info("forecast complete")

	if err := writeResponse(resp, cfg.Output); err != nil {
		logger.WithError(err).Fatal("unable to write response")
	}

	if cfg.Plot != "" {
		if err := tsforecast.PlotResponse(resp, cfg.Plot); err != nil {
			logger.WithError(err).Fatal("unable to render plot")
		}
		logger.WithField("path", cfg.Plot).Info("plot written")
	}
}

func applyFlagOverrides(cfg *Config, input, output, plot, dateColumn, valueColumn, aggColumn, frequency *string, horizon *int) {
	if *input != "" {
		cfg.Input = *input
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *plot != "" {
		cfg.Plot = *plot
	}
	if *dateColumn != "" {
		cfg.DateColumn = *dateColumn
	}
	if *valueColumn != "" {
		cfg.ValueColumn = *valueColumn
	}
	if *aggColumn != "" {
		cfg.AggColumn = *aggColumn
	}
	if *frequency != "" {
		cfg.Frequency = *frequency
	}
	if *horizon > 0 {
		cfg.Horizon = *horizon
	}
}

func readTable(path string) (*prepare.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return prepare.ReadCSV(file)
}

func writeResponse(resp *tsforecast.ForecastResponse, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return resp.WriteJSON(w)
}
