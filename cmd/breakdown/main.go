// Command breakdown prints the share of accidents per category label for
// one attribute of the collision dataset.
//
// Usage:
//
//	go run ./cmd/breakdown --accidents bikes.geojson --attribute weather
//	go run ./cmd/breakdown --attribute lighting --format yaml
//	go run ./cmd/breakdown labels --attribute severity
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/geojson"
	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/source"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "breakdown:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "breakdown",
		Usage:     "summarize bicycle collisions by category",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "accidents",
				Value:   "./bikes.geojson",
				Usage:   "accident GeoJSON file path or URL",
				EnvVars: []string{"ACCIDENTS_SOURCE"},
			},
			attributeFlag(),
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "text, json or yaml",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "fetch timeout for remote documents",
			},
		},
		Action: breakdownAction,
		Commands: []*cli.Command{
			{
				Name:   "labels",
				Usage:  "list the labels of an attribute in display order",
				Flags:  []cli.Flag{attributeFlag()},
				Action: labelsAction,
			},
		},
	}
}

func attributeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "attribute",
		Aliases: []string{"a"},
		Value:   string(domain.AttributeSeverity),
		Usage:   "severity, weather, lighting or bikeLane",
	}
}

func breakdownAction(c *cli.Context) error {
	attr, err := domain.ParseAttribute(c.String("attribute"))
	if err != nil {
		return err
	}
	format := strings.ToLower(c.String("format"))
	if format != "text" && format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q", format)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	data, err := source.NewFetcher(c.Duration("timeout"), logger).Fetch(ctx, c.String("accidents"))
	if err != nil {
		return err
	}
	acc, err := geojson.DecodeAccidents(data)
	if err != nil {
		return err
	}
	if n := len(acc.Rejected); n > 0 {
		logger.Warn("features skipped", "count", n)
	}

	dist, err := domain.Aggregate(acc.Records, attr)
	if err != nil {
		return err
	}
	return render(c.App.Writer, dist, format)
}

func labelsAction(c *cli.Context) error {
	attr, err := domain.ParseAttribute(c.String("attribute"))
	if err != nil {
		return err
	}
	for _, label := range attr.Labels() {
		fmt.Fprintln(c.App.Writer, label)
	}
	return nil
}

func render(w io.Writer, dist domain.Distribution, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dist)
	case "yaml":
		out, err := yaml.Marshal(dist)
		if err != nil {
			return fmt.Errorf("marshal distribution: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		fmt.Fprintf(w, "%s (%d accidents)\n", dist.Attribute, dist.Total)
		for _, line := range dist.Lines() {
			fmt.Fprintln(w, line)
		}
		return nil
	}
}
