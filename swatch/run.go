package swatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssroll/config"
	"cssroll/expand"
	"cssroll/randutil"
	"cssroll/state"
)

// Run implements the swatch command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("swatch")

	format, err := config.ParseSwatchFormat(cmd.String("format"))
	if err != nil {
		log.Warn("Unknown swatch format requested, switching to svg", zap.Error(err))
		format = config.SwatchFormatSvg
	}

	name, args, err := expand.ParseCall(cmd.String("generator"))
	if err != nil {
		return fmt.Errorf("unable to parse generator: %w", err)
	}

	seed := env.Cfg.Generate.Seed
	if s := int64(cmd.Int("seed")); s != 0 {
		seed = s
	}
	var rng *randutil.Rand
	if seed != 0 {
		rng = randutil.NewSeeded(seed)
	} else {
		rng = randutil.New()
	}

	ectx := expand.NewContext(rng, expand.FlattenPools(env.Cfg.Pools), env.Log)
	gen, err := expand.Bind(ectx, name, args)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		dst = fmt.Sprintf("swatch-%d%s", rng.Seed(), format.Ext())
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	log.Info("Swatch starting", zap.String("generator", name), zap.Stringer("format", format), zap.Int64("seed", rng.Seed()))
	defer func(start time.Time) {
		log.Info("Swatch completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", dst))
	}(time.Now())

	opts := Options{
		Columns:  env.Cfg.Swatch.Columns,
		CellSize: env.Cfg.Swatch.CellSize,
		Count:    env.Cfg.Swatch.Count,
	}
	if c := int(cmd.Int("count")); c > 0 {
		opts.Count = c
	}

	svgData, err := Build(gen, opts)
	if err != nil {
		return fmt.Errorf("unable to build swatch: %w", err)
	}

	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("output file already exists: %s", dst)
	} else if err == nil {
		log.Warn("Overwriting existing file", zap.String("file", dst))
	}

	switch format {
	case config.SwatchFormatSvg:
		if err := os.WriteFile(dst, svgData, 0644); err != nil {
			return fmt.Errorf("unable to write swatch: %w", err)
		}
	case config.SwatchFormatPng:
		img, err := Rasterize(svgData, 0, 0)
		if err != nil {
			return fmt.Errorf("unable to rasterize swatch: %w", err)
		}
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("unable to create output file: %w", err)
		}
		defer f.Close()
		if err := EncodePNG(f, img); err != nil {
			return fmt.Errorf("unable to encode swatch: %w", err)
		}
	}

	env.Rpt.Store("swatch"+format.Ext(), dst)

	return nil
}
