package expand

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssroll/css"
	"cssroll/randutil"
	"cssroll/state"
)

// Run implements the expand command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("expand")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input stylesheet has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")

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
	// always log the effective seed so any run can be reproduced
	log.Info("Expansion starting", zap.String("source", src), zap.String("destination", dst), zap.Int64("seed", rng.Seed()))

	var outputName string
	defer func(start time.Time) {
		log.Info("Expansion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
	}(time.Now())

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet %q: %w", src, err)
	}
	if err := env.Rpt.StoreCopy("source.css", src); err != nil {
		log.Warn("Unable to store source in report", zap.Error(err))
	}

	ectx := NewContext(rng, FlattenPools(env.Cfg.Pools), log)
	names := css.NewNameGenerator(env.Cfg.Generate.NamePrefix)

	sheet, err := NewExpander(ectx, names, env.Log).Expand(data)
	if err != nil {
		return fmt.Errorf("unable to expand stylesheet (%s): %w", src, err)
	}

	outputName, err = BuildOutputName(env.Cfg.Output.NameTemplate, src, dst, rng.Seed(), names.Issued())
	if err != nil {
		return err
	}

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	n, err := sheet.Write(f, css.WriteOptions{Prefixes: env.Cfg.Generate.VendorPrefixes})
	if err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	log.Debug("Output written", zap.Int64("bytes", n), zap.Int("animations", names.Issued()))

	// Store expansion result for debugging
	env.Rpt.Store("result"+filepath.Ext(outputName), outputName)

	return nil
}
