package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-yals/storage"
	"github.com/sheikhrachel/go-yals/utils"
)

var errOutputConflict = errors.New("output path conflict")

const usage = `worldconv: convert world files between formats

Usage: worldconv [-to FORMAT] [-out DIR] [-j N] FILE...

Input formats are detected automatically (binary, base64, zstd, text).
Each output is written next to its input, or into -out, with the extension of
the target format.
`

func main() {
	var (
		to       = flag.String("to", "text", "Output format: binary, base64, zstd, text")
		outDir   = flag.String("out", "", "Output directory")
		jobs     = flag.Int("j", runtime.NumCPU(), "Number of files converted in parallel")
		logLevel = flag.String("log", "info", "Log level")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := utils.NewLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	storage.SetLogger(logger.Named("storage"))

	format, err := storage.ParseFormat(*to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err = convertAll(ctx, flag.Args(), format, *outDir, *jobs, logger); err != nil {
		logger.Error("conversion failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// convertAll converts every input file, at most jobs at a time, and returns the
// output paths in input order. The first failure cancels files not yet started.
func convertAll(
	ctx context.Context,
	inputs []string,
	format storage.Format,
	outDir string,
	jobs int,
	logger *zap.Logger,
) ([]string, error) {
	outputs, err := planOutputs(inputs, format, outDir)
	if err != nil {
		return nil, err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(jobs, 1))

	for i, in := range inputs {
		out := outputs[i]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := convertFile(in, out, format); err != nil {
				return err
			}
			logger.Info("converted", zap.String("in", in), zap.String("out", out), zap.Stringer("format", format))
			return nil
		})
	}

	if err = eg.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func convertFile(in, out string, format storage.Format) error {
	world, err := storage.Load(in)
	if err != nil {
		return err
	}
	defer world.Destroy()

	if err = storage.Save(out, world, format); err != nil {
		return errors.Wrapf(err, "[convertFile] %s", in)
	}
	return nil
}

// planOutputs maps every input to its output path. An output may neither
// replace an input nor be shared by two inputs.
func planOutputs(inputs []string, format storage.Format, outDir string) ([]string, error) {
	var (
		outputs   = make([]string, len(inputs))
		isInput   = make(map[string]bool, len(inputs))
		writtenBy = make(map[string]string, len(inputs))
	)
	for _, in := range inputs {
		isInput[pathKey(in)] = true
	}
	for i, in := range inputs {
		out := outputPath(in, format, outDir)
		key := pathKey(out)
		if isInput[key] {
			return nil, errors.Wrapf(errOutputConflict, "[planOutputs] %s would overwrite an input", out)
		}
		if prev, ok := writtenBy[key]; ok {
			return nil, errors.Wrapf(errOutputConflict, "[planOutputs] %s and %s both convert to %s", prev, in, out)
		}
		writtenBy[key] = in
		outputs[i] = out
	}
	return outputs, nil
}

func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// outputPath swaps a known world extension for the target format's
func outputPath(in string, format storage.Format, outDir string) string {
	base := in
	for _, f := range []storage.Format{storage.FormatZstd, storage.FormatBinary, storage.FormatBase64, storage.FormatText} {
		if strings.HasSuffix(base, f.Ext()) {
			base = strings.TrimSuffix(base, f.Ext())
			break
		}
	}
	if outDir != "" {
		base = filepath.Join(outDir, filepath.Base(base))
	}
	return base + format.Ext()
}
