package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
	"github.com/YuminosukeSato/featurizer/preprocessing"
)

var valueTypes = map[string]struct{}{
	"int64":   {},
	"float64": {},
	"bool":    {},
	"string":  {},
}

func newTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Stream values through a fill imputer, one value per line",
		Long: `Reads one value per line from --input and writes every emitted value on its
own line. A line equal to --null-token is null. The transformer is trained on
--train, or restored from --load, and its state is written to --save after the
stream is flushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			return runTransform(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("featurizer", "backward-fill", "fill direction: backward-fill or forward-fill")
	flags.String("type", "int64", "value type: int64, float64, bool or string")
	flags.String("null-token", "", "line content that denotes a null value")
	flags.String("tail", "drop", "unresolved tail policy: drop, last-known or error")
	flags.String("input", "-", "input file, - for stdin")
	flags.String("train", "", "training file; empty trains on no data")
	flags.String("load", "", "restore the transformer from this archive instead of training")
	flags.String("save", "", "write the transformer archive here after flushing")
	return cmd
}

func runTransform(ctx context.Context, cfg Config, stdin io.Reader, stdout io.Writer) error {
	switch cfg.Type {
	case "int64":
		return transformStream(ctx, cfg, parseInt64, stdin, stdout)
	case "float64":
		return transformStream(ctx, cfg, parseFloat64, stdin, stdout)
	case "bool":
		return transformStream(ctx, cfg, strconv.ParseBool, stdin, stdout)
	case "string":
		return transformStream(ctx, cfg, parseString, stdin, stdout)
	default:
		return errors.NewInvalidArgumentError("transform", "type", "unsupported value type "+cfg.Type)
	}
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func parseFloat64(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseString(s string) (string, error) { return s, nil }

func transformStream[T model.Value](ctx context.Context, cfg Config, parse func(string) (T, error), stdin io.Reader, stdout io.Writer) error {
	logger := log.GetLoggerWithName("featurize")
	policy, err := preprocessing.ParseUnresolvedTailPolicy(cfg.Tail)
	if err != nil {
		return err
	}
	opts := []preprocessing.Option{
		preprocessing.WithUnresolvedTailPolicy(policy),
		preprocessing.WithLogger(logger),
	}

	tr, err := buildTransformer(ctx, cfg, parse, opts)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cfg.Input, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	out := bufio.NewWriter(stdout)
	emitted := 0
	emit := func(values []T) error {
		for _, v := range values {
			if _, err := fmt.Fprintln(out, v); err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		}
		emitted += len(values)
		return nil
	}

	items, err := scanValues(in, cfg.NullToken, parse, func(item model.Nullable[T]) error {
		values, err := tr.Execute(item)
		if err != nil {
			return err
		}
		return emit(values)
	})
	if err != nil {
		return err
	}
	tail, err := tr.Flush()
	if err != nil {
		return err
	}
	if err := emit(tail); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	logger.Debug("stream transformed",
		log.OperationKey, log.OperationTransform,
		log.ItemsKey, items,
		log.EmittedKey, emitted,
	)

	if cfg.Save != "" {
		if err := model.SaveTransformerToFile(tr, cfg.Save); err != nil {
			return err
		}
	}
	return nil
}

// buildTransformer restores from cfg.Load or trains a fresh estimator.
func buildTransformer[T model.Value](ctx context.Context, cfg Config, parse func(string) (T, error), opts []preprocessing.Option) (model.Transformer[T], error) {
	if cfg.Load != "" {
		buf, err := model.LoadArchiveFromFile(cfg.Load)
		if err != nil {
			return nil, err
		}
		return loadTransformer[T](cfg.Featurizer, buf, opts)
	}

	var training []model.Nullable[T]
	if cfg.Train != "" {
		f, err := os.Open(cfg.Train)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", cfg.Train)
		}
		defer f.Close()
		if training, err = readValues(f, cfg.NullToken, parse); err != nil {
			return nil, err
		}
	}

	est := newEstimator[T](cfg.Featurizer, opts)
	if err := model.Train(ctx, est, training, model.WithTrainLogger(log.GetLoggerWithName("featurize"))); err != nil {
		return nil, err
	}
	return est.CreateTransformer()
}

func newEstimator[T model.Value](kind string, opts []preprocessing.Option) model.Estimator[T] {
	if kind == "forward-fill" {
		return preprocessing.NewForwardFillEstimator[T](opts...)
	}
	return preprocessing.NewBackwardFillEstimator[T](opts...)
}

func loadTransformer[T model.Value](kind string, buf []byte, opts []preprocessing.Option) (model.Transformer[T], error) {
	if kind == "forward-fill" {
		t, err := preprocessing.NewForwardFillTransformerFromBytes[T](buf, opts...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	t, err := preprocessing.NewBackwardFillTransformerFromBytes[T](buf, opts...)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// scanValues parses one value per line and hands each to fn. A line equal to
// nullToken is null, and so is NaN for float types. It returns the number of
// lines consumed.
func scanValues[T model.Value](r io.Reader, nullToken string, parse func(string) (T, error), fn func(model.Nullable[T]) error) (int, error) {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		item := model.Null[T]()
		if text != nullToken {
			v, err := parse(text)
			if err != nil {
				return line, errors.NewInvalidArgumentError("scanValues", fmt.Sprintf("line %d", line), err.Error())
			}
			item = model.FromValue(v)
		}
		if err := fn(item); err != nil {
			return line, err
		}
	}
	if err := scanner.Err(); err != nil {
		return line, errors.Wrap(err, "failed to read input")
	}
	return line, nil
}

// readValues collects every value of r.
func readValues[T model.Value](r io.Reader, nullToken string, parse func(string) (T, error)) ([]model.Nullable[T], error) {
	var values []model.Nullable[T]
	_, err := scanValues(r, nullToken, parse, func(item model.Nullable[T]) error {
		values = append(values, item)
		return nil
	})
	return values, err
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}
