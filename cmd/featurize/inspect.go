package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/preprocessing"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect STATE",
		Short: "Print the last known value stored in a transformer archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			buf, err := model.LoadArchiveFromFile(args[0])
			if err != nil {
				return err
			}
			return inspectArchive(cmd.OutOrStdout(), cfg.Type, buf)
		},
	}
	cmd.Flags().String("type", "int64", "value type: int64, float64, bool or string")
	return cmd
}

func inspectArchive(w io.Writer, valueType string, buf []byte) error {
	switch valueType {
	case "int64":
		return printLastKnown[int64](w, buf)
	case "float64":
		return printLastKnown[float64](w, buf)
	case "bool":
		return printLastKnown[bool](w, buf)
	case "string":
		return printLastKnown[string](w, buf)
	default:
		return errors.NewInvalidArgumentError("inspect", "type", "unsupported value type "+valueType)
	}
}

// printLastKnown decodes buf. Both fill imputers share one archive layout.
func printLastKnown[T model.Value](w io.Writer, buf []byte) error {
	t, err := preprocessing.NewBackwardFillTransformerFromBytes[T](buf)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "size: %d bytes\nlast_known: %s\n", len(buf), t.LastKnown())
	return err
}
