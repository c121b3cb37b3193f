package model

import (
	"io"
	"os"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
)

// SaveTransformer writes the flat archive of t to w.
//
// The bytes written are exactly those returned by t.Save; no header or
// version is added.
//
//	f, _ := os.Create("imputer.bin")
//	defer f.Close()
//	err := model.SaveTransformer(transformer, f)
func SaveTransformer[T Value](t Transformer[T], w io.Writer) error {
	buf, err := t.Save()
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "failed to write transformer archive")
	}
	return nil
}

// SaveTransformerToFile writes the flat archive of t to filename.
func SaveTransformerToFile[T Value](t Transformer[T], filename string) error {
	buf, err := t.Save()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", filename)
	}
	return nil
}

// LoadArchive reads a whole archive from r.
func LoadArchive(r io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read transformer archive")
	}
	return buf, nil
}

// LoadArchiveFromFile reads a whole archive from filename.
func LoadArchiveFromFile(filename string) ([]byte, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	return buf, nil
}
