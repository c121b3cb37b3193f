package preprocessing

import (
	"github.com/YuminosukeSato/featurizer/core/archive"
	"github.com/YuminosukeSato/featurizer/core/model"
	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
)

// fillState is the carried-forward state of a fill transformer.
//
// Only lastKnown is persisted. pending counts nulls buffered since the last
// fill boundary and is reset to zero by Flush and by a save/load round trip.
type fillState[T model.Value] struct {
	name      string
	lastKnown model.Nullable[T]
	pending   int
	cfg       config
	logger    log.Logger
}

func newFillState[T model.Value](name string, cfg config) fillState[T] {
	return fillState[T]{
		name: name,
		cfg:  cfg,
		logger: cfg.logger.With(
			log.FeaturizerKey, name,
			log.ValueTypeKey, archive.TypeName[T](),
		),
	}
}

// resolve emits pending+1 copies of v and records it as the last known value.
func (s *fillState[T]) resolve(v T) []T {
	out := repeat(v, s.pending+1)
	s.pending = 0
	s.lastKnown = model.Some(v)
	return out
}

func (s *fillState[T]) flush() ([]T, error) {
	if s.pending == 0 {
		return nil, nil
	}

	pending := s.pending
	s.pending = 0

	switch s.cfg.tailPolicy {
	case FillWithLastKnown:
		if v, ok := s.lastKnown.Get(); ok {
			return repeat(v, pending), nil
		}
	case ErrorOnUnresolved:
		return nil, errors.NewInvalidStateError(s.name+".Flush", "unresolved",
			"stream ended with nulls that no later value resolved")
	}

	s.logger.Warn("unresolved nulls dropped at flush",
		log.OperationKey, log.OperationFlush,
		log.PendingKey, pending,
		log.PolicyKey, s.cfg.tailPolicy.String(),
	)
	return nil, nil
}

// save writes the presence flag of lastKnown followed by its value.
func (s *fillState[T]) save() ([]byte, error) {
	if s.pending > 0 {
		s.logger.Warn("pending nulls are not persisted; they are lost on restore",
			log.OperationKey, log.OperationSave,
			log.PendingKey, s.pending,
		)
	}

	w := archive.NewWriter()
	v, ok := s.lastKnown.Get()
	w.WriteBool(ok)
	if ok {
		archive.WriteValue(w, v)
	}
	return w.Bytes(), nil
}

// load restores lastKnown from an archive written by save.
func (s *fillState[T]) load(buf []byte) error {
	op := s.name + ".Load"
	if len(buf) == 0 {
		return errors.Mark(errors.NewInvalidArgumentError(op, "buffer", "archive must not be empty"), errors.ErrEmptyArchive)
	}

	r := archive.NewReader(buf)
	present, err := r.ReadBool()
	if err != nil {
		return err
	}
	if present {
		v, err := archive.ReadValue[T](r)
		if err != nil {
			return err
		}
		s.lastKnown = model.Some(v)
	}
	if err := r.Done(); err != nil {
		return err
	}

	s.logger.Debug("transformer restored",
		log.OperationKey, log.OperationLoad,
		log.ArchiveSizeKey, len(buf),
	)
	return nil
}

// LastKnown returns the most recent non-null value seen, if any.
func (s *fillState[T]) LastKnown() model.Nullable[T] {
	return s.lastKnown
}

// Pending returns the number of buffered nulls awaiting a value.
func (s *fillState[T]) Pending() int {
	return s.pending
}

func repeat[T any](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
