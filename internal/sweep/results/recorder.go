package results

import "errors"

// Recorder accepts measurements as the sweep produces them.
type Recorder interface {
	Append(m Measurement) error
	Close() error
}

type tee struct {
	recorders []Recorder
}

// Tee fans every Append out to all recorders in order. The first failing
// recorder stops the fan-out for that measurement.
func Tee(recorders ...Recorder) Recorder {
	return &tee{recorders: recorders}
}

func (t *tee) Append(m Measurement) error {
	for _, r := range t.recorders {
		if err := r.Append(m); err != nil {
			return err
		}
	}
	return nil
}

func (t *tee) Close() error {
	var errs []error
	for _, r := range t.recorders {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
