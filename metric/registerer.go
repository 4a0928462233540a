package metric

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Registerer remembers what it registered so the API can unregister on shutdown.
type Registerer struct {
	wrap prometheus.Registerer
	cs   map[prometheus.Collector]struct{}
}

func WrapWithRegisterer(reg prometheus.Registerer) *Registerer {
	return &Registerer{
		wrap: reg,
		cs:   make(map[prometheus.Collector]struct{}),
	}
}

func (u *Registerer) Register(c prometheus.Collector) error {
	if u.wrap == nil {
		return nil
	}

	if err := u.wrap.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}

	u.cs[c] = struct{}{}
	return nil
}

func (u *Registerer) RegisterAll(cs ...prometheus.Collector) error {
	var errs []error
	for _, c := range cs {
		if err := u.Register(c); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (u *Registerer) UnregisterAll() bool {
	success := true
	for c := range u.cs {
		if u.wrap.Unregister(c) {
			delete(u.cs, c)
		} else {
			success = false
		}
	}

	return success
}
