package pool

import (
	"fmt"
	"time"

	"github.com/atlaspay/go-dbpool/validator"
)

const DefaultProbeTimeout = 2 * time.Second

type Options struct {
	// MinSize connections are opened eagerly by Initialize.
	MinSize int `validate:"gte=0"`

	// MaxSize is the hard ceiling on live connections, counting both the
	// available and the checked-out set.
	MaxSize int `validate:"required,gte=1,gtefield=MinSize"`

	// ProbeTimeout bounds the validity probe run on connections pulled
	// from the available set. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration `validate:"gte=0"`
}

func (o Options) Validate() error {
	if m := validator.Validate(o); m != nil {
		return fmt.Errorf("pool: invalid options: %v", m)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	return o
}
