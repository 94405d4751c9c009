package schema

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"codec-generator/internal/descriptor"
	"codec-generator/internal/plan"
)

// Compiled pairs a schema record with its plans.
type Compiled struct {
	Source *Record
	Plan   *plan.Record
}

// Config returns the record-level plan configuration.
// Values are assumed valid; Validate reports bad ones.
func (r *Record) Config() plan.Config {
	cfg := plan.Config{Name: r.Name, Validate: r.Validate}

	if a, err := descriptor.ParseAccess(r.Access); err == nil {
		cfg.Access = a
	}

	if r.InitAccess != "" {
		if a, err := descriptor.ParseAccess(r.InitAccess); err == nil {
			cfg.InitAccess = &a
		}
	}

	if m, err := plan.ParseMode(r.Mode); err == nil {
		cfg.Mode = m
	}

	return cfg
}

// Compile validates f and plans every record. Warnings are logged; any error
// diagnostic aborts before planning starts.
func Compile(f *File, log *zap.Logger) ([]Compiled, error) {
	if log == nil {
		log = zap.NewNop()
	}

	diags := Validate(f)
	for _, w := range diags.Warnings {
		log.Warn(w.Message,
			zap.String("code", w.Code),
			zap.String("record", w.Record),
			zap.String("field", w.Field),
		)
	}

	if err := diags.Err(); err != nil {
		return nil, err
	}

	out := make([]Compiled, 0, len(f.Records))

	for i := range f.Records {
		rec := &f.Records[i]

		fields, err := descriptor.Build(rec.Inputs())
		if err != nil {
			return nil, errors.Wrapf(err, "record %s", rec.Name)
		}

		p, err := plan.Compile(rec.Config(), fields, log)
		if err != nil {
			return nil, err
		}

		log.Debug("planned record",
			zap.String("record", rec.Name),
			zap.Stringer("mode", p.Mode),
			zap.Int("decode_steps", len(p.Decode)),
			zap.Int("writes", len(p.Encode.Writes)),
		)

		out = append(out, Compiled{Source: rec, Plan: p})
	}

	return out, nil
}
