package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/couchcryptid/draogmims2caom2/internal/blueprint"
	"github.com/couchcryptid/draogmims2caom2/internal/caom"
	"github.com/couchcryptid/draogmims2caom2/internal/domain"
	"github.com/couchcryptid/draogmims2caom2/internal/observability"
)

// HeaderReader reads the FITS headers of a file on disk.
type HeaderReader interface {
	ReadHeaders(ctx context.Context, path string) (blueprint.Headers, error)
}

// Loader writes a finished observation to its destination.
type Loader interface {
	Load(ctx context.Context, obs *caom.Observation) error
}

// Pipeline stages, used as the stage label on metrics.
const (
	stageSelect    = "select"
	stageRead      = "read"
	stageBlueprint = "blueprint"
	stageApply     = "apply"
	stageUpdate    = "update"
	stageLoad      = "load"
)

// StageError records which stage of a run failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// Format keeps the wrapped stack trace visible under %+v.
func (e *StageError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Stage, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Runner turns one set of command-line identifiers into a CAOM2 observation.
type Runner struct {
	plugin  domain.Plugin
	reader  HeaderReader
	loaders []Loader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Runner. Loaders are called in order; none is required.
func New(plugin domain.Plugin, reader HeaderReader, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Runner {
	return &Runner{
		plugin:  plugin,
		reader:  reader,
		loaders: loaders,
		logger:  logger,
		metrics: metrics,
	}
}

// Run selects the file named by args, maps its headers through the plugin's
// blueprint, applies the derived overrides and hands the result to every loader.
func (r *Runner) Run(ctx context.Context, args domain.Args) (*caom.Observation, error) {
	var target domain.Target
	err := r.stage(stageSelect, func() error {
		sel, err := domain.Select(args)
		if err != nil {
			return err
		}
		target, err = domain.Resolve(sel)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger := r.logger.With("observation_id", target.ObservationID, "uri", target.URI)

	var headers blueprint.Headers
	if target.FnameOnDisk != "" {
		err = r.stage(stageRead, func() error {
			headers, err = r.reader.ReadHeaders(ctx, target.FnameOnDisk)
			return err
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("headers read", "path", target.FnameOnDisk, "hdus", len(headers))
	}

	var bp *blueprint.Blueprint
	err = r.stage(stageBlueprint, func() error {
		blueprints, err := r.plugin.BuildBlueprints(target.URI)
		if err != nil {
			return err
		}
		var ok bool
		if bp, ok = blueprints[target.URI]; !ok {
			return errors.Errorf("no blueprint for %s", target.URI)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var obs *caom.Observation
	err = r.stage(stageApply, func() error {
		obs, err = blueprint.Apply(bp, headers, blueprint.ApplyOptions{
			Collection:    domain.Collection,
			ObservationID: target.ObservationID,
			ProductID:     target.ProductID,
			URI:           target.URI,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(stageUpdate, func() error {
		_, err := r.plugin.Update(obs, domain.UpdateParams{Headers: headers, FQN: target.FnameOnDisk})
		return err
	})
	if err != nil {
		return nil, err
	}
	r.metrics.PlanesUpdated.Add(float64(len(obs.Planes)))

	err = r.stage(stageLoad, func() error {
		for _, l := range r.loaders {
			if err := l.Load(ctx, obs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.metrics.FilesProcessed.Inc()
	r.metrics.LastSuccess.Set(float64(clock.Now().Unix()))
	logger.Info("observation complete", "planes", len(obs.Planes))
	return obs, nil
}

// stackTracer is implemented by errors from github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stage times fn and counts its failure against the stage label. Errors
// without a recorded stack get one here.
func (r *Runner) stage(name string, fn func() error) error {
	start := clock.Now()
	err := fn()
	r.metrics.StageDuration.WithLabelValues(name).Observe(clock.Since(start).Seconds())
	if err != nil {
		r.metrics.FilesFailed.WithLabelValues(name).Inc()
		var st stackTracer
		if !errors.As(err, &st) {
			err = errors.WithStack(err)
		}
		return &StageError{Stage: name, Err: err}
	}
	return nil
}
