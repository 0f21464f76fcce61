package terse

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terse/dna"
)

// Runner executes jobs. Each job owns its document, archive and stream, so
// jobs share nothing but the stores returned by the resolver.
type Runner struct {
	opts options
}

// NewRunner returns a runner configured by opts.
func NewRunner(opts ...Option) *Runner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolver == nil {
		o.resolver = NewStoreResolver(o.bytesPerSec, o.minio)
	}
	return &Runner{opts: o}
}

// Run executes jobs concurrently, at most the configured number of workers
// at a time. Every job is validated before the first one starts. The first
// failure cancels the jobs that have not finished and is returned as a
// *JobError.
func (r *Runner) Run(ctx context.Context, jobs []Job) error {
	for i := range jobs {
		if err := jobs[i].Validate(); err != nil {
			return &JobError{Index: i, Input: jobs[i].Input, cause: err}
		}
	}

	r.opts.logger.WithCount(len(jobs)).InfoContext(ctx, "running jobs", "workers", r.opts.workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.workers)
	for i := range jobs {
		g.Go(func() error {
			if err := r.RunJob(ctx, i, &jobs[i]); err != nil {
				return &JobError{Index: i, Input: jobs[i].Input, cause: err}
			}
			return nil
		})
	}
	return g.Wait()
}

// RunJob loads the input of job, applies its commands and saves the output.
// index only labels log records.
func (r *Runner) RunJob(ctx context.Context, index int, job *Job) (err error) {
	start := time.Now()
	log := r.opts.logger.WithJob(index)
	defer func() {
		elapsed := time.Since(start)
		r.opts.metricsCollector.RecordJob(elapsed, err)
		log.LogJob(ctx, job.Input, job.Output, elapsed, err)
	}()

	enc, err := job.encoding()
	if err != nil {
		return err
	}
	seq, err := job.Sequence()
	if err != nil {
		return err
	}

	d, err := r.load(ctx, log, job.Input)
	if err != nil {
		return err
	}

	for i, c := range seq.Commands() {
		cstart := time.Now()
		cerr := c.Run(d)
		r.opts.metricsCollector.RecordCommand(time.Since(cstart), cerr)
		log.LogCommand(ctx, i, job.Commands[i].Op, cerr)
		if cerr != nil {
			return &CommandError{Index: i, Op: job.Commands[i].Op, cause: cerr}
		}
	}

	return r.save(ctx, log, job.Output, d, enc)
}

func (r *Runner) load(ctx context.Context, log *Logger, input string) (*dna.DNA, error) {
	start := time.Now()
	size := 0
	d, err := func() (*dna.DNA, error) {
		loc, err := ParseLocation(input)
		if err != nil {
			return nil, err
		}
		s, err := r.opts.resolver.Resolve(ctx, loc)
		if err != nil {
			return nil, err
		}
		data, err := s.Get(ctx, loc.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "get %s", loc)
		}
		size = len(data)
		return dna.Unmarshal(data, dna.CompressionFor(loc.Name))
	}()
	r.opts.metricsCollector.RecordLoad(size, time.Since(start), err)
	log.LogLoad(ctx, input, size, err)
	return d, err
}

func (r *Runner) save(ctx context.Context, log *Logger, output string, d *dna.DNA, enc encoding) error {
	start := time.Now()
	size := 0
	err := func() error {
		loc, err := ParseLocation(output)
		if err != nil {
			return err
		}
		s, err := r.opts.resolver.Resolve(ctx, loc)
		if err != nil {
			return err
		}
		data, err := dna.Marshal(d, enc.format, enc.compression)
		if err != nil {
			return err
		}
		size = len(data)
		return errors.Wrapf(s.Put(ctx, loc.Name, data), "put %s", loc)
	}()
	r.opts.metricsCollector.RecordSave(size, time.Since(start), err)
	log.LogSave(ctx, output, size, err)
	return err
}
