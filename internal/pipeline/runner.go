// Package pipeline runs one changelog update: read the marker, compute the
// changes since it, publish an entry and advance the marker.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/masmgr/updatechangelog-go/internal/changelog"
	"github.com/masmgr/updatechangelog-go/internal/git"
	"github.com/masmgr/updatechangelog-go/internal/logging"
	"github.com/masmgr/updatechangelog-go/internal/messages"
	"github.com/masmgr/updatechangelog-go/internal/patchset"
	"github.com/masmgr/updatechangelog-go/internal/publish"
	"github.com/masmgr/updatechangelog-go/internal/revision"
)

// Policy controls when the marker moves.
type Policy struct {
	// AdvanceWhenEmpty records HEAD even when no message lines were found.
	AdvanceWhenEmpty bool
	// AdvanceOnPublishFailure records HEAD even when publishing failed.
	AdvanceOnPublishFailure bool
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{AdvanceWhenEmpty: true, AdvanceOnPublishFailure: false}
}

// MarkerError reports a failure to record the new revision.
type MarkerError struct {
	Revision git.Revision
	Err      error
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("unable to record revision %s: %v", e.Revision.Short(), e.Err)
}

func (e *MarkerError) Unwrap() error {
	return e.Err
}

// Result describes what a run did.
type Result struct {
	Last           git.Revision     `json:"last"`
	Head           git.Revision     `json:"head"`
	Record         changelog.Record `json:"record"`
	Rendered       string           `json:"rendered,omitempty"`
	Author         string           `json:"author,omitempty"`
	Published      bool             `json:"published"`
	MarkerAdvanced bool             `json:"marker_advanced"`
}

// Runner wires the components of an update.
type Runner struct {
	reader    git.CommitGraphReader
	store     revision.Store
	differ    *patchset.Differ
	collector *messages.Collector
	renderer  changelog.Renderer
	publisher publish.Publisher
	policy    Policy
	head      string
	log       *logging.Logger
	progress  func(stage string)
}

// Options configures a Runner.
type Options struct {
	Reader    git.CommitGraphReader
	Store     revision.Store
	Filter    *messages.LineFilter
	Renderer  changelog.Renderer
	Publisher publish.Publisher
	Policy    Policy
	// Head is the revision expression treated as the new state; empty means HEAD.
	Head   string
	Logger *logging.Logger
}

// NewRunner creates a Runner from opts.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Runner{
		reader:    opts.Reader,
		store:     opts.Store,
		differ:    patchset.NewDiffer(opts.Reader, log),
		collector: messages.NewCollector(opts.Reader, opts.Filter, log),
		renderer:  opts.Renderer,
		publisher: opts.Publisher,
		policy:    opts.Policy,
		head:      opts.Head,
		log:       log.With("[pipeline]"),
	}
}

// Run performs a full update. The marker is left untouched on any error
// except as allowed by the policy.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	head, err := r.resolveHead(ctx)
	if err != nil {
		return nil, err
	}

	last, ok, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		r.log.Infof("No recorded revision, starting from %s", head.Short())
		last = head
	} else if last, err = r.resolveMarker(ctx, last, head); err != nil {
		r.log.Debugf("%v", err)
		return nil, err
	}

	if err := git.ValidateAncestry(ctx, r.reader, last, head); err != nil {
		r.log.Debugf("%v", err)
		return nil, err
	}

	res, err := r.compute(ctx, last, head)
	if err != nil {
		return nil, err
	}

	if res.Record.IsEmpty() {
		r.log.Infof("Nothing new.")
		if r.policy.AdvanceWhenEmpty {
			return res, r.save(res)
		}
		return res, nil
	}

	r.stage("Rendering entry...")
	if res.Rendered, err = r.renderer.Render(res.Record); err != nil {
		return nil, fmt.Errorf("rendering changelog entry: %w", err)
	}

	info, err := r.reader.Commit(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("reading author of %s: %w", head.Short(), err)
	}
	res.Author = info.Author.Email

	r.stage("Publishing...")
	if err := r.publisher.Publish(ctx, publish.Entry{Text: res.Rendered, Author: res.Author}); err != nil {
		r.log.Debugf("Publishing failed: %v", err)
		if r.policy.AdvanceOnPublishFailure {
			if saveErr := r.save(res); saveErr != nil {
				r.log.Errorf("%v", saveErr)
			}
		}
		return res, err
	}
	res.Published = true
	r.log.Infof("Published %d lines, %d patch changes", len(res.Record.Messages), res.Record.PatchSet().Len())

	return res, r.save(res)
}

// Preview computes and renders the entry for from..to without publishing
// or touching the marker. An empty from means the recorded revision, and an
// empty to means the configured head.
func (r *Runner) Preview(ctx context.Context, from, to string) (*Result, error) {
	last, head, err := r.ResolveRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	res, err := r.compute(ctx, last, head)
	if err != nil {
		return nil, err
	}
	if !res.Record.IsEmpty() {
		if res.Rendered, err = r.renderer.Render(res.Record); err != nil {
			return nil, fmt.Errorf("rendering changelog entry: %w", err)
		}
	}
	return res, nil
}

// ResolveRange turns revision expressions into a validated last..head pair.
// Defaults are the same as for Preview. last must be an ancestor of head.
func (r *Runner) ResolveRange(ctx context.Context, from, to string) (last, head git.Revision, err error) {
	if to == "" {
		head, err = r.resolveHead(ctx)
	} else {
		head, err = r.reader.Resolve(ctx, to)
	}
	if err != nil {
		return "", "", err
	}

	if from == "" {
		var ok bool
		last, ok, err = r.store.Load()
		if err != nil {
			return "", "", err
		}
		if !ok {
			last = head
		} else if last, err = r.resolveMarker(ctx, last, head); err != nil {
			return "", "", err
		}
	} else if last, err = r.reader.Resolve(ctx, from); err != nil {
		return "", "", err
	}

	if err := git.ValidateAncestry(ctx, r.reader, last, head); err != nil {
		return "", "", err
	}
	return last, head, nil
}

// OnProgress registers fn to be told when the run enters a new stage.
func (r *Runner) OnProgress(fn func(stage string)) {
	r.progress = fn
}

// Differ returns the patch set differ used by the runner.
func (r *Runner) Differ() *patchset.Differ {
	return r.differ
}

// Collector returns the message collector used by the runner.
func (r *Runner) Collector() *messages.Collector {
	return r.collector
}

func (r *Runner) compute(ctx context.Context, last, head git.Revision) (*Result, error) {
	r.log.Debugf("computing changes %s..%s", last.Short(), head.Short())

	r.stage("Diffing patch files...")
	ps, err := r.differ.Diff(ctx, last, head)
	if err != nil {
		return nil, err
	}
	r.stage("Collecting commit messages...")
	lines, err := r.collector.Collect(ctx, head, last)
	if err != nil {
		return nil, err
	}

	return &Result{
		Last:   last,
		Head:   head,
		Record: changelog.Build(lines, ps),
	}, nil
}

func (r *Runner) resolveHead(ctx context.Context) (git.Revision, error) {
	if r.head == "" || r.head == "HEAD" {
		return r.reader.ResolveHead(ctx)
	}
	return r.reader.Resolve(ctx, r.head)
}

// resolveMarker turns the stored marker, which may be abbreviated or edited
// by hand, into a full hash. A marker the repository does not know is
// reported as an integrity failure.
func (r *Runner) resolveMarker(ctx context.Context, last, head git.Revision) (git.Revision, error) {
	rev, err := r.reader.Resolve(ctx, string(last))
	if errors.Is(err, git.ErrUnknownRevision) {
		return "", &git.IntegrityError{Last: last, Head: head}
	}
	if err != nil {
		return "", err
	}
	return rev, nil
}

func (r *Runner) stage(name string) {
	if r.progress != nil {
		r.progress(name)
	}
}

func (r *Runner) save(res *Result) error {
	if err := r.store.Save(res.Head); err != nil {
		return &MarkerError{Revision: res.Head, Err: err}
	}
	res.MarkerAdvanced = true
	r.log.Debugf("recorded %s", res.Head.Short())
	return nil
}
