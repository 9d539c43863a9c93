// Package loader runs a full load pass: discovery, manifest parsing,
// admission, and registry population. A pass always completes even when
// individual candidates fail; every rejection is returned as a diagnostic
// alongside the populated registry.
package loader

import (
	"fmt"
	"os"
	"sync"

	"github.com/klauern/openskills/internal/cache"
	"github.com/klauern/openskills/internal/discovery"
	"github.com/klauern/openskills/internal/logging"
	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/registry"
	"github.com/klauern/openskills/internal/validation"
)

// ProgressFunc is called after each candidate finishes parsing.
type ProgressFunc func(done, total int)

// Loader loads skills from configured roots into a fresh registry.
type Loader struct {
	disc     *discovery.Discovery
	workers  int
	cache    *cache.Cache
	progress ProgressFunc
}

// Option configures a Loader.
type Option func(*Loader) error

// WithWorkers enables parallel manifest parsing with n workers.
// Admission stays sequential in traversal order regardless, so first-wins
// duplicate handling is deterministic.
func WithWorkers(n int) Option {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("workers must be >= 1, got %d", n)
		}
		l.workers = n
		return nil
	}
}

// WithCache attaches a parse cache. Unchanged manifests are served from the
// cache instead of being re-read.
func WithCache(c *cache.Cache) Option {
	return func(l *Loader) error {
		l.cache = c
		return nil
	}
}

// WithProgress attaches a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(l *Loader) error {
		l.progress = fn
		return nil
	}
}

// New creates a Loader over the given discovery.
func New(disc *discovery.Discovery, opts ...Option) (*Loader, error) {
	if disc == nil {
		return nil, fmt.Errorf("discovery is required")
	}

	l := &Loader{disc: disc, workers: 1}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// parseOutcome is the result of parsing one candidate, before admission.
type parseOutcome struct {
	candidate  discovery.Candidate
	entry      model.Entry
	diagnostic *model.Diagnostic
}

// Load runs one full pass and returns the populated registry along with a
// diagnostic for every rejected candidate. A failure on one candidate never
// aborts the rest: admitted entries plus diagnostics account for every
// discovered manifest.
func (l *Loader) Load() (*registry.Registry, []model.Diagnostic, error) {
	defer logging.Timer("load")()

	candidates, err := l.disc.Candidates()
	if err != nil {
		return nil, nil, fmt.Errorf("discovery failed: %w", err)
	}

	outcomes := l.parseAll(candidates)

	reg := registry.New()
	var diagnostics []model.Diagnostic

	// Admission runs in traversal order so the first candidate to claim a
	// name always wins, regardless of parse parallelism.
	for _, outcome := range outcomes {
		if outcome.diagnostic != nil {
			diagnostics = append(diagnostics, *outcome.diagnostic)
			logging.Debug("candidate rejected",
				logging.Path(outcome.diagnostic.Path),
				logging.Code(outcome.diagnostic.Code.String()),
			)
			continue
		}

		if diag := validation.CheckAdmission(reg, outcome.candidate.Dir, outcome.entry.Manifest); diag != nil {
			diagnostics = append(diagnostics, *diag)
			logging.Debug("candidate rejected",
				logging.Path(diag.Path),
				logging.Code(diag.Code.String()),
			)
			continue
		}

		if err := reg.Insert(outcome.entry); err != nil {
			// The validator already screens duplicates; this only fires if
			// the registry was shared, which Load never does.
			diagnostics = append(diagnostics, model.Diagnostic{
				Path:    outcome.candidate.Dir,
				Code:    model.CodeDuplicateName,
				Message: err.Error(),
			})
			continue
		}

		if l.cache != nil {
			l.cache.Set(outcome.entry)
		}
	}

	if l.cache != nil {
		if err := l.cache.Save(); err != nil {
			logging.Warn("failed to persist parse cache", logging.Err(err))
		}
	}

	logging.Info("load pass completed",
		logging.Count(reg.Len()),
		logging.Operation("load"),
	)

	return reg, diagnostics, nil
}

// parseAll parses every candidate, in parallel when configured. The returned
// slice is indexed in traversal order.
func (l *Loader) parseAll(candidates []discovery.Candidate) []parseOutcome {
	outcomes := make([]parseOutcome, len(candidates))
	total := len(candidates)

	if l.workers <= 1 || total <= 1 {
		for i, c := range candidates {
			outcomes[i] = l.parseCandidate(c)
			l.reportProgress(i+1, total)
		}
		return outcomes
	}

	// Each candidate's read and parse is independent and side-effect-free,
	// so a simple index-fanout pool is enough. Results land in their
	// traversal-order slot.
	indexes := make(chan int)
	var wg sync.WaitGroup
	var done int
	var mu sync.Mutex

	workers := min(l.workers, total)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = l.parseCandidate(candidates[i])

				mu.Lock()
				done++
				l.reportProgress(done, total)
				mu.Unlock()
			}
		}()
	}

	for i := range candidates {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// parseCandidate reads and parses one candidate's manifest.
func (l *Loader) parseCandidate(c discovery.Candidate) parseOutcome {
	if l.cache != nil {
		if entry, ok := l.cache.Get(c.ManifestPath); ok {
			logging.Debug("manifest served from cache", logging.Path(c.ManifestPath))
			return parseOutcome{candidate: c, entry: entry}
		}
	}

	// #nosec G304 - the path comes from directory traversal of configured roots
	content, err := os.ReadFile(c.ManifestPath)
	if err != nil {
		return parseOutcome{candidate: c, diagnostic: &model.Diagnostic{
			Path:    c.Dir,
			Code:    model.CodeMissingMetadataBlock,
			Message: fmt.Sprintf("manifest unreadable: %v", err),
		}}
	}

	m, body, err := manifest.Parse(content)
	if err != nil {
		code, ok := manifest.DiagnosticCode(err)
		if !ok {
			code = model.CodeMalformedField
		}
		return parseOutcome{candidate: c, diagnostic: &model.Diagnostic{
			Path:    c.Dir,
			Code:    code,
			Message: err.Error(),
		}}
	}

	entry := model.Entry{
		Manifest:     m,
		Content:      body,
		SourcePath:   c.Dir,
		ManifestPath: c.ManifestPath,
		References:   discovery.SupportFiles(c.Dir, "references"),
		Scripts:      discovery.SupportFiles(c.Dir, "scripts"),
		Assets:       discovery.SupportFiles(c.Dir, "assets"),
	}
	if info, err := os.Stat(c.ManifestPath); err == nil {
		entry.ModifiedAt = info.ModTime()
	}

	return parseOutcome{candidate: c, entry: entry}
}

func (l *Loader) reportProgress(done, total int) {
	if l.progress != nil {
		l.progress(done, total)
	}
}
