// Package orchestrator implements the generate and update pipelines.
//
// Both pipelines try the model gateway first and absorb every model-side
// failure into a deterministic fallback: callers never see a hard error from
// model unavailability, only a result labeled with which path produced it
// and, for fallback, why.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/modforge/modforge/internal/bundle"
	"github.com/modforge/modforge/internal/gateway"
	"github.com/modforge/modforge/internal/patch"
	"github.com/modforge/modforge/internal/spec"
	"github.com/modforge/modforge/internal/templates"
)

// Path labels for result reporting.
const (
	UsedModel    = "model"
	UsedFallback = "fallback"
)

// ModelGateway is the narrow slice of the gateway the orchestrator needs.
type ModelGateway interface {
	CallJSON(ctx context.Context, messages []gateway.Message, temperature float64) gateway.Result
}

// GenerationResult reports which path produced the bundle. Reason is set
// only when Used is "fallback".
type GenerationResult struct {
	Used   string         `json:"used"`
	Reason string         `json:"reason,omitempty"`
	Bundle *bundle.Bundle `json:"bundle"`
}

// UpdateResult additionally carries a human-reviewable rendering of the
// applied diffs (or the explicit no-op marker).
type UpdateResult struct {
	Used      string         `json:"used"`
	Reason    string         `json:"reason,omitempty"`
	PatchText string         `json:"patchText"`
	Bundle    *bundle.Bundle `json:"bundle"`
}

// patchEntry is one model-proposed file patch.
type patchEntry struct {
	Path  string `json:"path"`
	Patch string `json:"patch"`
}

// Orchestrator runs generation and update against an injected store and
// gateway, with a rule table as the deterministic update fallback.
type Orchestrator struct {
	gw    ModelGateway
	store bundle.Store
	rules []Rule

	// locks serializes read-modify-write per bundle ID so concurrent updates
	// against the same bundle cannot interleave.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Orchestrator. A nil gateway means "not configured": every
// call takes the deterministic path. A nil rules slice gets DefaultRules.
func New(gw ModelGateway, store bundle.Store, rules []Rule) *Orchestrator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Orchestrator{
		gw:    gw,
		store: store,
		rules: rules,
		locks: make(map[string]*sync.Mutex),
	}
}

// Generate produces a fresh bundle for the spec, via the model when possible
// and the template engine otherwise, and registers it in the store.
func (o *Orchestrator) Generate(ctx context.Context, s spec.ComponentSpec) (*GenerationResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	res := o.callModel(ctx, generationMessages(s), 0.1)

	var payload struct {
		Summary string            `json:"summary"`
		Files   map[string]string `json:"files"`
	}
	if res.OK {
		if err := json.Unmarshal(res.Data, &payload); err != nil {
			res = gateway.Result{Reason: "model returned unexpected JSON shape"}
		}
	}

	result := &GenerationResult{}
	if res.OK && len(payload.Files) > 0 {
		summary := payload.Summary
		if summary == "" {
			summary = "Generated."
		}
		b := &bundle.Bundle{
			ID:        bundle.NewID(),
			CreatedAt: time.Now().UTC(),
			Summary:   summary,
			Files:     payload.Files,
		}
		b.ComponentPath, b.StylesheetPath = deriveManifest(s.ComponentName, payload.Files)
		result.Used = UsedModel
		result.Bundle = b
	} else {
		reason := res.Reason
		if reason == "" {
			reason = "model returned no files"
		}
		log.Printf("Generation falling back to templates: %s", reason)
		result.Used = UsedFallback
		result.Reason = reason
		result.Bundle = templates.Generate(s)
	}

	if err := o.store.Put(result.Bundle); err != nil {
		return nil, fmt.Errorf("storing bundle: %w", err)
	}
	return result, nil
}

// Update derives a new bundle from bundleID by applying the instruction,
// via model-proposed patches when possible and the rule table otherwise.
// The source bundle is never mutated; the derived bundle gets a fresh
// identity and is registered in the store.
func (o *Orchestrator) Update(ctx context.Context, bundleID, instruction string) (*UpdateResult, error) {
	unlock := o.lockBundle(bundleID)
	defer unlock()

	current, err := o.store.Get(bundleID)
	if err != nil {
		return nil, err
	}

	res := o.callModel(ctx, updateMessages(instruction, current.Files), 0.0)

	var payload struct {
		Summary string       `json:"summary"`
		Patches []patchEntry `json:"patches"`
	}
	if res.OK {
		if err := json.Unmarshal(res.Data, &payload); err != nil {
			res = gateway.Result{Reason: "model returned unexpected JSON shape"}
		}
	}

	if res.OK && len(payload.Patches) > 0 {
		next, patchText, applyErr := applyBatch(current, payload.Patches)
		if applyErr == nil {
			next.ID = bundle.NewID()
			next.CreatedAt = time.Now().UTC()
			next.Summary = payload.Summary
			if next.Summary == "" {
				next.Summary = current.Summary + " Updated."
			}
			if err := o.store.Put(next); err != nil {
				return nil, fmt.Errorf("storing bundle: %w", err)
			}
			return &UpdateResult{Used: UsedModel, PatchText: patchText, Bundle: next}, nil
		}
		// All-or-nothing: any bad patch discards the whole batch.
		log.Printf("Model patch batch rejected: %v", applyErr)
		return o.fallbackUpdate(current, instruction, applyErr.Error())
	}

	reason := res.Reason
	if reason == "" {
		reason = "model returned no patches"
	}
	return o.fallbackUpdate(current, instruction, reason)
}

// applyBatch applies each patch against a clone of the current bundle.
// Patches see the original content for their path unless the batch repeats
// a path, in which case later patches stack on earlier ones. Any failure
// aborts the whole batch.
func applyBatch(current *bundle.Bundle, patches []patchEntry) (*bundle.Bundle, string, error) {
	next := current.Clone()
	var texts []string
	for _, p := range patches {
		original, ok := next.Files[p.Path]
		if !ok {
			return nil, "", &patch.ApplyError{Path: p.Path, Reason: "unknown path"}
		}
		out, err := patch.Apply(original, p.Patch)
		if err != nil {
			if ae, isApply := err.(*patch.ApplyError); isApply {
				ae.Path = p.Path
			}
			return nil, "", err
		}
		next.Files[p.Path] = out
		texts = append(texts, p.Patch)
	}
	return next, strings.Join(texts, "\n\n"), nil
}

// fallbackUpdate runs the rule table and registers the resulting bundle
// under a fresh identity, even when no rule changed anything.
func (o *Orchestrator) fallbackUpdate(current *bundle.Bundle, instruction, reason string) (*UpdateResult, error) {
	log.Printf("Update falling back to rules: %s", reason)

	patchText, next := applyRules(o.rules, current, instruction)
	next.ID = bundle.NewID()
	next.CreatedAt = time.Now().UTC()
	if err := o.store.Put(next); err != nil {
		return nil, fmt.Errorf("storing bundle: %w", err)
	}
	return &UpdateResult{
		Used:      UsedFallback,
		Reason:    reason,
		PatchText: patchText,
		Bundle:    next,
	}, nil
}

// callModel invokes the gateway, treating a nil gateway as unconfigured.
func (o *Orchestrator) callModel(ctx context.Context, messages []gateway.Message, temperature float64) gateway.Result {
	if o.gw == nil {
		return gateway.Result{Reason: "model gateway not configured"}
	}
	return o.gw.CallJSON(ctx, messages, temperature)
}

// lockBundle acquires the per-bundle update lock and returns its release.
func (o *Orchestrator) lockBundle(id string) func() {
	o.mu.Lock()
	l, ok := o.locks[id]
	if !ok {
		l = &sync.Mutex{}
		o.locks[id] = l
	}
	o.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// deriveManifest records the canonical component and stylesheet paths for a
// model-produced file map. This is the only place path-suffix convention is
// consulted; everything downstream reads the manifest.
func deriveManifest(componentName string, files map[string]string) (componentPath, stylesheetPath string) {
	jsxSuffix := "/" + componentName + ".jsx"
	cssSuffix := "/" + componentName + ".css"
	for path := range files {
		switch {
		case strings.HasSuffix(path, jsxSuffix) || path == componentName+".jsx":
			componentPath = path
		case strings.HasSuffix(path, cssSuffix) || path == componentName+".css":
			stylesheetPath = path
		}
	}
	return componentPath, stylesheetPath
}
