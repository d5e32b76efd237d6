// Package pipeline provides the layout → render pipeline for threadmap.
//
// The CLI and the HTTP API both run graphs through this package so they
// place, lay out, cache and render identically.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: seed positions for unplaced nodes, then run the engine
//     (collisions → clustering → recentering)
//  2. Render: draw the positioned layout as SVG, PNG, PDF or JSON
//
// Each stage is memoized in a [cache.Cache]. Layout keys hash the input
// graph together with every option that changes the result; render keys
// hash the layout document.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Locked:  "t1",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/threadmap/pkg/cache"
	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/errors"
	"github.com/matzehuels/threadmap/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Locked string         `json:"locked,omitempty" validate:"omitempty,max=256"`
	Center *geom.Point    `json:"center,omitempty"`
	Drop   *geom.Point    `json:"drop,omitempty"`
	Params *layout.Params `json:"params,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty" validate:"omitempty,dive,oneof=svg png pdf json"`
	Scale   float64  `json:"scale,omitempty" validate:"gte=0,lte=8"`
	Edges   bool     `json:"edges,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the positioned thread map.
	Layout graph.Layout

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Placed     int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Config loading and the HTTP API use
// it too, so every surface reports constraint failures the same way.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct runs the shared validator and converts failures into an
// error with the given code naming each offending field.
func ValidateStruct(code errors.Code, v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !stderrors.As(err, &fields) {
		return errors.Wrap(code, err, "validate")
	}
	msgs := make([]string, len(fields))
	for i, f := range fields {
		if f.Param() != "" {
			msgs[i] = fmt.Sprintf("%s must satisfy %s=%s", f.Namespace(), f.Tag(), f.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s must satisfy %s", f.Namespace(), f.Tag())
		}
	}
	return errors.New(code, "%s", strings.Join(msgs, "; "))
}

// ValidateAndSetDefaults checks options and fills defaults. Calling it
// again is harmless.
func (o *Options) ValidateAndSetDefaults() error {
	if err := ValidateStruct(errors.ErrCodeInvalidInput, o); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// EngineParams returns the engine parameters, defaulting when unset.
func (o *Options) EngineParams() layout.Params {
	if o.Params != nil {
		return *o.Params
	}
	return layout.DefaultParams()
}

// CenterPoint returns the layout center, the origin by default.
func (o *Options) CenterPoint() geom.Point {
	if o.Center != nil {
		return *o.Center
	}
	return geom.Origin
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	c := o.CenterPoint()
	k := cache.LayoutKeyOpts{
		Locked:  o.Locked,
		CenterX: c.X,
		CenterY: c.Y,
		Params:  cache.HashJSON(o.EngineParams()),
	}
	if o.Drop != nil {
		k.HasDrop, k.DropX, k.DropY = true, o.Drop.X, o.Drop.Y
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Edges: o.Edges}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
