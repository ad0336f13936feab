// SPDX-License-Identifier: MPL-2.0

// Package deps checks the declared dependencies of a flat set of loaded
// packages against each other.
//
// Validation is not transitive: only packages already present in the set
// are consulted, and nothing is fetched.
package deps

import (
	"github.com/charmbracelet/log"

	"github.com/qilletni/toolchain/pkg/qll"
	"github.com/qilletni/toolchain/pkg/version"
)

type (
	// Result is the outcome for one (package, dependency) pair.
	Result struct {
		Package    string
		Version    version.Version
		Dependency string
		Required   version.Range

		// Found is nil when no loaded package has the dependency's name.
		Found     *version.Version
		Satisfied bool
	}

	// Report holds every Result of one validation, in package then
	// declaration order.
	Report struct {
		Results []Result
	}

	// Validator evaluates dependency requirements.
	Validator struct {
		logger *log.Logger
	}

	// Option configures a Validator.
	Option func(*Validator)
)

// WithLogger sets the logger that receives one line per checked dependency.
func WithLogger(logger *log.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator returns a Validator.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{logger: log.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every dependency of every package in loaded. The first
// package in loaded with a matching name is the one compared; later
// duplicates are ignored. All dependencies are evaluated even after a
// failure.
func (v *Validator) Validate(loaded []*qll.Metadata) *Report {
	report := &Report{}
	for _, pkg := range loaded {
		for _, dep := range pkg.Dependencies {
			r := Result{
				Package:    pkg.Name,
				Version:    pkg.Version,
				Dependency: dep.Name,
				Required:   dep.Range,
			}
			if found := first(loaded, dep.Name); found != nil {
				fv := found.Version
				r.Found = &fv
				r.Satisfied = dep.Range.Permits(fv)
			}
			v.log(r)
			report.Results = append(report.Results, r)
		}
	}
	return report
}

func first(loaded []*qll.Metadata, name string) *qll.Metadata {
	for _, m := range loaded {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func (v *Validator) log(r Result) {
	switch {
	case r.Satisfied:
		v.logger.Info("dependency satisfied", "package", r.Package, "dependency", r.Dependency, "required", r.Required, "found", *r.Found)
	case r.Found == nil:
		v.logger.Error("dependency not found", "package", r.Package, "dependency", r.Dependency, "required", r.Required)
	default:
		v.logger.Error("dependency version not permitted", "package", r.Package, "dependency", r.Dependency, "required", r.Required, "found", *r.Found)
	}
}

// OK reports whether every dependency is satisfied. A report with no
// results is OK.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.Satisfied {
			return false
		}
	}
	return true
}

// Unmet returns the unsatisfied results.
func (r *Report) Unmet() []Result {
	var unmet []Result
	for _, res := range r.Results {
		if !res.Satisfied {
			unmet = append(unmet, res)
		}
	}
	return unmet
}

// FoundString renders Found for display, "not found" when absent.
func (r Result) FoundString() string {
	if r.Found == nil {
		return "not found"
	}
	return r.Found.String()
}
