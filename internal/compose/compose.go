// SPDX-License-Identifier: MPL-2.0

// Package compose turns a context plus a leaf command into one nested POSIX
// sh invocation string.
//
// Composition is pure and deterministic: identical (steps, leaf) input always
// yields an identical plan, with no environment capture and no side effects.
// Command steps become sequential prefix statements; env, workdir, PATH,
// container, and scope-kind extension steps become nested scopes in
// declaration order, the first-declared wrapper outermost and the leaf command
// at the center.
package compose

import (
	"errors"
	"fmt"
	"strings"

	"shellac-cli/pkg/ctxfile"

	"mvdan.cc/sh/v3/syntax"
)

// DefaultContainerEngine is the container binary used when none is configured.
const DefaultContainerEngine = "docker"

// PlaceholderLeaf is the leaf command used by inspect-style rendering, where
// no real command exists yet.
var PlaceholderLeaf = []string{"echo", "shellac placeholder"}

// ErrEmptyLeaf is returned when composition is attempted without a leaf command.
var ErrEmptyLeaf = errors.New("no leaf command to compose")

// Options parameterizes rendering without breaking purity: everything that
// would otherwise be ambient (which container binary to emit) is passed in
// explicitly.
type Options struct {
	// ContainerEngine is the binary name emitted for container steps
	// ("docker" or "podman"). Empty means DefaultContainerEngine.
	ContainerEngine string
}

// Result is a composed invocation plan.
type Result struct {
	// Plan is the full POSIX sh invocation string.
	Plan string
	// Skipped collects diagnostics for steps the composer does not recognize.
	// Skipping never changes the ordering of the remaining steps.
	Skipped []string
}

// Compose renders the composed plan for ctx wrapping the leaf argv.
//
// Each leaf argv element, env value, and path is quoted individually via
// mvdan.cc/sh syntax.Quote, so shell metacharacters in user input never
// change the plan's structure. Container steps splice their inner plan
// directly after the image, reproducing the requested nesting as text.
func Compose(c *ctxfile.Context, leaf []string, opts Options) (Result, error) {
	if len(leaf) == 0 {
		return Result{}, ErrEmptyLeaf
	}
	engine := opts.ContainerEngine
	if engine == "" {
		engine = DefaultContainerEngine
	}

	inner, err := quoteArgv(leaf)
	if err != nil {
		return Result{}, err
	}

	var res Result
	var prefixes []string
	var wrappers []func(string) (string, error)

	for _, step := range c.Steps {
		switch st := step.(type) {
		case ctxfile.CommandStep:
			prefixes = append(prefixes, st.Text)
		case ctxfile.EnvStep:
			wrappers = append(wrappers, func(in string) (string, error) {
				v, err := quote(st.Value)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("(export %s=%s; %s)", st.Key, v, in), nil
			})
		case ctxfile.WorkdirStep:
			wrappers = append(wrappers, func(in string) (string, error) {
				p, err := quote(st.Path)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("(cd %s; %s)", p, in), nil
			})
		case ctxfile.PathStep:
			wrappers = append(wrappers, func(in string) (string, error) {
				d, err := quote(st.Dir)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("(export PATH=${PATH}:%s; %s)", d, in), nil
			})
		case ctxfile.ContainerStep:
			wrappers = append(wrappers, func(in string) (string, error) {
				img, err := quote(st.Image)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("(%s run %s %s)", engine, img, in), nil
			})
		case ctxfile.ExtensionStep:
			directive, ok := st.Directive()
			if !ok {
				// Metadata-only extension: contributes nothing to the plan.
				continue
			}
			switch directive.Mode {
			case "prefix":
				prefixes = append(prefixes, directive.Script)
			case "scope":
				wrappers = append(wrappers, func(in string) (string, error) {
					return fmt.Sprintf("(%s; %s)", directive.Script, in), nil
				})
			default:
				res.Skipped = append(res.Skipped,
					fmt.Sprintf("extension %s declares unknown step mode %q, skipped", st.Source, directive.Mode))
			}
		default:
			res.Skipped = append(res.Skipped,
				fmt.Sprintf("unrecognized step kind %q, skipped", string(step.Kind())))
		}
	}

	// First-declared wrapper is the outermost scope, so fold inside out.
	for i := len(wrappers) - 1; i >= 0; i-- {
		inner, err = wrappers[i](inner)
		if err != nil {
			return Result{}, err
		}
	}

	res.Plan = strings.Join(append(prefixes, inner), "; ")
	return res, nil
}

func quoteArgv(argv []string) (string, error) {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		q, err := quote(a)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

func quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("cannot quote %q for the shell: %w", s, err)
	}
	return q, nil
}
