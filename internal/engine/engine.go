// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/log"

	"shellac-cli/internal/compose"
	"shellac-cli/internal/config"
	"shellac-cli/internal/extension"
	"shellac-cli/internal/issue"
	"shellac-cli/internal/session"
	"shellac-cli/internal/store"
	"shellac-cli/pkg/ctxfile"
)

// envKeyPattern matches valid environment variable names.
var envKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type (
	// Engine ties the session state, the context store and the composer
	// together behind the operations the commands expose.
	Engine struct {
		Store   *store.Store
		Session *session.Manager
		Config  *config.Config
		Logger  *log.Logger

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Status summarizes the active context for prompt and query output.
	Status struct {
		Identity string
		LastStep string
		Dirty    bool
	}
)

// New builds an engine with process-default streams.
func New(st *store.Store, sess *session.Manager, cfg *config.Config, logger *log.Logger) *Engine {
	return &Engine{
		Store:   st,
		Session: sess,
		Config:  cfg,
		Logger:  logger,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// active loads the session's context, falling back to a blank base.
func (e *Engine) active() *ctxfile.Context {
	return e.Session.Load()
}

// commit stores the mutated context back into the session state.
func (e *Engine) commit(c *ctxfile.Context) error {
	if err := e.Session.Store(c); err != nil {
		return issue.NewErrorContext().
			WithOperation("write session state").
			WithResource(e.Session.StatePath()).
			Wrap(err).
			BuildError()
	}
	return nil
}

// Active returns the session's current context.
func (e *Engine) Active() *ctxfile.Context {
	return e.active()
}

// WithCommand appends a command step to the active context.
func (e *Engine) WithCommand(text string) error {
	c := e.active()
	c.Apply(ctxfile.CommandStep{Text: text})
	return e.commit(c)
}

// WithEnv appends an environment variable step to the active context.
func (e *Engine) WithEnv(key, value string) error {
	if !envKeyPattern.MatchString(key) {
		return fmt.Errorf("invalid environment variable name %q", key)
	}
	c := e.active()
	c.Apply(ctxfile.EnvStep{Key: key, Value: value})
	return e.commit(c)
}

// WithWorkdir appends a working directory step to the active context.
func (e *Engine) WithWorkdir(path string) error {
	c := e.active()
	c.Apply(ctxfile.WorkdirStep{Path: path})
	return e.commit(c)
}

// WithPath appends a PATH entry step to the active context.
func (e *Engine) WithPath(dir string) error {
	c := e.active()
	c.Apply(ctxfile.PathStep{Dir: dir})
	return e.commit(c)
}

// WithContainer appends a container step to the active context.
func (e *Engine) WithContainer(image string) error {
	c := e.active()
	c.Apply(ctxfile.ContainerStep{Image: image})
	return e.commit(c)
}

// WithEmpty resets the session to a blank base context.
func (e *Engine) WithEmpty() error {
	return e.commit(ctxfile.New())
}

// WithContext replaces the active context with a stored one.
func (e *Engine) WithContext(namespace, name string) error {
	c, err := e.Store.Load(namespace, name)
	if err != nil {
		return err
	}
	return e.commit(c)
}

// WithExtension hands the active context to an external program and, on an
// accepted reply, installs the returned context. On any failure the active
// context is left untouched.
func (e *Engine) WithExtension(ctx context.Context, program string, args []string) error {
	active := e.active()

	e.Logger.Debug("running extension", "program", program, "args", args)

	reply, err := extension.Run(ctx, active, program, args, e.Stderr)
	if err != nil {
		return err
	}

	active.AppendStep(ctxfile.ExtensionStep{Source: program, Payload: reply.Payload})
	active.AppendLog(reply.StepLog...)
	return e.commit(active)
}

// Save persists the active context under the given identity, marks the
// session copy clean, and keeps it active.
func (e *Engine) Save(namespace, name string) error {
	c := e.active()
	if namespace == "" {
		namespace = ctxfile.DefaultNamespace
	}
	c.Meta.Namespace = namespace
	c.Meta.Name = name
	c.Meta.Dirty = false

	if err := e.Store.Save(c); err != nil {
		return err
	}
	return e.commit(c)
}

// Plan composes the shell plan for the active context around a leaf command.
func (e *Engine) Plan(leaf []string) (string, error) {
	return e.PlanFor(e.active(), leaf)
}

// PlanFor composes the shell plan for an arbitrary context.
func (e *Engine) PlanFor(c *ctxfile.Context, leaf []string) (string, error) {
	result, err := compose.Compose(c, leaf, compose.Options{
		ContainerEngine: string(e.Config.ContainerEngine),
	})
	if err != nil {
		return "", err
	}
	for _, diag := range result.Skipped {
		e.Logger.Warn("skipped step", "reason", diag)
	}
	return result.Plan, nil
}

// Query returns prompt-oriented information about the active context.
func (e *Engine) Query() Status {
	c := e.active()
	return Status{
		Identity: c.Identity(),
		LastStep: c.LastStepDescription(),
		Dirty:    c.Meta.Dirty,
	}
}
