// Package intellisense is the embedding API for exprsense.
//
// It exposes the two in-process contracts a host needs: ingesting type
// descriptors into an index, which builds in the background and is returned
// as a future, and opening completion sessions over that index for an editor.
//
// # Basic Usage
//
//	cat, err := intellisense.LoadCatalogs(ctx, "types.yaml")
//	if err != nil {
//		return err
//	}
//	idx := intellisense.BuildIndex(ctx, cat, intellisense.IndexOptions{})
//	svc := intellisense.NewService(idx)
//
//	items, err := intellisense.Complete(ctx, svc, "System.Collections.", intellisense.SessionConfig{}, intellisense.TriggerCtrlSpace)
//
// Interactive hosts implement Host and call NewSession instead, forwarding
// key, text and focus events to the returned Session.
package intellisense

import (
	"context"
	"fmt"
	"strings"

	"github.com/oakwood-commons/exprsense/internal/completion"
	"github.com/oakwood-commons/exprsense/internal/index"
	"github.com/oakwood-commons/exprsense/internal/symbol"
	"github.com/oakwood-commons/exprsense/pkg/catalog"
)

// Catalog is a set of type descriptors.
type Catalog = catalog.Catalog

// TypeDescriptor describes one type and its members.
type TypeDescriptor = catalog.TypeDescriptor

// Index is the future of a building symbol tree.
type Index = index.Future

// IndexOptions tune which descriptors reach the index.
type IndexOptions = index.Options

// IndexReport summarises a finished build.
type IndexReport = index.Report

// Tree is a published symbol tree.
type Tree = symbol.Tree

// Kind tags a symbol.
type Kind = symbol.Kind

// Service hands out sessions over one index.
type Service = completion.Service

// Session is the completion state machine for one editor.
type Session = completion.Session

// SessionConfig is the per-editor scope: imports and locals.
type SessionConfig = completion.SessionConfig

// Local is a variable in scope for a session.
type Local = completion.Local

// Completion is one popup row.
type Completion = completion.Completion

// Host is the capability set a session drives.
type Host = completion.Host

// KeyEvent is a key press forwarded by a host.
type KeyEvent = completion.KeyEvent

// Runner executes completion queries for a session.
type Runner = completion.Runner

// ErrBuildCanceled is returned by Index.Wait when the build was abandoned.
var ErrBuildCanceled = index.ErrBuildCanceled

// Trigger is the key that opens completion in Complete.
type Trigger int

const (
	// TriggerDot types a "." after the text.
	TriggerDot Trigger = iota
	// TriggerCtrlSpace requests completion of the text as typed.
	TriggerCtrlSpace
)

// ParseTrigger maps "dot" or "ctrl-space" to a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dot", ".":
		return TriggerDot, nil
	case "ctrl-space", "ctrl+space", "space":
		return TriggerCtrlSpace, nil
	}
	return 0, fmt.Errorf("unknown trigger %q (want dot or ctrl-space)", s)
}

func (t Trigger) String() string {
	if t == TriggerCtrlSpace {
		return "ctrl-space"
	}
	return "dot"
}

// LoadCatalogs reads catalog files concurrently and merges them in order.
func LoadCatalogs(ctx context.Context, paths ...string) (*Catalog, error) {
	return catalog.LoadFiles(ctx, paths...)
}

// ParseCatalog decodes catalog data, detecting the format when format is empty.
func ParseCatalog(data []byte, format string) (*Catalog, error) {
	return catalog.Parse(data, catalog.Format(format))
}

// BuildIndex starts building an index over cat in the background.
func BuildIndex(ctx context.Context, cat *Catalog, opts IndexOptions) *Index {
	var descs []TypeDescriptor
	if cat != nil {
		descs = cat.Types
	}
	return index.BuildAsync(ctx, descs, opts)
}

// NewService wraps an index for session creation.
func NewService(idx *Index, opts ...completion.ServiceOption) *Service {
	return completion.NewService(idx, opts...)
}

// NewLocal declares a local variable by type name. An empty type name makes
// an untyped local.
func NewLocal(name, typeName string) Local {
	return completion.NamedLocal(name, typeName)
}

// ParseLocal parses "name=Type" or a bare "name".
func ParseLocal(s string) (Local, error) {
	name, typ, _ := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Local{}, fmt.Errorf("invalid local %q: missing name", s)
	}
	return NewLocal(name, strings.TrimSpace(typ)), nil
}

// Result is the outcome of a one-shot completion.
type Result struct {
	// StartText is the text kept in front of the fragment being completed.
	StartText string
	Items     []Completion
}

// Complete runs one trigger against text in a throwaway session and returns
// the popup rows. No rows means the popup would stay closed.
func Complete(ctx context.Context, svc *Service, text string, cfg SessionConfig, trigger Trigger) (Result, error) {
	host := completion.NewBufferHost(text)
	cfg.Runner = completion.InlineRunner{}
	sess, err := svc.NewSession(ctx, host, cfg)
	if err != nil {
		return Result{}, err
	}
	defer sess.Close()

	if trigger == TriggerCtrlSpace {
		sess.HandleKey(completion.Preview(completion.KeySpace, completion.ModCtrl))
	} else {
		sess.HandleKey(completion.Preview(completion.KeyPeriod, 0))
		host.Type(".")
		sess.TextChanged()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{StartText: sess.StartText(), Items: host.Items()}, nil
}
