package gen

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/storm/compiler/load"
)

// Graph holds the entity models built from a set of declarations.
type Graph struct {
	*Config
	// Nodes are the entities in declaration order, including invalid ones.
	Nodes []*Entity
	diags []*SchemaError
}

// NewGraph builds the models of all schemas. Entities are built concurrently,
// at most c.Workers at a time, but nodes and diagnostics keep the input
// order. Diagnostics go to c.Reporter; the returned error is only set when
// ctx is done before the build completes. c is not modified; defaults are
// applied to a copy.
func NewGraph(ctx context.Context, c *Config, schemas ...*load.Schema) (*Graph, error) {
	c = c.withDefaults()
	var decls []*load.Schema
	for _, s := range schemas {
		if s != nil {
			decls = append(decls, s)
		}
	}
	var (
		nodes = make([]*Entity, len(decls))
		diags = make([]*Collector, len(decls))
	)
	errg, gctx := errgroup.WithContext(ctx)
	errg.SetLimit(c.Workers)
	for i, s := range decls {
		errg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col := &Collector{}
			nodes[i] = NewEntity(c, s, col)
			diags[i] = col
			c.Logger.Debug().
				Str("entity", nodes[i].QualifiedName()).
				Int("fields", len(nodes[i].Fields)).
				Bool("valid", nodes[i].Valid()).
				Msg("entity built")
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	g := &Graph{Config: c, Nodes: nodes}
	var (
		names  = make(map[string]*Entity, len(nodes))
		tables = make(map[string]*Entity, len(nodes))
	)
	for i, e := range nodes {
		for _, err := range diags[i].Errors() {
			g.forward(err)
		}
		name := e.QualifiedName()
		if prev, ok := names[name]; ok {
			g.fail(e, "previous declaration at "+prev.Pos, ErrEntityRedeclared)
			continue
		}
		names[name] = e
		if e.Database == nil {
			continue
		}
		key := e.Database.Name + "." + strings.ToLower(e.TableName)
		if prev, ok := tables[key]; ok {
			g.fail(e, "table "+e.TableName+" of database "+e.Database.Name+" is used by "+prev.QualifiedName(), ErrTableConflict)
			continue
		}
		tables[key] = e
	}
	c.Logger.Info().
		Int("entities", len(nodes)).
		Int("diagnostics", len(g.diags)).
		Msg("graph built")
	return g, nil
}

func (g *Graph) fail(e *Entity, msg string, cause error) {
	e.errs++
	g.forward(&SchemaError{
		Type:    e.Name,
		Pos:     e.Pos,
		Message: msg,
		Cause:   cause,
	})
}

func (g *Graph) forward(err *SchemaError) {
	g.diags = append(g.diags, err)
	if g.Reporter != nil {
		g.Reporter.Report(err)
	}
}

// Diagnostics returns every diagnostic reported while building the graph.
func (g *Graph) Diagnostics() []*SchemaError { return g.diags }

// Err joins the diagnostics of the graph, or returns nil if it is valid.
func (g *Graph) Err() error { return joinErrors(g.diags) }

// Valid reports whether the graph was built without diagnostics.
func (g *Graph) Valid() bool { return len(g.diags) == 0 }

// Entities returns the valid entities stored in the named database.
func (g *Graph) Entities(db string) []*Entity {
	var entities []*Entity
	for _, e := range g.Nodes {
		if e.Valid() && e.Database != nil && e.Database.Name == db {
			entities = append(entities, e)
		}
	}
	return entities
}
