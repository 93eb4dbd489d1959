package query

import (
	"context"

	"backoffice-console/api"
)

// Notifier shows the outcome of a mutation to the operator.
type Notifier interface {
	Success(mutation, message string)
	Error(mutation, message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}

// Mutation is one write plus the namespaces whose reads it can affect.
type Mutation[Req, Res any] struct {
	Name        string
	Do          func(ctx context.Context, req Req) (Res, error)
	Invalidates []string
	// Describe returns the success message; Name is used when nil or empty.
	Describe func(Res) string
}

// Run executes the write. On success every namespace in Invalidates is
// invalidated before the notifier hears about it. On failure the cache is left
// untouched, the notifier gets the display message and the error is returned
// unchanged.
func (m Mutation[Req, Res]) Run(ctx context.Context, c *Cache, n Notifier, req Req) (Res, error) {
	if n == nil {
		n = nopNotifier{}
	}
	res, err := m.Do(ctx, req)
	if err != nil {
		c.log.WithError(err).WithField("mutation", m.Name).Warn("mutation failed")
		n.Error(m.Name, api.Message(err))
		return res, err
	}

	c.Invalidate(m.Invalidates...)

	msg := ""
	if m.Describe != nil {
		msg = m.Describe(res)
	}
	if msg == "" {
		msg = m.Name
	}
	n.Success(m.Name, msg)
	return res, nil
}
