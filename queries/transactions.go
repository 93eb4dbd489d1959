package queries

import (
	"context"

	"backoffice-console/models"
	"backoffice-console/query"
	"backoffice-console/services"
)

func (q *Queries) Transactions(ctx context.Context, p models.ListParams) (models.Page[models.Transaction], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSTransactions, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.Transaction]], error) {
			return services.ListTransactions(ctx, c, p)
		})
}

func (q *Queries) Transaction(ctx context.Context, id string) (models.Transaction, error) {
	return read(ctx, q, query.NewKey(NSTransaction, id), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Transaction], error) {
			return services.GetTransaction(ctx, c, id)
		})
}

// TransactionStats is keyed on the date range only; paging does not change
// the aggregate.
func (q *Queries) TransactionStats(ctx context.Context, p models.ListParams) (models.TransactionStats, error) {
	p = models.ListParams{From: p.From, To: p.To, Status: p.Status}
	return read(ctx, q, query.NewKey(NSTransactionStats, p), q.stale.Stats,
		func(ctx context.Context, c services.Client) (models.Envelope[models.TransactionStats], error) {
			return services.TransactionStats(ctx, c, p)
		})
}

// ServiceTransactions lists the rows of one service with the fields every
// service shares.
func (q *Queries) ServiceTransactions(ctx context.Context, kind models.ServiceKind, p models.ListParams) (models.Page[models.ServiceTransaction], error) {
	p = p.Normalized()
	return read(ctx, q, query.NewKey(NSServiceTransactions, kind, p), q.stale.Default,
		func(ctx context.Context, c services.Client) (models.Envelope[models.Page[models.ServiceTransaction]], error) {
			return services.ServiceTransactions[models.ServiceTransaction](ctx, c, kind, p)
		})
}

func (q *Queries) ServiceStats(ctx context.Context, kind models.ServiceKind) (models.ServiceStats, error) {
	return read(ctx, q, query.NewKey(NSServiceStats, kind), q.stale.Stats,
		func(ctx context.Context, c services.Client) (models.Envelope[models.ServiceStats], error) {
			return services.ServiceStats(ctx, c, kind)
		})
}

func (q *Queries) Networks(ctx context.Context) ([]models.Network, error) {
	return read(ctx, q, query.NewKey(NSNetworks), q.stale.Reference, services.ListNetworks)
}

func (q *Queries) DataPlans(ctx context.Context, network string) ([]models.DataPlan, error) {
	return read(ctx, q, query.NewKey(NSDataPlans, network), q.stale.Reference,
		func(ctx context.Context, c services.Client) (models.Envelope[[]models.DataPlan], error) {
			return services.ListDataPlans(ctx, c, network)
		})
}

func (q *Queries) Discos(ctx context.Context) ([]models.Disco, error) {
	return read(ctx, q, query.NewKey(NSDiscos), q.stale.Reference, services.ListDiscos)
}

func (q *Queries) TVProviders(ctx context.Context) ([]models.TVProvider, error) {
	return read(ctx, q, query.NewKey(NSTVProviders), q.stale.Reference, services.ListTVProviders)
}
