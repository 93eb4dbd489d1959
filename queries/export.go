package queries

import (
	"context"

	"github.com/sirupsen/logrus"

	"backoffice-console/models"
)

// MaxExportPages caps how many backend pages one export walks.
const MaxExportPages = 50

// ExportUsers collects every user matching p, page by page, as CSV rows.
func (q *Queries) ExportUsers(ctx context.Context, p models.ListParams) (models.Export[models.UserRow], error) {
	return collect(ctx, q.log.WithField("subject", "users"), p, q.Users, models.NewUserRow)
}

func (q *Queries) ExportTransactions(ctx context.Context, p models.ListParams) (models.Export[models.TransactionRow], error) {
	return collect(ctx, q.log.WithField("subject", "transactions"), p, q.Transactions, models.NewTransactionRow)
}

func collect[T, Row any](ctx context.Context, log logrus.FieldLogger, p models.ListParams, list func(context.Context, models.ListParams) (models.Page[T], error), toRow func(T) Row) (models.Export[Row], error) {
	p = p.Normalized()
	p.PerPage = models.MaxPerPage
	var out models.Export[Row]
	for page := 1; ; page++ {
		result, err := list(ctx, p.WithPage(page))
		if err != nil {
			return models.Export[Row]{}, err
		}
		out.Total = result.Total
		for _, item := range result.Data {
			out.Rows = append(out.Rows, toRow(item))
		}
		if page >= result.LastPage || len(result.Data) == 0 {
			break
		}
		if page == MaxExportPages {
			out.Truncated = true
			log.WithFields(logrus.Fields{"rows": len(out.Rows), "total": out.Total}).Warn("export truncated")
			break
		}
	}
	return out, nil
}
