package services

import (
	"context"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const transactionsPath = "/admin/transactions"

func ListTransactions(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.Transaction]], error) {
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[models.Transaction]]{}, err
	}
	return list[models.Transaction](ctx, c, transactionsPath, p)
}

// GetTransaction accepts either the numeric id or the reference.
func GetTransaction(ctx context.Context, c Client, id string) (models.Envelope[models.Transaction], error) {
	return get[models.Transaction](ctx, c, resource(transactionsPath, id), nil)
}

func TransactionStats(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.TransactionStats], error) {
	q := p.Query()
	q.Del("page")
	q.Del("per_page")
	return get[models.TransactionStats](ctx, c, transactionsPath+"/stats", q)
}
