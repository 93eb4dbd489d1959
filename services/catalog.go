package services

import (
	"context"
	"fmt"
	"net/url"

	"backoffice-console/models"
	"backoffice-console/utils"
)

const servicesPath = "/admin/services"

func servicePath(kind models.ServiceKind) (string, error) {
	if !kind.IsValid() {
		return "", &utils.ValidationError{Fields: map[string]string{"Service": fmt.Sprintf("must be one of %v", models.ServiceKinds())}}
	}
	return servicesPath + "/" + string(kind), nil
}

// ServiceTransactions lists the transactions of one service. T is the
// specialised row type of that service.
func ServiceTransactions[T any](ctx context.Context, c Client, kind models.ServiceKind, p models.ListParams) (models.Envelope[models.Page[T]], error) {
	base, err := servicePath(kind)
	if err != nil {
		return models.Envelope[models.Page[T]]{}, err
	}
	p = p.Normalized()
	if err := utils.ValidateStruct(p); err != nil {
		return models.Envelope[models.Page[T]]{}, err
	}
	return list[T](ctx, c, base+"/transactions", p)
}

func AirtimeTransactions(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.AirtimeTransaction]], error) {
	return ServiceTransactions[models.AirtimeTransaction](ctx, c, models.ServiceAirtime, p)
}

func DataTransactions(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.DataTransaction]], error) {
	return ServiceTransactions[models.DataTransaction](ctx, c, models.ServiceData, p)
}

func ElectricityTransactions(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.ElectricityTransaction]], error) {
	return ServiceTransactions[models.ElectricityTransaction](ctx, c, models.ServiceElectricity, p)
}

func TVTransactions(ctx context.Context, c Client, p models.ListParams) (models.Envelope[models.Page[models.TVTransaction]], error) {
	return ServiceTransactions[models.TVTransaction](ctx, c, models.ServiceTV, p)
}

func ServiceStats(ctx context.Context, c Client, kind models.ServiceKind) (models.Envelope[models.ServiceStats], error) {
	base, err := servicePath(kind)
	if err != nil {
		return models.Envelope[models.ServiceStats]{}, err
	}
	return get[models.ServiceStats](ctx, c, base+"/stats", nil)
}

// ListNetworks returns the mobile networks shared by airtime and data.
func ListNetworks(ctx context.Context, c Client) (models.Envelope[[]models.Network], error) {
	return get[[]models.Network](ctx, c, servicesPath+"/airtime/networks", nil)
}

// ListDataPlans returns the data plans, optionally for one network code.
func ListDataPlans(ctx context.Context, c Client, network string) (models.Envelope[[]models.DataPlan], error) {
	var q url.Values
	if network != "" {
		q = url.Values{"network": {network}}
	}
	return get[[]models.DataPlan](ctx, c, servicesPath+"/data/plans", q)
}

func ListDiscos(ctx context.Context, c Client) (models.Envelope[[]models.Disco], error) {
	return get[[]models.Disco](ctx, c, servicesPath+"/electricity/discos", nil)
}

func ListTVProviders(ctx context.Context, c Client) (models.Envelope[[]models.TVProvider], error) {
	return get[[]models.TVProvider](ctx, c, servicesPath+"/tv/providers", nil)
}
