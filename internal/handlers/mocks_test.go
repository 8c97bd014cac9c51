package handlers

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/funds"
	"github.com/Werneck0live/cadastro-fundos/internal/models"
)

type serviceMock struct {
	CreateFundFn      func(ctx context.Context, cmd funds.CreateFund) (*models.Fund, error)
	UpdateFundFn      func(ctx context.Context, cmd funds.UpdateFund) (*models.Fund, error)
	DeleteFundFn      func(ctx context.Context, code string) error
	AdjustPatrimonyFn func(ctx context.Context, code string, amount decimal.Decimal) error
	GetFundFn         func(ctx context.Context, code string) (models.FundDTO, error)
	ListFundsFn       func(ctx context.Context) ([]models.FundDTO, error)
	ListFundTypesFn   func(ctx context.Context) ([]models.FundType, error)
}

func (m *serviceMock) CreateFund(ctx context.Context, cmd funds.CreateFund) (*models.Fund, error) {
	if m.CreateFundFn == nil {
		return nil, errors.New("CreateFundFn not set")
	}
	return m.CreateFundFn(ctx, cmd)
}
func (m *serviceMock) UpdateFund(ctx context.Context, cmd funds.UpdateFund) (*models.Fund, error) {
	if m.UpdateFundFn == nil {
		return nil, errors.New("UpdateFundFn not set")
	}
	return m.UpdateFundFn(ctx, cmd)
}
func (m *serviceMock) DeleteFund(ctx context.Context, code string) error {
	if m.DeleteFundFn == nil {
		return errors.New("DeleteFundFn not set")
	}
	return m.DeleteFundFn(ctx, code)
}
func (m *serviceMock) AdjustPatrimony(ctx context.Context, code string, amount decimal.Decimal) error {
	if m.AdjustPatrimonyFn == nil {
		return errors.New("AdjustPatrimonyFn not set")
	}
	return m.AdjustPatrimonyFn(ctx, code, amount)
}
func (m *serviceMock) GetFund(ctx context.Context, code string) (models.FundDTO, error) {
	if m.GetFundFn == nil {
		return models.FundDTO{}, errors.New("GetFundFn not set")
	}
	return m.GetFundFn(ctx, code)
}
func (m *serviceMock) ListFunds(ctx context.Context) ([]models.FundDTO, error) {
	if m.ListFundsFn == nil {
		return nil, errors.New("ListFundsFn not set")
	}
	return m.ListFundsFn(ctx)
}
func (m *serviceMock) ListFundTypes(ctx context.Context) ([]models.FundType, error) {
	if m.ListFundTypesFn == nil {
		return nil, errors.New("ListFundTypesFn not set")
	}
	return m.ListFundTypesFn(ctx)
}
