package funds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
	"github.com/Werneck0live/cadastro-fundos/internal/repository"
	"github.com/Werneck0live/cadastro-fundos/internal/uow"
)

type CreateFund struct {
	Code   string
	Name   string
	Cnpj   string
	TypeID int64
}

type UpdateFund struct {
	Code   string
	Name   string
	Cnpj   string
	TypeID int64
}

type Service struct {
	uow     *uow.UnitOfWork
	queries repository.FundQueries
	log     *slog.Logger
}

func NewService(store repository.Store, pub uow.Publisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		uow:     uow.New(store, pub, log),
		queries: store.Queries(),
		log:     log.With("cmp", "funds"),
	}
}

// CreateFund cadastra um fundo novo e publica o FundCreated antes do commit.
func (s *Service) CreateFund(ctx context.Context, cmd CreateFund) (*models.Fund, error) {
	var created *models.Fund
	err := s.uow.Run(ctx, func(ctx context.Context, tx repository.Tx, events *uow.Events) error {
		f, err := addFund(ctx, tx, cmd)
		if err != nil {
			return err
		}
		events.Enqueue(f.PopEvents()...)
		created = f
		return nil
	})
	if err != nil {
		s.log.Warn("create_fund_failed", "code", cmd.Code, "err", err)
		return nil, err
	}
	s.log.Info("fund_created", "code", created.Code(), "id", created.ID())
	return created, nil
}

// ImportFund cadastra o fundo já com patrimônio inicial na mesma transação.
// Usado pela carga de dados: ou o fundo entra completo ou não entra.
func (s *Service) ImportFund(ctx context.Context, cmd CreateFund, patrimony decimal.Decimal) (*models.Fund, error) {
	var created *models.Fund
	err := s.uow.Run(ctx, func(ctx context.Context, tx repository.Tx, events *uow.Events) error {
		f, err := addFund(ctx, tx, cmd)
		if err != nil {
			return err
		}
		if !patrimony.IsZero() {
			if err := tx.Funds().AdjustPatrimony(ctx, f.Code(), patrimony); err != nil {
				return translateStoreErr("adjust patrimony", err)
			}
		}
		events.Enqueue(f.PopEvents()...)
		created = f
		return nil
	})
	if err != nil {
		s.log.Warn("import_fund_failed", "code", cmd.Code, "err", err)
		return nil, err
	}
	s.log.Info("fund_imported", "code", created.Code(), "id", created.ID(), "patrimony", patrimony.String())
	return created, nil
}

func addFund(ctx context.Context, tx repository.Tx, cmd CreateFund) (*models.Fund, error) {
	if err := ensureFundType(ctx, tx, cmd.TypeID); err != nil {
		return nil, err
	}
	exists, err := tx.Funds().Exists(ctx, cmd.Code)
	if err != nil {
		return nil, fmt.Errorf("check fund code: %w", err)
	}
	if exists {
		return nil, ErrFundAlreadyExists
	}

	cnpj, err := models.NewCnpj(cmd.Cnpj)
	if err != nil {
		return nil, err
	}
	f, err := models.NewFund(cmd.Code, cmd.Name, cnpj, cmd.TypeID)
	if err != nil {
		return nil, err
	}

	id, err := tx.Funds().Add(ctx, f)
	if err != nil {
		return nil, translateStoreErr("add fund", err)
	}
	f.AssignID(id)
	return f, nil
}

func (s *Service) UpdateFund(ctx context.Context, cmd UpdateFund) (*models.Fund, error) {
	var updated *models.Fund
	err := s.uow.Run(ctx, func(ctx context.Context, tx repository.Tx, events *uow.Events) error {
		f, err := getFund(ctx, tx, cmd.Code)
		if err != nil {
			return err
		}
		if err := ensureFundType(ctx, tx, cmd.TypeID); err != nil {
			return err
		}
		cnpj, err := models.NewCnpj(cmd.Cnpj)
		if err != nil {
			return err
		}
		if err := f.Update(cmd.Name, cnpj, cmd.TypeID); err != nil {
			return err
		}
		if err := tx.Funds().Update(ctx, f); err != nil {
			return translateStoreErr("update fund", err)
		}
		events.Enqueue(f.PopEvents()...)
		updated = f
		return nil
	})
	if err != nil {
		s.log.Warn("update_fund_failed", "code", cmd.Code, "err", err)
		return nil, err
	}
	s.log.Info("fund_updated", "code", updated.Code())
	return updated, nil
}

func (s *Service) DeleteFund(ctx context.Context, code string) error {
	err := s.uow.Run(ctx, func(ctx context.Context, tx repository.Tx, events *uow.Events) error {
		f, err := getFund(ctx, tx, code)
		if err != nil {
			return err
		}
		if err := tx.Funds().Remove(ctx, f); err != nil {
			return translateStoreErr("remove fund", err)
		}
		events.Enqueue(f.PopEvents()...)
		return nil
	})
	if err != nil {
		s.log.Warn("delete_fund_failed", "code", code, "err", err)
		return err
	}
	s.log.Info("fund_deleted", "code", code)
	return nil
}

// AdjustPatrimony soma amount (positivo ou negativo) ao patrimônio direto no banco.
// O valor lido no agregado não é usado para calcular o novo saldo.
func (s *Service) AdjustPatrimony(ctx context.Context, code string, amount decimal.Decimal) error {
	err := s.uow.Run(ctx, func(ctx context.Context, tx repository.Tx, _ *uow.Events) error {
		exists, err := tx.Funds().Exists(ctx, code)
		if err != nil {
			return fmt.Errorf("check fund code: %w", err)
		}
		if !exists {
			return ErrFundNotFound
		}
		if err := tx.Funds().AdjustPatrimony(ctx, code, amount); err != nil {
			return translateStoreErr("adjust patrimony", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("adjust_patrimony_failed", "code", code, "amount", amount.String(), "err", err)
		return err
	}
	s.log.Info("patrimony_adjusted", "code", code, "amount", amount.String())
	return nil
}

func (s *Service) GetFund(ctx context.Context, code string) (models.FundDTO, error) {
	dto, err := s.queries.GetFund(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return models.FundDTO{}, ErrFundNotFound
	}
	if err != nil {
		return models.FundDTO{}, fmt.Errorf("get fund: %w", err)
	}
	return dto, nil
}

func (s *Service) ListFunds(ctx context.Context) ([]models.FundDTO, error) {
	list, err := s.queries.ListFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	if list == nil {
		list = []models.FundDTO{}
	}
	return list, nil
}

func (s *Service) ListFundTypes(ctx context.Context) ([]models.FundType, error) {
	list, err := s.queries.ListFundTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fund types: %w", err)
	}
	if list == nil {
		list = []models.FundType{}
	}
	return list, nil
}

func ensureFundType(ctx context.Context, tx repository.Tx, id int64) error {
	if _, err := tx.FundTypes().GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFundTypeNotFound
		}
		return fmt.Errorf("get fund type: %w", err)
	}
	return nil
}

func getFund(ctx context.Context, tx repository.Tx, code string) (*models.Fund, error) {
	f, err := tx.Funds().GetByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get fund: %w", err)
	}
	return f, nil
}

func translateStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateCode):
		return ErrFundAlreadyExists
	case errors.Is(err, repository.ErrFundTypeMissing):
		return ErrFundTypeNotFound
	case errors.Is(err, repository.ErrNotFound):
		return ErrFundNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// EnsureFundType cria o tipo com id fixo caso ainda não exista. Devolve true quando criou.
func (s *Service) EnsureFundType(ctx context.Context, id int64, name string) (bool, error) {
	created := false
	err := s.uow.Run(ctx, func(ctx context.Context, tx repository.Tx, events *uow.Events) error {
		_, err := tx.FundTypes().GetByID(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get fund type: %w", err)
		}

		ft, err := models.NewFundType(name)
		if err != nil {
			return err
		}
		ft.AssignID(id)
		if _, err := tx.FundTypes().Add(ctx, ft); err != nil {
			return fmt.Errorf("add fund type: %w", err)
		}
		events.Enqueue(ft.PopEvents()...)
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("fund_type_created", "id", id, "name", name)
	}
	return created, nil
}
