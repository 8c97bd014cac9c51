package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/cadastro-fundos/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCode vem do índice único de code; é a fonte de verdade para conflitos.
	ErrDuplicateCode = errors.New("fund code already exists")
	// ErrFundTypeMissing é a violação da chave estrangeira funds.type_id.
	ErrFundTypeMissing = errors.New("fund type does not exist")
)

type FundRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Add(ctx context.Context, f *models.Fund) (int64, error)
	Update(ctx context.Context, f *models.Fund) error
	Remove(ctx context.Context, f *models.Fund) error
	GetAll(ctx context.Context) ([]*models.Fund, error)
	GetByCode(ctx context.Context, code string) (*models.Fund, error)
	// AdjustPatrimony soma amount ao patrimônio num único comando no banco.
	AdjustPatrimony(ctx context.Context, code string, amount decimal.Decimal) error
}

type FundTypeRepository interface {
	Add(ctx context.Context, ft *models.FundType) (int64, error)
	Update(ctx context.Context, ft *models.FundType) error
	GetAll(ctx context.Context) ([]*models.FundType, error)
	GetByID(ctx context.Context, id int64) (*models.FundType, error)
}

// FundQueries is the read side. Implementations must not run inside a write transaction.
type FundQueries interface {
	GetFund(ctx context.Context, code string) (models.FundDTO, error)
	ListFunds(ctx context.Context) ([]models.FundDTO, error)
	ListFundTypes(ctx context.Context) ([]models.FundType, error)
}

// Tx is one open transaction. Repositories returned by it write inside the transaction.
type Tx interface {
	Funds() FundRepository
	FundTypes() FundTypeRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Queries() FundQueries
	// Migrate creates tables/indexes; it must be idempotent.
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}
