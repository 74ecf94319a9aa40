package meta

import (
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-attribution-api/infrastructure/repository"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

// AccountRowSource traduz o ID interno da conta para o external_id da plataforma antes
// de delegar ao integrador, e reetiqueta as linhas com o ID interno no retorno.
type AccountRowSource struct {
	integrator *MetaIntegrator
	accounts   repository.AccountRepository
}

func NewAccountRowSource(integrator *MetaIntegrator, accounts repository.AccountRepository) *AccountRowSource {
	return &AccountRowSource{
		integrator: integrator,
		accounts:   accounts,
	}
}

func (s *AccountRowSource) FetchRows(accountID string, dateRange domain.DateRange) ([]domain.PerformanceRow, error) {
	account, err := s.accounts.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.Errorf("conta %s não encontrada", accountID)
	}
	if account.ExternalID == "" {
		return nil, errors.Errorf("conta %s sem external_id", accountID)
	}

	rows, err := s.integrator.FetchRows(account.ExternalID, dateRange)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].AccountID = accountID
	}

	return rows, nil
}
