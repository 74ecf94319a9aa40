// Package account resolve o contexto de consulta do dashboard: lista as contas de
// anúncio cadastradas e expande workspaces para o conjunto de contas que cobrem.
package account

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/infrastructure/repository"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/pkg/apiErrors"
)

type AccountService interface {
	ListAdAccounts(availableStatus []domain.AdAccountStatus) ([]*domain.AdAccount, error)
	GetAccount(id string) (*domain.AdAccount, error)
	GetWorkspace(id string) (*domain.Workspace, error)
	// ResolveScope preenche AccountIDs quando o escopo referencia um workspace
	ResolveScope(scope domain.Scope) (domain.Scope, error)
}

type Service struct {
	accountRepository repository.AccountRepository
}

func NewService(accountRepository repository.AccountRepository) AccountService {
	return &Service{
		accountRepository: accountRepository,
	}
}

func (s *Service) ListAdAccounts(availableStatus []domain.AdAccountStatus) ([]*domain.AdAccount, error) {
	accounts, err := s.accountRepository.ListAccounts(availableStatus)
	if err != nil {
		return nil, NewAccountError(ErrFetchAccounts, apiErrors.ErrDatabaseOperation, "Falha ao listar contas no banco de dados")
	}

	return accounts, nil
}

func (s *Service) GetAccount(id string) (*domain.AdAccount, error) {
	if id == "" {
		return nil, NewAccountError(ErrAccountIDRequired, apiErrors.ErrMissingRequiredData, "ID da conta não informado")
	}

	account, err := s.accountRepository.GetAccountByID(id)
	if err != nil {
		return nil, NewAccountErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, err.Error())
	}
	if account == nil {
		return nil, NewAccountErrorWithID(ErrAccountNotFound, apiErrors.ErrUnknownAccount, id, "Conta não encontrada")
	}

	return account, nil
}

func (s *Service) GetWorkspace(id string) (*domain.Workspace, error) {
	workspace, err := s.accountRepository.GetWorkspace(id)
	if err != nil {
		return nil, NewAccountError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if workspace == nil {
		return nil, NewAccountError(ErrWorkspaceNotFound, apiErrors.ErrUnknownAccount, "Workspace não encontrado")
	}

	return workspace, nil
}

// ResolveScope valida o escopo pedido e expande workspaces para seus IDs de conta.
// Escopo de conta única passa direto após confirmar que a conta existe.
func (s *Service) ResolveScope(scope domain.Scope) (domain.Scope, error) {
	if scope.AccountID != "" {
		if _, err := s.GetAccount(scope.AccountID); err != nil {
			return scope, err
		}
		return scope, nil
	}

	if scope.Workspace == "" {
		return scope, NewAccountError(ErrEmptyScope, apiErrors.ErrMissingRequiredData, "Informe uma conta ou um workspace")
	}

	workspace, err := s.GetWorkspace(scope.Workspace)
	if err != nil {
		return scope, err
	}

	if len(workspace.AccountIDs) == 0 {
		logrus.WithField("workspace_id", workspace.ID).Warn("account: workspace sem contas associadas")
		return scope, NewAccountError(ErrEmptyScope, apiErrors.ErrUnknownAccount, "Workspace sem contas associadas")
	}

	scope.AccountIDs = workspace.AccountIDs
	return scope, nil
}
