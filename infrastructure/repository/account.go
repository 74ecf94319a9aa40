package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

const (
	accountsTable   = "ad_accounts aa"
	workspacesTable = "workspaces w"
)

type AccountRepository interface {
	GetAccountByID(id string) (*domain.AdAccount, error)
	GetAccountByExternalID(externalID string) (*domain.AdAccount, error)
	ListAccounts(statuses []domain.AdAccountStatus) ([]*domain.AdAccount, error)
	GetWorkspace(id string) (*domain.Workspace, error)
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

const accountColumns = "aa.id, aa.external_id, aa.name, aa.nickname, aa.platform, aa.timezone, aa.workspace_id, aa.status"

func (r *accountRepository) GetAccountByID(id string) (*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select(accountColumns).
		From(accountsTable).
		Where(squirrel.Eq{"aa.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de conta")
	}

	return r.scanAccount(r.conn.QueryRow(query, args...))
}

func (r *accountRepository) GetAccountByExternalID(externalID string) (*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select(accountColumns).
		From(accountsTable).
		Where(squirrel.Eq{"aa.external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de conta")
	}

	return r.scanAccount(r.conn.QueryRow(query, args...))
}

func (r *accountRepository) ListAccounts(statuses []domain.AdAccountStatus) ([]*domain.AdAccount, error) {
	builder := squirrel.
		Select(accountColumns).
		From(accountsTable).
		OrderBy("aa.name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(statuses) > 0 {
		builder = builder.Where(squirrel.Eq{"aa.status": statuses})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de listagem de contas")
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao executar a query de listagem de contas")
	}
	defer rows.Close()

	accounts := make([]*domain.AdAccount, 0)
	for rows.Next() {
		account := &domain.AdAccount{}
		if err := rows.Scan(
			&account.ID,
			&account.ExternalID,
			&account.Name,
			&account.Nickname,
			&account.Platform,
			&account.Timezone,
			&account.WorkspaceID,
			&account.Status,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear conta")
		}
		accounts = append(accounts, account)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de contas")
	}

	return accounts, nil
}

func (r *accountRepository) GetWorkspace(id string) (*domain.Workspace, error) {
	query, args, err := squirrel.
		Select("w.id", "w.name", "ARRAY(SELECT aa.id FROM ad_accounts aa WHERE aa.workspace_id = w.id ORDER BY aa.id)").
		From(workspacesTable).
		Where(squirrel.Eq{"w.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de workspace")
	}

	workspace := &domain.Workspace{}
	err = r.conn.QueryRow(query, args...).Scan(
		&workspace.ID,
		&workspace.Name,
		pq.Array(&workspace.AccountIDs),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao escanear workspace")
	}

	return workspace, nil
}

func (r *accountRepository) scanAccount(row *sql.Row) (*domain.AdAccount, error) {
	account := &domain.AdAccount{}
	err := row.Scan(
		&account.ID,
		&account.ExternalID,
		&account.Name,
		&account.Nickname,
		&account.Platform,
		&account.Timezone,
		&account.WorkspaceID,
		&account.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao escanear conta")
	}

	return account, nil
}
