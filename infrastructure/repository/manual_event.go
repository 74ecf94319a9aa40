package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/ad-attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

const (
	manualEventsTable = "manual_events me"
)

// ManualEvent é um evento de conversão offline registrado manualmente (venda de balcão,
// pedido por telefone), que nenhuma fonte automática consegue enxergar
type ManualEvent struct {
	ID          int64     `json:"id"`
	AccountID   string    `json:"account_id"`
	EntityID    string    `json:"entity_id"`
	OccurredOn  string    `json:"occurred_on"`
	Conversions float64   `json:"conversions"`
	Revenue     float64   `json:"revenue"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

type ManualEventRepository interface {
	Save(event *ManualEvent) error
	// FeedForRange agrega os eventos da janela em um feed por entidade, no mesmo formato
	// dos demais feeds de atribuição
	FeedForRange(accountIDs []string, since, until string) (domain.AttributionFeed, error)
	ListByAccount(accountID string, since, until string) ([]*ManualEvent, error)
}

type manualEventRepository struct {
	conn *postgres.Connection
}

func NewManualEventRepository(conn *postgres.Connection) ManualEventRepository {
	return &manualEventRepository{
		conn: conn,
	}
}

func (r *manualEventRepository) Save(event *ManualEvent) error {
	if event.Conversions < 0 {
		event.Conversions = 0
	}
	if event.Revenue < 0 {
		event.Revenue = 0
	}

	query, args, err := squirrel.
		Insert("manual_events").
		Columns("account_id", "entity_id", "occurred_on", "conversions", "revenue", "note").
		Values(event.AccountID, event.EntityID, event.OccurredOn, event.Conversions, event.Revenue, event.Note).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir a query de insert de evento manual")
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		return errors.Wrap(err, "erro ao salvar evento manual")
	}

	return nil
}

func (r *manualEventRepository) FeedForRange(accountIDs []string, since, until string) (domain.AttributionFeed, error) {
	builder := squirrel.
		Select("me.entity_id", "COALESCE(SUM(me.conversions), 0)", "COALESCE(SUM(me.revenue), 0)").
		From(manualEventsTable).
		Where(squirrel.Eq{"me.account_id": accountIDs}).
		GroupBy("me.entity_id").
		PlaceholderFormat(squirrel.Dollar)

	if since != "" {
		builder = builder.Where(squirrel.GtOrEq{"me.occurred_on": since})
	}
	if until != "" {
		builder = builder.Where(squirrel.LtOrEq{"me.occurred_on": until})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de feed de eventos manuais")
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.AttributionFeed{}, nil
		}
		return nil, errors.Wrap(err, "erro ao executar a query de feed de eventos manuais")
	}
	defer rows.Close()

	feed := make(domain.AttributionFeed)
	for rows.Next() {
		var entityID string
		var rec domain.FeedRecord

		if err := rows.Scan(&entityID, &rec.Conversions, &rec.Revenue); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear evento manual agregado")
		}
		feed[entityID] = rec
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de eventos manuais")
	}

	return feed, nil
}

func (r *manualEventRepository) ListByAccount(accountID string, since, until string) ([]*ManualEvent, error) {
	builder := squirrel.
		Select("me.id", "me.account_id", "me.entity_id", "me.occurred_on", "me.conversions", "me.revenue", "me.note", "me.created_at").
		From(manualEventsTable).
		Where(squirrel.Eq{"me.account_id": accountID}).
		OrderBy("me.occurred_on ASC").
		PlaceholderFormat(squirrel.Dollar)

	if since != "" {
		builder = builder.Where(squirrel.GtOrEq{"me.occurred_on": since})
	}
	if until != "" {
		builder = builder.Where(squirrel.LtOrEq{"me.occurred_on": until})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de listagem de eventos manuais")
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao executar a query de listagem de eventos manuais")
	}
	defer rows.Close()

	events := make([]*ManualEvent, 0)
	for rows.Next() {
		event := &ManualEvent{}
		if err := rows.Scan(
			&event.ID,
			&event.AccountID,
			&event.EntityID,
			&event.OccurredOn,
			&event.Conversions,
			&event.Revenue,
			&event.Note,
			&event.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear evento manual")
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de eventos manuais")
	}

	return events, nil
}
