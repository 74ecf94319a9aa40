// Package rowstore mantém em memória as linhas diárias de performance por conta.
// É um repositório puro de dados: toda atualização é uma substituição completa do
// conjunto de linhas de uma conta (sync é tudo-ou-nada), nunca mutação parcial.
package rowstore

import (
	"sync"

	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	byAcct map[string][]domain.PerformanceRow
}

func New() *Store {
	return &Store{
		byAcct: make(map[string][]domain.PerformanceRow),
	}
}

// Replace troca atomicamente o conjunto completo de linhas de uma conta.
// Valores numéricos negativos são coercidos para zero em vez de rejeitar o lote.
func (s *Store) Replace(accountID string, rows []domain.PerformanceRow) {
	clean := make([]domain.PerformanceRow, 0, len(rows))
	for _, row := range rows {
		if row.Spend < 0 {
			row.Spend = 0
		}
		if row.Conversions < 0 {
			row.Conversions = 0
		}
		if row.Revenue < 0 {
			row.Revenue = 0
		}
		if row.Impressions < 0 {
			row.Impressions = 0
		}
		if row.Clicks < 0 {
			row.Clicks = 0
		}
		clean = append(clean, row)
	}

	s.mu.Lock()
	s.byAcct[accountID] = clean
	s.mu.Unlock()
}

// RowsFor retorna as linhas das contas informadas cuja data-calendário (no fuso da conta)
// cai dentro de [Since, Until], inclusive nas duas pontas.
func (s *Store) RowsFor(accountIDs []string, dateRange domain.DateRange) []domain.PerformanceRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]domain.PerformanceRow, 0)
	for _, accountID := range accountIDs {
		for _, row := range s.byAcct[accountID] {
			if dateRange.ContainsDate(row.Date) {
				rows = append(rows, row)
			}
		}
	}

	return rows
}

// HasAccount informa se a conta já recebeu ao menos um sync nesta sessão
func (s *Store) HasAccount(accountID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byAcct[accountID]
	return ok
}
