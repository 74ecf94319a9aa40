// Package syncing orquestra a sincronização de linhas de performance com a plataforma.
// Cada conta tem uma máquina de estados explícita {idle, syncing, cooling_down}: pedidos
// concorrentes para uma conta ocupada são descartados (nunca enfileirados) e um intervalo
// mínimo de resfriamento separa o fim de um sync do início do próximo, para não martelar
// uma API upstream com rate limit que devolve dados incompletos sob pressão.
package syncing

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/resultcache"
	"github.com/vfg2006/ad-attribution-api/internal/rowstore"
)

var (
	// ErrSyncInFlight indica que já existe um sync em andamento para a conta
	ErrSyncInFlight = errors.New("sync já em andamento para a conta")
	// ErrCoolingDown indica que o intervalo mínimo entre syncs ainda não passou
	ErrCoolingDown = errors.New("conta em resfriamento entre syncs")
)

// Phase é o estado da máquina de sync de uma conta
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseSyncing     Phase = "syncing"
	PhaseCoolingDown Phase = "cooling_down"
)

// RowSource é o colaborador externo que fornece o conjunto completo de linhas de uma
// conta para a janela pedida. Falha é reportada como erro estruturado e não muta nada.
type RowSource interface {
	FetchRows(accountID string, dateRange domain.DateRange) ([]domain.PerformanceRow, error)
}

type Service struct {
	source   RowSource
	store    *rowstore.Store
	cache    *resultcache.Cache
	cooldown time.Duration
	now      func() time.Time

	mu     sync.Mutex
	states map[string]*accountState
	// currentAccount é o contexto de conta corrente da sessão; um sync que termina
	// depois de o contexto mudar tem o resultado descartado
	currentAccount string
}

type accountState struct {
	phase       Phase
	completedAt time.Time
}

func NewService(source RowSource, store *rowstore.Store, cache *resultcache.Cache, cooldown time.Duration) *Service {
	return &Service{
		source:   source,
		store:    store,
		cache:    cache,
		cooldown: cooldown,
		now:      time.Now,
		states:   make(map[string]*accountState),
	}
}

// SetCurrentAccount registra o contexto de conta corrente da sessão
func (s *Service) SetCurrentAccount(accountID string) {
	s.mu.Lock()
	s.currentAccount = accountID
	s.mu.Unlock()
}

// Phase retorna o estado atual da máquina para uma conta, resolvendo a transição
// preguiçosa cooling_down -> idle pelo relógio
func (s *Service) Phase(accountID string) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked(accountID)
}

func (s *Service) phaseLocked(accountID string) Phase {
	state, ok := s.states[accountID]
	if !ok {
		return PhaseIdle
	}
	if state.phase == PhaseCoolingDown && s.now().Sub(state.completedAt) >= s.cooldown {
		state.phase = PhaseIdle
	}
	return state.phase
}

// Sync executa um ciclo completo para a conta: evicta as chaves de cache da conta (e de
// qualquer workspace que a contenha) antes do fetch, busca o conjunto completo de linhas
// e o aplica atomicamente no Row Store. Em falha o store permanece no último valor bom.
func (s *Service) Sync(accountID string, dateRange domain.DateRange) error {
	s.mu.Lock()
	switch s.phaseLocked(accountID) {
	case PhaseSyncing:
		s.mu.Unlock()
		logrus.WithField("account_id", accountID).Info("sync: pedido descartado, sync em andamento")
		return ErrSyncInFlight
	case PhaseCoolingDown:
		s.mu.Unlock()
		logrus.WithField("account_id", accountID).Info("sync: pedido descartado, conta em resfriamento")
		return ErrCoolingDown
	}

	state, ok := s.states[accountID]
	if !ok {
		state = &accountState{}
		s.states[accountID] = state
	}
	state.phase = PhaseSyncing
	s.mu.Unlock()

	// leituras obsoletas nunca podem ser servidas no meio de um sync
	s.cache.InvalidateAccount(accountID)

	startedAt := s.now()
	rows, err := s.source.FetchRows(accountID, dateRange)

	s.mu.Lock()
	state.phase = PhaseCoolingDown
	state.completedAt = s.now()
	contextChanged := s.currentAccount != "" && s.currentAccount != accountID
	s.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"account_id": accountID,
			"duration":   s.now().Sub(startedAt).String(),
		}).Error("sync: falha ao buscar linhas da plataforma")
		return errors.Wrapf(err, "sync da conta %s falhou", accountID)
	}

	if contextChanged {
		logrus.WithFields(logrus.Fields{
			"account_id":      accountID,
			"current_account": s.CurrentAccount(),
		}).Info("sync: contexto de conta mudou durante o fetch, resultado descartado")
		return nil
	}

	s.store.Replace(accountID, rows)

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"rows":       len(rows),
		"duration":   s.now().Sub(startedAt).String(),
	}).Info("sync: linhas de performance aplicadas")

	return nil
}

// CurrentAccount retorna o contexto de conta corrente
func (s *Service) CurrentAccount() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentAccount
}

// Status expõe o estado das máquinas de sync para o endpoint de status
func (s *Service) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make(map[string]string, len(s.states))
	for accountID := range s.states {
		accounts[accountID] = string(s.phaseLocked(accountID))
	}

	return map[string]any{
		"cooldown": s.cooldown.String(),
		"accounts": accounts,
	}
}
