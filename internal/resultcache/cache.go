// Package resultcache implementa o cache de resultados do dashboard. A validade de uma
// entrada é decidida por contenção de período, nunca por tempo decorrido: dados históricos
// de uma janela fixa são imutáveis por definição, então não existe TTL.
package resultcache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

const (
	accountKeyPrefix   = "account:"
	workspaceKeyPrefix = "workspace:"
)

// Entry é uma entrada do cache: as linhas e o descritor de período para o qual foram
// computadas, além do instante da busca (apenas informativo, nunca usado para expirar).
type Entry struct {
	Key       string
	Rows      []domain.PerformanceRow
	DateRange domain.DateRange
	FetchedAt time.Time
}

// Cache é um serviço explícito com armazenamento injetável por construção, compartilhado
// por referência entre os consumidores. Sobrevive à navegação sem depender de estado global.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// AccountKey monta a chave de uma consulta de conta única. O namespace garante que
// consultas de conta e de workspace sobre contas sobrepostas nunca colidem.
func AccountKey(accountID string) string {
	return accountKeyPrefix + accountID
}

// WorkspaceKey monta a chave de uma consulta de workspace a partir do conjunto ordenado
// de IDs de conta, para que a mesma composição sempre produza a mesma chave.
func WorkspaceKey(accountIDs []string) string {
	ids := make([]string, len(accountIDs))
	copy(ids, accountIDs)
	sort.Strings(ids)
	return workspaceKeyPrefix + strings.Join(ids, ",")
}

// Get retorna a entrada para a chave, ou nil quando ausente. Nunca falha.
func (c *Cache) Get(key string) *Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.entries[key]
}

// Put armazena ou sobrescreve integralmente a entrada da chave
func (c *Cache) Put(key string, rows []domain.PerformanceRow, dateRange domain.DateRange) {
	c.mu.Lock()
	c.entries[key] = &Entry{
		Key:       key,
		Rows:      rows,
		DateRange: dateRange,
		FetchedAt: c.now(),
	}
	c.mu.Unlock()
}

// IsValid decide se a entrada serve para o período solicitado:
//  1. descritor idêntico (mesmo preset, ou mesmos limites customizados) — dados históricos
//     de uma janela idêntica nunca mudam;
//  2. preset em cache cobre pelo menos tantos dias quanto o preset conhecido solicitado —
//     o chamador filtra o período mais largo para o mais estreito;
//  3. qualquer outro caso exige refetch.
func (c *Cache) IsValid(entry *Entry, requested domain.DateRange) bool {
	if entry == nil {
		return false
	}

	if entry.DateRange.Equal(requested) {
		return true
	}

	if entry.DateRange.IsCustom() || requested.IsCustom() {
		return false
	}

	requestedDays := requested.Days()
	if requestedDays == 0 {
		// preset desconhecido
		return false
	}

	return entry.DateRange.Days() >= requestedDays
}

// Invalidate remove as chaves informadas
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
}

// InvalidateAccount remove a chave da conta e toda chave composta de workspace que
// contenha a conta. Deve rodar antes de um novo fetch para nunca servir leitura
// obsoleta no meio de um sync.
func (c *Cache) InvalidateAccount(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	delete(c.entries, accountKeyPrefix+accountID)

	for key := range c.entries {
		if !strings.HasPrefix(key, workspaceKeyPrefix) {
			continue
		}
		for _, id := range strings.Split(strings.TrimPrefix(key, workspaceKeyPrefix), ",") {
			if id == accountID {
				delete(c.entries, key)
				evicted++
				break
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"account_id":         accountID,
		"workspaces_evicted": evicted,
	}).Debug("cache: entradas invalidadas para a conta")
}
