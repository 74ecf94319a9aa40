package domain

// BudgetOwnership divide o total de orçamento por quem possui o teto de gasto
type BudgetOwnership struct {
	CBO float64 `json:"cbo"`
	ABO float64 `json:"abo"`
}

// BudgetTotals é o objeto de totais de orçamento diário do portfólio.
// Invariante: para uma mesma campanha, nunca contam ao mesmo tempo o orçamento
// de nível de campanha (CBO) e os orçamentos dos conjuntos ABO.
type BudgetTotals struct {
	Total           float64              `json:"total"`
	ByOwnershipType BudgetOwnership      `json:"by_ownership_type"`
	ByPlatform      map[Platform]float64 `json:"by_platform"`
}
