package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	Ledger() LedgerRepository
	Stock() StockRepository
	Materials() MaterialRepository
	Foods() FoodRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したらrollbackする（できる実装なら）
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
