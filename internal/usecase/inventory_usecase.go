package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxMessageLength = 255

type InventoryUsecase struct {
	tx     repo.TransactionManager
	ledger repo.LedgerRepository
	idGen  IDGenerator
	clock  Clock
	log    *zap.Logger
}

func NewInventoryUsecase(
	tx repo.TransactionManager,
	ledger repo.LedgerRepository,
	idGen IDGenerator,
	clock Clock,
	log *zap.Logger,
) *InventoryUsecase {
	return &InventoryUsecase{tx: tx, ledger: ledger, idGen: idGen, clock: clock, log: log}
}

// 手動の入出庫
type AddEntryInput struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Message   string          `json:"message"`
	CreatedAt *time.Time      `json:"createdAt"`
}

// AddEntry は材料名で台帳に1行追記する
// マイナスは在庫がマイナスになるなら拒否する
func (u *InventoryUsecase) AddEntry(ctx context.Context, actorID string, in AddEntryInput) (model.StockEntry, error) {
	name := strings.TrimSpace(in.Name)
	msg := strings.TrimSpace(in.Message)
	now := u.clock.Now()

	//入力チェック
	if name == "" {
		return model.StockEntry{}, NewHTTPError(ErrInvalidInput, "inventory.name_required")
	}
	if in.Quantity.IsZero() {
		return model.StockEntry{}, NewHTTPError(ErrInvalidInput, "inventory.quantity_invalid")
	}
	if err := validateMessage(msg); err != nil {
		return model.StockEntry{}, err
	}
	createdAt := now
	if in.CreatedAt != nil {
		if in.CreatedAt.After(now) {
			return model.StockEntry{}, NewHTTPError(ErrInvalidInput, "inventory.date_in_future")
		}
		createdAt = *in.CreatedAt
	}

	var out model.StockEntry
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		m, err := r.Materials().FindByName(ctx, name)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(ErrNotFound, "inventory.material_not_found", name)
		}
		if err != nil {
			return dbError(err)
		}

		//マイナスは注文と同じロックを取ってから確認
		if in.Quantity.IsNegative() {
			if _, err := r.Materials().LockForUpdate(ctx, []string{m.ID}); err != nil {
				return dbError(err)
			}
			if err := ensureNonNegative(ctx, r, m.ID, in.Quantity); err != nil {
				return err
			}
		}

		out, err = r.Ledger().Append(ctx, model.StockEntry{
			ID:         u.idGen.NewID(),
			MaterialID: m.ID,
			Quantity:   in.Quantity,
			Message:    msg,
			CreatedAt:  createdAt,
		})
		if err != nil {
			return dbError(err)
		}
		out.Material = &m

		return u.audit(ctx, r, actorID, model.AuditActionStockEntry, out.ID, nil, out)
	})
	if err != nil {
		return model.StockEntry{}, err
	}

	u.log.Info("stock_entry_added",
		zap.String("entry_id", out.ID),
		zap.String("material_id", out.MaterialID),
		zap.String("quantity", out.Quantity.String()),
	)
	return out, nil
}

// 現在庫+deltaがマイナスにならないか。材料のロックは呼び出し側で取る
func ensureNonNegative(ctx context.Context, r repo.TxRepos, materialID string, delta decimal.Decimal) error {
	current, err := r.Stock().CurrentStock(ctx, materialID)
	if err != nil {
		return dbError(err)
	}
	if current.Add(delta).IsNegative() {
		return NewHTTPError(ErrInvalidInput, "inventory.negative_stock")
	}
	return nil
}

// lockEntry は行の材料をロックしてから行を読み直す
// 差分は必ずロック後に読んだ値で計算する
func lockEntry(ctx context.Context, r repo.TxRepos, entryID string) (model.StockEntry, error) {
	find := func() (model.StockEntry, error) {
		e, err := r.Ledger().FindByID(ctx, entryID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.StockEntry{}, NewHTTPError(ErrNotFound, "inventory.entry_not_found")
		}
		if err != nil {
			return model.StockEntry{}, dbError(err)
		}
		return e, nil
	}

	e, err := find()
	if err != nil {
		return model.StockEntry{}, err
	}
	if _, err := r.Materials().LockForUpdate(ctx, []string{e.MaterialID}); err != nil {
		return model.StockEntry{}, dbError(err)
	}
	return find()
}

func validateMessage(msg string) error {
	if msg == "" {
		return NewHTTPError(ErrInvalidInput, "inventory.message_required")
	}
	if len(msg) > maxMessageLength {
		return NewHTTPError(ErrInvalidInput, "inventory.message_too_long")
	}
	return nil
}

type LedgerListQuery struct {
	Page        int
	Limit       int
	MaterialID  string
	Name        string
	Message     string
	MinQuantity *decimal.Decimal
	MaxQuantity *decimal.Decimal
	From        *time.Time
	To          *time.Time
}

type LedgerListOutput struct {
	Items     []model.StockEntry `json:"items"`
	PageCount int64              `json:"pageCount"`
}

func (u *InventoryUsecase) List(ctx context.Context, q LedgerListQuery) (LedgerListOutput, error) {
	if q.Page < 0 {
		return LedgerListOutput{}, NewHTTPError(ErrInvalidInput, "page.invalid")
	}
	if q.Limit < 0 || q.Limit > 100 {
		return LedgerListOutput{}, NewHTTPError(ErrInvalidInput, "limit.invalid")
	}
	if q.MaterialID != "" && validator.ParseID(q.MaterialID) != nil {
		return LedgerListOutput{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}
	if q.MinQuantity != nil && q.MaxQuantity != nil && q.MinQuantity.GreaterThan(*q.MaxQuantity) {
		return LedgerListOutput{}, NewHTTPError(ErrInvalidInput, "query.invalid")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return LedgerListOutput{}, NewHTTPError(ErrInvalidInput, "query.invalid")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	items, total, err := u.ledger.List(ctx, repo.LedgerFilter{
		Page:        q.Page,
		Limit:       q.Limit,
		MaterialID:  q.MaterialID,
		Name:        q.Name,
		Message:     q.Message,
		MinQuantity: q.MinQuantity,
		MaxQuantity: q.MaxQuantity,
		From:        q.From,
		To:          q.To,
	})
	if err != nil {
		return LedgerListOutput{}, dbError(err)
	}
	return LedgerListOutput{Items: items, PageCount: pageCount(total, q.Limit)}, nil
}

// 管理者による修正
type CorrectEntryInput struct {
	Quantity *decimal.Decimal `json:"quantity"`
	Message  *string          `json:"message"`
}

// CorrectEntry は数量・メッセージを直す。直した結果、在庫がマイナスになるなら拒否
func (u *InventoryUsecase) CorrectEntry(ctx context.Context, actorID string, entryID string, in CorrectEntryInput) (model.StockEntry, error) {
	if validator.ParseID(entryID) != nil {
		return model.StockEntry{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}
	if in.Quantity == nil && in.Message == nil {
		return model.StockEntry{}, NewHTTPError(ErrInvalidInput, "request.invalid_body")
	}
	if in.Quantity != nil && in.Quantity.IsZero() {
		return model.StockEntry{}, NewHTTPError(ErrInvalidInput, "inventory.quantity_invalid")
	}

	var out model.StockEntry
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := lockEntry(ctx, r, entryID)
		if err != nil {
			return err
		}

		after := before
		if in.Message != nil {
			msg := strings.TrimSpace(*in.Message)
			if err := validateMessage(msg); err != nil {
				return err
			}
			after.Message = msg
		}
		if in.Quantity != nil {
			delta := in.Quantity.Sub(before.Quantity)
			if delta.IsNegative() {
				if err := ensureNonNegative(ctx, r, before.MaterialID, delta); err != nil {
					return err
				}
			}
			after.Quantity = *in.Quantity
		}

		if err := r.Ledger().Update(ctx, after); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(ErrNotFound, "inventory.entry_not_found")
			}
			return dbError(err)
		}

		out = after
		return u.audit(ctx, r, actorID, model.AuditActionStockCorrection, entryID, before, after)
	})
	if err != nil {
		return model.StockEntry{}, err
	}
	return out, nil
}

// DeleteEntry は台帳の行を消す。消した結果マイナスになるなら拒否
func (u *InventoryUsecase) DeleteEntry(ctx context.Context, actorID string, entryID string) error {
	if validator.ParseID(entryID) != nil {
		return NewHTTPError(ErrInvalidInput, "id.invalid")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := lockEntry(ctx, r, entryID)
		if err != nil {
			return err
		}

		if before.Quantity.IsPositive() {
			if err := ensureNonNegative(ctx, r, before.MaterialID, before.Quantity.Neg()); err != nil {
				return err
			}
		}

		if err := r.Ledger().Delete(ctx, entryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(ErrNotFound, "inventory.entry_not_found")
			}
			return dbError(err)
		}
		return u.audit(ctx, r, actorID, model.AuditActionStockCorrection, entryID, before, nil)
	})
}

func (u *InventoryUsecase) audit(
	ctx context.Context,
	r repo.TxRepos,
	actorID string,
	action model.AuditAction,
	entryID string,
	before any,
	after any,
) error {
	entry, err := newAuditLog(u.idGen, u.clock, actorID, action, model.AuditResourceStockEntry, entryID, before, after)
	if err != nil {
		return dbError(err)
	}
	if err := r.AuditLogs().Create(ctx, entry); err != nil {
		return dbError(err)
	}
	return nil
}
