package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 注文処理の状態（ログ用）
const (
	StateRequested         = "REQUESTED"
	StateCustomerValidated = "CUSTOMER_VALIDATED"
	StateOrderPersisted    = "ORDER_PERSISTED"
	StateMaterialsReserve  = "MATERIALS_RESERVING"
	StateCommitted         = "COMMITTED"
	StateRolledBack        = "ROLLED_BACK"
)

// 注文Txの上限時間
const defaultOrderTxTimeout = 10 * time.Second

type OrderUsecase struct {
	tx     repo.TransactionManager
	users  repo.UserRepository
	orders repo.OrderRepository
	ledger repo.LedgerRepository
	idGen  IDGenerator
	clock  Clock
	log    *zap.Logger

	retry     RetryPolicy
	txTimeout time.Duration
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	orders repo.OrderRepository,
	ledger repo.LedgerRepository,
	idGen IDGenerator,
	clock Clock,
	log *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		users:     users,
		orders:    orders,
		ledger:    ledger,
		idGen:     idGen,
		clock:     clock,
		log:       log,
		retry:     DefaultRetryPolicy,
		txTimeout: defaultOrderTxTimeout,
	}
}

// WithRetryPolicy はテストや設定で再試行を変える
func (u *OrderUsecase) WithRetryPolicy(p RetryPolicy) *OrderUsecase {
	u.retry = p
	return u
}

type OrderLineInput struct {
	FoodID   string `json:"_id"`
	Quantity int64  `json:"quantity"`
}

type PlaceOrderInput struct {
	CostumerID      string           `json:"costumerId"`
	OrderedProducts []OrderLineInput `json:"orderedProducts"`
}

// 注文1行ぶんの予定（料理と必要な材料）
type plannedLine struct {
	food     model.Food
	quantity int64
	recipe   []RecipeLine
}

// PlaceOrder は注文を保存して材料を台帳から引く
// 在庫が足りなければ引いた分と注文を打ち消して InsufficientStock を返す
func (u *OrderUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (model.Order, error) {
	log := u.log.With(zap.String("costumer_id", in.CostumerID))
	logState(log, StateRequested)

	if err := validatePlaceOrder(in); err != nil {
		return model.Order{}, err
	}

	//注文者の存在確認
	if _, err := u.users.FindByID(ctx, in.CostumerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(ErrInvalidCustomer, "order.customer_invalid")
		}
		return model.Order{}, dbError(err)
	}
	logState(log, StateCustomerValidated)

	//始まる前なら中断できる
	if err := ctx.Err(); err != nil {
		return model.Order{}, err
	}

	//始まったTxはクライアントが切れても最後まで（打ち消しまで）やる
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.txTimeout)
	defer cancel()

	orderID := u.idGen.NewID()
	log = log.With(zap.String("order_id", orderID))

	var created model.Order
	err := u.tx.WithinTx(txCtx, func(r repo.TxRepos) error {
		//レシピは保存前に全部引いておく
		plan, total, err := planOrder(txCtx, NewRecipeResolver(r.Foods()), in)
		if err != nil {
			return err
		}

		order := model.Order{
			ID:              orderID,
			CostumerID:      in.CostumerID,
			OrderedProducts: make([]model.OrderedProduct, 0, len(plan)),
			OrderedTime:     u.clock.Now(),
			TotalPrice:      total,
		}
		for i, pl := range plan {
			order.OrderedProducts = append(order.OrderedProducts, model.OrderedProduct{
				OrderID:   orderID,
				Line:      i + 1,
				FoodID:    pl.food.ID,
				Quantity:  pl.quantity,
				UnitPrice: pl.food.Price,
			})
		}

		created, err = r.Orders().Create(txCtx, order)
		if err != nil {
			return dbError(err)
		}
		logState(log, StateOrderPersisted)

		return u.reserve(txCtx, r, orderID, plan, log)
	})
	if err != nil {
		if errors.Is(err, ErrRollbackFailed) {
			return model.Order{}, u.verifyRollback(txCtx, orderID, err, log)
		}
		return model.Order{}, err
	}

	logState(log, StateCommitted)
	return created, nil
}

func validatePlaceOrder(in PlaceOrderInput) error {
	if validator.ParseID(in.CostumerID) != nil {
		return NewHTTPError(ErrInvalidCustomer, "order.customer_invalid")
	}
	if len(in.OrderedProducts) == 0 {
		return NewHTTPError(ErrInvalidInput, "order.empty")
	}
	for _, line := range in.OrderedProducts {
		if validator.ParseID(line.FoodID) != nil {
			return NewHTTPError(ErrInvalidInput, "id.invalid")
		}
		if line.Quantity <= 0 {
			return NewHTTPError(ErrInvalidInput, "order.quantity_invalid")
		}
	}
	return nil
}

func planOrder(ctx context.Context, resolver *RecipeResolver, in PlaceOrderInput) ([]plannedLine, decimal.Decimal, error) {
	plan := make([]plannedLine, 0, len(in.OrderedProducts))
	total := decimal.Zero

	for _, line := range in.OrderedProducts {
		f, err := resolver.Food(ctx, line.FoodID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		plan = append(plan, plannedLine{food: f, quantity: line.Quantity, recipe: recipeLines(f)})
		total = total.Add(f.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return plan, total, nil
}

// reserve は材料をロックして、1回だけ集計した在庫から順に引いていく
func (u *OrderUsecase) reserve(ctx context.Context, r repo.TxRepos, orderID string, plan []plannedLine, log *zap.Logger) error {
	ids := materialIDsOf(plan)

	locked, err := r.Materials().LockForUpdate(ctx, ids)
	if err != nil {
		return u.compensate(ctx, r, orderID, dbError(err), log)
	}
	names := make(map[string]string, len(locked))
	for _, m := range locked {
		names[m.ID] = m.DisplayName
	}

	snapshot, err := r.Stock().CurrentStockOf(ctx, ids)
	if err != nil {
		return u.compensate(ctx, r, orderID, dbError(err), log)
	}
	logState(log, StateMaterialsReserve)

	now := u.clock.Now()
	for _, pl := range plan {
		for _, item := range pl.recipe {
			required := item.Quantity.Mul(decimal.NewFromInt(pl.quantity))

			if snapshot[item.MaterialID].LessThan(required) {
				name := names[item.MaterialID]
				if name == "" {
					name = item.MaterialID
				}
				log.Info("order_insufficient_stock",
					zap.String("material_id", item.MaterialID),
					zap.String("required", required.String()),
					zap.String("available", snapshot[item.MaterialID].String()),
				)
				return u.compensate(ctx, r, orderID, NewHTTPError(ErrInsufficientStock, "order.insufficient_stock", name), log)
			}

			_, err := r.Ledger().Append(ctx, model.StockEntry{
				ID:         u.idGen.NewID(),
				MaterialID: item.MaterialID,
				Quantity:   required.Neg(),
				Message:    orderID,
				CreatedAt:  now,
			})
			if err != nil {
				return u.compensate(ctx, r, orderID, dbError(err), log)
			}
			snapshot[item.MaterialID] = snapshot[item.MaterialID].Sub(required)
		}
	}
	return nil
}

// compensate は注文IDの台帳行と注文を消す。どちらも何度やっても同じ結果
func (u *OrderUsecase) compensate(ctx context.Context, r repo.TxRepos, orderID string, cause error, log *zap.Logger) error {
	err := u.retry.Do(ctx, func() error {
		if _, err := r.Ledger().DeleteByReason(ctx, orderID); err != nil {
			return err
		}
		return r.Orders().Delete(ctx, orderID)
	})
	if err != nil {
		log.Error("order_rollback_failed", zap.Error(err), zap.NamedError("cause", cause))
		return WrapHTTPError(ErrRollbackFailed, errors.Join(err, cause), "order.rollback_failed")
	}

	logState(log, StateRolledBack)
	return cause
}

// verifyRollback は打ち消しに失敗したあと、Txのロールバックで消えていれば元のエラーを返す
func (u *OrderUsecase) verifyRollback(ctx context.Context, orderID string, failed error, log *zap.Logger) error {
	_, err := u.orders.FindByID(ctx, orderID)
	if !errors.Is(err, repo.ErrNotFound) {
		return failed
	}
	_, n, err := u.ledger.List(ctx, repo.LedgerFilter{Message: orderID, Page: 1, Limit: 1})
	if err != nil || n > 0 {
		return failed
	}

	log.Warn("order_rolled_back_by_storage")
	logState(log, StateRolledBack)

	var he *HTTPError
	if errors.As(failed, &he) && he.Err != nil {
		//打ち消し前のエラーを取り出す
		if cause, ok := rollbackCause(he.Err); ok {
			return cause
		}
	}
	return dbError(failed)
}

func rollbackCause(joined error) (error, bool) {
	multi, ok := joined.(interface{ Unwrap() []error })
	if !ok {
		return nil, false
	}
	for _, e := range multi.Unwrap() {
		if _, ok := AsHTTPError(e); ok {
			return e, true
		}
	}
	return nil, false
}

func materialIDsOf(plan []plannedLine) []string {
	seen := map[string]bool{}
	ids := make([]string, 0)
	for _, pl := range plan {
		for _, item := range pl.recipe {
			if !seen[item.MaterialID] {
				seen[item.MaterialID] = true
				ids = append(ids, item.MaterialID)
			}
		}
	}
	//ロック順をそろえる
	sort.Strings(ids)
	return ids
}

func logState(log *zap.Logger, state string) {
	log.Debug("order_state", zap.String("state", state))
}

// キッチン完了
func (u *OrderUsecase) MarkKitchenFinished(ctx context.Context, actorID string, orderID string) (model.Order, error) {
	return u.transition(ctx, actorID, orderID, model.OrderFinishedCokingTime, model.AuditActionKitchenFinished, true)
}

// キッチン完了の取り消し（未完了なら何もしない）
func (u *OrderUsecase) RevertKitchenFinished(ctx context.Context, actorID string, orderID string) (model.Order, error) {
	return u.transition(ctx, actorID, orderID, model.OrderFinishedCokingTime, model.AuditActionKitchenFinished, false)
}

// 受け渡し完了。キッチン完了は条件にしない
func (u *OrderUsecase) MarkHandedOver(ctx context.Context, actorID string, orderID string) (model.Order, error) {
	return u.transition(ctx, actorID, orderID, model.OrderFinishedTime, model.AuditActionHandedOver, true)
}

func (u *OrderUsecase) RevertHandedOver(ctx context.Context, actorID string, orderID string) (model.Order, error) {
	return u.transition(ctx, actorID, orderID, model.OrderFinishedTime, model.AuditActionHandedOver, false)
}

var alreadyFinishedCode = map[model.OrderTimeField]string{
	model.OrderFinishedCokingTime: "order.already_cooked",
	model.OrderFinishedTime:       "order.already_handed_over",
}

func (u *OrderUsecase) transition(
	ctx context.Context,
	actorID string,
	orderID string,
	field model.OrderTimeField,
	action model.AuditAction,
	set bool,
) (model.Order, error) {
	if validator.ParseID(orderID) != nil {
		return model.Order{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(ErrNotFound, "order.not_found")
		}
		if err != nil {
			return dbError(err)
		}

		if set {
			//nullのときだけ入る（同時に2回は成功しない）
			ok, err := r.Orders().MarkTime(ctx, orderID, field, u.clock.Now())
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(ErrNotFound, "order.not_found")
			}
			if err != nil {
				return dbError(err)
			}
			if !ok {
				return NewHTTPError(ErrAlreadyFinished, alreadyFinishedCode[field])
			}
		} else {
			if before.TimeOf(field) == nil {
				out = before
				return nil
			}
			if err := r.Orders().ClearTime(ctx, orderID, field); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(ErrNotFound, "order.not_found")
				}
				return dbError(err)
			}
		}

		after, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return dbError(err)
		}

		//監査ログ
		entry, err := newAuditLog(u.idGen, u.clock, actorID, action, model.AuditResourceOrder, orderID,
			map[string]any{string(field): before.TimeOf(field)},
			map[string]any{string(field): after.TimeOf(field)},
		)
		if err != nil {
			return dbError(err)
		}
		if err := r.AuditLogs().Create(ctx, entry); err != nil {
			return dbError(err)
		}

		out = after
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	u.log.Info("order_transition",
		zap.String("order_id", orderID),
		zap.String("field", string(field)),
		zap.Bool("set", set),
		zap.String("actor_id", actorID),
	)
	return out, nil
}

type OrderListQuery struct {
	Page       int
	Limit      int
	CostumerID string
	Unfinished bool
}

type OrderListOutput struct {
	Items     []model.Order `json:"items"`
	Total     int64         `json:"total"`
	PageCount int64         `json:"pageCount"`
}

func (u *OrderUsecase) ListOrders(ctx context.Context, q OrderListQuery) (OrderListOutput, error) {
	if q.Page < 0 {
		return OrderListOutput{}, NewHTTPError(ErrInvalidInput, "page.invalid")
	}
	if q.Limit < 0 || q.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(ErrInvalidInput, "limit.invalid")
	}
	if q.CostumerID != "" && validator.ParseID(q.CostumerID) != nil {
		return OrderListOutput{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 50
	}

	items, total, err := u.orders.List(ctx, repo.OrderListFilter{
		Page:       q.Page,
		Limit:      q.Limit,
		CostumerID: q.CostumerID,
		Unfinished: q.Unfinished,
	})
	if err != nil {
		return OrderListOutput{}, dbError(err)
	}
	return OrderListOutput{Items: items, Total: total, PageCount: pageCount(total, q.Limit)}, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	if validator.ParseID(orderID) != nil {
		return model.Order{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(ErrNotFound, "order.not_found")
	}
	if err != nil {
		return model.Order{}, dbError(err)
	}
	return o, nil
}

func pageCount(total int64, limit int) int64 {
	if limit <= 0 || total == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
