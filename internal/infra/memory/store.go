// Package memory はDBなしで動く保存先。
// 状態は1つのgoroutineだけが持ち、処理はチャネル経由で順番に実行する。
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

var (
	ErrClosed = errors.New("memory store is closed")
	ErrBusy   = errors.New("memory store is busy")
)

// goroutineが持つ状態
type state struct {
	materials map[string]model.Material
	entries   []model.StockEntry //追記順
	foods     map[string]model.Food
	orders    map[string]model.Order
	orderSeq  int64
	users     map[string]model.User
	tokens    map[string]model.RefreshToken
	auditLogs []model.AuditLog
}

func newState() *state {
	return &state{
		materials: map[string]model.Material{},
		foods:     map[string]model.Food{},
		orders:    map[string]model.Order{},
		users:     map[string]model.User{},
		tokens:    map[string]model.RefreshToken{},
	}
}

type job struct {
	fn    func(*state) error
	reply chan error
}

// 状態に触る関数の実行方法（通常はキュー経由、Tx中は直接）
type execFn func(ctx context.Context, fn func(*state) error) error

type Store struct {
	jobs        chan job
	quit        chan struct{}
	done        chan struct{}
	busyTimeout time.Duration
	closeOnce   sync.Once
	st          *state
}

// NewStore は処理用goroutineをすぐに起動する
func NewStore() *Store {
	s := &Store{
		jobs:        make(chan job),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		busyTimeout: 5 * time.Second,
		st:          newState(),
	}
	go s.loop()
	return s
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case j := <-s.jobs:
			j.reply <- s.run(j.fn)
		case <-s.quit:
			return
		}
	}
}

// panicでgoroutineを落とさない
func (s *Store) run(fn func(*state) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("memory store: panic: %v", rec)
		}
	}()
	return fn(s.st)
}

// do はキューに積んで結果を待つ
func (s *Store) do(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	//返信は受け取り手がいなくても詰まらないようにバッファ1
	j := job{fn: fn, reply: make(chan error, 1)}

	timer := time.NewTimer(s.busyTimeout)
	defer timer.Stop()

	select {
	case s.jobs <- j:
	case <-s.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}

	//始まった処理は最後まで実行される
	select {
	case err := <-j.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close はgoroutineを止める。2回呼んでもよい
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
	return nil
}

func (s *Store) Ledger() repo.LedgerRepository              { return &ledgerRepo{exec: s.do} }
func (s *Store) Stock() repo.StockRepository                { return &stockRepo{exec: s.do} }
func (s *Store) Materials() repo.MaterialRepository         { return &materialRepo{exec: s.do} }
func (s *Store) Foods() repo.FoodRepository                 { return &foodRepo{exec: s.do} }
func (s *Store) Orders() repo.OrderRepository               { return &orderRepo{exec: s.do} }
func (s *Store) Users() repo.UserRepository                 { return &userRepo{exec: s.do} }
func (s *Store) RefreshTokens() repo.RefreshTokenRepository { return &refreshTokenRepo{exec: s.do} }
func (s *Store) AuditLogs() repo.AuditLogRepository         { return &auditLogRepo{exec: s.do} }

type txRepos struct {
	exec execFn
}

func (r txRepos) Orders() repo.OrderRepository       { return &orderRepo{exec: r.exec} }
func (r txRepos) Ledger() repo.LedgerRepository      { return &ledgerRepo{exec: r.exec} }
func (r txRepos) Stock() repo.StockRepository        { return &stockRepo{exec: r.exec} }
func (r txRepos) Materials() repo.MaterialRepository { return &materialRepo{exec: r.exec} }
func (r txRepos) Foods() repo.FoodRepository         { return &foodRepo{exec: r.exec} }
func (r txRepos) AuditLogs() repo.AuditLogRepository { return &auditLogRepo{exec: r.exec} }

// WithinTx はfn全体をgoroutine上で実行する。Tx同士は必ず順番に動く
// ロールバックはないので、途中で失敗したら呼び出し側で打ち消す
func (s *Store) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return s.do(ctx, func(st *state) error {
		direct := func(_ context.Context, f func(*state) error) error { return f(st) }
		return fn(txRepos{exec: direct})
	})
}

// TxManager は TransactionManager として渡す用
func (s *Store) TxManager() repo.TransactionManager { return s }
