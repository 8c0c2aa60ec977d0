package unitofwork

import (
	"context"

	"shopquery-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	SearchHistoryRepository() contract.SearchHistoryRepository
	UserEventRepository() contract.UserEventRepository
	FavoriteRepository() contract.FavoriteRepository
	ComparisonSessionRepository() contract.ComparisonSessionRepository
	ComparisonProductRepository() contract.ComparisonProductRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ProductRepository() contract.ProductRepository
}
