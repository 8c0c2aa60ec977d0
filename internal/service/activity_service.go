package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/entity"
	"shopquery-be/internal/pkg/logger"
	"shopquery-be/internal/repository/specification"
	"shopquery-be/internal/repository/unitofwork"
	"shopquery-be/pkg/events"
	"shopquery-be/pkg/productdata"

	"github.com/google/uuid"
)

const (
	maxQueryKeyLen  = 512
	maxHistoryPage  = 100
	defaultPageSize = 20
)

type IActivityService interface {
	// SearchProducts runs a catalog search and logs it to the history
	// ledger in one step.
	SearchProducts(ctx context.Context, userId uuid.UUID, query string, page int) (*dto.ProductSearchResponse, error)

	// LogSearch appends a search to the history ledger. Every call inserts
	// a new row; the custom label of the newest live row sharing the same
	// normalized key is carried onto the new row.
	LogSearch(ctx context.Context, userId uuid.UUID, req *dto.LogSearchRequest) (*dto.SearchHistoryDTO, error)

	// ListSearchHistory returns the newest row per distinct normalized key,
	// newest first.
	ListSearchHistory(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.SearchHistoryListResponse, error)

	UpdateSearchLabel(ctx context.Context, userId, historyId uuid.UUID, req *dto.UpdateSearchLabelRequest) (*dto.SearchHistoryDTO, error)
	DeleteSearch(ctx context.Context, userId, historyId uuid.UUID) error

	// ClearSearchHistory soft-deletes every live history row of the user
	// and reports how many rows it touched.
	ClearSearchHistory(ctx context.Context, userId uuid.UUID) (int64, error)

	LogEvent(ctx context.Context, userId uuid.UUID, req *dto.LogEventRequest) (*dto.UserEventDTO, error)
	ListEvents(ctx context.Context, userId uuid.UUID, eventType string, limit, offset int) (*dto.UserEventListResponse, error)

	AddFavorite(ctx context.Context, userId uuid.UUID, req *dto.AddFavoriteRequest) (*dto.FavoriteDTO, error)
	RemoveFavorite(ctx context.Context, userId uuid.UUID, productId string) error
	ListFavorites(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.FavoriteListResponse, error)
	IsFavorite(ctx context.Context, userId uuid.UUID, productId string) (bool, error)
}

type activityService struct {
	uowFactory     unitofwork.RepositoryFactory
	products       productdata.Provider
	eventPublisher events.Publisher
	log            logger.ILogger
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, products productdata.Provider, eventPublisher events.Publisher, log logger.ILogger) IActivityService {
	return &activityService{
		uowFactory:     uowFactory,
		products:       products,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// normalizeQuery derives the grouping key for a raw search query:
// lowercased, inner whitespace collapsed to single spaces, trimmed, and
// capped at 512 characters. "Red Shoes" and "red   SHOES" share one key.
// The cap counts runes, not bytes, so multibyte queries are never cut
// mid-character.
func normalizeQuery(query string) string {
	key := strings.ToLower(strings.TrimSpace(query))
	key = strings.Join(strings.Fields(key), " ")
	if utf8.RuneCountInString(key) > maxQueryKeyLen {
		runes := []rune(key)
		key = string(runes[:maxQueryKeyLen])
	}
	return key
}

func clampPage(limit, offset, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *activityService) SearchProducts(ctx context.Context, userId uuid.UUID, query string, page int) (*dto.ProductSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrValidation
	}
	if page < 1 {
		page = 1
	}

	result, err := s.products.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	// The ledger entry is best effort; a failed write must not cost the
	// user their results.
	if _, err := s.LogSearch(ctx, userId, &dto.LogSearchRequest{
		Query:        query,
		Platform:     "amazon",
		ResultsCount: result.TotalResults,
	}); err != nil {
		s.log.Warn("activity", "failed to log product search", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}

	return &dto.ProductSearchResponse{
		Query:        result.Query,
		Page:         result.Page,
		TotalResults: result.TotalResults,
		Products:     result.Products,
	}, nil
}

func (s *activityService) LogSearch(ctx context.Context, userId uuid.UUID, req *dto.LogSearchRequest) (*dto.SearchHistoryDTO, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrValidation
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	key := normalizeQuery(req.Query)

	// Label carry-forward: the newest live labeled row with the same key
	// donates its label to the new row.
	var inherited *string
	labeled, err := uow.SearchHistoryRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByQueryKey{Key: key},
		specification.HasLabel{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if labeled != nil {
		inherited = labeled.CustomLabel
	}

	record := &entity.SearchHistory{
		Id:           uuid.New(),
		UserId:       userId,
		SearchQuery:  req.Query,
		QueryKey:     key,
		Platform:     req.Platform,
		ResultsCount: req.ResultsCount,
		CustomLabel:  inherited,
		CreatedAt:    time.Now(),
	}
	if err := uow.SearchHistoryRepository().Create(ctx, record); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeSearchLogged, map[string]interface{}{
		"user_id":   userId,
		"query_key": key,
		"platform":  req.Platform,
	})

	return toSearchHistoryDTO(record), nil
}

func (s *activityService) ListSearchHistory(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.SearchHistoryListResponse, error) {
	limit, offset = clampPage(limit, offset, maxHistoryPage)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, total, err := uow.SearchHistoryRepository().ListLatestPerKey(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SearchHistoryDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toSearchHistoryDTO(record))
	}
	return &dto.SearchHistoryListResponse{Items: items, Total: total}, nil
}

func (s *activityService) UpdateSearchLabel(ctx context.Context, userId, historyId uuid.UUID, req *dto.UpdateSearchLabelRequest) (*dto.SearchHistoryDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.SearchHistoryRepository().FindOne(ctx,
		specification.ByID{ID: historyId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}

	record.CustomLabel = req.CustomLabel
	if err := uow.SearchHistoryRepository().Update(ctx, record); err != nil {
		return nil, err
	}
	return toSearchHistoryDTO(record), nil
}

func (s *activityService) DeleteSearch(ctx context.Context, userId, historyId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.SearchHistoryRepository().FindOne(ctx,
		specification.ByID{ID: historyId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrNotFound
	}
	return uow.SearchHistoryRepository().Delete(ctx, record.Id)
}

func (s *activityService) ClearSearchHistory(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SearchHistoryRepository().DeleteAllByUserId(ctx, userId)
}

func (s *activityService) LogEvent(ctx context.Context, userId uuid.UUID, req *dto.LogEventRequest) (*dto.UserEventDTO, error) {
	if strings.TrimSpace(req.EventType) == "" {
		return nil, ErrValidation
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	event := &entity.UserEvent{
		Id:        uuid.New(),
		UserId:    userId,
		EventType: req.EventType,
		EventData: req.EventData,
		CreatedAt: time.Now(),
	}
	if err := uow.UserEventRepository().Create(ctx, event); err != nil {
		return nil, err
	}
	return toUserEventDTO(event), nil
}

func (s *activityService) ListEvents(ctx context.Context, userId uuid.UUID, eventType string, limit, offset int) (*dto.UserEventListResponse, error) {
	limit, offset = clampPage(limit, offset, maxHistoryPage)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.ByUserID{UserID: userId},
	}
	if eventType != "" {
		specs = append(specs, specification.ByEventType{EventType: eventType})
	}

	total, err := uow.UserEventRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	records, err := uow.UserEventRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.UserEventDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toUserEventDTO(record))
	}
	return &dto.UserEventListResponse{Items: items, Total: total}, nil
}

func (s *activityService) AddFavorite(ctx context.Context, userId uuid.UUID, req *dto.AddFavoriteRequest) (*dto.FavoriteDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.FavoriteRepository().FindOneAny(ctx, userId, req.ProductId)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.IsDeleted {
			if err := uow.FavoriteRepository().Restore(ctx, existing.Id); err != nil {
				return nil, err
			}
			existing.IsDeleted = false
			existing.DeletedAt = nil
		}
		if req.UserNotes != nil {
			existing.UserNotes = req.UserNotes
			if err := uow.FavoriteRepository().Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return toFavoriteDTO(existing), nil
	}

	favorite := &entity.UserFavorite{
		Id:        uuid.New(),
		UserId:    userId,
		ProductId: req.ProductId,
		UserNotes: req.UserNotes,
		CreatedAt: time.Now(),
	}
	if err := uow.FavoriteRepository().Create(ctx, favorite); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeFavoriteAdded, map[string]interface{}{
		"user_id":    userId,
		"product_id": req.ProductId,
	})

	return toFavoriteDTO(favorite), nil
}

func (s *activityService) RemoveFavorite(ctx context.Context, userId uuid.UUID, productId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	favorite, err := uow.FavoriteRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByProductID{ProductID: productId},
	)
	if err != nil {
		return err
	}
	if favorite == nil {
		return ErrNotFound
	}

	if err := uow.FavoriteRepository().Delete(ctx, favorite.Id); err != nil {
		return err
	}

	s.publish(ctx, events.TypeFavoriteRemoved, map[string]interface{}{
		"user_id":    userId,
		"product_id": productId,
	})
	return nil
}

func (s *activityService) ListFavorites(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.FavoriteListResponse, error) {
	limit, offset = clampPage(limit, offset, maxHistoryPage)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.FavoriteRepository().Count(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}

	records, err := uow.FavoriteRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.FavoriteDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toFavoriteDTO(record))
	}
	return &dto.FavoriteListResponse{Items: items, Total: total}, nil
}

func (s *activityService) IsFavorite(ctx context.Context, userId uuid.UUID, productId string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	favorite, err := uow.FavoriteRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByProductID{ProductID: productId},
	)
	if err != nil {
		return false, err
	}
	return favorite != nil, nil
}

func (s *activityService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("activity", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toSearchHistoryDTO(record *entity.SearchHistory) *dto.SearchHistoryDTO {
	return &dto.SearchHistoryDTO{
		Id:           record.Id,
		SearchQuery:  record.SearchQuery,
		QueryKey:     record.QueryKey,
		Platform:     record.Platform,
		ResultsCount: record.ResultsCount,
		CustomLabel:  record.CustomLabel,
		CreatedAt:    record.CreatedAt,
	}
}

func toUserEventDTO(event *entity.UserEvent) *dto.UserEventDTO {
	return &dto.UserEventDTO{
		Id:        event.Id,
		EventType: event.EventType,
		EventData: event.EventData,
		CreatedAt: event.CreatedAt,
	}
}

func toFavoriteDTO(favorite *entity.UserFavorite) *dto.FavoriteDTO {
	return &dto.FavoriteDTO{
		Id:        favorite.Id,
		ProductId: favorite.ProductId,
		UserNotes: favorite.UserNotes,
		CreatedAt: favorite.CreatedAt,
	}
}
