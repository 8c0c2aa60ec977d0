package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/entity"
	"shopquery-be/internal/pkg/logger"
	"shopquery-be/internal/repository/specification"
	"shopquery-be/internal/repository/unitofwork"
	"shopquery-be/pkg/comparator"
	"shopquery-be/pkg/events"
	"shopquery-be/pkg/productdata"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxChatPage = 200

	// comparatorTimeout bounds the synchronous AI call inside a chat turn.
	comparatorTimeout = 60 * time.Second
)

type IComparisonService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateComparisonRequest) (*dto.ComparisonSessionDTO, error)
	List(ctx context.Context, userId uuid.UUID, limit, offset, minMessages int) (*dto.ComparisonSessionListResponse, error)
	Get(ctx context.Context, userId, comparisonId uuid.UUID) (*dto.ComparisonSessionDTO, error)

	ListProducts(ctx context.Context, userId, comparisonId uuid.UUID) ([]*dto.ComparisonProductDTO, error)

	// AttachProduct adds a product to the session. Attaching a product that
	// is already attached is a no-op; a previously detached pairing is
	// resurrected with a fresh attach instant.
	AttachProduct(ctx context.Context, userId, comparisonId uuid.UUID, req *dto.AttachProductRequest) error

	// DetachProduct removes a live pairing. Detaching a product that is not
	// attached yields ErrNotFound.
	DetachProduct(ctx context.Context, userId, comparisonId uuid.UUID, productId string) error

	ListMessages(ctx context.Context, userId, comparisonId uuid.UUID, limit, offset int) (*dto.ChatMessageListResponse, error)
	AppendMessage(ctx context.Context, userId, comparisonId uuid.UUID, req *dto.AppendMessageRequest) (*dto.ChatMessageDTO, error)

	// CloseAll soft-deletes every live session of the user together with its
	// attachments and messages. Each session closes atomically; the count of
	// closed sessions is returned.
	CloseAll(ctx context.Context, userId uuid.UUID) (int64, error)

	// Chat runs one full chat turn: persist the user question, enrich the
	// attached products, ask the comparator, persist the answer. If the
	// comparator fails the question stays persisted and ErrUpstream is
	// returned.
	Chat(ctx context.Context, userId, comparisonId uuid.UUID, req *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error)
}

type comparisonService struct {
	uowFactory     unitofwork.RepositoryFactory
	products       productdata.Provider
	analyzer       *comparator.Comparator
	eventPublisher events.Publisher
	log            logger.ILogger
}

func NewComparisonService(
	uowFactory unitofwork.RepositoryFactory,
	products productdata.Provider,
	analyzer *comparator.Comparator,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IComparisonService {
	return &comparisonService{
		uowFactory:     uowFactory,
		products:       products,
		analyzer:       analyzer,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *comparisonService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateComparisonRequest) (*dto.ComparisonSessionDTO, error) {
	if len(req.ProductIds) == 0 {
		return nil, fmt.Errorf("%w: at least one product id required", ErrValidation)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := &entity.ComparisonSession{
		Id:                  uuid.New(),
		UserId:              userId,
		SessionName:         req.SessionName,
		OriginalSearchQuery: req.OriginalSearchQuery,
		CreatedAt:           time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ComparisonSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.ProductIds))
	for _, productId := range req.ProductIds {
		if productId == "" || seen[productId] {
			continue
		}
		seen[productId] = true

		pairing := &entity.ComparisonProduct{
			ComparisonId: session.Id,
			ProductId:    productId,
			AddedAt:      time.Now(),
		}
		if err := uow.ComparisonProductRepository().Create(ctx, pairing); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// FK prerequisite rows outside the transaction; a missing snapshot must
	// not fail session creation.
	for productId := range seen {
		s.ensureProduct(ctx, productId)
	}

	s.publish(ctx, events.TypeComparisonCreated, map[string]interface{}{
		"user_id":       userId,
		"comparison_id": session.Id,
		"product_count": len(seen),
	})

	return toComparisonSessionDTO(session), nil
}

func (s *comparisonService) List(ctx context.Context, userId uuid.UUID, limit, offset, minMessages int) (*dto.ComparisonSessionListResponse, error) {
	limit, offset = clampPage(limit, offset, maxHistoryPage)
	if minMessages < 0 {
		minMessages = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, total, err := uow.ComparisonSessionRepository().ListByActivity(ctx, userId, limit, offset, minMessages)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ComparisonSessionDTO, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, toComparisonSessionDTO(session))
	}
	return &dto.ComparisonSessionListResponse{Items: items, Total: total}, nil
}

func (s *comparisonService) Get(ctx context.Context, userId, comparisonId uuid.UUID) (*dto.ComparisonSessionDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, comparisonId)
	if err != nil {
		return nil, err
	}
	return toComparisonSessionDTO(session), nil
}

func (s *comparisonService) ListProducts(ctx context.Context, userId, comparisonId uuid.UUID) ([]*dto.ComparisonProductDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, comparisonId); err != nil {
		return nil, err
	}

	pairings, err := uow.ComparisonProductRepository().FindAll(ctx,
		specification.ByComparisonID{ComparisonID: comparisonId},
		specification.OrderBy{Field: "added_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ComparisonProductDTO, 0, len(pairings))
	for _, pairing := range pairings {
		items = append(items, &dto.ComparisonProductDTO{
			ProductId: pairing.ProductId,
			AddedAt:   pairing.AddedAt,
		})
	}
	return items, nil
}

func (s *comparisonService) AttachProduct(ctx context.Context, userId, comparisonId uuid.UUID, req *dto.AttachProductRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, comparisonId); err != nil {
		return err
	}

	existing, err := uow.ComparisonProductRepository().FindOneAny(ctx, comparisonId, req.ProductId)
	if err != nil {
		return err
	}

	switch {
	case existing == nil:
		pairing := &entity.ComparisonProduct{
			ComparisonId: comparisonId,
			ProductId:    req.ProductId,
			AddedAt:      time.Now(),
		}
		if err := uow.ComparisonProductRepository().Create(ctx, pairing); err != nil {
			// A concurrent attach of the same pair won the insert. The pair
			// is attached either way.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				break
			}
			return err
		}
	case existing.IsDeleted:
		if err := uow.ComparisonProductRepository().Restore(ctx, comparisonId, req.ProductId); err != nil {
			return err
		}
	default:
		// Already attached, nothing to do.
		return nil
	}

	s.ensureProduct(ctx, req.ProductId)

	if err := uow.ComparisonSessionRepository().Touch(ctx, comparisonId); err != nil {
		return err
	}
	return nil
}

func (s *comparisonService) DetachProduct(ctx context.Context, userId, comparisonId uuid.UUID, productId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, comparisonId); err != nil {
		return err
	}

	removed, err := uow.ComparisonProductRepository().Delete(ctx, comparisonId, productId)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	return uow.ComparisonSessionRepository().Touch(ctx, comparisonId)
}

func (s *comparisonService) ListMessages(ctx context.Context, userId, comparisonId uuid.UUID, limit, offset int) (*dto.ChatMessageListResponse, error) {
	limit, offset = clampPage(limit, offset, maxChatPage)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, comparisonId); err != nil {
		return nil, err
	}

	total, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByComparisonID{ComparisonID: comparisonId},
	)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByComparisonID{ComparisonID: comparisonId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ChatMessageDTO, 0, len(messages))
	for _, message := range messages {
		items = append(items, toChatMessageDTO(message))
	}
	return &dto.ChatMessageListResponse{Items: items, Total: total}, nil
}

func (s *comparisonService) AppendMessage(ctx context.Context, userId, comparisonId uuid.UUID, req *dto.AppendMessageRequest) (*dto.ChatMessageDTO, error) {
	if req.MessageType != entity.ChatMessageTypeUser && req.MessageType != entity.ChatMessageTypeAi {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrValidation, req.MessageType)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.ownedSession(ctx, uow, userId, comparisonId); err != nil {
		return nil, err
	}

	message, err := s.appendMessage(ctx, uow, userId, comparisonId, req.MessageType, req.MessageContent, req.AiMetadata)
	if err != nil {
		return nil, err
	}

	if err := uow.ComparisonSessionRepository().Touch(ctx, comparisonId); err != nil {
		return nil, err
	}
	return toChatMessageDTO(message), nil
}

func (s *comparisonService) CloseAll(ctx context.Context, userId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ComparisonSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return 0, err
	}

	var closed int64
	for _, session := range sessions {
		if err := s.closeOne(ctx, session.Id); err != nil {
			return closed, err
		}
		closed++
	}

	if closed > 0 {
		s.publish(ctx, events.TypeComparisonClosed, map[string]interface{}{
			"user_id": userId,
			"closed":  closed,
		})
	}
	return closed, nil
}

// closeOne tears down one session, its attachments and its messages in a
// single transaction.
func (s *comparisonService) closeOne(ctx context.Context, comparisonId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ComparisonSessionRepository().Delete(ctx, comparisonId); err != nil {
		return err
	}
	if err := uow.ComparisonProductRepository().DeleteAllBySession(ctx, comparisonId); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteAllBySession(ctx, comparisonId); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *comparisonService) Chat(ctx context.Context, userId, comparisonId uuid.UUID, req *dto.ChatTurnRequest) (*dto.ChatTurnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := s.ownedSession(ctx, uow, userId, comparisonId)
	if err != nil {
		return nil, err
	}

	// The question is persisted before anything can fail downstream, so a
	// comparator outage never loses user input.
	if _, err := s.appendMessage(ctx, uow, userId, comparisonId, entity.ChatMessageTypeUser, req.Question, nil); err != nil {
		return nil, err
	}

	pairings, err := uow.ComparisonProductRepository().FindAll(ctx,
		specification.ByComparisonID{ComparisonID: comparisonId},
	)
	if err != nil {
		return nil, err
	}

	contexts := s.enrichProducts(ctx, pairings)

	searchQuery := ""
	if session.OriginalSearchQuery != nil {
		searchQuery = *session.OriginalSearchQuery
	}

	callCtx, cancel := context.WithTimeout(ctx, comparatorTimeout)
	defer cancel()

	answer, err := s.analyzer.Analyze(callCtx, contexts, req.Question, searchQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	metadata := map[string]interface{}{
		"products_analyzed": len(contexts),
	}
	if _, err := s.appendMessage(ctx, uow, userId, comparisonId, entity.ChatMessageTypeAi, answer, metadata); err != nil {
		return nil, err
	}

	if err := uow.ComparisonSessionRepository().Touch(ctx, comparisonId); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TypeChatTurn, map[string]interface{}{
		"user_id":       userId,
		"comparison_id": comparisonId,
	})

	return &dto.ChatTurnResponse{
		Answer:           answer,
		ProductsAnalyzed: len(contexts),
	}, nil
}

// ownedSession loads a live session and checks ownership. Absent and
// foreign sessions are indistinguishable to the caller.
func (s *comparisonService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, comparisonId uuid.UUID) (*entity.ComparisonSession, error) {
	session, err := uow.ComparisonSessionRepository().FindOne(ctx,
		specification.ByID{ID: comparisonId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}

// appendMessage persists a chat message whose creation instant never moves
// backwards relative to the messages already in the session.
func (s *comparisonService) appendMessage(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId, comparisonId uuid.UUID,
	messageType, content string,
	metadata map[string]interface{},
) (*entity.ChatMessage, error) {
	createdAt := time.Now()

	newest, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByComparisonID{ComparisonID: comparisonId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	)
	if err != nil {
		return nil, err
	}
	if len(newest) > 0 && createdAt.Before(newest[0].CreatedAt) {
		createdAt = newest[0].CreatedAt
	}

	message := &entity.ChatMessage{
		Id:             uuid.New(),
		ComparisonId:   comparisonId,
		UserId:         userId,
		MessageType:    messageType,
		MessageContent: content,
		AiMetadata:     metadata,
		CreatedAt:      createdAt,
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// enrichProducts fetches a snapshot and recent reviews for every live
// pairing. Enrichment is best-effort per product; a product the provider
// cannot resolve is simply left out of the analysis context.
func (s *comparisonService) enrichProducts(ctx context.Context, pairings []*entity.ComparisonProduct) []comparator.ProductContext {
	contexts := make([]comparator.ProductContext, 0, len(pairings))

	for _, pairing := range pairings {
		snapshot, err := s.products.GetProductSnapshot(ctx, pairing.ProductId)
		if err != nil {
			s.log.Warn("comparison", "failed to fetch product snapshot", map[string]interface{}{
				"product_id": pairing.ProductId,
				"error":      err.Error(),
			})
			continue
		}

		pc := comparator.ProductContext{Snapshot: *snapshot}
		if snapshot.Url != "" {
			if reviews, err := s.products.GetProductReviews(ctx, snapshot.Url, 1); err == nil {
				pc.Reviews = reviews.Reviews
			}
		}
		contexts = append(contexts, pc)
	}
	return contexts
}

// ensureProduct writes the minimal products row a pairing FK needs, plus
// append-only price and rating snapshot rows. All of it is best-effort.
func (s *comparisonService) ensureProduct(ctx context.Context, productId string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ProductRepository().FindById(ctx, productId)
	if err != nil {
		s.log.Warn("comparison", "product lookup failed", map[string]interface{}{
			"product_id": productId,
			"error":      err.Error(),
		})
		return
	}

	snapshot, err := s.products.GetProductSnapshot(ctx, productId)
	if err != nil {
		if existing == nil {
			// Still write a stub row so the FK holds.
			stub := &entity.Product{
				ProductId:    productId,
				PlatformName: "amazon",
				ProductName:  productId,
				CreatedAt:    time.Now(),
			}
			if err := uow.ProductRepository().Create(ctx, stub); err != nil {
				s.log.Warn("comparison", "product stub insert failed", map[string]interface{}{
					"product_id": productId,
					"error":      err.Error(),
				})
			}
		}
		return
	}

	product := &entity.Product{
		ProductId:    productId,
		PlatformName: "amazon",
		ProductName:  snapshot.Name,
		CreatedAt:    time.Now(),
	}
	if snapshot.Description != "" {
		product.ProductDescription = &snapshot.Description
	}
	if snapshot.Url != "" {
		product.ProductURL = &snapshot.Url
	}
	if snapshot.ImageUrl != "" {
		product.ImageURL = &snapshot.ImageUrl
	}

	if existing == nil {
		err = uow.ProductRepository().Create(ctx, product)
	} else {
		product.CreatedAt = existing.CreatedAt
		err = uow.ProductRepository().Update(ctx, product)
	}
	if err != nil {
		s.log.Warn("comparison", "product upsert failed", map[string]interface{}{
			"product_id": productId,
			"error":      err.Error(),
		})
		return
	}

	price := snapshot.Price
	if err := uow.ProductRepository().CreatePrice(ctx, &entity.ProductPrice{
		ProductId:    productId,
		CurrentPrice: &price,
		CurrencyCode: snapshot.Currency,
		IsInStock:    true,
		RecordedAt:   time.Now(),
	}); err != nil {
		s.log.Warn("comparison", "price snapshot insert failed", map[string]interface{}{
			"product_id": productId,
			"error":      err.Error(),
		})
	}

	rating := snapshot.Rating
	reviewCount := snapshot.ReviewCount
	if err := uow.ProductRepository().CreateRating(ctx, &entity.ProductRating{
		ProductId:        productId,
		AverageRating:    &rating,
		TotalReviewCount: &reviewCount,
		RecordedAt:       time.Now(),
	}); err != nil {
		s.log.Warn("comparison", "rating snapshot insert failed", map[string]interface{}{
			"product_id": productId,
			"error":      err.Error(),
		})
	}
}

func (s *comparisonService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("comparison", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toComparisonSessionDTO(session *entity.ComparisonSession) *dto.ComparisonSessionDTO {
	return &dto.ComparisonSessionDTO{
		Id:                  session.Id,
		SessionName:         session.SessionName,
		OriginalSearchQuery: session.OriginalSearchQuery,
		CreatedAt:           session.CreatedAt,
		UpdatedAt:           session.UpdatedAt,
	}
}

func toChatMessageDTO(message *entity.ChatMessage) *dto.ChatMessageDTO {
	return &dto.ChatMessageDTO{
		Id:             message.Id,
		MessageType:    message.MessageType,
		MessageContent: message.MessageContent,
		AiMetadata:     message.AiMetadata,
		CreatedAt:      message.CreatedAt,
	}
}
