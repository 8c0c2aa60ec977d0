package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/entity"
	"shopquery-be/internal/repository/specification"
	"shopquery-be/internal/repository/unitofwork"
	"shopquery-be/pkg/comparator"
	"shopquery-be/pkg/events"
)

type comparisonFixture struct {
	svc       IComparisonService
	db        *gorm.DB
	factory   unitofwork.RepositoryFactory
	publisher *capturePublisher
	llm       *fakeLLM
	products  *fakeProductProvider
}

func newComparisonFixture(t *testing.T) *comparisonFixture {
	t.Helper()
	db := newTestDB(t)
	factory := unitofwork.NewRepositoryFactory(db)
	publisher := &capturePublisher{}
	llmFake := &fakeLLM{answer: "canned analysis"}
	provider := &fakeProductProvider{}
	svc := NewComparisonService(factory, provider, comparator.NewComparator(llmFake), publisher, nopLogger{})
	return &comparisonFixture{
		svc:       svc,
		db:        db,
		factory:   factory,
		publisher: publisher,
		llm:       llmFake,
		products:  provider,
	}
}

func (f *comparisonFixture) create(t *testing.T, userId uuid.UUID, productIds ...string) *dto.ComparisonSessionDTO {
	t.Helper()
	session, err := f.svc.Create(context.Background(), userId, &dto.CreateComparisonRequest{
		ProductIds: productIds,
	})
	require.NoError(t, err)
	return session
}

func (f *comparisonFixture) physicalProductRows(t *testing.T, comparisonId uuid.UUID) int64 {
	t.Helper()
	var count int64
	err := f.db.Table("comparison_products").
		Where("comparison_id = ?", comparisonId).
		Unscoped().
		Count(&count).Error
	require.NoError(t, err)
	return count
}

func TestCreateComparisonDedupesProducts(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A", "B00B", "B00A")

	products, err := f.svc.ListProducts(ctx, userId, session.Id)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Contains(t, f.publisher.typesSeen(), events.TypeComparisonCreated)
}

func TestComparisonOwnershipScoping(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()

	session := f.create(t, uuid.New(), "B00A")

	_, err := f.svc.Get(ctx, uuid.New(), session.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ListProducts(ctx, uuid.New(), session.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachDetachKeepsSinglePhysicalRow(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A")

	require.NoError(t, f.svc.AttachProduct(ctx, userId, session.Id, &dto.AttachProductRequest{ProductId: "B00B"}))
	// Attaching twice is a no-op, not an error.
	require.NoError(t, f.svc.AttachProduct(ctx, userId, session.Id, &dto.AttachProductRequest{ProductId: "B00B"}))

	products, err := f.svc.ListProducts(ctx, userId, session.Id)
	require.NoError(t, err)
	require.Len(t, products, 2)
	firstAddedAt := products[1].AddedAt

	require.NoError(t, f.svc.DetachProduct(ctx, userId, session.Id, "B00B"))
	products, err = f.svc.ListProducts(ctx, userId, session.Id)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, f.svc.AttachProduct(ctx, userId, session.Id, &dto.AttachProductRequest{ProductId: "B00B"}))

	products, err = f.svc.ListProducts(ctx, userId, session.Id)
	require.NoError(t, err)
	require.Len(t, products, 2)

	// The detach/attach cycle resurrects the tombstone with a fresh added_at
	// instead of inserting a second row.
	assert.Equal(t, int64(2), f.physicalProductRows(t, session.Id))
	var reattached *dto.ComparisonProductDTO
	for _, p := range products {
		if p.ProductId == "B00B" {
			reattached = p
		}
	}
	require.NotNil(t, reattached)
	assert.True(t, reattached.AddedAt.After(firstAddedAt))
}

func TestDetachMissingProduct(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A")

	assert.ErrorIs(t, f.svc.DetachProduct(ctx, userId, session.Id, "B00X"), ErrNotFound)
}

func TestListComparisonsMinMessageFilter(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	active := f.create(t, userId, "B00A")
	f.create(t, userId, "B00B")

	_, err := f.svc.AppendMessage(ctx, userId, active.Id, &dto.AppendMessageRequest{
		MessageType:    entity.ChatMessageTypeUser,
		MessageContent: "which one lasts longer?",
	})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, userId, 20, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	withChat, err := f.svc.List(ctx, userId, 20, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, withChat.Total)
	require.Len(t, withChat.Items, 1)
	assert.Equal(t, active.Id, withChat.Items[0].Id)
}

func TestCloseAllCascades(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	first := f.create(t, userId, "B00A", "B00B")
	f.create(t, userId, "B00C")
	f.create(t, uuid.New(), "B00D")

	_, err := f.svc.AppendMessage(ctx, userId, first.Id, &dto.AppendMessageRequest{
		MessageType:    entity.ChatMessageTypeUser,
		MessageContent: "thoughts?",
	})
	require.NoError(t, err)

	closed, err := f.svc.CloseAll(ctx, userId)
	require.NoError(t, err)
	assert.EqualValues(t, 2, closed)

	_, err = f.svc.Get(ctx, userId, first.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := f.svc.List(ctx, userId, 20, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, list.Total)

	// Attachments and chat go down with the session.
	uow := f.factory.NewUnitOfWork(ctx)
	pairings, err := uow.ComparisonProductRepository().FindAll(ctx,
		specification.ByComparisonID{ComparisonID: first.Id},
	)
	require.NoError(t, err)
	assert.Empty(t, pairings)
	msgCount, err := uow.ChatMessageRepository().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, msgCount)
}

func TestChatTurnPersistsBothMessages(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A", "B00B")

	res, err := f.svc.Chat(ctx, userId, session.Id, &dto.ChatTurnRequest{
		Question: "which has better reviews?",
	})
	require.NoError(t, err)
	assert.Equal(t, "canned analysis", res.Answer)
	assert.Equal(t, 2, res.ProductsAnalyzed)

	messages, err := f.svc.ListMessages(ctx, userId, session.Id, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, messages.Total)
	assert.Equal(t, entity.ChatMessageTypeUser, messages.Items[0].MessageType)
	assert.Equal(t, "which has better reviews?", messages.Items[0].MessageContent)
	assert.Equal(t, entity.ChatMessageTypeAi, messages.Items[1].MessageType)
	assert.EqualValues(t, 2, messages.Items[1].AiMetadata["products_analyzed"])

	assert.Contains(t, f.llm.lastPrompt, "which has better reviews?")
	assert.Contains(t, f.publisher.typesSeen(), events.TypeChatTurn)
}

func TestChatTurnUpstreamFailureKeepsQuestion(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A")
	f.llm.fail = true

	_, err := f.svc.Chat(ctx, userId, session.Id, &dto.ChatTurnRequest{
		Question: "still there?",
	})
	assert.ErrorIs(t, err, ErrUpstream)

	messages, err := f.svc.ListMessages(ctx, userId, session.Id, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, messages.Total)
	assert.Equal(t, entity.ChatMessageTypeUser, messages.Items[0].MessageType)
	assert.Equal(t, "still there?", messages.Items[0].MessageContent)
}

func TestAppendMessageRejectsUnknownType(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A")

	_, err := f.svc.AppendMessage(ctx, userId, session.Id, &dto.AppendMessageRequest{
		MessageType:    "system",
		MessageContent: "nope",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAppendMessageOrderIsMonotonic(t *testing.T) {
	f := newComparisonFixture(t)
	ctx := context.Background()
	userId := uuid.New()

	session := f.create(t, userId, "B00A")

	// Seed a message stamped in the future, as if written by a node with a
	// skewed clock.
	future := time.Now().Add(1 * time.Hour)
	uow := f.factory.NewUnitOfWork(ctx)
	err := uow.ChatMessageRepository().Create(ctx, &entity.ChatMessage{
		Id:             uuid.New(),
		ComparisonId:   session.Id,
		UserId:         userId,
		MessageType:    entity.ChatMessageTypeUser,
		MessageContent: "from the future",
		CreatedAt:      future,
	})
	require.NoError(t, err)

	appended, err := f.svc.AppendMessage(ctx, userId, session.Id, &dto.AppendMessageRequest{
		MessageType:    entity.ChatMessageTypeAi,
		MessageContent: "reply",
	})
	require.NoError(t, err)
	assert.False(t, appended.CreatedAt.Before(future))

	messages, err := f.svc.ListMessages(ctx, userId, session.Id, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, messages.Total)
	assert.Equal(t, "reply", messages.Items[1].MessageContent)
}
