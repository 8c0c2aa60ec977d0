package service

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shopquery-be/internal/model"
	"shopquery-be/pkg/events"
	"shopquery-be/pkg/llm"
	"shopquery-be/pkg/productdata"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserSession{},
		&model.EmailVerificationToken{},
		&model.SearchHistory{},
		&model.UserEvent{},
		&model.UserFavorite{},
		&model.Product{},
		&model.ProductPrice{},
		&model.ProductRating{},
		&model.ComparisonSession{},
		&model.ComparisonProduct{},
		&model.ChatMessage{},
	))

	return db
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type nopMailer struct{}

func (nopMailer) SendOTP(toEmail, otp string) error { return nil }

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, event := range p.events {
		types = append(types, event.EventType())
	}
	return types
}

// fakeProductProvider resolves every product id into a synthetic snapshot.
type fakeProductProvider struct {
	failFor    map[string]bool
	failSearch bool
}

func (f *fakeProductProvider) Search(ctx context.Context, query string, page int) (*productdata.SearchResult, error) {
	if f.failSearch {
		return nil, context.DeadlineExceeded
	}
	return &productdata.SearchResult{
		Query:        query,
		Page:         page,
		TotalResults: 2,
		Products: []productdata.Snapshot{
			{Id: "B00A", Name: "Result A"},
			{Id: "B00B", Name: "Result B"},
		},
	}, nil
}

func (f *fakeProductProvider) GetProductSnapshot(ctx context.Context, productId string) (*productdata.Snapshot, error) {
	if f.failFor[productId] {
		return nil, context.DeadlineExceeded
	}
	return &productdata.Snapshot{
		Id:       productId,
		Name:     "Product " + productId,
		Brand:    "Acme",
		Price:    19.99,
		Currency: "USD",
		Rating:   4.2,
	}, nil
}

func (f *fakeProductProvider) GetProductReviews(ctx context.Context, productUrl string, page int) (*productdata.ReviewsResult, error) {
	return &productdata.ReviewsResult{ProductUrl: productUrl, Page: page}, nil
}

// fakeLLM answers every prompt with a canned string, or fails on demand.
type fakeLLM struct {
	fail       bool
	answer     string
	lastPrompt string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.lastPrompt = prompt
	if f.answer == "" {
		return "canned analysis", nil
	}
	return f.answer, nil
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) == 0 {
		return f.Generate(ctx, "", opts...)
	}
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}
