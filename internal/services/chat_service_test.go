package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"crmhub/internal/chat"
	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestChatService(geminiSvc GeminiService) (ChatService, *chat.SessionStore) {
	store := chat.NewSessionStore()
	svc := NewChatService(store, geminiSvc, new(MockCustomerRepository), new(MockInvoiceRepository), new(MockPaymentRepository), new(MockSubscriptionRepository))
	return svc, store
}

func TestChatCreateSession_UnknownCustomer(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	svc := NewChatService(chat.NewSessionStore(), new(MockGeminiService), customerRepo, new(MockInvoiceRepository), new(MockPaymentRepository), new(MockSubscriptionRepository))

	customerID := uuid.New()
	customerRepo.On("GetByID", mock.Anything, customerID).Return(nil, errors.New("no rows"))

	_, err := svc.CreateSession(context.Background(), &customerID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestChatSendMessage_UsesAIReply(t *testing.T) {
	geminiSvc := new(MockGeminiService)
	svc, _ := newTestChatService(geminiSvc)

	session, err := svc.CreateSession(context.Background(), nil)
	require.NoError(t, err)

	geminiSvc.On("GenerateContent", mock.Anything, mock.Anything).Return("Your invoice is due next week.", nil)

	reply, suggestions, err := svc.SendMessage(context.Background(), session.ID, "When is my invoice due?")
	require.NoError(t, err)
	assert.Equal(t, "Your invoice is due next week.", reply)
	assert.Len(t, suggestions, 3)
}

func TestChatSendMessage_FallbackOnAIFailure(t *testing.T) {
	geminiSvc := new(MockGeminiService)
	svc, _ := newTestChatService(geminiSvc)

	session, err := svc.CreateSession(context.Background(), nil)
	require.NoError(t, err)

	geminiSvc.On("GenerateContent", mock.Anything, mock.Anything).Return("", errors.New("api unavailable"))

	reply, suggestions, err := svc.SendMessage(context.Background(), session.ID, "I have a question about my invoice")
	require.NoError(t, err)
	assert.Contains(t, reply, "invoices")
	assert.Len(t, suggestions, 3)
}

func TestChatSendMessage_AppendsHistory(t *testing.T) {
	geminiSvc := new(MockGeminiService)
	svc, _ := newTestChatService(geminiSvc)

	session, err := svc.CreateSession(context.Background(), nil)
	require.NoError(t, err)

	geminiSvc.On("GenerateContent", mock.Anything, mock.Anything).Return("Hi there!", nil)

	_, _, err = svc.SendMessage(context.Background(), session.ID, "hello")
	require.NoError(t, err)

	stored, err := svc.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 2)
	assert.Equal(t, chat.SenderUser, stored.Messages[0].Sender)
	assert.Equal(t, "hello", stored.Messages[0].Message)
	assert.Equal(t, chat.SenderBot, stored.Messages[1].Sender)
}

func TestChatSendMessage_UnknownSession(t *testing.T) {
	svc, _ := newTestChatService(new(MockGeminiService))

	_, _, err := svc.SendMessage(context.Background(), uuid.New(), "hello")
	assert.ErrorIs(t, err, chat.ErrSessionNotFound)
}

func TestChatSendMessage_PromptCarriesCustomerContext(t *testing.T) {
	geminiSvc := new(MockGeminiService)
	customerRepo := new(MockCustomerRepository)
	invoiceRepo := new(MockInvoiceRepository)
	paymentRepo := new(MockPaymentRepository)
	subscriptionRepo := new(MockSubscriptionRepository)
	svc := NewChatService(chat.NewSessionStore(), geminiSvc, customerRepo, invoiceRepo, paymentRepo, subscriptionRepo)

	customerID := uuid.New()
	customerRepo.On("GetByID", mock.Anything, customerID).Return(&models.Customer{
		ID:    customerID,
		Name:  "Acme Industries",
		Email: "billing@acme.example",
	}, nil)
	invoiceRepo.On("ListByCustomer", mock.Anything, customerID).Return([]*models.Invoice{}, nil)
	paymentRepo.On("ListByInvoices", mock.Anything, mock.Anything).Return([]*models.Payment{}, nil)
	subscriptionRepo.On("ListByCustomer", mock.Anything, customerID).Return([]*models.Subscription{}, nil)

	session, err := svc.CreateSession(context.Background(), &customerID)
	require.NoError(t, err)

	var prompt string
	geminiSvc.On("GenerateContent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { prompt = args.String(1) }).
		Return("ok", nil)

	_, _, err = svc.SendMessage(context.Background(), session.ID, "What do I owe?")
	require.NoError(t, err)

	assert.True(t, strings.Contains(prompt, "Customer Context:"))
	assert.True(t, strings.Contains(prompt, "Acme Industries"))
	assert.True(t, strings.Contains(prompt, "What do I owe?"))
}

func TestGenerateSuggestions_KeywordFirst(t *testing.T) {
	suggestions := generateSuggestions("a question about my invoice")
	require.Len(t, suggestions, 3)
	assert.Equal(t, "Check invoice status", suggestions[0])
	assert.Equal(t, "View invoice history", suggestions[1])
}

func TestGenerateSuggestions_GenericFallback(t *testing.T) {
	suggestions := generateSuggestions("completely unrelated")
	require.Len(t, suggestions, 3)
	assert.Equal(t, "How do I create a new invoice?", suggestions[0])
}

func TestFallbackReply_Keywords(t *testing.T) {
	assert.Contains(t, fallbackReply("hello there"), "Hello!")
	assert.Contains(t, fallbackReply("my payment failed"), "payments")
	assert.Contains(t, fallbackReply("change my subscription"), "subscriptions and billing")
	assert.Contains(t, fallbackReply("how do I contact you"), "support@company.com")
	assert.Contains(t, fallbackReply("zzz no keyword present zzz"), "technical difficulties")
}
