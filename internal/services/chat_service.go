package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"

	"crmhub/internal/chat"
	"crmhub/internal/repositories"
)

const chatSystemInstructions = `You are an AI assistant for a CRM (Customer Relationship Management) system.
You help customers with inquiries about their accounts, invoices, payments, and subscriptions.

When responding:
1. Be professional and helpful
2. If you don't have specific information, acknowledge that and suggest contacting support
3. Never share sensitive information like passwords or payment details
4. If asked about topics outside your knowledge, politely explain your limitations
5. Use the provided context to give accurate, personalized responses`

// ChatService drives the chatbot: session bookkeeping, customer context
// gathering, the AI call, and the rule-based fallback.
type ChatService interface {
	CreateSession(ctx context.Context, customerID *uuid.UUID) (*chat.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*chat.Session, error)
	ListSessions(ctx context.Context, limit, offset int) []*chat.Session
	DeleteSession(ctx context.Context, id uuid.UUID) error
	SendMessage(ctx context.Context, sessionID uuid.UUID, message string) (string, []string, error)
}

type chatService struct {
	store            *chat.SessionStore
	geminiSvc        GeminiService
	customerRepo     repositories.CustomerRepository
	invoiceRepo      repositories.InvoiceRepository
	paymentRepo      repositories.PaymentRepository
	subscriptionRepo repositories.SubscriptionRepository
}

func NewChatService(store *chat.SessionStore, geminiSvc GeminiService, customerRepo repositories.CustomerRepository, invoiceRepo repositories.InvoiceRepository, paymentRepo repositories.PaymentRepository, subscriptionRepo repositories.SubscriptionRepository) ChatService {
	return &chatService{
		store:            store,
		geminiSvc:        geminiSvc,
		customerRepo:     customerRepo,
		invoiceRepo:      invoiceRepo,
		paymentRepo:      paymentRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *chatService) CreateSession(ctx context.Context, customerID *uuid.UUID) (*chat.Session, error) {
	if customerID != nil {
		if _, err := s.customerRepo.GetByID(ctx, *customerID); err != nil {
			return nil, ErrCustomerNotFound
		}
	}
	return s.store.Create(customerID), nil
}

func (s *chatService) GetSession(ctx context.Context, id uuid.UUID) (*chat.Session, error) {
	return s.store.Get(id)
}

func (s *chatService) ListSessions(ctx context.Context, limit, offset int) []*chat.Session {
	return s.store.List(limit, offset)
}

func (s *chatService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

// SendMessage appends the user message, produces a reply (AI first, canned
// fallback on any failure), appends the reply, and returns it with up to
// three suggested follow-ups.
func (s *chatService) SendMessage(ctx context.Context, sessionID uuid.UUID, message string) (string, []string, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return "", nil, err
	}

	if err := s.store.Append(sessionID, chat.Message{Message: message, Sender: chat.SenderUser}); err != nil {
		return "", nil, err
	}

	reply := s.generateReply(ctx, message, session.CustomerID)

	if err := s.store.Append(sessionID, chat.Message{Message: reply, Sender: chat.SenderBot}); err != nil {
		return "", nil, err
	}

	return reply, generateSuggestions(message), nil
}

func (s *chatService) generateReply(ctx context.Context, message string, customerID *uuid.UUID) string {
	prompt := s.buildPrompt(ctx, message, customerID)

	reply, err := s.geminiSvc.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("AI completion failed, using fallback responder: %v", err)
		return fallbackReply(message)
	}
	return reply
}

func (s *chatService) buildPrompt(ctx context.Context, message string, customerID *uuid.UUID) string {
	parts := []string{chatSystemInstructions}

	if customerID != nil {
		if blob := s.customerContext(ctx, *customerID); blob != "" {
			parts = append(parts, "Customer Context: "+blob)
		}
	}

	parts = append(parts, "User Message: "+message)
	return strings.Join(parts, "\n\n")
}

// customerContext assembles the customer's billing state into a JSON blob.
// Failures here degrade the prompt, never the request.
func (s *chatService) customerContext(ctx context.Context, customerID uuid.UUID) string {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		log.Printf("Failed to load customer %s for chat context: %v", customerID, err)
		return ""
	}

	context := map[string]interface{}{
		"customer": customer,
	}

	invoices, err := s.invoiceRepo.ListByCustomer(ctx, customerID)
	if err == nil {
		context["invoices"] = invoices

		invoiceIDs := make([]uuid.UUID, 0, len(invoices))
		for _, invoice := range invoices {
			invoiceIDs = append(invoiceIDs, invoice.ID)
		}
		if payments, err := s.paymentRepo.ListByInvoices(ctx, invoiceIDs); err == nil {
			context["payments"] = payments
		}
	}

	if subscriptions, err := s.subscriptionRepo.ListByCustomer(ctx, customerID); err == nil {
		context["subscriptions"] = subscriptions
	}

	blob, err := json.Marshal(context)
	if err != nil {
		return ""
	}
	return string(blob)
}

// fallbackReply is the keyword responder used whenever the AI service fails.
func fallbackReply(message string) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return "Hello! How can I help you today?"
	case strings.Contains(lower, "invoice"):
		return "I can help you with invoices. You can ask me to create a new invoice, check invoice status, or view payment history. What would you like to do?"
	case strings.Contains(lower, "payment"):
		return "Regarding payments, I can help you process payments, check payment status, or provide payment history. What do you need help with?"
	case strings.Contains(lower, "subscription") || strings.Contains(lower, "billing"):
		return "I can assist with subscriptions and billing. You can ask about your current subscription, upgrade or downgrade plans, or check billing history."
	case strings.Contains(lower, "contact"):
		return "If you need to contact support, you can reach us at support@company.com or call us at +1-800-123-4567. Our support hours are Monday-Friday, 9AM-5PM EST."
	case strings.Contains(lower, "thank"):
		return "You're welcome! Is there anything else I can help you with?"
	case strings.Contains(lower, "bye") || strings.Contains(lower, "goodbye"):
		return "Goodbye! Feel free to come back if you have any more questions."
	default:
		return "I'm currently experiencing technical difficulties with my AI capabilities. I'm an AI assistant for our CRM system. I can help with invoices, payments, subscriptions, and general customer support. Could you please provide more details about what you need help with?"
	}
}

// generateSuggestions derives up to three follow-up prompts from the latest
// user message. Keyword-specific prompts come first, padded with generic ones.
func generateSuggestions(message string) []string {
	lower := strings.ToLower(message)

	var suggestions []string
	switch {
	case strings.Contains(lower, "invoice"):
		suggestions = append(suggestions, "Check invoice status", "View invoice history")
	case strings.Contains(lower, "payment"):
		suggestions = append(suggestions, "Process a payment", "Check payment status")
	case strings.Contains(lower, "subscription"):
		suggestions = append(suggestions, "Upgrade my plan", "Cancel subscription")
	}

	generic := []string{
		"How do I create a new invoice?",
		"What's my current subscription plan?",
		"How can I process a payment?",
	}
	for _, g := range generic {
		if len(suggestions) >= 3 {
			break
		}
		suggestions = append(suggestions, g)
	}

	return suggestions[:3]
}
