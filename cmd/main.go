package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"crmhub/internal/caching"
	"crmhub/internal/chat"
	"crmhub/internal/config"
	"crmhub/internal/handlers"
	"crmhub/internal/jobs/background"
	"crmhub/internal/middleware"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/services"
	"crmhub/pkg/database"
)

// CustomValidator adapts go-playground/validator to echo's Validator interface
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	documentSvc, err := services.NewMinioDocumentService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := documentSvc.EnsureBucketExists(context.Background(), cfg.InvoicePDFBucket); err != nil {
		log.Printf("Failed to ensure PDF bucket exists: %v", err)
	}

	mailSvc := services.NewSMTPMailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	geminiSvc := services.NewGeminiService(cfg.GeminiAPIKey)

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	customerRepo := repositories.NewCustomerRepo(pool)
	contactRepo := repositories.NewContactRepo(pool)
	leadRepo := repositories.NewLeadRepo(pool)
	opportunityRepo := repositories.NewOpportunityRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)

	// Services
	authSvc := services.NewAuthService(
		cacheSvc, userRepo, mailSvc, cfg.JWTSecret,
		time.Duration(cfg.AccessTokenExpireMin)*time.Minute,
		time.Duration(cfg.RefreshTokenExpireMin)*time.Minute,
	)
	customerSvc := services.NewCustomerService(customerRepo, cacheSvc)
	contactSvc := services.NewContactService(contactRepo, customerRepo)
	leadSvc := services.NewLeadService(leadRepo, customerRepo)
	opportunitySvc := services.NewOpportunityService(opportunityRepo, customerRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, customerRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, invoiceRepo)
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, customerRepo)
	chatSvc := services.NewChatService(chat.NewSessionStore(), geminiSvc, customerRepo, invoiceRepo, paymentRepo, subscriptionRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, userRepo)
	customerHandlers := handlers.NewCustomerHandlers(customerSvc)
	contactHandlers := handlers.NewContactHandlers(contactSvc)
	leadHandlers := handlers.NewLeadHandlers(leadSvc)
	opportunityHandlers := handlers.NewOpportunityHandlers(opportunitySvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, customerSvc, documentSvc, cfg.InvoicePDFBucket)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc)
	chatHandlers := handlers.NewChatHandlers(chatSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	authMiddleware := middleware.NewAuthMiddleware(authSvc, userRepo)

	// Background sweeps
	scheduler, err := background.NewJobScheduler(invoiceSvc, subscriptionSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.GET("/logout", authHandlers.Logout)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/send_token", authHandlers.SendToken)
	auth.POST("/password_reset", authHandlers.PasswordReset)
	auth.GET("/me", authHandlers.Me, authMiddleware.Authenticate())
	auth.PATCH("/:id", authHandlers.UpdatePassword, authMiddleware.Authenticate())
	auth.DELETE("/:id", authHandlers.DeleteUser, authMiddleware.Authenticate(), authMiddleware.RequireRole(models.RoleAdmin))

	// Everything below requires a valid session
	protected := v1.Group("", authMiddleware.Authenticate())

	customers := protected.Group("/customers")
	customers.POST("", customerHandlers.CreateCustomer)
	customers.GET("", customerHandlers.ListCustomers)
	customers.GET("/:id", customerHandlers.GetCustomer)
	customers.PUT("/:id", customerHandlers.UpdateCustomer)
	customers.DELETE("/:id", customerHandlers.DeleteCustomer)

	contacts := protected.Group("/contacts")
	contacts.POST("", contactHandlers.CreateContact)
	contacts.GET("", contactHandlers.ListContacts)
	contacts.GET("/:id", contactHandlers.GetContact)
	contacts.PUT("/:id", contactHandlers.UpdateContact)
	contacts.DELETE("/:id", contactHandlers.DeleteContact)

	leads := protected.Group("/leads")
	leads.POST("", leadHandlers.CreateLead)
	leads.GET("", leadHandlers.ListLeads)
	leads.GET("/:id", leadHandlers.GetLead)
	leads.PUT("/:id", leadHandlers.UpdateLead)
	leads.DELETE("/:id", leadHandlers.DeleteLead)

	opportunities := protected.Group("/opportunities")
	opportunities.POST("", opportunityHandlers.CreateOpportunity)
	opportunities.GET("", opportunityHandlers.ListOpportunities)
	opportunities.GET("/:id", opportunityHandlers.GetOpportunity)
	opportunities.PUT("/:id", opportunityHandlers.UpdateOpportunity)
	opportunities.DELETE("/:id", opportunityHandlers.DeleteOpportunity)

	billing := protected.Group("/billing")

	invoices := billing.Group("/invoices")
	invoices.POST("", invoiceHandlers.CreateInvoice)
	invoices.GET("", invoiceHandlers.ListInvoices)
	invoices.GET("/:id", invoiceHandlers.GetInvoice)
	invoices.PUT("/:id", invoiceHandlers.UpdateInvoice)
	invoices.PUT("/:id/status", invoiceHandlers.UpdateInvoiceStatus)
	invoices.POST("/:id/pdf", invoiceHandlers.GenerateInvoicePDF)
	invoices.DELETE("/:id", invoiceHandlers.DeleteInvoice, authMiddleware.RequireRole(models.RoleAdmin))

	payments := billing.Group("/payments")
	payments.POST("", paymentHandlers.CreatePayment)
	payments.GET("", paymentHandlers.ListPayments)
	payments.GET("/:id", paymentHandlers.GetPayment)
	payments.PUT("/:id", paymentHandlers.UpdatePayment)
	payments.DELETE("/:id", paymentHandlers.DeletePayment, authMiddleware.RequireRole(models.RoleAdmin))

	subscriptions := billing.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandlers.CreateSubscription)
	subscriptions.GET("", subscriptionHandlers.ListSubscriptions)
	subscriptions.GET("/:id", subscriptionHandlers.GetSubscription)
	subscriptions.PUT("/:id", subscriptionHandlers.UpdateSubscription)
	subscriptions.PUT("/:id/cancel", subscriptionHandlers.CancelSubscription)
	subscriptions.DELETE("/:id", subscriptionHandlers.DeleteSubscription, authMiddleware.RequireRole(models.RoleAdmin))

	chatbot := protected.Group("/chatbot")
	chatbot.POST("/sessions", chatHandlers.CreateChatSession)
	chatbot.GET("/sessions", chatHandlers.ListChatSessions)
	chatbot.GET("/sessions/:id", chatHandlers.GetChatSession)
	chatbot.DELETE("/sessions/:id", chatHandlers.DeleteChatSession)
	chatbot.POST("/sessions/:id/messages", chatHandlers.SendChatMessage)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatal(err)
	}
}
