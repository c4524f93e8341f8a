package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/rentorahq/rentora-backend/internal/config"
	"github.com/rentorahq/rentora-backend/internal/handlers"
	"github.com/rentorahq/rentora-backend/internal/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Property     *handlers.PropertyHandler
	Verification *handlers.VerificationHandler
	Lease        *handlers.LeaseHandler
	Payment      *handlers.PaymentHandler
	Deposit      *handlers.DepositHandler
	Inquiry      *handlers.InquiryHandler
	Files        *handlers.FilesHandler
	Legal        *handlers.LegalHandler
	Admin        *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health
	api.Get("/health", h.Health.Check)

	// Legal pages
	api.Get("/legal/privacy", h.Legal.PrivacyPolicy)
	api.Get("/legal/terms", h.Legal.TermsOfService)

	// Signed file links carry their own auth (HMAC + expiry)
	api.Get("/files/+", h.Files.Download)

	// Public listing browse
	api.Get("/properties", h.Property.Browse)
	api.Get("/properties/:id", h.Property.Get)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.LoadActor(db), middleware.AdminRequired(cfg))
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/users", h.Admin.ListUsers)

	admin.Get("/properties", h.Property.AdminList)
	admin.Put("/properties/:id/decision", h.Property.AdminDecide)

	admin.Get("/verification", h.Verification.AdminList)
	admin.Get("/verification/:id", h.Verification.AdminDetail)
	admin.Post("/verification/:id/approve", h.Verification.Approve)
	admin.Post("/verification/:id/reject", h.Verification.Reject)

	admin.Post("/sweeps/overdue-payments", h.Admin.RunOverdueSweep)
	admin.Post("/sweeps/expire-leases", h.Admin.RunLeaseExpiry)

	admin.Get("/settings", h.Admin.ListSettings)
	admin.Put("/settings/:key", h.Admin.SetSetting)
	admin.Delete("/settings/:key", h.Admin.DeleteSetting)

	// Protected routes (JWT + actor loaded from DB so role changes
	// take effect immediately)
	protected := api.Group("/", middleware.JWTProtected(cfg), middleware.LoadActor(db))

	protected.Post("/auth/logout", h.Auth.Logout)
	protected.Get("/auth/me", h.Auth.Me)
	protected.Put("/auth/me", h.Auth.UpdateProfile)
	protected.Delete("/auth/account", h.Auth.DeleteAccount)

	// Listings — landlord side
	protected.Post("/properties", h.Property.Create)
	protected.Get("/my/properties", h.Property.ListMine)
	protected.Put("/properties/:id", h.Property.Update)
	protected.Delete("/properties/:id", h.Property.Delete)
	protected.Post("/properties/:id/images", h.Property.UploadImage)
	protected.Post("/properties/:id/reapply", h.Property.RequestReapproval)
	protected.Put("/properties/:id/availability", h.Property.SetAvailability)

	// Landlord verification
	protected.Post("/verification", h.Verification.Submit)
	protected.Post("/verification/:id/resubmit", h.Verification.Resubmit)
	protected.Get("/verification", h.Verification.MyRequests)

	// Leases
	protected.Post("/leases", h.Lease.Create)
	protected.Get("/leases", h.Lease.ListMine)
	protected.Get("/leases/:id", h.Lease.Get)
	protected.Put("/leases/:id", h.Lease.Update)
	protected.Post("/leases/:id/send", h.Lease.SendToTenant)
	protected.Post("/leases/:id/documents", h.Lease.UploadDocument)
	protected.Get("/leases/:id/documents", h.Lease.Documents)
	protected.Post("/leases/:id/sign", h.Lease.SubmitSigned)
	protected.Post("/leases/:id/approve", h.Lease.Approve)
	protected.Post("/leases/:id/request-revision", h.Lease.RequestRevision)
	protected.Post("/leases/:id/reject", h.Lease.Reject)
	protected.Post("/leases/:id/terminate", h.Lease.Terminate)

	// Payments
	protected.Post("/leases/:id/payments/generate", h.Payment.Generate)
	protected.Get("/leases/:id/payments", h.Payment.ListForLease)
	protected.Put("/payments/:id/record", h.Payment.Record)
	protected.Get("/my/payments", h.Payment.ListMine)

	// Deposits
	protected.Get("/leases/:id/deposit", h.Deposit.GetForLease)
	protected.Post("/leases/:id/deposit", h.Deposit.CreateForLease)
	protected.Post("/leases/:id/deposit/confirm", h.Deposit.ConfirmPayment)
	protected.Post("/leases/:id/deposit/release", h.Deposit.Release)
	protected.Post("/leases/:id/deposit/forfeit", h.Deposit.Forfeit)

	// Inquiries and messaging
	protected.Post("/inquiries", h.Inquiry.Create)
	protected.Get("/inquiries", h.Inquiry.ListMine)
	protected.Put("/inquiries/:id/decision", h.Inquiry.Decide)
	protected.Post("/inquiries/:id/messages", h.Inquiry.SendMessage)
	protected.Get("/inquiries/:id/messages", h.Inquiry.Messages)
	protected.Get("/inquiries/unread-count", h.Inquiry.UnreadCount)
}
