package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nicholas91X/auto2g-backend/internal/config"
	"github.com/Nicholas91X/auto2g-backend/internal/domain"
	"github.com/Nicholas91X/auto2g-backend/internal/mailer"
	"github.com/Nicholas91X/auto2g-backend/internal/middleware"
	"github.com/Nicholas91X/auto2g-backend/internal/repository"
	"github.com/Nicholas91X/auto2g-backend/internal/security"
	"github.com/Nicholas91X/auto2g-backend/internal/service"
	"github.com/Nicholas91X/auto2g-backend/internal/storage"
)

type HandlerSet struct {
	log              zerolog.Logger
	cfg              *config.AppConfig
	tokens           *security.TokenIssuer
	authService      *service.AuthService
	accountService   *service.AccountService
	vehicleService   *service.VehicleService
	saleService      *service.SaleService
	dashboardService *service.DashboardService
	db               *pgxpool.Pool
	cache            *redis.Client
	accounts         *repository.AccountRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	accountRepo := repository.NewAccountRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	tokens := security.NewTokenIssuer(cfg.Security.JWTSecret, security.TokenTTLs{
		Session:       cfg.Security.SessionTTL,
		Confirmation:  cfg.Security.ConfirmationTTL,
		PasswordReset: cfg.Security.PasswordResetTTL,
		Onboarding:    cfg.Security.OnboardingTTL,
	})
	mail := mailer.NewSMTPMailer(cfg.SMTP, cfg.Frontend, log)

	auth := service.NewAuthService(accountRepo, tokens, mail, cfg.Frontend, log)
	accounts := service.NewAccountService(accountRepo, tokens, mail, store, cfg.Security, log)
	vehicles := service.NewVehicleService(vehicleRepo, store, log)
	sales := service.NewSaleService(saleRepo, accountRepo, log)
	dashboard := service.NewDashboardService(vehicleRepo, saleRepo, accountRepo, cache, log)

	return HandlerSet{
		log:              log,
		cfg:              cfg,
		tokens:           tokens,
		authService:      auth,
		accountService:   accounts,
		vehicleService:   vehicles,
		saleService:      sales,
		dashboardService: dashboard,
		db:               db,
		cache:            cache,
		accounts:         accountRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	authed := middleware.Auth(h.tokens, h.accounts)
	staff := middleware.RequireRoles(domain.RoleSeller, domain.RoleAdmin, domain.RoleSystemAdmin)
	admins := middleware.RequireRoles(domain.RoleAdmin, domain.RoleSystemAdmin)
	systemAdmin := middleware.RequireRoles(domain.RoleSystemAdmin)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", h.RegisterAccount)
		auth.POST("/login", h.Login)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/password-reset/request", h.RequestPasswordReset)
		auth.POST("/password-reset/confirm", h.ResetPassword)
		auth.POST("/onboarding/complete", h.CompleteOnboarding)

		accounts := v1.Group("/accounts", authed)
		accounts.GET("/me", h.Me)
		accounts.PUT("/me/profile", h.UpdateProfile)
		accounts.PUT("/me/password", h.UpdatePassword)
		accounts.PUT("/me/email", h.UpdateEmail)
		accounts.DELETE("/me", h.DeactivateSelf)
		accounts.POST("/me/picture", h.UploadProfilePicture)
		accounts.GET("/:id/picture", h.ProfilePicture)
		accounts.DELETE("/:id", h.DeleteAccount)

		admin := v1.Group("/admin", authed, admins)
		admin.POST("/accounts", h.RegisterAdmin)
		admin.GET("/accounts", h.ListAccounts)
		admin.GET("/accounts/role/:role", h.ListAccountsByRole)
		admin.GET("/accounts/active", h.ListAccountsByActive)
		admin.GET("/accounts/verified", h.ListAccountsByVerified)
		admin.GET("/accounts/search", h.SearchAccounts)
		admin.PUT("/accounts/:id/active", h.SetAccountActive)
		admin.POST("/onboarding/invite", h.InviteOnboarding)
		admin.DELETE("/accounts/:id/purge", systemAdmin, h.PurgeAccount)

		vehicles := v1.Group("/vehicles")
		vehicles.GET("", h.ListVehicles)
		vehicles.GET("/:id", h.GetVehicle)

		vehicleAdmin := v1.Group("/vehicles", authed, staff)
		vehicleAdmin.POST("", h.CreateVehicle)
		vehicleAdmin.PUT("/:id", h.UpdateVehicle)
		vehicleAdmin.PATCH("/:id/status", h.ChangeVehicleStatus)
		vehicleAdmin.DELETE("/:id", h.DeleteVehicle)
		vehicleAdmin.POST("/:id/images", h.AddVehicleImage)
		vehicleAdmin.DELETE("/:id/images/:imageId", h.RemoveVehicleImage)

		sales := v1.Group("/sales", authed, staff)
		sales.POST("", h.RegisterSale)
		sales.GET("", h.ListSales)
		sales.GET("/recent", h.RecentSales)

		dashboard := v1.Group("/dashboard", authed, staff)
		dashboard.GET("/summary", h.DashboardSummary)
		dashboard.GET("/summary/brand-performance", h.DashboardBrandPerformance)
		dashboard.GET("/summary/recent-activity", h.DashboardRecentActivity)
	}
}
