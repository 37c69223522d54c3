package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-office-api/internal/application/leave"
	"github.com/go-office-api/internal/application/notification"
	"github.com/go-office-api/internal/application/session"
	"github.com/go-office-api/internal/application/user"
	"github.com/go-office-api/internal/config"
	"github.com/go-office-api/internal/domain"
	"github.com/go-office-api/internal/transport/http/handler"
	appmiddleware "github.com/go-office-api/internal/transport/http/middleware"
	"github.com/unrolled/secure"
	"golang.org/x/time/rate"
)

// NewRouter wires the services over deps and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'",
		SSLRedirect:           cfg.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}).Handler)
	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.Limit(cfg.RateLimitPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appmiddleware.IdempotencyKeyHeader},
		ExposedHeaders:   []string{appmiddleware.ReplayedHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 on login.
	loginRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	// Leave filing is limited per user: 1 request/second, burst of 5.
	fileRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5).PerUser()

	idempotent := func(next http.Handler) http.Handler { return next }
	if deps.Redis != nil {
		idempotent = appmiddleware.Idempotency(deps.Redis, cfg.IdempotencyTTL, logger)
	}

	dispatcher := notification.NewDispatcher(notification.DispatcherDeps{
		NotificationRepo: deps.NotificationRepo,
		Directory:        deps.UserRepo,
		Logger:           logger,
		Concurrency:      cfg.NotifyConcurrency,
	})
	leaveSvc := leave.NewService(leave.ServiceDeps{
		LeaveRepo: deps.LeaveRepo,
		Directory: deps.UserRepo,
		Notifier:  dispatcher,
		Publisher: deps.Publisher,
		Logger:    logger,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:    deps.UserRepo,
		SessionRepo: deps.SessionRepo,
		LeaveRepo:   deps.LeaveRepo,
		Logger:      logger,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenExpiry,
	})
	inboxSvc := notification.NewService(deps.NotificationRepo)

	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc, leaveSvc)
	leaveH := handler.NewLeaveHandler(leaveSvc, userSvc)
	notifH := handler.NewNotificationHandler(inboxSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(loginRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/{id}", userH.Get)
			r.Get("/users/{id}/leaves", userH.ListLeaves)
			r.Get("/users/{id}/reports", userH.ListReports)

			r.With(fileRL.Limit, idempotent).Post("/leaves", leaveH.Create)
			r.Get("/leaves/categories", handler.ListLeaveCategories)
			r.Get("/leaves/mine", leaveH.ListMine)
			r.Get("/leaves/pending/manager", leaveH.ListPendingForManager)
			r.With(appmiddleware.RequireRole(domain.RoleHR, domain.RoleAdmin)).Get("/leaves/pending/hr", leaveH.ListPendingForHR)
			r.With(appmiddleware.RequireRole(domain.RoleManager, domain.RoleHR, domain.RoleAdmin)).Get("/leaves/calendar", leaveH.Calendar)
			r.Get("/leaves/{id}", leaveH.Get)
			r.Get("/leaves/{id}/can-approve", leaveH.CanApprove)
			r.Post("/leaves/{id}/manager-approval", leaveH.ApproveByManager)
			r.With(appmiddleware.RequireRole(domain.RoleHR, domain.RoleAdmin)).Post("/leaves/{id}/hr-approval", leaveH.ApproveByHR)
			r.Post("/leaves/{id}/rejection", leaveH.Reject)
			r.Post("/leaves/{id}/cancellation", leaveH.Cancel)

			r.Get("/notifications", notifH.ListMine)
			r.Get("/notifications/unread", notifH.ListUnread)
			r.Put("/notifications/read", notifH.MarkAllAsRead)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)

			// HR and Admin
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleHR, domain.RoleAdmin))

				r.Get("/users", userH.List)
				r.Put("/users/{id}/manager", userH.AssignManager)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/users", userH.Create)
				r.Put("/users/{id}/role", userH.SetRole)
				r.Delete("/users/{id}", userH.Deactivate)
			})
		})
	})

	return r
}
