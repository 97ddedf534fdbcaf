package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/config"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/enums"
	adminsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/admin"
	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	chatsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/chat"
	connsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/connections"
	discoverysvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/discovery"
	likessvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/likes"
	mediasvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/media"
	profilesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/profiles"
	swipesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/swipes"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService       *authsvc.Service
	SwipeService      *swipesvc.Service
	LikeService       *likessvc.Service
	DiscoveryService  *discoverysvc.Service
	ConnectionService *connsvc.Service
	ChatService       *chatsvc.Service
	ProfileService    *profilesvc.Service
	MediaService      *mediasvc.Service
	AdminService      *adminsvc.Service
	Logger            *zap.Logger
	Config            config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	quotaHandler := handlers.NewQuotaHandler(deps.LikeService)
	feedHandler := handlers.NewFeedHandler(deps.DiscoveryService)
	connectionsHandler := handlers.NewConnectionsHandler(deps.ConnectionService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	adminHandler := handlers.NewAdminHandler(deps.AdminService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminRoleMW := RequireRole(string(enums.RoleAdmin))

	r.Get("/healthz", healthHandler.Get)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMW)

		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Save)

		r.Post("/media/photo", mediaHandler.Upload)
		r.Get("/media/photos", mediaHandler.List)
		r.Delete("/media/photos/{photoID}", mediaHandler.Delete)

		r.Get("/discovery/feed", feedHandler.Handle)

		r.Route("/match", func(r chi.Router) {
			r.Post("/like", swipeHandler.Like)
			r.Post("/super-like", swipeHandler.SuperLike)
			r.Post("/pass", swipeHandler.Pass)
			r.Get("/quota", quotaHandler.Handle)
		})

		r.Get("/connections", connectionsHandler.List)
		r.Post("/connections/unmatch", connectionsHandler.Unmatch)
		r.Get("/connections/{connectionID}/conversation", chatHandler.Conversation)

		r.Route("/conversations/{conversationID}", func(r chi.Router) {
			r.Get("/messages", chatHandler.History)
			r.Post("/messages", chatHandler.Send)
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMW, adminRoleMW)

		r.Get("/profiles/pending", adminHandler.PendingProfiles)
		r.Post("/profiles/{userID}/approve", adminHandler.ApproveProfile)
		r.Post("/profiles/{userID}/reject", adminHandler.RejectProfile)

		r.Post("/invitations", adminHandler.Invite)
		r.Get("/invitations", adminHandler.Invitations)
		r.Post("/preapproved-emails", adminHandler.PreapproveEmail)
		r.Delete("/preapproved-emails", adminHandler.RevokePreapproval)
	})
}
