package handlers

import (
	"errors"
	"net/http"

	"livestream_backend/internal/domain"
	"livestream_backend/internal/logger"
	"livestream_backend/internal/repository"
	"livestream_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig holds per-request limits for the handler layer.
type HandlerConfig struct {
	MaxChatLen    int
	LiveFeedLimit int
}

type Handler struct {
	DB          *pgxpool.Pool
	Cfg         HandlerConfig
	Economy     *service.EconomyService
	Sessions    *service.SessionService
	WalletRepo  *repository.WalletRepository
	ProfileRepo *repository.ProfileRepository
	UserRepo    *repository.UserRepository
	GiftRepo    *repository.GiftRepository
	RuleRepo    *repository.LevelRuleRepository
	ChatRepo    *repository.ChatRepository
	PackageRepo *repository.CoinPackageRepository
	BonusRepo   *repository.BonusRepository
	StreamRepo  *repository.StreamRepository
}

func NewHandler(db *pgxpool.Pool, events service.EventPublisher, cfg HandlerConfig) *Handler {
	if cfg.MaxChatLen == 0 {
		cfg.MaxChatLen = 500
	}
	if cfg.LiveFeedLimit == 0 {
		cfg.LiveFeedLimit = 50
	}
	return &Handler{
		DB:          db,
		Cfg:         cfg,
		Economy:     service.NewEconomyService(db, events),
		Sessions:    service.NewSessionService(db, events),
		WalletRepo:  repository.NewWalletRepository(db),
		ProfileRepo: repository.NewProfileRepository(db),
		UserRepo:    repository.NewUserRepository(db),
		GiftRepo:    repository.NewGiftRepository(db),
		RuleRepo:    repository.NewLevelRuleRepository(db),
		ChatRepo:    repository.NewChatRepository(db),
		PackageRepo: repository.NewCoinPackageRepository(db),
		BonusRepo:   repository.NewBonusRepository(db),
		StreamRepo:  repository.NewStreamRepository(db),
	}
}

// getUserID pulls the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// viewerProfile resolves the authenticated caller's viewer profile,
// writing the error response itself when there is none.
func (h *Handler) viewerProfile(c *gin.Context) (*domain.ViewerProfile, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	viewer, err := h.ProfileRepo.ViewerByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "viewer profile not found"})
			return nil, false
		}
		serviceError(c, err)
		return nil, false
	}
	return viewer, true
}

// streamerProfile resolves the authenticated caller's streamer profile.
func (h *Handler) streamerProfile(c *gin.Context) (*domain.StreamerProfile, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	streamer, err := h.ProfileRepo.StreamerByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "streamer profile not found"})
			return nil, false
		}
		serviceError(c, err)
		return nil, false
	}
	return streamer, true
}

// senderProfileID resolves the gift-sender id: the caller's viewer profile
// when they have one, their streamer profile otherwise (streamers may send
// gifts too and get a viewer profile lazily).
func (h *Handler) senderProfileID(c *gin.Context) (int64, bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return 0, false
	}
	ctx := c.Request.Context()
	if viewer, err := h.ProfileRepo.ViewerByUserID(ctx, userID); err == nil {
		return viewer.ID, true
	} else if !errors.Is(err, repository.ErrNotFound) {
		serviceError(c, err)
		return 0, false
	}
	streamer, err := h.ProfileRepo.StreamerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return 0, false
		}
		serviceError(c, err)
		return 0, false
	}
	return streamer.ID, true
}

// serviceError maps service/repository sentinels to HTTP responses.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient funds"})
	case errors.Is(err, service.ErrOwnershipMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource does not belong to this streamer"})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be at least 1"})
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
	case errors.Is(err, service.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "bonus already claimed today"})
	case errors.Is(err, service.ErrNoOpenSession):
		c.JSON(http.StatusConflict, gin.H{"error": "stream is not live"})
	case errors.Is(err, repository.ErrDuplicateLevel):
		c.JSON(http.StatusConflict, gin.H{"error": "an active rule for this level already exists"})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
