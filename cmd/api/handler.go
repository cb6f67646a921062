package api

import (
	authUsecase "github.com/saswatds/moneyy/internal/auth/usecase"
	connUsecase "github.com/saswatds/moneyy/internal/connection/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *gin.Engine
}

// NewHandler wires the HTTP surface onto the usecases
func NewHandler(authUc authUsecase.AuthUsecase, connectionUc connUsecase.ConnectionUsecase) *Handler {
	engine := gin.Default()
	SetupRoutes(engine, authUc, connectionUc)

	return &Handler{
		engine: engine,
	}
}

// Start runs the HTTP server on addr
func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
