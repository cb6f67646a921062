package delivery

import (
	"errors"
	"net/http"

	conndomain "github.com/saswatds/moneyy/internal/connection/domain"
	conndto "github.com/saswatds/moneyy/internal/connection/dto"
	"github.com/saswatds/moneyy/internal/connection/usecase"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionUsecase usecase.ConnectionUsecase
}

func NewConnectionHandler(connectionUsecase usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUsecase: connectionUsecase,
	}
}

func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	userID := c.GetString("userID")

	connections, err := h.connectionUsecase.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conndto.ConnectionsResponse{Connections: connections})
}

// GetConnection is the cheap single-connection status read collaborators poll
// after triggering a sync.
func (h *ConnectionHandler) GetConnection(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	conn, err := h.connectionUsecase.GetByID(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) Connect(c *gin.Context) {
	userID := c.GetString("userID")

	var req conndto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.connectionUsecase.Connect(c.Request.Context(), userID, req.Provider, req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conn)
}

func (h *ConnectionHandler) UpdateConnection(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	var req conndto.UpdateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var frequency *conndomain.SyncFrequency
	if req.SyncFrequency != nil {
		f := conndomain.SyncFrequency(*req.SyncFrequency)
		if !f.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sync_frequency"})
			return
		}
		frequency = &f
	}

	conn, err := h.connectionUsecase.UpdateConnection(userID, id, req.Name, frequency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) TriggerSync(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.connectionUsecase.SyncNow(userID, id); err != nil {
		respondError(c, err)
		return
	}

	// The job runs in the background; callers poll the connection for its
	// terminal status.
	c.JSON(http.StatusAccepted, gin.H{"message": "sync started"})
}

func (h *ConnectionHandler) DeleteConnection(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.connectionUsecase.Disconnect(userID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "connection deleted"})
}

func (h *ConnectionHandler) CheckCredentials(c *gin.Context) {
	userID := c.GetString("userID")
	provider := c.Param("provider")

	has, email, err := h.connectionUsecase.CheckCredentials(userID, provider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conndto.CheckCredentialsResponse{HasCredentials: has, Email: email})
}

func (h *ConnectionHandler) Reconnect(c *gin.Context) {
	userID := c.GetString("userID")
	provider := c.Param("provider")

	conn, err := h.connectionUsecase.Reconnect(c.Request.Context(), userID, provider)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conndto.ReconnectResponse{ConnectionID: conn.ID})
}

// respondError maps the connection error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var authErr *conndomain.AuthError
	switch {
	case errors.Is(err, conndomain.ErrNotFound), errors.Is(err, conndomain.ErrNoStoredCredentials):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, conndomain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, conndomain.ErrSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error(), "reason": string(authErr.Reason)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
