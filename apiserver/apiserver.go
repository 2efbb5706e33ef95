package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"cardroom.com/server/game"
	"cardroom.com/server/logging"
)

var logger = logging.GetZeroLogger("apiserver::apiserver", nil)

// APIServer exposes a small read-only REST surface next to the game
// port: liveness and the current (redacted) table snapshot. There are
// no mutation routes; the table is driven only over the game protocol.
type APIServer struct {
	addr  string
	table *game.Table
}

func NewAPIServer(addr string, table *game.Table) *APIServer {
	return &APIServer{addr: addr, table: table}
}

func (a *APIServer) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", a.health)
	r.GET("/v1/table", a.tableState)
	return r
}

// Start blocks serving the REST endpoints.
func (a *APIServer) Start() error {
	logger.Info().Msgf("API server listening on %s", a.addr)
	if err := a.router().Run(a.addr); err != nil {
		return errors.Wrapf(err, "api server failed on %s", a.addr)
	}
	return nil
}

func (a *APIServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *APIServer) tableState(c *gin.Context) {
	c.JSON(http.StatusOK, a.table.Snapshot())
}
