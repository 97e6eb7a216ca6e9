package actions

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xdares/solprogram"
)

const (
	actionVersion   = "2.1.3"
	requestIDHeader = "X-Request-ID"
)

var (
	actionAllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	actionAllowHeaders = []string{
		"Content-Type", "Authorization", "Content-Encoding", "Accept-Encoding",
		"X-Action-Version", "X-Blockchain-Ids",
	}
	actionExposeHeaders = []string{"X-Action-Version", "X-Blockchain-Ids"}
)

// NewRouter builds the gin engine serving the actions and the operational
// endpoints.
func NewRouter(s *Service) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(s.logger, true))
	r.Use(requestIDMiddleware())
	r.Use(prometheusMiddleware())
	attachRoutes(r, s)
	return r
}

func attachRoutes(r *gin.Engine, s *Service) {
	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	blinks := r.Group("/")
	blinks.Use(actionHeaders(solprogram.BlockchainID(s.settings.Network)))
	blinks.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    actionAllowMethods,
		AllowHeaders:    actionAllowHeaders,
		ExposeHeaders:   actionExposeHeaders,
	}))
	{
		blinks.GET("/actions.json", s.GetActionsJSON)
		blinks.OPTIONS("/actions.json", s.GetActionsJSON)

		actions := blinks.Group("/api/actions")
		actions.GET("/create", s.GetCreate)
		actions.OPTIONS("/create", s.GetCreate)
		actions.POST("/create", s.PostCreate)

		actions.GET("/dare/:number", s.GetDare)
		actions.OPTIONS("/dare/:number", s.GetDare)
		actions.POST("/dare/:number", s.PostDare)
	}

	r.GET("/api/dares/:number/submissions", s.ListSubmissions)
}

// actionHeaders sets the Actions CORS, version and chain headers on every
// response, including requests without Origin and aborted preflights.
func actionHeaders(blockchainID string) gin.HandlerFunc {
	methods := strings.Join(actionAllowMethods, ",")
	headers := strings.Join(actionAllowHeaders, ", ")
	expose := strings.Join(actionExposeHeaders, ", ")
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", expose)
		c.Header("X-Action-Version", actionVersion)
		c.Header("X-Blockchain-Ids", blockchainID)
		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}
