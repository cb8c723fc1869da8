package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/Hi-chem22/AFRAN-2025/internal/http/handlers"
	httpMW "github.com/Hi-chem22/AFRAN-2025/internal/http/middleware"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	Tracing     bool

	SessionHandler     *httpH.SessionHandler
	SubsessionHandler  *httpH.SubsessionHandler
	SpeakerHandler     *httpH.SpeakerHandler
	ChairpersonHandler *httpH.ChairpersonHandler
	VenueHandler       *httpH.VenueHandler
	ContentHandler     *httpH.ContentHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/healthcheck", "/metrics"))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	// Sessions
	if h := cfg.SessionHandler; h != nil {
		api.POST("/sessions", h.Create)
		api.GET("/sessions", h.List)
		api.GET("/sessions/byDayAndRoom", h.ByDayAndRoom)
		api.POST("/sessions/import", h.Import)
		api.GET("/sessions/:id", h.Get)
		api.PUT("/sessions/:id", h.Update)
		api.DELETE("/sessions/:id", h.Delete)
		api.PUT("/sessions/:id/chairpersons", h.UpdateChairpersons)
	}

	// Subsessions
	if h := cfg.SubsessionHandler; h != nil {
		api.POST("/subsessions", h.Create)
		api.GET("/subsessions", h.List)
		api.GET("/subsessions/session/:sessionId", h.ListBySession)
		api.GET("/subsessions/:id", h.Get)
		api.PUT("/subsessions/:id", h.Update)
		api.DELETE("/subsessions/:id", h.Delete)
		api.POST("/subsessions/:id/subsubsessions", h.AddSubsubsession)
	}

	// Speakers
	if h := cfg.SpeakerHandler; h != nil {
		api.POST("/speakers", h.Create)
		api.GET("/speakers", h.List)
		api.POST("/speakers/import", h.Import)
		api.GET("/speakers/:id", h.Get)
		api.PUT("/speakers/:id", h.Update)
		api.DELETE("/speakers/:id", h.Delete)
	}

	// Chairpersons
	if h := cfg.ChairpersonHandler; h != nil {
		api.POST("/chairpersons", h.Create)
		api.GET("/chairpersons", h.List)
		api.GET("/chairpersons/:id", h.Get)
		api.PUT("/chairpersons/:id", h.Update)
		api.DELETE("/chairpersons/:id", h.Delete)
	}

	// Rooms and days
	if h := cfg.VenueHandler; h != nil {
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/:id", h.GetRoom)
		api.PUT("/rooms/:id", h.UpdateRoom)
		api.DELETE("/rooms/:id", h.DeleteRoom)

		api.POST("/days", h.CreateDay)
		api.GET("/days", h.ListDays)
		api.GET("/days/:id", h.GetDay)
		api.PUT("/days/:id", h.UpdateDay)
		api.DELETE("/days/:id", h.DeleteDay)
	}

	// Sponsors, partners, videos, messages, logo
	if h := cfg.ContentHandler; h != nil {
		api.POST("/sponsors", h.CreateSponsor)
		api.GET("/sponsors", h.ListSponsors)
		api.GET("/sponsors/:id", h.GetSponsor)
		api.PUT("/sponsors/:id", h.UpdateSponsor)
		api.DELETE("/sponsors/:id", h.DeleteSponsor)

		api.POST("/partners", h.CreatePartner)
		api.GET("/partners", h.ListPartners)
		api.GET("/partners/:id", h.GetPartner)
		api.PUT("/partners/:id", h.UpdatePartner)
		api.DELETE("/partners/:id", h.DeletePartner)

		api.POST("/videos", h.CreateVideo)
		api.GET("/videos", h.ListVideos)
		api.GET("/videos/session/:sessionId", h.ListSessionVideos)
		api.GET("/videos/:id", h.GetVideo)
		api.PUT("/videos/:id", h.UpdateVideo)
		api.DELETE("/videos/:id", h.DeleteVideo)

		api.POST("/messages", h.CreateMessage)
		api.GET("/messages", h.ListMessages)
		api.GET("/messages/:id", h.GetMessage)
		api.PUT("/messages/:id", h.UpdateMessage)
		api.DELETE("/messages/:id", h.DeleteMessage)

		api.GET("/logo", h.ActiveLogo)
		api.GET("/logo/all", h.ListLogos)
		api.POST("/logo", h.CreateLogo)
		api.PUT("/logo/:id", h.UpdateLogo)
	}

	return r
}
