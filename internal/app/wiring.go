package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/clients/redis"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	"github.com/Hi-chem22/AFRAN-2025/internal/http"
	httpH "github.com/Hi-chem22/AFRAN-2025/internal/http/handlers"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/importer"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
	"github.com/Hi-chem22/AFRAN-2025/internal/services"
)

type Services struct {
	Chairpersons services.ChairpersonService
	Sessions     services.SessionService
	Subsessions  services.SubsessionService
	Speakers     services.SpeakerService
	Venues       services.VenueService
	Content      services.ContentService
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Session     *httpH.SessionHandler
	Subsession  *httpH.SubsessionHandler
	Speaker     *httpH.SpeakerHandler
	Chairperson *httpH.ChairpersonHandler
	Venue       *httpH.VenueHandler
	Content     *httpH.ContentHandler
}

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Set {
	log.Info("Wiring repos...")
	return repos.NewSet(db, log)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, set repos.Set, cache redis.SessionCache, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	chairs := services.NewChairpersonService(log, set.Chairperson, cache)

	opts := []importer.Option{importer.WithWorkers(cfg.ImportWorkers)}
	if metrics != nil {
		opts = append(opts, importer.WithObserver(metrics))
	}
	reconciler := importer.NewReconciler(log, importer.Store{
		Sessions:    set.Session,
		Subsessions: set.Subsession,
		Speakers:    set.Speaker,
		Rooms:       set.Room,
		Days:        set.Day,
	}, chairs, opts...)

	sessions := services.NewSessionService(db, log, set, chairs, reconciler, cache)
	return Services{
		Chairpersons: chairs,
		Sessions:     sessions,
		Subsessions:  services.NewSubsessionService(db, log, set, sessions),
		Speakers:     services.NewSpeakerService(db, log, set.Speaker, sessions),
		Venues:       services.NewVenueService(log, set.Room, set.Day, sessions),
		Content:      services.NewContentService(db, log, set),
	}
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(db),
		Session:     httpH.NewSessionHandler(log, svc.Sessions, cfg.MaxUploadBytes),
		Subsession:  httpH.NewSubsessionHandler(log, svc.Subsessions),
		Speaker:     httpH.NewSpeakerHandler(log, svc.Speakers, cfg.MaxUploadBytes),
		Chairperson: httpH.NewChairpersonHandler(log, svc.Chairpersons),
		Venue:       httpH.NewVenueHandler(log, svc.Venues),
		Content:     httpH.NewContentHandler(log, svc.Content),
	}
}

func wireRouter(log *logger.Logger, cfg Config, h Handlers, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring router...")
	return http.NewRouter(http.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		ServiceName: serviceName,
		CORSOrigins: cfg.CORSOrigins,
		Tracing:     cfg.Otel.Enabled,

		SessionHandler:     h.Session,
		SubsessionHandler:  h.Subsession,
		SpeakerHandler:     h.Speaker,
		ChairpersonHandler: h.Chairperson,
		VenueHandler:       h.Venue,
		ContentHandler:     h.Content,
		HealthHandler:      h.Health,
	})
}
