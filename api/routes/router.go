package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/morelandmachine/dispatch-backend/api/controllers"
	"github.com/morelandmachine/dispatch-backend/api/middleware"
	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/internal/jobs"
	"github.com/morelandmachine/dispatch-backend/internal/notes"
	"github.com/morelandmachine/dispatch-backend/internal/purchasing"
	"github.com/morelandmachine/dispatch-backend/internal/scheduling"
	"github.com/morelandmachine/dispatch-backend/internal/summary"
	"github.com/morelandmachine/dispatch-backend/pkg/config"
	"github.com/morelandmachine/dispatch-backend/pkg/db"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheMgr *cache.Manager,
	dispatchService dispatch.Service,
	jobsService jobs.Service,
	notesService notes.Service,
	purchasingService purchasing.Service,
	schedulingService scheduling.Service,
	summaryService summary.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/dispatch", func(r chi.Router) {
			r.Post("/refresh", controllers.DispatchRefresh(dispatchService, logg))
			r.Get("/lines", controllers.DispatchLines(dispatchService, logg))
			r.Get("/stats", controllers.DispatchStats(dispatchService, logg))
			r.Get("/gantt", controllers.DispatchGantt(dispatchService, logg))
		})

		r.Get("/cache/status", controllers.CacheStatus(cacheMgr, logg))

		r.Route("/jobs/{jobNumber}", func(r chi.Router) {
			r.Get("/operations", controllers.JobOperations(jobsService, logg))
			r.Get("/shortages", controllers.JobShortages(jobsService, logg))
			r.Route("/notes", func(r chi.Router) {
				r.Get("/", controllers.JobNotesList(notesService, logg))
				r.Post("/", controllers.JobNotesAdd(notesService, logg))
				r.Get("/count", controllers.JobNotesCount(notesService, logg))
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", controllers.NotesListAll(notesService, logg))
			r.Delete("/{noteID}", controllers.NoteDelete(notesService, logg))
		})

		r.Route("/purchasing", func(r chi.Router) {
			r.Get("/pos", controllers.PurchasingOpenPOs(purchasingService, logg))
			r.Get("/suppliers", controllers.PurchasingSuppliers(purchasingService, logg))
			r.Get("/linkage", controllers.PurchasingLinkage(purchasingService, logg))
		})

		r.Route("/scheduling", func(r chi.Router) {
			r.Get("/board", controllers.SchedulingBoard(schedulingService, logg))
			r.Get("/workcenters", controllers.SchedulingWorkCenters(schedulingService, logg))
		})

		r.Get("/summary", controllers.SummaryDigest(summaryService, logg))
	})

	return r
}
