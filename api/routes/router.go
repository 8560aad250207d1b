package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YodaBikarbona/school-book-server/api/controllers"
	"github.com/YodaBikarbona/school-book-server/api/middleware"
	"github.com/YodaBikarbona/school-book-server/internal/absences"
	"github.com/YodaBikarbona/school-book-server/internal/accounts"
	"github.com/YodaBikarbona/school-book-server/internal/classes"
	"github.com/YodaBikarbona/school-book-server/internal/events"
	"github.com/YodaBikarbona/school-book-server/internal/grades"
	"github.com/YodaBikarbona/school-book-server/internal/subjects"
	"github.com/YodaBikarbona/school-book-server/pkg/config"
	"github.com/YodaBikarbona/school-book-server/pkg/db"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"github.com/YodaBikarbona/school-book-server/pkg/metrics"
	"github.com/YodaBikarbona/school-book-server/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Accounts  accounts.Service
	Reference *accounts.ReferenceService
	Subjects  *subjects.Service
	Classes   *classes.Service
	Grades    *grades.Service
	Absences  *absences.Service
	Events    *events.Service
}

// NewRouter builds the full HTTP surface. The path layout mirrors the
// frontend's expectations under /school_book.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	users middleware.UserLoader,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.LoginPolicy(cfg.AuthRateLimit)

	// Guard the typed-nil pointer so the interface values stay nil when
	// Redis is absent and the throttles fall open.
	var cooldowns controllers.CooldownStore
	loginThrottle := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		cooldowns = redisClient
		loginThrottle = middleware.AuthRateLimit(loginPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/school_book", func(r chi.Router) {
		// Public: login and code consumption carry their own proof.
		r.With(loginThrottle).
			Post("/login", controllers.Login(svcs.Accounts, httpMetrics, logg))
		r.Patch("/users/user/activate", controllers.ActivateAccount(svcs.Accounts, logg))
		r.Post("/users/user/activate/resend",
			controllers.ResendActivationCode(svcs.Accounts, cooldowns, cfg.AuthRateLimit.ResendCooldown, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, users, logg))

			r.Get("/users", controllers.ListUsers(svcs.Accounts, logg))
			r.Get("/users/user/{user_id}", controllers.GetUser(svcs.Accounts, logg))
			r.Delete("/users/user/{user_id}/delete", controllers.DeleteUser(svcs.Accounts, logg))
			r.Patch("/users/user/{user_id}/activate", controllers.SetUserActive(svcs.Accounts, true, logg))
			r.Patch("/users/user/{user_id}/deactivate", controllers.SetUserActive(svcs.Accounts, false, logg))

			r.Get("/parent/children", controllers.ParentChildren(svcs.Accounts, logg))
			r.Get("/parent/events", controllers.ParentEvents(svcs.Events, logg))

			r.Get("/school_subjects", controllers.ListSubjects(svcs.Subjects, logg))
			r.Get("/school_classes", controllers.ListClasses(svcs.Classes, logg))

			r.Get("/child/{user_id}/school_subject/{school_subject_id}/grades",
				controllers.ChildGrades(svcs.Grades, logg))
			r.Get("/child/{user_id}/school_subject/{school_subject_id}/isJustified/{is_justified}/absences",
				controllers.ChildAbsences(svcs.Absences, logg))
			r.Get("/child/{user_id}/school_subject/{school_subject_id}/absences",
				controllers.ChildAbsenceCounts(svcs.Absences, logg))

			r.Post("/professor/grades/add", controllers.AddGrade(svcs.Grades, logg))
			r.Post("/professor/absences/add", controllers.AddAbsence(svcs.Absences, logg))
			r.Put("/professor/absences/absence/{absence_id}/edit", controllers.EditAbsence(svcs.Absences, logg))
			r.Post("/professor/events/add", controllers.AddEvent(svcs.Events, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Post("/users/add", controllers.CreateUser(svcs.Accounts, logg))
				r.Put("/users/user/{user_id}/edit", controllers.EditUser(svcs.Accounts, logg))
				r.Patch("/users/user/{user_id}/change_password", controllers.ChangeUserPassword(svcs.Accounts, logg))

				r.Get("/roles", controllers.ListRoles(svcs.Reference, logg))
				r.Post("/roles/new", controllers.CreateRole(svcs.Reference, logg))
				r.Put("/roles/role/{role_id}/edit", controllers.EditRole(svcs.Reference, logg))
				r.Delete("/roles/role/{role_id}/delete", controllers.DeleteRole(svcs.Reference, logg))

				r.Get("/genders", controllers.ListGenders(svcs.Reference, logg))
				r.Post("/genders/new", controllers.CreateGender(svcs.Reference, logg))
				r.Put("/genders/gender/{gender_id}/edit", controllers.EditGender(svcs.Reference, logg))
				r.Delete("/genders/gender/{gender_id}/delete", controllers.DeleteGender(svcs.Reference, logg))

				r.Post("/school_subjects/add", controllers.CreateSubject(svcs.Subjects, logg))
				r.Put("/school_subjects/school_subject/{school_subject_id}/edit", controllers.EditSubject(svcs.Subjects, logg))
				r.Delete("/school_subjects/school_subject/{school_subject_id}/delete", controllers.DeleteSubject(svcs.Subjects, logg))

				r.Post("/school_classes/add", controllers.CreateClass(svcs.Classes, logg))
				r.Put("/school_classes/school_class/{school_class_id}/edit", controllers.EditClass(svcs.Classes, logg))
				r.Get("/school_classes/school_class/{school_class_id}/members", controllers.ClassMembers(svcs.Classes, logg))
				r.Post("/school_classes/school_class/{school_class_id}/members/add", controllers.AddClassMember(svcs.Classes, logg))
				r.Post("/school_classes/school_class/{school_class_id}/school_subjects/assign", controllers.AssignClassSubject(svcs.Classes, logg))
			})
		})
	})

	return r
}
