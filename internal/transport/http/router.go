package http

import (
	"context"
	"net/http"

	"github.com/campus-portal-api/internal/application/admin"
	"github.com/campus-portal-api/internal/application/budget"
	"github.com/campus-portal-api/internal/application/cheating"
	"github.com/campus-portal-api/internal/application/complaint"
	"github.com/campus-portal-api/internal/application/election"
	"github.com/campus-portal-api/internal/application/facility"
	fileapp "github.com/campus-portal-api/internal/application/file"
	"github.com/campus-portal-api/internal/application/gate"
	"github.com/campus-portal-api/internal/application/jobapp"
	"github.com/campus-portal-api/internal/application/leave"
	"github.com/campus-portal-api/internal/application/notification"
	"github.com/campus-portal-api/internal/application/otp"
	"github.com/campus-portal-api/internal/application/session"
	"github.com/campus-portal-api/internal/config"
	"github.com/campus-portal-api/internal/domain"
	"github.com/campus-portal-api/internal/transport/http/handler"
	appmiddleware "github.com/campus-portal-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. The rate limiters
// stop their cleanup goroutines when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handler.VerificationTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		// Without keys nobody can log in, so the dashboard stays closed.
		authMw = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"success":false,"error":"authentication unavailable"}`, http.StatusServiceUnavailable)
			})
		}
	}

	// OTP endpoints mail on every call; keep them tight.
	otpRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5)
	loginRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	go func() {
		<-ctx.Done()
		otpRL.Close()
		loginRL.Close()
	}()

	notifier := notification.NewService(notification.ServiceDeps{Mailer: deps.Mailer, SMS: deps.SMSSender})
	verificationGate := gate.New(deps.OTPStore, nil)
	fileSvc := fileapp.NewService(fileapp.ServiceDeps{Objects: deps.S3Store, Files: deps.FileRepo})

	issuer := otp.NewIssuer(otp.IssuerDeps{
		Store:          deps.OTPStore,
		Mailer:         deps.Mailer,
		TTL:            cfg.OTP.TTL,
		ResendCooldown: cfg.OTP.ResendCooldown,
		Pepper:         cfg.OTP.CodePepper,
	})
	verifier := otp.NewVerifier(otp.VerifierDeps{
		Store:    deps.OTPStore,
		GrantTTL: cfg.OTP.GrantTTL,
		Pepper:   cfg.OTP.CodePepper,
	})

	sessionSvc := session.NewService(session.ServiceDeps{
		AdminRepo:   deps.AdminRepo,
		SessionRepo: deps.SessionRepo,
		JWTProvider: deps.JWTProvider,
	})
	adminSvc := admin.NewService(admin.ServiceDeps{AdminRepo: deps.AdminRepo, SessionRepo: deps.SessionRepo})
	jobappSvc := jobapp.NewService(jobapp.ServiceDeps{
		Repo:     deps.ApplicationRepo,
		Gate:     verificationGate,
		Files:    fileSvc,
		Notifier: notifier,
	})
	electionSvc := election.NewService(election.ServiceDeps{
		Candidates: deps.CandidateRepo,
		Students:   deps.ApplicationRepo,
		Gate:       verificationGate,
		Files:      fileSvc,
	})
	facilitySvc := facility.NewService(facility.ServiceDeps{
		Facilities: deps.FacilityRepo,
		Bookings:   deps.BookingRepo,
		Gate:       verificationGate,
		Notifier:   notifier,
	})
	leaveSvc := leave.NewService(leave.ServiceDeps{
		Repo:     deps.LeaveRepo,
		Students: deps.ApplicationRepo,
		Gate:     verificationGate,
		Files:    fileSvc,
		Notifier: notifier,
		Mailer:   deps.Mailer,
	})
	complaintSvc := complaint.NewService(complaint.ServiceDeps{
		Repo:     deps.ComplaintRepo,
		Gate:     verificationGate,
		Files:    fileSvc,
		Notifier: notifier,
	})
	budgetSvc := budget.NewService(budget.ServiceDeps{Repo: deps.BudgetRepo, Files: fileSvc})
	cheatingSvc := cheating.NewService(cheating.ServiceDeps{Repo: deps.CheaterRepo, Files: fileSvc})

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(issuer, verifier)
	sessionH := handler.NewSessionHandler(sessionSvc)
	adminH := handler.NewAdminHandler(adminSvc)
	fileH := handler.NewFileHandler(fileSvc)
	appH := handler.NewApplicationHandler(jobappSvc)
	electionH := handler.NewElectionHandler(electionSvc)
	facilityH := handler.NewFacilityHandler(facilitySvc)
	leaveH := handler.NewLeaveHandler(leaveSvc)
	complaintH := handler.NewComplaintHandler(complaintSvc)
	budgetH := handler.NewBudgetHandler(budgetSvc)
	cheatingH := handler.NewCheatingHandler(cheatingSvc)

	r.Route("/api/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(otpRL.Limit).Post("/sendOtp", otpH.Send)
		r.With(otpRL.Limit).Post("/verifyOtp", otpH.Verify)
		if deps.JWTProvider != nil {
			r.With(loginRL.Limit).Post("/sessions/login", sessionH.Login)
		}

		r.Get("/candidates", electionH.ListCandidates)
		r.Get("/vote-status", electionH.VoteStatus)
		r.Get("/facilities", facilityH.List)
		r.Get("/complaints", complaintH.List)
		r.Post("/complaints/{id}/vote", complaintH.Upvote)

		// ── Verification-gated student actions ──────────────────────────────
		r.Post("/applications", appH.Submit)
		r.Post("/facilities/bookings", facilityH.RequestBooking)
		r.Post("/leaves", leaveH.Apply)
		r.Post("/sick-leaves", leaveH.ApplySick)
		r.Put("/candidates/{id}/vote", electionH.Vote)
		r.Post("/complaints", complaintH.File)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)

			// Dashboard, staff and admins
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleStaff))

				r.Get("/applications", appH.List)
				r.Get("/applications/{id}", appH.Get)
				r.Put("/applications/{id}", appH.Update)
				r.Put("/applications/{id}/status", appH.UpdateStatus)

				r.Post("/candidates", electionH.AddCandidate)
				r.Put("/vote-status", electionH.ResetVote)

				r.Post("/facilities", facilityH.Add)
				r.Get("/facilities/bookings", facilityH.ListBookings)
				r.Put("/facilities/bookings/status", facilityH.UpdateBookingStatus)
				r.Get("/facilities/{id}/bookings", facilityH.ListFacilityBookings)

				r.Get("/leaves", leaveH.List(domain.LeaveKindRegular))
				r.Get("/sick-leaves", leaveH.List(domain.LeaveKindSick))
				r.Put("/leaves/{id}/status", leaveH.UpdateStatus)
				r.Put("/sick-leaves/{id}/status", leaveH.UpdateStatus)
				r.Post("/sick-leaves/doctor-note", leaveH.DoctorNote)

				r.Put("/complaints/{id}/status", complaintH.UpdateStatus)

				r.Get("/budgets", budgetH.List)
				r.Get("/budgets/{id}", budgetH.Get)
				r.Post("/budgets", budgetH.Create)
				r.Put("/budgets/{id}", budgetH.Update)
				r.Post("/budgets/{id}/expenses", budgetH.AddExpense)

				r.Get("/cheaters", cheatingH.List)
				r.Post("/cheaters", cheatingH.Report)

				r.Get("/files/{id}", fileH.Download)
				r.Get("/files/{id}/link", fileH.Link)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/admins", adminH.List)
				r.Post("/admins", adminH.Create)
				r.Get("/admins/{id}", adminH.Get)
				r.Delete("/admins/{id}", adminH.Delete)

				r.Delete("/applications/{id}", appH.Delete)
				r.Delete("/candidates/{id}", electionH.RemoveCandidate)
				r.Delete("/budgets/{id}", budgetH.Delete)
				r.Put("/budgets/{id}/verify", budgetH.Verify)
				r.Put("/budgets/{id}/expenses/{expenseID}/verify", budgetH.VerifyExpense)
				r.Delete("/files/{id}", fileH.Delete)
			})
		})
	})

	return r
}
