package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"github.com/xrendezvous/ConnectiveApp/googleservice"
	"github.com/xrendezvous/ConnectiveApp/server/auth/key"
	"github.com/xrendezvous/ConnectiveApp/server/gstorage"
	"github.com/xrendezvous/ConnectiveApp/server/logger"
	"github.com/xrendezvous/ConnectiveApp/server/models"
	"github.com/xrendezvous/ConnectiveApp/server/reminder"
	"github.com/xrendezvous/ConnectiveApp/server/twilio"
	"github.com/xrendezvous/ConnectiveApp/server/widget"
	"github.com/xrendezvous/ConnectiveApp/server/work"
	"github.com/xrendezvous/ConnectiveApp/shared"
)

const TOKEN_TTL = 24 * time.Hour

var logg = logger.NewLogger()

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type Server struct {
	router      *mux.Router
	keyPair     *key.KeyPair
	validate    *validator.Validate
	workerPool  *work.WorkerPoolAdapter
	reminders   *reminder.Scheduler
	calendarAPI googleservice.GCalendarAPIInterface
	widget      *widget.Service
	location    *time.Location

	// now is the clock used for birthdays and calendars
	now func() time.Time
}

type Dependencies struct {
	KeyPair     *key.KeyPair
	WorkerPool  *work.WorkerPoolAdapter
	Reminders   *reminder.Scheduler
	CalendarAPI googleservice.GCalendarAPIInterface
	Widget      *widget.Service
	Location    *time.Location
	Now         func() time.Time
}

// NewServer wires the routes. CalendarAPI may be nil when google calendar
// export is disabled.
func NewServer(deps Dependencies) (*Server, error) {
	validate := validator.New()
	err := RegisterValidators(validate)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:      mux.NewRouter(),
		keyPair:     deps.KeyPair,
		validate:    validate,
		workerPool:  deps.WorkerPool,
		reminders:   deps.Reminders,
		calendarAPI: deps.CalendarAPI,
		widget:      deps.Widget,
		location:    deps.Location,
		now:         deps.Now,
	}

	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// today is the current time in the configured time zone
func (s *Server) today() time.Time {
	return s.now().In(s.location)
}

func (s *Server) registerRoutes() {
	router := s.router
	router.Use(loggingMiddleware)
	router.Use(s.initialContextMiddleware)

	router.HandleFunc("/jwks", s.jwks).Methods("GET")
	router.HandleFunc("/login", s.logIn).Methods("POST")
	router.HandleFunc("/users", s.createUser).Methods("POST")
	router.HandleFunc("/widget", s.fetchWidget).Methods("GET")

	adminRouter := router.PathPrefix("/jobs").Subrouter()
	adminRouter.Use(s.adminRouteMiddleware)
	adminRouter.HandleFunc("", s.fetchJobs).Methods("GET")

	userRouter := router.PathPrefix("/users/{uid:[0-9]+}").Subrouter()
	userRouter.Use(s.protectedRouteMiddleware)

	userRouter.HandleFunc("", s.findUser).Methods("GET")
	userRouter.HandleFunc("", s.updateUser).Methods("PUT")
	userRouter.HandleFunc("", s.deleteUser).Methods("DELETE")
	userRouter.HandleFunc("/reminders", s.updateReminderSetting).Methods("PUT")

	userRouter.HandleFunc("/contacts", s.fetchContacts).Methods("GET")
	userRouter.HandleFunc("/contacts", s.createContact).Methods("POST")
	userRouter.HandleFunc("/contacts/{id:[0-9]+}", s.findContact).Methods("GET")
	userRouter.HandleFunc("/contacts/{id:[0-9]+}", s.updateContact).Methods("PUT")
	userRouter.HandleFunc("/contacts/{id:[0-9]+}", s.deleteContact).Methods("DELETE")

	userRouter.HandleFunc("/birthdays", s.fetchBirthdays).Methods("GET")
	userRouter.HandleFunc("/calendar", s.fetchCalendar).Methods("GET")
	userRouter.HandleFunc("/calendar/sync", s.syncCalendar).Methods("POST")

	userRouter.HandleFunc("/notes", s.fetchNotes).Methods("GET")
	userRouter.HandleFunc("/notes", s.createNote).Methods("POST")
	userRouter.HandleFunc("/notes/search", s.searchNotes).Methods("GET")
	userRouter.HandleFunc("/notes/sort", s.sortNotesByTags).Methods("GET")
	userRouter.HandleFunc("/notes/{id:[0-9]+}", s.findNote).Methods("GET")
	userRouter.HandleFunc("/notes/{id:[0-9]+}", s.updateNote).Methods("PUT")
	userRouter.HandleFunc("/notes/{id:[0-9]+}", s.deleteNote).Methods("DELETE")
	userRouter.HandleFunc("/notes/{id:[0-9]+}/done", s.markNoteDone).Methods("PUT")

	userRouter.HandleFunc("/tags", s.fetchTags).Methods("GET")
	userRouter.HandleFunc("/tags", s.createTag).Methods("POST")
}

// Start opens the database, starts the background workers and serves the API
// until the process receives SIGINT or SIGTERM
func Start(config shared.ServerConfig, devMode bool) {
	ctx := context.Background()
	configDir := configDirectory(devMode)
	backupEnabled := config.Google.Storage.BackupEnabled() && config.Database.Driver != shared.POSTGRES_DRIVER

	keyPair, err := key.NewKeyPairFromRSAPrivateKeyPem(config.Connective.PrivateKeyPem)
	fatalOnError(err)

	location, err := time.LoadLocation(config.Connective.TimeZone)
	fatalOnError(err)

	var storage *gstorage.GStorage
	if backupEnabled {
		storage, err = gstorage.NewGStorage(ctx, config.Google.ApplicationCredentials)
		fatalOnError(err)

		err = restoreSqliteDb(ctx, storage, config.Google.Storage, configDir)
		fatalOnError(err)
	}

	err = models.AutoMigrate(config.Database, configDir)
	fatalOnError(err)

	workerPool, err := work.NewWorkerAdapter(config.Connective.TimeZone, devMode)
	fatalOnError(err)

	now := func() time.Time { return time.Now().In(location) }

	reminders, err := reminder.NewScheduler(workerPool, twilio.NewClient(config.Twilio, devMode), now, "")
	fatalOnError(err)

	err = reminders.ScheduleReminders()
	fatalOnError(err)

	if backupEnabled {
		err = registerBackupJob(workerPool, storage, config.Google.Storage, configDir)
		fatalOnError(err)
	}

	var calendarAPI googleservice.GCalendarAPIInterface
	if config.Google.Calendar.Enabled {
		calendarAPI, err = googleservice.NewGoogleCalendarAPI(ctx,
			config.Google.ApplicationCredentials, config.Google.Calendar.CalendarID)
		fatalOnError(err)
	}

	cache := widget.NewRedisClient(config.Redis)

	s, err := NewServer(Dependencies{
		KeyPair:     keyPair,
		WorkerPool:  workerPool,
		Reminders:   reminders,
		CalendarAPI: calendarAPI,
		Widget:      widget.NewService(config.Widget, cache),
		Location:    location,
		Now:         now,
	})
	fatalOnError(err)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%v", config.Connective.Listener.Port),
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	workerPool.Start()
	go serve(httpServer)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cleanup(workerPool, httpServer)

	if backupEnabled {
		err = backupSqliteDb(ctx, storage, config.Google.Storage, configDir)
		if err != nil {
			logg.Error(err)
		}
		storage.Close()
	}

	if cache != nil {
		cache.Close()
	}
}

func serve(server *http.Server) {
	logg.Infof("Connective server is listening on %v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

// OpenDatabase connects to the configured database for use outside of the
// server, e.g. by CLI commands
func OpenDatabase(config shared.DatabaseConfig, devMode bool) error {
	return models.AutoMigrate(config, configDirectory(devMode))
}

func cleanup(workerPool *work.WorkerPoolAdapter, server *http.Server) {
	// Stop all jobs i.e. reminders & regular server jobs
	workerPool.Stop()

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Connective server shutdown failed:%+s", err)
	}

	logg.Infof("Connective server stopped properly")
}
