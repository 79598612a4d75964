package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/admission"
	"github.com/alyusr/institute/core/course"
	"github.com/alyusr/institute/core/form"
	"github.com/alyusr/institute/core/notification"
	"github.com/alyusr/institute/core/review"
	"github.com/alyusr/institute/core/session"
	"github.com/alyusr/institute/core/student"
	"github.com/alyusr/institute/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		Creds           session.CredentialProvider
		UserSvc         user.ServiceInterface
		Pipeline        *form.Pipeline
		FormSvc         *form.Service
		AdmissionSvc    *admission.Service
		ReviewSvc       *review.Service
		CourseSvc       *course.Service
		StudentSvc      *student.Service
		NotificationSvc *notification.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	cookieStore := sessions.NewCookieStore([]byte(conf.SecretKey))
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	s.app.GET("/dashboard/:category", dashboard, dashboardMiddleware(cookieStore))

	v1 := s.app.Group("/v1")
	registerUserAPI(v1, jwt, s.opts, cookieStore)
	registerFormAPI(v1, jwt, s.opts)
	registerReviewAPI(v1, jwt, s.opts)
	registerCourseAPI(v1, jwt, s.opts)
	registerStudentAPI(v1, jwt, s.opts)
	registerNotificationAPI(v1, jwt, s.opts)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrs := make(chan error, 1)
	go func() {
		serverErrs <- s.app.Start(s.opts.Address)
	}()

	select {
	case err := <-serverErrs:
		s.app.Logger.Fatal(err)
	case sig := <-s.shutdown:
		s.opts.Logger.Info("shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			s.app.Logger.Fatal(err)
		}
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to AlYusr Institute API!")
}

func dashboard(ctx echo.Context) error {
	s, _ := ctx.Get(contextSessionKey).(*session.Session)
	return ctx.JSON(http.StatusOK, echo.Map{
		"category": ctx.Param("category"),
		"session":  s,
	})
}
