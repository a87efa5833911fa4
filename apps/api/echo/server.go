package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/schoolcrm/core"
	"github.com/trezcool/schoolcrm/core/attendance"
	"github.com/trezcool/schoolcrm/core/billing"
	"github.com/trezcool/schoolcrm/core/grading"
	"github.com/trezcool/schoolcrm/core/metric"
	"github.com/trezcool/schoolcrm/core/payroll"
	"github.com/trezcool/schoolcrm/core/roster"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		Attendance *roster.Service[attendance.Mark]
		Grading    *roster.Service[grading.Grade]
		Payroll    *roster.Service[payroll.Slip]
		Billing    *billing.Service
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		scale    metric.GradeScale
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = core.NopLogger
	}
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		scale:      metric.FineScale,
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	if scale, err := metric.ScaleByName(deps.Conf.GradeScale); err == nil {
		s.scale = scale
	} else {
		s.Logger.Warn("unknown grade scale, using the fine one", err)
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.signalShutdown)
	s.app.Debug = debug
	s.app.HideBanner = true

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	registerRegisterAPI(v1, s.registers())
	registerReportAPI(v1, s.Grading, s.Payroll, s.scale)
	registerInvoiceAPI(v1, s.Billing, s.Validate)
}

// registers maps every register kind to its typed handlers. Kinds without a service are not served.
func (s *Server) registers() map[string]register {
	regs := make(map[string]register, len(roster.Kinds))
	if s.Attendance != nil {
		for _, kind := range roster.Kinds {
			if attendance.IsKind(kind) {
				regs[kind] = typedRegister[attendance.Mark]{
					svc:      s.Attendance,
					validate: s.Validate,
					summary:  attendanceSummary,
				}
			}
		}
	}
	if s.Grading != nil {
		regs[roster.KindGrading] = typedRegister[grading.Grade]{
			svc:      s.Grading,
			validate: s.Validate,
			summary:  gradingSummary(s.scale),
		}
	}
	if s.Payroll != nil {
		regs[roster.KindPayroll] = typedRegister[payroll.Slip]{
			svc:      s.Payroll,
			validate: s.Validate,
			summary:  payrollSummary,
		}
	}
	return regs
}

// Start serves until the listener fails. The error is sent to Errors().
func (s *Server) Start() {
	s.Logger.Info("API listening on " + s.Conf.Server.Address)
	if err := s.app.Start(s.Conf.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.Conf.AppName+" API!")
}
