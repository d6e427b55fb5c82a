package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/history"
	"github.com/fancontrol/fancontrol/internal/service"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	indentationChar = "  "

	EndpointPathAlive = "/alive/"

	defaultStreamInterval = 1 * time.Second
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// Status is the query and control surface exposed by the api
type Status interface {
	LatestSnapshot() (history.Snapshot, bool)
	RecentHistory(n int) []history.Snapshot
	HistoryStats() history.Stats
	Diagnostics() service.Diagnostics
	CheckManualPwm(fanId string, value int) error
	SetManualPwm(fanId string, value int) (bool, error)
	ApplyProfile(name string) error
	ActiveProfile() string
}

type handlers struct {
	status         Status
	streamInterval time.Duration
}

// CreateRestService creates the echo instance serving the api.
// Request metrics are registered with the given registerer.
func CreateRestService(status Status, config configuration.ApiConfig, registerer prometheus.Registerer) (*echo.Echo, error) {
	return createRestService(status, config, registerer, defaultStreamInterval)
}

func createRestService(status Status, config configuration.ApiConfig, registerer prometheus.Registerer, streamInterval time.Duration) (*echo.Echo, error) {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Logger())
	echoRest.Use(middleware.Recover())

	metrics, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "api",
		Registerer: registerer,
	}.ToMiddleware()
	if err != nil {
		return nil, err
	}
	echoRest.Use(metrics)

	h := &handlers{
		status:         status,
		streamInterval: streamInterval,
	}

	echoRest.GET(EndpointPathAlive, isAlive)
	h.registerSensorEndpoints(echoRest)
	h.registerHistoryEndpoints(echoRest)
	h.registerStreamEndpoint(echoRest)

	protected := []echo.MiddlewareFunc{}
	if len(config.Username) > 0 && len(config.Password) > 0 {
		protected = append(protected, basicAuth(config.Username, config.Password))
	}
	h.registerControlEndpoints(echoRest, protected...)
	h.registerProfileEndpoints(echoRest, protected...)

	return echoRest, nil
}

func basicAuth(username string, password string) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(u string, p string, c echo.Context) (bool, error) {
			userMatch := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
			passwordMatch := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
			return userMatch && passwordMatch, nil
		},
		Realm: "Restricted",
	})
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
