package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type PwmResult struct {
	Requested int  `json:"requested"`
	Written   bool `json:"written"`
}

type ProfileInfo struct {
	configuration.Profile
	Active bool `json:"active"`
}

func (h *handlers) registerControlEndpoints(rest *echo.Echo, m ...echo.MiddlewareFunc) {
	group := rest.Group("/control", m...)

	group.POST("/pwm/", h.setPwm)
}

func (h *handlers) registerProfileEndpoints(rest *echo.Echo, m ...echo.MiddlewareFunc) {
	group := rest.Group("/profiles")

	group.GET("/", h.getProfiles)
	group.POST("/:"+urlParamId+"/", h.applyProfile, m...)
}

// sets the pwm of fan1 and/or fan2, bypassing the curve until the next tick
func (h *handlers) setPwm(c echo.Context) error {
	type request struct {
		fanId string
		value int
	}
	var requested []request
	for _, fanId := range []string{"fan1", "fan2"} {
		param := c.QueryParam(fanId)
		if len(param) <= 0 {
			continue
		}
		value, err := cast.ToIntE(param)
		if err != nil {
			return returnBadRequest(c, fmt.Errorf("invalid value for '%s': %s", fanId, param))
		}
		requested = append(requested, request{fanId: fanId, value: value})
	}
	if len(requested) <= 0 {
		return returnBadRequest(c, errors.New("at least one of 'fan1' or 'fan2' is required"))
	}

	// nothing is written unless every requested value is acceptable
	for _, r := range requested {
		if err := h.status.CheckManualPwm(r.fanId, r.value); err != nil {
			return returnBadRequest(c, err)
		}
	}

	result := map[string]PwmResult{}
	for _, r := range requested {
		written, err := h.status.SetManualPwm(r.fanId, r.value)
		if err != nil {
			return returnError(c, err)
		}
		result[r.fanId] = PwmResult{Requested: r.value, Written: written}
	}
	return c.JSONPretty(http.StatusOK, result, indentationChar)
}

func (h *handlers) getProfiles(c echo.Context) error {
	active := h.status.ActiveProfile()
	var result []ProfileInfo
	for _, profile := range configuration.Profiles() {
		result = append(result, ProfileInfo{
			Profile: profile,
			Active:  profile.Name == active,
		})
	}
	return c.JSONPretty(http.StatusOK, result, indentationChar)
}

func (h *handlers) applyProfile(c echo.Context) error {
	id := c.Param(urlParamId)
	if id != configuration.ProfileAuto {
		if _, ok := configuration.GetProfile(id); !ok {
			return returnNotFound(c, id)
		}
	}
	if err := h.status.ApplyProfile(id); err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, &Result{
		Name:    "OK",
		Message: "Switched to profile '" + h.status.ActiveProfile() + "'",
	}, indentationChar)
}
