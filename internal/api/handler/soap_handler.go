package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cumroad/commerce-soap/internal/api/metrics"
	"github.com/cumroad/commerce-soap/internal/soap"
)

const soapContentType = "text/xml; charset=utf-8"

// SoapHandler exposes the dispatcher on the single POST endpoint. All
// protocol outcomes, success and fault alike, leave through here as
// well-formed envelopes.
type SoapHandler struct {
	dispatcher *soap.Dispatcher
}

func NewSoapHandler(d *soap.Dispatcher) *SoapHandler {
	return &SoapHandler{dispatcher: d}
}

// Handle serves POST /soap.
func (h *SoapHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		out := soap.EncodeFault(soap.FaultValidation, "unable to read request body", nil)
		return c.Blob(http.StatusInternalServerError, soapContentType, out)
	}

	start := time.Now()
	res := h.dispatcher.Handle(
		c.Request().Context(),
		body,
		c.Request().Header.Get("SOAPAction"),
		c.Request().Header.Get(echo.HeaderAuthorization),
	)

	operation := res.Operation
	if operation == "" {
		operation = "unknown"
	}
	outcome := "success"
	if res.Fault != "" {
		outcome = "fault"
		metrics.SoapFaultsTotal.WithLabelValues(string(res.Fault)).Inc()
	}
	metrics.SoapRequestsTotal.WithLabelValues(operation, outcome).Inc()
	metrics.SoapRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	return c.Blob(res.Status, soapContentType, res.Body)
}
