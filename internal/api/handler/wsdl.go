package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed cumroad.wsdl
var wsdlDocument []byte

// WsdlHandler serves the static service description. GET on the SOAP
// endpoint and the /wsdl alias both return the same document.
type WsdlHandler struct{}

func NewWsdlHandler() *WsdlHandler {
	return &WsdlHandler{}
}

func (h *WsdlHandler) Serve(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/xml; charset=utf-8", wsdlDocument)
}
