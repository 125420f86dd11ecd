package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Ok writes a success envelope.
func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Code: "SUCCESS", Data: data})
}

// Fail writes an error envelope with the given status.
func Fail(c echo.Context, status int, code, msg string, details interface{}) error {
	return c.JSON(status, Envelope{Code: code, Message: msg, Details: details})
}
