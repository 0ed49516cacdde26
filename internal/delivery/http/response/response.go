// Package response defines the wire bodies both services return. The shapes
// are part of the client contract and must stay stable.
package response

import (
	"github.com/labstack/echo/v4"
)

// Ack acknowledges a successful write with no further detail.
type Ack struct {
	OK bool `json:"ok"`
}

// DispatchSummary reports the counts of one completed fan-out.
type DispatchSummary struct {
	OK        bool `json:"ok"`
	SentTo    int  `json:"sentTo"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
}

// NoRecipients is the success body when the recipient has no registered
// devices. Succeeded and failed counts are deliberately absent.
type NoRecipients struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	SentTo  int    `json:"sentTo"`
}

// ErrorBody carries a single human-readable error message.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK writes a success body with the given status code.
func OK(c echo.Context, statusCode int, body any) error {
	return c.JSON(statusCode, body)
}

// Error writes an error body with the given status code.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorBody{Error: message})
}
