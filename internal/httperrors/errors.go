package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// HTTPError is the generic error body. Internals are never exposed to
// the caller, unexpected errors are logged and replaced with a generic
// message.
type HTTPError struct {
	Error string `json:"error" example:"the month query parameter must be set"`
}

// New generates a struct containing the HTTP error on the fly.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		}
		msg = fmt.Sprintf("%+v", msg)
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.JSON(status, HTTPError{
		Error: msg,
	})
}

// InvalidUUID responds with a 400 for unparseable resource IDs.
func InvalidUUID(c *gin.Context) {
	New(c, http.StatusBadRequest, "the specified resource ID is not a valid UUID")
}

// InvalidQueryString responds with a 400 for unparseable query strings.
func InvalidQueryString(c *gin.Context) {
	New(c, http.StatusBadRequest, "the query string contains unparseable data, please check the values")
}

// Handler translates errors that are not already classified by the
// models package into HTTP responses.
func Handler(c *gin.Context, err error) {
	// No record found => 404
	if errors.Is(err, gorm.ErrRecordNotFound) {
		New(c, http.StatusNotFound, "there is no resource for the ID you specified")

		// End of file reached when reading the body
	} else if errors.Is(io.EOF, err) {
		New(c, http.StatusBadRequest, "the request body must not be empty")

		// Time could not be parsed, the error string explains the
		// problem well enough to return it
	} else if reflect.TypeOf(err) == reflect.TypeOf(&time.ParseError{}) {
		New(c, http.StatusBadRequest, err.Error())

		// Database error we cannot say anything useful about
	} else if reflect.TypeOf(err) == reflect.TypeOf(&sqlite.Error{}) {
		log.Error().Msgf("%T: %v", err, err.Error())
		New(c, http.StatusInternalServerError, "a database error occurred during your request")

		// All other errors
	} else {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		New(c, http.StatusInternalServerError, fmt.Sprintf("an error occurred on the server during your request, the request id is '%v'", requestid.Get(c)))
	}
}
