package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"tripbook/shared/constant"
	"tripbook/shared/failure"
	"tripbook/shared/logger"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error carries the HTTP status next to the message so clients polling in a loop can branch
// on the body alone.
type Error struct {
	Error *string `json:"error,omitempty"`
	Code  int     `json:"code"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithAccepted answers 202 with payload and points Location at the resource to poll.
func WithAccepted(writer http.ResponseWriter, location string, jsonPayload interface{}) {
	writer.Header().Set(constant.RequestHeaderLocation, location)

	WithJSON(writer, http.StatusAccepted, jsonPayload)
}

// WithError maps err to its failure code. Errors that are not a failure.Failure are
// reported as a bare internal error, their text stays in the logs.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	errMsg := err.Error()

	var f *failure.Failure
	if !errors.As(err, &f) {
		errMsg = constant.ResponseErrorInternal
	}

	response(writer, code, Error{Error: &errMsg, Code: code})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(writer, constant.ResponseErrorInternal, http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
