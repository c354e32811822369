package controller

import (
	"github.com/noah-isme/student-registry-api/internal/dto"
)

// Request is the transport-neutral input handed to controller actions.
type Request struct {
	Body  []byte
	Query map[string]string
}

// Param returns the raw query value and whether it was sent at all.
func (r Request) Param(key string) (string, bool) {
	value, ok := r.Query[key]
	return value, ok
}

// Response is the transport-neutral outcome of a controller action. A nil Body means no content.
type Response struct {
	StatusCode int
	Body       interface{}
}

func respond(status int, body interface{}) Response {
	return Response{StatusCode: status, Body: body}
}

func fail(status int, message string) Response {
	return Response{StatusCode: status, Body: dto.ErrorResponse{Message: message}}
}
