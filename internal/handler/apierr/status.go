// Package apierr maps service errors onto HTTP responses.
package apierr

import (
	"errors"
	"net/http"

	"github.com/zhouzirui/charbot/internal/model/persona"
	chatService "github.com/zhouzirui/charbot/internal/service/chat"
	"github.com/zhouzirui/charbot/internal/service/conversation"
	"github.com/zhouzirui/charbot/pkg/utils"
)

var validationErrors = []error{
	persona.ErrInvalidGender,
	persona.ErrInvalidExpertise,
	persona.ErrInvalidTone,
	persona.ErrInvalidMood,
	persona.ErrInvalidVariant,
	persona.ErrUnknownPreset,
	conversation.ErrEmptyMessage,
	chatService.ErrEmptyContent,
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, chatService.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, conversation.ErrNotStarted):
		return http.StatusConflict
	case conversation.IsRemoteFailure(err):
		return http.StatusBadGateway
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// Respond writes err with its mapped status.
func Respond(w http.ResponseWriter, err error) {
	utils.RespondError(w, Status(err), err.Error())
}
