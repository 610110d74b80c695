package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/invoix/wrapper-server/pkg/cspl/encoder"
	"github.com/invoix/wrapper-server/pkg/cspl/request"
)

const (
	errorJsonKey       = "error"
	requiredJsonKey    = "required"
	transactionJsonKey = "transaction"
	messageJsonKey     = "message"

	transactionCreatedMessage = "Transaction created successfully"
	internalErrorMessage      = "internal server error"
	rateLimitedMessage        = "too many requests"
)

type ApiResponseBody map[string]any

func NewTransactionResponseBody(transaction string) ApiResponseBody {
	return map[string]any{
		transactionJsonKey: transaction,
		messageJsonKey:     transactionCreatedMessage,
	}
}

func NewFailureResponseBody(err error) ApiResponseBody {
	return map[string]any{
		errorJsonKey: err.Error(),
	}
}

func (b *ApiResponseBody) ToString() string {
	marshalled, _ := json.Marshal(b)
	return string(marshalled)
}

func writeResponse(w http.ResponseWriter, statusCode int, body ApiResponseBody) error {
	w.Header().Set(contentTypeHeaderName, jsonContentTypeHeaderValue)
	w.WriteHeader(statusCode)
	_, err := w.Write([]byte(body.ToString()))
	return err
}

// HandleErrorInWebContext maps an engine error onto the status code and body
// shown to the caller. Internal failures are reported generically.
func HandleErrorInWebContext(err error) (int, ApiResponseBody) {
	if err == nil {
		return http.StatusOK, ApiResponseBody{}
	}

	var validationErr *request.ValidationError
	if errors.As(err, &validationErr) {
		if len(validationErr.Required) > 0 {
			return http.StatusBadRequest, ApiResponseBody{
				errorJsonKey:    fmt.Sprintf("Missing required fields: %s", strings.Join(validationErr.Required, ", ")),
				requiredJsonKey: validationErr.Required,
			}
		}
		return http.StatusBadRequest, NewFailureResponseBody(validationErr)
	}

	switch {
	case errors.Is(err, encoder.ErrUnsupportedOperation):
		return http.StatusBadRequest, NewFailureResponseBody(errors.New("unsupported operation"))
	case errors.Is(err, encoder.ErrInvalidArgument):
		return http.StatusBadRequest, NewFailureResponseBody(err)
	default:
		return http.StatusInternalServerError, NewFailureResponseBody(errors.New(internalErrorMessage))
	}
}
