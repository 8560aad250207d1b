package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	pkgerrors "github.com/YodaBikarbona/school-book-server/pkg/errors"
	"github.com/YodaBikarbona/school-book-server/pkg/logger"
	"github.com/YodaBikarbona/school-book-server/pkg/types"
)

// nowFunc is swapped out in tests to pin server_time.
var nowFunc = time.Now

// WriteSuccess writes an OK envelope carrying a single result object.
// A nil result yields a message-only body.
func WriteSuccess(w http.ResponseWriter, message string, result any) {
	writeJSON(w, http.StatusOK, types.Envelope{
		Status:     types.StatusOK,
		Code:       http.StatusOK,
		ServerTime: nowFunc().UTC().Format(types.ServerTimeLayout),
		Message:    message,
		Result:     result,
	})
}

// WriteList writes an OK envelope carrying a results list.
func WriteList(w http.ResponseWriter, message string, results any) {
	writeJSON(w, http.StatusOK, types.Envelope{
		Status:     types.StatusOK,
		Code:       http.StatusOK,
		ServerTime: nowFunc().UTC().Format(types.ServerTimeLayout),
		Message:    message,
		Results:    results,
	})
}

// WriteError maps an error onto the ERROR envelope using the typed code's
// HTTP metadata. Internal details never leak; the public message is the
// typed message when present, otherwise the code's canned text.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if typed.Code() != pkgerrors.CodeInternal {
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	if logg != nil {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		})
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, types.Envelope{
		Status:     types.StatusError,
		Code:       meta.HTTPStatus,
		ServerTime: nowFunc().UTC().Format(types.ServerTimeLayout),
		Message:    msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
