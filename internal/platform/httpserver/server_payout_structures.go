package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	payoutdomainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"
	payouthttp "rewardsplit/contexts/finance-core/payout-structure-service/transport/http"
)

func (s *Server) handleCreateStructure(w http.ResponseWriter, r *http.Request) {
	var req payouthttp.CreateStructureRequest
	if err := decodeBody(r, &req); err != nil {
		writePayoutError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.payouts.Handler.CreateStructureHandler(r.Context(), operatorID(r), req)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	resp, err := s.payouts.Handler.GetStructureHandler(r.Context(), r.PathValue("structure_id"))
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteStructure(w http.ResponseWriter, r *http.Request) {
	resp, err := s.payouts.Handler.DeleteStructureHandler(r.Context(), operatorID(r), r.PathValue("structure_id"))
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeTotalReward(w http.ResponseWriter, r *http.Request) {
	var req payouthttp.ValueRequest
	if err := decodeBody(r, &req); err != nil {
		writePayoutError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.payouts.Handler.ChangeTotalRewardHandler(r.Context(), operatorID(r), r.PathValue("structure_id"), req)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAppendRow(w http.ResponseWriter, r *http.Request) {
	var req payouthttp.RowInputDTO
	if err := decodeBody(r, &req); err != nil {
		writePayoutError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.payouts.Handler.AppendRowHandler(r.Context(), operatorID(r), r.PathValue("structure_id"), req)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	rowIndex, ok := parseRowIndex(w, r)
	if !ok {
		return
	}
	resp, err := s.payouts.Handler.RemoveRowHandler(r.Context(), operatorID(r), r.PathValue("structure_id"), rowIndex)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChangeRowField(w http.ResponseWriter, r *http.Request) {
	rowIndex, ok := parseRowIndex(w, r)
	if !ok {
		return
	}
	var req payouthttp.ValueRequest
	if err := decodeBody(r, &req); err != nil {
		writePayoutError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.payouts.Handler.ChangeRowFieldHandler(
		r.Context(),
		operatorID(r),
		r.PathValue("structure_id"),
		rowIndex,
		r.PathValue("field"),
		req,
	)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClearField(w http.ResponseWriter, r *http.Request) {
	rowIndex, ok := parseRowIndex(w, r)
	if !ok {
		return
	}
	resp, err := s.payouts.Handler.ClearFieldHandler(
		r.Context(),
		operatorID(r),
		r.PathValue("structure_id"),
		rowIndex,
		r.PathValue("field"),
	)
	if err != nil {
		writePayoutDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePayoutDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payoutdomainerrors.ErrInvalidRecipientCount):
		writePayoutError(w, http.StatusUnprocessableEntity, "invalid_recipient_count", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrInvalidPercent):
		writePayoutError(w, http.StatusUnprocessableEntity, "invalid_percent", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrInvalidCurrency):
		writePayoutError(w, http.StatusUnprocessableEntity, "invalid_currency", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrInvalidTotalReward):
		writePayoutError(w, http.StatusUnprocessableEntity, "invalid_total_reward", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrInvalidField):
		writePayoutError(w, http.StatusBadRequest, "invalid_field", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrInvalidInput):
		writePayoutError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrStructureNotFound):
		writePayoutError(w, http.StatusNotFound, "structure_not_found", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrRowNotFound):
		writePayoutError(w, http.StatusNotFound, "row_not_found", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrForbidden):
		writePayoutError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrTooManyRows):
		writePayoutError(w, http.StatusConflict, "too_many_rows", err.Error())
	case errors.Is(err, payoutdomainerrors.ErrConflict):
		writePayoutError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writePayoutError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePayoutError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, payouthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// Largest request body read; anything past it fails to decode.
const maxRequestBodyBytes = 64 << 10

// decodeBody accepts an empty body as the zero request.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func parseRowIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	rowIndex, err := strconv.Atoi(r.PathValue("row_index"))
	if err != nil {
		writePayoutError(w, http.StatusBadRequest, "invalid_row_index", "row_index must be an integer")
		return 0, false
	}
	return rowIndex, true
}

func operatorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}
