package rpc

import (
	"errors"
	"net/http"

	"blinkchain/core/state"
	"blinkchain/native/payments"
	"blinkchain/native/records"
)

type paymentCreateParams struct {
	Caller      string `json:"caller"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

type paymentIDParams struct {
	Caller string `json:"caller,omitempty"`
	ID     string `json:"id"`
}

type paymentResult struct {
	ID          string `json:"id"`
	Payer       string `json:"payer"`
	Recipient   string `json:"recipient"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp"`
}

func formatPayment(record *payments.Payment) paymentResult {
	amount := "0"
	if record.Amount != nil {
		amount = record.Amount.String()
	}
	return paymentResult{
		ID:          formatID(record.ID),
		Payer:       formatAddress(record.Payer),
		Recipient:   formatAddress(record.Recipient),
		Amount:      amount,
		Currency:    record.Currency,
		Description: record.Description,
		Status:      record.Status.String(),
		Timestamp:   record.Timestamp,
	}
}

func paymentErrorCode(err error) int {
	switch {
	case errors.Is(err, payments.ErrNotFound),
		errors.Is(err, payments.ErrUnauthorized),
		errors.Is(err, payments.ErrInvalidCurrency),
		errors.Is(err, payments.ErrInvalidAmount),
		errors.Is(err, payments.ErrInvalidStatus),
		errors.Is(err, records.ErrFieldTooLong),
		errors.Is(err, state.ErrInsufficientBalance):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

func (s *Server) handlePaymentCreate(w http.ResponseWriter, req *RPCRequest) {
	var params paymentCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	payer, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	recipient, err := decodeAddress(params.Recipient)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", err.Error())
		return
	}
	record, err := s.node.PaymentCreate(payer, recipient, amount, params.Currency, params.Description)
	if err != nil {
		// A failed transfer still yields a persisted Failed record; surface it
		// alongside the error so callers can reference the attempt.
		var data interface{} = err.Error()
		if record != nil {
			data = map[string]interface{}{"error": err.Error(), "payment": formatPayment(record)}
		}
		writeError(w, http.StatusBadRequest, req.ID, paymentErrorCode(err), "failed to create payment", data)
		return
	}
	writeResult(w, req.ID, formatPayment(record))
}

func (s *Server) handlePaymentRefund(w http.ResponseWriter, req *RPCRequest) {
	var params paymentIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid payment id", err.Error())
		return
	}
	record, err := s.node.PaymentRefund(id, caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, paymentErrorCode(err), "failed to refund payment", err.Error())
		return
	}
	writeResult(w, req.ID, formatPayment(record))
}

func (s *Server) handlePaymentGet(w http.ResponseWriter, req *RPCRequest) {
	var params paymentIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid payment id", err.Error())
		return
	}
	record, err := s.node.PaymentGet(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, paymentErrorCode(err), "failed to fetch payment", err.Error())
		return
	}
	writeResult(w, req.ID, formatPayment(record))
}
