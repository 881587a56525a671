package rpc

import (
	"errors"
	"net/http"

	"blinkchain/core/state"
	"blinkchain/native/donations"
	"blinkchain/native/records"
)

type donationCreateParams struct {
	Caller    string `json:"caller"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Message   string `json:"message"`
}

type donationIDParams struct {
	ID string `json:"id"`
}

type donationResult struct {
	ID        string `json:"id"`
	Donor     string `json:"donor"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

func formatDonation(record *donations.Donation) donationResult {
	amount := "0"
	if record.Amount != nil {
		amount = record.Amount.String()
	}
	return donationResult{
		ID:        formatID(record.ID),
		Donor:     formatAddress(record.Donor),
		Recipient: formatAddress(record.Recipient),
		Amount:    amount,
		Currency:  record.Currency,
		Message:   record.Message,
		Timestamp: record.Timestamp,
	}
}

func donationErrorCode(err error) int {
	switch {
	case errors.Is(err, donations.ErrNotFound),
		errors.Is(err, donations.ErrInvalidCurrency),
		errors.Is(err, donations.ErrInvalidAmount),
		errors.Is(err, records.ErrFieldTooLong),
		errors.Is(err, state.ErrInsufficientBalance):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

func (s *Server) handleDonationCreate(w http.ResponseWriter, req *RPCRequest) {
	var params donationCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	donor, err := decodeAddress(params.Caller)
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
	record, err := s.node.DonationCreate(donor, recipient, amount, params.Currency, params.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, donationErrorCode(err), "failed to create donation", err.Error())
		return
	}
	writeResult(w, req.ID, formatDonation(record))
}

func (s *Server) handleDonationGet(w http.ResponseWriter, req *RPCRequest) {
	var params donationIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid donation id", err.Error())
		return
	}
	record, err := s.node.DonationGet(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, donationErrorCode(err), "failed to fetch donation", err.Error())
		return
	}
	writeResult(w, req.ID, formatDonation(record))
}
