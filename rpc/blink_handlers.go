package rpc

import (
	"errors"
	"net/http"

	"blinkchain/native/blink"
	"blinkchain/native/records"
)

type blinkCreateParams struct {
	Caller      string `json:"caller"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Type        string `json:"type"`
}

type blinkUpdateParams struct {
	Caller      string `json:"caller"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type blinkIDParams struct {
	Caller string `json:"caller,omitempty"`
	ID     string `json:"id"`
}

type blinkResult struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Type        string `json:"type"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

func formatBlink(record *blink.Blink) blinkResult {
	return blinkResult{
		ID:          formatID(record.ID),
		Owner:       formatAddress(record.Owner),
		Name:        record.Name,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		Type:        record.Type.String(),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func parseBlinkType(label string) (blink.BlinkType, bool) {
	for typ := blink.TypeStandard; typ <= blink.TypePoll; typ++ {
		if typ.String() == label {
			return typ, true
		}
	}
	return 0, false
}

// blinkErrorCode maps engine failures onto RPC error codes: validation and
// lookup problems are the caller's fault, everything else is the server's.
func blinkErrorCode(err error) int {
	switch {
	case errors.Is(err, blink.ErrNotFound),
		errors.Is(err, blink.ErrUnauthorized),
		errors.Is(err, blink.ErrInvalidBlinkType),
		errors.Is(err, records.ErrFieldTooLong):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

func (s *Server) handleBlinkCreate(w http.ResponseWriter, req *RPCRequest) {
	var params blinkCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	typ, ok := parseBlinkType(params.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid blink type", params.Type)
		return
	}
	record, err := s.node.BlinkCreate(owner, params.Name, params.Description, params.ImageURL, typ)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, blinkErrorCode(err), "failed to create blink", err.Error())
		return
	}
	writeResult(w, req.ID, formatBlink(record))
}

func (s *Server) handleBlinkUpdate(w http.ResponseWriter, req *RPCRequest) {
	var params blinkUpdateParams
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
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid blink id", err.Error())
		return
	}
	record, err := s.node.BlinkUpdate(id, caller, params.Name, params.Description, params.ImageURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, blinkErrorCode(err), "failed to update blink", err.Error())
		return
	}
	writeResult(w, req.ID, formatBlink(record))
}

func (s *Server) handleBlinkDelete(w http.ResponseWriter, req *RPCRequest) {
	var params blinkIDParams
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
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid blink id", err.Error())
		return
	}
	if err := s.node.BlinkDelete(id, caller); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, blinkErrorCode(err), "failed to delete blink", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]bool{"deleted": true})
}

func (s *Server) handleBlinkGet(w http.ResponseWriter, req *RPCRequest) {
	var params blinkIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid blink id", err.Error())
		return
	}
	record, err := s.node.BlinkGet(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, blinkErrorCode(err), "failed to fetch blink", err.Error())
		return
	}
	writeResult(w, req.ID, formatBlink(record))
}
