package rpc

import (
	"errors"
	"net/http"

	"blinkchain/core/state"
	"blinkchain/native/common"
	"blinkchain/native/swap"
)

type swapCreateParams struct {
	Caller  string `json:"caller"`
	TokenA  string `json:"tokenA"`
	TokenB  string `json:"tokenB"`
	AmountA uint64 `json:"amountA"`
	AmountB uint64 `json:"amountB"`
	Fee     uint64 `json:"fee"`
}

type swapLegParams struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type swapExecuteParams struct {
	Caller string        `json:"caller"`
	ID     string        `json:"id"`
	LegA   swapLegParams `json:"legA"`
	LegB   swapLegParams `json:"legB"`
}

type swapIDParams struct {
	ID string `json:"id"`
}

type swapQuoteParams struct {
	AmountIn   uint64 `json:"amountIn"`
	ReserveIn  uint64 `json:"reserveIn"`
	ReserveOut uint64 `json:"reserveOut"`
	Fee        uint64 `json:"fee"`
}

type swapResult struct {
	ID         string `json:"id"`
	Owner      string `json:"owner"`
	TokenA     string `json:"tokenA"`
	TokenB     string `json:"tokenB"`
	AmountA    uint64 `json:"amountA"`
	AmountB    uint64 `json:"amountB"`
	Fee        uint64 `json:"fee"`
	CreatedAt  int64  `json:"createdAt"`
	ExecutedAt *int64 `json:"executedAt,omitempty"`
}

type swapQuoteResult struct {
	AmountOut uint64 `json:"amountOut"`
}

func formatSwap(record *swap.Swap) swapResult {
	result := swapResult{
		ID:        formatID(record.ID),
		Owner:     formatAddress(record.Owner),
		TokenA:    record.TokenA,
		TokenB:    record.TokenB,
		AmountA:   record.AmountA,
		AmountB:   record.AmountB,
		Fee:       record.Fee,
		CreatedAt: record.CreatedAt,
	}
	if record.ExecutedAt != nil {
		executedAt := *record.ExecutedAt
		result.ExecutedAt = &executedAt
	}
	return result
}

func swapErrorCode(err error) int {
	switch {
	case errors.Is(err, swap.ErrNotFound),
		errors.Is(err, swap.ErrUnauthorized),
		errors.Is(err, swap.ErrAlreadyExecuted),
		errors.Is(err, swap.ErrFeeTooHigh),
		errors.Is(err, swap.ErrInvalidSwapParameters),
		errors.Is(err, common.ErrMathOverflow),
		errors.Is(err, state.ErrInsufficientBalance):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

func parseLeg(params swapLegParams) (swap.Leg, error) {
	from, err := decodeAddress(params.From)
	if err != nil {
		return swap.Leg{}, err
	}
	to, err := decodeAddress(params.To)
	if err != nil {
		return swap.Leg{}, err
	}
	return swap.Leg{From: from, To: to}, nil
}

func (s *Server) handleSwapCreate(w http.ResponseWriter, req *RPCRequest) {
	var params swapCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	record, err := s.node.SwapCreate(owner, params.TokenA, params.TokenB, params.AmountA, params.AmountB, params.Fee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, swapErrorCode(err), "failed to create swap", err.Error())
		return
	}
	writeResult(w, req.ID, formatSwap(record))
}

func (s *Server) handleSwapExecute(w http.ResponseWriter, req *RPCRequest) {
	var params swapExecuteParams
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
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid swap id", err.Error())
		return
	}
	legA, err := parseLeg(params.LegA)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid legA", err.Error())
		return
	}
	legB, err := parseLeg(params.LegB)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid legB", err.Error())
		return
	}
	record, err := s.node.SwapExecute(id, caller, legA, legB)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, swapErrorCode(err), "failed to execute swap", err.Error())
		return
	}
	writeResult(w, req.ID, formatSwap(record))
}

func (s *Server) handleSwapGet(w http.ResponseWriter, req *RPCRequest) {
	var params swapIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid swap id", err.Error())
		return
	}
	record, err := s.node.SwapGet(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, swapErrorCode(err), "failed to fetch swap", err.Error())
		return
	}
	writeResult(w, req.ID, formatSwap(record))
}

func (s *Server) handleSwapQuote(w http.ResponseWriter, req *RPCRequest) {
	var params swapQuoteParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	out, err := s.node.SwapQuote(params.AmountIn, params.ReserveIn, params.ReserveOut, params.Fee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, swapErrorCode(err), "failed to quote swap", err.Error())
		return
	}
	writeResult(w, req.ID, swapQuoteResult{AmountOut: out})
}
