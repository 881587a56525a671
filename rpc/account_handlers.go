package rpc

import (
	"net/http"
	"sort"
)

type accountGetParams struct {
	Address string `json:"address"`
}

type accountBalanceResult struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

type accountResult struct {
	Address         string                 `json:"address"`
	Nonce           uint64                 `json:"nonce"`
	Balances        []accountBalanceResult `json:"balances"`
	StorageReserved uint64                 `json:"storageReserved"`
}

func (s *Server) handleAccountGet(w http.ResponseWriter, req *RPCRequest) {
	var params accountGetParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	addr, err := decodeAddress(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	account, err := s.node.GetAccount(addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to fetch account", err.Error())
		return
	}
	result := accountResult{
		Address:         formatAddress(addr),
		Nonce:           account.Nonce,
		Balances:        make([]accountBalanceResult, 0, len(account.Balances)),
		StorageReserved: account.StorageReserved,
	}
	for token := range account.Balances {
		result.Balances = append(result.Balances, accountBalanceResult{
			Token:  token,
			Amount: account.Balance(token).String(),
		})
	}
	sort.Slice(result.Balances, func(i, j int) bool {
		return result.Balances[i].Token < result.Balances[j].Token
	})
	writeResult(w, req.ID, result)
}
