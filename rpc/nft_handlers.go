package rpc

import (
	"errors"
	"net/http"

	"blinkchain/native/nft"
	"blinkchain/native/records"
)

type nftCreateParams struct {
	Caller string `json:"caller"`
	Mint   string `json:"mint"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

type nftIDParams struct {
	Caller string `json:"caller,omitempty"`
	ID     string `json:"id"`
}

type nftAssignParams struct {
	Caller       string `json:"caller"`
	NFTID        string `json:"nftId"`
	CollectionID string `json:"collectionId"`
}

type collectionCreateParams struct {
	Caller string `json:"caller"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

type collectionUpdateParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

type mintCreateParams struct {
	Caller string `json:"caller"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

type nftResult struct {
	ID         string `json:"id"`
	Owner      string `json:"owner"`
	Mint       string `json:"mint"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	URI        string `json:"uri"`
	Collection string `json:"collection,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}

type collectionResult struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	URI       string `json:"uri"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

func formatNFT(record *nft.NFT) nftResult {
	result := nftResult{
		ID:        formatID(record.ID),
		Owner:     formatAddress(record.Owner),
		Mint:      formatID(record.Mint),
		Name:      record.Name,
		Symbol:    record.Symbol,
		URI:       record.URI,
		CreatedAt: record.CreatedAt,
	}
	if record.InCollection() {
		result.Collection = formatID(record.Collection)
	}
	return result
}

func formatCollection(record *nft.Collection) collectionResult {
	return collectionResult{
		ID:        formatID(record.ID),
		Owner:     formatAddress(record.Owner),
		Name:      record.Name,
		Symbol:    record.Symbol,
		URI:       record.URI,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func nftErrorCode(err error) int {
	switch {
	case errors.Is(err, nft.ErrNotFound),
		errors.Is(err, nft.ErrCollectionNotFound),
		errors.Is(err, nft.ErrUnauthorized),
		errors.Is(err, nft.ErrAlreadyInCollection),
		errors.Is(err, records.ErrFieldTooLong):
		return codeInvalidParams
	default:
		return codeServerError
	}
}

func (s *Server) handleNFTCreate(w http.ResponseWriter, req *RPCRequest) {
	var params nftCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	mint, err := decodeRecordID(params.Mint)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid mint id", err.Error())
		return
	}
	record, err := s.node.NFTCreate(owner, mint, params.Name, params.Symbol, params.URI)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to create nft", err.Error())
		return
	}
	writeResult(w, req.ID, formatNFT(record))
}

func (s *Server) handleNFTDelete(w http.ResponseWriter, req *RPCRequest) {
	var params nftIDParams
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
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid nft id", err.Error())
		return
	}
	if err := s.node.NFTDelete(id, caller); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to delete nft", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]bool{"deleted": true})
}

func (s *Server) handleNFTGet(w http.ResponseWriter, req *RPCRequest) {
	var params nftIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid nft id", err.Error())
		return
	}
	record, err := s.node.NFTGet(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to fetch nft", err.Error())
		return
	}
	writeResult(w, req.ID, formatNFT(record))
}

func (s *Server) handleNFTAddToCollection(w http.ResponseWriter, req *RPCRequest) {
	var params nftAssignParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	nftID, err := decodeRecordID(params.NFTID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid nft id", err.Error())
		return
	}
	collectionID, err := decodeRecordID(params.CollectionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid collection id", err.Error())
		return
	}
	record, err := s.node.NFTAddToCollection(nftID, collectionID, caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to assign nft", err.Error())
		return
	}
	writeResult(w, req.ID, formatNFT(record))
}

func (s *Server) handleCollectionCreate(w http.ResponseWriter, req *RPCRequest) {
	var params collectionCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	record, err := s.node.CollectionCreate(owner, params.Name, params.Symbol, params.URI)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to create collection", err.Error())
		return
	}
	writeResult(w, req.ID, formatCollection(record))
}

func (s *Server) handleCollectionUpdate(w http.ResponseWriter, req *RPCRequest) {
	var params collectionUpdateParams
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
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid collection id", err.Error())
		return
	}
	record, err := s.node.CollectionUpdate(id, caller, params.Name, params.Symbol, params.URI)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to update collection", err.Error())
		return
	}
	writeResult(w, req.ID, formatCollection(record))
}

func (s *Server) handleCollectionDelete(w http.ResponseWriter, req *RPCRequest) {
	var params nftIDParams
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
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid collection id", err.Error())
		return
	}
	if err := s.node.CollectionDelete(id, caller); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to delete collection", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]bool{"deleted": true})
}

func (s *Server) handleCollectionGet(w http.ResponseWriter, req *RPCRequest) {
	var params nftIDParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	id, err := decodeRecordID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid collection id", err.Error())
		return
	}
	record, err := s.node.CollectionGet(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to fetch collection", err.Error())
		return
	}
	writeResult(w, req.ID, formatCollection(record))
}

func (s *Server) handleMintCreate(w http.ResponseWriter, req *RPCRequest) {
	var params mintCreateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	authority, err := decodeAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.MintCreate(authority, params.Name, params.Symbol, params.URI); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, nftErrorCode(err), "failed to create mint", err.Error())
		return
	}
	writeResult(w, req.ID, map[string]bool{"published": true})
}
