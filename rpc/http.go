package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"

	"blinkchain/core"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
)

type Server struct {
	node      *core.Node
	authToken string
}

// NewServer wires the JSON-RPC surface over the node. Mutating methods
// require a bearer token when BLINK_RPC_TOKEN is set in the environment.
func NewServer(node *core.Node) *Server {
	token := strings.TrimSpace(os.Getenv("BLINK_RPC_TOKEN"))
	return &Server{node: node, authToken: token}
}

// Handler returns the http handler serving the RPC endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	return mux
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return nil
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return &RPCError{Code: codeUnauthorized, Message: "bearer token required"}
	}
	supplied := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid token"}
	}
	return nil
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	if mutatesState(req.Method) {
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
	}

	switch req.Method {
	case "blink_create":
		s.handleBlinkCreate(w, req)
	case "blink_update":
		s.handleBlinkUpdate(w, req)
	case "blink_delete":
		s.handleBlinkDelete(w, req)
	case "blink_get":
		s.handleBlinkGet(w, req)
	case "nft_create":
		s.handleNFTCreate(w, req)
	case "nft_delete":
		s.handleNFTDelete(w, req)
	case "nft_get":
		s.handleNFTGet(w, req)
	case "nft_addToCollection":
		s.handleNFTAddToCollection(w, req)
	case "collection_create":
		s.handleCollectionCreate(w, req)
	case "collection_update":
		s.handleCollectionUpdate(w, req)
	case "collection_delete":
		s.handleCollectionDelete(w, req)
	case "collection_get":
		s.handleCollectionGet(w, req)
	case "mint_create":
		s.handleMintCreate(w, req)
	case "donation_create":
		s.handleDonationCreate(w, req)
	case "donation_get":
		s.handleDonationGet(w, req)
	case "payment_create":
		s.handlePaymentCreate(w, req)
	case "payment_refund":
		s.handlePaymentRefund(w, req)
	case "payment_get":
		s.handlePaymentGet(w, req)
	case "swap_create":
		s.handleSwapCreate(w, req)
	case "swap_execute":
		s.handleSwapExecute(w, req)
	case "swap_get":
		s.handleSwapGet(w, req)
	case "swap_quote":
		s.handleSwapQuote(w, req)
	case "account_get":
		s.handleAccountGet(w, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, "method not found", req.Method)
	}
}

// mutatesState reports whether the method writes to the ledger. Reads stay
// open even when an auth token is configured.
func mutatesState(method string) bool {
	switch method {
	case "blink_get", "nft_get", "collection_get", "donation_get",
		"payment_get", "swap_get", "swap_quote", "account_get":
		return false
	default:
		return true
	}
}

func singleParams(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "exactly one parameter object expected"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid parameter object", Data: err.Error()}
	}
	return nil
}

func decodeAddress(value string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("invalid address: %w", err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("invalid address length: %d bytes", len(raw))
	}
	copy(addr[:], raw)
	return addr, nil
}

func decodeRecordID(value string) ([32]byte, error) {
	var id [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return id, fmt.Errorf("invalid id: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("invalid id length: %d bytes", len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", value)
	}
	return amount, nil
}

func formatAddress(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func formatID(id [32]byte) string {
	return hex.EncodeToString(id[:])
}
