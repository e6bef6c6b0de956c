package gateway

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	clierr "github.com/ggonzalez94/intent-cli/internal/errors"
)

type stubSigner struct{}

func (stubSigner) Address() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (stubSigner) SignTx(chainID *big.Int, tx *types.Transaction) (*types.Transaction, error) {
	return tx, nil
}

// newPendingRPC serves a node that knows its chain id but never has a receipt
// for any transaction.
func newPendingRPC(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch req.Method {
		case "eth_chainId":
			resp["result"] = "0x1"
		case "eth_getTransactionReceipt":
			resp["result"] = nil
		default:
			resp["result"] = "0x0"
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
}

func dialTestGateway(t *testing.T, url string) *EthGateway {
	t.Helper()
	opts := DefaultOptions()
	opts.PollInterval = 5 * time.Millisecond
	gw, err := Dial(context.Background(), url, stubSigner{}, opts)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(gw.Close)
	return gw
}

func TestAwaitConfirmationTimeout(t *testing.T) {
	srv := newPendingRPC(t)
	defer srv.Close()
	gw := dialTestGateway(t, srv.URL)

	pending := Pending{TxHash: common.HexToHash("0x01")}
	confirmation, err := gw.AwaitConfirmation(context.Background(), pending, 20*time.Millisecond)
	if !clierr.Is(err, clierr.CodeConfirmationTimeout) {
		t.Fatalf("err = %v, want confirmation timeout", err)
	}
	if confirmation.TxHash != pending.TxHash.Hex() {
		t.Fatalf("confirmation hash = %q", confirmation.TxHash)
	}
}

func TestAwaitConfirmationCallerAbortIsNotTimeout(t *testing.T) {
	srv := newPendingRPC(t)
	defer srv.Close()
	gw := dialTestGateway(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	pending := Pending{TxHash: common.HexToHash("0x02")}
	_, err := gw.AwaitConfirmation(ctx, pending, time.Minute)
	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
	if clierr.Is(err, clierr.CodeConfirmationTimeout) {
		t.Fatalf("caller abort reported as timeout: %v", err)
	}
}
