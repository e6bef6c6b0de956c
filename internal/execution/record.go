package execution

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Phase is the executor's position in the intent lifecycle. A record's final
// phase is Done or Failed; ConfirmationTimeout leaves the failing phase in
// place so a caller can see which transaction is ambiguous.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAllowanceCheck Phase = "allowance_check"
	PhaseApproving      Phase = "approving"
	PhaseConfirmed      Phase = "confirmed"
	PhaseExecuting      Phase = "executing"
	PhaseDone           Phase = "done"
	PhaseFailed         Phase = "failed"
)

// Record is the persisted trace of one executor invocation. It is created
// fresh per invocation and never reused across retries.
type Record struct {
	ExecutionID    string `json:"execution_id"`
	Command        string `json:"command"`
	Operation      string `json:"operation"`
	Phase          Phase  `json:"phase"`
	FailedPhase    Phase  `json:"failed_phase,omitempty"`
	Token          string `json:"token"`
	AmountBase     string `json:"amount_base_units"`
	MinAmountOut   string `json:"min_amount_out,omitempty"`
	ApprovalTxHash string `json:"approval_tx_hash,omitempty"`
	TxHash         string `json:"tx_hash,omitempty"`
	Succeeded      bool   `json:"succeeded"`
	Error          string `json:"error,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

func NewRecord(command, operation string) Record {
	now := time.Now().UTC().Format(time.RFC3339)
	return Record{
		ExecutionID: NewExecutionID(),
		Command:     command,
		Operation:   operation,
		Phase:       PhaseIdle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

func NewExecutionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "exec-unknown"
	}
	return fmt.Sprintf("exec_%s", hex.EncodeToString(b))
}
