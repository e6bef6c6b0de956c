package model

import "time"

const EnvelopeVersion = "v1"

type Envelope struct {
	Version string       `json:"version"`
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorBody   `json:"error"`
	Meta    EnvelopeMeta `json:"meta"`
}

type ErrorBody struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type EnvelopeMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	ChainID   int64     `json:"chain_id"`
}

type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	Native   bool   `json:"native,omitempty"`
}

type BalanceInfo struct {
	Symbol          string `json:"symbol"`
	AmountBaseUnits string `json:"amount_base_units"`
	AmountDecimal   string `json:"amount_decimal"`
	Decimals        int    `json:"decimals"`
}

type ParsedIntent struct {
	Operation string `json:"operation"`
	Command   string `json:"command"`
	Amount    string `json:"amount,omitempty"`
	AmountAll bool   `json:"amount_all,omitempty"`
	Token     string `json:"token"`
	TokenOut  string `json:"token_out,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	RateMode  string `json:"rate_mode,omitempty"`
}

type ExecutionSummary struct {
	ExecutionID     string `json:"execution_id"`
	Command         string `json:"command"`
	Operation       string `json:"operation"`
	Phase           string `json:"phase"`
	FailedPhase     string `json:"failed_phase,omitempty"`
	Token           string `json:"token,omitempty"`
	AmountBaseUnits string `json:"amount_base_units,omitempty"`
	MinAmountOut    string `json:"min_amount_out,omitempty"`
	ApprovalTxHash  string `json:"approval_tx_hash,omitempty"`
	TxHash          string `json:"tx_hash,omitempty"`
	Succeeded       bool   `json:"succeeded"`
	Error           string `json:"error,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

type TxStatus struct {
	TxHash    string `json:"tx_hash"`
	Found     bool   `json:"found"`
	Succeeded bool   `json:"succeeded"`
}
